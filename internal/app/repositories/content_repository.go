package repositories

import (
	"context"

	"github.com/yigit/tutorhub/internal/app/models"
)

// ContentRepository handles uploaded learning content. The table is optional.
type ContentRepository struct {
	db DBTX
}

func NewContentRepository(db DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) List(ctx context.Context) ([]models.Content, error) {
	if err := requireTable(ctx, r.db, "content"); err != nil {
		return nil, err
	}
	q := psql.Select(
		"c.id", "c.uploader_id", "c.title", "c.content_type", "c.file_url", "c.status", "c.created_at",
		"u.full_name AS uploader_name",
	).
		From("content c").
		LeftJoin("users u ON u.id = c.uploader_id").
		OrderBy("c.created_at DESC")
	return selectAll[models.Content](ctx, r.db, q)
}

func (r *ContentRepository) SetStatus(ctx context.Context, id int64, status models.ContentStatus) (*models.Content, error) {
	return updateReturning[models.Content](ctx, r.db, "content", id, 0, map[string]interface{}{"status": string(status)})
}
