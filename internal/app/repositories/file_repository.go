package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

var fileColumns = []string{
	"id", "file_name", "file_url", "file_size", "file_type",
	"resource_type", "resource_id", "uploaded_by", "created_at",
}

// FileRepository handles database operations for uploaded files
type FileRepository struct {
	db DBTX
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db DBTX) *FileRepository {
	return &FileRepository{db: db}
}

// GetByID retrieves a file by ID
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	return selectOne[models.File](ctx, r.db, psql.Select(fileColumns...).From("files").Where(squirrel.Eq{"id": id}))
}

// ListByResource returns the files attached to one resource, newest first
func (r *FileRepository) ListByResource(ctx context.Context, resourceType models.FileResourceType, resourceID int64) ([]models.File, error) {
	return selectAll[models.File](ctx, r.db, psql.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"resource_type": string(resourceType), "resource_id": resourceID}).
		OrderBy("created_at DESC"))
}

// Create records an uploaded file
func (r *FileRepository) Create(ctx context.Context, file *models.File) (int64, error) {
	sql, args, err := psql.Insert("files").
		Columns("file_name", "file_url", "file_size", "file_type", "resource_type", "resource_id", "uploaded_by").
		Values(file.FileName, file.FileURL, file.FileSize, file.FileType, string(file.ResourceType), file.ResourceID, file.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create file query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.CreatedAt); err != nil {
		return 0, fmt.Errorf("error creating file: %w", err)
	}
	return file.ID, nil
}

// Delete deletes a file record
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	affected, err := exec(ctx, r.db, psql.Delete("files").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
