package repositories

import (
	"context"

	"github.com/yigit/tutorhub/internal/app/models"
)

// ReviewRepository handles tutor reviews
type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns reviews with student and tutor names
func (r *ReviewRepository) List(ctx context.Context) ([]models.Review, error) {
	q := psql.Select(
		"r.id", "r.student_id", "r.tutor_id", "r.rating", "r.comment", "r.status", "r.created_at",
		"s.full_name AS student_name", "t.full_name AS tutor_name",
	).
		From("reviews r").
		LeftJoin("users s ON s.id = r.student_id").
		LeftJoin("users t ON t.id = r.tutor_id").
		OrderBy("r.created_at DESC")
	return selectAll[models.Review](ctx, r.db, q)
}

// SetStatus overwrites a review's moderation status
func (r *ReviewRepository) SetStatus(ctx context.Context, id int64, status models.ReviewStatus) (*models.Review, error) {
	return updateReturning[models.Review](ctx, r.db, "reviews", id, 0, map[string]interface{}{"status": string(status)})
}
