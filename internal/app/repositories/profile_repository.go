package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/tutorhub/internal/app/models"
)

// ProfileRepository handles tutor profiles
type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a tutor profile for a freshly registered user
func (r *ProfileRepository) Create(ctx context.Context, p *models.TutorProfile) error {
	subjects := p.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	sql, args, err := psql.Insert("profiles").
		Columns("user_id", "headline", "bio", "subjects", "hourly_rate", "currency").
		Values(p.UserID, p.Headline, p.Bio, subjects, p.HourlyRate, currency).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create profile query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return wrapQueryError(err)
	}
	return nil
}

// List returns every tutor profile with its owner's name and email
func (r *ProfileRepository) List(ctx context.Context) ([]models.TutorProfile, error) {
	q := psql.Select(
		"p.id", "p.user_id", "p.headline", "p.bio", "p.subjects", "p.hourly_rate", "p.currency",
		"p.verified", "p.rating", "p.created_at", "u.full_name AS tutor_name", "u.email AS tutor_email",
	).
		From("profiles p").
		LeftJoin("users u ON u.id = p.user_id").
		OrderBy("p.created_at DESC")
	return selectAll[models.TutorProfile](ctx, r.db, q)
}

// SetVerified overwrites a profile's verified flag
func (r *ProfileRepository) SetVerified(ctx context.Context, id int64, verified bool) (*models.TutorProfile, error) {
	return updateReturning[models.TutorProfile](ctx, r.db, "profiles", id, 0, map[string]interface{}{"verified": verified})
}
