package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

const submissionsTable = "institution_submissions"

var submissionColumns = []string{
	"id", "institution_id", "status", "review_notes", "submitted_at", "reviewed_at", "reviewed_by",
}

// SubmissionRepository handles institution verification submissions. The table is optional.
type SubmissionRepository struct {
	db DBTX
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db DBTX) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// List returns submissions, pending first then newest
func (r *SubmissionRepository) List(ctx context.Context) ([]models.InstitutionSubmission, error) {
	if err := requireTable(ctx, r.db, submissionsTable); err != nil {
		return nil, err
	}
	return selectAll[models.InstitutionSubmission](ctx, r.db, psql.Select(submissionColumns...).
		From(submissionsTable).
		OrderBy("(status = 'pending') DESC", "submitted_at DESC"))
}

// GetByID retrieves one submission
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*models.InstitutionSubmission, error) {
	return selectOne[models.InstitutionSubmission](ctx, r.db,
		psql.Select(submissionColumns...).From(submissionsTable).Where(squirrel.Eq{"id": id}))
}

// Latest returns an institution's most recent submission, or nil when it has none
func (r *SubmissionRepository) Latest(ctx context.Context, institutionID int64) (*models.InstitutionSubmission, error) {
	s, err := selectOne[models.InstitutionSubmission](ctx, r.db, psql.Select(submissionColumns...).
		From(submissionsTable).
		Where(squirrel.Eq{"institution_id": institutionID}).
		OrderBy("submitted_at DESC", "id DESC").
		Limit(1))
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, nil
	}
	return s, err
}

// Create opens a pending submission. A second pending submission for the same
// institution is ErrSubmissionPending.
func (r *SubmissionRepository) Create(ctx context.Context, institutionID int64) (*models.InstitutionSubmission, error) {
	s, err := selectOne[models.InstitutionSubmission](ctx, r.db, psql.Insert(submissionsTable).
		Columns("institution_id", "status").
		Values(institutionID, string(models.SubmissionPending)).
		Suffix("RETURNING "+joinColumns(submissionColumns)))
	if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		return nil, apperrors.ErrSubmissionPending
	}
	return s, err
}

// SetDecision records the reviewer's decision on a submission
func (r *SubmissionRepository) SetDecision(ctx context.Context, id int64, status models.SubmissionStatus, notes *string, reviewerID int64) (*models.InstitutionSubmission, error) {
	var reviewer *int64
	if reviewerID != 0 {
		reviewer = &reviewerID
	}
	return updateReturning[models.InstitutionSubmission](ctx, r.db, submissionsTable, id, 0, map[string]interface{}{
		"status":       string(status),
		"review_notes": notes,
		"reviewed_at":  time.Now(),
		"reviewed_by":  reviewer,
	})
}

// ListInconsistent finds decided submissions, latest per institution, whose
// profile flag or account status disagree with the decision
func (r *SubmissionRepository) ListInconsistent(ctx context.Context) ([]models.InstitutionSubmission, error) {
	if err := requireTable(ctx, r.db, submissionsTable); err != nil {
		return nil, err
	}
	return selectAll[models.InstitutionSubmission](ctx, r.db, inconsistentSubmissionsQuery())
}

// inconsistentSubmissionsQuery selects each institution's latest decided submission
// when the profile flag or user status disagrees with it. A user whose verification
// was changed after the decision was reviewed is left alone: that later moderation
// action wins.
func inconsistentSubmissionsQuery() squirrel.SelectBuilder {
	return psql.Select(
		"s.id", "s.institution_id", "s.status", "s.review_notes", "s.submitted_at", "s.reviewed_at", "s.reviewed_by",
	).
		From(submissionsTable + " s").
		Join("institution_profiles p ON p.id = s.institution_id").
		Join("users u ON u.id = p.user_id").
		Where("s.id = (SELECT MAX(x.id) FROM " + submissionsTable + " x WHERE x.institution_id = s.institution_id)").
		Where("s.reviewed_at IS NOT NULL AND s.reviewed_at >= u.updated_at").
		Where(squirrel.Or{
			squirrel.Expr("s.status = 'approved' AND (NOT p.verified OR u.verification_status <> 'approved')"),
			squirrel.Expr("s.status = 'rejected' AND (p.verified OR u.verification_status <> 'rejected')"),
		}).
		OrderBy("s.id")
}
