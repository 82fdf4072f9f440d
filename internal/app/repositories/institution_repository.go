package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/logger"
)

var institutionColumns = []string{
	"id", "user_id", "name", "description", "website", "address", "city",
	"logo_url", "established_year", "verified", "created_at", "updated_at",
}

var facultyColumns = []string{
	"id", "institution_id", "name", "designation", "qualification", "subject",
	"experience_years", "email", "created_at",
}

// InstitutionRepository handles institution profiles, their related sets and faculty
type InstitutionRepository struct {
	db DBTX
}

// NewInstitutionRepository creates a new InstitutionRepository
func NewInstitutionRepository(db DBTX) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// Create inserts the profile of a freshly registered institution
func (r *InstitutionRepository) Create(ctx context.Context, p *models.InstitutionProfile) error {
	sql, args, err := psql.Insert("institution_profiles").
		Columns("user_id", "name", "city", "address", "website").
		Values(p.UserID, p.Name, p.City, p.Address, p.Website).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create institution query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return wrapQueryError(err)
	}
	return nil
}

// GetByID retrieves an institution profile
func (r *InstitutionRepository) GetByID(ctx context.Context, id int64) (*models.InstitutionProfile, error) {
	p, err := selectOne[models.InstitutionProfile](ctx, r.db,
		psql.Select(institutionColumns...).From("institution_profiles").Where(squirrel.Eq{"id": id}))
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.ErrInstitutionNotFound
	}
	return p, err
}

// GetByUserID retrieves the institution owned by a user account
func (r *InstitutionRepository) GetByUserID(ctx context.Context, userID int64) (*models.InstitutionProfile, error) {
	p, err := selectOne[models.InstitutionProfile](ctx, r.db,
		psql.Select(institutionColumns...).From("institution_profiles").Where(squirrel.Eq{"user_id": userID}))
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.ErrInstitutionNotFound
	}
	return p, err
}

// ListByIDs loads many profiles at once, keyed by id
func (r *InstitutionRepository) ListByIDs(ctx context.Context, ids []int64) (map[int64]*models.InstitutionProfile, error) {
	out := make(map[int64]*models.InstitutionProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	items, err := selectAll[models.InstitutionProfile](ctx, r.db,
		psql.Select(institutionColumns...).From("institution_profiles").Where("id = ANY(?)", ids))
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

// UpdateSettings replaces the editable fields of a profile
func (r *InstitutionRepository) UpdateSettings(ctx context.Context, p *models.InstitutionProfile) (*models.InstitutionProfile, error) {
	return updateReturning[models.InstitutionProfile](ctx, r.db, "institution_profiles", p.ID, 0, map[string]interface{}{
		"name":             p.Name,
		"description":      p.Description,
		"website":          p.Website,
		"address":          p.Address,
		"city":             p.City,
		"established_year": p.EstablishedYear,
		"updated_at":       time.Now(),
	})
}

// SetVerified overwrites the verified flag
func (r *InstitutionRepository) SetVerified(ctx context.Context, id int64, verified bool) (*models.InstitutionProfile, error) {
	p, err := updateReturning[models.InstitutionProfile](ctx, r.db, "institution_profiles", id, 0, map[string]interface{}{
		"verified":   verified,
		"updated_at": time.Now(),
	})
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.ErrInstitutionNotFound
	}
	return p, err
}

// SetLogo stores the public URL of the institution logo
func (r *InstitutionRepository) SetLogo(ctx context.Context, id int64, url string) (*models.InstitutionProfile, error) {
	return updateReturning[models.InstitutionProfile](ctx, r.db, "institution_profiles", id, 0, map[string]interface{}{
		"logo_url":   url,
		"updated_at": time.Now(),
	})
}

// LoadRelated batch-loads the seven related sets for the given institutions.
// Every requested id gets an entry with non-nil slices.
func (r *InstitutionRepository) LoadRelated(ctx context.Context, ids []int64) (map[int64]*models.InstitutionRelated, error) {
	out := make(map[int64]*models.InstitutionRelated, len(ids))
	for _, id := range ids {
		rel := models.NewInstitutionRelated()
		out[id] = &rel
	}
	if len(ids) == 0 {
		return out, nil
	}

	byInstitution := func(table string, cols ...string) squirrel.SelectBuilder {
		return psql.Select(cols...).From(table).Where("institution_id = ANY(?)", ids).OrderBy("id")
	}

	docs, err := selectAll[models.InstitutionDocument](ctx, r.db,
		byInstitution("institution_documents", "id", "institution_id", "document_type", "file_url", "created_at"))
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	for _, d := range docs {
		out[d.InstitutionID].Documents = append(out[d.InstitutionID].Documents, d)
	}

	facilities, err := selectAll[models.InstitutionFacility](ctx, r.db,
		byInstitution("institution_facilities", "id", "institution_id", "name", "description"))
	if err != nil {
		return nil, fmt.Errorf("facilities: %w", err)
	}
	for _, f := range facilities {
		out[f.InstitutionID].Facilities = append(out[f.InstitutionID].Facilities, f)
	}

	programs, err := selectAll[models.InstitutionProgram](ctx, r.db,
		byInstitution("institution_programs", "id", "institution_id", "name", "level", "duration"))
	if err != nil {
		return nil, fmt.Errorf("programs: %w", err)
	}
	for _, p := range programs {
		out[p.InstitutionID].Programs = append(out[p.InstitutionID].Programs, p)
	}

	faculty, err := selectAll[models.InstitutionFaculty](ctx, r.db, byInstitution("institution_faculty", facultyColumns...))
	if err != nil {
		return nil, fmt.Errorf("faculty: %w", err)
	}
	for _, f := range faculty {
		out[f.InstitutionID].Faculty = append(out[f.InstitutionID].Faculty, f)
	}

	results, err := selectAll[models.InstitutionResult](ctx, r.db,
		byInstitution("institution_results", "id", "institution_id", "year", "exam", "pass_rate", "toppers"))
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	for _, res := range results {
		out[res.InstitutionID].Results = append(out[res.InstitutionID].Results, res)
	}

	policies, err := selectAll[models.InstitutionFeePolicy](ctx, r.db,
		byInstitution("institution_fee_policies", "id", "institution_id", "title", "description"))
	if err != nil {
		return nil, fmt.Errorf("fee policies: %w", err)
	}
	for _, p := range policies {
		out[p.InstitutionID].FeePolicies = append(out[p.InstitutionID].FeePolicies, p)
	}

	flags, err := selectAll[models.InstitutionVerificationFlag](ctx, r.db,
		byInstitution("institution_verification_flags", "id", "institution_id", "flag", "note", "created_at"))
	if err != nil {
		return nil, fmt.Errorf("verification flags: %w", err)
	}
	for _, f := range flags {
		out[f.InstitutionID].VerificationFlags = append(out[f.InstitutionID].VerificationFlags, f)
	}

	logger.Debug().Int("institutions", len(ids)).Msg("Loaded institution related sets")
	return out, nil
}

// ListFaculty returns an institution's faculty members
func (r *InstitutionRepository) ListFaculty(ctx context.Context, institutionID int64) ([]models.InstitutionFaculty, error) {
	return selectAll[models.InstitutionFaculty](ctx, r.db, psql.Select(facultyColumns...).
		From("institution_faculty").
		Where(squirrel.Eq{"institution_id": institutionID}).
		OrderBy("name"))
}

// CreateFaculty adds a faculty member
func (r *InstitutionRepository) CreateFaculty(ctx context.Context, f *models.InstitutionFaculty) (*models.InstitutionFaculty, error) {
	return selectOne[models.InstitutionFaculty](ctx, r.db, psql.Insert("institution_faculty").
		Columns("institution_id", "name", "designation", "qualification", "subject", "experience_years", "email").
		Values(f.InstitutionID, f.Name, f.Designation, f.Qualification, f.Subject, f.ExperienceYears, f.Email).
		Suffix("RETURNING "+joinColumns(facultyColumns)))
}

// UpdateFaculty replaces a faculty member's fields within its institution
func (r *InstitutionRepository) UpdateFaculty(ctx context.Context, f *models.InstitutionFaculty) (*models.InstitutionFaculty, error) {
	return updateReturning[models.InstitutionFaculty](ctx, r.db, "institution_faculty", f.ID, f.InstitutionID, map[string]interface{}{
		"name":             f.Name,
		"designation":      f.Designation,
		"qualification":    f.Qualification,
		"subject":          f.Subject,
		"experience_years": f.ExperienceYears,
		"email":            f.Email,
	})
}

// DeleteFaculty removes a faculty member within its institution
func (r *InstitutionRepository) DeleteFaculty(ctx context.Context, institutionID, id int64) error {
	affected, err := exec(ctx, r.db, psql.Delete("institution_faculty").
		Where(squirrel.Eq{"id": id, "institution_id": institutionID}))
	if err != nil {
		return err
	}
	if affected == 0 {
		if missErr := classifyMiss(ctx, r.db, "institution_faculty", id, institutionID); missErr != nil {
			return missErr
		}
		return apperrors.ErrResourceNotFound
	}
	return nil
}
