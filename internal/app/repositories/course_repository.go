package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

var courseColumns = []string{
	"id", "institution_id", "title", "description", "subject", "level", "fee", "currency",
	"duration_weeks", "capacity", "syllabus_url", "is_active", "created_at", "updated_at",
}

// CourseRepository handles the institution operations tables: courses,
// enrollments, inquiries and admissions. Every query is scoped to one institution.
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListCourses returns an institution's courses, active first
func (r *CourseRepository) ListCourses(ctx context.Context, institutionID int64) ([]models.Course, error) {
	return selectAll[models.Course](ctx, r.db, psql.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"institution_id": institutionID}).
		OrderBy("is_active DESC", "title"))
}

// GetCourse loads a course of institutionID. A course of another institution is ErrPermissionDenied.
func (r *CourseRepository) GetCourse(ctx context.Context, institutionID, id int64) (*models.Course, error) {
	c, err := selectOne[models.Course](ctx, r.db, psql.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if c.InstitutionID != institutionID {
		return nil, apperrors.ErrPermissionDenied
	}
	return c, nil
}

// CreateCourse inserts a course
func (r *CourseRepository) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	return selectOne[models.Course](ctx, r.db, psql.Insert("courses").
		Columns("institution_id", "title", "description", "subject", "level", "fee", "currency",
			"duration_weeks", "capacity", "is_active").
		Values(c.InstitutionID, c.Title, c.Description, c.Subject, c.Level, c.Fee, c.Currency,
			c.DurationWeeks, c.Capacity, c.IsActive).
		Suffix("RETURNING "+joinColumns(courseColumns)))
}

// UpdateCourse replaces a course's editable fields within its institution
func (r *CourseRepository) UpdateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	return updateReturning[models.Course](ctx, r.db, "courses", c.ID, c.InstitutionID, map[string]interface{}{
		"title":          c.Title,
		"description":    c.Description,
		"subject":        c.Subject,
		"level":          c.Level,
		"fee":            c.Fee,
		"currency":       c.Currency,
		"duration_weeks": c.DurationWeeks,
		"capacity":       c.Capacity,
		"is_active":      c.IsActive,
		"updated_at":     time.Now(),
	})
}

// DeactivateCourse hides a course without removing its enrollments
func (r *CourseRepository) DeactivateCourse(ctx context.Context, institutionID, id int64) (*models.Course, error) {
	return updateReturning[models.Course](ctx, r.db, "courses", id, institutionID, map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	})
}

// SetSyllabus stores the public URL of a course syllabus
func (r *CourseRepository) SetSyllabus(ctx context.Context, institutionID, id int64, url string) (*models.Course, error) {
	return updateReturning[models.Course](ctx, r.db, "courses", id, institutionID, map[string]interface{}{
		"syllabus_url": url,
		"updated_at":   time.Now(),
	})
}

// ListEnrollments returns enrollments in the institution's courses with student and course names
func (r *CourseRepository) ListEnrollments(ctx context.Context, institutionID int64) ([]models.Enrollment, error) {
	q := psql.Select(
		"e.id", "e.course_id", "e.student_id", "e.status", "e.payment_status", "e.amount_paid", "e.enrolled_at",
		"u.full_name AS student_name", "u.email AS student_email", "c.title AS course_title",
	).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		LeftJoin("users u ON u.id = e.student_id").
		Where(squirrel.Eq{"c.institution_id": institutionID}).
		OrderBy("e.enrolled_at DESC")
	return selectAll[models.Enrollment](ctx, r.db, q)
}

// ListInquiries returns the institution's inquiries, newest first
func (r *CourseRepository) ListInquiries(ctx context.Context, institutionID int64) ([]models.Inquiry, error) {
	q := psql.Select(
		"i.id", "i.institution_id", "i.course_id", "i.name", "i.email", "i.phone", "i.message", "i.status", "i.created_at",
		"c.title AS course_title",
	).
		From("inquiries i").
		LeftJoin("courses c ON c.id = i.course_id").
		Where(squirrel.Eq{"i.institution_id": institutionID}).
		OrderBy("i.created_at DESC")
	return selectAll[models.Inquiry](ctx, r.db, q)
}

// TransitionInquiry moves an inquiry along its follow-up lifecycle
func (r *CourseRepository) TransitionInquiry(ctx context.Context, institutionID, id int64, status models.InquiryStatus, from []models.InquiryStatus) (*models.Inquiry, error) {
	return transition[models.Inquiry](ctx, r.db, "inquiries", id, institutionID, status, from)
}

// ListAdmissions returns the institution's admission applications, newest first
func (r *CourseRepository) ListAdmissions(ctx context.Context, institutionID int64) ([]models.Admission, error) {
	q := psql.Select(
		"a.id", "a.institution_id", "a.course_id", "a.applicant_name", "a.applicant_email", "a.status", "a.created_at",
		"c.title AS course_title",
	).
		From("admissions a").
		LeftJoin("courses c ON c.id = a.course_id").
		Where(squirrel.Eq{"a.institution_id": institutionID}).
		OrderBy("a.created_at DESC")
	return selectAll[models.Admission](ctx, r.db, q)
}

// TransitionAdmission moves an admission application to a decision
func (r *CourseRepository) TransitionAdmission(ctx context.Context, institutionID, id int64, status models.AdmissionStatus, from []models.AdmissionStatus) (*models.Admission, error) {
	return transition[models.Admission](ctx, r.db, "admissions", id, institutionID, status, from)
}
