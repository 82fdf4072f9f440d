package services

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/analytics"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/views"
	"golang.org/x/sync/errgroup"
)

// Institution dashboard resource names
const (
	ResourceCourses     = "courses"
	ResourceEnrollments = "enrollments"
	ResourceInquiries   = "inquiries"
	ResourceAdmissions  = "admissions"
	ResourceFaculty     = "institution_faculty"
)

// InstitutionResolver maps an authenticated account to the institution it owns
type InstitutionResolver interface {
	InstitutionFor(ctx context.Context, userID int64) (*models.InstitutionProfile, error)
}

// InstitutionDashboardStore reads the institution tabs and applies status changes
type InstitutionDashboardStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListCourses(ctx context.Context, institutionID int64) ([]models.Course, error)
	ListEnrollments(ctx context.Context, institutionID int64) ([]models.Enrollment, error)
	ListInquiries(ctx context.Context, institutionID int64) ([]models.Inquiry, error)
	ListAdmissions(ctx context.Context, institutionID int64) ([]models.Admission, error)
	ListFaculty(ctx context.Context, institutionID int64) ([]models.InstitutionFaculty, error)
	LatestSubmission(ctx context.Context, institutionID int64) (*models.InstitutionSubmission, error)
	TransitionInquiry(ctx context.Context, institutionID, id int64, status models.InquiryStatus, from []models.InquiryStatus) (*models.Inquiry, error)
	TransitionAdmission(ctx context.Context, institutionID, id int64, status models.AdmissionStatus, from []models.AdmissionStatus) (*models.Admission, error)
}

// Tab is one independently loaded collection. Failed is set when the load
// failed and Items is empty because of it.
type Tab[T any] struct {
	Items  []T
	Failed bool
}

// InstitutionDashboardService serves the read side of the institution dashboard
type InstitutionDashboardService struct {
	store    InstitutionDashboardStore
	resolver InstitutionResolver
	logger   zerolog.Logger
}

// NewInstitutionDashboardService creates a new InstitutionDashboardService
func NewInstitutionDashboardService(store InstitutionDashboardStore, resolver InstitutionResolver, logger zerolog.Logger) *InstitutionDashboardService {
	return &InstitutionDashboardService{store: store, resolver: resolver, logger: logger}
}

// loadTab runs one loader for institutionID. Errors are logged and turned into an empty, failed tab.
func loadTab[T any](ctx context.Context, logger zerolog.Logger, resource string, institutionID int64, fn func(context.Context, int64) ([]T, error)) Tab[T] {
	items, err := fn(ctx, institutionID)
	if err != nil {
		logger.Error().Err(err).Str("resource", resource).Int64("institutionID", institutionID).Msg("Failed to load institution resource")
		return Tab[T]{Items: []T{}, Failed: true}
	}
	if items == nil {
		items = []T{}
	}
	return Tab[T]{Items: items}
}

// institutionData is every collection of one institution, loaded concurrently
type institutionData struct {
	courses     Tab[models.Course]
	enrollments Tab[models.Enrollment]
	inquiries   Tab[models.Inquiry]
	admissions  Tab[models.Admission]
	faculty     Tab[models.InstitutionFaculty]
}

func (d *institutionData) input() analytics.InstitutionInput {
	return analytics.InstitutionInput{
		Courses:     d.courses.Items,
		Enrollments: d.enrollments.Items,
		Faculty:     d.faculty.Items,
		Inquiries:   d.inquiries.Items,
		Admissions:  d.admissions.Items,
	}
}

func (d *institutionData) failed() []string {
	failed := []string{}
	for name, f := range map[string]bool{
		ResourceCourses:     d.courses.Failed,
		ResourceEnrollments: d.enrollments.Failed,
		ResourceInquiries:   d.inquiries.Failed,
		ResourceAdmissions:  d.admissions.Failed,
		ResourceFaculty:     d.faculty.Failed,
	} {
		if f {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

func (s *InstitutionDashboardService) loadAll(ctx context.Context, institutionID int64, withFaculty bool) *institutionData {
	d := &institutionData{faculty: Tab[models.InstitutionFaculty]{Items: []models.InstitutionFaculty{}}}

	// each goroutine owns one field of d
	var g errgroup.Group
	g.Go(func() error {
		d.courses = loadTab(ctx, s.logger, ResourceCourses, institutionID, s.store.ListCourses)
		return nil
	})
	g.Go(func() error {
		d.enrollments = loadTab(ctx, s.logger, ResourceEnrollments, institutionID, s.store.ListEnrollments)
		return nil
	})
	g.Go(func() error {
		d.inquiries = loadTab(ctx, s.logger, ResourceInquiries, institutionID, s.store.ListInquiries)
		return nil
	})
	g.Go(func() error {
		d.admissions = loadTab(ctx, s.logger, ResourceAdmissions, institutionID, s.store.ListAdmissions)
		return nil
	})
	if withFaculty {
		g.Go(func() error {
			d.faculty = loadTab(ctx, s.logger, ResourceFaculty, institutionID, s.store.ListFaculty)
			return nil
		})
	}
	_ = g.Wait()
	return d
}

// verificationStatus is the account status shown next to the profile. It
// falls back to pending when the account cannot be read.
func (s *InstitutionDashboardService) verificationStatus(ctx context.Context, userID int64) models.VerificationStatus {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to load institution account status")
		return models.VerificationPending
	}
	return views.DisplayVerificationStatus(user.Role, user.VerificationStatus)
}

// Overview returns the profile header and the stats cards
func (s *InstitutionDashboardService) Overview(ctx context.Context, userID int64) (*dto.InstitutionOverviewResponse, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := s.loadAll(ctx, inst.ID, true)

	latest, err := s.store.LatestSubmission(ctx, inst.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("institutionID", inst.ID).Msg("Failed to load latest submission")
		latest = nil
	}

	return &dto.InstitutionOverviewResponse{
		Profile:          views.InstitutionProfile(*inst, s.verificationStatus(ctx, inst.UserID)),
		Stats:            analytics.ComputeInstitutionStats(data.input()),
		LatestSubmission: latest,
		FailedResources:  data.failed(),
	}, nil
}

// Inquiries lists the inquiries received by the caller's institution
func (s *InstitutionDashboardService) Inquiries(ctx context.Context, userID int64) (Tab[models.Inquiry], error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return Tab[models.Inquiry]{}, err
	}
	return loadTab(ctx, s.logger, ResourceInquiries, inst.ID, s.store.ListInquiries), nil
}

// SetInquiryStatus moves an inquiry of the caller's institution along its lifecycle
func (s *InstitutionDashboardService) SetInquiryStatus(ctx context.Context, userID, id int64, status string) (*models.Inquiry, error) {
	st := models.InquiryStatus(status)
	from, err := predecessors(models.InquiryLifecycle, st, status)
	if err != nil {
		return nil, err
	}
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.TransitionInquiry(ctx, inst.ID, id, st, from)
}

// Students lists the students enrolled in the institution's courses
func (s *InstitutionDashboardService) Students(ctx context.Context, userID int64) (Tab[dto.StudentRow], error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return Tab[dto.StudentRow]{}, err
	}
	t := loadTab(ctx, s.logger, ResourceEnrollments, inst.ID, s.store.ListEnrollments)
	return Tab[dto.StudentRow]{Items: views.Students(t.Items), Failed: t.Failed}, nil
}

// Admissions lists the admission applications of the caller's institution
func (s *InstitutionDashboardService) Admissions(ctx context.Context, userID int64) (Tab[models.Admission], error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return Tab[models.Admission]{}, err
	}
	return loadTab(ctx, s.logger, ResourceAdmissions, inst.ID, s.store.ListAdmissions), nil
}

// SetAdmissionStatus records a decision on an admission of the caller's institution
func (s *InstitutionDashboardService) SetAdmissionStatus(ctx context.Context, userID, id int64, status string) (*models.Admission, error) {
	st := models.AdmissionStatus(status)
	from, err := predecessors(models.AdmissionLifecycle, st, status)
	if err != nil {
		return nil, err
	}
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.TransitionAdmission(ctx, inst.ID, id, st, from)
}

// Fees returns the per-course fee schedule
func (s *InstitutionDashboardService) Fees(ctx context.Context, userID int64) (Tab[analytics.CourseFees], error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return Tab[analytics.CourseFees]{}, err
	}
	courses := loadTab(ctx, s.logger, ResourceCourses, inst.ID, s.store.ListCourses)
	enrollments := loadTab(ctx, s.logger, ResourceEnrollments, inst.ID, s.store.ListEnrollments)
	return Tab[analytics.CourseFees]{
		Items:  analytics.FeeSchedule(courses.Items, enrollments.Items),
		Failed: courses.Failed || enrollments.Failed,
	}, nil
}

// Reports returns enrollment and revenue by course plus the inquiry and admission funnels
func (s *InstitutionDashboardService) Reports(ctx context.Context, userID int64) (*dto.InstitutionReportsResponse, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	data := s.loadAll(ctx, inst.ID, false)
	return &dto.InstitutionReportsResponse{
		Reports:         analytics.BuildReports(data.input()),
		FailedResources: data.failed(),
	}, nil
}
