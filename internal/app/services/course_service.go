package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/views"
	"github.com/yigit/tutorhub/internal/pkg/filestorage"
)

// CourseStore manages an institution's courses and faculty
type CourseStore interface {
	ListCourses(ctx context.Context, institutionID int64) ([]models.Course, error)
	GetCourse(ctx context.Context, institutionID, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error)
	UpdateCourse(ctx context.Context, c *models.Course) (*models.Course, error)
	DeactivateCourse(ctx context.Context, institutionID, id int64) (*models.Course, error)
	ListFaculty(ctx context.Context, institutionID int64) ([]models.InstitutionFaculty, error)
	CreateFaculty(ctx context.Context, f *models.InstitutionFaculty) (*models.InstitutionFaculty, error)
	UpdateFaculty(ctx context.Context, f *models.InstitutionFaculty) (*models.InstitutionFaculty, error)
	DeleteFaculty(ctx context.Context, institutionID, id int64) error
}

// CourseService handles the courses and faculty tabs of the institution dashboard
type CourseService struct {
	store    CourseStore
	resolver InstitutionResolver
	uploads  uploader
	logger   zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store CourseStore, resolver InstitutionResolver, storage filestorage.FileStorage, inTx TxRunner[UploadStore], logger zerolog.Logger) *CourseService {
	return &CourseService{
		store:    store,
		resolver: resolver,
		uploads:  uploader{storage: storage, inTx: inTx, logger: logger},
		logger:   logger,
	}
}

// Courses lists the courses of the caller's institution
func (s *CourseService) Courses(ctx context.Context, userID int64) (Tab[dto.CourseView], error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return Tab[dto.CourseView]{}, err
	}
	t := loadTab(ctx, s.logger, ResourceCourses, inst.ID, s.store.ListCourses)
	return Tab[dto.CourseView]{Items: views.Courses(t.Items), Failed: t.Failed}, nil
}

// CreateCourse adds a course to the caller's institution
func (s *CourseService) CreateCourse(ctx context.Context, userID int64, req *dto.CourseRequest) (*dto.CourseView, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := courseFromRequest(req)
	c.InstitutionID = inst.ID
	c.IsActive = true
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	created, err := s.store.CreateCourse(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("institutionID", inst.ID).Int64("courseID", created.ID).Msg("Course created")
	return courseView(created), nil
}

// UpdateCourse replaces a course's fields. An omitted isActive keeps the current value.
func (s *CourseService) UpdateCourse(ctx context.Context, userID, courseID int64, req *dto.CourseRequest) (*dto.CourseView, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, err := s.store.GetCourse(ctx, inst.ID, courseID)
	if err != nil {
		return nil, err
	}

	c := courseFromRequest(req)
	c.ID = current.ID
	c.InstitutionID = inst.ID
	c.IsActive = current.IsActive
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	updated, err := s.store.UpdateCourse(ctx, c)
	if err != nil {
		return nil, err
	}
	return courseView(updated), nil
}

// DeleteCourse deactivates a course. Enrollments and history are kept.
func (s *CourseService) DeleteCourse(ctx context.Context, userID, courseID int64) (*dto.CourseView, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.DeactivateCourse(ctx, inst.ID, courseID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("institutionID", inst.ID).Int64("courseID", courseID).Msg("Course deactivated")
	return courseView(c), nil
}

// UploadSyllabus stores a syllabus document and links it to the course
func (s *CourseService) UploadSyllabus(ctx context.Context, userID, courseID int64, upload FileUpload) (*dto.CourseView, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetCourse(ctx, inst.ID, courseID); err != nil {
		return nil, err
	}

	c, err := storeUpload(ctx, s.uploads, syllabusPolicy, upload, courseID, userID,
		func(ctx context.Context, store UploadStore, url string) (*models.Course, error) {
			return store.SetCourseSyllabus(ctx, inst.ID, courseID, url)
		})
	if err != nil {
		return nil, err
	}
	return courseView(c), nil
}

// Faculty lists the faculty members of the caller's institution
func (s *CourseService) Faculty(ctx context.Context, userID int64) (Tab[models.InstitutionFaculty], error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return Tab[models.InstitutionFaculty]{}, err
	}
	return loadTab(ctx, s.logger, ResourceFaculty, inst.ID, s.store.ListFaculty), nil
}

// AddFaculty adds a faculty member to the caller's institution
func (s *CourseService) AddFaculty(ctx context.Context, userID int64, req *dto.FacultyRequest) (*models.InstitutionFaculty, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	f := facultyFromRequest(req)
	f.InstitutionID = inst.ID
	return s.store.CreateFaculty(ctx, f)
}

// UpdateFaculty replaces the fields of a faculty member owned by the caller's institution
func (s *CourseService) UpdateFaculty(ctx context.Context, userID, facultyID int64, req *dto.FacultyRequest) (*models.InstitutionFaculty, error) {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	f := facultyFromRequest(req)
	f.ID = facultyID
	f.InstitutionID = inst.ID
	return s.store.UpdateFaculty(ctx, f)
}

// RemoveFaculty deletes a faculty member owned by the caller's institution
func (s *CourseService) RemoveFaculty(ctx context.Context, userID, facultyID int64) error {
	inst, err := s.resolver.InstitutionFor(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.DeleteFaculty(ctx, inst.ID, facultyID)
}

func courseFromRequest(req *dto.CourseRequest) *models.Course {
	return &models.Course{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Subject:       req.Subject,
		Level:         req.Level,
		Fee:           req.Fee,
		Currency:      normalizeCurrency(req.Currency),
		DurationWeeks: req.DurationWeeks,
		Capacity:      req.Capacity,
	}
}

func courseView(c *models.Course) *dto.CourseView {
	return &views.Courses([]models.Course{*c})[0]
}

func facultyFromRequest(req *dto.FacultyRequest) *models.InstitutionFaculty {
	return &models.InstitutionFaculty{
		Name:            strings.TrimSpace(req.Name),
		Designation:     req.Designation,
		Qualification:   req.Qualification,
		Subject:         req.Subject,
		ExperienceYears: req.ExperienceYears,
		Email:           req.Email,
	}
}
