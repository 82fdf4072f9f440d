package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/filestorage"
)

var errStoreDown = errors.New("store down")

// institutionFake backs every institution dashboard service with one in-memory institution
type institutionFake struct {
	mu          sync.Mutex
	inst        *models.InstitutionProfile
	user        *models.User
	courses     map[int64]*models.Course
	enrollments []models.Enrollment
	inquiries   []models.Inquiry
	admissions  []models.Admission
	faculty     []models.InstitutionFaculty
	submissions []models.InstitutionSubmission
	files       []models.File
	fail        map[string]bool

	inquiryFrom []models.InquiryStatus
}

func newInstitutionFake() *institutionFake {
	return &institutionFake{
		inst:    &models.InstitutionProfile{ID: 7, UserID: 70, Name: "Northside Academy"},
		user:    &models.User{ID: 70, Role: models.RoleInstitution, VerificationStatus: models.VerificationPending, IsActive: true},
		courses: map[int64]*models.Course{},
		fail:    map[string]bool{},
	}
}

func (f *institutionFake) failing(name string) error {
	if f.fail[name] {
		return errStoreDown
	}
	return nil
}

func (f *institutionFake) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst := *f.inst
	courses := copyMap(f.courses)
	files := append([]models.File(nil), f.files...)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.inst = &inst
		f.courses = courses
		f.files = files
	}
}

func (f *institutionFake) InstitutionFor(_ context.Context, userID int64) (*models.InstitutionProfile, error) {
	if userID != f.inst.UserID {
		return nil, apperrors.NewForbiddenError("no institution profile for this account")
	}
	inst := *f.inst
	return &inst, nil
}

func (f *institutionFake) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if err := f.failing("user"); err != nil {
		return nil, err
	}
	if id != f.user.ID {
		return nil, apperrors.ErrUserNotFound
	}
	u := *f.user
	return &u, nil
}

func (f *institutionFake) ListCourses(_ context.Context, _ int64) ([]models.Course, error) {
	if err := f.failing(ResourceCourses); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *institutionFake) ListEnrollments(_ context.Context, _ int64) ([]models.Enrollment, error) {
	return f.enrollments, f.failing(ResourceEnrollments)
}

func (f *institutionFake) ListInquiries(_ context.Context, _ int64) ([]models.Inquiry, error) {
	return f.inquiries, f.failing(ResourceInquiries)
}

func (f *institutionFake) ListAdmissions(_ context.Context, _ int64) ([]models.Admission, error) {
	return f.admissions, f.failing(ResourceAdmissions)
}

func (f *institutionFake) ListFaculty(_ context.Context, _ int64) ([]models.InstitutionFaculty, error) {
	return f.faculty, f.failing(ResourceFaculty)
}

func (f *institutionFake) LatestSubmission(_ context.Context, _ int64) (*models.InstitutionSubmission, error) {
	if len(f.submissions) == 0 {
		return nil, nil
	}
	s := f.submissions[len(f.submissions)-1]
	return &s, nil
}

func (f *institutionFake) CreateSubmission(_ context.Context, institutionID int64) (*models.InstitutionSubmission, error) {
	s := models.InstitutionSubmission{ID: int64(len(f.submissions) + 1), InstitutionID: institutionID, Status: models.SubmissionPending}
	f.submissions = append(f.submissions, s)
	return &s, nil
}

func (f *institutionFake) TransitionInquiry(_ context.Context, institutionID, id int64, status models.InquiryStatus, from []models.InquiryStatus) (*models.Inquiry, error) {
	f.inquiryFrom = from
	for i := range f.inquiries {
		q := &f.inquiries[i]
		if q.ID != id || q.InstitutionID != institutionID {
			continue
		}
		if !models.InquiryLifecycle.Allows(q.Status, status) {
			return nil, apperrors.ErrInvalidTransition
		}
		q.Status = status
		out := *q
		return &out, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *institutionFake) TransitionAdmission(_ context.Context, institutionID, id int64, status models.AdmissionStatus, _ []models.AdmissionStatus) (*models.Admission, error) {
	for i := range f.admissions {
		a := &f.admissions[i]
		if a.ID == id && a.InstitutionID == institutionID {
			if !models.AdmissionLifecycle.Allows(a.Status, status) {
				return nil, apperrors.ErrInvalidTransition
			}
			a.Status = status
			out := *a
			return &out, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *institutionFake) GetCourse(_ context.Context, institutionID, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if c.InstitutionID != institutionID {
		return nil, apperrors.ErrPermissionDenied
	}
	out := *c
	return &out, nil
}

func (f *institutionFake) CreateCourse(_ context.Context, c *models.Course) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = int64(len(f.courses) + 1)
	stored := *c
	f.courses[c.ID] = &stored
	return c, nil
}

func (f *institutionFake) UpdateCourse(_ context.Context, c *models.Course) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *c
	f.courses[c.ID] = &stored
	return c, nil
}

func (f *institutionFake) DeactivateCourse(_ context.Context, institutionID, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok || c.InstitutionID != institutionID {
		return nil, apperrors.ErrResourceNotFound
	}
	c.IsActive = false
	out := *c
	return &out, nil
}

func (f *institutionFake) CreateFaculty(_ context.Context, m *models.InstitutionFaculty) (*models.InstitutionFaculty, error) {
	m.ID = int64(len(f.faculty) + 1)
	f.faculty = append(f.faculty, *m)
	return m, nil
}

func (f *institutionFake) UpdateFaculty(_ context.Context, m *models.InstitutionFaculty) (*models.InstitutionFaculty, error) {
	for i := range f.faculty {
		if f.faculty[i].ID == m.ID && f.faculty[i].InstitutionID == m.InstitutionID {
			f.faculty[i] = *m
			return m, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *institutionFake) DeleteFaculty(_ context.Context, institutionID, id int64) error {
	for i := range f.faculty {
		if f.faculty[i].ID == id && f.faculty[i].InstitutionID == institutionID {
			f.faculty = append(f.faculty[:i], f.faculty[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (f *institutionFake) UpdateInstitutionSettings(_ context.Context, p *models.InstitutionProfile) (*models.InstitutionProfile, error) {
	stored := *p
	f.inst = &stored
	return p, nil
}

func (f *institutionFake) CreateFile(_ context.Context, file *models.File) (int64, error) {
	if err := f.failing("files"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, *file)
	return int64(len(f.files)), nil
}

func (f *institutionFake) SetCourseSyllabus(_ context.Context, institutionID, courseID int64, url string) (*models.Course, error) {
	if err := f.failing("attach"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[courseID]
	if !ok || c.InstitutionID != institutionID {
		return nil, apperrors.ErrResourceNotFound
	}
	c.SyllabusURL = &url
	out := *c
	return &out, nil
}

func (f *institutionFake) SetInstitutionLogo(_ context.Context, _ int64, url string) (*models.InstitutionProfile, error) {
	if err := f.failing("attach"); err != nil {
		return nil, err
	}
	f.inst.LogoURL = &url
	out := *f.inst
	return &out, nil
}

// memoryStorage is a FileStorage keeping objects in a map
type memoryStorage struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Save(_ context.Context, folder, filename string, r io.Reader) (*filestorage.StoredObject, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	key := folder + "/" + filename
	m.objects[key] = data
	return &filestorage.StoredObject{URL: "/uploads/" + key, Key: key, Size: int64(len(data))}, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}
