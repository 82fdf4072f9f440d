package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/analytics"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/services"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

const ownerID int64 = 70

// institutionFake serves user 70; any other caller is not the owner
type institutionFake struct {
	inquiries []models.Inquiry
	failTab   bool
	uploaded  []byte
	filename  string
	submitted int
}

func (f *institutionFake) owner(userID int64) error {
	if userID != ownerID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

func (f *institutionFake) Overview(_ context.Context, userID int64) (*dto.InstitutionOverviewResponse, error) {
	if err := f.owner(userID); err != nil {
		return nil, err
	}
	return &dto.InstitutionOverviewResponse{
		Profile:         dto.InstitutionProfileView{ID: 7, Name: "North Academy", Status: "pending"},
		Stats:           analytics.InstitutionStats{ActiveCourses: 1},
		FailedResources: []string{},
	}, nil
}

func (f *institutionFake) Inquiries(_ context.Context, userID int64) (services.Tab[models.Inquiry], error) {
	if err := f.owner(userID); err != nil {
		return services.Tab[models.Inquiry]{}, err
	}
	if f.failTab {
		return services.Tab[models.Inquiry]{Items: []models.Inquiry{}, Failed: true}, nil
	}
	return services.Tab[models.Inquiry]{Items: f.inquiries}, nil
}

func (f *institutionFake) SetInquiryStatus(_ context.Context, userID, id int64, status string) (*models.Inquiry, error) {
	if err := f.owner(userID); err != nil {
		return nil, err
	}
	if status == "new" {
		return nil, apperrors.ErrInvalidTransition
	}
	return &models.Inquiry{ID: id, Status: models.InquiryStatus(status)}, nil
}

func (f *institutionFake) Students(context.Context, int64) (services.Tab[dto.StudentRow], error) {
	return services.Tab[dto.StudentRow]{Items: []dto.StudentRow{{StudentName: "Grace"}}}, nil
}

func (f *institutionFake) Admissions(context.Context, int64) (services.Tab[models.Admission], error) {
	return services.Tab[models.Admission]{Items: []models.Admission{}}, nil
}

func (f *institutionFake) SetAdmissionStatus(_ context.Context, _, id int64, status string) (*models.Admission, error) {
	return &models.Admission{ID: id, Status: models.AdmissionStatus(status)}, nil
}

func (f *institutionFake) Fees(context.Context, int64) (services.Tab[analytics.CourseFees], error) {
	return services.Tab[analytics.CourseFees]{Items: []analytics.CourseFees{{CourseTitle: "Algebra", PaidCount: 2}}}, nil
}

func (f *institutionFake) Reports(context.Context, int64) (*dto.InstitutionReportsResponse, error) {
	return &dto.InstitutionReportsResponse{Reports: analytics.Reports{Revenue: 250}}, nil
}

func (f *institutionFake) Courses(context.Context, int64) (services.Tab[dto.CourseView], error) {
	return services.Tab[dto.CourseView]{Items: []dto.CourseView{}}, nil
}

func (f *institutionFake) CreateCourse(_ context.Context, _ int64, req *dto.CourseRequest) (*dto.CourseView, error) {
	return &dto.CourseView{Course: models.Course{ID: 11, Title: req.Title, IsActive: true}, DisplayFee: "$25.00"}, nil
}

func (f *institutionFake) UpdateCourse(_ context.Context, userID, courseID int64, req *dto.CourseRequest) (*dto.CourseView, error) {
	if courseID == 99 {
		return nil, apperrors.ErrPermissionDenied
	}
	return &dto.CourseView{Course: models.Course{ID: courseID, Title: req.Title}}, nil
}

func (f *institutionFake) DeleteCourse(_ context.Context, _, courseID int64) (*dto.CourseView, error) {
	return &dto.CourseView{Course: models.Course{ID: courseID, IsActive: false}}, nil
}

func (f *institutionFake) UploadSyllabus(_ context.Context, _, courseID int64, upload services.FileUpload) (*dto.CourseView, error) {
	body, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, err
	}
	f.uploaded = body
	f.filename = upload.Filename
	return &dto.CourseView{Course: models.Course{ID: courseID}}, nil
}

func (f *institutionFake) Faculty(context.Context, int64) (services.Tab[models.InstitutionFaculty], error) {
	return services.Tab[models.InstitutionFaculty]{Items: []models.InstitutionFaculty{}}, nil
}

func (f *institutionFake) AddFaculty(_ context.Context, _ int64, req *dto.FacultyRequest) (*models.InstitutionFaculty, error) {
	return &models.InstitutionFaculty{ID: 5, Name: req.Name}, nil
}

func (f *institutionFake) UpdateFaculty(_ context.Context, _, facultyID int64, req *dto.FacultyRequest) (*models.InstitutionFaculty, error) {
	return &models.InstitutionFaculty{ID: facultyID, Name: req.Name}, nil
}

func (f *institutionFake) RemoveFaculty(_ context.Context, _, facultyID int64) error {
	if facultyID == 404 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

func (f *institutionFake) Settings(context.Context, int64) (*dto.InstitutionProfileView, error) {
	return &dto.InstitutionProfileView{ID: 7, Name: "North Academy", Website: "N/A"}, nil
}

func (f *institutionFake) UpdateSettings(_ context.Context, _ int64, req *dto.InstitutionSettingsRequest) (*dto.InstitutionProfileView, error) {
	return &dto.InstitutionProfileView{ID: 7, Name: req.Name}, nil
}

func (f *institutionFake) UploadLogo(_ context.Context, _ int64, upload services.FileUpload) (*dto.InstitutionProfileView, error) {
	f.filename = upload.Filename
	return &dto.InstitutionProfileView{ID: 7, LogoURL: "/uploads/logos/" + upload.Filename}, nil
}

func (f *institutionFake) Submit(context.Context, int64) (*models.InstitutionSubmission, error) {
	f.submitted++
	if f.submitted > 1 {
		return nil, apperrors.ErrSubmissionPending
	}
	return &models.InstitutionSubmission{ID: 21, InstitutionID: 7, Status: models.SubmissionPending}, nil
}

func institutionRouter(f *institutionFake, userID int64) *gin.Engine {
	c := NewInstitutionController(f, f, f, zerolog.Nop())
	r := gin.New()
	g := r.Group("/institution", asUser(userID))
	g.GET("/overview", c.Overview)
	g.GET("/inquiries", c.Inquiries)
	g.PATCH("/inquiries/:id/status", c.SetInquiryStatus)
	g.GET("/students", c.Students)
	g.GET("/admissions", c.Admissions)
	g.PATCH("/admissions/:id/status", c.SetAdmissionStatus)
	g.GET("/fees", c.Fees)
	g.GET("/reports", c.Reports)
	g.GET("/courses", c.Courses)
	g.POST("/courses", c.CreateCourse)
	g.PUT("/courses/:id", c.UpdateCourse)
	g.DELETE("/courses/:id", c.DeleteCourse)
	g.POST("/courses/:id/syllabus", c.UploadSyllabus)
	g.GET("/faculty", c.Faculty)
	g.POST("/faculty", c.AddFaculty)
	g.PUT("/faculty/:id", c.UpdateFaculty)
	g.DELETE("/faculty/:id", c.RemoveFaculty)
	g.GET("/settings", c.Settings)
	g.PUT("/settings", c.UpdateSettings)
	g.POST("/settings/logo", c.UploadLogo)
	g.POST("/submission", c.Submit)
	return r
}

func multipartRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestInstitutionOverview(t *testing.T) {
	w := doJSON(institutionRouter(&institutionFake{}, ownerID), http.MethodGet, "/institution/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.InstitutionOverviewResponse
	decodeData(t, w, &resp)
	assert.Equal(t, "North Academy", resp.Profile.Name)
	assert.Equal(t, 1, resp.Stats.ActiveCourses)

	w = doJSON(institutionRouter(&institutionFake{}, 71), http.MethodGet, "/institution/overview", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInstitutionTabs(t *testing.T) {
	f := &institutionFake{}
	for i := int64(1); i <= 12; i++ {
		f.inquiries = append(f.inquiries, models.Inquiry{ID: i, Status: models.InquiryNew})
	}
	r := institutionRouter(f, ownerID)

	t.Run("whole collection without paging params", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/institution/inquiries", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Items      []models.Inquiry    `json:"items"`
			Failed     bool                `json:"failed"`
			Pagination *dto.PaginationInfo `json:"pagination"`
		}
		decodeData(t, w, &resp)
		assert.Len(t, resp.Items, 12)
		assert.False(t, resp.Failed)
		assert.Nil(t, resp.Pagination)
	})

	t.Run("paged", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/institution/inquiries?page=2&size=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Items      []models.Inquiry    `json:"items"`
			Pagination *dto.PaginationInfo `json:"pagination"`
		}
		decodeData(t, w, &resp)
		require.Len(t, resp.Items, 5)
		assert.Equal(t, int64(6), resp.Items[0].ID)
		require.NotNil(t, resp.Pagination)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
		assert.Equal(t, int64(12), resp.Pagination.TotalItems)
	})

	t.Run("failed load is an empty flagged list", func(t *testing.T) {
		f.failTab = true
		defer func() { f.failTab = false }()
		w := doJSON(r, http.MethodGet, "/institution/inquiries", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"items":[],"failed":true}}`, w.Body.String())
	})

	for _, target := range []string{"/institution/students", "/institution/admissions", "/institution/fees", "/institution/courses", "/institution/faculty", "/institution/reports", "/institution/settings"} {
		w := doJSON(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusOK, w.Code, target)
	}
}

func TestInstitutionStatusChanges(t *testing.T) {
	r := institutionRouter(&institutionFake{}, ownerID)

	w := doJSON(r, http.MethodPatch, "/institution/inquiries/3/status", dto.UpdateStatusRequest{Status: "contacted"})
	require.Equal(t, http.StatusOK, w.Code)
	var inquiry models.Inquiry
	decodeData(t, w, &inquiry)
	assert.Equal(t, models.InquiryContacted, inquiry.Status)

	w = doJSON(r, http.MethodPatch, "/institution/inquiries/3/status", dto.UpdateStatusRequest{Status: "new"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPatch, "/institution/admissions/0/status", dto.UpdateStatusRequest{Status: "accepted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/institution/admissions/4/status", dto.UpdateStatusRequest{Status: "accepted"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCourseEndpoints(t *testing.T) {
	r := institutionRouter(&institutionFake{}, ownerID)

	w := doJSON(r, http.MethodPost, "/institution/courses", dto.CourseRequest{Title: "Algebra I", Fee: 25, Currency: "USD"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course dto.CourseView
	decodeData(t, w, &course)
	assert.Equal(t, "$25.00", course.DisplayFee)

	w = doJSON(r, http.MethodPost, "/institution/courses", dto.CourseRequest{Title: "Algebra I", Currency: "dollars"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/institution/courses/99", dto.CourseRequest{Title: "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, "/institution/courses/11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &course)
	assert.False(t, course.IsActive)
}

func TestUploadSyllabus(t *testing.T) {
	f := &institutionFake{}
	r := institutionRouter(f, ownerID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/institution/courses/11/syllabus", "syllabus.pdf", []byte("%PDF-1.7")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "syllabus.pdf", f.filename)
	assert.Equal(t, []byte("%PDF-1.7"), f.uploaded)

	w = doJSON(r, http.MethodPost, "/institution/courses/11/syllabus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file", errorOf(t, w).Field)
}

func TestFacultyEndpoints(t *testing.T) {
	r := institutionRouter(&institutionFake{}, ownerID)

	w := doJSON(r, http.MethodPost, "/institution/faculty", dto.FacultyRequest{Name: "Dr. Noether"})
	assert.Equal(t, http.StatusCreated, w.Code)

	bad := "not-an-email"
	w = doJSON(r, http.MethodPost, "/institution/faculty", dto.FacultyRequest{Name: "Dr. Noether", Email: &bad})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/institution/faculty/5", dto.FacultyRequest{Name: "Prof. Noether"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/institution/faculty/5", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodDelete, "/institution/faculty/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsAndSubmission(t *testing.T) {
	f := &institutionFake{}
	r := institutionRouter(f, ownerID)

	w := doJSON(r, http.MethodPut, "/institution/settings", dto.InstitutionSettingsRequest{Name: "North Academy of Music"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/institution/settings", dto.InstitutionSettingsRequest{Name: "N"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/institution/settings/logo", "logo.png", []byte{0x89, 'P', 'N', 'G'}))
	require.Equal(t, http.StatusOK, w.Code)
	var view dto.InstitutionProfileView
	decodeData(t, w, &view)
	assert.Equal(t, "/uploads/logos/logo.png", view.LogoURL)

	w = doJSON(r, http.MethodPost, "/institution/submission", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var submission models.InstitutionSubmission
	decodeData(t, w, &submission)
	assert.Equal(t, models.SubmissionPending, submission.Status)

	w = doJSON(r, http.MethodPost, "/institution/submission", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
