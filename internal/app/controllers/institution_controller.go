package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/analytics"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/services"
	"github.com/yigit/tutorhub/internal/middleware"
)

// InstitutionDashboard serves the institution dashboard tabs
type InstitutionDashboard interface {
	Overview(ctx context.Context, userID int64) (*dto.InstitutionOverviewResponse, error)
	Inquiries(ctx context.Context, userID int64) (services.Tab[models.Inquiry], error)
	SetInquiryStatus(ctx context.Context, userID, id int64, status string) (*models.Inquiry, error)
	Students(ctx context.Context, userID int64) (services.Tab[dto.StudentRow], error)
	Admissions(ctx context.Context, userID int64) (services.Tab[models.Admission], error)
	SetAdmissionStatus(ctx context.Context, userID, id int64, status string) (*models.Admission, error)
	Fees(ctx context.Context, userID int64) (services.Tab[analytics.CourseFees], error)
	Reports(ctx context.Context, userID int64) (*dto.InstitutionReportsResponse, error)
}

// CourseCatalog manages an institution's courses and faculty
type CourseCatalog interface {
	Courses(ctx context.Context, userID int64) (services.Tab[dto.CourseView], error)
	CreateCourse(ctx context.Context, userID int64, req *dto.CourseRequest) (*dto.CourseView, error)
	UpdateCourse(ctx context.Context, userID, courseID int64, req *dto.CourseRequest) (*dto.CourseView, error)
	DeleteCourse(ctx context.Context, userID, courseID int64) (*dto.CourseView, error)
	UploadSyllabus(ctx context.Context, userID, courseID int64, upload services.FileUpload) (*dto.CourseView, error)
	Faculty(ctx context.Context, userID int64) (services.Tab[models.InstitutionFaculty], error)
	AddFaculty(ctx context.Context, userID int64, req *dto.FacultyRequest) (*models.InstitutionFaculty, error)
	UpdateFaculty(ctx context.Context, userID, facultyID int64, req *dto.FacultyRequest) (*models.InstitutionFaculty, error)
	RemoveFaculty(ctx context.Context, userID, facultyID int64) error
}

// InstitutionSettings edits the institution profile and files verification requests
type InstitutionSettings interface {
	Settings(ctx context.Context, userID int64) (*dto.InstitutionProfileView, error)
	UpdateSettings(ctx context.Context, userID int64, req *dto.InstitutionSettingsRequest) (*dto.InstitutionProfileView, error)
	UploadLogo(ctx context.Context, userID int64, upload services.FileUpload) (*dto.InstitutionProfileView, error)
	Submit(ctx context.Context, userID int64) (*models.InstitutionSubmission, error)
}

// InstitutionController serves the dashboard of the signed-in institution
type InstitutionController struct {
	dashboard InstitutionDashboard
	courses   CourseCatalog
	settings  InstitutionSettings
	logger    zerolog.Logger
}

// NewInstitutionController creates a new InstitutionController
func NewInstitutionController(dashboard InstitutionDashboard, courses CourseCatalog, settings InstitutionSettings, logger zerolog.Logger) *InstitutionController {
	return &InstitutionController{
		dashboard: dashboard,
		courses:   courses,
		settings:  settings,
		logger:    logger,
	}
}

// tab runs a tab loader for the current user and writes the list envelope
func tab[T any](ctx *gin.Context, load func(ctx context.Context, userID int64) (services.Tab[T], error)) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	result, err := load(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondTab(ctx, result)
}

// Overview godoc
// @Summary Institution overview
// @Description Profile, headline stats and the latest verification submission. Collections that failed to load are counted as empty and named in failedResources.
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionOverviewResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "No institution profile for this account"
// @Router /institution/overview [get]
func (c *InstitutionController) Overview(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	resp, err := c.dashboard.Overview(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Inquiries godoc
// @Summary List inquiries
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Router /institution/inquiries [get]
func (c *InstitutionController) Inquiries(ctx *gin.Context) {
	tab(ctx, c.dashboard.Inquiries)
}

// SetInquiryStatus godoc
// @Summary Move an inquiry through its lifecycle
// @Tags institution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inquiry ID"
// @Param request body dto.UpdateStatusRequest true "new, contacted, converted or closed"
// @Success 200 {object} dto.APIResponse{data=models.Inquiry}
// @Failure 403 {object} dto.ErrorResponse "Inquiry belongs to another institution"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /institution/inquiries/{id}/status [patch]
func (c *InstitutionController) SetInquiryStatus(ctx *gin.Context) {
	c.setStatus(ctx, func(ctx context.Context, userID, id int64, status string) (interface{}, error) {
		return c.dashboard.SetInquiryStatus(ctx, userID, id, status)
	})
}

// Students godoc
// @Summary List enrolled students
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Router /institution/students [get]
func (c *InstitutionController) Students(ctx *gin.Context) {
	tab(ctx, c.dashboard.Students)
}

// Admissions godoc
// @Summary List admission applications
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Router /institution/admissions [get]
func (c *InstitutionController) Admissions(ctx *gin.Context) {
	tab(ctx, c.dashboard.Admissions)
}

// SetAdmissionStatus godoc
// @Summary Decide an admission application
// @Tags institution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admission ID"
// @Param request body dto.UpdateStatusRequest true "accepted, rejected or waitlisted"
// @Success 200 {object} dto.APIResponse{data=models.Admission}
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /institution/admissions/{id}/status [patch]
func (c *InstitutionController) SetAdmissionStatus(ctx *gin.Context) {
	c.setStatus(ctx, func(ctx context.Context, userID, id int64, status string) (interface{}, error) {
		return c.dashboard.SetAdmissionStatus(ctx, userID, id, status)
	})
}

func (c *InstitutionController) setStatus(ctx *gin.Context, apply func(ctx context.Context, userID, id int64, status string) (interface{}, error)) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	row, err := apply(ctx.Request.Context(), userID, id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: row})
}

// Fees godoc
// @Summary Fee schedule per course
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Router /institution/fees [get]
func (c *InstitutionController) Fees(ctx *gin.Context) {
	tab(ctx, c.dashboard.Fees)
}

// Reports godoc
// @Summary Enrollment, revenue and funnel reports
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionReportsResponse}
// @Router /institution/reports [get]
func (c *InstitutionController) Reports(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	resp, err := c.dashboard.Reports(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Courses godoc
// @Summary List courses
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Router /institution/courses [get]
func (c *InstitutionController) Courses(ctx *gin.Context) {
	tab(ctx, c.courses.Courses)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags institution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=dto.CourseView}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /institution/courses [post]
func (c *InstitutionController) CreateCourse(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	course, err := c.courses.CreateCourse(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: course})
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags institution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CourseRequest true "Course"
// @Success 200 {object} dto.APIResponse{data=dto.CourseView}
// @Failure 403 {object} dto.ErrorResponse "Course belongs to another institution"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /institution/courses/{id} [put]
func (c *InstitutionController) UpdateCourse(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	course, err := c.courses.UpdateCourse(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// DeleteCourse godoc
// @Summary Deactivate a course
// @Description Courses are soft deleted so enrollments keep their reference.
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseView}
// @Router /institution/courses/{id} [delete]
func (c *InstitutionController) DeleteCourse(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.courses.DeleteCourse(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// UploadSyllabus godoc
// @Summary Attach a syllabus PDF to a course
// @Tags institution
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param file formData file true "Syllabus (PDF, max 10MB)"
// @Success 200 {object} dto.APIResponse{data=dto.CourseView}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Router /institution/courses/{id}/syllabus [post]
func (c *InstitutionController) UploadSyllabus(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	upload, closeFile, ok := readUpload(ctx)
	if !ok {
		return
	}
	defer closeFile()

	course, err := c.courses.UploadSyllabus(ctx.Request.Context(), userID, id, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// Faculty godoc
// @Summary List faculty
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Router /institution/faculty [get]
func (c *InstitutionController) Faculty(ctx *gin.Context) {
	tab(ctx, c.courses.Faculty)
}

// AddFaculty godoc
// @Summary Add a faculty member
// @Tags institution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FacultyRequest true "Faculty member"
// @Success 201 {object} dto.APIResponse{data=models.InstitutionFaculty}
// @Router /institution/faculty [post]
func (c *InstitutionController) AddFaculty(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.FacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	member, err := c.courses.AddFaculty(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: member})
}

// UpdateFaculty godoc
// @Summary Update a faculty member
// @Tags institution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Faculty ID"
// @Param request body dto.FacultyRequest true "Faculty member"
// @Success 200 {object} dto.APIResponse{data=models.InstitutionFaculty}
// @Router /institution/faculty/{id} [put]
func (c *InstitutionController) UpdateFaculty(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.FacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	member, err := c.courses.UpdateFaculty(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: member})
}

// RemoveFaculty godoc
// @Summary Remove a faculty member
// @Tags institution
// @Security BearerAuth
// @Param id path int true "Faculty ID"
// @Success 204 "No Content"
// @Router /institution/faculty/{id} [delete]
func (c *InstitutionController) RemoveFaculty(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.courses.RemoveFaculty(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Settings godoc
// @Summary Institution profile settings
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionProfileView}
// @Router /institution/settings [get]
func (c *InstitutionController) Settings(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	view, err := c.settings.Settings(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: view})
}

// UpdateSettings godoc
// @Summary Update institution profile settings
// @Tags institution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InstitutionSettingsRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionProfileView}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /institution/settings [put]
func (c *InstitutionController) UpdateSettings(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.InstitutionSettingsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, err := c.settings.UpdateSettings(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: view})
}

// UploadLogo godoc
// @Summary Replace the institution logo
// @Tags institution
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Logo (PNG, JPEG or WebP, max 2MB)"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionProfileView}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Router /institution/settings/logo [post]
func (c *InstitutionController) UploadLogo(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	upload, closeFile, ok := readUpload(ctx)
	if !ok {
		return
	}
	defer closeFile()

	view, err := c.settings.UploadLogo(ctx.Request.Context(), userID, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: view})
}

// Submit godoc
// @Summary Submit the institution for verification
// @Tags institution
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=models.InstitutionSubmission}
// @Failure 409 {object} dto.ErrorResponse "A submission is already pending or the institution is verified"
// @Router /institution/submission [post]
func (c *InstitutionController) Submit(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	submission, err := c.settings.Submit(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("userID", userID).Int64("submissionID", submission.ID).Msg("Institution submitted for verification")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: submission})
}
