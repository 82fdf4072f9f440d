package dto

import (
	"github.com/yigit/tutorhub/internal/app/analytics"
	"github.com/yigit/tutorhub/internal/app/models"
)

// InstitutionOverviewResponse is the institution dashboard header
type InstitutionOverviewResponse struct {
	Profile          InstitutionProfileView        `json:"profile"`
	Stats            analytics.InstitutionStats    `json:"stats"`
	LatestSubmission *models.InstitutionSubmission `json:"latestSubmission"`
	FailedResources  []string                      `json:"failedResources"`
}

// InstitutionProfileView is the profile with display defaults applied
type InstitutionProfileView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description" example:"N/A"`
	Website         string `json:"website" example:"N/A"`
	Address         string `json:"address" example:"N/A"`
	City            string `json:"city" example:"N/A"`
	LogoURL         string `json:"logoUrl"`
	EstablishedYear *int   `json:"establishedYear"`
	Verified        bool   `json:"verified"`
	Status          string `json:"status" example:"pending"`
}

// InstitutionListResponse wraps a tab collection. Failed is set when the load
// failed. Pagination is present only when the client asked for a page.
type InstitutionListResponse struct {
	Items      interface{}     `json:"items"`
	Failed     bool            `json:"failed"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// StudentRow is one enrolled student
type StudentRow struct {
	EnrollmentID  int64   `json:"enrollmentId"`
	StudentID     int64   `json:"studentId"`
	StudentName   string  `json:"studentName"`
	StudentEmail  string  `json:"studentEmail"`
	CourseID      int64   `json:"courseId"`
	CourseTitle   string  `json:"courseTitle"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	AmountPaid    float64 `json:"amountPaid"`
	EnrolledAt    string  `json:"enrolledAt"`
}

// CourseRequest creates or updates a course
type CourseRequest struct {
	Title         string  `json:"title" binding:"required,max=255"`
	Description   *string `json:"description,omitempty"`
	Subject       *string `json:"subject,omitempty"`
	Level         *string `json:"level,omitempty"`
	Fee           float64 `json:"fee" binding:"gte=0"`
	Currency      string  `json:"currency" binding:"omitempty,currency"`
	DurationWeeks *int    `json:"durationWeeks,omitempty" binding:"omitempty,gte=1"`
	Capacity      *int    `json:"capacity,omitempty" binding:"omitempty,gte=1"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// CourseView is a course with its display fee
type CourseView struct {
	models.Course
	DisplayFee string `json:"displayFee" example:"$25.00"`
}

// FacultyRequest adds or updates a faculty member
type FacultyRequest struct {
	Name            string  `json:"name" binding:"required,max=255"`
	Designation     *string `json:"designation,omitempty"`
	Qualification   *string `json:"qualification,omitempty"`
	Subject         *string `json:"subject,omitempty"`
	ExperienceYears *int    `json:"experienceYears,omitempty" binding:"omitempty,gte=0"`
	Email           *string `json:"email,omitempty" binding:"omitempty,email"`
}

// InstitutionSettingsRequest updates editable profile fields
type InstitutionSettingsRequest struct {
	Name            string  `json:"name" binding:"required,min=2,max=255"`
	Description     *string `json:"description,omitempty"`
	Website         *string `json:"website,omitempty" binding:"omitempty,url"`
	Address         *string `json:"address,omitempty"`
	City            *string `json:"city,omitempty"`
	EstablishedYear *int    `json:"establishedYear,omitempty" binding:"omitempty,gte=1800,lte=2100"`
}

// InstitutionReportsResponse is the reports tab. FailedResources names the
// collections that could not be loaded and were counted as empty.
type InstitutionReportsResponse struct {
	analytics.Reports
	FailedResources []string `json:"failedResources"`
}
