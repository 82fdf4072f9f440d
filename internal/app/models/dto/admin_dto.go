package dto

import (
	"time"

	"github.com/yigit/tutorhub/internal/app/analytics"
	"github.com/yigit/tutorhub/internal/app/models"
)

// AdminDashboardResponse is everything the admin back office renders.
// Collections are never null. A loader that failed leaves its collection
// empty and its name in FailedResources. A table that does not exist is
// listed in UnavailableResources instead.
type AdminDashboardResponse struct {
	Stats                analytics.AdminStats                 `json:"stats"`
	Users                []UserResponse                       `json:"users"`
	Profiles             []TutorProfileRow                    `json:"profiles"`
	Reviews              []ReviewRow                          `json:"reviews"`
	Content              []ContentRow                         `json:"content"`
	Transactions         []TransactionRow                     `json:"transactions"`
	Payouts              []PayoutRow                          `json:"payouts"`
	Refunds              []RefundRow                          `json:"refunds"`
	Fees                 []FeeRow                             `json:"fees"`
	Submissions          []models.InstitutionSubmissionDetail `json:"submissions"`
	FailedResources      []string                             `json:"failedResources"`
	UnavailableResources []string                             `json:"unavailableResources"`
}

type TutorProfileRow struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"userId"`
	TutorName  string   `json:"tutorName" example:"Unknown"`
	TutorEmail string   `json:"tutorEmail" example:"N/A"`
	Headline   string   `json:"headline" example:"N/A"`
	Subjects   []string `json:"subjects"`
	HourlyRate string   `json:"hourlyRate" example:"$25.00"`
	Rating     *float64 `json:"rating"`
	Verified   bool     `json:"verified"`
}

type ReviewRow struct {
	ID          int64     `json:"id"`
	StudentName string    `json:"studentName"`
	TutorName   string    `json:"tutorName"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ContentRow struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	UploaderName string    `json:"uploaderName"`
	ContentType  string    `json:"contentType"`
	FileURL      string    `json:"fileUrl"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TransactionRow struct {
	ID            int64     `json:"id"`
	UserName      string    `json:"userName"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	DisplayAmount string    `json:"displayAmount" example:"$100.00"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PayoutRow struct {
	ID            int64     `json:"id"`
	TutorName     string    `json:"tutorName"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	DisplayAmount string    `json:"displayAmount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type RefundRow struct {
	ID            int64     `json:"id"`
	TransactionID *int64    `json:"transactionId"`
	UserName      string    `json:"userName"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	DisplayAmount string    `json:"displayAmount"`
	Reason        string    `json:"reason"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type FeeRow struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Value        float64 `json:"value"`
	Currency     string  `json:"currency"`
	DisplayValue string  `json:"displayValue" example:"2.5%"`
	AppliesTo    string  `json:"appliesTo"`
	IsActive     bool    `json:"isActive"`
}

// UpdateStatusRequest carries the target status of a moderation action
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateProfileVerificationRequest toggles a tutor profile's verified flag
type UpdateProfileVerificationRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// RejectSubmissionRequest carries the reviewer's notes
type RejectSubmissionRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// SubmissionDecisionResponse reports an approve/reject outcome
type SubmissionDecisionResponse struct {
	SubmissionID  int64  `json:"submissionId"`
	InstitutionID int64  `json:"institutionId"`
	UserID        int64  `json:"userId"`
	Status        string `json:"status"`
	Mode          string `json:"mode" example:"transactional"`
}

// PartialFailureDetails is attached to the error of a partially applied approval
type PartialFailureDetails struct {
	Completed []string `json:"completed"`
	Failed    string   `json:"failed"`
}

// FeeRequest creates or replaces a platform fee
type FeeRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Type      string  `json:"type" binding:"required,oneof=percentage fixed"`
	Value     float64 `json:"value" binding:"gte=0"`
	Currency  string  `json:"currency" binding:"omitempty,currency"`
	AppliesTo string  `json:"appliesTo" binding:"omitempty,max=50"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// SetActiveRequest toggles a fee
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
