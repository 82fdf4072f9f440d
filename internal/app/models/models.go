package models

// Role is the account role stored on users.role
type Role string

const (
	RoleStudent     Role = "student"
	RoleTutor       Role = "tutor"
	RoleInstitution Role = "institution"
	RoleAdmin       Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return oneOf(r, RoleStudent, RoleTutor, RoleInstitution, RoleAdmin)
}

// SelfRegistrable reports whether accounts of this role may sign up on their own
func (r Role) SelfRegistrable() bool {
	return oneOf(r, RoleStudent, RoleTutor, RoleInstitution)
}

// VerificationStatus is the account moderation state
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	return oneOf(s, VerificationPending, VerificationApproved, VerificationRejected)
}

// ReviewStatus is the moderation state of a review
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
	ReviewFlagged  ReviewStatus = "flagged"
)

func (s ReviewStatus) Valid() bool {
	return oneOf(s, ReviewPending, ReviewApproved, ReviewRejected, ReviewFlagged)
}

// ContentStatus is the moderation state of uploaded content
type ContentStatus string

const (
	ContentPending  ContentStatus = "pending"
	ContentApproved ContentStatus = "approved"
	ContentRejected ContentStatus = "rejected"
)

func (s ContentStatus) Valid() bool {
	return oneOf(s, ContentPending, ContentApproved, ContentRejected)
}

// TransactionType classifies a ledger row
type TransactionType string

const (
	TransactionPayment TransactionType = "payment"
	TransactionRefund  TransactionType = "refund"
	TransactionPayout  TransactionType = "payout"
	TransactionFee     TransactionType = "fee"
)

// TransactionStatus is the settlement state of a transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) Valid() bool {
	return oneOf(s, TransactionPending, TransactionCompleted, TransactionFailed, TransactionCancelled)
}

// PayoutStatus is the state of a tutor payout
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

func (s PayoutStatus) Valid() bool {
	return oneOf(s, PayoutPending, PayoutProcessing, PayoutCompleted, PayoutFailed)
}

// RefundStatus is the state of a refund request
type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundApproved  RefundStatus = "approved"
	RefundProcessed RefundStatus = "processed"
	RefundRejected  RefundStatus = "rejected"
)

func (s RefundStatus) Valid() bool {
	return oneOf(s, RefundPending, RefundApproved, RefundProcessed, RefundRejected)
}

// FeeType selects how a fee value is applied and displayed
type FeeType string

const (
	FeePercentage FeeType = "percentage"
	FeeFixed      FeeType = "fixed"
)

func (t FeeType) Valid() bool {
	return oneOf(t, FeePercentage, FeeFixed)
}

// EnrollmentStatus is the progress state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// PaymentStatus is the payment state of an enrollment
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// InquiryStatus is the follow-up state of a prospective student inquiry
type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryConverted InquiryStatus = "converted"
	InquiryClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	return oneOf(s, InquiryNew, InquiryContacted, InquiryConverted, InquiryClosed)
}

// AdmissionStatus is the decision state of an admission application
type AdmissionStatus string

const (
	AdmissionPending    AdmissionStatus = "pending"
	AdmissionAccepted   AdmissionStatus = "accepted"
	AdmissionRejected   AdmissionStatus = "rejected"
	AdmissionWaitlisted AdmissionStatus = "waitlisted"
)

func (s AdmissionStatus) Valid() bool {
	return oneOf(s, AdmissionPending, AdmissionAccepted, AdmissionRejected, AdmissionWaitlisted)
}

// SubmissionStatus is the review state of an institution verification submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func oneOf[S ~string](v S, allowed ...S) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
