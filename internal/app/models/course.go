package models

import "time"

// Course is an offering published by an institution
type Course struct {
	ID            int64     `json:"id" db:"id"`
	InstitutionID int64     `json:"institutionId" db:"institution_id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Subject       *string   `json:"subject,omitempty" db:"subject"`
	Level         *string   `json:"level,omitempty" db:"level"`
	Fee           float64   `json:"fee" db:"fee"`
	Currency      string    `json:"currency" db:"currency"`
	DurationWeeks *int      `json:"durationWeeks,omitempty" db:"duration_weeks"`
	Capacity      *int      `json:"capacity,omitempty" db:"capacity"`
	SyllabusURL   *string   `json:"syllabusUrl,omitempty" db:"syllabus_url"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Enrollment links a student to a course
type Enrollment struct {
	ID            int64            `json:"id" db:"id"`
	CourseID      int64            `json:"courseId" db:"course_id"`
	StudentID     int64            `json:"studentId" db:"student_id"`
	Status        EnrollmentStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus    `json:"paymentStatus" db:"payment_status"`
	AmountPaid    float64          `json:"amountPaid" db:"amount_paid"`
	EnrolledAt    time.Time        `json:"enrolledAt" db:"enrolled_at"`
	StudentName   *string          `json:"studentName,omitempty" db:"student_name"`
	StudentEmail  *string          `json:"studentEmail,omitempty" db:"student_email"`
	CourseTitle   *string          `json:"courseTitle,omitempty" db:"course_title"`
}

// Inquiry is a prospective student's contact request
type Inquiry struct {
	ID            int64         `json:"id" db:"id"`
	InstitutionID int64         `json:"institutionId" db:"institution_id"`
	CourseID      *int64        `json:"courseId,omitempty" db:"course_id"`
	Name          string        `json:"name" db:"name"`
	Email         *string       `json:"email,omitempty" db:"email"`
	Phone         *string       `json:"phone,omitempty" db:"phone"`
	Message       *string       `json:"message,omitempty" db:"message"`
	Status        InquiryStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	CourseTitle   *string       `json:"courseTitle,omitempty" db:"course_title"`
}

// Admission is an application to join a course
type Admission struct {
	ID             int64           `json:"id" db:"id"`
	InstitutionID  int64           `json:"institutionId" db:"institution_id"`
	CourseID       *int64          `json:"courseId,omitempty" db:"course_id"`
	ApplicantName  string          `json:"applicantName" db:"applicant_name"`
	ApplicantEmail *string         `json:"applicantEmail,omitempty" db:"applicant_email"`
	Status         AdmissionStatus `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	CourseTitle    *string         `json:"courseTitle,omitempty" db:"course_title"`
}
