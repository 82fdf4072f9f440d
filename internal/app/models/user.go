package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                 int64              `json:"id" db:"id" example:"1"`
	Email              string             `json:"email" db:"email" example:"tutor@example.com"`
	Password           string             `json:"-" db:"password"`
	FullName           string             `json:"fullName" db:"full_name" example:"Jane Doe"`
	Phone              *string            `json:"phone,omitempty" db:"phone"`
	Role               Role               `json:"role" db:"role" example:"tutor"`
	VerificationStatus VerificationStatus `json:"verificationStatus" db:"verification_status" example:"pending"`
	IsActive           bool               `json:"isActive" db:"is_active" example:"true"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`
	LastLoginAt        *time.Time         `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// TutorProfile defines a tutor's public profile ('profiles' table)
type TutorProfile struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	Headline   *string   `json:"headline,omitempty" db:"headline"`
	Bio        *string   `json:"bio,omitempty" db:"bio"`
	Subjects   []string  `json:"subjects" db:"subjects"`
	HourlyRate *float64  `json:"hourlyRate,omitempty" db:"hourly_rate"`
	Currency   string    `json:"currency" db:"currency"`
	Verified   bool      `json:"verified" db:"verified"`
	Rating     *float64  `json:"rating,omitempty" db:"rating"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	TutorName  *string   `json:"tutorName,omitempty" db:"tutor_name"`
	TutorEmail *string   `json:"tutorEmail,omitempty" db:"tutor_email"`
}

// Review is a student's rating of a tutor
type Review struct {
	ID          int64        `json:"id" db:"id"`
	StudentID   *int64       `json:"studentId,omitempty" db:"student_id"`
	TutorID     *int64       `json:"tutorId,omitempty" db:"tutor_id"`
	Rating      int          `json:"rating" db:"rating"`
	Comment     *string      `json:"comment,omitempty" db:"comment"`
	Status      ReviewStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	StudentName *string      `json:"studentName,omitempty" db:"student_name"`
	TutorName   *string      `json:"tutorName,omitempty" db:"tutor_name"`
}

// Content is an uploaded learning asset awaiting or past moderation
type Content struct {
	ID           int64         `json:"id" db:"id"`
	UploaderID   *int64        `json:"uploaderId,omitempty" db:"uploader_id"`
	Title        string        `json:"title" db:"title"`
	ContentType  *string       `json:"contentType,omitempty" db:"content_type"`
	FileURL      *string       `json:"fileUrl,omitempty" db:"file_url"`
	Status       ContentStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UploaderName *string       `json:"uploaderName,omitempty" db:"uploader_name"`
}
