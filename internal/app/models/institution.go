package models

import "time"

// InstitutionProfile is the public profile of an institution account
type InstitutionProfile struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"userId" db:"user_id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Website         *string   `json:"website,omitempty" db:"website"`
	Address         *string   `json:"address,omitempty" db:"address"`
	City            *string   `json:"city,omitempty" db:"city"`
	LogoURL         *string   `json:"logoUrl,omitempty" db:"logo_url"`
	EstablishedYear *int      `json:"establishedYear,omitempty" db:"established_year"`
	Verified        bool      `json:"verified" db:"verified"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

type InstitutionDocument struct {
	ID            int64     `json:"id" db:"id"`
	InstitutionID int64     `json:"institutionId" db:"institution_id"`
	DocumentType  string    `json:"documentType" db:"document_type"`
	FileURL       string    `json:"fileUrl" db:"file_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

type InstitutionFacility struct {
	ID            int64   `json:"id" db:"id"`
	InstitutionID int64   `json:"institutionId" db:"institution_id"`
	Name          string  `json:"name" db:"name"`
	Description   *string `json:"description,omitempty" db:"description"`
}

type InstitutionProgram struct {
	ID            int64   `json:"id" db:"id"`
	InstitutionID int64   `json:"institutionId" db:"institution_id"`
	Name          string  `json:"name" db:"name"`
	Level         *string `json:"level,omitempty" db:"level"`
	Duration      *string `json:"duration,omitempty" db:"duration"`
}

// InstitutionFaculty is a teaching staff member listed by an institution
type InstitutionFaculty struct {
	ID              int64     `json:"id" db:"id"`
	InstitutionID   int64     `json:"institutionId" db:"institution_id"`
	Name            string    `json:"name" db:"name"`
	Designation     *string   `json:"designation,omitempty" db:"designation"`
	Qualification   *string   `json:"qualification,omitempty" db:"qualification"`
	Subject         *string   `json:"subject,omitempty" db:"subject"`
	ExperienceYears *int      `json:"experienceYears,omitempty" db:"experience_years"`
	Email           *string   `json:"email,omitempty" db:"email"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

type InstitutionResult struct {
	ID            int64    `json:"id" db:"id"`
	InstitutionID int64    `json:"institutionId" db:"institution_id"`
	Year          int      `json:"year" db:"year"`
	Exam          string   `json:"exam" db:"exam"`
	PassRate      *float64 `json:"passRate,omitempty" db:"pass_rate"`
	Toppers       *int     `json:"toppers,omitempty" db:"toppers"`
}

type InstitutionFeePolicy struct {
	ID            int64   `json:"id" db:"id"`
	InstitutionID int64   `json:"institutionId" db:"institution_id"`
	Title         string  `json:"title" db:"title"`
	Description   *string `json:"description,omitempty" db:"description"`
}

type InstitutionVerificationFlag struct {
	ID            int64     `json:"id" db:"id"`
	InstitutionID int64     `json:"institutionId" db:"institution_id"`
	Flag          string    `json:"flag" db:"flag"`
	Note          *string   `json:"note,omitempty" db:"note"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// InstitutionSubmission is one request by an institution to be verified
type InstitutionSubmission struct {
	ID            int64            `json:"id" db:"id"`
	InstitutionID int64            `json:"institutionId" db:"institution_id"`
	Status        SubmissionStatus `json:"status" db:"status"`
	ReviewNotes   *string          `json:"reviewNotes,omitempty" db:"review_notes"`
	SubmittedAt   time.Time        `json:"submittedAt" db:"submitted_at"`
	ReviewedAt    *time.Time       `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewedBy    *int64           `json:"reviewedBy,omitempty" db:"reviewed_by"`
}

// InstitutionRelated groups the per-institution sets attached to a submission
type InstitutionRelated struct {
	Documents         []InstitutionDocument         `json:"documents"`
	Facilities        []InstitutionFacility         `json:"facilities"`
	Programs          []InstitutionProgram          `json:"programs"`
	Faculty           []InstitutionFaculty          `json:"faculty"`
	Results           []InstitutionResult           `json:"results"`
	FeePolicies       []InstitutionFeePolicy        `json:"feePolicies"`
	VerificationFlags []InstitutionVerificationFlag `json:"verificationFlags"`
}

// NewInstitutionRelated returns a value with every set initialised to empty
func NewInstitutionRelated() InstitutionRelated {
	return InstitutionRelated{
		Documents:         []InstitutionDocument{},
		Facilities:        []InstitutionFacility{},
		Programs:          []InstitutionProgram{},
		Faculty:           []InstitutionFaculty{},
		Results:           []InstitutionResult{},
		FeePolicies:       []InstitutionFeePolicy{},
		VerificationFlags: []InstitutionVerificationFlag{},
	}
}

// InstitutionSubmissionDetail is a submission assembled with its institution and related sets
type InstitutionSubmissionDetail struct {
	InstitutionSubmission
	Institution *InstitutionProfile `json:"institution"`
	InstitutionRelated
}
