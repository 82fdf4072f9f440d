package dto

import "time"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AccountFields are collected by every sign-up form
type AccountFields struct {
	FullName string  `json:"fullName" binding:"required,min=2,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,strongpassword"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=50"`
}

// RegisterStudentRequest is the student sign-up form
type RegisterStudentRequest struct {
	AccountFields
}

// RegisterTutorRequest is the tutor sign-up form
type RegisterTutorRequest struct {
	AccountFields
	Headline   *string  `json:"headline,omitempty" binding:"omitempty,max=255"`
	Bio        *string  `json:"bio,omitempty"`
	Subjects   []string `json:"subjects" binding:"required,min=1,dive,required"`
	HourlyRate *float64 `json:"hourlyRate,omitempty" binding:"omitempty,gte=0"`
	Currency   string   `json:"currency" binding:"omitempty,currency"`
}

// RegisterInstitutionRequest is the institution sign-up form
type RegisterInstitutionRequest struct {
	AccountFields
	InstitutionName string  `json:"institutionName" binding:"required,min=2,max=255"`
	City            *string `json:"city,omitempty"`
	Address         *string `json:"address,omitempty"`
	Website         *string `json:"website,omitempty" binding:"omitempty,url"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID                 int64      `json:"id" example:"1"`
	Email              string     `json:"email" example:"tutor@example.com"`
	FullName           string     `json:"fullName" example:"Jane Doe"`
	Phone              string     `json:"phone" example:"N/A"`
	Role               string     `json:"role" example:"tutor"`
	VerificationStatus string     `json:"verificationStatus" example:"pending"`
	IsActive           bool       `json:"isActive" example:"true"`
	CreatedAt          time.Time  `json:"createdAt"`
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
