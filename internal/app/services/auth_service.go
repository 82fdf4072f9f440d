package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/views"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/auth"
)

// AuthStore is the data AuthService reads and writes outside of registration
type AuthStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetTokenOwner(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
}

// RegistrationStore creates an account and its role-specific profile
type RegistrationStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	CreateTutorProfile(ctx context.Context, profile *models.TutorProfile) error
	CreateInstitution(ctx context.Context, profile *models.InstitutionProfile) error
}

// TokenIssuer signs access tokens and mints refresh tokens
type TokenIssuer interface {
	GenerateTokenPair(userID int64, email, role string) (*auth.TokenPair, error)
}

// AuthService handles sign-up, login and session tokens
type AuthService struct {
	store    AuthStore
	register TxRunner[RegistrationStore]
	tokens   TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(store AuthStore, register TxRunner[RegistrationStore], tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:    store,
		register: register,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterStudent creates a student account. Students need no review and are stored approved.
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.AuthResponse, error) {
	user, err := s.newUser(req.AccountFields, models.RoleStudent, models.VerificationApproved)
	if err != nil {
		return nil, err
	}

	err = s.register(ctx, func(ctx context.Context, store RegistrationStore) error {
		return store.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, s.registrationError(err, user)
	}
	return s.issue(ctx, user)
}

// RegisterTutor creates a pending tutor account together with its profile
func (s *AuthService) RegisterTutor(ctx context.Context, req *dto.RegisterTutorRequest) (*dto.AuthResponse, error) {
	user, err := s.newUser(req.AccountFields, models.RoleTutor, models.VerificationPending)
	if err != nil {
		return nil, err
	}

	subjects := make([]string, 0, len(req.Subjects))
	for _, subject := range req.Subjects {
		if subject = strings.TrimSpace(subject); subject != "" {
			subjects = append(subjects, subject)
		}
	}

	err = s.register(ctx, func(ctx context.Context, store RegistrationStore) error {
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}
		return store.CreateTutorProfile(ctx, &models.TutorProfile{
			UserID:     user.ID,
			Headline:   req.Headline,
			Bio:        req.Bio,
			Subjects:   subjects,
			HourlyRate: req.HourlyRate,
			Currency:   normalizeCurrency(req.Currency),
		})
	})
	if err != nil {
		return nil, s.registrationError(err, user)
	}
	return s.issue(ctx, user)
}

// RegisterInstitution creates a pending institution account together with its profile
func (s *AuthService) RegisterInstitution(ctx context.Context, req *dto.RegisterInstitutionRequest) (*dto.AuthResponse, error) {
	user, err := s.newUser(req.AccountFields, models.RoleInstitution, models.VerificationPending)
	if err != nil {
		return nil, err
	}

	err = s.register(ctx, func(ctx context.Context, store RegistrationStore) error {
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}
		return store.CreateInstitution(ctx, &models.InstitutionProfile{
			UserID:  user.ID,
			Name:    strings.TrimSpace(req.InstitutionName),
			City:    req.City,
			Address: req.Address,
			Website: req.Website,
		})
	})
	if err != nil {
		return nil, s.registrationError(err, user)
	}
	return s.issue(ctx, user)
}

func (s *AuthService) newUser(fields dto.AccountFields, role models.Role, status models.VerificationStatus) (*models.User, error) {
	hashed, err := auth.HashPassword(fields.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	return &models.User{
		Email:              strings.ToLower(strings.TrimSpace(fields.Email)),
		Password:           hashed,
		FullName:           strings.TrimSpace(fields.FullName),
		Phone:              fields.Phone,
		Role:               role,
		VerificationStatus: status,
		IsActive:           true,
	}, nil
}

func (s *AuthService) registrationError(err error, user *models.User) error {
	if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return err
	}
	s.logger.Error().Err(err).Str("email", user.Email).Str("role", string(user.Role)).Msg("Registration failed")
	return fmt.Errorf("registration failed: %w", err)
}

// Login authenticates with email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	}

	return s.issue(ctx, user)
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair issued
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, err := s.store.GetTokenOwner(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.store.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.store.RevokeToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// Me returns the current account
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := views.User(*user)
	return &resp, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.store.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           pair.AccessToken,
			TokenType:             "Bearer",
			ExpiresIn:             pair.ExpiresIn,
			RefreshToken:          pair.RefreshToken,
			RefreshTokenExpiresIn: pair.RefreshExpiresIn,
		},
		User: views.User(*user),
	}, nil
}
