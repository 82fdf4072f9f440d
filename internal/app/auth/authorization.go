package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/logger"
)

// OwnershipStore is the data the authorization checks read
type OwnershipStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetInstitutionByUserID(ctx context.Context, userID int64) (*models.InstitutionProfile, error)
}

// AuthorizationService resolves what an authenticated account may act on
type AuthorizationService struct {
	store OwnershipStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(store OwnershipStore) *AuthorizationService {
	return &AuthorizationService{store: store}
}

// GetUserInfo returns the account behind a token
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in GetUserInfo")
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}
	return user, nil
}

// ValidateInstitutionUser checks that the account is an active institution account
func (s *AuthorizationService) ValidateInstitutionUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	if user.Role != models.RoleInstitution {
		return nil, apperrors.NewForbiddenError("only institution accounts can manage an institution")
	}
	return user, nil
}

// InstitutionFor returns the institution owned by userID. Every institution
// dashboard operation is scoped to the id it returns.
func (s *AuthorizationService) InstitutionFor(ctx context.Context, userID int64) (*models.InstitutionProfile, error) {
	if _, err := s.ValidateInstitutionUser(ctx, userID); err != nil {
		return nil, err
	}

	inst, err := s.store.GetInstitutionByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInstitutionNotFound) {
			logger.Warn().Int64("userID", userID).Msg("Institution account has no institution profile")
			return nil, apperrors.NewForbiddenError("no institution profile is linked to this account")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error resolving institution for user")
		return nil, fmt.Errorf("failed to resolve institution: %w", err)
	}
	return inst, nil
}
