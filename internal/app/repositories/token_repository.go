package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/logger"
)

// TokenRepository stores opaque refresh tokens
type TokenRepository struct {
	db DBTX
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateToken stores a refresh token for a user
func (r *TokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	_, err := exec(ctx, r.db, psql.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date", "is_revoked").
		Values(token, userID, expiryDate, false))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			logger.Warn().Int64("userID", userID).Msg("Attempted to create duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// GetTokenOwner returns the user a valid refresh token belongs to
func (r *TokenRepository) GetTokenOwner(ctx context.Context, token string) (int64, error) {
	var (
		userID     int64
		expiryDate time.Time
		isRevoked  bool
	)

	sql, args, err := psql.Select("user_id", "expiry_date", "is_revoked").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get token query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiryDate, &isRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning token row")
		return 0, fmt.Errorf("error retrieving token: %w", err)
	}

	if isRevoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if expiryDate.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return userID, nil
}

// RevokeToken revokes a token
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	affected, err := exec(ctx, r.db, psql.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token}))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing revoke token query")
		return fmt.Errorf("error revoking token: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllUserTokens revokes every active token of a user
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	_, err := exec(ctx, r.db, psql.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"user_id": userID, "is_revoked": false}))
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing revoke all user tokens query")
		return fmt.Errorf("error revoking user tokens: %w", err)
	}
	return nil
}

// CleanupExpiredTokens removes expired tokens and revoked tokens older than 30 days
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	now := time.Now()
	deleted, err := exec(ctx, r.db, psql.Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expiry_date": now},
			squirrel.And{
				squirrel.Eq{"is_revoked": true},
				squirrel.Lt{"created_at": now.Add(-30 * 24 * time.Hour)},
			},
		}))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup tokens query")
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired/old revoked tokens")
	return deleted, nil
}
