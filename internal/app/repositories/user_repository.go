package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/dberrors"
	"github.com/yigit/tutorhub/internal/pkg/logger"
)

var userColumns = []string{
	"id", "email", "password", "full_name", "phone", "role",
	"verification_status", "is_active", "created_at", "updated_at", "last_login_at",
}

// UserRepository handles database operations on users
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns("email", "password", "full_name", "phone", "role", "verification_status", "is_active").
		Values(strings.ToLower(user.Email), user.Password, user.FullName, user.Phone, string(user.Role),
			string(user.VerificationStatus), user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := selectOne[models.User](ctx, r.db, psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}))
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	return user, err
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"email": strings.ToLower(email)})
	user, err := selectOne[models.User](ctx, r.db, q)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	return user, err
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// List returns every user, newest first
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return selectAll[models.User](ctx, r.db, psql.Select(userColumns...).From("users").OrderBy("created_at DESC"))
}

// UpdateLastLogin stamps the user's last successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := exec(ctx, r.db, psql.Update("users").Set("last_login_at", time.Now()).Where(squirrel.Eq{"id": userID}))
	if err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to update last login")
	}
	return err
}

// SetVerificationStatus overwrites a user's verification status
func (r *UserRepository) SetVerificationStatus(ctx context.Context, userID int64, status models.VerificationStatus) (*models.User, error) {
	user, err := updateReturning[models.User](ctx, r.db, "users", userID, 0, map[string]interface{}{
		"verification_status": string(status),
		"updated_at":          time.Now(),
	})
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	return user, err
}

// PublicCounts are the live numbers on the marketing home page
type PublicCounts struct {
	VerifiedTutors       int64
	VerifiedInstitutions int64
	ActiveCourses        int64
	Students             int64
}

// CountPublic returns the home page counters in one round trip
func (r *UserRepository) CountPublic(ctx context.Context) (PublicCounts, error) {
	var c PublicCounts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM profiles WHERE verified),
			(SELECT COUNT(*) FROM institution_profiles WHERE verified),
			(SELECT COUNT(*) FROM courses WHERE is_active),
			(SELECT COUNT(*) FROM users WHERE role = 'student' AND is_active)`,
	).Scan(&c.VerifiedTutors, &c.VerifiedInstitutions, &c.ActiveCourses, &c.Students)
	if err != nil {
		return PublicCounts{}, fmt.Errorf("error counting public stats: %w", err)
	}
	return c, nil
}
