package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// Store is what seeding needs from the repositories
type Store interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	EnsureDefaultFee(ctx context.Context, fee models.Fee) error
}

// AdminAccount is the bootstrap administrator. No account is created without a password.
type AdminAccount struct {
	Email    string
	Password string
}

// DefaultFees are inserted once by name; later edits from the admin dashboard are kept
var DefaultFees = []models.Fee{
	{Name: "Platform commission", Type: models.FeePercentage, Value: 10, Currency: "USD", AppliesTo: "tutor_session", IsActive: true},
	{Name: "Payment processing", Type: models.FeePercentage, Value: 2.5, Currency: "USD", AppliesTo: "transaction", IsActive: true},
	{Name: "Institution listing", Type: models.FeeFixed, Value: 25, Currency: "USD", AppliesTo: "institution", IsActive: false},
}

// CreateDefaultData creates the admin account and default fees if they don't exist.
// Every step runs; errors are collected and returned together.
func CreateDefaultData(ctx context.Context, store Store, admin AdminAccount, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin account, platform fees)...")
	var finalErr error

	for _, fee := range DefaultFees {
		if err := store.EnsureDefaultFee(ctx, fee); err != nil {
			lgr.Error().Err(err).Str("fee", fee.Name).Msg("Error seeding default fee")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := ensureAdmin(ctx, store, admin, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func ensureAdmin(ctx context.Context, store Store, admin AdminAccount, lgr zerolog.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		lgr.Warn().Msg("Seed admin credentials not configured, skipping admin creation")
		return nil
	}

	exists, err := store.EmailExists(ctx, admin.Email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	user := &models.User{
		Email:              admin.Email,
		Password:           string(hashedPassword),
		FullName:           "System Administrator",
		Role:               models.RoleAdmin,
		VerificationStatus: models.VerificationApproved,
		IsActive:           true,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		// another instance created it between the check and the insert
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", user.ID).Msg("Default admin user created successfully")
	return nil
}
