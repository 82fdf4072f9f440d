// Package services holds the business logic behind the HTTP controllers.
// Each service declares the store interface it needs; *repositories.Repositories
// satisfies all of them.
package services

import (
	"context"
	"strings"

	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

// TxRunner runs fn with a store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxRunner[S any] func(ctx context.Context, fn func(ctx context.Context, store S) error) error

// DefaultCurrency is applied when a form leaves the currency empty
const DefaultCurrency = "USD"

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

func invalidStatus(status string) error {
	return apperrors.NewValidationError("status", "unknown status '"+status+"'")
}
