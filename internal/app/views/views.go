// Package views turns stored rows into what the dashboards display.
package views

import (
	"strconv"
	"strings"

	"github.com/yigit/tutorhub/internal/app/models"
)

// Display defaults for missing values
const (
	NotAvailable = "N/A"
	Unknown      = "Unknown"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"EUR": "€",
	"GBP": "£",
}

// DisplayVerificationStatus returns the status shown for a user. Students need
// no verification and are always shown as approved.
func DisplayVerificationStatus(role models.Role, stored models.VerificationStatus) models.VerificationStatus {
	if role == models.RoleStudent {
		return models.VerificationApproved
	}
	if stored == "" {
		return models.VerificationPending
	}
	return stored
}

// FormatAmount renders a money amount with its currency symbol and two decimals
func FormatAmount(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}
	value := strconv.FormatFloat(amount, 'f', 2, 64)
	if symbol, ok := currencySymbols[code]; ok {
		return symbol + value
	}
	return code + " " + value
}

// FormatFee renders a fee value: "2.5%" for percentages, "$25.00" otherwise
func FormatFee(feeType models.FeeType, value float64, currency string) string {
	if feeType == models.FeePercentage {
		return strconv.FormatFloat(value, 'f', -1, 64) + "%"
	}
	return FormatAmount(value, currency)
}

// OrDefault dereferences s, falling back to def when s is nil or blank
func OrDefault(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return *s
}

// OrNA is OrDefault with "N/A"
func OrNA(s *string) string { return OrDefault(s, NotAvailable) }

// OrUnknown is OrDefault with "Unknown"
func OrUnknown(s *string) string { return OrDefault(s, Unknown) }
