package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule settings
var (
	// CurrencyPattern is an ISO 4217 code
	CurrencyPattern = `^[A-Z]{3}$`

	// PasswordMinLength is the minimum password length
	PasswordMinLength = 8
)

var currencyRegexp = regexp.MustCompile(CurrencyPattern)

// IsCurrency reports whether s is a three letter uppercase currency code
func IsCurrency(s string) bool {
	return currencyRegexp.MatchString(s)
}

// IsStrongPassword requires the minimum length plus at least one letter and one digit
func IsStrongPassword(s string) bool {
	if len(s) < PasswordMinLength {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// RegisterRules adds the custom tags "currency" and "strongpassword" to v
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return IsCurrency(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}

// RegisterWithGin installs the custom rules on gin's binding validator
func RegisterWithGin() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterRules(v)
	}
	return nil
}
