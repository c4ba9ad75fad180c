package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"curio/internal/apperr"
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the complexity rule before anything touches the
// store: 8-40 chars, at least one uppercase, lowercase, digit and symbol.
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 40 {
		return apperr.Validation("password", "must be 8-40 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	switch {
	case !upper:
		return apperr.Validation("password", "must contain at least 1 uppercase letter")
	case !lower:
		return apperr.Validation("password", "must contain at least 1 lowercase letter")
	case !digit:
		return apperr.Validation("password", "must contain at least 1 number")
	case !symbol:
		return apperr.Validation("password", "must contain at least 1 special character")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
