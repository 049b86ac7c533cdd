package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^\+[0-9]{8,15}$`)

// User is a registered voter identified by phone number
type User struct {
	PhoneNumber  string
	PasswordHash string
	CountryCode  string
	Enabled      bool
	Verified     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPhoneNumber = errors.New("phone number must be in international format")
	ErrPhoneRegistered    = errors.New("phone number already registered")
	ErrCountryNotAllowed  = errors.New("country code not allowed")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// NormalizePhoneNumber strips spaces and dashes and validates the result
func NormalizePhoneNumber(raw string) (string, error) {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhoneNumber
	}
	return phone, nil
}
