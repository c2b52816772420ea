package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

const (
	minPasswordLength = 12
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

// User represents a registered account. Every recipe, tag and ingredient
// is owned by exactly one User.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// The email is normalized with NormalizeEmail before validation.
//
// NOTE: This function only sets up the user structure with the plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims, NFC-normalizes and lower-cases an email address so
// that lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return NewValidationError("email", "is required", ErrEmptyEmail)
	}

	if !validateEmailFormat(u.Email) {
		return NewValidationError("email", "must be a valid email address", ErrInvalidEmail)
	}

	// When no plaintext password is provided the user must already carry a hash
	// (the case for users loaded from the database).
	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrEmptyPassword)
	}

	return nil
}

// ValidatePassword checks the plaintext password length rules.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", "is required", ErrEmptyPassword)
	case len(password) < minPasswordLength:
		return NewValidationError("password", "must be at least 12 characters", ErrPasswordTooShort)
	case len(password) > maxPasswordLength:
		return NewValidationError("password", "must not exceed 72 characters", ErrPasswordTooLong)
	}
	return nil
}

// validateEmailFormat performs basic validation of email format: a non-empty
// local part, an @, and a domain containing a dot that is neither first nor last.
// Request payloads are additionally checked with the validator "email" tag.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 || strings.ContainsRune(domainPart, '@') {
		return false
	}

	dotIndex := strings.IndexByte(domainPart, '.')
	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
