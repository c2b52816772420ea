package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on mismatch.
	Compare(hashedPassword, password string) error

	// CompareDummy performs a comparison against a fixed hash and always
	// fails. Login uses it for unknown e-mails so both paths cost the same.
	CompareDummy(password string)
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct {
	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

// NewBcryptVerifier creates a BcryptVerifier whose dummy hash uses cost,
// matching the cost used for stored hashes.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

// Compare implements PasswordVerifier.Compare
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// CompareDummy implements PasswordVerifier.CompareDummy
func (v *BcryptVerifier) CompareDummy(password string) {
	v.dummyOnce.Do(func() {
		// GenerateFromPassword only fails for passwords over 72 bytes or an invalid cost.
		v.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), v.cost)
	})
	_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(password))
}
