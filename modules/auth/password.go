package auth

import (
	"unicode/utf8"

	"github.com/example/task-manager/domain/apperr"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	// A cost of 12 provides good security while keeping hashing time reasonable.
	DefaultBcryptCost = 12

	// MinPasswordLen is the minimum accepted password length in characters.
	MinPasswordLen = 8
	// MaxPasswordLen is the maximum accepted password length in bytes;
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLen = 72
)

// PasswordHasher provides password hashing, verification and the
// length policy hashes are subject to.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a new PasswordHasher with default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		cost: DefaultBcryptCost,
	}
}

// Validate checks a plaintext password against the length policy. The
// minimum counts characters; the maximum counts bytes, matching what
// bcrypt actually consumes.
func (h *PasswordHasher) Validate(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return apperr.Validation("Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLen {
		return apperr.Validation("Password must be at most 72 characters")
	}
	return nil
}

// Hash generates a bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
