package booknote

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrMismatchedHashAndPassword is an alias for the uniform credential error;
// hash comparison failures are indistinguishable from unknown users.
var ErrMismatchedHashAndPassword = ErrInvalidCredentials

// PasswordHasher hashes credentials with bcrypt at a configurable cost.
// Hashing is deliberately slow; callers run it synchronously and accept the
// CPU cost rather than caching or weakening the work factor.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// HashPassword will generate a password hash. The salt is random per call,
// so hashing the same password twice yields different strings.
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(out), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. Malformed hashes report a mismatch, never a panic.
func (h *PasswordHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

var _ PasswordAuthenticator = (*PasswordHasher)(nil)

// HashPassword hashes with the default cost.
func HashPassword(password string) (string, error) {
	return NewPasswordHasher(bcrypt.DefaultCost).HashPassword(password)
}

// ComparePasswordAndHash validates password against hash using the embedded
// salt and cost parameters.
func ComparePasswordAndHash(password, hash string) error {
	return NewPasswordHasher(bcrypt.DefaultCost).ComparePasswordAndHash(password, hash)
}
