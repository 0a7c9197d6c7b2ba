package booknote

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the signed payload inside a bearer token: the subject is the
// username, UserRole the role at issue time. The role in the claim is a
// hint only; authorization always re-reads the stored role at resolution.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserRole string `json:"role,omitempty"`
}

// Subject returns the subject claim, the username the token was issued for.
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role recorded at issue time.
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
