package booknote

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Logger is the minimal structured logger this package depends on. The glog
// loggers wired in cmd/server satisfy it; defLogger backs everything else.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity holds the attributes of an authenticated principal.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() Role
}

// IdentityProvider resolves identities against a persistence handle. Every
// call re-queries the store, so role changes and deletions take effect on
// the next request; there is no principal cache.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, db bun.IDB, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, db bun.IDB, identifier string) (Identity, error)
}

// TokenService encodes and decodes signed bearer tokens.
type TokenService interface {
	Generate(identity Identity) (string, error)
	Validate(raw string) (*JWTClaims, error)
}

// PasswordAuthenticator hashes and verifies credentials.
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }

func (defLogger) print(level, msg string, args ...any) {
	out := fmt.Sprintf("[%s] BOOKNOTE %s", level, msg)
	for i := 0; i+1 < len(args); i += 2 {
		out += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	fmt.Println(out)
}
