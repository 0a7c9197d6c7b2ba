package booknote

import (
	"context"

	"github.com/uptrace/bun"
)

// Auther composes the identity provider and the token codec into the
// request auth flow: Login issues tokens, ResolveIdentity turns a bearer
// token back into a live principal, one store round-trip per request.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Auther.
func NewAuthenticator(provider IdentityProvider, tokenService TokenService) *Auther {
	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

// WithLogger replaces the default logger.
func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the codec this authenticator signs with.
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials inside the request's unit of work and
// returns a signed token for the identity.
func (s *Auther) Login(ctx context.Context, db bun.IDB, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, db, identifier, password)
	if err != nil {
		s.logger.Info("login rejected", "identifier", identifier)
		return "", err
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("login token generation failed", "error", err)
		return "", err
	}

	return token, nil
}

// ResolveIdentity validates the raw token and re-queries the store for its
// subject. Every failure mode collapses to ErrUnauthenticated: the codec's
// specific verdict and missing subjects are logged, never returned, so
// responses leak nothing about which validation step failed. A token whose
// subject was deleted after issuance stops resolving immediately.
func (s *Auther) ResolveIdentity(ctx context.Context, db bun.IDB, raw string) (Identity, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Debug("token validation failed", "error", err)
		return nil, ErrUnauthenticated
	}

	identity, err := s.provider.FindIdentityByIdentifier(ctx, db, claims.Subject())
	if err != nil {
		s.logger.Debug("token subject did not resolve", "subject", claims.Subject(), "error", err)
		return nil, ErrUnauthenticated
	}

	return identity, nil
}

// ResolveAdmin composes ResolveIdentity with the admin gate.
func (s *Auther) ResolveAdmin(ctx context.Context, db bun.IDB, raw string) (Identity, error) {
	identity, err := s.ResolveIdentity(ctx, db, raw)
	if err != nil {
		return nil, err
	}
	return RequireAdmin(identity)
}
