package booknote

import (
	"context"
	"strconv"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// UserStore is the lookup capability the provider needs from the user
// repository.
type UserStore interface {
	GetByUsernameTx(ctx context.Context, db bun.IDB, username string) (*User, error)
}

// UserProvider resolves identities from the user store. Lookup failures and
// password mismatches are indistinguishable to callers.
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore, hasher PasswordAuthenticator) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
	}
}

// WithLogger replaces the default logger.
func (u *UserProvider) WithLogger(logger Logger) *UserProvider {
	if logger != nil {
		u.logger = logger
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown usernames and wrong passwords both come back as
// ErrInvalidCredentials so responses cannot enumerate accounts.
func (u *UserProvider) VerifyIdentity(ctx context.Context, db bun.IDB, identifier, password string) (Identity, error) {
	user, err := u.store.GetByUsernameTx(ctx, db, identifier)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return identityFromUser(user), nil
}

// FindIdentityByIdentifier resolves a username to an identity without a
// credential check; used when the caller already holds a verified claim.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, db bun.IDB, identifier string) (Identity, error) {
	user, err := u.store.GetByUsernameTx(ctx, db, identifier)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	return identityFromUser(user), nil
}

var _ IdentityProvider = (*UserProvider)(nil)

type authIdentity struct {
	id       string
	username string
	email    string
	role     Role
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) Role() Role       { return a.role }

var _ Identity = authIdentity{}

func identityFromUser(user *User) Identity {
	return authIdentity{
		id:       strconv.FormatInt(user.ID, 10),
		username: user.Username,
		email:    user.Email,
		role:     user.Role,
	}
}
