package booknote

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Error text codes surfaced to API clients.
const (
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeUnauthenticated   = "UNAUTHENTICATED"
	TextCodeForbidden         = "FORBIDDEN"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeTokenBadSignature = "TOKEN_BAD_SIGNATURE"
	TextCodeEmptyPassword     = "EMPTY_PASSWORD"
	TextCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	TextCodeConflict          = "ALREADY_REGISTERED"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// login responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is the uniform resolution failure: missing, malformed,
// expired or forged tokens and tokens whose subject no longer exists all
// collapse to this error. The specific cause is logged, never returned.
var ErrUnauthenticated = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned by the admin gate for valid non-admin identities.
var ErrForbidden = errors.New("not enough permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired marks tokens past their exp claim.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed marks tokens that cannot be parsed at all.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalidSignature marks tokens whose signature does not verify
// under the configured key, including tokens issued before a key rotation.
var ErrTokenInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrUnavailable is surfaced when the store cannot produce a connection or
// open a unit of work within the request's bounded wait.
var ErrUnavailable = errors.New("storage is unavailable", errors.CategoryOperation).
	WithTextCode(TextCodeStoreUnavailable)

// NewConflict wraps a uniqueness violation. Duplicate registrations answer
// with 400 rather than 409, so conflicts carry CodeBadRequest.
func NewConflict(message string) *errors.Error {
	return errors.New(message, errors.CategoryConflict).
		WithTextCode(TextCodeConflict).
		WithCode(errors.CodeBadRequest)
}

// NewNotFound builds a not-found error for lookups that miss.
func NewNotFound(message string) *errors.Error {
	return errors.New(message, errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryConflict
	}
	return false
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
