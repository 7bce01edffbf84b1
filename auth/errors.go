package auth

import (
	"github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside structured failures.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeBadSignature    = "TOKEN_SIGNATURE_INVALID"
	TextCodeUnauthenticated = "UNAUTHENTICATED"
	TextCodeEmailTaken      = "EMAIL_TAKEN"
	TextCodeUsernameTaken   = "USERNAME_TAKEN"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
)

// ErrIdentityNotFound is returned when a principal cannot be located. It is
// never surfaced through the login path; VerifyIdentity folds it into
// ErrInvalidCredentials.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidCredentials covers both unknown-username and wrong-password
// failures so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is the decode failure for tokens past their expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is the decode failure for tokens that do not parse.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidSignature is the decode failure for tokens whose signature does
// not verify, including tokens signed with an unexpected method.
var ErrInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned by guarded operations executed without an
// ambient identity.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrEmailTaken is the signup conflict for an already registered email.
var ErrEmailTaken = errors.New("email already in use", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUsernameTaken is the signup conflict for an already registered username.
var ErrUsernameTaken = errors.New("username already in use", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens.
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsMalformedError will check for unparsable tokens.
func IsMalformedError(err error) bool {
	return hasTextCode(err, TextCodeTokenMalformed)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
