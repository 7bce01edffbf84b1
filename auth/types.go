package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity is the capability projection of a stored User: the fields the
// token and credential layers need, without the persistence record.
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// IdentityProvider ensures we have a store to retrieve auth identities.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, username, password string) (Identity, error)
	FindIdentityByUsername(ctx context.Context, username string) (Identity, error)
}

// Authenticator holds methods to deal with authentication.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// UserStore is the read surface the identity resolver needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// PasswordAuthenticator authenticates passwords.
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// DefaultLogger returns the fallback stdout logger used when no
// Logger is configured.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println(append([]any{"[DBG] AUTH", msg}, args...)...)
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println(append([]any{"[INF] AUTH", msg}, args...)...)
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println(append([]any{"[WRN] AUTH", msg}, args...)...)
}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println(append([]any{"[ERR] AUTH", msg}, args...)...)
}
