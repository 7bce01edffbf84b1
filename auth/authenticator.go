package auth

import (
	"context"
)

// Auther orchestrates signin: credential verification through the
// IdentityProvider, then token issuance for the verified subject.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokens TokenService) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login verifies the username/password pair and returns a signed bearer
// token whose subject is the principal's username.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("login verify identity error", "username", username, "error", err)
		return "", err
	}

	if identity == nil {
		s.logger.Error("login identity is nil")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(identity.Username())
	if err != nil {
		s.logger.Error("login token generation error", "error", err)
		return "", err
	}

	return token, nil
}

var _ Authenticator = (*Auther)(nil)
