package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taskward/taskward/auth"
)

// MockUserStore implements auth.UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*auth.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (auth.AuthClaims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(auth.AuthClaims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdentityProvider implements auth.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, username, password string) (auth.Identity, error) {
	args := m.Called(ctx, username, password)
	if identity, ok := args.Get(0).(auth.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (auth.Identity, error) {
	args := m.Called(ctx, username)
	if identity, ok := args.Get(0).(auth.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// noopLogger silences log output in tests
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}
