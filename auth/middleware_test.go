package auth_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/auth"
)

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	defer res.Body.Close()

	return string(body)
}

func resolverApp(t *testing.T, store auth.UserStore, tokens auth.TokenService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, auth.ErrUnauthenticated) {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Use(auth.ResolveIdentity(auth.IdentityResolverConfig{
		Tokens: tokens,
		Users:  store,
		Logger: noopLogger{},
	}))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		if user, ok := auth.FromContext(c.UserContext()); ok {
			return c.JSON(fiber.Map{"username": user.Username})
		}
		return c.JSON(fiber.Map{"username": ""})
	})

	app.Get("/protected", auth.RequireIdentity(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

func TestResolveIdentity(t *testing.T) {
	signingKey := []byte("test-signing-key")
	tokens := auth.NewTokenService(signingKey, time.Hour, noopLogger{})

	user := storedUser(t, "alice", "sup3r-secret")

	t.Run("attaches identity for a valid token", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		app := resolverApp(t, store, tokens)

		token, err := tokens.Generate("alice")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Equal(t, `{"username":"alice"}`, readBody(t, res))
	})

	t.Run("missing header passes through anonymously", func(t *testing.T) {
		store := &MockUserStore{}
		app := resolverApp(t, store, tokens)

		res, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Equal(t, `{"username":""}`, readBody(t, res))
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		store := &MockUserStore{}
		app := resolverApp(t, store, tokens)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Equal(t, `{"username":""}`, readBody(t, res))
	})

	t.Run("token for a deleted user passes through anonymously", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.NewRecordNotFound())

		app := resolverApp(t, store, tokens)

		token, err := tokens.Generate("ghost")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, `{"username":""}`, readBody(t, res))
	})

	t.Run("wrong auth scheme is ignored", func(t *testing.T) {
		store := &MockUserStore{}
		app := resolverApp(t, store, tokens)

		token, err := tokens.Generate("alice")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Basic "+token)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, `{"username":""}`, readBody(t, res))
	})

	t.Run("does not overwrite an already resolved identity", func(t *testing.T) {
		existing := storedUser(t, "carol", "sup3r-secret")

		store := &MockUserStore{}

		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			c.SetUserContext(auth.WithContext(c.UserContext(), existing))
			return c.Next()
		})
		app.Use(auth.ResolveIdentity(auth.IdentityResolverConfig{
			Tokens: tokens,
			Users:  store,
			Logger: noopLogger{},
		}))
		app.Get("/whoami", func(c *fiber.Ctx) error {
			resolved, _ := auth.FromContext(c.UserContext())
			return c.JSON(fiber.Map{"username": resolved.Username})
		})

		token, err := tokens.Generate("alice")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, `{"username":"carol"}`, readBody(t, res))
		store.AssertNotCalled(t, "GetByUsername")
	})

	t.Run("scheme comparison is case insensitive", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		app := resolverApp(t, store, tokens)

		token, err := tokens.Generate("alice")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "bearer "+token)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, `{"username":"alice"}`, readBody(t, res))
	})
}

func TestRequireIdentity(t *testing.T) {
	signingKey := []byte("test-signing-key")
	tokens := auth.NewTokenService(signingKey, time.Hour, noopLogger{})

	user := storedUser(t, "alice", "sup3r-secret")

	t.Run("allows authenticated requests", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		app := resolverApp(t, store, tokens)

		token, err := tokens.Generate("alice")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		store := &MockUserStore{}
		app := resolverApp(t, store, tokens)

		res, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}
