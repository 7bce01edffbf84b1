package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// IdentityResolverConfig configures the permissive bearer-token
// resolution middleware.
type IdentityResolverConfig struct {
	Tokens TokenService
	Users  UserStore
	Logger Logger
	// AuthScheme defaults to "Bearer" when empty.
	AuthScheme string
}

// ResolveIdentity inspects the Authorization header on every request
// and, when it carries a valid token for a known user, attaches that
// user to the request context. Requests without a usable token pass
// through anonymously; downstream handlers decide whether anonymity
// is acceptable.
func ResolveIdentity(cfg IdentityResolverConfig) fiber.Handler {
	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = "Bearer"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx) error {
		// Upstream middleware may have resolved the identity already.
		if _, ok := FromContext(c.UserContext()); ok {
			return c.Next()
		}

		raw, ok := tokenFromHeader(c.Get(fiber.HeaderAuthorization), scheme)
		if !ok {
			return c.Next()
		}

		user, err := resolveIdentity(c.UserContext(), cfg, raw)
		if err != nil {
			logger.Debug("identity resolution failed", "error", err)
			return c.Next()
		}

		c.SetUserContext(WithContext(c.UserContext(), user))

		return c.Next()
	}
}

// resolveIdentity validates the raw token and loads its subject. The
// middleware treats any error as "proceed anonymously".
func resolveIdentity(ctx context.Context, cfg IdentityResolverConfig, raw string) (*User, error) {
	claims, err := cfg.Tokens.Validate(raw)
	if err != nil {
		return nil, err
	}

	user, err := cfg.Users.GetByUsername(ctx, claims.Subject())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryNotFound, "token subject not found").
			WithMetadata(map[string]any{
				"subject": claims.Subject(),
			})
	}

	return user, nil
}

// RequireIdentity rejects requests that reached it without a resolved
// identity. Mount it behind ResolveIdentity on protected groups.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := FromContext(c.UserContext()); !ok {
			return ErrUnauthenticated
		}
		return c.Next()
	}
}

func tokenFromHeader(header, authScheme string) (string, bool) {
	authScheme = strings.TrimSpace(authScheme)
	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:]), true
	}
	return "", false
}
