package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService issues and validates the bearer tokens used as session
// credentials. Tokens are stateless: there is no server-side session table
// and no revocation, a token stops working only by expiring.
type TokenService interface {
	Generate(subject string) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	timeFunc   func() time.Time
	logger     Logger
}

type TokenServiceOption func(*TokenServiceImpl)

// WithTimeFunc overrides the clock used for issuance and expiry checks.
func WithTimeFunc(fn func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if fn != nil {
			ts.timeFunc = fn
		}
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, ttl time.Duration, logger Logger, opts ...TokenServiceOption) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	ts := &TokenServiceImpl{
		signingKey: signingKey,
		ttl:        ttl,
		timeFunc:   time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}
	return ts
}

// Generate creates an HS256-signed JWT for the given subject. Timestamps are
// whole-second precision; the token is valid for now' in [iat, exp).
func (ts *TokenServiceImpl) Generate(subject string) (string, error) {
	now := ts.timeFunc().Truncate(time.Second)
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies a token string, returning structured claims.
// Failures map onto the closed set ErrTokenMalformed, ErrInvalidSignature,
// ErrTokenExpired.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, ErrInvalidSignature
		}
		return ts.signingKey, nil
	}, jwt.WithTimeFunc(ts.timeFunc))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, ErrInvalidSignature):
			return nil, ErrInvalidSignature
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("token validate could not decode claims")
	return nil, ErrTokenMalformed
}
