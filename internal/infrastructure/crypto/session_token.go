// Package crypto signs and verifies the builder's session cookie.
package crypto

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

// SessionClaims is the payload of the session cookie
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HS256 session tokens.
type SessionTokens struct {
	secrets SecretProvider
	ttl     time.Duration
	log     logger.Logger
	now     func() time.Time
}

// NewSessionTokens creates a token manager
func NewSessionTokens(secrets SecretProvider, ttl time.Duration, log logger.Logger) *SessionTokens {
	if ttl <= 0 {
		ttl = constants.SessionDefaultTTL
	}
	return &SessionTokens{secrets: secrets, ttl: ttl, log: log, now: time.Now}
}

// NewSessionID returns a fresh random session id
func NewSessionID() string {
	return uuid.NewString()
}

// Issue signs a token for sessionID and returns it with its expiry.
func (t *SessionTokens) Issue(ctx context.Context, sessionID string) (string, time.Time, error) {
	secret, err := t.secrets.SigningSecret(ctx)
	if err != nil {
		return "", time.Time{}, errors.ErrInternal("session secret unavailable").WithCause(err)
	}

	now := t.now()
	expires := now.Add(t.ttl)
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    constants.SessionTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.log.Error(ctx, "Failed to sign session token", err)
		return "", time.Time{}, errors.ErrInternal("failed to sign session token").WithCause(err)
	}
	return signed, expires, nil
}

// Verify parses a token and returns its session id.
func (t *SessionTokens) Verify(ctx context.Context, token string) (string, error) {
	secret, err := t.secrets.SigningSecret(ctx)
	if err != nil {
		return "", errors.ErrInternal("session secret unavailable").WithCause(err)
	}

	var claims SessionClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(constants.SessionTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", errors.ErrUnauthorized().WithCause(err)
	}
	if claims.SessionID == "" {
		return "", errors.ErrUnauthorized().WithMetadata("reason", "missing sid")
	}
	return claims.SessionID, nil
}
