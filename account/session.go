package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	inErrors "github.com/stridezone/storefront/internal/errors"
	"github.com/stridezone/storefront/internal/localstore"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

// Session is what the storefront knows about the logged-in shopper. It
// comes from decoding the token, not verifying it; authority stays
// with the backend.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// DecodeSession parses the token without signature verification and
// extracts a display name from the claims backends actually set:
// "username", "name", or the local part of "email". An expired token
// yields ErrTokenExpired.
func DecodeSession(c context.Context, token string) (Session, error) {
	_, span := otel.Tracer.Start(c, "account DecodeSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "account DecodeSession").
		Logger()

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		err = fmt.Errorf("failed decoding token with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, errors.Join(inErrors.ErrTokenInvalid, err)
	}

	session := Session{Token: token, Username: displayName(claims)}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
		if exp.Time.Before(time.Now()) {
			inErrors.HandleError(inErrors.ErrTokenExpired, span)
			logger.Info().Msg("session expired")
			return session, inErrors.ErrTokenExpired
		}
	}
	return session, nil
}

func displayName(claims jwt.MapClaims) string {
	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		return name
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return strings.SplitN(email, "@", 2)[0]
	}
	return "Member"
}

// SaveToken persists the bearer token into its durable slot.
func SaveToken(c context.Context, slot localstore.Store, key, token string) error {
	if err := slot.Set(c, key, []byte(token)); err != nil {
		return fmt.Errorf("failed saving token with error=%w", err)
	}
	return nil
}

// LoadToken restores the persisted token; ErrUnauthenticated when no
// session exists.
func LoadToken(c context.Context, slot localstore.Store, key string) (string, error) {
	raw, err := slot.Get(c, key)
	if err != nil {
		if errors.Is(err, localstore.ErrKeyNotFound) {
			return "", inErrors.ErrUnauthenticated
		}
		return "", fmt.Errorf("failed loading token with error=%w", err)
	}
	return string(raw), nil
}

// ClearToken drops the persisted session. Idempotent.
func ClearToken(c context.Context, slot localstore.Store, key string) error {
	if err := slot.Delete(c, key); err != nil {
		return fmt.Errorf("failed clearing token with error=%w", err)
	}
	return nil
}
