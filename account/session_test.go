package account

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/stridezone/storefront/internal/errors"
	"github.com/stridezone/storefront/internal/localstore"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("stridezone-dev-secret"))
	if err != nil {
		t.Fatalf("failed signing token with error: %s", err)
	}
	return token
}

func TestDecodeSession(t *testing.T) {
	tests := []struct {
		name             string
		claims           jwt.MapClaims
		expectedUsername string
		expectedErr      error
	}{
		{
			name: "given username claim should use it",
			claims: jwt.MapClaims{
				"username": "runner42",
				"email":    "runner42@stridezone.dev",
				"exp":      jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
			},
			expectedUsername: "runner42",
			expectedErr:      nil,
		},
		{
			name: "given only name claim should use it",
			claims: jwt.MapClaims{
				"name": "Runner",
				"exp":  jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
			},
			expectedUsername: "Runner",
			expectedErr:      nil,
		},
		{
			name: "given only email claim should use its local part",
			claims: jwt.MapClaims{
				"email": "runner42@stridezone.dev",
				"exp":   jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
			},
			expectedUsername: "runner42",
			expectedErr:      nil,
		},
		{
			name: "given no display claims should fall back to member",
			claims: jwt.MapClaims{
				"exp": jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
			},
			expectedUsername: "Member",
			expectedErr:      nil,
		},
		{
			name: "given expired token should return token expired",
			claims: jwt.MapClaims{
				"username": "runner42",
				"exp":      jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
			expectedUsername: "runner42",
			expectedErr:      inErrors.ErrTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := DecodeSession(testContext(), signedToken(t, tt.claims))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedUsername, session.Username)
		})
	}
}

func TestDecodeSessionInvalidToken(t *testing.T) {
	_, err := DecodeSession(testContext(), "not-a-jwt")
	assert.ErrorIs(t, err, inErrors.ErrTokenInvalid)
}

func TestTokenLifecycle(t *testing.T) {
	c := testContext()
	slot := localstore.NewFileStore(t.TempDir())

	_, err := LoadToken(c, slot, "stridezone_token")
	assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)

	assert.NoError(t, SaveToken(c, slot, "stridezone_token", "opaque-token"))
	token, err := LoadToken(c, slot, "stridezone_token")
	assert.NoError(t, err)
	assert.Equal(t, "opaque-token", token)

	assert.NoError(t, ClearToken(c, slot, "stridezone_token"))
	_, err = LoadToken(c, slot, "stridezone_token")
	assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)

	assert.NoError(t, ClearToken(c, slot, "stridezone_token"), "clearing twice should be fine")
}
