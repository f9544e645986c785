package mockapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stridezone/storefront/internal/constants"
	inErrors "github.com/stridezone/storefront/internal/errors"
	inHttp "github.com/stridezone/storefront/internal/http"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

type usernameKey struct{}

func usernameFromContext(c context.Context) string {
	username, ok := c.Value(usernameKey{}).(string)
	if !ok {
		return ""
	}
	return username
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(inHttp.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c, span := otel.Tracer.Start(
			r.Context(),
			"mockapi Logging",
			trace.WithAttributes(
				attribute.String(log.KeyRequestID, requestID),
				attribute.String(log.KeyRequestMethod, r.Method),
				attribute.String(log.KeyRequestURI, r.RequestURI),
			),
		)
		defer span.End()

		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyRequestID, requestID).
			Str(log.KeyRequestMethod, r.Method).
			Str(log.KeyRequestURI, r.RequestURI).
			Str(log.KeyRequestIp, r.RemoteAddr).
			Str(log.KeyTag, "Logging").
			Logger()

		c = log.AttachRequestIDToContext(c, requestID)
		c = logger.WithContext(c)
		r = r.WithContext(c)

		logger.Trace().Msg("next handler")
		next.ServeHTTP(w, r)
	})
}

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := otel.Tracer.Start(r.Context(), "mockapi RecoverPanic")
		defer span.End()

		logger := zerolog.Ctx(c)
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("recovered from panic: %v", rec)
				logger.Error().Err(err).Stack().Msg(err.Error())
				inErrors.HandleError(err, span)
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusInternalServerError,
					"message":    "Internal Server Error",
				})
			}
		}()

		next.ServeHTTP(w, r.WithContext(c))
	})
}

// Auth verifies the bearer token the token endpoint issued and
// attaches the shopper's username to the request context.
func Auth(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := r.Context()
			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "mockapi Auth").Logger()

			authorization := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
				logger.Error().
					Err(inErrors.ErrEmptyAuth).
					Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrEmptyAuth.Error(),
				})
				return
			}

			raw := authorization[len("bearer "):]
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(
				raw,
				claims,
				func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil },
				jwt.WithAudience(constants.AudienceShopper),
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
				jwt.WithExpirationRequired(),
				jwt.WithIssuedAt(),
				jwt.WithIssuer(constants.AppMockApi),
			)
			if err != nil || !token.Valid {
				logger.Error().
					Err(inErrors.ErrTokenInvalid).
					Msg(inErrors.ErrTokenInvalid.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			username, _ := claims["username"].(string)
			c = context.WithValue(c, usernameKey{}, username)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
