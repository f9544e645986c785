// Package account handles authentication against the auth service and
// the locally persisted session token. The token is opaque to the rest
// of the storefront: it is decoded for display and expiry only, never
// verified client-side.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inErrors "github.com/stridezone/storefront/internal/errors"
	inHttp "github.com/stridezone/storefront/internal/http"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

type Client struct {
	baseURL string
}

func NewClient(baseURL string) Client {
	return Client{baseURL: baseURL}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login exchanges credentials for a bearer token. Some backends return
// the token under "access" (SimpleJWT), others under "token"; both are
// accepted.
func (cl Client) Login(c context.Context, username, password string) (string, error) {
	c, span := otel.Tracer.Start(c, "AccountClient Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountClient Login").
		Str(log.KeyUsername, username).
		Logger()

	logger.Info().Msg("requesting token")
	respBody, status, err := cl.post(c, "/api/token/", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		err = fmt.Errorf("failed requesting token with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	if status != http.StatusOK {
		err = fmt.Errorf("auth service returned status code=%d with message=%s", status, respBody["message"])
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}

	token, _ := respBody["access"].(string)
	if token == "" {
		token, _ = respBody["token"].(string)
	}
	if token == "" {
		err = fmt.Errorf("authentication succeeded but no token was received")
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("received token")
	return token, nil
}

func (cl Client) Register(c context.Context, input RegisterInput) error {
	c, span := otel.Tracer.Start(c, "AccountClient Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountClient Register").
		Str(log.KeyUsername, input.Username).
		Str(log.KeyEmail, input.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating register input").Logger()
	logger.Info().Msg("validating register input")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, input); err != nil {
		err = fmt.Errorf("failed validating register input with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("validated register input")

	logger = logger.With().Str(log.KeyProcess, "registering").Logger()
	logger.Info().Msg("registering")
	respBody, status, err := cl.post(c, "/api/register/", input)
	if err != nil {
		err = fmt.Errorf("failed registering with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		err = fmt.Errorf("auth service returned status code=%d with message=%s", status, respBody["message"])
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("registered")
	return nil
}

func (cl Client) post(
	c context.Context,
	path string,
	body interface{},
) (map[string]interface{}, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		cl.baseURL+path,
		bytes.NewBuffer(payload),
	)
	if err != nil {
		return nil, 0, err
	}
	requestId := log.RequestIDFromContext(c)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	req.Header.Add(inHttp.HeaderRequestID, requestId)
	req.Header.Add(inHttp.HeaderContentType, inHttp.HeaderValueJson)

	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}
