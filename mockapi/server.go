// Package mockapi serves the storefront's three collaborators —
// catalog, auth, and orders — in one in-memory process. It exists for
// local development and integration tests; it is not the production
// backend.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/stridezone/storefront/internal/config"
	"github.com/stridezone/storefront/internal/constants"
	inErrors "github.com/stridezone/storefront/internal/errors"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

type storedProduct struct {
	ID       int64
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int32
	IsActive bool
	Image    string
	AltText  string
}

type storedUser struct {
	Username     string
	Email        string
	PasswordHash []byte
}

type storedOrder struct {
	ID        string
	Username  string
	Amount    string
	Address   string
	Status    string
	CreatedAt time.Time
	Items     []orderItem
}

type Server struct {
	secret   string
	validate *validator.Validate

	mu       sync.Mutex
	products []storedProduct
	users    map[string]storedUser
	orders   map[string][]storedOrder
}

func NewServer(secret string) *Server {
	return &Server{
		secret:   secret,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		products: seedProducts(),
		users:    map[string]storedUser{},
		orders:   map[string][]storedOrder{},
	}
}

// Handler wires the routes. Exposed separately from Run so tests can
// mount it on httptest.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.AppMockApi), Logging, RecoverPanic)

	router.HandleFunc("/api/products/", s.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/api/products/{productId}/", s.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/api/categories/", s.ListCategories).Methods(http.MethodGet)
	router.HandleFunc("/api/register/", s.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/token/", s.Token).Methods(http.MethodPost)

	authed := router.PathPrefix("/api/orders").Subrouter()
	authed.Use(Auth(s.secret))
	authed.HandleFunc("/create/", s.CreateOrder).Methods(http.MethodPost)
	authed.HandleFunc("/my-orders/", s.MyOrders).Methods(http.MethodGet)

	return router
}

// Run starts the mock backend and blocks until the context is
// cancelled.
func Run(c context.Context, cfg *config.Config) {
	c, span := otel.Tracer.Start(c, "mockapi Run")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppMockApi).
		Str(log.KeyTag, "mockapi Run").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppMockApi, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := NewServer(cfg.Application.SecretKey)
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      server.Handler(),
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
