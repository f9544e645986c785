package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/stridezone/storefront/cart"
	"github.com/stridezone/storefront/internal/config"
	"github.com/stridezone/storefront/internal/constants"
	"github.com/stridezone/storefront/internal/localstore"
	"github.com/stridezone/storefront/internal/log"
	"github.com/stridezone/storefront/internal/otel"
)

// app bundles what every storefront command needs: the config, the
// otel sdk, and an opened slot store. The cart store itself is
// constructed per command so each invocation restores from the slot.
type app struct {
	cfg           *config.Config
	slot          localstore.Store
	closeSlot     func() error
	otelShutdowns []otel.ShutdownFunc
}

func newApp(c context.Context) (*app, error) {
	cfg := config.InitConfig(c, "storefront")

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cmd newApp").
		Str("storeBackend", cfg.Store.Backend).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppStorefront, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized otel sdk")

	a := &app{
		cfg:           cfg,
		closeSlot:     func() error { return nil },
		otelShutdowns: otelShutdowns,
	}
	switch cfg.Store.Backend {
	case "redis":
		store, err := localstore.NewRedisStore(c, cfg.Store)
		if err != nil {
			err = fmt.Errorf("failed initializing redis store with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			if shutdownErr := otel.ShutdownOtel(c, otelShutdowns); shutdownErr != nil {
				logger.Error().
					Err(shutdownErr).
					Msgf("failed shutting down otel with error=%s", shutdownErr.Error())
			}
			return nil, err
		}
		a.slot = store
		a.closeSlot = store.Close
	default:
		a.slot = localstore.NewFileStore(cfg.Store.Dir)
	}
	return a, nil
}

// close releases the slot store and flushes pending spans before the
// process exits.
func (a *app) close(c context.Context) {
	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "cmd close").Logger()
	if err := a.closeSlot(); err != nil {
		logger.Error().Err(err).Msgf("failed closing slot store with error=%s", err.Error())
	}
	if err := otel.ShutdownOtel(c, a.otelShutdowns); err != nil {
		logger.Error().Err(err).Msgf("failed shutting down otel with error=%s", err.Error())
	}
}

func (a *app) openCart(c context.Context) *cart.Store {
	return cart.New(c, a.slot, a.cfg.Store.CartKey)
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("productId must be a number, got %q", arg)
	}
	return id, nil
}

func printCart(store *cart.Store) {
	lines := store.Lines()
	if len(lines) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, line := range lines {
		fmt.Fprintf(
			w,
			"%d\t%s\t%s\t%d\t%s\n",
			line.ProductID,
			line.Name,
			line.UnitPrice.StringFixed(2),
			line.Quantity,
			line.Subtotal().StringFixed(2),
		)
	}
	w.Flush()
	fmt.Printf("%d item(s), total %s\n", store.Count(), store.Total().StringFixed(2))
}
