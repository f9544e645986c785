package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/stridezone/storefront/account"
	"github.com/stridezone/storefront/catalog"
	"github.com/stridezone/storefront/checkout"
	inErrors "github.com/stridezone/storefront/internal/errors"
)

func runOrders(c context.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	token, err := account.LoadToken(c, a.slot, a.cfg.Store.TokenKey)
	if err != nil {
		if errors.Is(err, inErrors.ErrUnauthenticated) {
			fmt.Println("Please log in to see your orders.")
		}
		return err
	}

	client := checkout.NewClient(a.cfg.Backend.BaseURL, catalog.NewClient(a.cfg.Backend.BaseURL))
	orders, err := client.ListOrders(c, token)
	if err != nil {
		if errors.Is(err, inErrors.ErrTokenExpired) {
			fmt.Println("Your session has expired. Please log in again.")
			if clearErr := account.ClearToken(c, a.slot, a.cfg.Store.TokenKey); clearErr != nil {
				zerolog.Ctx(c).Warn().Err(clearErr).Msg("failed clearing expired token")
			}
		}
		return err
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tDATE\tSTATUS\tITEMS\tAMOUNT")
	for _, order := range orders {
		var itemCount int32
		for _, item := range order.Items {
			itemCount += item.Quantity
		}
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%d\t%s\n",
			order.ID,
			order.CreatedAt.Format(time.DateOnly),
			order.Status,
			itemCount,
			order.Amount.StringFixed(2),
		)
	}
	return w.Flush()
}
