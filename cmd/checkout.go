package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stridezone/storefront/account"
	"github.com/stridezone/storefront/catalog"
	"github.com/stridezone/storefront/checkout"
	inErrors "github.com/stridezone/storefront/internal/errors"
)

func runCheckout(c context.Context, street, city, phone string) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	token, err := account.LoadToken(c, a.slot, a.cfg.Store.TokenKey)
	if err != nil {
		if errors.Is(err, inErrors.ErrUnauthenticated) {
			fmt.Println("Please log in before checking out.")
			return inErrors.ErrUnauthenticated
		}
		return err
	}
	if _, err := account.DecodeSession(c, token); err != nil {
		if errors.Is(err, inErrors.ErrTokenExpired) {
			fmt.Println("Your session has expired. Please log in again.")
			if clearErr := account.ClearToken(c, a.slot, a.cfg.Store.TokenKey); clearErr != nil {
				zerolog.Ctx(c).Warn().Err(clearErr).Msg("failed clearing expired token")
			}
		}
		return err
	}

	store := a.openCart(c)
	client := checkout.NewClient(a.cfg.Backend.BaseURL, catalog.NewClient(a.cfg.Backend.BaseURL))
	address := checkout.Address{Street: street, City: city, Phone: phone}
	confirmation, err := client.Submit(c, store, address, token)
	if err != nil {
		switch {
		case errors.Is(err, inErrors.ErrEmptyCart):
			fmt.Println("Your cart is empty; nothing to check out.")
		case errors.Is(err, inErrors.ErrStockChanged):
			fmt.Println("Stock changed while you were shopping; adjust your cart and try again.")
		}
		return err
	}

	if err := store.Clear(c); err != nil {
		return err
	}
	fmt.Printf(
		"Order %s confirmed, total %s. Thank you!\n",
		confirmation.OrderID,
		confirmation.Amount.StringFixed(2),
	)
	return nil
}
