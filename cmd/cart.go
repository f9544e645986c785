package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/stridezone/storefront/catalog"
	inErrors "github.com/stridezone/storefront/internal/errors"
)

func runCartAdd(c context.Context, arg string, quantity int32) error {
	id, err := parseProductID(arg)
	if err != nil {
		return err
	}
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	client := catalog.NewClient(a.cfg.Backend.BaseURL)
	product, err := client.GetProduct(c, id)
	if err != nil {
		return err
	}

	store := a.openCart(c)
	err = store.AddItem(c, product.Snapshot(), quantity)
	switch {
	case errors.Is(err, inErrors.ErrOutOfStock):
		fmt.Printf("%s is out of stock.\n", product.Name)
		return nil
	case errors.Is(err, inErrors.ErrStockLimitReached):
		fmt.Printf("Only %d of %s in stock; cart holds the maximum.\n", product.Stock, product.Name)
	case err != nil:
		return err
	default:
		fmt.Printf("Added %s to your cart.\n", product.Name)
	}
	printCart(store)
	return nil
}

func runCartShow(c context.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	printCart(a.openCart(c))
	return nil
}

func runCartAdjust(c context.Context, arg string, delta int32) error {
	id, err := parseProductID(arg)
	if err != nil {
		return err
	}
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	store := a.openCart(c)
	err = store.UpdateQuantity(c, id, delta)
	switch {
	case errors.Is(err, inErrors.ErrStockLimitReached):
		fmt.Println("Maximum stock reached; quantity unchanged.")
	case err != nil:
		return err
	}
	printCart(store)
	return nil
}

func runCartRemove(c context.Context, arg string) error {
	id, err := parseProductID(arg)
	if err != nil {
		return err
	}
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	store := a.openCart(c)
	if err := store.RemoveItem(c, id); err != nil {
		return err
	}
	printCart(store)
	return nil
}

func runCartClear(c context.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	store := a.openCart(c)
	if err := store.Clear(c); err != nil {
		return err
	}
	fmt.Println("Cart cleared.")
	return nil
}
