package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/stridezone/storefront/account"
	inErrors "github.com/stridezone/storefront/internal/errors"
)

func runLogin(c context.Context, username, password string) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	client := account.NewClient(a.cfg.Backend.BaseURL)
	token, err := client.Login(c, username, password)
	if err != nil {
		return err
	}

	session, err := account.DecodeSession(c, token)
	if err != nil && !errors.Is(err, inErrors.ErrTokenExpired) {
		return err
	}
	if err := account.SaveToken(c, a.slot, a.cfg.Store.TokenKey, token); err != nil {
		return err
	}
	fmt.Printf("Welcome back, %s!\n", session.Username)
	return nil
}

func runRegister(c context.Context, username, email, password string) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	client := account.NewClient(a.cfg.Backend.BaseURL)
	input := account.RegisterInput{Username: username, Email: email, Password: password}
	if err := client.Register(c, input); err != nil {
		return err
	}
	fmt.Printf("Account created for %s. You can log in now.\n", username)
	return nil
}

// runLogout drops the session and empties the cart together so the
// next shopper on this machine starts clean.
func runLogout(c context.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	if err := account.ClearToken(c, a.slot, a.cfg.Store.TokenKey); err != nil {
		return err
	}
	if err := a.openCart(c).Clear(c); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
