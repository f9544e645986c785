package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stridezone/storefront/internal/constants"
	"github.com/stridezone/storefront/internal/log"
)

func Start() {
	logger := log.InitLogger("storefront.log", os.Getenv("STRIDEZONE_ENV")).
		With().
		Str(log.KeyAppName, constants.AppStorefront).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "StrideZone storefront client",
	}

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			category, _ := cmd.Flags().GetString("category")
			return runBrowse(cmd.Context(), search, category)
		},
	}
	browseCmd.Flags().String("search", "", "filter by name")
	browseCmd.Flags().String("category", "", "filter by category")

	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cartAddCmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, _ := cmd.Flags().GetInt32("quantity")
			return runCartAdd(cmd.Context(), args[0], quantity)
		},
	}
	cartAddCmd.Flags().Int32("quantity", 1, "quantity to add")
	cartCmd.AddCommand(
		cartAddCmd,
		&cobra.Command{
			Use:   "show",
			Short: "Show cart lines, count and total",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCartShow(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "inc <productId>",
			Short: "Increase a line's quantity by one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCartAdjust(cmd.Context(), args[0], 1)
			},
		},
		&cobra.Command{
			Use:   "dec <productId>",
			Short: "Decrease a line's quantity by one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCartAdjust(cmd.Context(), args[0], -1)
			},
		},
		&cobra.Command{
			Use:   "remove <productId>",
			Short: "Remove a line from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCartRemove(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCartClear(cmd.Context())
			},
		},
	)

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			return runLogin(cmd.Context(), username, password)
		},
	}
	loginCmd.Flags().String("username", "", "username")
	loginCmd.Flags().String("password", "", "password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return runRegister(cmd.Context(), username, email, password)
		},
	}
	registerCmd.Flags().String("username", "", "username")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("password", "", "password")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	checkoutCmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the cart as an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			street, _ := cmd.Flags().GetString("street")
			city, _ := cmd.Flags().GetString("city")
			phone, _ := cmd.Flags().GetString("phone")
			return runCheckout(cmd.Context(), street, city, phone)
		},
	}
	checkoutCmd.Flags().String("street", "", "street address")
	checkoutCmd.Flags().String("city", "", "city")
	checkoutCmd.Flags().String("phone", "", "phone number")
	checkoutCmd.MarkFlagRequired("street")
	checkoutCmd.MarkFlagRequired("city")
	checkoutCmd.MarkFlagRequired("phone")

	rootCmd.AddCommand(
		browseCmd,
		cartCmd,
		loginCmd,
		registerCmd,
		&cobra.Command{
			Use:   "logout",
			Short: "Drop the session and empty the cart",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLogout(cmd.Context())
			},
		},
		checkoutCmd,
		&cobra.Command{
			Use:   "orders",
			Short: "List past orders",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOrders(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "mockapi",
			Short: "Run the mock backend for local development",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMockApi(cmd.Context())
			},
		},
	)

	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
