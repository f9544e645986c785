package cmd

import (
	"context"

	"github.com/stridezone/storefront/internal/config"
	"github.com/stridezone/storefront/mockapi"
)

func runMockApi(c context.Context) error {
	cfg := config.InitConfig(c, "storefront")
	mockapi.Run(c, cfg)
	return nil
}
