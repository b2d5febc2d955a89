package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/controller"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/internal/log"
)

// AttachCart mounts the public cart quote endpoint on router.
func AttachCart(c context.Context, router *mux.Router, catalog service.CatalogReader) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing cartService").Logger()
	logger.Info().Msg("initializing cartService")
	cartService := service.NewCartService(catalog)
	logger.Info().Msg("initialized cartService")

	logger = logger.With().Str(log.KeyProcess, "initializing cartController").Logger()
	logger.Info().Msg("initializing cartController")
	controller.AttachCartController(router, cartService)
	logger.Info().Msg("initialized cartController")
}
