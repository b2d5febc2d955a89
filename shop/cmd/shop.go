package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/shop/internal/controller"
)

// AttachShop mounts the health check on api and the storefront pages on
// router. The pages are a catch-all, so this goes last.
func AttachShop(c context.Context, router *mux.Router, api *mux.Router, cfg config.Application) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachShop").
		Str("publicRoot", cfg.PublicRoot).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing healthController").Logger()
	logger.Info().Msg("initializing healthController")
	controller.AttachHealthController(api, cfg.Env)
	logger.Info().Msg("initialized healthController")

	logger = logger.With().Str(log.KeyProcess, "initializing staticController").Logger()
	logger.Info().Msg("initializing staticController")
	controller.AttachStaticController(router, cfg.PublicRoot)
	logger.Info().Msg("initialized staticController")
}
