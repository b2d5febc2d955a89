package cmd

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/order/internal/controller"
	"github.com/Alturino/storefront/order/internal/repository"
	"github.com/Alturino/storefront/order/internal/service"
)

// AttachOrder mounts POST /orders and the admin order listing on router.
func AttachOrder(
	c context.Context,
	router *mux.Router,
	auth mux.MiddlewareFunc,
	cfg config.Storage,
	catalog service.CatalogReader,
) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachOrder").
		Str(log.KeyOrdersPath, cfg.OrdersPath).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing order repository").Logger()
	logger.Info().Msg("initializing order repository")
	repo := repository.NewFileRepository(cfg.OrdersPath)
	if err := repo.EnsureFile(c); err != nil {
		err = fmt.Errorf("failed initializing order repository with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized order repository")

	logger = logger.With().Str(log.KeyProcess, "initializing orderService").Logger()
	logger.Info().Msg("initializing orderService")
	orderService := service.NewOrderService(repo, catalog)
	logger.Info().Msg("initialized orderService")

	logger = logger.With().Str(log.KeyProcess, "initializing orderController").Logger()
	logger.Info().Msg("initializing orderController")
	controller.AttachOrderController(router, auth, orderService)
	logger.Info().Msg("initialized orderController")

	return nil
}
