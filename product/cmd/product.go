package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/product/internal/controller"
	"github.com/Alturino/storefront/product/internal/service"
)

func AttachProduct(c context.Context, router *mux.Router, catalog service.CatalogReader) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachProduct").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing productService").Logger()
	logger.Info().Msg("initializing productService")
	productService := service.NewProductService(catalog)
	logger.Info().Msg("initialized productService")

	logger = logger.With().Str(log.KeyProcess, "initializing productController").Logger()
	logger.Info().Msg("initializing productController")
	controller.AttachProductController(router, productService)
	logger.Info().Msg("initialized productController")
}
