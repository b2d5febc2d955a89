package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/review/internal/controller"
	"github.com/Alturino/storefront/review/internal/service"
)

func AttachReview(c context.Context, router *mux.Router, catalog service.CatalogReader) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachReview").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing reviewService").Logger()
	logger.Info().Msg("initializing reviewService")
	reviewService := service.NewReviewService(catalog)
	logger.Info().Msg("initialized reviewService")

	logger = logger.With().Str(log.KeyProcess, "initializing reviewController").Logger()
	logger.Info().Msg("initializing reviewController")
	controller.AttachReviewController(router, reviewService)
	logger.Info().Msg("initialized reviewController")
}
