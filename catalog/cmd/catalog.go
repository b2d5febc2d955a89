package cmd

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/catalog/internal/controller"
	"github.com/Alturino/storefront/catalog/internal/repository"
	"github.com/Alturino/storefront/catalog/internal/service"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
)

// AttachCatalog creates the default catalog file if needed, mounts the
// catalog endpoints on router and returns the service for other modules to
// read prices from. cache may be nil.
func AttachCatalog(
	c context.Context,
	router *mux.Router,
	auth mux.MiddlewareFunc,
	cfg *config.Config,
	cache *redis.Client,
) (*service.CatalogService, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachCatalog").
		Str(log.KeyCatalogPath, cfg.Storage.CatalogPath).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing catalog repository").Logger()
	logger.Info().Msg("initializing catalog repository")
	repo := repository.NewFileRepository(cfg.Storage.CatalogPath)
	if err := repo.EnsureDefault(c); err != nil {
		err = fmt.Errorf("failed initializing catalog repository with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized catalog repository")

	logger = logger.With().Str(log.KeyProcess, "initializing catalogService").Logger()
	logger.Info().Bool("cacheEnabled", cache != nil).Msg("initializing catalogService")
	catalogService := service.NewCatalogService(repo, cache, cfg.Cache.TTL)
	logger.Info().Msg("initialized catalogService")

	logger = logger.With().Str(log.KeyProcess, "initializing catalogController").Logger()
	logger.Info().Msg("initializing catalogController")
	controller.AttachCatalogController(router, auth, catalogService)
	logger.Info().Msg("initialized catalogController")

	return catalogService, nil
}
