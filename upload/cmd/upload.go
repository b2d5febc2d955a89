package cmd

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/upload/internal/controller"
	inErrors "github.com/Alturino/storefront/upload/internal/errors"
	"github.com/Alturino/storefront/upload/internal/service"
	"github.com/Alturino/storefront/upload/internal/storage"
)

// AttachUpload picks the configured storage backend and mounts the admin
// upload endpoint on router.
func AttachUpload(c context.Context, router *mux.Router, auth mux.MiddlewareFunc, cfg *config.Config) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachUpload").
		Str("backend", cfg.Upload.Backend).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing upload storage").Logger()
	logger.Info().Msg("initializing upload storage")
	var store storage.Storage
	switch cfg.Upload.Backend {
	case storage.BackendDisk, "":
		store = storage.NewDiskStorage(cfg.Application.PublicRoot, cfg.Upload.Dir)
	case storage.BackendMinio:
		client, err := infra.NewObjectStoreClient(c, cfg.Upload.Minio)
		if err != nil {
			err = fmt.Errorf("failed initializing upload storage with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		store = storage.NewMinioStorage(client, cfg.Upload.Minio.Bucket, cfg.Upload.Dir, cfg.Upload.Minio.PublicURL)
	default:
		err := fmt.Errorf("failed initializing upload storage=%s with error=%w", cfg.Upload.Backend, inErrors.ErrUnknownBackend)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized upload storage")

	logger = logger.With().Str(log.KeyProcess, "initializing uploadService").Logger()
	logger.Info().Msg("initializing uploadService")
	uploadService := service.NewUploadService(store, cfg.Upload)
	logger.Info().Msg("initialized uploadService")

	logger = logger.With().Str(log.KeyProcess, "initializing uploadController").Logger()
	logger.Info().Msg("initializing uploadController")
	controller.AttachUploadController(router, auth, uploadService, cfg.Upload.MaxSize)
	logger.Info().Msg("initialized uploadController")

	return nil
}
