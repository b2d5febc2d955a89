package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartCmd "github.com/Alturino/storefront/cart/cmd"
	catalogCmd "github.com/Alturino/storefront/catalog/cmd"
	"github.com/Alturino/storefront/internal/common/constants"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/otel"
	orderCmd "github.com/Alturino/storefront/order/cmd"
	productCmd "github.com/Alturino/storefront/product/cmd"
	reviewCmd "github.com/Alturino/storefront/review/cmd"
	shopCmd "github.com/Alturino/storefront/shop/cmd"
	uploadCmd "github.com/Alturino/storefront/upload/cmd"
	userCmd "github.com/Alturino/storefront/user/cmd"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront API and static site",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), cfg)
		},
	}
}

// NewRouter mounts every module. The static site is a catch-all and goes
// last.
func NewRouter(c context.Context, cfg *config.Config, cache *redis.Client) (*mux.Router, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewRouter").
		Logger()
	c = logger.WithContext(c)

	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.AppStorefront), middleware.Logging, middleware.RecoverPanic)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	api := router.PathPrefix("/api").Subrouter()
	auth := middleware.RequireAdmin(cfg.Auth)

	userCmd.AttachUser(c, api, cfg.Auth)

	catalogService, err := catalogCmd.AttachCatalog(c, api, auth, cfg, cache)
	if err != nil {
		return nil, err
	}
	cartCmd.AttachCart(c, api, catalogService)
	if err := orderCmd.AttachOrder(c, api, auth, cfg.Storage, catalogService); err != nil {
		return nil, err
	}
	productCmd.AttachProduct(c, api, catalogService)
	reviewCmd.AttachReview(c, api, catalogService)
	if err := uploadCmd.AttachUpload(c, api, auth, cfg); err != nil {
		return nil, err
	}

	shopCmd.AttachShop(c, router, api, cfg.Application)
	return router, nil
}

func runServer(c context.Context, cfg *config.Config) error {
	c, span := otel.Tracer.Start(c, "main runServer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main runServer").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, cfg.Otel, constants.AppStorefront)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down otel").Logger()
		logger.Info().Msg("shutting down otel")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
		defer cancel()
		if err := otel.ShutdownOtel(shutdownCtx, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	var cache *redis.Client
	if cfg.Cache.Enabled {
		logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
		logger.Info().Msg("initializing cache")
		c = logger.WithContext(c)
		cache, err = infra.NewCacheClient(c, cfg.Cache)
		if err != nil {
			logger.Warn().Err(err).Msg("cache unavailable, serving catalog from file only")
			cache = nil
		} else {
			defer func() {
				logger.Info().Msg("shutting down cache")
				if err := cache.Close(); err != nil {
					err = fmt.Errorf("failed shutting down cache with error=%w", err)
					logger.Error().Err(err).Msg(err.Error())
					return
				}
				logger.Info().Msg("shutdown cache")
			}()
			logger.Info().Msg("initialized cache")
		}
	}

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	c = logger.WithContext(c)
	router, err := NewRouter(c, cfg, cache)
	if err != nil {
		err = fmt.Errorf("failed initializing router with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(c) },
		Handler:      middleware.BlockInternals(router),
		ReadTimeout:  cfg.Application.ReadTimeout,
		WriteTimeout: cfg.Application.WriteTimeout,
	}
	logger.Info().Msg("initialized server")

	serverErr := make(chan error, 1)
	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("error=%w occured while server is running", err)
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		return err
	case <-c.Done():
	}

	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown http server")

	return nil
}
