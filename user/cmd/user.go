package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/user/internal/controller"
	"github.com/Alturino/storefront/user/internal/service"
	"github.com/Alturino/storefront/user/pkg/request"
)

func AttachUser(c context.Context, router *mux.Router, cfg config.Auth) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachUser").
		Str(log.KeyUsername, cfg.Username).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing userService").Logger()
	logger.Info().Msg("initializing userService")
	if cfg.PasswordHash == "" && cfg.Password == "" {
		logger.Warn().Msg("no admin password configured, login is disabled")
	}
	userService := service.NewUserService(cfg)
	logger.Info().Msg("initialized userService")

	logger = logger.With().Str(log.KeyProcess, "initializing userController").Logger()
	logger.Info().Msg("initializing userController")
	controller.AttachUserController(router, userService)
	logger.Info().Msg("initialized userController")
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASS_HASH.
func HashPassword(c context.Context, password string, cost int) (string, error) {
	return service.HashPassword(c, request.HashPasswordRequest{Password: password, Cost: cost})
}
