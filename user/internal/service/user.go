package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/storefront/internal/common/validate"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/token"
	inErrors "github.com/Alturino/storefront/user/internal/errors"
	"github.com/Alturino/storefront/user/internal/otel"
	"github.com/Alturino/storefront/user/pkg/request"
)

// UserService authenticates the single configured admin.
type UserService struct {
	config config.Auth
	now    func() time.Time
}

func NewUserService(config config.Auth) *UserService {
	return &UserService{config: config, now: time.Now}
}

func (u *UserService) Login(c context.Context, param request.LoginRequest) (string, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyUsername, param.Username).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "verifying username").Logger()
	logger.Trace().Msg("verifying username")
	if subtle.ConstantTimeCompare([]byte(param.Username), []byte(u.config.Username)) != 1 {
		metrics.LoginTotal.WithLabelValues(metrics.ResultFailed).Inc()
		err := fmt.Errorf("failed verifying username with error=%w", inErrors.ErrInvalidLogin)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Msg("verified username")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Trace().Msg("verifying password")
	if err := u.verifyPassword(param.Password); err != nil {
		metrics.LoginTotal.WithLabelValues(metrics.ResultFailed).Inc()
		err = fmt.Errorf("failed verifying password with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "signing token").Logger()
	logger.Trace().Msg("signing token")
	signedToken, err := token.Sign(c, u.config, param.Username, u.now())
	if err != nil {
		metrics.LoginTotal.WithLabelValues(metrics.ResultFailed).Inc()
		err = fmt.Errorf("failed signing token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("signed token")

	metrics.LoginTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return signedToken, nil
}

// verifyPassword prefers the bcrypt hash. Without one it compares against the
// plaintext password, and an empty configured password never matches.
func (u *UserService) verifyPassword(password string) error {
	if u.config.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(u.config.PasswordHash), []byte(password))
		if err != nil {
			return fmt.Errorf("%w: %w", inErrors.ErrInvalidLogin, err)
		}
		return nil
	}
	if u.config.Password == "" {
		return inErrors.ErrInvalidLogin
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(u.config.Password)) != 1 {
		return inErrors.ErrInvalidLogin
	}
	return nil
}

func HashPassword(c context.Context, param request.HashPasswordRequest) (string, error) {
	c, span := otel.Tracer.Start(c, "HashPassword")
	defer span.End()

	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "HashPassword").
		Int("cost", param.Cost).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating password").Logger()
	if err := validate.New().StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating password with error=%s", validate.Message(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Trace().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), param.Cost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Msg("hashed password")

	return string(hashed), nil
}
