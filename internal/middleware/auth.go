package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/token"
)

const (
	MessageMissingToken = "Missing token"
	MessageInvalidToken = "Invalid/expired token"
	MessageForbidden    = "Forbidden"
)

// RequireAdmin lets a request through only with a valid bearer token
// carrying the admin role. The verified claims are attached to the context.
func RequireAdmin(cfg config.Auth) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware RequireAdmin")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware RequireAdmin").Logger()
			c = logger.WithContext(c)

			authorization := r.Header.Get(inHttp.KeyHeaderAuthorization)
			bearer, found := strings.CutPrefix(authorization, inHttp.ValueHeaderBearerPrefix)
			if !found || bearer == "" {
				err := fmt.Errorf("failed reading bearer token with error=%w", inErrors.ErrEmptyAuth)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, MessageMissingToken)
				return
			}

			claims, err := token.Verify(c, cfg, bearer)
			if err != nil {
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, MessageInvalidToken)
				return
			}

			if !claims.IsAdmin() {
				err = fmt.Errorf("failed authorizing subject=%s with error=%w", claims.Subject, inErrors.ErrForbidden)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, http.StatusForbidden, MessageForbidden)
				return
			}

			logger = logger.With().Str(log.KeyUsername, claims.Subject).Logger()
			c = token.AttachClaims(logger.WithContext(c), claims)
			logger.Trace().Msg("authorized admin")

			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
