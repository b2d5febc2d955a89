package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

const (
	maskedValue = "****"

	// MaxLoggedBody is how much of a request body is read ahead for logging.
	// Longer bodies are passed on unread and not logged.
	MaxLoggedBody = 64 << 10
)

var maskedFields = []string{"password", "token"}

type replayBody struct {
	io.Reader
	io.Closer
}

// maskedBody decodes a JSON request body for logging and restores r.Body.
// Non JSON bodies are not read; at most MaxLoggedBody+1 bytes of the rest
// are, so handler size limits still see the whole stream.
func maskedBody(r *http.Request) any {
	if r.Body == nil || r.Body == http.NoBody ||
		!strings.HasPrefix(r.Header.Get(inHttp.KeyHeaderContentType), inHttp.ValueHeaderApplicationJson) {
		return nil
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, MaxLoggedBody+1))
	r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
	if err != nil || len(head) > MaxLoggedBody {
		return nil
	}

	requestBody := map[string]interface{}{}
	if err := json.Unmarshal(head, &requestBody); err != nil {
		return nil
	}
	for _, field := range maskedFields {
		if requestBody[field] != nil {
			requestBody[field] = maskedValue
		}
	}
	return requestBody
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(inHttp.KeyHeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c, span := otel.Tracer.Start(
			r.Context(),
			"middleware Logging",
			trace.WithAttributes(
				attribute.String(log.KeyRequestID, requestID),
				attribute.String(log.KeyRequestHost, r.Host),
				attribute.String(log.KeyRequestIp, r.RemoteAddr),
				attribute.String(log.KeyRequestMethod, r.Method),
				attribute.String(log.KeyRequestURI, r.RequestURI),
				attribute.String(log.KeyRequestURL, r.URL.String()),
			),
		)
		defer span.End()

		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyRequestID, requestID).
			Dict(log.KeyRequest, zerolog.Dict().
				Str(log.KeyRequestHost, r.Host).
				Str(log.KeyRequestIp, r.RemoteAddr).
				Str(log.KeyRequestMethod, r.Method).
				Str(log.KeyRequestURI, r.RequestURI)).
			Str(log.KeyTag, "middleware Logging").
			Logger()
		logger.Trace().Any(log.KeyRequestBody, maskedBody(r)).Msg("received request")

		logger.Trace().Msg("attaching request value to context")
		c = log.AttachRequestIDToContext(c, requestID)
		c = logger.WithContext(c)
		r = r.WithContext(c)
		w.Header().Set(inHttp.KeyHeaderRequestID, requestID)
		logger.Trace().Msg("attached request value to context")

		next.ServeHTTP(w, r)
	})
}
