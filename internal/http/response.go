package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

func writeHeader(w http.ResponseWriter, header map[string]string, statusCode int) {
	w.Header().Set(KeyHeaderContentType, ValueHeaderApplicationJson)
	for k, v := range header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(statusCode)
}

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	statusCode int,
	body any,
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "WriteJsonResponse").Logger()

	writeHeader(w, header, statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

// WriteErrorResponse answers with the {"error": message} body every endpoint
// uses for failures.
func WriteErrorResponse(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	WriteJsonResponse(c, w, map[string]string{}, statusCode, map[string]string{"error": message})
}

// WriteRawJsonResponse writes an already encoded JSON document untouched.
func WriteRawJsonResponse(c context.Context, w http.ResponseWriter, statusCode int, body []byte) {
	c, span := otel.Tracer.Start(c, "WriteRawJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "WriteRawJsonResponse").Logger()

	writeHeader(w, map[string]string{}, statusCode)
	if _, err := w.Write(body); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}
