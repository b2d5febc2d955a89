package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/catalog/internal/otel"
	"github.com/Alturino/storefront/catalog/internal/service"
	"github.com/Alturino/storefront/catalog/pkg/model"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/token"
)

const MaxCatalogBytes = 5 << 20

type CatalogController struct {
	service *service.CatalogService
}

func AttachCatalogController(
	router *mux.Router,
	auth mux.MiddlewareFunc,
	service *service.CatalogService,
) {
	controller := CatalogController{service: service}
	router.HandleFunc("/catalog", controller.GetCatalog).Methods(http.MethodGet)
	router.Handle("/catalog", auth(http.HandlerFunc(controller.ReplaceCatalog))).
		Methods(http.MethodPut)
}

func (ctrl CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController GetCatalog")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController GetCatalog").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "getting catalog").Logger()
	logger.Trace().Msg("getting catalog")
	document, err := ctrl.service.Document(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, model.ErrCatalogUnavailable.Error())
		return
	}
	logger.Trace().Msg("got catalog")

	inHttp.WriteRawJsonResponse(c, w, http.StatusOK, document)
}

func (ctrl CatalogController) ReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController ReplaceCatalog")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController ReplaceCatalog").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "reading request body").Logger()
	logger.Trace().Msg("reading request body")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxCatalogBytes))
	if err != nil {
		err = fmt.Errorf("failed reading request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		maxBytesErr := &http.MaxBytesError{}
		if errors.As(err, &maxBytesErr) {
			inHttp.WriteErrorResponse(c, w, http.StatusRequestEntityTooLarge, "Catalog too large")
			return
		}
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, model.ErrNotObject.Error())
		return
	}
	logger.Trace().Msg("read request body")

	logger = logger.With().Str(log.KeyProcess, "replacing catalog").Logger()
	logger.Trace().Msg("replacing catalog")
	if err := ctrl.service.Replace(c, body); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		switch {
		case errors.Is(err, model.ErrNotObject),
			errors.Is(err, model.ErrProductsNotArray),
			errors.Is(err, model.ErrCategoriesNotArray),
			errors.Is(err, model.ErrPromotionsNotArray):
			inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, err.Error())
		default:
			inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Failed saving catalog")
		}
		return
	}
	if claims, ok := token.ClaimsFromContext(c); ok {
		logger = logger.With().Str(log.KeyUsername, claims.Subject).Logger()
	}
	logger.Info().Msg("replaced catalog")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, map[string]bool{"ok": true})
}
