package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/pkg/cart"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/catalog/pkg/model"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
)

const MaxQuoteBytes = 1 << 20

type CartController struct {
	service *service.CartService
}

func AttachCartController(router *mux.Router, service *service.CartService) {
	controller := CartController{service: service}
	router.HandleFunc("/cart/quote", controller.Quote).Methods(http.MethodPost)
}

func (ctrl CartController) Quote(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Quote")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Quote").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	var payload any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxQuoteBytes)).Decode(&payload); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(err, inErrors.ErrInvalidJson))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, model.ErrNotObject.Error())
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "quoting cart").Logger()
	logger.Trace().Msg("quoting cart")
	quote, err := ctrl.service.Quote(c, payload)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		switch {
		case errors.Is(err, cart.ErrUnknownProduct), errors.Is(err, cart.ErrUnknownVariant):
			inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, err.Error())
		default:
			inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Catalog unavailable")
		}
		return
	}
	logger.Trace().Bool("canCheckout", quote.CanCheckout).Msg("quoted cart")

	res := response.Quote{Quote: quote}
	if err := cart.CheckCheckout(quote); err != nil {
		res.Message = err.Error()
	}
	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, res)
}
