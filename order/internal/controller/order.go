package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/pkg/cart"
	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/common/validate"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/service"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

const (
	MaxOrderBytes = 1 << 20

	messageInvalidJson        = "Invalid JSON"
	messageCatalogUnavailable = "Catalog unavailable"
	messageOrderFailed        = "Failed saving order"
	messageOrdersUnavailable  = "Failed reading orders"
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(router *mux.Router, auth mux.MiddlewareFunc, service *service.OrderService) {
	controller := OrderController{service: service}
	router.HandleFunc("/orders", controller.CreateOrder).Methods(http.MethodPost)
	router.Handle("/orders", auth(http.HandlerFunc(controller.FindOrders))).Methods(http.MethodGet)
}

func (ctrl OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController CreateOrder").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.CreateOrder{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxOrderBytes)).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(err, inErrors.ErrInvalidJson))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, messageInvalidJson)
		return
	}
	logger.Trace().Int(log.KeyCartLines, len(reqBody.Items)).Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := validate.New().StructCtx(c, reqBody); err != nil {
		message := validate.Message(err)
		err = fmt.Errorf("failed validating request body with error=%s", message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, message)
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
	logger.Trace().Msg("creating order")
	created, err := ctrl.service.CreateOrder(c, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeCreateOrderError(c, w, err)
		return
	}
	logger.Info().Str(log.KeyOrderNumber, created.OrderNumber).Msg("created order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, created)
}

func writeCreateOrderError(c context.Context, w http.ResponseWriter, err error) {
	minimumErr := &cart.MinimumOrderError{}
	switch {
	case errors.As(err, &minimumErr):
		inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusBadRequest, response.MinimumOrder{
			Error:    cart.ErrMinimumOrder.Error(),
			Message:  minimumErr.Error(),
			MinOrder: minimumErr.MinOrder,
			Subtotal: minimumErr.Subtotal,
		})
	case errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrUnknownProduct),
		errors.Is(err, cart.ErrUnknownVariant):
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrCatalogUnavailable):
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, messageCatalogUnavailable)
	default:
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, messageOrderFailed)
	}
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Trace().Msg("finding orders")
	orders, err := ctrl.service.ListOrders(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, messageOrdersUnavailable)
		return
	}
	logger.Trace().Int(log.KeyOrdersCount, len(orders)).Msg("found orders")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, orders)
}
