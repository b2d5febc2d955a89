package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/common/validate"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	inErrors "github.com/Alturino/storefront/product/internal/errors"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/service"
	"github.com/Alturino/storefront/product/pkg/request"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(router *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service}
	router.HandleFunc("/products", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{productId}", controller.FindProductById).Methods(http.MethodGet)
}

func parsePrice(query url.Values, key string) (*decimal.Decimal, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed parsing %s with error=%w", key, err)
	}
	return &price, nil
}

func parseFindProducts(query url.Values) (request.FindProducts, error) {
	param := request.FindProducts{
		Category: query.Get("category"),
		Query:    query.Get("q"),
		Sort:     query.Get("sort"),
	}
	var err error
	if param.MinPrice, err = parsePrice(query, "minPrice"); err != nil {
		return request.FindProducts{}, err
	}
	if param.MaxPrice, err = parsePrice(query, "maxPrice"); err != nil {
		return request.FindProducts{}, err
	}
	return param, nil
}

func (ctrl ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProducts").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "parsing query").Logger()
	logger.Trace().Msg("parsing query")
	param, err := parseFindProducts(r.URL.Query())
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid price")
		return
	}
	if err := validate.New().StructCtx(c, param); err != nil {
		message := validate.Message(err)
		err = fmt.Errorf("failed validating query with error=%s", message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, message)
		return
	}
	logger.Trace().Msg("parsed query")

	logger = logger.With().Str(log.KeyProcess, "finding products").Logger()
	logger.Trace().Msg("finding products")
	products, err := ctrl.service.FindProducts(c, param)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Catalog unavailable")
		return
	}
	logger.Trace().Int("found", len(products)).Msg("found products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, products)
}

func (ctrl ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductById").
		Str(log.KeyProductID, productID).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Trace().Msg("finding product")
	product, err := ctrl.service.FindProductById(c, productID)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if errors.Is(err, inErrors.ErrProductNotFound) {
			inHttp.WriteErrorResponse(c, w, http.StatusNotFound, inErrors.ErrProductNotFound.Error())
			return
		}
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Catalog unavailable")
		return
	}
	logger.Trace().Msg("found product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, product)
}
