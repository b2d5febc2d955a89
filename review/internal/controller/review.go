package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/review/internal/otel"
	"github.com/Alturino/storefront/review/internal/service"
	"github.com/Alturino/storefront/review/pkg/review"
)

type ReviewController struct {
	service *service.ReviewService
}

func AttachReviewController(router *mux.Router, service *service.ReviewService) {
	controller := ReviewController{service: service}
	router.HandleFunc("/products/{productId}/reviews", controller.FindProductReviews).
		Methods(http.MethodGet)
}

// parseCount falls back to the default for missing or non-positive values
// and caps the rest.
func parseCount(raw string) int {
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		return review.DefaultCount
	}
	return min(count, review.MaxCount)
}

func (ctrl ReviewController) FindProductReviews(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReviewController FindProductReviews")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReviewController FindProductReviews").
		Str(log.KeyProductID, productID).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "finding product reviews").Logger()
	logger.Trace().Msg("finding product reviews")
	res, err := ctrl.service.FindProductReviews(c, productID, parseCount(r.URL.Query().Get("count")))
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if errors.Is(err, service.ErrProductNotFound) {
			inHttp.WriteErrorResponse(c, w, http.StatusNotFound, service.ErrProductNotFound.Error())
			return
		}
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Catalog unavailable")
		return
	}
	logger.Trace().Int("reviews", len(res.Reviews)).Msg("found product reviews")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, res)
}
