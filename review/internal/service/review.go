package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/review/internal/otel"
	"github.com/Alturino/storefront/review/pkg/response"
	"github.com/Alturino/storefront/review/pkg/review"
)

var ErrProductNotFound = errors.New("Product not found")

type CatalogReader interface {
	Catalog(c context.Context) (*model.Catalog, error)
}

type ReviewService struct {
	catalog CatalogReader
	now     func() time.Time
}

func NewReviewService(catalog CatalogReader) *ReviewService {
	return &ReviewService{catalog: catalog, now: time.Now}
}

func (svc *ReviewService) FindProductReviews(
	c context.Context,
	productID string,
	count int,
) (response.ProductReviews, error) {
	c, span := otel.Tracer.Start(c, "ReviewService FindProductReviews")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReviewService FindProductReviews").
		Str(log.KeyProductID, productID).
		Int("count", count).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading catalog").Logger()
	logger.Trace().Msg("reading catalog")
	catalog, err := svc.catalog.Catalog(c)
	if err != nil {
		err = fmt.Errorf("failed reading catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ProductReviews{}, err
	}
	logger.Trace().Msg("read catalog")

	product, ok := catalog.FindProduct(productID)
	if !ok {
		err := fmt.Errorf("failed finding product with error=%w", ErrProductNotFound)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return response.ProductReviews{}, err
	}

	summary := review.Summary(product)
	reviews := review.Pick(review.PoolFor(catalog), product.ID, count, svc.now())
	logger.Trace().Int("picked", len(reviews)).Msg("picked reviews")

	return response.ProductReviews{
		ProductID:    product.ID,
		Rating:       summary.Rating,
		ReviewsCount: summary.ReviewsCount,
		Reviews:      reviews,
	}, nil
}
