package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	inErrors "github.com/Alturino/storefront/product/internal/errors"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
	"github.com/Alturino/storefront/review/pkg/review"
)

type CatalogReader interface {
	Catalog(c context.Context) (*model.Catalog, error)
}

type ProductService struct {
	catalog CatalogReader
}

func NewProductService(catalog CatalogReader) *ProductService {
	return &ProductService{catalog: catalog}
}

func toResponse(p model.Product) response.Product {
	summary := review.Summary(p)
	res := response.Product{
		Product:      p,
		Rating:       summary.Rating,
		ReviewsCount: summary.ReviewsCount,
		FromPrice:    decimal.Zero,
	}
	for i, v := range p.Variants {
		if i == 0 || v.Price.LessThan(res.FromPrice) {
			res.FromPrice = v.Price
		}
	}
	return res
}

func matches(p response.Product, param request.FindProducts) bool {
	if param.Category != "" &&
		!strings.EqualFold(p.Category, param.Category) &&
		!strings.EqualFold(p.CategoryID, param.Category) {
		return false
	}
	if param.Query != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(param.Query))) {
		return false
	}
	if param.MinPrice != nil && p.FromPrice.LessThan(*param.MinPrice) {
		return false
	}
	if param.MaxPrice != nil && p.FromPrice.GreaterThan(*param.MaxPrice) {
		return false
	}
	return true
}

func sortProducts(products []response.Product, by string) {
	switch by {
	case request.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b response.Product) int { return a.FromPrice.Cmp(b.FromPrice) })
	case request.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b response.Product) int { return b.FromPrice.Cmp(a.FromPrice) })
	case request.SortRating:
		slices.SortStableFunc(products, func(a, b response.Product) int { return cmp.Compare(b.Rating, a.Rating) })
	case request.SortName:
		slices.SortStableFunc(products, func(a, b response.Product) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
}

// FindProducts lists catalog products matching param, in catalog order
// unless a sort is given.
func (svc *ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading catalog").Logger()
	logger.Trace().Msg("reading catalog")
	catalog, err := svc.catalog.Catalog(c)
	if err != nil {
		err = fmt.Errorf("failed reading catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("read catalog")

	products := make([]response.Product, 0, len(catalog.Products))
	for _, p := range catalog.Products {
		res := toResponse(p)
		if matches(res, param) {
			products = append(products, res)
		}
	}
	sortProducts(products, param.Sort)
	logger.Trace().Int("found", len(products)).Msg("filtered products")

	return products, nil
}

func (svc *ProductService) FindProductById(c context.Context, id string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, id).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading catalog").Logger()
	logger.Trace().Msg("reading catalog")
	catalog, err := svc.catalog.Catalog(c)
	if err != nil {
		err = fmt.Errorf("failed reading catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	product, ok := catalog.FindProduct(id)
	if !ok {
		err := fmt.Errorf("failed finding product with error=%w", inErrors.ErrProductNotFound)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Trace().Msg("found product")

	return toResponse(product), nil
}
