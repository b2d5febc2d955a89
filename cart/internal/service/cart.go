package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/cart"
	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
)

type CatalogReader interface {
	Catalog(c context.Context) (*model.Catalog, error)
}

type CartService struct {
	catalog CatalogReader
}

func NewCartService(catalog CatalogReader) *CartService {
	return &CartService{catalog: catalog}
}

// Quote prices a cart payload in any of the shapes ExtractLines accepts.
func (svc *CartService) Quote(c context.Context, payload any) (cart.Quote, error) {
	c, span := otel.Tracer.Start(c, "CartService Quote")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Quote").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "extracting cart lines").Logger()
	logger.Trace().Msg("extracting cart lines")
	lines := cart.ExtractLines(payload)
	logger = logger.With().Int(log.KeyCartLines, len(lines)).Logger()
	logger.Trace().Msg("extracted cart lines")

	logger = logger.With().Str(log.KeyProcess, "reading catalog").Logger()
	logger.Trace().Msg("reading catalog")
	catalog, err := svc.catalog.Catalog(c)
	if err != nil {
		err = fmt.Errorf("failed reading catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Quote{}, err
	}
	logger.Trace().Msg("read catalog")

	logger = logger.With().Str(log.KeyProcess, "pricing cart").Logger()
	logger.Trace().Msg("pricing cart")
	quote, err := cart.NewQuote(catalog, lines)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Quote{}, err
	}
	logger.Trace().
		Int(log.KeyCartLinesMerged, len(quote.Lines)).
		Str("subtotal", quote.Subtotal.String()).
		Bool("canCheckout", quote.CanCheckout).
		Msg("priced cart")

	return quote, nil
}
