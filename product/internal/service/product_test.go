package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/catalog/pkg/model"
	inErrors "github.com/Alturino/storefront/product/internal/errors"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

type staticCatalog struct {
	catalog *model.Catalog
	err     error
}

func (s staticCatalog) Catalog(context.Context) (*model.Catalog, error) {
	return s.catalog, s.err
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testCatalog() *model.Catalog {
	return &model.Catalog{Products: []model.Product{
		{
			ID: "og-kush", Name: "OG Kush", CategoryID: "flower", Rating: 4.8, ReviewsCount: 12,
			Variants: []model.Variant{
				{Label: "3.5g", Price: decimal.RequireFromString("30")},
				{Label: "7g", Price: decimal.RequireFromString("55")},
			},
		},
		{
			ID: "blue-dream", Name: "Blue Dream", Category: "Flower", Rating: 4.2, ReviewsCount: 3,
			Variants: []model.Variant{{Label: "3.5g", Price: decimal.RequireFromString("25")}},
		},
		{
			ID: "gummies", Name: "Sour Gummies", Category: "Edibles", Rating: 4.5, ReviewsCount: 7,
			Variants: []model.Variant{{Label: "10pk", Price: decimal.RequireFromString("40")}},
		},
	}}
}

func ids(products []response.Product) []string {
	res := make([]string, 0, len(products))
	for _, p := range products {
		res = append(res, p.ID)
	}
	return res
}

func TestFindProducts(t *testing.T) {
	svc := NewProductService(staticCatalog{catalog: testCatalog()})

	tests := []struct {
		name     string
		param    request.FindProducts
		expected []string
	}{
		{
			name:     "given no filter should keep catalog order",
			param:    request.FindProducts{},
			expected: []string{"og-kush", "blue-dream", "gummies"},
		},
		{
			name:     "given category should match category or category id",
			param:    request.FindProducts{Category: "flower"},
			expected: []string{"og-kush", "blue-dream"},
		},
		{
			name:     "given query should match name ignoring case",
			param:    request.FindProducts{Query: "  KUSH "},
			expected: []string{"og-kush"},
		},
		{
			name:     "given price range should compare cheapest variant",
			param:    request.FindProducts{MinPrice: price("26"), MaxPrice: price("35")},
			expected: []string{"og-kush"},
		},
		{
			name:     "given price ascending should sort by cheapest variant",
			param:    request.FindProducts{Sort: request.SortPriceAsc},
			expected: []string{"blue-dream", "og-kush", "gummies"},
		},
		{
			name:     "given price descending should sort by cheapest variant",
			param:    request.FindProducts{Sort: request.SortPriceDesc},
			expected: []string{"gummies", "og-kush", "blue-dream"},
		},
		{
			name:     "given rating sort should put best rated first",
			param:    request.FindProducts{Sort: request.SortRating},
			expected: []string{"og-kush", "gummies", "blue-dream"},
		},
		{
			name:     "given name sort should order alphabetically",
			param:    request.FindProducts{Sort: request.SortName},
			expected: []string{"blue-dream", "og-kush", "gummies"},
		},
		{
			name:     "given unmatched query should return empty list",
			param:    request.FindProducts{Query: "nothing"},
			expected: []string{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			products, err := svc.FindProducts(testContext(), test.param)
			require.NoError(t, err)
			assert.Equal(t, test.expected, ids(products))
		})
	}
}

func TestFindProductById(t *testing.T) {
	t.Run("given known product should summarize it", func(t *testing.T) {
		svc := NewProductService(staticCatalog{catalog: testCatalog()})

		product, err := svc.FindProductById(testContext(), "og-kush")
		require.NoError(t, err)
		assert.Equal(t, "OG Kush", product.Name)
		assert.Equal(t, 4.8, product.Rating)
		assert.Equal(t, 12, product.ReviewsCount)
		assert.True(t, decimal.RequireFromString("30").Equal(product.FromPrice))
	})

	t.Run("given unrated product should derive rating", func(t *testing.T) {
		catalog := &model.Catalog{Products: []model.Product{{ID: "og-kush", Name: "OG Kush"}}}
		svc := NewProductService(staticCatalog{catalog: catalog})

		product, err := svc.FindProductById(testContext(), "og-kush")
		require.NoError(t, err)
		assert.Equal(t, 4.66, product.Rating)
		assert.Equal(t, 89, product.ReviewsCount)
		assert.True(t, product.FromPrice.IsZero())
	})

	t.Run("given unknown product should return not found", func(t *testing.T) {
		svc := NewProductService(staticCatalog{catalog: testCatalog()})

		_, err := svc.FindProductById(testContext(), "nope")
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	t.Run("given broken catalog should return error", func(t *testing.T) {
		broken := errors.New("broken")
		svc := NewProductService(staticCatalog{err: broken})

		_, err := svc.FindProductById(testContext(), "og-kush")
		assert.ErrorIs(t, err, broken)
		_, err = svc.FindProducts(testContext(), request.FindProducts{})
		assert.ErrorIs(t, err, broken)
	})
}
