package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedErr error
	}{
		{
			name:  "given object with all arrays should pass",
			input: `{"products":[],"categories":[],"promotions":[],"home":{}}`,
		},
		{
			name:        "given json array should return not object",
			input:       `[]`,
			expectedErr: ErrNotObject,
		},
		{
			name:        "given null should return not object",
			input:       `null`,
			expectedErr: ErrNotObject,
		},
		{
			name:        "given broken json should return not object",
			input:       `{"products":`,
			expectedErr: ErrNotObject,
		},
		{
			name:        "given missing products should return products error",
			input:       `{"categories":[],"promotions":[]}`,
			expectedErr: ErrProductsNotArray,
		},
		{
			name:        "given products object should return products error",
			input:       `{"products":{},"categories":[],"promotions":[]}`,
			expectedErr: ErrProductsNotArray,
		},
		{
			name:        "given every array missing should report products first",
			input:       `{}`,
			expectedErr: ErrProductsNotArray,
		},
		{
			name:        "given categories string should return categories error",
			input:       `{"products":[],"categories":"a","promotions":[]}`,
			expectedErr: ErrCategoriesNotArray,
		},
		{
			name:        "given promotions null should return promotions error",
			input:       `{"products":[],"categories":[],"promotions":null}`,
			expectedErr: ErrPromotionsNotArray,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.input))
			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument()
	require.NoError(t, Validate(doc), "default catalog should pass validation")

	catalog, err := Parse(doc)
	require.NoError(t, err)
	assert.Len(t, catalog.Settings.Payments.Etransfer.QA, 3)
	assert.JSONEq(t, `{"BTC":"","ETH":"","LTC":"","USDT":"","DOGE":""}`, string(catalog.Crypto()))
}

func TestRules(t *testing.T) {
	t.Run("given empty rules should apply defaults", func(t *testing.T) {
		rules := (&Catalog{}).Rules()
		assert.Equal(t, "CAD", rules.Currency)
		assert.True(t, rules.MinOrder.Equal(decimal.NewFromInt(75)))
		assert.True(t, rules.FreeShipping.Equal(decimal.NewFromInt(250)))
		assert.True(t, rules.ShippingFlat.Equal(decimal.NewFromInt(20)))
	})

	t.Run("given configured rules should keep them", func(t *testing.T) {
		catalog, err := Parse([]byte(`{"settings":{"rules":{"currency":"USD","minOrder":50,"freeShipping":"100.5"}}}`))
		require.NoError(t, err)

		rules := catalog.Rules()
		assert.Equal(t, "USD", rules.Currency)
		assert.True(t, rules.MinOrder.Equal(decimal.NewFromInt(50)))
		assert.True(t, rules.FreeShipping.Equal(decimal.RequireFromString("100.5")))
		assert.True(t, rules.ShippingFlat.Equal(decimal.NewFromInt(20)), "missing flat fee should default")
	})
}

func TestFindProduct(t *testing.T) {
	catalog, err := Parse([]byte(`{"products":[{"id":"og-kush","name":"OG Kush","variants":[{"label":"3.5g","price":25},{"label":"7g","price":"45.00"}]}]}`))
	require.NoError(t, err)

	product, ok := catalog.FindProduct("og-kush")
	require.True(t, ok)
	variant, ok := product.FindVariant("7g")
	require.True(t, ok)
	assert.True(t, variant.Price.Equal(decimal.NewFromInt(45)))

	_, ok = product.FindVariant("28g")
	assert.False(t, ok)
	_, ok = catalog.FindProduct("missing")
	assert.False(t, ok)
}

func TestParseProducts(t *testing.T) {
	t.Run("given admin review count should prefer it over reviewsCount", func(t *testing.T) {
		catalog, err := Parse([]byte(`{"products":[
			{"id":"og-kush","rating":4.9,"reviewCount":9,"reviewsCount":89,"variants":[]},
			{"id":"blue-dream","rating":"4.2","reviewsCount":"12","variants":[]}
		]}`))
		require.NoError(t, err)

		require.Len(t, catalog.Products, 2)
		assert.Equal(t, 4.9, catalog.Products[0].Rating)
		assert.Equal(t, 9, catalog.Products[0].ReviewsCount)
		assert.Equal(t, 4.2, catalog.Products[1].Rating)
		assert.Equal(t, 12, catalog.Products[1].ReviewsCount)
		assert.Empty(t, catalog.Warnings)
	})

	t.Run("given bad price should zero it and keep other products", func(t *testing.T) {
		catalog, err := Parse([]byte(`{"products":[
			{"id":"og-kush","name":"OG Kush","variants":[{"label":"3.5g","price":""},{"label":"7g","price":"$45.00"}]},
			{"id":"blue-dream","name":"Blue Dream","variants":[{"label":"3.5g","price":25}]}
		]}`))
		require.NoError(t, err)

		require.Len(t, catalog.Products, 2)
		variant, ok := catalog.Products[0].FindVariant("3.5g")
		require.True(t, ok)
		assert.True(t, variant.Price.IsZero())
		variant, ok = catalog.Products[0].FindVariant("7g")
		require.True(t, ok)
		assert.True(t, variant.Price.Equal(decimal.NewFromInt(45)))
		variant, ok = catalog.Products[1].FindVariant("3.5g")
		require.True(t, ok)
		assert.True(t, variant.Price.Equal(decimal.NewFromInt(25)))
	})

	t.Run("given broken entries should skip them with warnings", func(t *testing.T) {
		catalog, err := Parse([]byte(`{"products":[
			"not a product",
			{"name":"No Id","variants":[]},
			{"id":42,"name":"Numeric Id","variants":["bad",{"label":"1g","price":5}]}
		],"settings":{"brand":"oops"}}`))
		require.NoError(t, err)

		require.Len(t, catalog.Products, 1)
		assert.Equal(t, "42", catalog.Products[0].ID)
		assert.Len(t, catalog.Products[0].Variants, 1)
		assert.Len(t, catalog.Warnings, 4)
		assert.Equal(t, "CAD", catalog.Rules().Currency)
	})

	t.Run("given non object document should fail", func(t *testing.T) {
		_, err := Parse([]byte(`[]`))
		assert.Error(t, err)
	})
}
