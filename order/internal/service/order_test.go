package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/pkg/cart"
	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/order/internal/repository"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
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

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Settings: model.Settings{
			Disclaimer: "Adults only.",
			Payments: model.Payments{
				Etransfer: model.Etransfer{
					Email:     "pay@example.com",
					Recipient: "Premium Supply",
					QA: []model.QA{
						{Q: "first?", A: "one"},
						{Q: "second?", A: "two"},
					},
				},
				Crypto: json.RawMessage(`{"btc":"bc1q"}`),
			},
		},
		Products: []model.Product{
			{
				ID:    "og-kush",
				Name:  "OG Kush",
				Image: "assets/og.jpg",
				Variants: []model.Variant{
					{Label: "3.5g", Price: decimal.NewFromInt(30)},
					{Label: "28g", Price: decimal.NewFromInt(180)},
				},
			},
		},
	}
}

func newTestService(t *testing.T, reader CatalogReader) (*OrderService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.json")
	svc := NewOrderService(repository.NewFileRepository(path), reader)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	svc.intN = func(int) int { return 10 }
	return svc, path
}

func TestNewOrderNumber(t *testing.T) {
	number := NewOrderNumber(time.UnixMilli(1700000000000), func(int) int { return 35 })

	assert.Equal(t, "PS-LOYW3V28-ZZZZ", number)
	assert.Regexp(t, `^PS-[0-9A-Z]+-[0-9A-Z]{4}$`, NewOrderNumber(time.Now(), func(n int) int { return n - 1 }))
}

func TestPickQA(t *testing.T) {
	qa := []model.QA{{Q: "a"}, {Q: "b"}, {Q: "c"}}
	tests := []struct {
		name     string
		qa       []model.QA
		count    int
		expected model.QA
	}{
		{name: "given no orders should pick first", qa: qa, count: 0, expected: qa[0]},
		{name: "given four orders should wrap around", qa: qa, count: 4, expected: qa[1]},
		{name: "given no questions should return empty", qa: nil, count: 3, expected: model.QA{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, PickQA(test.qa, test.count))
		})
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("given valid cart should store priced order", func(t *testing.T) {
		svc, _ := newTestService(t, staticCatalog{catalog: testCatalog()})
		req := request.CreateOrder{
			Items: []cart.Line{
				{ProductID: "og-kush", VariantLabel: "3.5g", Quantity: 2},
				{ProductID: "og-kush", VariantLabel: "3.5g", Quantity: 1},
			},
			Customer: request.Customer{FullName: "Jane Doe", Email: "jane@example.com"},
		}

		created, err := svc.CreateOrder(testContext(), req)
		require.NoError(t, err)

		assert.True(t, created.Ok)
		assert.Equal(t, "PS-LOYW3V28-AAAA", created.OrderNumber)
		assert.True(t, decimal.NewFromInt(90).Equal(created.Totals.Subtotal))
		assert.True(t, decimal.NewFromInt(20).Equal(created.Totals.Shipping))
		assert.True(t, decimal.NewFromInt(110).Equal(created.Totals.Total))
		assert.False(t, created.Totals.QualifiesFree)
		assert.Equal(t, response.Etransfer{
			Email:     "pay@example.com",
			Recipient: "Premium Supply",
			Question:  "first?",
			Answer:    "one",
		}, created.Etransfer)
		assert.JSONEq(t, `{"btc":"bc1q"}`, string(created.Crypto))
		assert.Equal(t, "Adults only.", created.Disclaimer)

		orders, err := svc.ListOrders(testContext())
		require.NoError(t, err)
		require.Len(t, orders, 1)
		stored := response.Order{}
		require.NoError(t, json.Unmarshal(orders[0], &stored))
		assert.Equal(t, response.StatusPendingPayment, stored.Status)
		assert.Equal(t, PaymentEtransfer, stored.PaymentMethod)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, 3, stored.Items[0].Quantity)
		assert.Equal(t, "OG Kush", stored.Items[0].Name)
	})

	t.Run("given second order should rotate security question", func(t *testing.T) {
		svc, _ := newTestService(t, staticCatalog{catalog: testCatalog()})
		req := request.CreateOrder{
			Items: []cart.Line{{ProductID: "og-kush", VariantLabel: "28g", Quantity: 2}},
		}

		_, err := svc.CreateOrder(testContext(), req)
		require.NoError(t, err)
		second, err := svc.CreateOrder(testContext(), req)
		require.NoError(t, err)

		assert.Equal(t, "second?", second.Etransfer.Question)
		assert.True(t, second.Totals.QualifiesFree)
		assert.True(t, decimal.Zero.Equal(second.Totals.Shipping))
	})

	tests := []struct {
		name        string
		reader      CatalogReader
		items       []cart.Line
		expectedErr error
		expectedMsg string
	}{
		{
			name:        "given empty cart should return empty cart error",
			reader:      staticCatalog{catalog: testCatalog()},
			items:       nil,
			expectedErr: cart.ErrEmptyCart,
			expectedMsg: "Cart is empty",
		},
		{
			name:        "given unknown product should return unknown product error",
			reader:      staticCatalog{catalog: testCatalog()},
			items:       []cart.Line{{ProductID: "nope", VariantLabel: "3.5g", Quantity: 1}},
			expectedErr: cart.ErrUnknownProduct,
			expectedMsg: "Unknown product: nope",
		},
		{
			name:        "given unknown variant should return unknown variant error",
			reader:      staticCatalog{catalog: testCatalog()},
			items:       []cart.Line{{ProductID: "og-kush", VariantLabel: "1kg", Quantity: 1}},
			expectedErr: cart.ErrUnknownVariant,
			expectedMsg: "Unknown variant: 1kg for OG Kush",
		},
		{
			name:        "given subtotal below minimum should return minimum order error",
			reader:      staticCatalog{catalog: testCatalog()},
			items:       []cart.Line{{ProductID: "og-kush", VariantLabel: "3.5g", Quantity: 2}},
			expectedErr: cart.ErrMinimumOrder,
			expectedMsg: "Minimum order is $75.",
		},
		{
			name:        "given unavailable catalog should return catalog error",
			reader:      staticCatalog{err: model.ErrCatalogUnavailable},
			items:       []cart.Line{{ProductID: "og-kush", VariantLabel: "3.5g", Quantity: 3}},
			expectedErr: model.ErrCatalogUnavailable,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, path := newTestService(t, test.reader)

			_, err := svc.CreateOrder(testContext(), request.CreateOrder{Items: test.items})

			require.Error(t, err)
			assert.True(t, errors.Is(err, test.expectedErr))
			if test.expectedMsg != "" {
				assert.Equal(t, test.expectedMsg, err.Error())
			}
			assert.NoFileExists(t, path)
		})
	}
}
