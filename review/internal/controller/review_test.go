package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/review/internal/service"
	"github.com/Alturino/storefront/review/pkg/response"
	"github.com/Alturino/storefront/review/pkg/review"
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

func get(t *testing.T, reader service.CatalogReader, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	AttachReviewController(router.PathPrefix("/api").Subrouter(), service.NewReviewService(reader))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(testContext())
	router.ServeHTTP(rec, req)
	return rec
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{name: "given empty should use default", raw: "", expected: review.DefaultCount},
		{name: "given garbage should use default", raw: "lots", expected: review.DefaultCount},
		{name: "given zero should use default", raw: "0", expected: review.DefaultCount},
		{name: "given small count should keep it", raw: "3", expected: 3},
		{name: "given large count should cap it", raw: "500", expected: review.MaxCount},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, parseCount(test.raw))
		})
	}
}

func TestFindProductReviews(t *testing.T) {
	catalog := &model.Catalog{Products: []model.Product{{ID: "og-kush", Name: "OG Kush"}}}

	t.Run("given known product should return stable reviews", func(t *testing.T) {
		rec := get(t, staticCatalog{catalog: catalog}, "/api/products/og-kush/reviews?count=4")

		require.Equal(t, http.StatusOK, rec.Code)
		res := response.ProductReviews{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "og-kush", res.ProductID)
		assert.Equal(t, 4.66, res.Rating)
		assert.Equal(t, 89, res.ReviewsCount)
		assert.Len(t, res.Reviews, 4)

		again := get(t, staticCatalog{catalog: catalog}, "/api/products/og-kush/reviews?count=4")
		assert.Equal(t, rec.Body.String(), again.Body.String())
	})

	t.Run("given no count should return default count", func(t *testing.T) {
		rec := get(t, staticCatalog{catalog: catalog}, "/api/products/og-kush/reviews")

		require.Equal(t, http.StatusOK, rec.Code)
		res := response.ProductReviews{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Len(t, res.Reviews, review.DefaultCount)
	})

	t.Run("given unknown product should return 404", func(t *testing.T) {
		rec := get(t, staticCatalog{catalog: catalog}, "/api/products/ghost/reviews")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())
	})

	t.Run("given unavailable catalog should return 500", func(t *testing.T) {
		rec := get(t, staticCatalog{err: model.ErrCatalogUnavailable}, "/api/products/og-kush/reviews")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
