package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/catalog/pkg/model"
)

func TestHashSeed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint32
	}{
		{name: "given empty string should return offset basis", input: "", expected: 2166136261},
		{name: "given single letter should hash it", input: "a", expected: 3826002220},
		{name: "given product id should hash it", input: "og-kush", expected: 923229305},
		{name: "given accented letter should hash its utf-16 unit", input: "é", expected: 1812687940},
		{name: "given emoji should hash both surrogates", input: "😀", expected: 3409036472},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, HashSeed(test.input))
		})
	}
}

func TestRand(t *testing.T) {
	t.Run("given seed zero should match mulberry32 sequence", func(t *testing.T) {
		r := NewRand(0)
		assert.InDelta(t, 0.26642920868471265, r.Float64(), 1e-15)
		assert.InDelta(t, 0.0003297457005828619, r.Float64(), 1e-15)
		assert.InDelta(t, 0.2232720274478197, r.Float64(), 1e-15)
	})

	t.Run("given same seed should repeat sequence", func(t *testing.T) {
		a, b := NewRand(HashSeed("og-kush")), NewRand(HashSeed("og-kush"))
		for i := 0; i < 100; i++ {
			v := a.Float64()
			assert.Equal(t, v, b.Float64())
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	})
}

func TestPick(t *testing.T) {
	pool := []model.ReviewEntry{
		{Name: "A", Rating: 5, Text: "a"},
		{Name: "B", Rating: 4, Text: "b"},
		{Name: "C", Rating: 5, Text: "c"},
		{Name: "D", Rating: 4.5, Text: "d"},
		{Name: "E", Rating: 4.8, Text: "e"},
	}
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	t.Run("given product id should pick the same reviews every time", func(t *testing.T) {
		reviews := Pick(pool, "og-kush", 3, now)

		assert.Equal(t, []Review{
			{Name: "A", Rating: 5, Text: "a", Date: now.AddDate(0, 0, -128).Format(time.DateOnly)},
			{Name: "C", Rating: 5, Text: "c", Date: now.AddDate(0, 0, -52).Format(time.DateOnly)},
			{Name: "D", Rating: 4.5, Text: "d", Date: now.AddDate(0, 0, -170).Format(time.DateOnly)},
		}, reviews)
		assert.Equal(t, reviews, Pick(pool, "og-kush", 3, now))
	})

	t.Run("given count above pool size should return every entry once", func(t *testing.T) {
		reviews := Pick(pool, "blue-dream", 50, now)

		require.Len(t, reviews, len(pool))
		seen := map[string]bool{}
		for _, r := range reviews {
			assert.False(t, seen[r.Name])
			seen[r.Name] = true
		}
	})

	t.Run("given empty pool should return no reviews", func(t *testing.T) {
		assert.Empty(t, Pick(nil, "og-kush", 6, now))
	})

	t.Run("given zero count should return no reviews", func(t *testing.T) {
		assert.Empty(t, Pick(pool, "og-kush", 0, now))
	})
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		product  model.Product
		expected ProductSummary
	}{
		{
			name:     "given catalog values should keep them",
			product:  model.Product{ID: "og-kush", Rating: 4.9, ReviewsCount: 12},
			expected: ProductSummary{Rating: 4.9, ReviewsCount: 12},
		},
		{
			name:     "given no values should derive them from id length",
			product:  model.Product{ID: "og-kush"},
			expected: ProductSummary{Rating: 4.66, ReviewsCount: 89},
		},
		{
			name:     "given id length multiple of five should use base rating",
			product:  model.Product{ID: "kush1"},
			expected: ProductSummary{Rating: 4.5, ReviewsCount: 75},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Summary(test.product))
		})
	}
}

func TestPoolFor(t *testing.T) {
	t.Run("given catalog pool should use it", func(t *testing.T) {
		pool := []model.ReviewEntry{{Name: "X"}}
		assert.Equal(t, pool, PoolFor(&model.Catalog{ReviewPool: pool}))
	})

	t.Run("given no catalog pool should fall back to built-in pool", func(t *testing.T) {
		assert.Equal(t, DefaultPool, PoolFor(&model.Catalog{}))
	})
}
