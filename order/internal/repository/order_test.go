package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/order/pkg/response"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func orderNumbers(t *testing.T, raw []json.RawMessage) []string {
	t.Helper()
	numbers := make([]string, 0, len(raw))
	for _, r := range raw {
		order := response.Order{}
		require.NoError(t, json.Unmarshal(r, &order))
		numbers = append(numbers, order.OrderNumber)
	}
	return numbers
}

func TestList(t *testing.T) {
	t.Run("given missing file should return empty list", func(t *testing.T) {
		repo := NewFileRepository(filepath.Join(t.TempDir(), "orders.json"))

		orders, err := repo.List(testContext())

		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.NotNil(t, orders)
	})

	t.Run("given broken file should return error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "orders.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"`), 0o644))
		repo := NewFileRepository(path)

		_, err := repo.List(testContext())

		assert.Error(t, err)
	})
}

func TestInsert(t *testing.T) {
	t.Run("given existing orders should prepend and keep old records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "orders.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"orderNumber":"PS-OLD","legacy":true}]`), 0o644))
		repo := NewFileRepository(path)

		var seen int
		_, err := repo.Insert(testContext(), func(count int) (response.Order, error) {
			seen = count
			return response.Order{OrderNumber: "PS-NEW"}, nil
		})
		require.NoError(t, err)

		orders, err := repo.List(testContext())
		require.NoError(t, err)
		assert.Equal(t, 1, seen)
		assert.Equal(t, []string{"PS-NEW", "PS-OLD"}, orderNumbers(t, orders))
		assert.JSONEq(t, `{"orderNumber":"PS-OLD","legacy":true}`, string(orders[1]))
	})

	t.Run("given build error should not write", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "orders.json")
		repo := NewFileRepository(path)
		expected := errors.New("boom")

		_, err := repo.Insert(testContext(), func(int) (response.Order, error) {
			return response.Order{}, expected
		})

		assert.ErrorIs(t, err, expected)
		assert.NoFileExists(t, path)
	})

	t.Run("given broken file should not overwrite it", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "orders.json")
		broken := []byte(`[{"orderNumber":`)
		require.NoError(t, os.WriteFile(path, broken, 0o644))
		repo := NewFileRepository(path)

		_, err := repo.Insert(testContext(), func(int) (response.Order, error) {
			return response.Order{OrderNumber: "PS-NEW"}, nil
		})

		assert.Error(t, err)
		stored, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, broken, stored)
	})

	t.Run("given concurrent inserts should give every order a distinct count", func(t *testing.T) {
		repo := NewFileRepository(filepath.Join(t.TempDir(), "orders.json"))
		const n = 20

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			counts = map[int]bool{}
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Insert(testContext(), func(count int) (response.Order, error) {
					mu.Lock()
					counts[count] = true
					mu.Unlock()
					return response.Order{OrderNumber: "PS"}, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		orders, err := repo.List(testContext())
		require.NoError(t, err)
		assert.Len(t, orders, n)
		assert.Len(t, counts, n)
	})
}

func TestEnsureFile(t *testing.T) {
	t.Run("given missing file should create empty list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "orders.json")
		repo := NewFileRepository(path)

		require.NoError(t, repo.EnsureFile(testContext()))

		stored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(stored))
	})

	t.Run("given existing file should leave it alone", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "orders.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"orderNumber":"PS-1"}]`), 0o644))
		repo := NewFileRepository(path)

		require.NoError(t, repo.EnsureFile(testContext()))

		stored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"orderNumber":"PS-1"}]`, string(stored))
	})
}
