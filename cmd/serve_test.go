package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/middleware"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("storefront"), 0o644))
	return &config.Config{
		Application: config.Application{Env: "test", PublicRoot: root},
		Auth: config.Auth{
			Username:  "admin",
			Password:  "correct-horse",
			SecretKey: "test-secret",
			Issuer:    "storefront",
			Audience:  "storefront-admin",
			TokenTTL:  time.Hour,
		},
		Storage: config.Storage{
			CatalogPath: filepath.Join(root, "catalog.json"),
			OrdersPath:  filepath.Join(root, "server", "data", "orders.json"),
		},
		Upload: config.Upload{
			Backend:           "disk",
			Dir:               "assets/uploads",
			AllowedFolders:    []string{"products"},
			AllowedExtensions: []string{".png"},
			MaxSize:           1 << 20,
		},
	}
}

func do(t *testing.T, handler http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body)).WithContext(testContext())
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter(t *testing.T) {
	cfg := testConfig(t)
	router, err := NewRouter(testContext(), cfg, nil)
	require.NoError(t, err)
	handler := middleware.BlockInternals(router)

	t.Run("given fresh install should create default catalog and empty orders", func(t *testing.T) {
		assert.FileExists(t, cfg.Storage.CatalogPath)
		stored, err := os.ReadFile(cfg.Storage.OrdersPath)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(stored))
	})

	t.Run("given health check should report mode", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/api/health", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		res := map[string]any{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, true, res["ok"])
		assert.Equal(t, "test", res["mode"])
	})

	t.Run("given admin flow should login then replace catalog", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/api/login", "", `{"username":"admin","password":"correct-horse"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		login := map[string]string{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
		require.NotEmpty(t, login["token"])

		catalog := `{"settings":{"rules":{"minOrder":10,"freeShipping":100}},"products":[{"id":"tea","name":"Tea","variants":[{"label":"1kg","price":12.5}]}],"categories":[],"promotions":[]}`
		rec = do(t, handler, http.MethodPut, "/api/catalog", "", catalog)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = do(t, handler, http.MethodPut, "/api/catalog", login["token"], catalog)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

		rec = do(t, handler, http.MethodGet, "/api/catalog", "", "")
		assert.Equal(t, catalog, rec.Body.String())

		rec = do(t, handler, http.MethodPost, "/api/cart/quote", "", `{"items":[{"id":"tea","variant":"1kg","qty":"2"}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		quote := map[string]any{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
		assert.Equal(t, float64(25), quote["subtotal"])
		assert.Equal(t, true, quote["canCheckout"])

		rec = do(t, handler, http.MethodPost, "/api/orders", "", `{"items":[{"productId":"tea","variantLabel":"1kg","qty":2}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, handler, http.MethodGet, "/api/orders", login["token"], "")
		require.Equal(t, http.StatusOK, rec.Code)
		orders := []map[string]any{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "PENDING_PAYMENT", orders[0]["status"])

		rec = do(t, handler, http.MethodGet, "/api/products/tea/reviews?count=2", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, handler, http.MethodGet, "/api/products?q=te", "", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		products := []map[string]any{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		require.Len(t, products, 1)
		assert.Equal(t, 12.5, products[0]["fromPrice"])
	})

	t.Run("given wrong password should return 401", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/api/login", "", `{"username":"admin","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid login"}`, rec.Body.String())
	})

	t.Run("given server internals should return 404", func(t *testing.T) {
		for _, target := range []string{"/server/data/orders.json", "/.env", "/.git/config", "/env/storefront.yaml"} {
			rec := do(t, handler, http.MethodGet, target, "", "")
			assert.Equal(t, http.StatusNotFound, rec.Code, target)
		}
	})

	t.Run("given root should serve storefront", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "storefront", rec.Body.String())
	})

	t.Run("given metrics should expose counters", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/metrics", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "storefront_login_total")
	})
}
