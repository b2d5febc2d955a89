package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlockedPath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{path: "/server", expected: true},
		{path: "/server/.env", expected: true},
		{path: "/server/data/orders.json", expected: true},
		{path: "/.git/config", expected: true},
		{path: "/.gitignore", expected: true},
		{path: "/.env", expected: true},
		{path: "/env/storefront.yaml", expected: true},
		{path: "/assets/../server/.env", expected: true},
		{path: "/", expected: false},
		{path: "/index.html", expected: false},
		{path: "/servers.html", expected: false},
		{path: "/environment.html", expected: false},
		{path: "/assets/uploads/products/1-a.png", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBlockedPath(tt.path))
		})
	}
}

func TestBlockInternals(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/server/data/orders.json", nil).WithContext(testContext())
	BlockInternals(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code, "server internals should be hidden")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/index.html", nil).WithContext(testContext())
	BlockInternals(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "public files should pass through")
}
