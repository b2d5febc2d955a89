package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
)

// IsBlockedPath reports whether p points at server internals that must
// never be served from the public root.
func IsBlockedPath(p string) bool {
	switch {
	case p == "/server", strings.HasPrefix(p, "/server/"):
		return true
	case strings.HasPrefix(p, "/.git"):
		return true
	case p == "/.env", p == "/env", strings.HasPrefix(p, "/env/"):
		return true
	case strings.Contains(p, ".."):
		return true
	}
	return false
}

func BlockInternals(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if IsBlockedPath(p) || strings.Contains(r.URL.RawPath, "..") {
			zerolog.Ctx(r.Context()).
				Warn().
				Str(log.KeyTag, "middleware BlockInternals").
				Str(log.KeyStaticPath, p).
				Msg("blocked request to server internals")
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
