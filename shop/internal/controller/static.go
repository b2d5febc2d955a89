package controller

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/shop/internal/otel"
)

const (
	indexPage  = "index.html"
	adminPath  = "/admin"
	adminLogin = "/admin/login.html"
)

// StaticHandler serves the storefront pages from root. Directories serve
// their index.html and never a listing, and extension-less paths fall back
// to <path>.html.
type StaticHandler struct {
	root string
}

func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

// AttachStaticController mounts the storefront pages as the catch-all route,
// so it has to be attached after every other route.
func AttachStaticController(router *mux.Router, root string) {
	handler := otelhttp.NewHandler(NewStaticHandler(root), "StaticHandler")
	router.Handle(adminPath, http.RedirectHandler(adminLogin, http.StatusFound)).
		Methods(http.MethodGet, http.MethodHead)
	router.PathPrefix("/").Handler(handler).Methods(http.MethodGet, http.MethodHead)
}

func (h *StaticHandler) resolve(p string) (string, fs.FileInfo, bool) {
	name := filepath.Join(h.root, filepath.FromSlash(p))
	info, err := os.Stat(name)
	switch {
	case err == nil && !info.IsDir():
		return name, info, true
	case err == nil && info.IsDir():
		index := filepath.Join(name, indexPage)
		if info, err := os.Stat(index); err == nil && !info.IsDir() {
			return index, info, true
		}
		return "", nil, false
	case errors.Is(err, fs.ErrNotExist) && path.Ext(p) == "":
		page := name + ".html"
		if info, err := os.Stat(page); err == nil && !info.IsDir() {
			return page, info, true
		}
	}
	return "", nil, false
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StaticHandler ServeHTTP")
	defer span.End()

	p := path.Clean("/" + r.URL.Path)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "StaticHandler ServeHTTP").
		Str(log.KeyStaticPath, p).
		Logger()

	name, info, ok := h.resolve(p)
	if !ok {
		logger.Trace().Msg("static file not found")
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(name)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	logger.Trace().Str("file", name).Msg("serving static file")
	http.ServeContent(w, r.WithContext(c), info.Name(), info.ModTime(), f)
}
