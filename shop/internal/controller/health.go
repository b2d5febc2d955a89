package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/shop/internal/otel"
	"github.com/Alturino/storefront/shop/pkg/response"
)

type HealthController struct {
	mode string
	now  func() time.Time
}

func AttachHealthController(router *mux.Router, mode string) {
	controller := HealthController{mode: mode, now: time.Now}
	router.HandleFunc("/health", controller.Health).Methods(http.MethodGet)
}

func (ctrl HealthController) Health(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "HealthController Health")
	defer span.End()

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, response.Health{
		Ok:   true,
		Mode: ctrl.mode,
		Time: ctrl.now().UTC().Format(time.RFC3339),
	})
}
