// Package httptransport assembles the HTTP surface: the shared middleware
// chain, module handlers, health, and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kequity/internal/platform/metrics"
	"kequity/internal/platform/middleware"
)

// Registrar is a module handler that knows how to mount its own routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the service router. Handlers mount their routes under the
// shared middleware chain; health and metrics bypass it.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, requestTimeout time.Duration, handlers ...Registrar) http.Handler {
	root := chi.NewRouter()
	root.Get("/healthz", handleHealth)
	root.Handle("/metrics", promhttp.Handler())

	api := chi.NewRouter()
	api.Use(middleware.Recovery(logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(logger))
	api.Use(middleware.Timeout(requestTimeout))
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.LatencyMiddleware(m))
	for _, h := range handlers {
		h.Register(api)
	}

	root.Mount("/", api)
	return root
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
