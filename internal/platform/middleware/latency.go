package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kequity/internal/platform/metrics"
)

// LatencyMiddleware records request durations against the chi route pattern
// so path parameters don't explode label cardinality.
func LatencyMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.ObserveRequest(route, r.Method, time.Since(start))
		})
	}
}
