package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-wide Prometheus metrics. Module-specific
// metrics live next to their module.
type Metrics struct {
	ContributionsPublished prometheus.Counter
	RequestLatency         *prometheus.HistogramVec
}

// New creates and registers all application-wide metrics.
func New() *Metrics {
	return &Metrics{
		ContributionsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kequity_contributions_published_total",
			Help: "Total contributions published",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kequity_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
	}
}

// IncContributionsPublished increments the published-contributions counter.
func (m *Metrics) IncContributionsPublished() {
	if m != nil {
		m.ContributionsPublished.Inc()
	}
}

// ObserveRequest records a request's duration.
func (m *Metrics) ObserveRequest(route, method string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method).Observe(d.Seconds())
	}
}
