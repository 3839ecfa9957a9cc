package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the review submission path.
type Metrics struct {
	// Submission outcomes by result: committed, or the rejection code.
	SubmissionOutcome *prometheus.CounterVec

	// Full submission latency including the transaction.
	SubmitLatency prometheus.Histogram

	// Anomaly warnings surfaced by the detector.
	AnomalyWarnings prometheus.Counter
}

// New creates a Metrics instance with all submission metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kequity_review_submissions_total",
			Help: "Total review submissions by outcome",
		}, []string{"outcome"}),

		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kequity_review_submit_duration_seconds",
			Help:    "Duration of full review submission including the transaction",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		AnomalyWarnings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kequity_review_anomaly_warnings_total",
			Help: "Total anomaly warnings raised during submissions",
		}),
	}
}

// IncOutcome records a submission outcome.
func (m *Metrics) IncOutcome(outcome string) {
	if m != nil {
		m.SubmissionOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveSubmitLatency records the duration of a submission.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}

// AddAnomalyWarnings records warnings surfaced by the detector.
func (m *Metrics) AddAnomalyWarnings(n int) {
	if m != nil && n > 0 {
		m.AnomalyWarnings.Add(float64(n))
	}
}
