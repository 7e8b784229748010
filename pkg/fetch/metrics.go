package fetch

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// clientMetrics holds the Prometheus collectors for a Client.
type clientMetrics struct {
	requestsTotal   *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// newClientMetrics registers the client collectors with the given registry.
func newClientMetrics(namespace string, constLabels prometheus.Labels, buckets []float64, reg prometheus.Registerer) *clientMetrics {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}

	return &clientMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "fetch",
				Name:        "requests_total",
				Help:        "Total fetch requests issued, by HTTP status code.",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),
		failuresTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "fetch",
				Name:        "failures_total",
				Help:        "Total classified fetch failures, by failure kind.",
				ConstLabels: constLabels,
			},
			[]string{"kind"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Subsystem:   "fetch",
				Name:        "request_duration_seconds",
				Help:        "Fetch request duration in seconds.",
				ConstLabels: constLabels,
				Buckets:     buckets,
			},
			[]string{"status"},
		),
	}
}

// observe records one completed request. status is 0 when no response was
// received.
func (m *clientMetrics) observe(status int, kind Kind, elapsed time.Duration) {
	if m == nil {
		return
	}

	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}

	m.requestsTotal.WithLabelValues(label).Inc()
	m.requestDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if kind != 0 {
		m.failuresTotal.WithLabelValues(kind.String()).Inc()
	}
}
