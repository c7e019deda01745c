package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/ctagd/internal/protocol/session"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctagd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests to the metrics listener.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ctagd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	sessionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctagd",
			Subsystem: "session",
			Name:      "requests_total",
			Help:      "Requests completed by the stdio session.",
		},
		[]string{"command"},
	)
	sessionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctagd",
			Subsystem: "session",
			Name:      "failures_total",
			Help:      "Fatal session errors by kind.",
		},
		[]string{"kind"},
	)
	sessionRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctagd",
			Subsystem: "session",
			Name:      "records_total",
			Help:      "Output records emitted by the analyzer.",
		},
		[]string{"command"},
	)
	sessionPayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ctagd",
			Subsystem: "session",
			Name:      "payload_bytes",
			Help:      "Size of request payloads in bytes.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"command"},
	)
	sessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ctagd",
			Subsystem: "session",
			Name:      "request_duration_seconds",
			Help:      "Time from decoded request line to flushed Completed reply.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			sessionRequests,
			sessionFailures,
			sessionRecords,
			sessionPayloadBytes,
			sessionDuration,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// SessionMetrics records session outcomes into the default registry.
type SessionMetrics struct{}

var _ session.Observer = SessionMetrics{}

func NewSessionMetrics() SessionMetrics {
	RegisterMetrics()
	return SessionMetrics{}
}

func (SessionMetrics) RequestServed(command string, payloadBytes, records int, elapsed time.Duration) {
	sessionRequests.WithLabelValues(command).Inc()
	sessionRecords.WithLabelValues(command).Add(float64(records))
	sessionPayloadBytes.WithLabelValues(command).Observe(float64(payloadBytes))
	sessionDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (SessionMetrics) RequestFailed(kind session.Kind) {
	sessionFailures.WithLabelValues(kind.String()).Inc()
}
