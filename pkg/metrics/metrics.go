package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsDispatched counts dispatch attempts by key and outcome.
	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of notification dispatch attempts",
		},
		[]string{"key", "outcome"},
	)

	// EmailsSent counts email delivery attempts by status.
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of notification emails sent",
		},
		[]string{"status"}, // status: success, failed
	)

	// HTTPRequestDuration observes HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// DispatchEventsConsumed counts dispatched events processed by the worker.
	DispatchEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_events_consumed_total",
			Help: "Total number of notification.dispatched events consumed",
		},
		[]string{"status"}, // status: logged, duplicate, failed
	)
)

func RecordDispatch(key, outcome string) {
	NotificationsDispatched.WithLabelValues(key, outcome).Inc()
}

func RecordEmailSent(status string) {
	EmailsSent.WithLabelValues(status).Inc()
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDispatchEventConsumed(status string) {
	DispatchEventsConsumed.WithLabelValues(status).Inc()
}
