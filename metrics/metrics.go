package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Assignments counts assignment attempts by outcome: assigned, reassigned, no_eligible_crew, error
	Assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_assignments_total", Help: "Job assignment attempts by outcome."},
		[]string{"outcome"},
	)
	// StatusTransitions counts job status changes by target status
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_status_transitions_total", Help: "Job status transitions by target status."},
		[]string{"status"},
	)

	// Notifications counts notification deliveries by channel and result
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_total", Help: "Notification deliveries by channel and result."},
		[]string{"channel", "result"},
	)
	// NotificationQueueDepth is the number of messages waiting for a sender
	NotificationQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "notification_queue_depth", Help: "Messages waiting in the notification queue."},
	)

	// DigestRuns counts daily digest runs by result
	DigestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "digest_runs_total", Help: "Daily digest runs by result."},
		[]string{"result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers the collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Assignments)
		Registry.MustRegister(StatusTransitions)
		Registry.MustRegister(Notifications)
		Registry.MustRegister(NotificationQueueDepth)
		Registry.MustRegister(DigestRuns)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus text format
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
