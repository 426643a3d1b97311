// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// GatewayCallDuration tracks generation gateway call duration.
	GatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Generation gateway call duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"provider", "capability", "status"},
	)

	// GatewayCallsTotal tracks total generation gateway calls.
	GatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Total generation gateway calls",
		},
		[]string{"provider", "capability", "status"},
	)

	// OperationDuration tracks orchestration operation duration.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "operation_duration_seconds",
			Help:    "Orchestration operation duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 60, 90, 120, 180},
		},
		[]string{"operation", "status"},
	)

	// ImagesTotal tracks generated images by slot.
	ImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_total",
			Help: "Images requested, by slot and outcome",
		},
		[]string{"slot", "status"},
	)

	// ContractAdvisoriesTotal tracks replies that broke a prompt-only rule.
	ContractAdvisoriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_advisories_total",
			Help: "Generator replies that broke an advisory rule",
		},
		[]string{"kind"},
	)

	// ContractViolationsTotal tracks replies that failed to parse.
	ContractViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_violations_total",
			Help: "Generator replies rejected by the response contract",
		},
		[]string{"operation"},
	)

	// HistoryStoreOps tracks history store reads and writes.
	HistoryStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_store_operations_total",
			Help: "History store operations",
		},
		[]string{"backend", "op", "status"},
	)

	// HistoryItems tracks the size of the last written history list.
	HistoryItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "history_items",
			Help:    "Number of items in a history list when written",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 40, 50},
		},
	)

	// SessionsActive tracks open sessions.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of open sessions",
		},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// EventsPublished tracks operation events published to NATS.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_events_published_total",
			Help: "Operation events published to JetStream",
		},
		[]string{"status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGatewayCall records metrics for a generation gateway call.
func RecordGatewayCall(provider, capability, status string, duration float64) {
	GatewayCallDuration.WithLabelValues(provider, capability, status).Observe(duration)
	GatewayCallsTotal.WithLabelValues(provider, capability, status).Inc()
}

// RecordOperation records metrics for an orchestration operation.
func RecordOperation(operation, status string, duration float64) {
	OperationDuration.WithLabelValues(operation, status).Observe(duration)
}

// RecordImage records the outcome of one image request.
func RecordImage(slot, status string) {
	ImagesTotal.WithLabelValues(slot, status).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
