package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padrelay",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "padrelay",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	relayConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "padrelay",
			Subsystem: "relay",
			Name:      "connections",
			Help:      "Live peer connections in the registry.",
		},
	)
	relayRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padrelay",
			Subsystem: "relay",
			Name:      "routed_messages_total",
			Help:      "Routed payloads accepted for fan-out.",
		},
		[]string{"type"},
	)
	relayDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padrelay",
			Subsystem: "relay",
			Name:      "deliveries_total",
			Help:      "Individual fan-out deliveries by payload type.",
		},
		[]string{"type"},
	)
	relayAuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padrelay",
			Subsystem: "relay",
			Name:      "auth_attempts_total",
			Help:      "Pairing-code authentication attempts by outcome.",
		},
		[]string{"success"},
	)
	relayPairingCodes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "padrelay",
			Subsystem: "relay",
			Name:      "pairing_codes_set_total",
			Help:      "Pairing codes published by controllers.",
		},
	)
	relayEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "padrelay",
			Subsystem: "relay",
			Name:      "evictions_total",
			Help:      "Peers evicted by the liveness supervisor.",
		},
	)
	relaySendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "padrelay",
			Subsystem: "relay",
			Name:      "send_failures_total",
			Help:      "Failed peer sends left for the supervisor to reap.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			relayConnections, relayRouted, relayDeliveries,
			relayAuthAttempts, relayPairingCodes, relayEvictions, relaySendFailures,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func SetRelayConnections(n int) {
	RegisterMetrics()
	relayConnections.Set(float64(n))
}

func RecordRouted(msgType string, delivered int) {
	RegisterMetrics()
	relayRouted.WithLabelValues(msgType).Inc()
	relayDeliveries.WithLabelValues(msgType).Add(float64(delivered))
}

func RecordAuthAttempt(success bool) {
	RegisterMetrics()
	relayAuthAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func RecordPairingCodeSet() {
	RegisterMetrics()
	relayPairingCodes.Inc()
}

func RecordEviction() {
	RegisterMetrics()
	relayEvictions.Inc()
}

func RecordSendFailure() {
	RegisterMetrics()
	relaySendFailures.Inc()
}
