// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package metrics instruments the server with Prometheus collectors:
// request counts and latency, connection accept/drop totals, queue
// depths for the worker pool and the store writer, and circuit breaker
// state. Collectors register on the default registry; Render gathers
// them into the text exposition format for the /metrics route.
package metrics

import (
	"bytes"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// HTTP metrics.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pinpoint",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "status_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pinpoint",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method"},
	)

	// Connection metrics.
	ConnectionsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pinpoint",
			Name:      "tcp_connections_accepted_total",
			Help:      "Total number of accepted TCP connections",
		},
	)

	ConnectionsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pinpoint",
			Name:      "tcp_connections_dropped_total",
			Help:      "Total number of connections dropped because the worker queue was full",
		},
	)

	// Worker pool metrics.
	PoolQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pinpoint",
			Name:      "workpool_queue_depth",
			Help:      "Number of jobs waiting in the worker pool queue",
		},
	)

	// Store metrics.
	StoreQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pinpoint",
			Name:      "store_write_queue_depth",
			Help:      "Number of tasks waiting for the store writer",
		},
	)

	StoreWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pinpoint",
			Name:      "store_write_errors_total",
			Help:      "Total number of failed background store writes",
		},
	)

	// Circuit breaker metrics.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pinpoint",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pinpoint",
			Name:      "circuit_breaker_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "to"},
	)
)

// RecordRequest tracks one handled request.
func RecordRequest(method string, statusCode int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordBreakerState tracks a breaker transition and its new state.
func RecordBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
	BreakerTransitions.WithLabelValues(name, strconv.Itoa(state)).Inc()
}

// Render gathers the default registry into the Prometheus text
// exposition format.
func Render() ([]byte, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, f := range families {
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
