// Package metrics records per-invocation Prometheus metrics for stegpng.
//
// stegpng is a short-lived CLI, so nothing is served over HTTP. Metrics live
// in a private registry and can be written once per run in the node_exporter
// textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Operation names used as label values
const (
	OpEncode = "encode"
	OpDecode = "decode"
	OpStat   = "stat"
)

// Metrics holds all Prometheus metrics for one invocation
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	payloadBytes  prometheus.Gauge
	storedBytes   prometheus.Gauge
	capacityBytes prometheus.Gauge
	bitsWritten   prometheus.Gauge
}

// NewMetrics creates and registers all metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stegpng_operations_total",
				Help: "Total number of stegpng operations",
			},
			[]string{"operation", "status"},
		),

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stegpng_operation_duration_seconds",
				Help:    "Operation duration in seconds, including PNG encoding and decoding",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		payloadBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stegpng_payload_bytes",
				Help: "Size of the last payload before compression",
			},
		),

		storedBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stegpng_stored_bytes",
				Help: "Size of the last payload as embedded, after compression",
			},
		),

		capacityBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stegpng_capacity_bytes",
				Help: "Payload capacity of the last carrier image",
			},
		),

		bitsWritten: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stegpng_bits_written",
				Help: "Header and frame bits written by the last encode",
			},
		),
	}
}

// RecordOperation records a completed operation
func (m *Metrics) RecordOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdatePayloadStats records the sizes involved in the last embed or extract
func (m *Metrics) UpdatePayloadStats(payload, stored, capacity int) {
	m.payloadBytes.Set(float64(payload))
	m.storedBytes.Set(float64(stored))
	m.capacityBytes.Set(float64(capacity))
}

// UpdatePayloadBytes records the size of a recovered payload
func (m *Metrics) UpdatePayloadBytes(payload int) {
	m.payloadBytes.Set(float64(payload))
}

// UpdateBitsWritten records the header and frame bits of the last encode
func (m *Metrics) UpdateBitsWritten(bits int) {
	m.bitsWritten.Set(float64(bits))
}

// WriteTextfile writes every metric to path in the textfile collector format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
