package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
)

// MetricsCollector is implemented by *Metrics. It is both the adapters'
// observer and a factory for ad-hoc metrics.
type MetricsCollector interface {
	observability.Observer

	// IncrementIngestMessages counts one processed ingestion message.
	IncrementIngestMessages(source, outcome string)

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
