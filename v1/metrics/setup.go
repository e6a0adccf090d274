package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the service's Prometheus registry, the /metrics server, and
// the vector store operation metrics.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the isolated registry all metrics are registered with.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationRecords  *prometheus.CounterVec
	ingestMessages    *prometheus.CounterVec
}

// NewMetrics sets up a dedicated registry wrapped with a constant service
// label, registers the operation metrics and, when enabled, the default
// runtime collectors, and prepares the HTTP server.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	go m.Server.ListenAndServe()
//
// Access metrics at: http://localhost:9090/metrics
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// All metrics emitted by this service carry service="<cfg.ServiceName>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrappedRegistry,
		namespace:  cfg.Namespace,
	}

	m.operationsTotal = createCounterVec(cfg.Namespace, "vectordb_operations_total",
		"Total number of vector store operations by outcome", []string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec(cfg.Namespace, "vectordb_operation_duration_seconds",
		"Duration of vector store operations in seconds", []string{"component", "operation"}, prometheus.DefBuckets)
	m.operationRecords = createCounterVec(cfg.Namespace, "vectordb_operation_records_total",
		"Number of records written or returned by vector store operations", []string{"component", "operation"})
	m.ingestMessages = createCounterVec(cfg.Namespace, "ingest_messages_total",
		"Ingestion messages processed by outcome", []string{"source", "outcome"})

	wrappedRegistry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.operationRecords,
		m.ingestMessages,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	return m
}
