// Package metrics exposes Prometheus metrics for vectordb-proxy.
//
// Each process gets an isolated registry wrapped with a constant
// service="<ServiceName>" label, served at /metrics on Config.Address.
// [*Metrics] implements observability.Observer, so passing it to an
// adapter's WithObserver records:
//
//	vectordb_operations_total{component,operation,status}
//	vectordb_operation_duration_seconds{component,operation}
//	vectordb_operation_records_total{component,operation}
//
// The ingestion consumer adds ingest_messages_total{source,outcome}.
//
// Usage with fx:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config { return metrics.DefaultConfig() }),
//	)
package metrics
