// Package logger provides the structured logger used across vectordb-proxy.
//
// It wraps zap with a small field-map API so call sites do not import zap
// directly:
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:         logger.Info,
//	    ServiceName:   "vectordb-proxy",
//	    EnableTracing: true,
//	})
//	log.Info("bulk insert finished", nil, map[string]interface{}{
//	    "collection": "handbook",
//	    "points":     128,
//	})
//
// The *WithContext variants attach trace_id and span_id from the active
// OpenTelemetry span when EnableTracing is set.
//
// With fx, supply a logger.Config and include [FXModule]; the logger is
// synced on shutdown.
package logger
