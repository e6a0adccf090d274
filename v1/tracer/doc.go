// Package tracer provides OpenTelemetry tracing for vectordb-proxy.
//
// [NewClient] installs a global TracerProvider with W3C trace-context and
// baggage propagation. Spans are exported over OTLP/HTTP when
// Config.EnableExport is set.
//
//	t := tracer.NewClient(tracer.Config{ServiceName: "vectordb-proxy"}, log)
//	ctx, span := t.StartSpan(ctx, "ingest.message")
//	defer span.End()
//	t.SetAttributes(span, map[string]interface{}{"collection": "handbook"})
//
// [Tracer.GetCarrier] and [Tracer.SetCarrierOnContext] move trace context
// across message headers so an ingestion span continues the producer's trace.
package tracer
