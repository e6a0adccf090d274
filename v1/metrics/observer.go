package metrics

import (
	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// ObserveOperation records an adapter operation. The status label is "ok"
// for successful calls and the error kind otherwise.
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	status := "ok"
	if ctx.Error != nil {
		status = vectordb.KindOf(ctx.Error).String()
	} else if s, ok := ctx.Metadata["status"].(string); ok && s != "" && s != "Ok" {
		status = s
	}

	m.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	if ctx.Size > 0 {
		m.operationRecords.WithLabelValues(ctx.Component, ctx.Operation).Add(float64(ctx.Size))
	}
}

var _ observability.Observer = (*Metrics)(nil)
