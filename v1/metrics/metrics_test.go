package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

func TestObserveOperation(t *testing.T) {
	m := NewMetrics(Config{Address: ":0", ServiceName: "test"})

	m.ObserveOperation(observability.OperationContext{
		Component: "pinecone",
		Operation: "bulk_insert_points",
		Resource:  "us-central1",
		Duration:  20 * time.Millisecond,
		Size:      3,
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "pinecone",
		Operation: "bulk_insert_points",
		Duration:  5 * time.Millisecond,
		Error:     vectordb.NewBackendError("pinecone", assert.AnError),
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "pinecone",
		Operation: "insert_point",
		Metadata:  map[string]interface{}{"status": "Failure"},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("pinecone", "bulk_insert_points", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("pinecone", "bulk_insert_points", "BackendError")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("pinecone", "insert_point", "Failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.operationRecords.WithLabelValues("pinecone", "bulk_insert_points")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.operationDuration))
}

func TestIngestMessagesAndNamespace(t *testing.T) {
	m := NewMetrics(Config{Address: ":0", ServiceName: "test", Namespace: "vdbp"})

	m.IncrementIngestMessages("kafka", "ack")
	m.IncrementIngestMessages("kafka", "ack")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ingestMessages.WithLabelValues("kafka", "ack")))

	n, err := testutil.GatherAndCount(m.Registry, "vdbp_ingest_messages_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreateCounterRegisters(t *testing.T) {
	m := NewMetrics(Config{Address: ":0", ServiceName: "test"})
	c := m.CreateCounter("custom_total", "custom", []string{"k"})
	c.WithLabelValues("v").Inc()

	n, err := testutil.GatherAndCount(m.Registry, "custom_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
