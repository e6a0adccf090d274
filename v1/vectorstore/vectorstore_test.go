package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/pinecone"
	"github.com/agentcloud/vectordb-proxy/v1/qdrant"
	"github.com/agentcloud/vectordb-proxy/v1/tracer"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

type nopTracerLogger struct{}

func (nopTracerLogger) Info(string, error, ...map[string]interface{})  {}
func (nopTracerLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopTracerLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopTracerLogger) Error(string, error, ...map[string]interface{}) {}
func (nopTracerLogger) Fatal(string, error, ...map[string]interface{}) {}

// stubDatabase returns canned answers and counts Close calls.
type stubDatabase struct {
	vectordb.VectorDatabase
	status vectordb.Status
	err    error
	closed int
}

func (s *stubDatabase) DeleteCollection(ctx context.Context, req vectordb.SearchRequest) (vectordb.Status, error) {
	return s.status, nil
}

func (s *stubDatabase) ScrollPoints(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.ScrollResults, error) {
	return nil, s.err
}

func (s *stubDatabase) BulkInsertPoints(ctx context.Context, req vectordb.SearchRequest, points []vectordb.Point) (vectordb.Status, error) {
	return s.status, s.err
}

func (s *stubDatabase) Close() error {
	s.closed++
	return nil
}

func newTraced(t *testing.T, stub *stubDatabase) (*TracedDatabase, *tracetest.SpanRecorder, *observer.ObservedLogs) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tr := tracer.NewClientWithOptions(tracer.DefaultConfig(), nopTracerLogger{}, sdktrace.WithSpanProcessor(rec))
	core, logs := observer.New(zap.DebugLevel)
	return NewTracedDatabase(stub, TypeQdrant, tr, logger.NewFromZap(zap.New(core), true)), rec, logs
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"pinecone ok", PineconeConfig(pinecone.DefaultConfig().WithApiKey("key")), ""},
		{"pinecone without key", PineconeConfig(pinecone.DefaultConfig()), "api key"},
		{"pinecone without section", Config{Type: TypePinecone}, "pinecone config is required"},
		{"qdrant ok", QdrantConfig(qdrant.DefaultConfig()), ""},
		{"qdrant without section", Config{Type: TypeQdrant}, "qdrant config is required"},
		{"qdrant without endpoint", QdrantConfig(qdrant.FromEndpoint("")), "endpoint"},
		{"unknown type", Config{Type: "milvus"}, "unsupported vector database type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigHelpersSetDefaultPlacement(t *testing.T) {
	cfg := QdrantConfig(qdrant.DefaultConfig())
	assert.Equal(t, TypeQdrant, cfg.Type)
	assert.Equal(t, vectordb.DefaultPlacementPolicy, cfg.Placement)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Type: "milvus"}, Options{})
	assert.Error(t, err)
}

func TestTracedDatabaseRecordsSpans(t *testing.T) {
	ctx := context.Background()
	stub := &stubDatabase{status: vectordb.StatusOk()}
	db, rec, logs := newTraced(t, stub)

	status, err := db.BulkInsertPoints(ctx, vectordb.NewSearchRequest(vectordb.SearchTypeCollection, "docs"), make([]vectordb.Point, 3))
	require.NoError(t, err)
	assert.True(t, status.IsOk())

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "vectordb.bulk_insert_points", spans[0].Name())
	v, ok := attrValue(spans[0].Attributes(), "vectordb.collection")
	require.True(t, ok)
	assert.Equal(t, "docs", v.AsString())
	v, ok = attrValue(spans[0].Attributes(), "vectordb.points")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt64())
	v, _ = attrValue(spans[0].Attributes(), "vectordb.status")
	assert.Equal(t, "Ok", v.AsString())
	assert.Equal(t, 0, logs.Len())
}

func TestTracedDatabaseRecordsErrors(t *testing.T) {
	ctx := context.Background()
	stub := &stubDatabase{err: vectordb.NewUnimplementedError("pinecone scroll_points")}
	db, rec, logs := newTraced(t, stub)

	_, err := db.ScrollPoints(ctx, vectordb.NewSearchRequest(vectordb.SearchTypePoint, "docs"))
	assert.True(t, vectordb.IsUnimplementedError(err))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	entries := logs.FilterMessage("vector database operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Unimplemented", entries[0].ContextMap()["kind"])
	assert.Equal(t, "scroll_points", entries[0].ContextMap()["operation"])
	assert.NotEmpty(t, entries[0].ContextMap()["trace_id"])
}

func TestTracedDatabaseStatusErrorMarksSpan(t *testing.T) {
	stub := &stubDatabase{status: vectordb.StatusError(vectordb.NewBackendError("qdrant", assert.AnError))}
	db, rec, _ := newTraced(t, stub)

	status, err := db.DeleteCollection(context.Background(), vectordb.NewSearchRequest(vectordb.SearchTypeCollection, "docs"))
	require.NoError(t, err)
	assert.Equal(t, vectordb.StatusCodeError, status.Code)
	assert.Equal(t, codes.Error, rec.Ended()[0].Status().Code)
}

func TestTracedDatabaseClose(t *testing.T) {
	stub := &stubDatabase{}
	db, _, _ := newTraced(t, stub)
	require.NoError(t, db.Close())
	assert.Equal(t, 1, stub.closed)
}
