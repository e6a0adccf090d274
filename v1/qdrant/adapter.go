package qdrant

import (
	"io"
	"time"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

const component = "qdrant"

// Adapter implements vectordb.VectorDatabase on a self-hosted Qdrant.
// A collection is a Qdrant collection; region and cloud are accepted and
// ignored. Safe for concurrent use.
type Adapter struct {
	api       API
	closer    io.Closer
	batchSize int
	logger    vectordb.Logger
	observer  observability.Observer
}

type Option func(*Adapter)

// WithBatchSize caps the points sent per upsert request.
func WithBatchSize(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithLogger sets the adapter logger. A nil logger is ignored.
func WithLogger(l vectordb.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCloser attaches the resource released by Adapter.Close, usually the
// QdrantClient the API came from.
func WithCloser(c io.Closer) Option {
	return func(a *Adapter) { a.closer = c }
}

// NewAdapter wraps api.
//
// Example:
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	db := qdrant.NewAdapter(client.API(), qdrant.WithCloser(client))
func NewAdapter(api API, opts ...Option) *Adapter {
	a := &Adapter{
		api:       api,
		batchSize: defaultBatchSize,
		logger:    vectordb.NopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithObserver attaches obs and returns the same adapter.
func (a *Adapter) WithObserver(obs observability.Observer) *Adapter {
	a.observer = obs
	return a
}

func (a *Adapter) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *Adapter) observe(op, collection string, start time.Time, err error, size int64, status *vectordb.Status) {
	if a.observer == nil {
		return
	}
	var metadata map[string]interface{}
	if status != nil {
		metadata = map[string]interface{}{"status": status.Code.String()}
	}
	a.observer.ObserveOperation(observability.OperationContext{
		Component: component,
		Operation: op,
		Resource:  collection,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
		Metadata:  metadata,
	})
}

func backendError(err error, format string, args ...any) error {
	return vectordb.WrapBackendError(component, err, format, args...)
}

var _ vectordb.VectorDatabase = (*Adapter)(nil)
