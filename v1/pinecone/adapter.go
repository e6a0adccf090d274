package pinecone

import (
	"context"
	"io"
	"time"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

const component = "pinecone"

// Adapter implements vectordb.VectorDatabase on Pinecone serverless.
//
// A collection is a namespace inside the index of its region; the index is
// named after the region locator (see RegionLocator). The adapter is
// stateless apart from its Backend and safe for concurrent use.
type Adapter struct {
	backend   Backend
	placement vectordb.PlacementPolicy
	batchSize int
	logger    vectordb.Logger
	observer  observability.Observer
}

// Option customises an Adapter.
type Option func(*Adapter)

// WithPlacement sets the fallback region and cloud for requests that omit them.
func WithPlacement(p vectordb.PlacementPolicy) Option {
	return func(a *Adapter) { a.placement = p }
}

// WithBatchSize caps the vectors sent per upsert request.
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

// NewAdapter wraps backend.
//
// Example:
//
//	client, err := pinecone.NewPineconeClient(pinecone.PineconeParams{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	db := pinecone.NewAdapter(client, pinecone.WithLogger(log)).WithObserver(m)
func NewAdapter(backend Backend, opts ...Option) *Adapter {
	a := &Adapter{
		backend:   backend,
		placement: vectordb.DefaultPlacementPolicy,
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

// Close closes the backend when it holds resources.
func (a *Adapter) Close() error {
	if c, ok := a.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *Adapter) indexName(r *vectordb.Region) string {
	return RegionLocator(a.placement.ResolveRegion(r))
}

// findIndex looks the index up by listing, so absence is not an error.
func (a *Adapter) findIndex(ctx context.Context, name string) (IndexModel, bool, error) {
	indexes, err := a.backend.ListIndexes(ctx)
	if err != nil {
		return IndexModel{}, false, vectordb.WrapBackendError(component, err, "list indexes")
	}
	for _, idx := range indexes {
		if idx.Name == name {
			return idx, true, nil
		}
	}
	return IndexModel{}, false, nil
}

func (a *Adapter) open(ctx context.Context, index, namespace string) (IndexHandle, error) {
	h, err := a.backend.Index(ctx, index, namespace)
	if err != nil {
		return nil, vectordb.WrapBackendError(component, err, "open index %s", index)
	}
	return h, nil
}

func (a *Adapter) closeHandle(h IndexHandle, index string) {
	if err := h.Close(); err != nil {
		a.logger.Warn("[Pinecone] failed to close index connection", err, map[string]interface{}{"index": index})
	}
}

func (a *Adapter) observe(op, index, namespace string, start time.Time, err error, size int64, status *vectordb.Status) {
	if a.observer == nil {
		return
	}
	var metadata map[string]interface{}
	if status != nil {
		metadata = map[string]interface{}{"status": status.Code.String()}
	}
	a.observer.ObserveOperation(observability.OperationContext{
		Component:   component,
		Operation:   op,
		Resource:    index,
		SubResource: namespace,
		Duration:    time.Since(start),
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

var _ vectordb.VectorDatabase = (*Adapter)(nil)
