package vectorstore

import (
	"context"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/tracer"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// TracedDatabase decorates a Database with one span per operation, named
// "vectordb.<operation>". Failures are recorded on the span and logged with
// the trace ids when a logger is set.
type TracedDatabase struct {
	next    Database
	backend string
	tracer  *tracer.Tracer
	logger  *logger.Logger
}

// NewTracedDatabase wraps next. log may be nil.
func NewTracedDatabase(next Database, backend string, t *tracer.Tracer, log *logger.Logger) *TracedDatabase {
	return &TracedDatabase{next: next, backend: backend, tracer: t, logger: log}
}

func (d *TracedDatabase) start(ctx context.Context, op string, attrs map[string]interface{}) (context.Context, traceSpan.Span) {
	ctx, span := d.tracer.StartSpan(ctx, "vectordb."+op)
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	attrs["vectordb.backend"] = d.backend
	d.tracer.SetAttributes(span, attrs)
	return ctx, span
}

// finish records err and a non-Ok status on span and ends it.
func (d *TracedDatabase) finish(ctx context.Context, span traceSpan.Span, op string, status *vectordb.Status, err error) {
	defer span.End()

	if status != nil {
		d.tracer.SetAttributes(span, map[string]interface{}{"vectordb.status": status.Code.String()})
		if err == nil && status.Err != nil {
			err = status.Err
		}
	}
	if err == nil {
		return
	}
	d.tracer.RecordErrorOnSpan(span, err)
	if d.logger != nil {
		d.logger.ErrorWithContext(ctx, "vector database operation failed", err, map[string]interface{}{
			"operation": op,
			"backend":   d.backend,
			"kind":      vectordb.KindOf(err).String(),
		})
	}
}

func collectionAttrs(req vectordb.SearchRequest) map[string]interface{} {
	return map[string]interface{}{"vectordb.collection": req.Collection}
}

func (d *TracedDatabase) GetListOfCollections(ctx context.Context) ([]string, error) {
	ctx, span := d.start(ctx, "get_list_of_collections", nil)
	names, err := d.next.GetListOfCollections(ctx)
	d.tracer.SetAttributes(span, map[string]interface{}{"vectordb.collections": len(names)})
	d.finish(ctx, span, "get_list_of_collections", nil, err)
	return names, err
}

func (d *TracedDatabase) CheckCollectionExists(ctx context.Context, req vectordb.SearchRequest) (vectordb.CollectionsResult, error) {
	ctx, span := d.start(ctx, "check_collection_exists", collectionAttrs(req))
	res, err := d.next.CheckCollectionExists(ctx, req)
	d.finish(ctx, span, "check_collection_exists", &res.Status, err)
	return res, err
}

func (d *TracedDatabase) CreateCollection(ctx context.Context, create vectordb.CollectionCreate) (vectordb.Status, error) {
	ctx, span := d.start(ctx, "create_collection", map[string]interface{}{
		"vectordb.collection": create.CollectionName,
		"vectordb.dimension":  int64(create.Size),
		"vectordb.distance":   create.Distance.String(),
	})
	status, err := d.next.CreateCollection(ctx, create)
	d.finish(ctx, span, "create_collection", &status, err)
	return status, err
}

func (d *TracedDatabase) DeleteCollection(ctx context.Context, req vectordb.SearchRequest) (vectordb.Status, error) {
	ctx, span := d.start(ctx, "delete_collection", collectionAttrs(req))
	status, err := d.next.DeleteCollection(ctx, req)
	d.finish(ctx, span, "delete_collection", &status, err)
	return status, err
}

func (d *TracedDatabase) InsertPoint(ctx context.Context, req vectordb.SearchRequest, point vectordb.Point) (vectordb.Status, error) {
	ctx, span := d.start(ctx, "insert_point", collectionAttrs(req))
	status, err := d.next.InsertPoint(ctx, req, point)
	d.finish(ctx, span, "insert_point", &status, err)
	return status, err
}

func (d *TracedDatabase) BulkInsertPoints(ctx context.Context, req vectordb.SearchRequest, points []vectordb.Point) (vectordb.Status, error) {
	attrs := collectionAttrs(req)
	attrs["vectordb.points"] = len(points)
	ctx, span := d.start(ctx, "bulk_insert_points", attrs)
	status, err := d.next.BulkInsertPoints(ctx, req, points)
	d.finish(ctx, span, "bulk_insert_points", &status, err)
	return status, err
}

func (d *TracedDatabase) GetCollectionInfo(ctx context.Context, req vectordb.SearchRequest) (*vectordb.CollectionMetadata, error) {
	ctx, span := d.start(ctx, "get_collection_info", collectionAttrs(req))
	meta, err := d.next.GetCollectionInfo(ctx, req)
	var status *vectordb.Status
	if meta != nil {
		status = &meta.Status
	}
	d.finish(ctx, span, "get_collection_info", status, err)
	return meta, err
}

func (d *TracedDatabase) GetStorageSize(ctx context.Context, req vectordb.SearchRequest, vectorLength int) (*vectordb.StorageSize, error) {
	ctx, span := d.start(ctx, "get_storage_size", collectionAttrs(req))
	size, err := d.next.GetStorageSize(ctx, req, vectorLength)
	var status *vectordb.Status
	if size != nil {
		status = &size.Status
	}
	d.finish(ctx, span, "get_storage_size", status, err)
	return size, err
}

func (d *TracedDatabase) ScrollPoints(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.ScrollResults, error) {
	ctx, span := d.start(ctx, "scroll_points", collectionAttrs(req))
	results, err := d.next.ScrollPoints(ctx, req)
	d.tracer.SetAttributes(span, map[string]interface{}{"vectordb.results": len(results)})
	d.finish(ctx, span, "scroll_points", nil, err)
	return results, err
}

func (d *TracedDatabase) SimilaritySearch(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	ctx, span := d.start(ctx, "similarity_search", collectionAttrs(req))
	results, err := d.next.SimilaritySearch(ctx, req)
	d.tracer.SetAttributes(span, map[string]interface{}{"vectordb.results": len(results)})
	d.finish(ctx, span, "similarity_search", nil, err)
	return results, err
}

func (d *TracedDatabase) Close() error {
	return d.next.Close()
}

var _ Database = (*TracedDatabase)(nil)
