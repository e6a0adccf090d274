package pinecone

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// maxConcurrentStats bounds the DescribeIndexStats fan-out of GetListOfCollections.
const maxConcurrentStats = 4

// GetListOfCollections ──────────────────────────────────────────────────────
//
// Returns the namespaces of every index, index by index in listing order and
// namespaces sorted within an index. A namespace present in several regions
// is listed once.
func (a *Adapter) GetListOfCollections(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { a.observe("get_list_of_collections", "", "", start, err, int64(len(names)), nil) }()

	indexes, err := a.backend.ListIndexes(ctx)
	if err != nil {
		return nil, vectordb.WrapBackendError(component, err, "list indexes")
	}

	perIndex := make([][]string, len(indexes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStats)
	for i, idx := range indexes {
		g.Go(func() error {
			h, err := a.open(gctx, idx.Name, "")
			if err != nil {
				return err
			}
			defer a.closeHandle(h, idx.Name)

			stats, err := h.DescribeStats(gctx)
			if err != nil {
				return vectordb.WrapBackendError(component, err, "describe stats of %s", idx.Name)
			}
			ns := make([]string, 0, len(stats.Namespaces))
			for name := range stats.Namespaces {
				ns = append(ns, name)
			}
			sort.Strings(ns)
			perIndex[i] = ns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	names = make([]string, 0)
	for _, ns := range perIndex {
		for _, name := range ns {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	a.logger.Debug("[Pinecone] listed collections", nil, map[string]interface{}{
		"indexes":     len(indexes),
		"collections": len(names),
	})
	return names, nil
}

// CheckCollectionExists ─────────────────────────────────────────────────────
//
// Exact-name namespace membership in the region index. A missing index or
// namespace is a NotFound status with nil metadata, never an error.
func (a *Adapter) CheckCollectionExists(ctx context.Context, req vectordb.SearchRequest) (result vectordb.CollectionsResult, err error) {
	index := a.indexName(req.Region)
	start := time.Now()
	defer func() { a.observe("check_collection_exists", index, req.Collection, start, err, 0, &result.Status) }()

	result = vectordb.CollectionsResult{Status: vectordb.StatusNotFound(), CollectionName: req.Collection}

	meta, err := a.collectionMetadata(ctx, index, req.Collection)
	if err != nil {
		return vectordb.CollectionsResult{Status: vectordb.StatusError(err), CollectionName: req.Collection}, err
	}
	if meta.Status.IsOk() {
		result.Status = vectordb.StatusOk()
		result.CollectionMetadata = meta
	}
	return result, nil
}

// CreateCollection ──────────────────────────────────────────────────────────
//
// Ensures the region index exists with the requested dimension and metric.
// Namespaces need no creation; they appear with their first upsert.
func (a *Adapter) CreateCollection(ctx context.Context, create vectordb.CollectionCreate) (status vectordb.Status, err error) {
	index := ""
	start := time.Now()
	defer func() { a.observe("create_collection", index, create.CollectionName, start, err, 0, &status) }()

	switch {
	case create.Region == nil:
		return vectordb.StatusFailure(), vectordb.NewOtherError("region is required to create collection %q", create.CollectionName)
	case create.Cloud == nil:
		return vectordb.StatusFailure(), vectordb.NewOtherError("cloud is required to create collection %q", create.CollectionName)
	case create.Size == 0 || create.Size > math.MaxInt32:
		return vectordb.StatusFailure(), vectordb.NewOtherError("invalid dimension %d for collection %q", create.Size, create.CollectionName)
	}
	metric, err := MetricFromDistance(create.Distance)
	if err != nil {
		return vectordb.StatusFailure(), err
	}
	index = RegionLocator(*create.Region)
	region, err := ServerlessRegion(*create.Cloud, *create.Region)
	if err != nil {
		return vectordb.StatusFailure(), err
	}

	existing, found, err := a.findIndex(ctx, index)
	if err != nil {
		return vectordb.StatusError(err), err
	}
	if found {
		if existing.Dimension == int32(create.Size) && existing.Metric == metric {
			a.logger.Debug("[Pinecone] index already exists", nil, map[string]interface{}{"index": index})
			return vectordb.StatusOk(), nil
		}
		return vectordb.StatusNotFound(), vectordb.NewNotFoundError(
			"Index: %s was not found with dimension %d and metric %s (existing index is incompatible: dimension %d, metric %s)",
			index, create.Size, metric, existing.Dimension, existing.Metric)
	}

	_, err = a.backend.CreateServerlessIndex(ctx, CreateIndexRequest{
		Name:               index,
		Dimension:          int32(create.Size),
		Metric:             metric,
		Cloud:              CloudLocator(*create.Cloud),
		Region:             region,
		DeletionProtection: false,
	})
	if err != nil {
		err = vectordb.WrapBackendError(component, err, "create index %s", index)
		return vectordb.StatusError(err), err
	}

	a.logger.Info("[Pinecone] index created", nil, map[string]interface{}{
		"index":      index,
		"dimension":  create.Size,
		"metric":     string(metric),
		"collection": create.CollectionName,
	})
	return vectordb.StatusOk(), nil
}

// DeleteCollection ──────────────────────────────────────────────────────────
//
// Deletes every vector of the namespace. Failures are reported in the
// returned status so batch callers can carry on.
func (a *Adapter) DeleteCollection(ctx context.Context, req vectordb.SearchRequest) (status vectordb.Status, err error) {
	index := a.indexName(req.Region)
	start := time.Now()
	defer func() { a.observe("delete_collection", index, req.Collection, start, status.Err, 0, &status) }()

	h, openErr := a.open(ctx, index, req.Collection)
	if openErr != nil {
		return vectordb.StatusError(openErr), nil
	}
	defer a.closeHandle(h, index)

	if delErr := h.DeleteAll(ctx); delErr != nil {
		a.logger.Error("[Pinecone] delete collection failed", delErr, map[string]interface{}{
			"index": index, "collection": req.Collection,
		})
		return vectordb.StatusError(vectordb.WrapBackendError(component, delErr, "delete namespace %s", req.Collection)), nil
	}
	return vectordb.StatusOk(), nil
}

// InsertPoint ───────────────────────────────────────────────────────────────
func (a *Adapter) InsertPoint(ctx context.Context, req vectordb.SearchRequest, point vectordb.Point) (status vectordb.Status, err error) {
	index := a.indexName(req.Region)
	start := time.Now()
	defer func() { a.observe("insert_point", index, req.Collection, start, err, 1, &status) }()

	accepted, err := a.upsert(ctx, index, req.Collection, []vectordb.Point{point})
	if err != nil {
		return vectordb.StatusError(err), err
	}
	return vectordb.StatusFromBool(accepted == 1), nil
}

// BulkInsertPoints ──────────────────────────────────────────────────────────
//
// Upserts in chunks of the configured batch size, in order. Ok iff the
// summed accepted count equals len(points); a short count is a Failure
// status without retry, a transport error aborts the remaining chunks.
func (a *Adapter) BulkInsertPoints(ctx context.Context, req vectordb.SearchRequest, points []vectordb.Point) (status vectordb.Status, err error) {
	index := a.indexName(req.Region)
	start := time.Now()
	defer func() { a.observe("bulk_insert_points", index, req.Collection, start, err, int64(len(points)), &status) }()

	if len(points) == 0 {
		return vectordb.StatusOk(), nil
	}

	accepted, err := a.upsert(ctx, index, req.Collection, points)
	if err != nil {
		return vectordb.StatusError(err), err
	}
	if int(accepted) != len(points) {
		a.logger.Warn("[Pinecone] upsert accepted fewer vectors than submitted", nil, map[string]interface{}{
			"index": index, "collection": req.Collection, "submitted": len(points), "accepted": accepted,
		})
		return vectordb.StatusFailure(), nil
	}
	return vectordb.StatusOk(), nil
}

func (a *Adapter) upsert(ctx context.Context, index, namespace string, points []vectordb.Point) (uint32, error) {
	vectors := make([]Vector, 0, len(points))
	for i, p := range points {
		if len(p.Vector) == 0 {
			return 0, vectordb.NewOtherError("point %d has no vector", i)
		}
		v, err := toVector(p)
		if err != nil {
			return 0, err
		}
		vectors = append(vectors, v)
	}

	h, err := a.open(ctx, index, namespace)
	if err != nil {
		return 0, err
	}
	defer a.closeHandle(h, index)

	var accepted uint32
	for lo := 0; lo < len(vectors); lo += a.batchSize {
		hi := min(lo+a.batchSize, len(vectors))
		n, err := h.Upsert(ctx, vectors[lo:hi])
		if err != nil {
			return accepted, vectordb.WrapBackendError(component, err, "upsert [%d:%d] into %s", lo, hi, namespace)
		}
		accepted += n
	}
	return accepted, nil
}

// GetCollectionInfo ─────────────────────────────────────────────────────────
//
// Never nil for Pinecone: an absent index or namespace yields metadata with
// a NotFound status and no vector count.
func (a *Adapter) GetCollectionInfo(ctx context.Context, req vectordb.SearchRequest) (meta *vectordb.CollectionMetadata, err error) {
	index := a.indexName(req.Region)
	start := time.Now()
	defer func() {
		var status *vectordb.Status
		if meta != nil {
			status = &meta.Status
		}
		a.observe("get_collection_info", index, req.Collection, start, err, 0, status)
	}()

	return a.collectionMetadata(ctx, index, req.Collection)
}

func (a *Adapter) collectionMetadata(ctx context.Context, index, namespace string) (*vectordb.CollectionMetadata, error) {
	model, found, err := a.findIndex(ctx, index)
	if err != nil {
		return nil, err
	}
	if !found {
		return &vectordb.CollectionMetadata{Status: vectordb.StatusNotFound()}, nil
	}

	metric := DistanceFromMetric(model.Metric)
	dims := uint64(model.Dimension)
	meta := &vectordb.CollectionMetadata{
		Status:     vectordb.StatusNotFound(),
		Metric:     &metric,
		Dimensions: &dims,
	}

	h, err := a.open(ctx, index, namespace)
	if err != nil {
		return nil, err
	}
	defer a.closeHandle(h, index)

	stats, err := h.DescribeStats(ctx)
	if err != nil {
		return nil, vectordb.WrapBackendError(component, err, "describe stats of %s", index)
	}
	if ns, ok := stats.Namespaces[namespace]; ok {
		count := uint64(ns.VectorCount)
		meta.Status = vectordb.StatusOk()
		meta.CollectionVectorCount = &count
	}
	return meta, nil
}

// GetStorageSize ────────────────────────────────────────────────────────────
func (a *Adapter) GetStorageSize(ctx context.Context, req vectordb.SearchRequest, vectorLength int) (*vectordb.StorageSize, error) {
	meta, err := a.GetCollectionInfo(ctx, req)
	if err != nil {
		return nil, err
	}
	return vectordb.NewStorageSize(req.Collection, meta, vectorLength), nil
}

// ScrollPoints ──────────────────────────────────────────────────────────────
//
// Pinecone has no ordered scan over metadata and vectors.
func (a *Adapter) ScrollPoints(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.ScrollResults, error) {
	err := vectordb.NewUnimplementedError("pinecone scroll_points")
	a.observe("scroll_points", a.indexName(req.Region), req.Collection, time.Now(), err, 0, nil)
	return nil, err
}

// SimilaritySearch ──────────────────────────────────────────────────────────
//
// Requires a query vector, response params and a positive limit. Matches
// keep Pinecone's rank order; payload comes back from vector metadata.
func (a *Adapter) SimilaritySearch(ctx context.Context, req vectordb.SearchRequest) (results []vectordb.SearchResult, err error) {
	index := a.indexName(req.Region)
	start := time.Now()
	defer func() { a.observe("similarity_search", index, req.Collection, start, err, int64(len(results)), nil) }()

	if len(req.Vector) == 0 {
		return nil, vectordb.NewOtherError("similarity search on %q requires a query vector", req.Collection)
	}
	params := req.SearchResponseParams
	if params == nil {
		return nil, vectordb.NewOtherError("similarity search on %q requires search response params", req.Collection)
	}
	limit, ok := req.Limit()
	if !ok {
		return nil, vectordb.NewOtherError("similarity search on %q requires top_k or a response limit", req.Collection)
	}
	filter, err := convertFilterSet(req.ResolvedFilters())
	if err != nil {
		return nil, err
	}

	h, err := a.open(ctx, index, req.Collection)
	if err != nil {
		return nil, err
	}
	defer a.closeHandle(h, index)

	matches, err := h.Query(ctx, Query{
		Vector:          req.Vector,
		TopK:            limit,
		Filter:          filter,
		IncludeValues:   params.WantVectors(),
		IncludeMetadata: params.WantPayload(),
	})
	if err != nil {
		return nil, vectordb.WrapBackendError(component, err, "query %s", req.Collection)
	}

	results = make([]vectordb.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, toSearchResult(m, params.WantPayload(), params.WantVectors()))
	}
	return results, nil
}
