package qdrant

import (
	"context"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// GetListOfCollections ──────────────────────────────────────────────────────
func (a *Adapter) GetListOfCollections(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { a.observe("get_list_of_collections", "", start, err, int64(len(names)), nil) }()

	names, err = a.api.ListCollections(ctx)
	if err != nil {
		return nil, backendError(err, "list collections")
	}
	if names == nil {
		names = []string{}
	}
	a.logger.Debug("[Qdrant] listed collections", nil, map[string]interface{}{"collections": len(names)})
	return names, nil
}

// CheckCollectionExists ─────────────────────────────────────────────────────
func (a *Adapter) CheckCollectionExists(ctx context.Context, req vectordb.SearchRequest) (result vectordb.CollectionsResult, err error) {
	start := time.Now()
	defer func() { a.observe("check_collection_exists", req.Collection, start, err, 0, &result.Status) }()

	result = vectordb.CollectionsResult{Status: vectordb.StatusNotFound(), CollectionName: req.Collection}

	info, err := a.describe(ctx, req.Collection)
	if err != nil {
		result.Status = vectordb.StatusError(err)
		return result, err
	}
	if info == nil {
		return result, nil
	}
	result.Status = vectordb.StatusOk()
	result.CollectionMetadata = toCollectionMetadata(info)
	return result, nil
}

// describe returns nil info for an absent collection.
func (a *Adapter) describe(ctx context.Context, collection string) (*qdrant.CollectionInfo, error) {
	exists, err := a.api.CollectionExists(ctx, collection)
	if err != nil {
		return nil, backendError(err, "check collection %s", collection)
	}
	if !exists {
		return nil, nil
	}
	info, err := a.api.GetCollectionInfo(ctx, collection)
	if err != nil {
		return nil, backendError(err, "get collection %s", collection)
	}
	return info, nil
}

// CreateCollection ──────────────────────────────────────────────────────────
//
// Idempotent for a compatible existing collection; an existing collection
// with another size or distance is a NotFound-kind error.
func (a *Adapter) CreateCollection(ctx context.Context, create vectordb.CollectionCreate) (status vectordb.Status, err error) {
	name := create.CollectionName
	start := time.Now()
	defer func() { a.observe("create_collection", name, start, err, 0, &status) }()

	if name == "" {
		return vectordb.StatusFailure(), vectordb.NewOtherError("collection name is required")
	}
	if create.Size == 0 {
		return vectordb.StatusFailure(), vectordb.NewOtherError("invalid dimension 0 for collection %q", name)
	}
	distance, err := toQdrantDistance(create.Distance)
	if err != nil {
		return vectordb.StatusFailure(), err
	}

	info, err := a.describe(ctx, name)
	if err != nil {
		return vectordb.StatusError(err), err
	}
	if info != nil {
		p := vectorParams(info)
		if p != nil && p.GetSize() == create.Size && p.GetDistance() == distance {
			a.logger.Debug("[Qdrant] collection already exists", nil, map[string]interface{}{"collection": name})
			return vectordb.StatusOk(), nil
		}
		return vectordb.StatusNotFound(), vectordb.NewNotFoundError(
			"Collection: %s was not found with dimension %d and distance %s (existing collection is incompatible)",
			name, create.Size, create.Distance)
	}

	err = a.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig:  qdrant.NewVectorsConfig(&qdrant.VectorParams{Size: create.Size, Distance: distance}),
	})
	if err != nil {
		err = backendError(err, "create collection %s", name)
		return vectordb.StatusError(err), err
	}

	a.logger.Info("[Qdrant] collection created", nil, map[string]interface{}{
		"collection": name,
		"dimension":  create.Size,
		"distance":   create.Distance.String(),
	})
	return vectordb.StatusOk(), nil
}

// DeleteCollection ──────────────────────────────────────────────────────────
func (a *Adapter) DeleteCollection(ctx context.Context, req vectordb.SearchRequest) (status vectordb.Status, err error) {
	start := time.Now()
	defer func() { a.observe("delete_collection", req.Collection, start, status.Err, 0, &status) }()

	if delErr := a.api.DeleteCollection(ctx, req.Collection); delErr != nil {
		a.logger.Error("[Qdrant] delete collection failed", delErr, map[string]interface{}{"collection": req.Collection})
		return vectordb.StatusError(backendError(delErr, "delete collection %s", req.Collection)), nil
	}
	return vectordb.StatusOk(), nil
}

// InsertPoint ───────────────────────────────────────────────────────────────
func (a *Adapter) InsertPoint(ctx context.Context, req vectordb.SearchRequest, point vectordb.Point) (status vectordb.Status, err error) {
	start := time.Now()
	defer func() { a.observe("insert_point", req.Collection, start, err, 1, &status) }()

	status, err = a.upsert(ctx, req.Collection, []vectordb.Point{point})
	return status, err
}

// BulkInsertPoints ──────────────────────────────────────────────────────────
//
// Upserts in chunks of the configured batch size and waits for each chunk
// to be applied. Any chunk not reported Completed stops the batch with a
// Failure status.
func (a *Adapter) BulkInsertPoints(ctx context.Context, req vectordb.SearchRequest, points []vectordb.Point) (status vectordb.Status, err error) {
	start := time.Now()
	defer func() { a.observe("bulk_insert_points", req.Collection, start, err, int64(len(points)), &status) }()

	if len(points) == 0 {
		return vectordb.StatusOk(), nil
	}
	return a.upsert(ctx, req.Collection, points)
}

func (a *Adapter) upsert(ctx context.Context, collection string, points []vectordb.Point) (vectordb.Status, error) {
	structs := make([]*qdrant.PointStruct, 0, len(points))
	for i, p := range points {
		if len(p.Vector) == 0 {
			return vectordb.StatusFailure(), vectordb.NewOtherError("point %d has no vector", i)
		}
		ps, err := toPointStruct(p)
		if err != nil {
			return vectordb.StatusFailure(), err
		}
		structs = append(structs, ps)
	}

	wait := true
	for lo := 0; lo < len(structs); lo += a.batchSize {
		hi := min(lo+a.batchSize, len(structs))
		res, err := a.api.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         structs[lo:hi],
			Wait:           &wait,
		})
		if err != nil {
			err = backendError(err, "upsert [%d:%d] into %s", lo, hi, collection)
			return vectordb.StatusError(err), err
		}
		if res.GetStatus() != qdrant.UpdateStatus_Completed {
			a.logger.Warn("[Qdrant] upsert not completed", nil, map[string]interface{}{
				"collection": collection, "batch_start": lo, "batch_end": hi, "update_status": res.GetStatus().String(),
			})
			return vectordb.StatusFailure(), nil
		}
	}
	return vectordb.StatusOk(), nil
}

// GetCollectionInfo ─────────────────────────────────────────────────────────
//
// An absent collection yields metadata with a NotFound status.
func (a *Adapter) GetCollectionInfo(ctx context.Context, req vectordb.SearchRequest) (meta *vectordb.CollectionMetadata, err error) {
	start := time.Now()
	defer func() {
		var status *vectordb.Status
		if meta != nil {
			status = &meta.Status
		}
		a.observe("get_collection_info", req.Collection, start, err, 0, status)
	}()

	info, err := a.describe(ctx, req.Collection)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return &vectordb.CollectionMetadata{Status: vectordb.StatusNotFound()}, nil
	}
	meta = toCollectionMetadata(info)
	if meta.CollectionVectorCount == nil {
		exact := true
		count, err := a.api.Count(ctx, &qdrant.CountPoints{CollectionName: req.Collection, Exact: &exact})
		if err != nil {
			return nil, backendError(err, "count points of %s", req.Collection)
		}
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
// Returns one page of points in id order, or every page when GetAllPages is
// set. Each request asks for one point more than the page size so the next
// page offset is known without a separate call.
func (a *Adapter) ScrollPoints(ctx context.Context, req vectordb.SearchRequest) (results []vectordb.ScrollResults, err error) {
	start := time.Now()
	defer func() { a.observe("scroll_points", req.Collection, start, err, int64(len(results)), nil) }()

	limit, ok := req.Limit()
	if !ok {
		limit = vectordb.DefaultScrollLimit
	}
	params := req.SearchResponseParams
	pageSize := limit + 1

	var offset *qdrant.PointId
	results = make([]vectordb.ScrollResults, 0, limit)
	for {
		page, err := a.api.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: req.Collection,
			Filter:         convertFilterSet(req.ResolvedFilters()),
			Offset:         offset,
			Limit:          &pageSize,
			WithPayload:    qdrant.NewWithPayload(params.WantPayload()),
			WithVectors:    qdrant.NewWithVectors(params.WantVectors()),
		})
		if err != nil {
			return nil, backendError(err, "scroll %s", req.Collection)
		}

		offset = nil
		if uint32(len(page)) > limit {
			offset = page[limit].GetId()
			page = page[:limit]
		}
		for _, p := range page {
			r, err := toScrollResult(p)
			if err != nil {
				return nil, backendError(err, "scroll %s", req.Collection)
			}
			results = append(results, r)
		}

		if offset == nil || !params.AllPages() {
			return results, nil
		}
	}
}

// SimilaritySearch ──────────────────────────────────────────────────────────
func (a *Adapter) SimilaritySearch(ctx context.Context, req vectordb.SearchRequest) (results []vectordb.SearchResult, err error) {
	start := time.Now()
	defer func() { a.observe("similarity_search", req.Collection, start, err, int64(len(results)), nil) }()

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

	lim := uint64(limit)
	points, err := a.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Limit:          &lim,
		Filter:         convertFilterSet(req.ResolvedFilters()),
		WithPayload:    qdrant.NewWithPayload(params.WantPayload()),
		WithVectors:    qdrant.NewWithVectors(params.WantVectors()),
	})
	if err != nil {
		return nil, backendError(err, "query %s", req.Collection)
	}

	results = make([]vectordb.SearchResult, 0, len(points))
	for _, p := range points {
		r, err := toSearchResult(p)
		if err != nil {
			return nil, backendError(err, "query %s", req.Collection)
		}
		results = append(results, r)
	}
	return results, nil
}
