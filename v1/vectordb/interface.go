package vectordb

import "context"

// VectorDatabase is the contract every backend adapter implements.
// Application code depends on this interface only, so switching between a
// managed engine and a self-hosted one is a configuration change.
//
// All methods are safe for concurrent use. Cancellation and deadlines come
// from ctx; adapters never retry on their own.
//
// Example:
//
//	req := vectordb.NewSearchRequest(vectordb.SearchTypeCollection, "handbook")
//	status, err := db.BulkInsertPoints(ctx, req, points)
//	if err != nil {
//	    return err // transport or validation failure
//	}
//	if !status.IsOk() {
//	    // the engine accepted fewer points than submitted
//	}
type VectorDatabase interface {
	// GetListOfCollections returns every collection the backend exposes.
	GetListOfCollections(ctx context.Context) ([]string, error)

	// CheckCollectionExists reports NotFound with nil metadata when the
	// collection is absent. Absence is never an error.
	CheckCollectionExists(ctx context.Context, req SearchRequest) (CollectionsResult, error)

	// CreateCollection is idempotent for a compatible existing collection.
	// An existing collection with a different dimension or metric yields a
	// KindNotFound error.
	CreateCollection(ctx context.Context, create CollectionCreate) (Status, error)

	// DeleteCollection reports backend failures as StatusError, not as err.
	DeleteCollection(ctx context.Context, req SearchRequest) (Status, error)

	// InsertPoint is Ok when the engine accepted the point and Failure otherwise.
	InsertPoint(ctx context.Context, req SearchRequest, point Point) (Status, error)

	// BulkInsertPoints is Ok iff the accepted count equals len(points).
	// There is no retry and no rollback of a partial write.
	BulkInsertPoints(ctx context.Context, req SearchRequest, points []Point) (Status, error)

	// GetCollectionInfo returns nil when the backend has no metadata concept
	// for the request.
	GetCollectionInfo(ctx context.Context, req SearchRequest) (*CollectionMetadata, error)

	// GetStorageSize estimates count × vectorLength × BytesPerComponent.
	GetStorageSize(ctx context.Context, req SearchRequest, vectorLength int) (*StorageSize, error)

	// ScrollPoints pages through a collection. Adapters without paging
	// return a KindUnimplemented error.
	ScrollPoints(ctx context.Context, req SearchRequest) ([]ScrollResults, error)

	// SimilaritySearch requires req.Vector, req.SearchResponseParams and a
	// limit. Results keep the backend's rank order.
	SimilaritySearch(ctx context.Context, req SearchRequest) ([]SearchResult, error)
}

// Logger is the logging surface adapters depend on. *logger.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, error, ...map[string]interface{}) {}
func (NopLogger) Info(string, error, ...map[string]interface{})  {}
func (NopLogger) Warn(string, error, ...map[string]interface{})  {}
func (NopLogger) Error(string, error, ...map[string]interface{}) {}
