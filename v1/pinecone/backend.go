package pinecone

import (
	"context"

	pinecone "github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// IndexModel is the subset of a serverless index description the adapter uses.
type IndexModel struct {
	Name      string
	Host      string
	Dimension int32
	Metric    pinecone.IndexMetric
	Cloud     pinecone.Cloud
	Region    string
}

// NamespaceStats holds the per-namespace figures of DescribeIndexStats.
type NamespaceStats struct {
	VectorCount uint32
}

// IndexStats is the result of DescribeIndexStats.
type IndexStats struct {
	TotalVectorCount uint32
	Namespaces       map[string]NamespaceStats
}

// Vector is a record to upsert.
type Vector struct {
	ID       string
	Values   []float32
	Metadata *structpb.Struct
}

// Match is one ranked query hit.
type Match struct {
	ID       string
	Score    float32
	Values   []float32
	Metadata *structpb.Struct
}

// Query is a nearest-neighbour query by vector values.
type Query struct {
	Vector          []float32
	TopK            uint32
	Filter          *structpb.Struct
	IncludeValues   bool
	IncludeMetadata bool
}

// CreateIndexRequest describes a serverless index to create. The call never
// waits for the index to become ready.
type CreateIndexRequest struct {
	Name               string
	Dimension          int32
	Metric             pinecone.IndexMetric
	Cloud              pinecone.Cloud
	Region             string
	DeletionProtection bool
}

// Backend is the control-plane surface of the Pinecone service. *PineconeClient
// implements it over the official SDK.
//
//go:generate mockgen -source=backend.go -destination=mock_backend.go -package=pinecone
type Backend interface {
	ListIndexes(ctx context.Context) ([]IndexModel, error)
	DescribeIndex(ctx context.Context, name string) (IndexModel, error)
	CreateServerlessIndex(ctx context.Context, req CreateIndexRequest) (IndexModel, error)
	// Index resolves the host of the named index and opens a data-plane
	// handle scoped to namespace.
	Index(ctx context.Context, name, namespace string) (IndexHandle, error)
}

// IndexHandle is the data-plane surface of one index namespace.
type IndexHandle interface {
	DescribeStats(ctx context.Context) (IndexStats, error)
	Upsert(ctx context.Context, vectors []Vector) (uint32, error)
	DeleteAll(ctx context.Context) error
	Query(ctx context.Context, q Query) ([]Match, error)
	Close() error
}
