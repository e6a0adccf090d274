package vectordb

// Point is a single vector record. A nil Index lets the adapter assign one.
type Point struct {
	Index   *string           `json:"index,omitempty"`
	Vector  []float32         `json:"vector"`
	Payload map[string]string `json:"payload,omitempty"`
}

// SearchResponseParams selects what a read returns and how many records.
type SearchResponseParams struct {
	IncludeVectors *bool   `json:"include_vectors,omitempty"`
	IncludePayload *bool   `json:"include_payload,omitempty"`
	GetAllPages    *bool   `json:"get_all_pages,omitempty"`
	Limit          *uint32 `json:"limit,omitempty"`
}

// SearchRequest addresses a collection, a point, or a similarity query.
// Region and Cloud are resolved through the adapter's PlacementPolicy when nil.
type SearchRequest struct {
	SearchType           SearchType            `json:"search_type"`
	Collection           string                `json:"collection"`
	ID                   *string               `json:"id,omitempty"`
	Vector               []float32             `json:"vector,omitempty"`
	TopK                 *uint32               `json:"top_k,omitempty"`
	Filters              *FilterConditions     `json:"filters,omitempty"`
	TypedFilters         *FilterSet            `json:"typed_filters,omitempty"`
	SearchResponseParams *SearchResponseParams `json:"search_response_params,omitempty"`
	Region               *Region               `json:"region,omitempty"`
	Cloud                *Cloud                `json:"cloud,omitempty"`
}

// SearchResult is one ranked match of a similarity query.
type SearchResult struct {
	ID      string            `json:"id"`
	Score   *float32          `json:"score,omitempty"`
	Payload map[string]string `json:"payload,omitempty"`
	Vector  []float32         `json:"vector,omitempty"`
}

// CollectionCreate describes a collection to create.
type CollectionCreate struct {
	CollectionName string   `json:"collection_name"`
	Size           uint64   `json:"dimensions"`
	Namespace      *string  `json:"namespace,omitempty"`
	Distance       Distance `json:"distance"`
	VectorName     *string  `json:"vector_name,omitempty"`
	Region         *Region  `json:"region,omitempty"`
	Cloud          *Cloud   `json:"cloud,omitempty"`
}

// CollectionMetadata carries best-effort counts and settings of a collection.
type CollectionMetadata struct {
	Status                Status    `json:"status"`
	CollectionVectorCount *uint64   `json:"collection_vector_count,omitempty"`
	Metric                *Distance `json:"metric,omitempty"`
	Dimensions            *uint64   `json:"dimensions,omitempty"`
}

// CollectionsResult is the answer to an existence probe.
type CollectionsResult struct {
	Status             Status              `json:"status"`
	CollectionName     string              `json:"collection_name"`
	CollectionMetadata *CollectionMetadata `json:"collection_metadata,omitempty"`
}

// StorageSize is an estimate of the raw vector bytes of a collection.
type StorageSize struct {
	Status         Status   `json:"status"`
	CollectionName string   `json:"collection_name"`
	Size           *float64 `json:"size,omitempty"`
	PointsCount    *uint64  `json:"points_count,omitempty"`
}

// ScrollResults is one record of a paged scan.
type ScrollResults struct {
	Status  Status            `json:"status"`
	ID      string            `json:"id"`
	Payload map[string]string `json:"payload,omitempty"`
	Vector  []float32         `json:"vector,omitempty"`
}

// Document is a chunk of text with its embedding, as produced by the
// chunking and embedding stages upstream of ingestion.
type Document struct {
	ID       *string           `json:"id,omitempty"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Vector   []float32         `json:"vector"`
}
