package vectordb

// PayloadTextKey is the payload key a Document's text is stored under.
const PayloadTextKey = "text"

// DefaultScrollLimit is the page size used when a scroll carries no limit.
const DefaultScrollLimit uint32 = 10

// NewSearchRequest builds a request with the default placement (US on GCP).
func NewSearchRequest(searchType SearchType, collection string) SearchRequest {
	region := DefaultPlacementPolicy.Region
	cloud := DefaultPlacementPolicy.Cloud
	return SearchRequest{
		SearchType: searchType,
		Collection: collection,
		Region:     &region,
		Cloud:      &cloud,
	}
}

// NewPoint builds a point; an empty index leaves id assignment to the adapter.
func NewPoint(index string, vector []float32, payload map[string]string) Point {
	p := Point{Vector: vector, Payload: payload}
	if index != "" {
		p.Index = &index
	}
	return p
}

// Limit resolves the number of results requested: TopK first, then the
// response params limit. ok is false when neither is set or the value is 0.
func (r SearchRequest) Limit() (limit uint32, ok bool) {
	switch {
	case r.TopK != nil:
		limit = *r.TopK
	case r.SearchResponseParams != nil && r.SearchResponseParams.Limit != nil:
		limit = *r.SearchResponseParams.Limit
	}
	return limit, limit > 0
}

// ResolvedFilters merges the string-match Filters with TypedFilters.
// Returns nil when neither carries a condition.
func (r SearchRequest) ResolvedFilters() *FilterSet {
	merged := MergeFilterSets(r.Filters.FilterSet(), r.TypedFilters)
	if merged.IsEmpty() {
		return nil
	}
	return merged
}

// WantPayload reports IncludePayload, defaulting to true.
func (p *SearchResponseParams) WantPayload() bool {
	if p == nil || p.IncludePayload == nil {
		return true
	}
	return *p.IncludePayload
}

// WantVectors reports IncludeVectors, defaulting to false.
func (p *SearchResponseParams) WantVectors() bool {
	if p == nil || p.IncludeVectors == nil {
		return false
	}
	return *p.IncludeVectors
}

// AllPages reports GetAllPages, defaulting to false.
func (p *SearchResponseParams) AllPages() bool {
	if p == nil || p.GetAllPages == nil {
		return false
	}
	return *p.GetAllPages
}

// ToPoint converts the document into an insertable point. Metadata is copied
// and Text is stored under PayloadTextKey.
func (d Document) ToPoint() Point {
	payload := make(map[string]string, len(d.Metadata)+1)
	for k, v := range d.Metadata {
		payload[k] = v
	}
	payload[PayloadTextKey] = d.Text
	return Point{Index: d.ID, Vector: d.Vector, Payload: payload}
}

// Ptr returns a pointer to v. Handy for the optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
