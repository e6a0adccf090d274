package vectordb

// BytesPerComponent is the width of one stored vector component (float32).
const BytesPerComponent = 4

// CalculateVectorStorageSize estimates the bytes used by count vectors of the
// given length. Metadata and index overhead are not included.
func CalculateVectorStorageSize(count uint64, vectorLength int) float64 {
	if vectorLength <= 0 {
		return 0
	}
	return float64(count) * float64(vectorLength) * BytesPerComponent
}

// NewStorageSize derives a StorageSize from collection metadata. A nil
// metadata yields nil; metadata without a vector count reports size 0 with
// the metadata's status, or NotFound when that status is Ok. A non-positive
// vectorLength falls back to the collection's own dimensions.
func NewStorageSize(collection string, meta *CollectionMetadata, vectorLength int) *StorageSize {
	if meta == nil {
		return nil
	}
	if vectorLength <= 0 && meta.Dimensions != nil {
		vectorLength = int(*meta.Dimensions)
	}
	zero := 0.0
	if meta.CollectionVectorCount == nil {
		status := meta.Status
		if status.IsOk() {
			status = StatusNotFound()
		}
		return &StorageSize{Status: status, CollectionName: collection, Size: &zero}
	}
	count := *meta.CollectionVectorCount
	size := CalculateVectorStorageSize(count, vectorLength)
	return &StorageSize{
		Status:         StatusOk(),
		CollectionName: collection,
		Size:           &size,
		PointsCount:    &count,
	}
}
