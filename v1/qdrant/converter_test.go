package qdrant

import (
	"testing"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

func TestDistanceMapping(t *testing.T) {
	for _, d := range []vectordb.Distance{
		vectordb.DistanceCosine, vectordb.DistanceEuclid, vectordb.DistanceDot, vectordb.DistanceManhattan,
	} {
		q, err := toQdrantDistance(d)
		require.NoError(t, err)
		assert.Equal(t, d, fromQdrantDistance(q))
	}

	_, err := toQdrantDistance(vectordb.DistanceUnknown)
	assert.Equal(t, vectordb.KindOther, vectordb.KindOf(err))
}

func TestCollectionStatus(t *testing.T) {
	assert.Equal(t, vectordb.StatusCodeOk, collectionStatus(qdrant.CollectionStatus_Green).Code)
	assert.Equal(t, vectordb.StatusCodeFailure, collectionStatus(qdrant.CollectionStatus_Yellow).Code)

	red := collectionStatus(qdrant.CollectionStatus_Red)
	assert.Equal(t, vectordb.StatusCodeError, red.Code)
	assert.Equal(t, vectordb.KindOther, vectordb.KindOf(red.Err))
}

func TestToPointID(t *testing.T) {
	id, original := toPointID(vectordb.Ptr("42"))
	assert.Equal(t, uint64(42), id.GetNum())
	assert.Empty(t, original)

	id, original = toPointID(vectordb.Ptr("3f0c8a52-52a4-4a6c-9b7e-0e2b1f6d9c11"))
	assert.Equal(t, "3f0c8a52-52a4-4a6c-9b7e-0e2b1f6d9c11", id.GetUuid())
	assert.Empty(t, original)

	a, original := toPointID(vectordb.Ptr("doc-1"))
	b, _ := toPointID(vectordb.Ptr("doc-1"))
	assert.Equal(t, a.GetUuid(), b.GetUuid())
	assert.Equal(t, "doc-1", original)

	random, original := toPointID(nil)
	assert.NotEmpty(t, random.GetUuid())
	assert.Empty(t, original)
}

func TestToPointIDKeepsNonCanonicalSpellings(t *testing.T) {
	for _, index := range []string{
		"007",
		"+7",
		"3F0C8A52-52A4-4A6C-9B7E-0E2B1F6D9C11",
		"{3f0c8a52-52a4-4a6c-9b7e-0e2b1f6d9c11}",
		"urn:uuid:3f0c8a52-52a4-4a6c-9b7e-0e2b1f6d9c11",
	} {
		t.Run(index, func(t *testing.T) {
			id, original := toPointID(vectordb.Ptr(index))
			assert.Equal(t, index, original)
			assert.Equal(t, mappedID(index), id.GetUuid())
		})
	}
}

func TestToPointStructRejectsReservedKey(t *testing.T) {
	_, err := toPointStruct(vectordb.NewPoint("doc-1", []float32{1}, map[string]string{PayloadIDKey: "x"}))
	require.Error(t, err)
	assert.Equal(t, vectordb.KindOther, vectordb.KindOf(err))
}

func TestToPayload(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"text":  "hello",
		"page":  int64(3),
		"score": 0.5,
		"ok":    true,
		"tags":  []any{"a", "b"},
		"_id":   "mongo-object-id",
	})

	got := toPayload(qdrant.NewIDNum(1), payload)
	assert.Equal(t, map[string]string{
		"text":  "hello",
		"page":  "3",
		"score": "0.5",
		"ok":    "true",
		"tags":  `["a","b"]`,
		"_id":   "mongo-object-id",
	}, got)
	assert.Nil(t, toPayload(nil, nil))
}

func TestStoredIDRequiresMatchingUUID(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{PayloadIDKey: "doc-1", "text": "hi"})

	id, err := resultID(qdrant.NewID(mappedID("doc-1")), payload)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, map[string]string{"text": "hi"}, toPayload(qdrant.NewID(mappedID("doc-1")), payload))

	other := "3f0c8a52-52a4-4a6c-9b7e-0e2b1f6d9c11"
	id, err = resultID(qdrant.NewID(other), payload)
	require.NoError(t, err)
	assert.Equal(t, other, id)
	assert.Contains(t, toPayload(qdrant.NewID(other), payload), PayloadIDKey)
}

func TestVectorData(t *testing.T) {
	deprecated := &qdrant.VectorsOutput{VectorsOptions: &qdrant.VectorsOutput_Vector{
		Vector: &qdrant.VectorOutput{Data: []float32{1, 2}},
	}}
	assert.Equal(t, []float32{1, 2}, vectorData(deprecated))
	assert.Nil(t, vectorData(nil))
}

func TestConvertFilterSet(t *testing.T) {
	gte := 1.5
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	fs := vectordb.NewFilterSet(
		vectordb.Must(
			vectordb.NewMatch("lang", "en"),
			vectordb.NewMatch("page", 3),
			vectordb.NewMatch("draft", false),
			vectordb.NewNumericRange("score", vectordb.NumericRange{Gte: &gte}),
			vectordb.NewTimeRange("created", vectordb.TimeRange{Gt: &after}),
		),
		vectordb.Should(vectordb.NewMatchAny("tag", "a", "b")),
		vectordb.MustNot(vectordb.NewMatchExcept("year", 2020, 2021)),
	)

	filter := convertFilterSet(fs)
	require.NotNil(t, filter)
	require.Len(t, filter.GetMust(), 5)
	assert.Equal(t, "en", filter.GetMust()[0].GetField().GetMatch().GetKeyword())
	assert.Equal(t, int64(3), filter.GetMust()[1].GetField().GetMatch().GetInteger())
	assert.False(t, filter.GetMust()[2].GetField().GetMatch().GetBoolean())
	assert.Equal(t, 1.5, filter.GetMust()[3].GetField().GetRange().GetGte())
	assert.Equal(t, after.Unix(), filter.GetMust()[4].GetField().GetDatetimeRange().GetGt().GetSeconds())

	require.Len(t, filter.GetShould(), 1)
	assert.Equal(t, []string{"a", "b"}, filter.GetShould()[0].GetField().GetMatch().GetKeywords().GetStrings())

	require.Len(t, filter.GetMustNot(), 1)
	assert.Equal(t, []int64{2020, 2021}, filter.GetMustNot()[0].GetField().GetMatch().GetExceptIntegers().GetIntegers())
}

func TestConvertFilterSetDropsUnsupported(t *testing.T) {
	assert.Nil(t, convertFilterSet(nil))
	assert.Nil(t, convertFilterSet(vectordb.NewFilterSet()))
	assert.Nil(t, convertFilterSet(vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatch("ratio", 0.25), vectordb.NewNumericRange("n", vectordb.NumericRange{})),
	)))
}
