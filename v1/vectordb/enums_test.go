package vectordb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceRoundTrip(t *testing.T) {
	for _, d := range []Distance{DistanceUnknown, DistanceCosine, DistanceEuclid, DistanceDot, DistanceManhattan} {
		got, err := ParseDistance(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDistance("hamming")
	assert.Error(t, err)
	assert.Equal(t, "UnknownDistance", Distance(42).String())
}

func TestRegionAndCloudRoundTrip(t *testing.T) {
	for _, r := range []Region{RegionUS, RegionEU, RegionAU} {
		got, err := ParseRegion(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	for _, c := range []Cloud{CloudGCP, CloudAWS, CloudAzure} {
		got, err := ParseCloud(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseRegion("APAC")
	assert.Error(t, err)
	_, err = ParseCloud("oracle")
	assert.Error(t, err)
}

func TestSearchRequestJSON(t *testing.T) {
	req := NewSearchRequest(SearchTypeSimilarity, "handbook")
	req.TopK = Ptr[uint32](5)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"search_type":"Similarity"`)
	assert.Contains(t, string(data), `"region":"US"`)
	assert.Contains(t, string(data), `"cloud":"GCP"`)

	var back SearchRequest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, req, back)
}

func TestCollectionCreateDistanceJSON(t *testing.T) {
	var c CollectionCreate
	require.NoError(t, json.Unmarshal([]byte(`{"collection_name":"a","dimensions":3,"distance":"dot"}`), &c))
	assert.Equal(t, DistanceDot, c.Distance)
	assert.Equal(t, uint64(3), c.Size)
}
