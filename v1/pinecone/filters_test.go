package pinecone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

func TestConvertFilterSet(t *testing.T) {
	gte := 2.0
	lt := 10.0
	since := time.Unix(1700000000, 0).UTC()

	tests := []struct {
		name   string
		filter *vectordb.FilterSet
		want   map[string]interface{}
	}{
		{
			name:   "single must",
			filter: vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch("lang", "en"))),
			want:   map[string]interface{}{"lang": map[string]interface{}{"$eq": "en"}},
		},
		{
			name: "must and should",
			filter: vectordb.NewFilterSet(
				vectordb.Must(vectordb.NewMatch("lang", "en")),
				vectordb.Should(vectordb.NewMatch("tag", "ml"), vectordb.NewMatch("tag", "ai")),
			),
			want: map[string]interface{}{"$and": []interface{}{
				map[string]interface{}{"lang": map[string]interface{}{"$eq": "en"}},
				map[string]interface{}{"$or": []interface{}{
					map[string]interface{}{"tag": map[string]interface{}{"$eq": "ml"}},
					map[string]interface{}{"tag": map[string]interface{}{"$eq": "ai"}},
				}},
			}},
		},
		{
			name:   "must not match any",
			filter: vectordb.NewFilterSet(vectordb.MustNot(vectordb.NewMatchAny("tag", "a", "b"))),
			want:   map[string]interface{}{"tag": map[string]interface{}{"$nin": []interface{}{"a", "b"}}},
		},
		{
			name:   "must not match except",
			filter: vectordb.NewFilterSet(vectordb.MustNot(vectordb.NewMatchExcept("tag", "a"))),
			want:   map[string]interface{}{"tag": map[string]interface{}{"$in": []interface{}{"a"}}},
		},
		{
			name:   "must not equal",
			filter: vectordb.NewFilterSet(vectordb.MustNot(vectordb.NewMatch("n", 3))),
			want:   map[string]interface{}{"n": map[string]interface{}{"$ne": 3.0}},
		},
		{
			name:   "numeric range",
			filter: vectordb.NewFilterSet(vectordb.Must(vectordb.NewNumericRange("page", vectordb.NumericRange{Gte: &gte, Lt: &lt}))),
			want:   map[string]interface{}{"page": map[string]interface{}{"$gte": 2.0, "$lt": 10.0}},
		},
		{
			name:   "negated numeric range",
			filter: vectordb.NewFilterSet(vectordb.MustNot(vectordb.NewNumericRange("page", vectordb.NumericRange{Gte: &gte, Lt: &lt}))),
			want: map[string]interface{}{"$or": []interface{}{
				map[string]interface{}{"page": map[string]interface{}{"$lt": 2.0}},
				map[string]interface{}{"page": map[string]interface{}{"$gte": 10.0}},
			}},
		},
		{
			name:   "time range as unix seconds",
			filter: vectordb.NewFilterSet(vectordb.Must(vectordb.NewTimeRange("created", vectordb.TimeRange{Gte: &since}))),
			want:   map[string]interface{}{"created": map[string]interface{}{"$gte": 1700000000.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertFilterSet(tt.filter)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.AsMap())
		})
	}
}

func TestConvertFilterSetEmpty(t *testing.T) {
	got, err := convertFilterSet(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = convertFilterSet(vectordb.NewFilterSet())
	require.NoError(t, err)
	assert.Nil(t, got)
}
