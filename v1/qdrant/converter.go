package qdrant

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// pointIDNamespace derives stable UUIDs for caller ids Qdrant cannot store.
var pointIDNamespace = uuid.MustParse("6f1c3a7e-2b8d-4e0a-9c55-7d2f1b3e8a40")

// ── Distance & Status ────────────────────────────────────────────────────────

func toQdrantDistance(d vectordb.Distance) (qdrant.Distance, error) {
	switch d {
	case vectordb.DistanceCosine:
		return qdrant.Distance_Cosine, nil
	case vectordb.DistanceEuclid:
		return qdrant.Distance_Euclid, nil
	case vectordb.DistanceDot:
		return qdrant.Distance_Dot, nil
	case vectordb.DistanceManhattan:
		return qdrant.Distance_Manhattan, nil
	default:
		return qdrant.Distance_UnknownDistance, vectordb.NewOtherError("distance %s is not supported by qdrant", d)
	}
}

func fromQdrantDistance(d qdrant.Distance) vectordb.Distance {
	switch d {
	case qdrant.Distance_Cosine:
		return vectordb.DistanceCosine
	case qdrant.Distance_Euclid:
		return vectordb.DistanceEuclid
	case qdrant.Distance_Dot:
		return vectordb.DistanceDot
	case qdrant.Distance_Manhattan:
		return vectordb.DistanceManhattan
	default:
		return vectordb.DistanceUnknown
	}
}

// collectionStatus maps Green to Ok and Yellow (optimizing) to Failure;
// anything else is reported as an error status.
func collectionStatus(s qdrant.CollectionStatus) vectordb.Status {
	switch s {
	case qdrant.CollectionStatus_Green:
		return vectordb.StatusOk()
	case qdrant.CollectionStatus_Yellow:
		return vectordb.StatusFailure()
	default:
		return vectordb.StatusError(vectordb.NewOtherError("collection status is %s", s))
	}
}

// ── Collection Info ──────────────────────────────────────────────────────────

// vectorParams returns the single unnamed vector config of a collection,
// or the first named one.
func vectorParams(info *qdrant.CollectionInfo) *qdrant.VectorParams {
	cfg := info.GetConfig().GetParams().GetVectorsConfig()
	if p := cfg.GetParams(); p != nil {
		return p
	}
	if named := cfg.GetParamsMap().GetMap(); len(named) > 0 {
		for _, p := range named {
			return p
		}
	}
	return nil
}

func toCollectionMetadata(info *qdrant.CollectionInfo) *vectordb.CollectionMetadata {
	meta := &vectordb.CollectionMetadata{Status: collectionStatus(info.GetStatus())}
	if info.PointsCount != nil {
		count := *info.PointsCount
		meta.CollectionVectorCount = &count
	}
	if p := vectorParams(info); p != nil {
		metric := fromQdrantDistance(p.GetDistance())
		dims := p.GetSize()
		meta.Metric = &metric
		meta.Dimensions = &dims
	}
	return meta
}

// ── Points ───────────────────────────────────────────────────────────────────

// toPointID keeps canonical numeric and UUID ids as they are. Any other
// string, including non-canonical spellings of either, is mapped to a
// name-based UUID and the original is returned for the payload.
func toPointID(index *string) (*qdrant.PointId, string) {
	if index == nil || *index == "" {
		return qdrant.NewID(uuid.NewString()), ""
	}
	if n, err := strconv.ParseUint(*index, 10, 64); err == nil && strconv.FormatUint(n, 10) == *index {
		return qdrant.NewIDNum(n), ""
	}
	if u, err := uuid.Parse(*index); err == nil && u.String() == *index {
		return qdrant.NewID(*index), ""
	}
	return qdrant.NewID(mappedID(*index)), *index
}

func mappedID(original string) string {
	return uuid.NewSHA1(pointIDNamespace, []byte(original)).String()
}

// PayloadIDKey holds the caller's id when it is not a canonical number or
// UUID. Caller payloads may not use it.
const PayloadIDKey = "__vdbp_original_id"

func toPointStruct(p vectordb.Point) (*qdrant.PointStruct, error) {
	if _, ok := p.Payload[PayloadIDKey]; ok {
		return nil, vectordb.NewOtherError("payload key %s is reserved", PayloadIDKey)
	}
	id, original := toPointID(p.Index)
	payload := make(map[string]any, len(p.Payload)+1)
	for k, v := range p.Payload {
		payload[k] = v
	}
	if original != "" {
		payload[PayloadIDKey] = original
	}
	return &qdrant.PointStruct{
		Id:      id,
		Vectors: qdrant.NewVectors(p.Vector...),
		Payload: qdrant.NewValueMap(payload),
	}, nil
}

func pointIDString(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// storedID returns the original id kept in the payload, but only when the
// point's UUID is the one derived from it.
func storedID(id *qdrant.PointId, payload map[string]*qdrant.Value) (string, bool) {
	s := payload[PayloadIDKey].GetStringValue()
	if s == "" || id.GetUuid() != mappedID(s) {
		return "", false
	}
	return s, true
}

func resultID(id *qdrant.PointId, payload map[string]*qdrant.Value) (string, error) {
	if s, ok := storedID(id, payload); ok {
		return s, nil
	}
	return pointIDString(id)
}

// toPayload flattens a Qdrant payload to strings. Scalars are formatted;
// lists and structs keep their JSON form. The stored id key is dropped.
func toPayload(id *qdrant.PointId, payload map[string]*qdrant.Value) map[string]string {
	if len(payload) == 0 {
		return nil
	}
	_, stripID := storedID(id, payload)
	out := make(map[string]string, len(payload))
	for k, v := range payload {
		if stripID && k == PayloadIDKey {
			continue
		}
		out[k] = valueString(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func valueString(v *qdrant.Value) string {
	switch val := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return strconv.FormatInt(val.IntegerValue, 10)
	case *qdrant.Value_DoubleValue:
		return strconv.FormatFloat(val.DoubleValue, 'f', -1, 64)
	case *qdrant.Value_BoolValue:
		return strconv.FormatBool(val.BoolValue)
	case *qdrant.Value_NullValue, nil:
		return ""
	default:
		data, err := json.Marshal(nativeValue(v))
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// nativeValue recursively converts a Qdrant Value to a Go native type.
func nativeValue(v *qdrant.Value) any {
	switch val := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		fields := val.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for k, f := range fields {
			out[k] = nativeValue(f)
		}
		return out
	case *qdrant.Value_ListValue:
		values := val.ListValue.GetValues()
		items := make([]any, len(values))
		for i, item := range values {
			items[i] = nativeValue(item)
		}
		return items
	default:
		return nil
	}
}

// vectorData reads the unnamed dense vector, in either the current or the
// deprecated wire field.
func vectorData(v *qdrant.VectorsOutput) []float32 {
	out := v.GetVector()
	if data := out.GetDense().GetData(); len(data) > 0 {
		return data
	}
	if data := out.GetData(); len(data) > 0 {
		return data
	}
	return nil
}

func toSearchResult(p *qdrant.ScoredPoint) (vectordb.SearchResult, error) {
	id, err := resultID(p.GetId(), p.GetPayload())
	if err != nil {
		return vectordb.SearchResult{}, err
	}
	score := p.GetScore()
	return vectordb.SearchResult{
		ID:      id,
		Score:   &score,
		Payload: toPayload(p.GetId(), p.GetPayload()),
		Vector:  vectorData(p.GetVectors()),
	}, nil
}

func toScrollResult(p *qdrant.RetrievedPoint) (vectordb.ScrollResults, error) {
	id, err := resultID(p.GetId(), p.GetPayload())
	if err != nil {
		return vectordb.ScrollResults{}, err
	}
	return vectordb.ScrollResults{
		Status:  vectordb.StatusOk(),
		ID:      id,
		Payload: toPayload(p.GetId(), p.GetPayload()),
		Vector:  vectorData(p.GetVectors()),
	}, nil
}

// ── Filter Conversion ────────────────────────────────────────────────────────

// convertFilterSet converts a vectordb.FilterSet to a Qdrant filter.
// Returns nil when no condition survives conversion.
func convertFilterSet(filters *vectordb.FilterSet) *qdrant.Filter {
	if filters.IsEmpty() {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    convertConditionSet(filters.Must),
		Should:  convertConditionSet(filters.Should),
		MustNot: convertConditionSet(filters.MustNot),
	}
	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}
	return filter
}

func convertConditionSet(cs *vectordb.ConditionSet) []*qdrant.Condition {
	if cs == nil {
		return nil
	}
	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		if cond := convertCondition(c); cond != nil {
			conditions = append(conditions, cond)
		}
	}
	return conditions
}

func convertCondition(c vectordb.FilterCondition) *qdrant.Condition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertMatch(cond)
	case *vectordb.MatchAnyCondition:
		if strs, ok := keywords(cond.Values); ok {
			return qdrant.NewMatchKeywords(cond.Field, strs...)
		}
		if ints, ok := integers(cond.Values); ok {
			return qdrant.NewMatchInts(cond.Field, ints...)
		}
		return nil
	case *vectordb.MatchExceptCondition:
		if strs, ok := keywords(cond.Values); ok {
			return qdrant.NewMatchExceptKeywords(cond.Field, strs...)
		}
		if ints, ok := integers(cond.Values); ok {
			return qdrant.NewMatchExceptInts(cond.Field, ints...)
		}
		return nil
	case *vectordb.NumericRangeCondition:
		r := cond.Range
		if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
			return nil
		}
		return qdrant.NewRange(cond.Field, &qdrant.Range{Gt: r.Gt, Gte: r.Gte, Lt: r.Lt, Lte: r.Lte})
	case *vectordb.TimeRangeCondition:
		r := cond.Range
		if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
			return nil
		}
		return qdrant.NewDatetimeRange(cond.Field, &qdrant.DatetimeRange{
			Gt:  timestamp(r.Gt),
			Gte: timestamp(r.Gte),
			Lt:  timestamp(r.Lt),
			Lte: timestamp(r.Lte),
		})
	default:
		return nil
	}
}

func convertMatch(c *vectordb.MatchCondition) *qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case float64:
		// JSON numbers; Qdrant only matches integers exactly.
		if v == math.Trunc(v) {
			return qdrant.NewMatchInt(c.Field, int64(v))
		}
		return nil
	default:
		return nil
	}
}

func keywords(values []any) ([]string, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func integers(values []any) ([]int64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]int64, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int:
			out = append(out, int64(n))
		case int64:
			out = append(out, n)
		case float64:
			out = append(out, int64(n))
		default:
			return nil, false
		}
	}
	return out, true
}

func timestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}
