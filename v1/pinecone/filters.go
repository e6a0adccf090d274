package pinecone

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// ── Filter Conversion ────────────────────────────────────────────────────────
//
// Pinecone metadata filters are Mongo-style documents:
//
//	{"$and": [{"lang": {"$eq": "en"}}, {"$or": [{"tag": {"$eq": "ml"}}, ...]}]}
//
// Must conditions are ANDed, Should conditions become one $or, and MustNot
// conditions are negated operator by operator since there is no $not.

// convertFilterSet returns nil for an empty set.
func convertFilterSet(fs *vectordb.FilterSet) (*structpb.Struct, error) {
	if fs.IsEmpty() {
		return nil, nil
	}

	var clauses []interface{}
	if fs.Must != nil {
		for _, c := range fs.Must.Conditions {
			clauses = append(clauses, convertCondition(c, false)...)
		}
	}
	if fs.Should != nil {
		var alternatives []interface{}
		for _, c := range fs.Should.Conditions {
			alternatives = append(alternatives, convertCondition(c, false)...)
		}
		switch len(alternatives) {
		case 0:
		case 1:
			clauses = append(clauses, alternatives[0])
		default:
			clauses = append(clauses, map[string]interface{}{"$or": alternatives})
		}
	}
	if fs.MustNot != nil {
		for _, c := range fs.MustNot.Conditions {
			clauses = append(clauses, convertCondition(c, true)...)
		}
	}

	var doc map[string]interface{}
	switch len(clauses) {
	case 0:
		return nil, nil
	case 1:
		doc = clauses[0].(map[string]interface{})
	default:
		doc = map[string]interface{}{"$and": clauses}
	}

	filter, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, vectordb.NewOtherError("invalid filter: %v", err)
	}
	return filter, nil
}

func convertCondition(c vectordb.FilterCondition, negate bool) []interface{} {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		op := "$eq"
		if negate {
			op = "$ne"
		}
		return []interface{}{fieldOp(cond.Field, op, scalar(cond.Value))}
	case *vectordb.MatchAnyCondition:
		op := "$in"
		if negate {
			op = "$nin"
		}
		return []interface{}{fieldOp(cond.Field, op, scalars(cond.Values))}
	case *vectordb.MatchExceptCondition:
		op := "$nin"
		if negate {
			op = "$in"
		}
		return []interface{}{fieldOp(cond.Field, op, scalars(cond.Values))}
	case *vectordb.NumericRangeCondition:
		return rangeClauses(cond.Field, bounds(cond.Range.Gt, cond.Range.Gte, cond.Range.Lt, cond.Range.Lte), negate)
	case *vectordb.TimeRangeCondition:
		r := cond.Range
		return rangeClauses(cond.Field, bounds(unix(r.Gt), unix(r.Gte), unix(r.Lt), unix(r.Lte)), negate)
	default:
		return nil
	}
}

type bound struct {
	op, negated string
	value       float64
}

func bounds(gt, gte, lt, lte *float64) []bound {
	var out []bound
	if gt != nil {
		out = append(out, bound{"$gt", "$lte", *gt})
	}
	if gte != nil {
		out = append(out, bound{"$gte", "$lt", *gte})
	}
	if lt != nil {
		out = append(out, bound{"$lt", "$gte", *lt})
	}
	if lte != nil {
		out = append(out, bound{"$lte", "$gt", *lte})
	}
	return out
}

// rangeClauses emits one clause holding every bound, or for a negated range
// an $or of the inverted bounds.
func rangeClauses(field string, bs []bound, negate bool) []interface{} {
	if len(bs) == 0 {
		return nil
	}
	if !negate {
		ops := make(map[string]interface{}, len(bs))
		for _, b := range bs {
			ops[b.op] = b.value
		}
		return []interface{}{map[string]interface{}{field: ops}}
	}
	if len(bs) == 1 {
		return []interface{}{fieldOp(field, bs[0].negated, bs[0].value)}
	}
	alts := make([]interface{}, 0, len(bs))
	for _, b := range bs {
		alts = append(alts, fieldOp(field, b.negated, b.value))
	}
	return []interface{}{map[string]interface{}{"$or": alts}}
}

func fieldOp(field, op string, value interface{}) map[string]interface{} {
	return map[string]interface{}{field: map[string]interface{}{op: value}}
}

// scalar normalises ints to float64, the only number type structpb accepts
// from every caller.
func scalar(v any) interface{} {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return v
	}
}

func scalars(values []any) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = scalar(v)
	}
	return out
}

// unix compares times as epoch seconds, so time payload fields must be
// stored as numbers.
func unix(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	secs := float64(t.UnixNano()) / float64(time.Second)
	return &secs
}
