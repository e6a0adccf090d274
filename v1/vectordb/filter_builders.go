package vectordb

import (
	"encoding/json"
	"fmt"
)

// ── FilterSet Constructors ───────────────────────────────────────────────────

// NewFilterSet creates a FilterSet with the given clauses.
//
// Example:
//
//	vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatch("source", "handbook.pdf")),
//	    vectordb.Should(vectordb.NewMatch("lang", "en"), vectordb.NewMatch("lang", "de")),
//	)
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

// Must creates a Must clause (AND logic) with the given conditions.
func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = &ConditionSet{Conditions: conditions}
	}
}

// Should creates a Should clause (OR logic) with the given conditions.
func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = &ConditionSet{Conditions: conditions}
	}
}

// MustNot creates a MustNot clause (NOT logic) with the given conditions.
func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = &ConditionSet{Conditions: conditions}
	}
}

// ── Condition Constructors ───────────────────────────────────────────────────

func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

// NewMatchAny panics when values mix types.
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	mustBeHomogeneous(values)
	return &MatchAnyCondition{Field: field, Values: values}
}

// NewMatchExcept panics when values mix types.
func NewMatchExcept(field string, values ...any) *MatchExceptCondition {
	mustBeHomogeneous(values)
	return &MatchExceptCondition{Field: field, Values: values}
}

func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

func NewTimeRange(field string, t TimeRange) *TimeRangeCondition {
	return &TimeRangeCondition{Field: field, Range: t}
}

// ── JSON Serialization ───────────────────────────────────────────────────────

// MarshalJSON encodes the conditions as a plain array.
func (cs *ConditionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.Conditions)
}

// UnmarshalJSON detects each condition's concrete type from its keys.
func (cs *ConditionSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cs.Conditions = make([]FilterCondition, 0, len(raw))
	for _, r := range raw {
		cond, err := parseCondition(r)
		if err != nil {
			return err
		}
		cs.Conditions = append(cs.Conditions, cond)
	}
	return nil
}

// parseCondition picks the condition type by key:
//   - "equalTo" → MatchCondition
//   - "anyOf" → MatchAnyCondition
//   - "noneOf" → MatchExceptCondition
//   - "greaterThan", "lessThan", etc. → NumericRangeCondition
//   - "after", "before", etc. → TimeRangeCondition
func parseCondition(data []byte) (FilterCondition, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	var cond FilterCondition
	switch {
	case hasKey(fields, "equalTo"):
		cond = &MatchCondition{}
	case hasKey(fields, "anyOf"):
		cond = &MatchAnyCondition{}
	case hasKey(fields, "noneOf"):
		cond = &MatchExceptCondition{}
	case hasKey(fields, "greaterThan", "greaterThanOrEqualTo", "lessThan", "lessThanOrEqualTo"):
		cond = &NumericRangeCondition{}
	case hasKey(fields, "after", "atOrAfter", "before", "atOrBefore"):
		cond = &TimeRangeCondition{}
	default:
		return nil, fmt.Errorf("unknown filter condition type: %s", string(data))
	}
	if err := json.Unmarshal(data, cond); err != nil {
		return nil, err
	}
	return cond, nil
}

func hasKey(m map[string]json.RawMessage, keys ...string) bool {
	for _, key := range keys {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

// mustBeHomogeneous catches mixed-type IN lists at construction time.
func mustBeHomogeneous(values []any) {
	if len(values) <= 1 {
		return
	}

	expectedType := typeCategory(values[0])
	if expectedType == "" {
		panic(fmt.Sprintf("vectordb: unsupported value type: %T", values[0]))
	}
	for i, v := range values[1:] {
		actualType := typeCategory(v)
		if actualType == "" {
			panic(fmt.Sprintf("vectordb: unsupported value type at index %d: %T", i+1, v))
		}
		if actualType != expectedType {
			panic(fmt.Sprintf("vectordb: mixed types not allowed in MatchAny/MatchExcept: expected %s but got %s at index %d", expectedType, actualType, i+1))
		}
	}
}

func typeCategory(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case int, int64, float64:
		return "numeric"
	case bool:
		return "boolean"
	}
	return ""
}
