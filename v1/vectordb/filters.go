package vectordb

import (
	"encoding/json"
	"sort"
	"time"
)

// FilterConditions is the plain key/value filter accepted on a SearchRequest.
// Every map entry is an exact match on a payload field; the clause decides
// how entries combine.
type FilterConditions struct {
	Must    []map[string]string `json:"must,omitempty"`
	MustNot []map[string]string `json:"must_not,omitempty"`
	Should  []map[string]string `json:"should,omitempty"`
}

// FilterSet lowers the key/value clauses into typed match conditions.
// Entries are emitted in key order so the result is deterministic.
func (f *FilterConditions) FilterSet() *FilterSet {
	if f == nil {
		return nil
	}
	fs := &FilterSet{
		Must:    matchSet(f.Must),
		MustNot: matchSet(f.MustNot),
		Should:  matchSet(f.Should),
	}
	if fs.IsEmpty() {
		return nil
	}
	return fs
}

func matchSet(clauses []map[string]string) *ConditionSet {
	var conditions []FilterCondition
	for _, clause := range clauses {
		keys := make([]string, 0, len(clause))
		for k := range clause {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			conditions = append(conditions, NewMatch(k, clause[k]))
		}
	}
	if len(conditions) == 0 {
		return nil
	}
	return &ConditionSet{Conditions: conditions}
}

// FilterCondition is implemented by every typed condition.
// Each adapter converts these to its native filter format.
type FilterCondition interface {
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
//
// Example:
//
//	filters := &FilterSet{
//	    Must: &ConditionSet{
//	        Conditions: []FilterCondition{
//	            &MatchCondition{Field: "source", Value: "handbook.pdf"},
//	        },
//	    },
//	}
type FilterSet struct {
	// Must: All conditions must match (AND)
	Must *ConditionSet `json:"must,omitempty"`
	// Should: At least one condition must match (OR)
	Should *ConditionSet `json:"should,omitempty"`
	// MustNot: None of the conditions should match (NOT)
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

// IsEmpty reports whether fs has no conditions in any clause.
func (fs *FilterSet) IsEmpty() bool {
	return fs == nil || (fs.Must.Len() == 0 && fs.Should.Len() == 0 && fs.MustNot.Len() == 0)
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

func (cs *ConditionSet) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.Conditions)
}

// MergeFilterSets concatenates the clauses of all sets. Nil sets are skipped.
func MergeFilterSets(sets ...*FilterSet) *FilterSet {
	out := &FilterSet{}
	for _, fs := range sets {
		if fs == nil {
			continue
		}
		out.Must = appendConditions(out.Must, fs.Must)
		out.Should = appendConditions(out.Should, fs.Should)
		out.MustNot = appendConditions(out.MustNot, fs.MustNot)
	}
	return out
}

func appendConditions(dst, src *ConditionSet) *ConditionSet {
	if src.Len() == 0 {
		return dst
	}
	if dst == nil {
		dst = &ConditionSet{}
	}
	dst.Conditions = append(dst.Conditions, src.Conditions...)
	return dst
}

// ── Match Conditions ─────────────────────────────────────────────────────────

// MatchCondition is an exact match (field = value). Supports string, bool,
// and int64 values.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition matches if the value is one of Values (IN).
type MatchAnyCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"anyOf"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// MatchExceptCondition matches if the value is none of Values (NOT IN).
type MatchExceptCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"noneOf"`
}

func (c *MatchExceptCondition) IsFilterCondition() {}

// ── Range Conditions ─────────────────────────────────────────────────────────

// NumericRange defines bounds for numeric filtering.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"`
	Lt  *float64 `json:"lessThan,omitempty"`
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`
}

// TimeRange defines bounds for time filtering.
type TimeRange struct {
	Gt  *time.Time `json:"after,omitempty"`
	Gte *time.Time `json:"atOrAfter,omitempty"`
	Lt  *time.Time `json:"before,omitempty"`
	Lte *time.Time `json:"atOrBefore,omitempty"`
}

// NumericRangeCondition filters by numeric range.
type NumericRangeCondition struct {
	Field string       `json:"field"`
	Range NumericRange `json:"-"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}

type numericRangeJSON struct {
	Field string `json:"field"`
	NumericRange
}

func (c *NumericRangeCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(numericRangeJSON{Field: c.Field, NumericRange: c.Range})
}

func (c *NumericRangeCondition) UnmarshalJSON(data []byte) error {
	var alias numericRangeJSON
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	c.Field = alias.Field
	c.Range = alias.NumericRange
	return nil
}

// TimeRangeCondition filters by datetime range.
type TimeRangeCondition struct {
	Field string    `json:"field"`
	Range TimeRange `json:"-"`
}

func (c *TimeRangeCondition) IsFilterCondition() {}

type timeRangeJSON struct {
	Field string `json:"field"`
	TimeRange
}

func (c *TimeRangeCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeRangeJSON{Field: c.Field, TimeRange: c.Range})
}

func (c *TimeRangeCondition) UnmarshalJSON(data []byte) error {
	var alias timeRangeJSON
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	c.Field = alias.Field
	c.Range = alias.TimeRange
	return nil
}
