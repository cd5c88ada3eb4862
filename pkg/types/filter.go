// Filter is the tagged union of per-column row predicates.
package types

import (
	"encoding/json"
	"math"
)

// FilterKind discriminates the filter union. It must match the referenced
// column's type for the filter to apply.
type FilterKind string

// Filter kinds.
const (
	FilterKindText   FilterKind = "text"
	FilterKindNumber FilterKind = "number"
)

// Text filter operators.
const (
	FilterOpIsEmpty     = "is_empty"
	FilterOpIsNotEmpty  = "is_not_empty"
	FilterOpContains    = "contains"
	FilterOpNotContains = "not_contains"
	FilterOpEquals      = "equals"
)

// Number filter operators. is_empty/is_not_empty/equals are shared with the
// text operator set.
const (
	FilterOpGreaterThan = "gt"
	FilterOpLessThan    = "lt"
)

// Filter is one conjunct of a view's row predicate. Value carries the raw
// JSON operand: a string for text filters, a number for number filters.
// Value is required for every operator except the two empty-checks.
type Filter struct {
	Kind     FilterKind      `json:"kind"`
	ColumnID string          `json:"columnId"`
	Op       string          `json:"op"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// TextValue decodes the operand as a string. The second return is false when
// the operand is absent or not a JSON string.
func (f Filter) TextValue() (string, bool) {
	if len(f.Value) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(f.Value, &s); err != nil {
		return "", false
	}
	return s, true
}

// NumberValue decodes the operand as a finite number. The second return is
// false when the operand is absent, not a JSON number, or not finite.
func (f Filter) NumberValue() (float64, bool) {
	if len(f.Value) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(f.Value, &n); err != nil {
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
