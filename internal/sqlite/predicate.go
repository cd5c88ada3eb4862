// Predicate compiler: turns a view configuration into SQL conditions over
// the sparse cell storage, plus a resolved sort specification.
//
// The compiler never fails on stale configuration. Filters whose column is
// gone or whose kind no longer matches the column type are dropped, as are
// filters missing a usable operand; a sort whose column is gone is dropped,
// which switches the request to the unsorted pagination strategy. Conditions
// reference the rows table through the alias "r".
package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// compiledPredicate is the output of compilation: WHERE fragments combined
// with AND, their bind arguments, and the surviving sort (nil for unsorted).
type compiledPredicate struct {
	conditions []string
	args       []any
	sort       *resolvedSort
}

// resolvedSort is a sort whose column was verified to exist. It is resolved
// once per request and reused for both the ORDER BY and the keyset cursor so
// the strategy cannot change mid-request.
type resolvedSort struct {
	column types.Column
	desc   bool
}

// valueField returns the cell column holding values for the sort column's
// type. Cells whose other field is populated read as NULL here, which is how
// type-divergent cells degrade to empty instead of breaking the engine.
func (s *resolvedSort) valueField() string {
	if s.column.Type == types.ColumnNumber {
		return "number_value"
	}
	return "text_value"
}

// compilePredicate builds the row-selection condition for one request.
// searchOverride, when non-nil, replaces the view config's search text.
func compilePredicate(columns map[string]types.Column, cfg types.ViewConfig, searchOverride *string) compiledPredicate {
	var p compiledPredicate

	for _, f := range cfg.Filters {
		cond, args, ok := compileFilter(columns, f)
		if !ok {
			continue
		}
		p.conditions = append(p.conditions, cond)
		p.args = append(p.args, args...)
	}

	q := cfg.Q
	if searchOverride != nil {
		q = *searchOverride
	}
	if q = strings.TrimSpace(q); q != "" {
		p.conditions = append(p.conditions, searchCondition)
		p.args = append(p.args, q, q)
	}

	if cfg.Sort != nil {
		if col, ok := columns[cfg.Sort.ColumnID]; ok {
			p.sort = &resolvedSort{column: col, desc: cfg.Sort.Direction == types.SortDesc}
		}
	}

	return p
}

// searchCondition matches rows having at least one cell, in any column,
// whose text or number value case-insensitively contains the query. Numbers
// are cast to their text form.
const searchCondition = `EXISTS (SELECT 1 FROM cells c WHERE c.row_id = r.row_id AND (` +
	`(c.text_value IS NOT NULL AND instr(lower(c.text_value), lower(?)) > 0) OR ` +
	`(c.number_value IS NOT NULL AND instr(lower(CAST(c.number_value AS TEXT)), lower(?)) > 0)))`

// compileFilter translates one filter into a condition. ok is false when the
// filter must be dropped: unknown column, kind/type mismatch, unknown
// operator, or missing/unusable operand.
func compileFilter(columns map[string]types.Column, f types.Filter) (string, []any, bool) {
	col, ok := columns[f.ColumnID]
	if !ok {
		return "", nil, false
	}

	switch f.Kind {
	case types.FilterKindText:
		if col.Type != types.ColumnText {
			return "", nil, false
		}
		return compileTextFilter(f)
	case types.FilterKindNumber:
		if col.Type != types.ColumnNumber {
			return "", nil, false
		}
		return compileNumberFilter(f)
	default:
		return "", nil, false
	}
}

// Empty-check conditions. A cell row may exist with a NULL value field, so
// emptiness is "no cell with a non-null type-appropriate value".
func emptyCondition(valueField string, negate bool) string {
	op := "NOT EXISTS"
	if negate {
		op = "EXISTS"
	}
	return fmt.Sprintf(
		"%s (SELECT 1 FROM cells c WHERE c.row_id = r.row_id AND c.column_id = ? AND c.%s IS NOT NULL)",
		op, valueField)
}

func compileTextFilter(f types.Filter) (string, []any, bool) {
	switch f.Op {
	case types.FilterOpIsEmpty:
		return emptyCondition("text_value", false), []any{f.ColumnID}, true
	case types.FilterOpIsNotEmpty:
		return emptyCondition("text_value", true), []any{f.ColumnID}, true
	case types.FilterOpContains, types.FilterOpNotContains:
		val, ok := f.TextValue()
		if !ok {
			return "", nil, false
		}
		// An empty needle would match everything (or nothing); treat the
		// filter as a no-op instead.
		if strings.TrimSpace(val) == "" {
			return "", nil, false
		}
		cond := `EXISTS (SELECT 1 FROM cells c WHERE c.row_id = r.row_id AND c.column_id = ? ` +
			`AND c.text_value IS NOT NULL AND instr(lower(c.text_value), lower(?)) > 0)`
		if f.Op == types.FilterOpNotContains {
			// Rows with an empty cell match not_contains.
			cond = "NOT " + cond
		}
		return cond, []any{f.ColumnID, val}, true
	case types.FilterOpEquals:
		val, ok := f.TextValue()
		if !ok {
			return "", nil, false
		}
		cond := `EXISTS (SELECT 1 FROM cells c WHERE c.row_id = r.row_id AND c.column_id = ? ` +
			`AND c.text_value IS NOT NULL AND lower(c.text_value) = lower(?))`
		return cond, []any{f.ColumnID, val}, true
	default:
		return "", nil, false
	}
}

func compileNumberFilter(f types.Filter) (string, []any, bool) {
	switch f.Op {
	case types.FilterOpIsEmpty:
		return emptyCondition("number_value", false), []any{f.ColumnID}, true
	case types.FilterOpIsNotEmpty:
		return emptyCondition("number_value", true), []any{f.ColumnID}, true
	case types.FilterOpGreaterThan, types.FilterOpLessThan, types.FilterOpEquals:
		val, ok := f.NumberValue()
		if !ok {
			return "", nil, false
		}
		cmp := map[string]string{
			types.FilterOpGreaterThan: ">",
			types.FilterOpLessThan:    "<",
			types.FilterOpEquals:      "=",
		}[f.Op]
		cond := fmt.Sprintf(
			`EXISTS (SELECT 1 FROM cells c WHERE c.row_id = r.row_id AND c.column_id = ? `+
				`AND c.number_value IS NOT NULL AND c.number_value %s ?)`, cmp)
		return cond, []any{f.ColumnID, val}, true
	default:
		return "", nil, false
	}
}
