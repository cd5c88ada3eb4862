// Pagination engine. Serves one bounded page of rows matching the compiled
// predicate under one of two keyset strategies, selected fresh per request:
//
//   - UNSORTED: keyset on the append-order row_index. The cursor holds the
//     first row index of the next page and the condition is row_index >=
//     cursor.
//   - SORTED: keyset on the (null_rank, sort value, row_index) triple,
//     reproducing ORDER BY null_rank ASC, sort_value ASC|DESC, row_index ASC
//     one page at a time. Nulls sort last in both directions.
//
// Cursors are mode-tagged; a cursor replayed after the view's sort changed
// is discarded and the request restarts from the first page. The query runs
// in two phases: a cheap ordered id scan, then payload hydration by id with
// the phase-one order re-applied.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// pageKey is the resume point carried by the last row of a phase-one page.
type pageKey struct {
	rowID    string
	rowIndex int64
	nullRank int
	textVal  *string
	numVal   *float64
}

// QueryRows serves one page of rows under the effective view configuration.
func (b *Backend) QueryRows(tableID string, req types.QueryRequest) (*types.RowPage, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}
	start := time.Now()

	if _, err := b.getTable(tableID); err != nil {
		return nil, err
	}

	columnList, err := b.tableColumns(tableID)
	if err != nil {
		return nil, err
	}
	columns := make(map[string]types.Column, len(columnList))
	for _, c := range columnList {
		columns[c.ColumnID] = c
	}

	cfg := types.ViewConfig{}
	if req.ViewID != "" {
		view, err := b.getView(req.ViewID)
		if err != nil {
			return nil, err
		}
		if view.TableID != tableID {
			return nil, types.ErrNotFound
		}
		cfg = view.Config
	}
	cfg.Normalize()

	pred := compilePredicate(columns, cfg, req.SearchOverride)
	limit := types.ClampLimit(req.Limit)
	cursor, err := b.resolveCursor(req.Cursor, pred.sort)
	if err != nil {
		return nil, err
	}

	var keys []pageKey
	if pred.sort == nil {
		keys, err = b.scanUnsorted(tableID, pred, cursor, limit)
	} else {
		keys, err = b.scanSorted(tableID, pred, cursor, limit)
	}
	if err != nil {
		return nil, err
	}

	rows, err := b.hydrateRows(keys, columns)
	if err != nil {
		return nil, err
	}

	page := &types.RowPage{Rows: rows}
	// A full page means there may be more; a short page is exhausted.
	if len(keys) == limit {
		next := buildNextCursor(keys[len(keys)-1], pred.sort)
		token := next.Encode()
		page.NextCursor = &token
	}

	b.log.Debug("rows queried",
		zap.String("table_id", tableID),
		zap.Bool("sorted", pred.sort != nil),
		zap.Int("limit", limit),
		zap.Int("returned", len(rows)),
		zap.Duration("elapsed", time.Since(start)))
	return page, nil
}

// resolveCursor decodes and validates the request cursor against the mode
// derived for this request. A cursor issued under the other mode, or a
// sorted cursor missing the value field the sort column needs, resets the
// request to the first page. Undecodable tokens are a caller error.
func (b *Backend) resolveCursor(token string, sort *resolvedSort) (*types.Cursor, error) {
	if token == "" {
		return nil, nil
	}
	cur, err := types.DecodeCursor(token)
	if err != nil {
		return nil, err
	}

	if sort == nil {
		if cur.Mode != types.CursorUnsorted {
			return nil, nil
		}
		return cur, nil
	}

	if cur.Mode != types.CursorSorted {
		return nil, nil
	}
	if cur.NullRank == 0 {
		if sort.column.Type == types.ColumnNumber && cur.NumberValue == nil {
			return nil, nil
		}
		if sort.column.Type == types.ColumnText && cur.TextValue == nil {
			return nil, nil
		}
	}
	return cur, nil
}

// scanUnsorted runs phase one of the UNSORTED strategy: matching row ids in
// ascending row_index order, resuming at the cursor's row index.
func (b *Backend) scanUnsorted(tableID string, pred compiledPredicate, cursor *types.Cursor, limit int) ([]pageKey, error) {
	var sb strings.Builder
	sb.WriteString("SELECT r.row_id, r.row_index FROM rows r WHERE r.table_id = ?")
	args := []any{tableID}

	if cursor != nil {
		sb.WriteString(" AND r.row_index >= ?")
		args = append(args, cursor.RowIndex)
	}
	for _, cond := range pred.conditions {
		sb.WriteString(" AND ")
		sb.WriteString(cond)
	}
	args = append(args, pred.args...)

	sb.WriteString(" ORDER BY r.row_index ASC LIMIT ?")
	args = append(args, limit)

	rows, err := b.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("scanning rows: %w", err)
	}
	defer rows.Close()

	var keys []pageKey
	for rows.Next() {
		var k pageKey
		if err := rows.Scan(&k.rowID, &k.rowIndex); err != nil {
			return nil, fmt.Errorf("scanning row key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// scanSorted runs phase one of the SORTED strategy. The sort column's cells
// are LEFT JOINed so rows without a value participate with null_rank 1 and
// sort after every valued row regardless of direction; row_index ascending
// breaks ties deterministically.
func (b *Backend) scanSorted(tableID string, pred compiledPredicate, cursor *types.Cursor, limit int) ([]pageKey, error) {
	sort := pred.sort
	vf := sort.valueField()

	var sb strings.Builder
	fmt.Fprintf(&sb,
		"SELECT r.row_id, r.row_index, CASE WHEN sc.%s IS NULL THEN 1 ELSE 0 END AS null_rank, sc.%s AS sort_value "+
			"FROM rows r LEFT JOIN cells sc ON sc.row_id = r.row_id AND sc.column_id = ? "+
			"WHERE r.table_id = ?", vf, vf)
	args := []any{sort.column.ColumnID, tableID}

	if cursor != nil {
		if cursor.NullRank == 1 {
			// Resuming inside the null tail: only row_index advances.
			fmt.Fprintf(&sb, " AND sc.%s IS NULL AND r.row_index > ?", vf)
			args = append(args, cursor.RowIndex)
		} else {
			cmp := ">"
			if sort.desc {
				cmp = "<"
			}
			val := cursorSortValue(cursor, sort)
			fmt.Fprintf(&sb,
				" AND (sc.%s IS NULL OR sc.%s %s ? OR (sc.%s = ? AND r.row_index > ?))",
				vf, vf, cmp, vf)
			args = append(args, val, val, cursor.RowIndex)
		}
	}
	for _, cond := range pred.conditions {
		sb.WriteString(" AND ")
		sb.WriteString(cond)
	}
	args = append(args, pred.args...)

	dir := "ASC"
	if sort.desc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY null_rank ASC, sort_value %s, r.row_index ASC LIMIT ?", dir)
	args = append(args, limit)

	rows, err := b.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("scanning sorted rows: %w", err)
	}
	defer rows.Close()

	var keys []pageKey
	for rows.Next() {
		var k pageKey
		if sort.column.Type == types.ColumnNumber {
			var v sql.NullFloat64
			if err := rows.Scan(&k.rowID, &k.rowIndex, &k.nullRank, &v); err != nil {
				return nil, fmt.Errorf("scanning sorted row key: %w", err)
			}
			if v.Valid {
				k.numVal = &v.Float64
			}
		} else {
			var v sql.NullString
			if err := rows.Scan(&k.rowID, &k.rowIndex, &k.nullRank, &v); err != nil {
				return nil, fmt.Errorf("scanning sorted row key: %w", err)
			}
			if v.Valid {
				k.textVal = &v.String
			}
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// cursorSortValue extracts the typed keyset operand from a sorted cursor.
// resolveCursor already guaranteed the matching field is present.
func cursorSortValue(cursor *types.Cursor, sort *resolvedSort) any {
	if sort.column.Type == types.ColumnNumber {
		return *cursor.NumberValue
	}
	return *cursor.TextValue
}

// buildNextCursor derives the resume token from the last row of a full page.
func buildNextCursor(last pageKey, sort *resolvedSort) types.Cursor {
	if sort == nil {
		return types.Cursor{Mode: types.CursorUnsorted, RowIndex: last.rowIndex + 1}
	}
	return types.Cursor{
		Mode:        types.CursorSorted,
		RowIndex:    last.rowIndex,
		NullRank:    last.nullRank,
		TextValue:   last.textVal,
		NumberValue: last.numVal,
	}
}

// hydrateRows is phase two: fetch full row and cell payloads for the ordered
// id set and re-apply the phase-one order, since fetch-by-id does not
// preserve it. Cells divergent from their column's current type read as
// empty and are omitted, like missing cells.
func (b *Backend) hydrateRows(keys []pageKey, columns map[string]types.Column) ([]*types.Row, error) {
	if len(keys) == 0 {
		return []*types.Row{}, nil
	}

	ids := make([]any, len(keys))
	byID := make(map[string]*types.Row, len(keys))
	for i, k := range keys {
		ids[i] = k.rowID
	}
	marks := placeholders(len(ids))

	rowRows, err := b.db.Query(
		"SELECT row_id, table_id, row_index FROM rows WHERE row_id IN ("+marks+")", ids...)
	if err != nil {
		return nil, fmt.Errorf("hydrating rows: %w", err)
	}
	defer rowRows.Close()
	for rowRows.Next() {
		var row types.Row
		if err := rowRows.Scan(&row.RowID, &row.TableID, &row.RowIndex); err != nil {
			return nil, fmt.Errorf("scanning hydrated row: %w", err)
		}
		row.Cells = make(map[string]types.CellValue)
		byID[row.RowID] = &row
	}
	if err := rowRows.Err(); err != nil {
		return nil, err
	}

	cellRows, err := b.db.Query(
		"SELECT row_id, column_id, text_value, number_value FROM cells WHERE row_id IN ("+marks+")", ids...)
	if err != nil {
		return nil, fmt.Errorf("hydrating cells: %w", err)
	}
	defer cellRows.Close()
	for cellRows.Next() {
		var rowID, columnID string
		var text sql.NullString
		var number sql.NullFloat64
		if err := cellRows.Scan(&rowID, &columnID, &text, &number); err != nil {
			return nil, fmt.Errorf("scanning hydrated cell: %w", err)
		}
		row, ok := byID[rowID]
		if !ok {
			continue
		}
		col, ok := columns[columnID]
		if !ok {
			continue
		}

		var val types.CellValue
		switch col.Type {
		case types.ColumnNumber:
			if number.Valid {
				val.Number = &number.Float64
			}
		default:
			if text.Valid {
				val.Text = &text.String
			}
		}
		if val.IsEmpty() {
			continue
		}
		row.Cells[columnID] = val
	}
	if err := cellRows.Err(); err != nil {
		return nil, err
	}

	ordered := make([]*types.Row, 0, len(keys))
	for _, k := range keys {
		if row, ok := byID[k.rowID]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

// placeholders returns n comma-separated "?" marks for an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
