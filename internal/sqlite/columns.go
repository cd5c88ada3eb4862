// Column mutation path: add, rename, delete, reorder, move.
package sqlite

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// ordShift is added to every ord of a table before final values are written,
// so a total reassignment never collides with the unique (table_id, ord)
// index mid-transaction. Must exceed any plausible column count.
const ordShift = 1 << 20

// AddColumn appends a column at max(ord)+1. Name collisions are resolved by
// suffixing " 2", " 3", ... compared case-insensitively.
func (b *Backend) AddColumn(tableID, name string, colType types.ColumnType) (*types.Column, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}
	if !types.IsValidColumnType(colType) {
		return nil, types.ErrInvalidType
	}
	if _, err := b.getTable(tableID); err != nil {
		return nil, err
	}

	existing, err := b.tableColumns(tableID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[strings.ToLower(c.Name)] = true
	}
	finalName := name
	for suffix := 2; taken[strings.ToLower(finalName)]; suffix++ {
		finalName = fmt.Sprintf("%s %d", name, suffix)
	}

	var nextOrd int
	err = b.db.QueryRow(
		"SELECT COALESCE(MAX(ord) + 1, 0) FROM columns WHERE table_id = ?", tableID).Scan(&nextOrd)
	if err != nil {
		return nil, fmt.Errorf("computing column order: %w", err)
	}

	col := &types.Column{
		ColumnID: newUUID(),
		TableID:  tableID,
		Name:     finalName,
		Type:     colType,
		Order:    nextOrd,
	}
	_, err = b.db.Exec(
		"INSERT INTO columns (column_id, table_id, name, col_type, ord) VALUES (?, ?, ?, ?, ?)",
		col.ColumnID, col.TableID, col.Name, string(col.Type), col.Order)
	if err != nil {
		return nil, fmt.Errorf("inserting column: %w", err)
	}

	b.log.Debug("column added",
		zap.String("table_id", tableID),
		zap.String("column_id", col.ColumnID),
		zap.String("name", col.Name))
	return col, nil
}

// RenameColumn renames a column. Uniqueness is enforced case-insensitively
// against the other columns of the same table.
func (b *Backend) RenameColumn(columnID, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return types.ErrInvalidName
	}
	col, err := b.getColumn(columnID)
	if err != nil {
		return err
	}

	var conflict int
	err = b.db.QueryRow(
		"SELECT 1 FROM columns WHERE table_id = ? AND column_id != ? AND lower(name) = lower(?)",
		col.TableID, columnID, name).Scan(&conflict)
	if err == nil {
		return types.ErrDuplicateName
	}
	if !isNoRows(err) {
		return fmt.Errorf("checking column name: %w", err)
	}

	if _, err := b.db.Exec(
		"UPDATE columns SET name = ? WHERE column_id = ?", name, columnID); err != nil {
		return fmt.Errorf("renaming column: %w", err)
	}
	return nil
}

// DeleteColumn removes a column and cascades deletion of its cells.
func (b *Backend) DeleteColumn(columnID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return err
	}

	col, err := b.getColumn(columnID)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cells WHERE column_id = ?", columnID); err != nil {
		return fmt.Errorf("deleting column cells: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM columns WHERE column_id = ?", columnID); err != nil {
		return fmt.Errorf("deleting column: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing column deletion: %w", err)
	}

	b.log.Debug("column deleted",
		zap.String("table_id", col.TableID),
		zap.String("column_id", columnID))
	return nil
}

// ReorderColumns applies a full permutation of the table's columns. The id
// list must contain every column of the table exactly once. Orders are
// staged through a shifted range, then rewritten as dense 0..n-1, all inside
// one transaction so readers never observe duplicate ord values.
func (b *Backend) ReorderColumns(tableID string, orderedColumnIDs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return err
	}

	if _, err := b.getTable(tableID); err != nil {
		return err
	}
	existing, err := b.tableColumns(tableID)
	if err != nil {
		return err
	}
	if len(orderedColumnIDs) != len(existing) {
		return types.ErrInvalidReorder
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.ColumnID] = true
	}
	seen := make(map[string]bool, len(orderedColumnIDs))
	for _, id := range orderedColumnIDs {
		if !known[id] || seen[id] {
			return types.ErrInvalidReorder
		}
		seen[id] = true
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"UPDATE columns SET ord = ord + ? WHERE table_id = ?", ordShift, tableID); err != nil {
		return fmt.Errorf("shifting column orders: %w", err)
	}
	for i, id := range orderedColumnIDs {
		if _, err := tx.Exec(
			"UPDATE columns SET ord = ? WHERE column_id = ?", i, id); err != nil {
			return fmt.Errorf("assigning column order: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}

	b.log.Debug("columns reordered",
		zap.String("table_id", tableID),
		zap.Int("count", len(orderedColumnIDs)))
	return nil
}

// MoveColumn swaps a column with its nearest neighbor in the given
// direction. Moving past either edge is a no-op. The swap uses the same
// shift-then-reassign write as ReorderColumns.
func (b *Backend) MoveColumn(columnID string, dir types.MoveDirection) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return err
	}

	if dir != types.MoveLeft && dir != types.MoveRight {
		return types.ErrInvalidDirection
	}
	col, err := b.getColumn(columnID)
	if err != nil {
		return err
	}

	var neighborID string
	var neighborOrd int
	var query string
	if dir == types.MoveLeft {
		query = "SELECT column_id, ord FROM columns WHERE table_id = ? AND ord < ? ORDER BY ord DESC LIMIT 1"
	} else {
		query = "SELECT column_id, ord FROM columns WHERE table_id = ? AND ord > ? ORDER BY ord ASC LIMIT 1"
	}
	err = b.db.QueryRow(query, col.TableID, col.Order).Scan(&neighborID, &neighborOrd)
	if isNoRows(err) {
		return nil // already at the edge
	}
	if err != nil {
		return fmt.Errorf("finding neighbor column: %w", err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"UPDATE columns SET ord = ord + ? WHERE column_id IN (?, ?)",
		ordShift, columnID, neighborID); err != nil {
		return fmt.Errorf("shifting swapped columns: %w", err)
	}
	if _, err := tx.Exec(
		"UPDATE columns SET ord = ? WHERE column_id = ?", neighborOrd, columnID); err != nil {
		return fmt.Errorf("assigning moved column order: %w", err)
	}
	if _, err := tx.Exec(
		"UPDATE columns SET ord = ? WHERE column_id = ?", col.Order, neighborID); err != nil {
		return fmt.Errorf("assigning neighbor column order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing move: %w", err)
	}
	return nil
}
