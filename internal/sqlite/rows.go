// Row mutation path: bulk row insertion and cell writes.
package sqlite

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// insertBatchSize bounds how many rows a single transaction appends, so very
// large AddRows calls never hold one long-running transaction.
const insertBatchSize = 5000

// AddRows appends count blank rows to the table and returns the new total
// row count. Rows are inserted in batches; each batch reads max(row_index)
// inside its own transaction, so indices stay monotone and non-colliding
// under concurrent inserts. No cells are created.
func (b *Backend) AddRows(tableID string, count int) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return 0, err
	}

	if count <= 0 {
		return 0, types.ErrInvalidCount
	}
	if _, err := b.getTable(tableID); err != nil {
		return 0, err
	}

	remaining := count
	for remaining > 0 {
		batch := remaining
		if batch > insertBatchSize {
			batch = insertBatchSize
		}
		if err := b.insertRowBatch(tableID, batch); err != nil {
			return 0, err
		}
		remaining -= batch
	}

	var total int64
	if err := b.db.QueryRow(
		"SELECT row_count FROM tables WHERE table_id = ?", tableID).Scan(&total); err != nil {
		return 0, fmt.Errorf("reading row count: %w", err)
	}

	b.log.Debug("rows added",
		zap.String("table_id", tableID),
		zap.Int("count", count),
		zap.Int64("total", total))
	return total, nil
}

// insertRowBatch appends one batch of blank rows in a single transaction,
// continuing from max(row_index)+1 and keeping the row-count cache in step.
func (b *Backend) insertRowBatch(tableID string, batch int) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRow(
		"SELECT COALESCE(MAX(row_index) + 1, 0) FROM rows WHERE table_id = ?",
		tableID).Scan(&next); err != nil {
		return fmt.Errorf("computing next row index: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO rows (row_id, table_id, row_index) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing row insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < batch; i++ {
		if _, err := stmt.Exec(newUUID(), tableID, next+int64(i)); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
	}

	if _, err := tx.Exec(
		"UPDATE tables SET row_count = row_count + ? WHERE table_id = ?",
		batch, tableID); err != nil {
		return fmt.Errorf("updating row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing row batch: %w", err)
	}
	return nil
}

// SetCellValue writes a cell from its raw string form. The value is trimmed;
// an empty result clears both value fields. For NUMBER columns the value
// must parse as a finite number, otherwise ErrInvalidNumber. The cell is
// upserted on its (row_id, column_id) key.
func (b *Backend) SetCellValue(rowID, columnID, raw string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return err
	}

	col, err := b.getColumn(columnID)
	if err != nil {
		return err
	}
	var rowTableID string
	err = b.db.QueryRow("SELECT table_id FROM rows WHERE row_id = ?", rowID).Scan(&rowTableID)
	if isNoRows(err) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("scanning row: %w", err)
	}
	if rowTableID != col.TableID {
		return types.ErrNotFound
	}

	trimmed := strings.TrimSpace(raw)

	var textValue *string
	var numberValue *float64
	if trimmed != "" {
		switch col.Type {
		case types.ColumnNumber:
			n, err := strconv.ParseFloat(trimmed, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return types.ErrInvalidNumber
			}
			numberValue = &n
		default:
			textValue = &trimmed
		}
	}

	_, err = b.db.Exec(`
		INSERT INTO cells (row_id, column_id, text_value, number_value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(row_id, column_id) DO UPDATE SET
			text_value = excluded.text_value,
			number_value = excluded.number_value`,
		rowID, columnID, textValue, numberValue)
	if err != nil {
		return fmt.Errorf("upserting cell: %w", err)
	}
	return nil
}
