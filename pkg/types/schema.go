// Schema entities: workspaces, bases, tables, columns, rows, and cells.
package types

import "time"

// ColumnType identifies the value kind a column stores.
type ColumnType string

// Supported column types.
const (
	ColumnText   ColumnType = "TEXT"
	ColumnNumber ColumnType = "NUMBER"
)

// validColumnTypes is the set of recognized column types.
var validColumnTypes = map[ColumnType]bool{
	ColumnText:   true,
	ColumnNumber: true,
}

// IsValidColumnType reports whether t is a recognized column type.
func IsValidColumnType(t ColumnType) bool {
	return validColumnTypes[t]
}

// Workspace is the top-level grouping; it owns bases.
type Workspace struct {
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Base groups tables inside a workspace.
type Base struct {
	BaseID      string    `json:"baseId"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Table owns an ordered set of columns and an ordered set of rows.
// RowCount is a maintained cache, kept consistent by row mutations.
type Table struct {
	TableID   string    `json:"tableId"`
	BaseID    string    `json:"baseId"`
	Name      string    `json:"name"`
	RowCount  int64     `json:"rowCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Column is a typed, ordered field of a table. Order values are unique per
// table and consistent with the displayed sequence.
type Column struct {
	ColumnID string     `json:"columnId"`
	TableID  string     `json:"tableId"`
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Order    int        `json:"order"`
}

// Row is a stable position in a table. RowIndex is the append-order key:
// unique per table, monotonically assigned, never reused. Cells holds the
// hydrated cell values keyed by column ID; absent keys mean empty cells.
type Row struct {
	RowID    string               `json:"rowId"`
	TableID  string               `json:"tableId"`
	RowIndex int64                `json:"rowIndex"`
	Cells    map[string]CellValue `json:"cells"`
}

// CellValue is a sparse cell payload. At most one of Text and Number is
// populated, chosen by the owning column's type at write time.
type CellValue struct {
	Text   *string  `json:"text,omitempty"`
	Number *float64 `json:"number,omitempty"`
}

// IsEmpty reports whether the cell holds no value. A missing cell and a
// stored cell with both fields nil are indistinguishable to callers.
func (v CellValue) IsEmpty() bool {
	return v.Text == nil && v.Number == nil
}

// TableMeta is the metadata surface for a table: its ordered columns and the
// cached row count.
type TableMeta struct {
	Columns  []Column `json:"columns"`
	RowCount int64    `json:"rowCount"`
}

// MoveDirection selects the neighbor for single-step column moves.
type MoveDirection string

// Supported move directions.
const (
	MoveLeft  MoveDirection = "left"
	MoveRight MoveDirection = "right"
)
