package types

import "errors"

// Store defines the backend-agnostic interface to Gridbase storage. Callers
// attach to a backend, operate on tables through it, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// CreateWorkspace creates a named workspace.
	CreateWorkspace(name string) (*Workspace, error)

	// ListWorkspaces returns all workspaces ordered by creation time.
	ListWorkspaces() ([]*Workspace, error)

	// CreateBase creates a named base inside a workspace.
	CreateBase(workspaceID, name string) (*Base, error)

	// ListBases returns the bases of a workspace ordered by creation time.
	ListBases(workspaceID string) ([]*Base, error)

	// CreateTable creates a table in a base, seeded with default columns,
	// a handful of blank rows, and a default grid view.
	CreateTable(baseID, name string) (*Table, error)

	// ListTables returns the tables of a base ordered by creation time.
	ListTables(baseID string) ([]*Table, error)

	// GetTableMeta returns the table's columns in display order and its
	// cached row count.
	GetTableMeta(tableID string) (*TableMeta, error)

	// QueryRows serves one page of rows under the effective view
	// configuration. The returned cursor is opaque to callers.
	QueryRows(tableID string, req QueryRequest) (*RowPage, error)

	// GetView returns a view with its config read-validated and defaulted.
	GetView(viewID string) (*View, error)

	// ListViews returns the views of a table ordered by name.
	ListViews(tableID string) ([]*View, error)

	// CreateView creates a named view with an empty configuration.
	CreateView(tableID, name string) (*View, error)

	// RenameView renames a view. Returns ErrDuplicateName on collision.
	RenameView(viewID, name string) error

	// DeleteView removes a view. Deleting a table's last view is rejected
	// with ErrLastView.
	DeleteView(viewID string) error

	// UpdateViewConfig applies a shallow patch over the stored config and
	// returns the resulting normalized configuration.
	UpdateViewConfig(viewID string, patch ViewConfigPatch) (*ViewConfig, error)

	// AddColumn appends a column, de-duplicating the name case-insensitively
	// by numeric suffix.
	AddColumn(tableID, name string, colType ColumnType) (*Column, error)

	// DeleteColumn removes a column and cascades deletion of its cells.
	DeleteColumn(columnID string) error

	// RenameColumn renames a column. Name uniqueness is enforced
	// case-insensitively; collisions return ErrDuplicateName.
	RenameColumn(columnID, name string) error

	// ReorderColumns applies a full permutation of the table's columns.
	// The id list must contain every column exactly once.
	ReorderColumns(tableID string, orderedColumnIDs []string) error

	// MoveColumn swaps a column with its left or right neighbor. Moving past
	// either edge is a no-op.
	MoveColumn(columnID string, dir MoveDirection) error

	// SetCellValue writes a cell from its raw string form. The value is
	// trimmed; an empty result clears the cell. NUMBER columns require a
	// finite numeric value.
	SetCellValue(rowID, columnID, raw string) error

	// AddRows appends count blank rows and returns the new total row count.
	AddRows(tableID string, count int) (int64, error)
}

// QueryRequest carries the per-request inputs to QueryRows. A zero ViewID
// queries the bare table. SearchOverride, when non-nil, takes precedence
// over the view config's search text; an empty override disables search.
type QueryRequest struct {
	ViewID         string
	Cursor         string
	Limit          int
	SearchOverride *string
}

// RowPage is one page of matching rows. NextCursor is nil when the result
// set is exhausted.
type RowPage struct {
	Rows       []*Row  `json:"rows"`
	NextCursor *string `json:"nextCursor"`
}

// Page size bounds applied to QueryRequest.Limit.
const (
	MinPageSize     = 10
	MaxPageSize     = 500
	DefaultPageSize = 50
)

// ClampLimit bounds a caller-supplied limit to the configured page range.
// Non-positive limits take the default.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit < MinPageSize {
		return MinPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Operation errors.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidID        = errors.New("invalid entity ID")
	ErrInvalidName      = errors.New("invalid name")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrInvalidType      = errors.New("invalid column type")
	ErrInvalidNumber    = errors.New("invalid numeric value")
	ErrInvalidCount     = errors.New("row count must be positive")
	ErrInvalidReorder   = errors.New("reorder must be a permutation of all columns")
	ErrInvalidDirection = errors.New("invalid move direction")
	ErrInvalidCursor    = errors.New("invalid pagination cursor")
	ErrLastView         = errors.New("cannot delete the last view of a table")
)
