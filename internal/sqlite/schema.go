// Package sqlite implements the SQLite storage backend for Gridbase.
package sqlite

// Schema DDL. Column order uses "ord" because ORDER is a reserved word.
// cells is sparse: a row exists only when a value has been set for that
// (row, column) pair, and at most one of text_value/number_value is non-null.
const (
	createWorkspaces = `CREATE TABLE IF NOT EXISTS workspaces (
    workspace_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createBases = `CREATE TABLE IF NOT EXISTS bases (
    base_id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (workspace_id) REFERENCES workspaces(workspace_id)
);`

	createTables = `CREATE TABLE IF NOT EXISTS tables (
    table_id TEXT PRIMARY KEY,
    base_id TEXT NOT NULL,
    name TEXT NOT NULL,
    row_count INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    FOREIGN KEY (base_id) REFERENCES bases(base_id)
);`

	createColumns = `CREATE TABLE IF NOT EXISTS columns (
    column_id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    name TEXT NOT NULL,
    col_type TEXT NOT NULL,
    ord INTEGER NOT NULL,
    FOREIGN KEY (table_id) REFERENCES tables(table_id)
);`

	createRows = `CREATE TABLE IF NOT EXISTS rows (
    row_id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    row_index INTEGER NOT NULL,
    FOREIGN KEY (table_id) REFERENCES tables(table_id)
);`

	createCells = `CREATE TABLE IF NOT EXISTS cells (
    row_id TEXT NOT NULL,
    column_id TEXT NOT NULL,
    text_value TEXT,
    number_value REAL,
    PRIMARY KEY (row_id, column_id),
    FOREIGN KEY (row_id) REFERENCES rows(row_id),
    FOREIGN KEY (column_id) REFERENCES columns(column_id)
);`

	createViews = `CREATE TABLE IF NOT EXISTS views (
    view_id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    name TEXT NOT NULL,
    view_type TEXT NOT NULL,
    config TEXT NOT NULL,
    FOREIGN KEY (table_id) REFERENCES tables(table_id)
);`
)

// Index DDL. The unique indexes on (table_id, ord) and (table_id, row_index)
// back the reorder and append invariants; reorder must stage through a
// shifted range to avoid mid-transaction collisions on the former.
const (
	idxColumnsTableOrd  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_columns_table_ord ON columns(table_id, ord);`
	idxRowsTableIndex   = `CREATE UNIQUE INDEX IF NOT EXISTS idx_rows_table_index ON rows(table_id, row_index);`
	idxColumnsTable     = `CREATE INDEX IF NOT EXISTS idx_columns_table ON columns(table_id);`
	idxCellsColumn      = `CREATE INDEX IF NOT EXISTS idx_cells_column ON cells(column_id);`
	idxViewsTable       = `CREATE INDEX IF NOT EXISTS idx_views_table ON views(table_id);`
	idxBasesWorkspace   = `CREATE INDEX IF NOT EXISTS idx_bases_workspace ON bases(workspace_id);`
	idxTablesBase       = `CREATE INDEX IF NOT EXISTS idx_tables_base ON tables(base_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createWorkspaces,
	createBases,
	createTables,
	createColumns,
	createRows,
	createCells,
	createViews,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxColumnsTableOrd,
	idxRowsTableIndex,
	idxColumnsTable,
	idxCellsColumn,
	idxViewsTable,
	idxBasesWorkspace,
	idxTablesBase,
}
