// Workspace, base, and table accessors, plus the ownership-chain resolvers
// used by every operation boundary.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// Defaults seeded into a freshly created table.
const (
	seedRowCount    = 3
	defaultViewName = "Grid view"
)

// seedColumns are the columns every new table starts with.
var seedColumns = []struct {
	name    string
	colType types.ColumnType
}{
	{"Name", types.ColumnText},
	{"Notes", types.ColumnText},
}

// CreateWorkspace creates a named workspace.
func (b *Backend) CreateWorkspace(name string) (*types.Workspace, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}

	ws := &types.Workspace{WorkspaceID: newUUID(), Name: name}
	createdAt := nowRFC3339()
	_, err := b.db.Exec(
		"INSERT INTO workspaces (workspace_id, name, created_at) VALUES (?, ?, ?)",
		ws.WorkspaceID, ws.Name, createdAt)
	if err != nil {
		return nil, fmt.Errorf("inserting workspace: %w", err)
	}
	ws.CreatedAt = parseRFC3339(createdAt)
	return ws, nil
}

// ListWorkspaces returns all workspaces ordered by creation time.
func (b *Backend) ListWorkspaces() ([]*types.Workspace, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT workspace_id, name, created_at FROM workspaces ORDER BY created_at, workspace_id")
	if err != nil {
		return nil, fmt.Errorf("fetching workspaces: %w", err)
	}
	defer rows.Close()

	results := []*types.Workspace{}
	for rows.Next() {
		var ws types.Workspace
		var createdAt string
		if err := rows.Scan(&ws.WorkspaceID, &ws.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		ws.CreatedAt = parseRFC3339(createdAt)
		results = append(results, &ws)
	}
	return results, rows.Err()
}

// CreateBase creates a named base inside a workspace.
func (b *Backend) CreateBase(workspaceID, name string) (*types.Base, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}

	var exists int
	err := b.db.QueryRow(
		"SELECT 1 FROM workspaces WHERE workspace_id = ?", workspaceID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking workspace: %w", err)
	}

	base := &types.Base{BaseID: newUUID(), WorkspaceID: workspaceID, Name: name}
	createdAt := nowRFC3339()
	_, err = b.db.Exec(
		"INSERT INTO bases (base_id, workspace_id, name, created_at) VALUES (?, ?, ?, ?)",
		base.BaseID, base.WorkspaceID, base.Name, createdAt)
	if err != nil {
		return nil, fmt.Errorf("inserting base: %w", err)
	}
	base.CreatedAt = parseRFC3339(createdAt)
	return base, nil
}

// ListBases returns the bases of a workspace ordered by creation time.
func (b *Backend) ListBases(workspaceID string) ([]*types.Base, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT base_id, workspace_id, name, created_at FROM bases WHERE workspace_id = ? ORDER BY created_at, base_id",
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("fetching bases: %w", err)
	}
	defer rows.Close()

	results := []*types.Base{}
	for rows.Next() {
		var base types.Base
		var createdAt string
		if err := rows.Scan(&base.BaseID, &base.WorkspaceID, &base.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning base: %w", err)
		}
		base.CreatedAt = parseRFC3339(createdAt)
		results = append(results, &base)
	}
	return results, rows.Err()
}

// CreateTable creates a table in a base and seeds it with the default
// columns, blank rows, and the default grid view. The seed runs in one
// transaction so a table never exists without its view.
func (b *Backend) CreateTable(baseID, name string) (*types.Table, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM bases WHERE base_id = ?", baseID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking base: %w", err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	table := &types.Table{TableID: newUUID(), BaseID: baseID, Name: name, RowCount: seedRowCount}
	createdAt := nowRFC3339()
	_, err = tx.Exec(
		"INSERT INTO tables (table_id, base_id, name, row_count, created_at) VALUES (?, ?, ?, ?, ?)",
		table.TableID, table.BaseID, table.Name, table.RowCount, createdAt)
	if err != nil {
		return nil, fmt.Errorf("inserting table: %w", err)
	}

	for i, sc := range seedColumns {
		_, err = tx.Exec(
			"INSERT INTO columns (column_id, table_id, name, col_type, ord) VALUES (?, ?, ?, ?, ?)",
			newUUID(), table.TableID, sc.name, string(sc.colType), i)
		if err != nil {
			return nil, fmt.Errorf("seeding column %s: %w", sc.name, err)
		}
	}

	// Blank rows only; cells stay sparse until a value is set.
	for i := 0; i < seedRowCount; i++ {
		_, err = tx.Exec(
			"INSERT INTO rows (row_id, table_id, row_index) VALUES (?, ?, ?)",
			newUUID(), table.TableID, i)
		if err != nil {
			return nil, fmt.Errorf("seeding row: %w", err)
		}
	}

	emptyConfig, err := marshalConfig(types.ViewConfig{})
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(
		"INSERT INTO views (view_id, table_id, name, view_type, config) VALUES (?, ?, ?, ?, ?)",
		newUUID(), table.TableID, defaultViewName, types.ViewTypeGrid, emptyConfig)
	if err != nil {
		return nil, fmt.Errorf("seeding default view: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing table: %w", err)
	}

	table.CreatedAt = parseRFC3339(createdAt)
	b.log.Debug("table created",
		zap.String("table_id", table.TableID),
		zap.String("name", table.Name))
	return table, nil
}

// ListTables returns the tables of a base ordered by creation time.
func (b *Backend) ListTables(baseID string) ([]*types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT table_id, base_id, name, row_count, created_at FROM tables WHERE base_id = ? ORDER BY created_at, table_id",
		baseID)
	if err != nil {
		return nil, fmt.Errorf("fetching tables: %w", err)
	}
	defer rows.Close()

	results := []*types.Table{}
	for rows.Next() {
		var t types.Table
		var createdAt string
		if err := rows.Scan(&t.TableID, &t.BaseID, &t.Name, &t.RowCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		t.CreatedAt = parseRFC3339(createdAt)
		results = append(results, &t)
	}
	return results, rows.Err()
}

// GetTableMeta returns the table's columns in display order and the cached
// row count.
func (b *Backend) GetTableMeta(tableID string) (*types.TableMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	table, err := b.getTable(tableID)
	if err != nil {
		return nil, err
	}
	columns, err := b.tableColumns(tableID)
	if err != nil {
		return nil, err
	}
	return &types.TableMeta{Columns: columns, RowCount: table.RowCount}, nil
}

// getTable resolves a table by ID. The caller must hold b.mu.
func (b *Backend) getTable(tableID string) (*types.Table, error) {
	if tableID == "" {
		return nil, types.ErrInvalidID
	}
	var t types.Table
	var createdAt string
	err := b.db.QueryRow(
		"SELECT table_id, base_id, name, row_count, created_at FROM tables WHERE table_id = ?",
		tableID).Scan(&t.TableID, &t.BaseID, &t.Name, &t.RowCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning table: %w", err)
	}
	t.CreatedAt = parseRFC3339(createdAt)
	return &t, nil
}

// getColumn resolves a column by ID. The caller must hold b.mu.
func (b *Backend) getColumn(columnID string) (*types.Column, error) {
	if columnID == "" {
		return nil, types.ErrInvalidID
	}
	var c types.Column
	var colType string
	err := b.db.QueryRow(
		"SELECT column_id, table_id, name, col_type, ord FROM columns WHERE column_id = ?",
		columnID).Scan(&c.ColumnID, &c.TableID, &c.Name, &colType, &c.Order)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning column: %w", err)
	}
	c.Type = types.ColumnType(colType)
	return &c, nil
}

// tableColumns returns the columns of a table in display order.
// The caller must hold b.mu.
func (b *Backend) tableColumns(tableID string) ([]types.Column, error) {
	rows, err := b.db.Query(
		"SELECT column_id, table_id, name, col_type, ord FROM columns WHERE table_id = ? ORDER BY ord",
		tableID)
	if err != nil {
		return nil, fmt.Errorf("fetching columns: %w", err)
	}
	defer rows.Close()

	columns := []types.Column{}
	for rows.Next() {
		var c types.Column
		var colType string
		if err := rows.Scan(&c.ColumnID, &c.TableID, &c.Name, &colType, &c.Order); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		c.Type = types.ColumnType(colType)
		columns = append(columns, c)
	}
	return columns, rows.Err()
}
