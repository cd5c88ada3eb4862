package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// setupBackend creates an attached backend over a temp directory and detaches
// it on test cleanup.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

// setupTable creates the workspace/base/table chain and returns the table.
func setupTable(t *testing.T, b *Backend) *types.Table {
	t.Helper()
	ws, err := b.CreateWorkspace("test workspace")
	require.NoError(t, err)
	base, err := b.CreateBase(ws.WorkspaceID, "test base")
	require.NoError(t, err)
	table, err := b.CreateTable(base.BaseID, "test table")
	require.NoError(t, err)
	return table
}

// tableRows returns every row of the table in row_index order by walking the
// unsorted pagination until exhaustion.
func tableRows(t *testing.T, b *Backend, tableID string) []*types.Row {
	t.Helper()
	var all []*types.Row
	req := types.QueryRequest{Limit: types.MaxPageSize}
	for {
		page, err := b.QueryRows(tableID, req)
		require.NoError(t, err)
		all = append(all, page.Rows...)
		if page.NextCursor == nil {
			return all
		}
		req.Cursor = *page.NextCursor
	}
}

// columnByName finds a table column by name.
func columnByName(t *testing.T, b *Backend, tableID, name string) types.Column {
	t.Helper()
	meta, err := b.GetTableMeta(tableID)
	require.NoError(t, err)
	for _, c := range meta.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not found", name)
	return types.Column{}
}

func TestAttachDetachLifecycle(t *testing.T) {
	t.Run("attach twice fails", func(t *testing.T) {
		b := setupBackend(t)
		err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		b := setupBackend(t)
		require.NoError(t, b.Detach())
		require.NoError(t, b.Detach())
	})

	t.Run("operations after detach fail", func(t *testing.T) {
		b := setupBackend(t)
		require.NoError(t, b.Detach())

		_, err := b.CreateWorkspace("ws")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.ListWorkspaces()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.QueryRows("some-table", types.QueryRequest{})
		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		b := NewBackend()
		err := b.Attach(types.Config{Backend: "", DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrBackendEmpty)

		err = b.Attach(types.Config{Backend: "mysql", DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})

	t.Run("reattach after detach works", func(t *testing.T) {
		dir := t.TempDir()
		b := NewBackend()
		require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
		ws, err := b.CreateWorkspace("persisted")
		require.NoError(t, err)
		require.NoError(t, b.Detach())

		require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
		defer b.Detach()

		workspaces, err := b.ListWorkspaces()
		require.NoError(t, err)
		require.Len(t, workspaces, 1)
		assert.Equal(t, ws.WorkspaceID, workspaces[0].WorkspaceID)
	})
}

func TestWorkspacesAndBases(t *testing.T) {
	b := setupBackend(t)

	t.Run("create and list workspaces", func(t *testing.T) {
		ws1, err := b.CreateWorkspace("alpha")
		require.NoError(t, err)
		assert.NotEmpty(t, ws1.WorkspaceID)
		assert.Equal(t, "alpha", ws1.Name)
		assert.False(t, ws1.CreatedAt.IsZero())

		_, err = b.CreateWorkspace("beta")
		require.NoError(t, err)

		workspaces, err := b.ListWorkspaces()
		require.NoError(t, err)
		names := make([]string, 0, len(workspaces))
		for _, ws := range workspaces {
			names = append(names, ws.Name)
		}
		assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
	})

	t.Run("blank workspace name rejected", func(t *testing.T) {
		_, err := b.CreateWorkspace("   ")
		assert.ErrorIs(t, err, types.ErrInvalidName)
	})

	t.Run("base requires existing workspace", func(t *testing.T) {
		_, err := b.CreateBase("no-such-workspace", "orphan")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("create and list bases", func(t *testing.T) {
		ws, err := b.CreateWorkspace("with bases")
		require.NoError(t, err)

		base, err := b.CreateBase(ws.WorkspaceID, "main")
		require.NoError(t, err)
		assert.Equal(t, ws.WorkspaceID, base.WorkspaceID)

		bases, err := b.ListBases(ws.WorkspaceID)
		require.NoError(t, err)
		require.Len(t, bases, 1)
		assert.Equal(t, "main", bases[0].Name)
	})
}

func TestCreateTableSeedsDefaults(t *testing.T) {
	b := setupBackend(t)
	table := setupTable(t, b)

	assert.Equal(t, int64(seedRowCount), table.RowCount)

	meta, err := b.GetTableMeta(table.TableID)
	require.NoError(t, err)
	require.Len(t, meta.Columns, len(seedColumns))
	assert.Equal(t, "Name", meta.Columns[0].Name)
	assert.Equal(t, types.ColumnText, meta.Columns[0].Type)
	assert.Equal(t, "Notes", meta.Columns[1].Name)
	assert.Equal(t, int64(seedRowCount), meta.RowCount)

	views, err := b.ListViews(table.TableID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, defaultViewName, views[0].Name)
	assert.Equal(t, types.ViewTypeGrid, views[0].Type)

	// Seeded rows are blank: present, indexed 0..n-1, with no cells.
	rows := tableRows(t, b, table.TableID)
	require.Len(t, rows, seedRowCount)
	for i, row := range rows {
		assert.Equal(t, int64(i), row.RowIndex)
		assert.Empty(t, row.Cells)
	}
}

func TestGetTableMetaNotFound(t *testing.T) {
	b := setupBackend(t)

	_, err := b.GetTableMeta("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = b.GetTableMeta("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}
