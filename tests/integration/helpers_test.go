// Package integration holds end-to-end scenarios running against the public
// backend API over a real on-disk database.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridbase/pkg/sqlite"
	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// setupStore creates a store attached to an isolated temp directory. Each
// test gets its own database for isolation.
func setupStore(t *testing.T) types.Store {
	t.Helper()
	store := sqlite.NewBackend()
	err := store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Detach() })
	return store
}

// setupTable creates the full ownership chain and returns the table.
func setupTable(t *testing.T, store types.Store) *types.Table {
	t.Helper()
	ws, err := store.CreateWorkspace("integration workspace")
	require.NoError(t, err)
	base, err := store.CreateBase(ws.WorkspaceID, "integration base")
	require.NoError(t, err)
	table, err := store.CreateTable(base.BaseID, "integration table")
	require.NoError(t, err)
	return table
}

// allRows drains the table in unsorted order.
func allRows(t *testing.T, store types.Store, tableID string) []*types.Row {
	t.Helper()
	var all []*types.Row
	req := types.QueryRequest{Limit: types.MaxPageSize}
	for {
		page, err := store.QueryRows(tableID, req)
		require.NoError(t, err)
		all = append(all, page.Rows...)
		if page.NextCursor == nil {
			return all
		}
		req.Cursor = *page.NextCursor
	}
}

// columnByName finds a column of the table by name.
func columnByName(t *testing.T, store types.Store, tableID, name string) types.Column {
	t.Helper()
	meta, err := store.GetTableMeta(tableID)
	require.NoError(t, err)
	for _, c := range meta.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not found", name)
	return types.Column{}
}
