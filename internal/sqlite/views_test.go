package sqlite

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

func TestCreateAndListViews(t *testing.T) {
	b := setupBackend(t)
	table := setupTable(t, b)

	t.Run("creates with empty normalized config", func(t *testing.T) {
		v, err := b.CreateView(table.TableID, "My view")
		require.NoError(t, err)
		assert.Equal(t, types.ViewTypeGrid, v.Type)
		assert.NotNil(t, v.Config.Filters)
		assert.NotNil(t, v.Config.HiddenColumnIDs)
		assert.Nil(t, v.Config.Sort)
	})

	t.Run("lists ordered by name", func(t *testing.T) {
		_, err := b.CreateView(table.TableID, "Another view")
		require.NoError(t, err)

		views, err := b.ListViews(table.TableID)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "Another view", views[0].Name)
		assert.Equal(t, defaultViewName, views[1].Name)
		assert.Equal(t, "My view", views[2].Name)
	})

	t.Run("duplicate name rejected case-insensitively", func(t *testing.T) {
		_, err := b.CreateView(table.TableID, "my VIEW")
		assert.ErrorIs(t, err, types.ErrDuplicateName)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := b.CreateView(table.TableID, "  ")
		assert.ErrorIs(t, err, types.ErrInvalidName)
	})

	t.Run("missing table rejected", func(t *testing.T) {
		_, err := b.CreateView("missing", "x")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestRenameView(t *testing.T) {
	b := setupBackend(t)
	table := setupTable(t, b)
	v, err := b.CreateView(table.TableID, "Original")
	require.NoError(t, err)

	require.NoError(t, b.RenameView(v.ViewID, "Updated"))
	got, err := b.GetView(v.ViewID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Name)

	err = b.RenameView(v.ViewID, "grid VIEW")
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	// Renaming to its own name (case changed) is allowed.
	assert.NoError(t, b.RenameView(v.ViewID, "UPDATED"))
}

func TestDeleteView(t *testing.T) {
	b := setupBackend(t)
	table := setupTable(t, b)

	views, err := b.ListViews(table.TableID)
	require.NoError(t, err)
	require.Len(t, views, 1)

	t.Run("last view cannot be deleted", func(t *testing.T) {
		err := b.DeleteView(views[0].ViewID)
		assert.ErrorIs(t, err, types.ErrLastView)
	})

	t.Run("deletes when another view remains", func(t *testing.T) {
		extra, err := b.CreateView(table.TableID, "Extra")
		require.NoError(t, err)

		require.NoError(t, b.DeleteView(extra.ViewID))
		_, err = b.GetView(extra.ViewID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("missing view rejected", func(t *testing.T) {
		err := b.DeleteView("missing")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateViewConfig(t *testing.T) {
	b := setupBackend(t)
	table := setupTable(t, b)
	name := columnByName(t, b, table.TableID, "Name")
	v, err := b.CreateView(table.TableID, "Configurable")
	require.NoError(t, err)

	t.Run("patch keys replace wholesale", func(t *testing.T) {
		sort, _ := json.Marshal(types.SortSpec{ColumnID: name.ColumnID, Direction: types.SortDesc})
		cfg, err := b.UpdateViewConfig(v.ViewID, types.ViewConfigPatch{
			"sort": sort,
			"q":    json.RawMessage(`"needle"`),
		})
		require.NoError(t, err)
		require.NotNil(t, cfg.Sort)
		assert.Equal(t, name.ColumnID, cfg.Sort.ColumnID)
		assert.Equal(t, types.SortDesc, cfg.Sort.Direction)
		assert.Equal(t, "needle", cfg.Q)
	})

	t.Run("untouched keys survive later patches", func(t *testing.T) {
		cfg, err := b.UpdateViewConfig(v.ViewID, types.ViewConfigPatch{
			"q": json.RawMessage(`"other"`),
		})
		require.NoError(t, err)
		require.NotNil(t, cfg.Sort)
		assert.Equal(t, name.ColumnID, cfg.Sort.ColumnID)
		assert.Equal(t, "other", cfg.Q)
	})

	t.Run("json null deletes a key", func(t *testing.T) {
		cfg, err := b.UpdateViewConfig(v.ViewID, types.ViewConfigPatch{
			"sort": json.RawMessage(`null`),
		})
		require.NoError(t, err)
		assert.Nil(t, cfg.Sort)
		assert.Equal(t, "other", cfg.Q)
	})

	t.Run("unknown keys pass through and persist", func(t *testing.T) {
		_, err := b.UpdateViewConfig(v.ViewID, types.ViewConfigPatch{
			"rowHeight": json.RawMessage(`"tall"`),
		})
		require.NoError(t, err)

		got, err := b.GetView(v.ViewID)
		require.NoError(t, err)
		require.Contains(t, got.Config.Extra, "rowHeight")
		assert.JSONEq(t, `"tall"`, string(got.Config.Extra["rowHeight"]))

		// Still there after an unrelated patch.
		_, err = b.UpdateViewConfig(v.ViewID, types.ViewConfigPatch{
			"q": json.RawMessage(`"again"`),
		})
		require.NoError(t, err)
		got, err = b.GetView(v.ViewID)
		require.NoError(t, err)
		assert.Contains(t, got.Config.Extra, "rowHeight")
	})

	t.Run("missing view rejected", func(t *testing.T) {
		_, err := b.UpdateViewConfig("missing", types.ViewConfigPatch{})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestDecodeConfigDegradesOnCorruptDocument(t *testing.T) {
	cfg := decodeConfig("{not valid json")
	assert.NotNil(t, cfg.Filters)
	assert.NotNil(t, cfg.HiddenColumnIDs)
	assert.Nil(t, cfg.Sort)
	assert.Empty(t, cfg.Q)
}
