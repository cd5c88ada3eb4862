// View accessors: CRUD plus the shallow config patch merge. Configs are
// stored as JSON documents and read-validated with defaults on every load so
// stale or partially-written configs never crash the query path.
package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/gridbase/pkg/types"
)

// marshalConfig serializes a view config for storage.
func marshalConfig(cfg types.ViewConfig) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling view config: %w", err)
	}
	return string(data), nil
}

// decodeConfig parses a stored config document, falling back to an empty
// config when the document does not parse, and normalizes the result.
func decodeConfig(raw string) types.ViewConfig {
	var cfg types.ViewConfig
	if raw != "" {
		// A corrupt document degrades to defaults instead of failing reads.
		_ = json.Unmarshal([]byte(raw), &cfg)
	}
	cfg.Normalize()
	return cfg
}

// GetView returns a view with its config defaulted and normalized.
func (b *Backend) GetView(viewID string) (*types.View, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}
	return b.getView(viewID)
}

// getView resolves a view by ID. The caller must hold b.mu.
func (b *Backend) getView(viewID string) (*types.View, error) {
	if viewID == "" {
		return nil, types.ErrInvalidID
	}
	var v types.View
	var rawConfig string
	err := b.db.QueryRow(
		"SELECT view_id, table_id, name, view_type, config FROM views WHERE view_id = ?",
		viewID).Scan(&v.ViewID, &v.TableID, &v.Name, &v.Type, &rawConfig)
	if isNoRows(err) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning view: %w", err)
	}
	v.Config = decodeConfig(rawConfig)
	return &v, nil
}

// ListViews returns the views of a table ordered by name.
func (b *Backend) ListViews(tableID string) ([]*types.View, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}
	if _, err := b.getTable(tableID); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT view_id, table_id, name, view_type, config FROM views WHERE table_id = ? ORDER BY name",
		tableID)
	if err != nil {
		return nil, fmt.Errorf("fetching views: %w", err)
	}
	defer rows.Close()

	results := []*types.View{}
	for rows.Next() {
		var v types.View
		var rawConfig string
		if err := rows.Scan(&v.ViewID, &v.TableID, &v.Name, &v.Type, &rawConfig); err != nil {
			return nil, fmt.Errorf("scanning view: %w", err)
		}
		v.Config = decodeConfig(rawConfig)
		results = append(results, &v)
	}
	return results, rows.Err()
}

// CreateView creates a named grid view with an empty configuration.
func (b *Backend) CreateView(tableID, name string) (*types.View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}
	if _, err := b.getTable(tableID); err != nil {
		return nil, err
	}
	if err := b.checkViewName(tableID, "", name); err != nil {
		return nil, err
	}

	cfg := types.ViewConfig{}
	cfg.Normalize()
	rawConfig, err := marshalConfig(cfg)
	if err != nil {
		return nil, err
	}

	v := &types.View{
		ViewID:  newUUID(),
		TableID: tableID,
		Name:    name,
		Type:    types.ViewTypeGrid,
		Config:  cfg,
	}
	_, err = b.db.Exec(
		"INSERT INTO views (view_id, table_id, name, view_type, config) VALUES (?, ?, ?, ?, ?)",
		v.ViewID, v.TableID, v.Name, v.Type, rawConfig)
	if err != nil {
		return nil, fmt.Errorf("inserting view: %w", err)
	}
	return v, nil
}

// RenameView renames a view, enforcing per-table name uniqueness.
func (b *Backend) RenameView(viewID, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return types.ErrInvalidName
	}
	v, err := b.getView(viewID)
	if err != nil {
		return err
	}
	if err := b.checkViewName(v.TableID, viewID, name); err != nil {
		return err
	}

	if _, err := b.db.Exec(
		"UPDATE views SET name = ? WHERE view_id = ?", name, viewID); err != nil {
		return fmt.Errorf("renaming view: %w", err)
	}
	return nil
}

// checkViewName returns ErrDuplicateName when another view of the table
// already uses the name (case-insensitive). The caller must hold b.mu.
func (b *Backend) checkViewName(tableID, excludeViewID, name string) error {
	var conflict int
	err := b.db.QueryRow(
		"SELECT 1 FROM views WHERE table_id = ? AND view_id != ? AND lower(name) = lower(?)",
		tableID, excludeViewID, name).Scan(&conflict)
	if err == nil {
		return types.ErrDuplicateName
	}
	if !isNoRows(err) {
		return fmt.Errorf("checking view name: %w", err)
	}
	return nil
}

// DeleteView removes a view. Deleting the table's last view is rejected.
func (b *Backend) DeleteView(viewID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return err
	}

	v, err := b.getView(viewID)
	if err != nil {
		return err
	}

	var count int
	if err := b.db.QueryRow(
		"SELECT COUNT(*) FROM views WHERE table_id = ?", v.TableID).Scan(&count); err != nil {
		return fmt.Errorf("counting views: %w", err)
	}
	if count <= 1 {
		return types.ErrLastView
	}

	if _, err := b.db.Exec("DELETE FROM views WHERE view_id = ?", viewID); err != nil {
		return fmt.Errorf("deleting view: %w", err)
	}
	return nil
}

// UpdateViewConfig applies a shallow patch over the stored config document:
// each patch key replaces the stored key wholesale, a JSON null deletes it,
// and unrecognized keys pass through. Concurrent updates are
// last-writer-wins. Returns the resulting normalized config.
func (b *Backend) UpdateViewConfig(viewID string, patch types.ViewConfigPatch) (*types.ViewConfig, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureAttached(); err != nil {
		return nil, err
	}

	if viewID == "" {
		return nil, types.ErrInvalidID
	}
	var rawConfig string
	err := b.db.QueryRow("SELECT config FROM views WHERE view_id = ?", viewID).Scan(&rawConfig)
	if isNoRows(err) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning view config: %w", err)
	}

	merged := make(map[string]json.RawMessage)
	if rawConfig != "" {
		_ = json.Unmarshal([]byte(rawConfig), &merged)
	}
	for k, v := range patch {
		if string(v) == "null" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("marshaling merged config: %w", err)
	}
	if _, err := b.db.Exec(
		"UPDATE views SET config = ? WHERE view_id = ?", string(data), viewID); err != nil {
		return nil, fmt.Errorf("updating view config: %w", err)
	}

	cfg := decodeConfig(string(data))
	return &cfg, nil
}
