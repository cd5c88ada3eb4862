// View entity and its persisted configuration document.
package types

import "encoding/json"

// View types.
const (
	ViewTypeGrid = "grid"
)

// View is a saved combination of filter/sort/search/hidden-column settings
// applied to a table's rows. Every table always has at least one view.
type View struct {
	ViewID  string     `json:"viewId"`
	TableID string     `json:"tableId"`
	Name    string     `json:"name"`
	Type    string     `json:"type"`
	Config  ViewConfig `json:"config"`
}

// SortDirection orders a sorted view ascending or descending.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec names the single active sort column and its direction.
type SortSpec struct {
	ColumnID  string        `json:"columnId"`
	Direction SortDirection `json:"direction"`
}

// ViewConfig is the persisted per-view configuration document. Unknown keys
// are preserved in Extra across read/modify/write cycles so configs written
// by newer clients survive older ones.
type ViewConfig struct {
	Filters         []Filter  `json:"filters"`
	Sort            *SortSpec `json:"sort,omitempty"`
	Q               string    `json:"q,omitempty"`
	HiddenColumnIDs []string  `json:"hiddenColumnIds"`

	// Extra holds unrecognized keys verbatim.
	Extra map[string]json.RawMessage `json:"-"`
}

// recognized keys of the config document.
const (
	cfgKeyFilters   = "filters"
	cfgKeySort      = "sort"
	cfgKeyQ         = "q"
	cfgKeyHiddenIDs = "hiddenColumnIds"
)

// UnmarshalJSON decodes the recognized fields and stashes every other key in
// Extra. Malformed recognized fields fail the decode; callers that need the
// stale-config tolerance use Normalize afterwards.
func (c *ViewConfig) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = ViewConfig{}
	if v, ok := raw[cfgKeyFilters]; ok {
		if err := json.Unmarshal(v, &c.Filters); err != nil {
			return err
		}
		delete(raw, cfgKeyFilters)
	}
	if v, ok := raw[cfgKeySort]; ok {
		if err := json.Unmarshal(v, &c.Sort); err != nil {
			return err
		}
		delete(raw, cfgKeySort)
	}
	if v, ok := raw[cfgKeyQ]; ok {
		if err := json.Unmarshal(v, &c.Q); err != nil {
			return err
		}
		delete(raw, cfgKeyQ)
	}
	if v, ok := raw[cfgKeyHiddenIDs]; ok {
		if err := json.Unmarshal(v, &c.HiddenColumnIDs); err != nil {
			return err
		}
		delete(raw, cfgKeyHiddenIDs)
	}
	if len(raw) > 0 {
		c.Extra = raw
	}
	return nil
}

// MarshalJSON emits the recognized fields plus every Extra key. Recognized
// fields win on key collision.
func (c ViewConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Extra)+4)
	for k, v := range c.Extra {
		out[k] = v
	}

	filters := c.Filters
	if filters == nil {
		filters = []Filter{}
	}
	fv, err := json.Marshal(filters)
	if err != nil {
		return nil, err
	}
	out[cfgKeyFilters] = fv

	if c.Sort != nil {
		sv, err := json.Marshal(c.Sort)
		if err != nil {
			return nil, err
		}
		out[cfgKeySort] = sv
	} else {
		delete(out, cfgKeySort)
	}

	if c.Q != "" {
		qv, err := json.Marshal(c.Q)
		if err != nil {
			return nil, err
		}
		out[cfgKeyQ] = qv
	} else {
		delete(out, cfgKeyQ)
	}

	hidden := c.HiddenColumnIDs
	if hidden == nil {
		hidden = []string{}
	}
	hv, err := json.Marshal(hidden)
	if err != nil {
		return nil, err
	}
	out[cfgKeyHiddenIDs] = hv

	return json.Marshal(out)
}

// Normalize fills missing fields with empty defaults so stale or
// partially-written configs never crash downstream consumers. A sort without
// a column ID is dropped.
func (c *ViewConfig) Normalize() {
	if c.Filters == nil {
		c.Filters = []Filter{}
	}
	if c.HiddenColumnIDs == nil {
		c.HiddenColumnIDs = []string{}
	}
	if c.Sort != nil && c.Sort.ColumnID == "" {
		c.Sort = nil
	}
	if c.Sort != nil && c.Sort.Direction != SortDesc {
		c.Sort.Direction = SortAsc
	}
}

// ViewConfigPatch is a shallow patch over a stored view config: each key
// replaces the stored key wholesale, and an explicit JSON null deletes it.
// Unknown keys pass through to storage.
type ViewConfigPatch map[string]json.RawMessage
