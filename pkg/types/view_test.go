package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewConfigUnknownKeysSurviveRoundTrip(t *testing.T) {
	raw := `{
		"filters": [{"kind":"text","columnId":"col-1","op":"contains","value":"a"}],
		"sort": {"columnId":"col-2","direction":"desc"},
		"q": "needle",
		"hiddenColumnIds": ["col-3"],
		"groupBy": {"columnId":"col-4"},
		"rowHeight": "tall"
	}`

	var cfg ViewConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	assert.Len(t, cfg.Filters, 1)
	require.NotNil(t, cfg.Sort)
	assert.Equal(t, "col-2", cfg.Sort.ColumnID)
	assert.Equal(t, SortDesc, cfg.Sort.Direction)
	assert.Equal(t, "needle", cfg.Q)
	assert.Equal(t, []string{"col-3"}, cfg.HiddenColumnIDs)
	assert.Contains(t, cfg.Extra, "groupBy")
	assert.Contains(t, cfg.Extra, "rowHeight")

	out, err := json.Marshal(cfg)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.JSONEq(t, `{"columnId":"col-4"}`, string(doc["groupBy"]))
	assert.JSONEq(t, `"tall"`, string(doc["rowHeight"]))
	assert.JSONEq(t, `{"columnId":"col-2","direction":"desc"}`, string(doc["sort"]))
}

func TestViewConfigMarshalOmitsEmptyOptionalFields(t *testing.T) {
	cfg := ViewConfig{}
	out, err := json.Marshal(cfg)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.NotContains(t, doc, "sort")
	assert.NotContains(t, doc, "q")
	assert.JSONEq(t, `[]`, string(doc["filters"]))
	assert.JSONEq(t, `[]`, string(doc["hiddenColumnIds"]))
}

func TestViewConfigNormalize(t *testing.T) {
	t.Run("fills nil slices", func(t *testing.T) {
		var cfg ViewConfig
		cfg.Normalize()
		assert.NotNil(t, cfg.Filters)
		assert.NotNil(t, cfg.HiddenColumnIDs)
	})

	t.Run("drops sort without column", func(t *testing.T) {
		cfg := ViewConfig{Sort: &SortSpec{Direction: SortDesc}}
		cfg.Normalize()
		assert.Nil(t, cfg.Sort)
	})

	t.Run("defaults unknown sort direction to asc", func(t *testing.T) {
		cfg := ViewConfig{Sort: &SortSpec{ColumnID: "col-1", Direction: "sideways"}}
		cfg.Normalize()
		require.NotNil(t, cfg.Sort)
		assert.Equal(t, SortAsc, cfg.Sort.Direction)
	})

	t.Run("keeps desc", func(t *testing.T) {
		cfg := ViewConfig{Sort: &SortSpec{ColumnID: "col-1", Direction: SortDesc}}
		cfg.Normalize()
		require.NotNil(t, cfg.Sort)
		assert.Equal(t, SortDesc, cfg.Sort.Direction)
	})
}

func TestViewConfigUnmarshalRejectsMalformedRecognizedField(t *testing.T) {
	var cfg ViewConfig
	err := json.Unmarshal([]byte(`{"filters": "not-an-array"}`), &cfg)
	assert.Error(t, err)
}
