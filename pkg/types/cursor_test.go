package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	text := "banana"
	num := 42.5

	tests := []struct {
		name   string
		cursor Cursor
	}{
		{
			name:   "unsorted",
			cursor: Cursor{Mode: CursorUnsorted, RowIndex: 137},
		},
		{
			name:   "sorted text value",
			cursor: Cursor{Mode: CursorSorted, RowIndex: 9, TextValue: &text},
		},
		{
			name:   "sorted number value",
			cursor: Cursor{Mode: CursorSorted, RowIndex: 3, NumberValue: &num},
		},
		{
			name:   "sorted null tail",
			cursor: Cursor{Mode: CursorSorted, RowIndex: 21, NullRank: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.cursor.Encode()
			require.NotEmpty(t, token)

			got, err := DecodeCursor(token)
			require.NoError(t, err)
			assert.Equal(t, tt.cursor, *got)
		})
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "!!!not-base64!!!"},
		{name: "base64 but not json", token: "bm90LWpzb24"},
		{name: "json without mode", token: Cursor{RowIndex: 5}.Encode()},
		{name: "unknown mode", token: Cursor{Mode: "spiral", RowIndex: 5}.Encode()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero takes default", limit: 0, want: DefaultPageSize},
		{name: "negative takes default", limit: -7, want: DefaultPageSize},
		{name: "below minimum clamps up", limit: 3, want: MinPageSize},
		{name: "above maximum clamps down", limit: 10000, want: MaxPageSize},
		{name: "in range passes through", limit: 120, want: 120},
		{name: "minimum passes through", limit: MinPageSize, want: MinPageSize},
		{name: "maximum passes through", limit: MaxPageSize, want: MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLimit(tt.limit))
		})
	}
}
