// Pagination cursor: an opaque, mode-tagged resume token.
package types

import (
	"encoding/base64"
	"encoding/json"
)

// CursorMode ties a cursor to the pagination strategy that issued it. The
// mode is derived fresh on every request; a cursor replayed under the other
// mode is discarded and the request starts from the first page.
type CursorMode string

// Cursor modes.
const (
	CursorUnsorted CursorMode = "unsorted"
	CursorSorted   CursorMode = "sorted"
)

// Cursor captures the resume point after the last row of a page.
//
// Unsorted mode uses only RowIndex, holding the first row index of the next
// page. Sorted mode holds the (NullRank, sort value, RowIndex) triple of the
// last returned row; exactly one of TextValue/NumberValue is set when
// NullRank is 0.
type Cursor struct {
	Mode        CursorMode `json:"mode"`
	RowIndex    int64      `json:"rowIndex"`
	NullRank    int        `json:"nullRank,omitempty"`
	TextValue   *string    `json:"textValue,omitempty"`
	NumberValue *float64   `json:"numberValue,omitempty"`
}

// Encode serializes the cursor into the opaque wire token.
func (c Cursor) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		// Cursor fields are all marshalable; this cannot happen.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque token back into a Cursor.
// Returns ErrInvalidCursor for tokens that do not decode to a known shape.
func DecodeCursor(token string) (*Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, ErrInvalidCursor
	}
	if c.Mode != CursorUnsorted && c.Mode != CursorSorted {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}
