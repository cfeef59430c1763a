package widgets

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

// EncodeSnapshot serializes a widget list into the JSON document stored in
// page_revision.widgets_snapshot. A nil list encodes as an empty array.
func EncodeSnapshot(ws []*types.Widget) (datatypes.JSON, error) {
	if ws == nil {
		ws = []*types.Widget{}
	}
	raw, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("encode widgets snapshot: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// DecodeSnapshot parses a stored snapshot back into widgets. Besides the
// plain array form it accepts a JSON string wrapping the array, which shows
// up with stores that re-encode text columns on the way out.
func DecodeSnapshot(raw datatypes.JSON) ([]*types.Widget, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []*types.Widget{}, nil
	}

	var ws []*types.Widget
	if err := json.Unmarshal(raw, &ws); err == nil {
		return ws, nil
	}

	var wrapped string
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode widgets snapshot: %w", err)
	}
	if wrapped == "" {
		return []*types.Widget{}, nil
	}
	if err := json.Unmarshal([]byte(wrapped), &ws); err != nil {
		return nil, fmt.Errorf("decode widgets snapshot: %w", err)
	}
	return ws, nil
}
