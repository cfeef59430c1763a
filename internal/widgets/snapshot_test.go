package widgets

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

func TestSnapshotRoundTrip(t *testing.T) {
	in := []*types.Widget{
		{ID: "a", Type: types.WidgetTypeHero, Position: 0, Config: datatypes.JSON(`{"headline":"Welcome"}`)},
		{ID: "b", Type: types.WidgetTypeText, Position: 1},
	}
	raw, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("round trip lost widgets: %+v", out)
	}
	if out[0].Type != types.WidgetTypeHero || string(out[0].Config) != `{"headline":"Welcome"}` {
		t.Fatalf("round trip lost fields: %+v", *out[0])
	}
}

func TestDecodeSnapshotTolerance(t *testing.T) {
	cases := []struct {
		name    string
		raw     datatypes.JSON
		wantLen int
	}{
		{name: "nil", raw: nil, wantLen: 0},
		{name: "empty", raw: datatypes.JSON(``), wantLen: 0},
		{name: "json_null", raw: datatypes.JSON(`null`), wantLen: 0},
		{name: "empty_array", raw: datatypes.JSON(`[]`), wantLen: 0},
		{name: "plain_array", raw: datatypes.JSON(`[{"id":"a","position":0}]`), wantLen: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := DecodeSnapshot(tc.raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(out) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(out), tc.wantLen)
			}
		})
	}
}

// Some stores hand text columns back as a JSON-encoded string instead of the
// parsed array; decode must accept that shape too.
func TestDecodeSnapshotDoubleEncoded(t *testing.T) {
	inner := `[{"id":"a","position":0},{"id":"b","position":1}]`
	wrapped, err := json.Marshal(inner)
	if err != nil {
		t.Fatalf("marshal wrapper: %v", err)
	}
	out, err := DecodeSnapshot(datatypes.JSON(wrapped))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("double-encoded decode = %+v", out)
	}
}

func TestDecodeSnapshotGarbage(t *testing.T) {
	if _, err := DecodeSnapshot(datatypes.JSON(`{{{`)); err == nil {
		t.Fatalf("expected error for malformed snapshot")
	}
}
