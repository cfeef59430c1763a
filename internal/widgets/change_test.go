package widgets

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

func intPtr(v int) *int { return &v }

func TestApplyAdd(t *testing.T) {
	pageID := uuid.New()
	current := []*types.Widget{
		{ID: "a", PageID: pageID, Type: types.WidgetTypeText, Position: 0},
		{ID: "b", PageID: pageID, Type: types.WidgetTypeText, Position: 1},
	}

	t.Run("insert_at_position", func(t *testing.T) {
		got := Apply(current, Change{
			Action:   ActionAdd,
			Position: intPtr(1),
			Widgets:  []*types.Widget{{ID: "tmp-new", Type: types.WidgetTypeHero}},
		})
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[1].ID != "tmp-new" {
			t.Fatalf("inserted at %q, want index 1: %v", got[1].ID, idsOf(got))
		}
		if got[1].PageID != pageID {
			t.Fatalf("page id not inherited: %v", got[1].PageID)
		}
		for i, w := range got {
			if w.Position != i {
				t.Fatalf("positions not sequential: %v", positionsOf(got))
			}
		}
	})

	t.Run("out_of_range_position_appends", func(t *testing.T) {
		got := Apply(current, Change{
			Action:   ActionAdd,
			Position: intPtr(99),
			Widgets:  []*types.Widget{{ID: "tmp-x", Type: types.WidgetTypeImage}},
		})
		if got[len(got)-1].ID != "tmp-x" {
			t.Fatalf("expected append, got order %v", idsOf(got))
		}
	})

	t.Run("missing_id_gets_temp_id", func(t *testing.T) {
		got := Apply(current, Change{
			Action:  ActionAdd,
			Widgets: []*types.Widget{{Type: types.WidgetTypeButton}},
		})
		added := got[len(got)-1]
		if !types.IsTempWidgetID(added.ID) {
			t.Fatalf("expected generated temp id, got %q", added.ID)
		}
	})

	t.Run("unrecognized_id_replaced", func(t *testing.T) {
		got := Apply(current, Change{
			Action:  ActionAdd,
			Widgets: []*types.Widget{{ID: "not a real id", Type: types.WidgetTypeButton}},
		})
		added := got[len(got)-1]
		if !types.IsTempWidgetID(added.ID) {
			t.Fatalf("expected replacement temp id, got %q", added.ID)
		}
	})

	t.Run("numeric_legacy_id_kept", func(t *testing.T) {
		got := Apply(current, Change{
			Action:  ActionAdd,
			Widgets: []*types.Widget{{ID: "42", Type: types.WidgetTypeButton}},
		})
		found := false
		for _, w := range got {
			if w.ID == "42" {
				found = true
			}
		}
		if !found {
			t.Fatalf("legacy numeric id dropped: %v", idsOf(got))
		}
	})
}

func TestApplyRemove(t *testing.T) {
	current := []*types.Widget{
		{ID: "w1", Position: 0},
		{ID: "w2", Position: 1},
		{ID: "w3", Position: 2},
	}
	got := Apply(current, Change{Action: ActionRemove, WidgetIDs: []string{"w2"}})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "w1" || got[0].Position != 0 || got[1].ID != "w3" || got[1].Position != 1 {
		t.Fatalf("gap not reindexed: %v %v", idsOf(got), positionsOf(got))
	}
}

func TestApplyUpdate(t *testing.T) {
	current := []*types.Widget{
		{ID: "w1", Type: types.WidgetTypeText, Position: 0, Config: datatypes.JSON(`{"text":"hi","size":12}`)},
		{ID: "w2", Type: types.WidgetTypeImage, Position: 1},
	}
	got := Apply(current, Change{
		Action: ActionUpdate,
		Widgets: []*types.Widget{
			{ID: "w1", Config: datatypes.JSON(`{"size":20,"bold":true}`)},
		},
	})

	var cfg map[string]any
	if err := json.Unmarshal(got[0].Config, &cfg); err != nil {
		t.Fatalf("merged config unparseable: %v", err)
	}
	if cfg["text"] != "hi" {
		t.Fatalf("unpatched key lost: %v", cfg)
	}
	if cfg["size"] != float64(20) || cfg["bold"] != true {
		t.Fatalf("patch keys not applied: %v", cfg)
	}
	if got[1].Type != types.WidgetTypeImage || got[1].Position != 1 {
		t.Fatalf("non-matching widget changed: %+v", *got[1])
	}
	if got[0].Position != 0 {
		t.Fatalf("update must not move widgets, position = %d", got[0].Position)
	}
}

func TestApplyReorder(t *testing.T) {
	current := []*types.Widget{
		{ID: "w1", Position: 0},
		{ID: "w2", Position: 1},
		{ID: "w3", Position: 2},
	}

	t.Run("round_trip_keeps_order", func(t *testing.T) {
		got := Apply(current, Change{Action: ActionReorder, OrderedIDs: []string{"w1", "w2", "w3"}})
		for i, want := range []string{"w1", "w2", "w3"} {
			if got[i].ID != want || got[i].Position != i {
				t.Fatalf("round trip changed list: %v %v", idsOf(got), positionsOf(got))
			}
		}
	})

	t.Run("list_is_authoritative_for_membership", func(t *testing.T) {
		got := Apply(current, Change{Action: ActionReorder, OrderedIDs: []string{"w3", "ghost", "w1"}})
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2 (w2 and ghost dropped)", len(got))
		}
		if got[0].ID != "w3" || got[1].ID != "w1" {
			t.Fatalf("order = %v, want [w3 w1]", idsOf(got))
		}
	})
}

func TestApplyUnknownActionIsNoOp(t *testing.T) {
	current := []*types.Widget{{ID: "w1", Position: 0}}
	got := Apply(current, Change{Action: "teleport"})
	if len(got) != 1 || got[0] != current[0] {
		t.Fatalf("unknown action must return input unchanged")
	}
}

// The end-to-end editing scenario: duplicate positions self-heal on
// normalize, then a removal reindexes the survivors.
func TestDuplicatePositionThenRemove(t *testing.T) {
	live := []*types.Widget{
		{ID: "w1", Position: 0},
		{ID: "w2", Position: 0},
		{ID: "w3", Position: 1},
	}
	normalized := Normalize(live)
	for i, want := range []string{"w1", "w2", "w3"} {
		if normalized[i].ID != want || normalized[i].Position != i {
			t.Fatalf("normalize = %v %v", idsOf(normalized), positionsOf(normalized))
		}
	}
	after := Apply(normalized, Change{Action: ActionRemove, WidgetIDs: []string{"w2"}})
	if after[0].ID != "w1" || after[0].Position != 0 || after[1].ID != "w3" || after[1].Position != 1 {
		t.Fatalf("after remove = %v %v", idsOf(after), positionsOf(after))
	}
}
