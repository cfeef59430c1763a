package widgets

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

const (
	ActionAdd     = "add"
	ActionRemove  = "remove"
	ActionUpdate  = "update"
	ActionReorder = "reorder"
)

// Change is the editor-surface mutation payload for a page's widget list.
type Change struct {
	Action     string          `json:"action"`
	Position   *int            `json:"position,omitempty"`
	WidgetIDs  []string        `json:"widget_ids,omitempty"`
	OrderedIDs []string        `json:"ordered_ids,omitempty"`
	Widgets    []*types.Widget `json:"widgets,omitempty"`
}

// Apply computes the widget list resulting from a change. It never mutates
// its input and never fails: an unknown action returns the current list
// unchanged so that forward-incompatible payloads degrade to a no-op instead
// of taking the editor down.
func Apply(current []*types.Widget, change Change) []*types.Widget {
	switch change.Action {
	case ActionAdd:
		return applyAdd(current, change)
	case ActionRemove:
		return applyRemove(current, change)
	case ActionUpdate:
		return applyUpdate(current, change)
	case ActionReorder:
		return applyReorder(current, change)
	default:
		return current
	}
}

func applyAdd(current []*types.Widget, change Change) []*types.Widget {
	ordered := Normalize(current)

	added := make([]*types.Widget, 0, len(change.Widgets))
	for _, w := range change.Widgets {
		clone := *w
		if !recognizedWidgetID(clone.ID) {
			clone.ID = types.NewTempWidgetID()
		}
		if clone.PageID == uuid.Nil && len(ordered) > 0 {
			clone.PageID = ordered[0].PageID
		}
		added = append(added, &clone)
	}

	at := len(ordered)
	if change.Position != nil && *change.Position >= 0 && *change.Position <= len(ordered) {
		at = *change.Position
	}

	result := make([]*types.Widget, 0, len(ordered)+len(added))
	result = append(result, ordered[:at]...)
	result = append(result, added...)
	result = append(result, ordered[at:]...)
	for i := range result {
		result[i].Position = i
	}
	return Normalize(result)
}

func applyRemove(current []*types.Widget, change Change) []*types.Widget {
	drop := make(map[string]struct{}, len(change.WidgetIDs))
	for _, id := range change.WidgetIDs {
		drop[id] = struct{}{}
	}
	kept := make([]*types.Widget, 0, len(current))
	for _, w := range current {
		if _, gone := drop[w.ID]; gone {
			continue
		}
		kept = append(kept, w)
	}
	// Normalize closes the positional gap left by the removed widgets.
	return Normalize(kept)
}

func applyUpdate(current []*types.Widget, change Change) []*types.Widget {
	patches := make(map[string]*types.Widget, len(change.Widgets))
	for _, w := range change.Widgets {
		patches[w.ID] = w
	}
	out := make([]*types.Widget, len(current))
	for i, w := range current {
		clone := *w
		if patch, ok := patches[clone.ID]; ok {
			if patch.Type != "" {
				clone.Type = patch.Type
			}
			clone.Config = mergeConfig(clone.Config, patch.Config)
		}
		out[i] = &clone
	}
	// Membership and order are untouched, so no renormalization is needed.
	return out
}

func applyReorder(current []*types.Widget, change Change) []*types.Widget {
	byID := make(map[string]*types.Widget, len(current))
	for _, w := range current {
		byID[w.ID] = w
	}
	// The ordered id list is authoritative for membership: unknown ids are
	// dropped, and current widgets it omits are dropped with them.
	result := make([]*types.Widget, 0, len(change.OrderedIDs))
	for _, id := range change.OrderedIDs {
		w, ok := byID[id]
		if !ok {
			continue
		}
		clone := *w
		clone.Position = len(result)
		result = append(result, &clone)
	}
	return Normalize(result)
}

// mergeConfig merges the top-level keys of patch into base, patch winning.
// Nested values are replaced wholesale. Unparseable input falls back to
// whichever side is usable.
func mergeConfig(base, patch []byte) []byte {
	if len(patch) == 0 {
		return base
	}
	var baseMap, patchMap map[string]json.RawMessage
	if err := json.Unmarshal(patch, &patchMap); err != nil {
		return base
	}
	if len(base) == 0 || json.Unmarshal(base, &baseMap) != nil {
		baseMap = map[string]json.RawMessage{}
	}
	for k, v := range patchMap {
		baseMap[k] = v
	}
	merged, err := json.Marshal(baseMap)
	if err != nil {
		return base
	}
	return merged
}

// recognizedWidgetID reports whether an incoming id can be kept as-is: a
// temporary editor id, a persisted uuid, or a legacy numeric id.
func recognizedWidgetID(id string) bool {
	if id == "" {
		return false
	}
	if types.IsTempWidgetID(id) {
		return true
	}
	if _, err := uuid.Parse(id); err == nil {
		return true
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
