package widgets

import (
	"sort"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

// Normalize returns a copy of the widget list with unique, contiguous,
// zero-based positions. Duplicate positions are a recoverable condition, not
// an error: entries sharing a position are ordered by id, which is always
// present and totally ordered, then every entry is reindexed. Every mutation
// of an ordered widget list must pass its result through here.
func Normalize(ws []*types.Widget) []*types.Widget {
	out := make([]*types.Widget, len(ws))
	for i, w := range ws {
		clone := *w
		out[i] = &clone
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].Position = i
	}
	return out
}
