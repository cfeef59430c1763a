package revision

import (
	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

// FindHeads returns every revision that is nobody's parent: the current tip
// of each branch. Works directly on the flat list, no tree construction.
func FindHeads(revisions []*types.PageRevision) []*types.PageRevision {
	parents := make(map[uuid.UUID]struct{}, len(revisions))
	for _, rev := range revisions {
		if rev.ParentRevisionID != nil {
			parents[*rev.ParentRevisionID] = struct{}{}
		}
	}
	heads := make([]*types.PageRevision, 0, len(revisions))
	for _, rev := range revisions {
		if _, isParent := parents[rev.ID]; !isParent {
			heads = append(heads, rev)
		}
	}
	return heads
}
