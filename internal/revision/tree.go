package revision

import (
	"sort"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

// Node is a read-only view of a revision annotated for branch-graph
// rendering. Nodes are built fresh on every call and never persisted.
type Node struct {
	Revision *types.PageRevision `json:"revision"`
	Children []*Node             `json:"children"`
	Depth    int                 `json:"depth"`
	Branch   int                 `json:"branch"`
}

// BuildTree reconstructs the parent/child graph from one page's flat
// revision list and assigns each node a depth and a visual branch lane.
//
// A revision whose parent id does not resolve within the list is treated as
// unparented. The first unparented revision becomes the tree root; any
// remaining unparented revisions ("orphans", typically rows predating the
// parent link) are sorted chronologically and chained one under another
// beneath that root, so parentless history reads as one navigable line
// instead of scattering into disconnected roots.
//
// Branch numbering follows version-graph drawing convention: the first child
// of a node continues its parent's lane, every additional sibling forks into
// a fresh lane drawn from one counter shared across the whole traversal.
func BuildTree(revisions []*types.PageRevision) []*Node {
	if len(revisions) == 0 {
		return []*Node{}
	}

	nodes := make([]*Node, len(revisions))
	byID := make(map[uuid.UUID]*Node, len(revisions))
	for i, rev := range revisions {
		nodes[i] = &Node{Revision: rev, Children: []*Node{}}
		byID[rev.ID] = nodes[i]
	}

	var unparented []*Node
	for _, n := range nodes {
		parentID := n.Revision.ParentRevisionID
		if parentID == nil {
			unparented = append(unparented, n)
			continue
		}
		parent, ok := byID[*parentID]
		if !ok || parent == n {
			// Dangling or self-referencing parent: recoverable, not fatal.
			unparented = append(unparented, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	var roots []*Node
	if len(unparented) > 0 {
		root := unparented[0]
		roots = append(roots, root)
		orphans := append([]*Node(nil), unparented[1:]...)
		sort.SliceStable(orphans, func(i, j int) bool {
			return orphans[i].Revision.CreatedAt.Before(orphans[j].Revision.CreatedAt)
		})
		prev := root
		for _, orphan := range orphans {
			prev.Children = append(prev.Children, orphan)
			prev = orphan
		}
	}

	type queueEntry struct {
		node   *Node
		depth  int
		branch int
	}
	queue := make([]queueEntry, 0, len(nodes))
	branchCounter := 0
	for _, root := range roots {
		queue = append(queue, queueEntry{node: root, depth: 0, branch: branchCounter})
		branchCounter++
	}

	visited := make(map[*Node]struct{}, len(nodes))
	processed := make([]*Node, 0, len(nodes))
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		// Corrupt parent links can form cycles; a node already placed in the
		// tree is not enqueued again, so traversal always terminates.
		if _, seen := visited[entry.node]; seen {
			continue
		}
		visited[entry.node] = struct{}{}

		entry.node.Depth = entry.depth
		entry.node.Branch = entry.branch
		processed = append(processed, entry.node)

		sort.SliceStable(entry.node.Children, func(i, j int) bool {
			return entry.node.Children[i].Revision.CreatedAt.Before(entry.node.Children[j].Revision.CreatedAt)
		})
		for i, child := range entry.node.Children {
			if i == 0 {
				queue = append(queue, queueEntry{node: child, depth: entry.depth + 1, branch: entry.branch})
				continue
			}
			queue = append(queue, queueEntry{node: child, depth: entry.depth + 1, branch: branchCounter})
			branchCounter++
		}
	}

	sort.SliceStable(processed, func(i, j int) bool {
		return processed[i].Revision.CreatedAt.After(processed[j].Revision.CreatedAt)
	})
	return processed
}
