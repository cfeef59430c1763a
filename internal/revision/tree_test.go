package revision

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith-backend/internal/types"
)

func rev(id uuid.UUID, parent *uuid.UUID, createdAt int64) *types.PageRevision {
	return &types.PageRevision{
		ID:               id,
		PageID:           uuid.Nil,
		ParentRevisionID: parent,
		CreatedAt:        time.Unix(createdAt, 0),
	}
}

func nodeFor(t *testing.T, nodes []*Node, id uuid.UUID) *Node {
	t.Helper()
	for _, n := range nodes {
		if n.Revision.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not in result", id)
	return nil
}

func TestBuildTreeEmpty(t *testing.T) {
	if got := BuildTree(nil); len(got) != 0 {
		t.Fatalf("empty input produced %d nodes", len(got))
	}
}

func TestBuildTreeDepthAndBranch(t *testing.T) {
	// R1 -> R2 -> R3 and R1 -> R4.
	r1, r2, r3, r4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	input := []*types.PageRevision{
		rev(r1, nil, 1000),
		rev(r2, &r1, 2000),
		rev(r3, &r2, 3000),
		rev(r4, &r1, 4000),
	}

	nodes := BuildTree(input)
	if len(nodes) != 4 {
		t.Fatalf("len = %d, want 4", len(nodes))
	}

	n1 := nodeFor(t, nodes, r1)
	n2 := nodeFor(t, nodes, r2)
	n3 := nodeFor(t, nodes, r3)
	n4 := nodeFor(t, nodes, r4)

	wantDepths := []struct {
		node *Node
		want int
	}{{n1, 0}, {n2, 1}, {n3, 2}, {n4, 1}}
	for _, w := range wantDepths {
		if w.node.Depth != w.want {
			t.Fatalf("depth(%s) = %d, want %d", w.node.Revision.ID, w.node.Depth, w.want)
		}
	}

	// First child continues the parent's lane; the second sibling forks.
	if n2.Branch != n1.Branch {
		t.Fatalf("first child forked: branch(R2)=%d branch(R1)=%d", n2.Branch, n1.Branch)
	}
	if n3.Branch != n2.Branch {
		t.Fatalf("chain broke lanes: branch(R3)=%d branch(R2)=%d", n3.Branch, n2.Branch)
	}
	if n4.Branch == n2.Branch {
		t.Fatalf("sibling did not fork: branch(R4)=%d", n4.Branch)
	}

	// Display order is newest first.
	if nodes[0].Revision.ID != r4 || nodes[len(nodes)-1].Revision.ID != r1 {
		t.Fatalf("result not newest-first")
	}
}

func TestBuildTreeOrphanChaining(t *testing.T) {
	// Three parentless revisions at t=1000/2000/3000 form one chronological
	// chain: 1000 is the root, 2000 its child, 3000 its grandchild — never
	// three separate roots.
	o1, o2, o3 := uuid.New(), uuid.New(), uuid.New()
	input := []*types.PageRevision{
		rev(o1, nil, 1000),
		rev(o2, nil, 2000),
		rev(o3, nil, 3000),
	}

	nodes := BuildTree(input)
	if len(nodes) != 3 {
		t.Fatalf("len = %d, want 3", len(nodes))
	}

	n1 := nodeFor(t, nodes, o1)
	n2 := nodeFor(t, nodes, o2)
	n3 := nodeFor(t, nodes, o3)

	if n1.Depth != 0 || n2.Depth != 1 || n3.Depth != 2 {
		t.Fatalf("not a single chain: depths %d, %d, %d", n1.Depth, n2.Depth, n3.Depth)
	}
	if len(n1.Children) != 1 || n1.Children[0] != n2 {
		t.Fatalf("o1 children wrong")
	}
	if len(n2.Children) != 1 || n2.Children[0] != n3 {
		t.Fatalf("o2 children wrong")
	}
	if n1.Branch != 0 || n2.Branch != 0 || n3.Branch != 0 {
		t.Fatalf("chain split lanes: branches %d, %d, %d", n1.Branch, n2.Branch, n3.Branch)
	}
}

func TestBuildTreeOrphansChainUnderRoot(t *testing.T) {
	// When a real root exists, later parentless rows still join its tree as
	// a chronological chain rather than opening parallel roots.
	root, child, o1, o2 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	input := []*types.PageRevision{
		rev(root, nil, 500),
		rev(child, &root, 600),
		rev(o2, nil, 2000),
		rev(o1, nil, 1000),
	}

	nodes := BuildTree(input)
	if len(nodes) != 4 {
		t.Fatalf("len = %d, want 4", len(nodes))
	}

	nr := nodeFor(t, nodes, root)
	n1 := nodeFor(t, nodes, o1)
	n2 := nodeFor(t, nodes, o2)

	if nr.Depth != 0 {
		t.Fatalf("root depth = %d", nr.Depth)
	}
	if n1.Depth != 1 || n2.Depth != 2 {
		t.Fatalf("orphans not chained under root: depths %d, %d", n1.Depth, n2.Depth)
	}
	if len(nr.Children) != 2 {
		t.Fatalf("root children = %d, want real child + orphan chain head", len(nr.Children))
	}
	if len(n1.Children) != 1 || n1.Children[0] != n2 {
		t.Fatalf("orphan chain broken")
	}
	// The orphan chain head arrives after the real child, so it forks into
	// its own lane.
	if n1.Branch == nodeFor(t, nodes, child).Branch {
		t.Fatalf("orphan chain did not fork a lane")
	}
}

func TestBuildTreeDanglingParent(t *testing.T) {
	// A parent reference outside the set is treated as unparented.
	ghost := uuid.New()
	r1, r2 := uuid.New(), uuid.New()
	input := []*types.PageRevision{
		rev(r1, nil, 1000),
		rev(r2, &ghost, 2000),
	}
	nodes := BuildTree(input)
	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	n1, n2 := nodeFor(t, nodes, r1), nodeFor(t, nodes, r2)
	if n2.Depth != 1 {
		t.Fatalf("dangling-parent revision should chain under the root, depth = %d", n2.Depth)
	}
	if len(n1.Children) != 1 || n1.Children[0] != n2 {
		t.Fatalf("dangling-parent revision not attached to root")
	}
}

func TestBuildTreeCycleTerminates(t *testing.T) {
	// Two revisions naming each other as parent must not loop. Neither is
	// unparented, so no root exists and both drop out of the rendered tree.
	r1, r2, r3 := uuid.New(), uuid.New(), uuid.New()
	input := []*types.PageRevision{
		rev(r3, nil, 500),
		rev(r1, &r2, 1000),
		rev(r2, &r1, 2000),
	}
	nodes := BuildTree(input)
	if len(nodes) != 1 || nodes[0].Revision.ID != r3 {
		t.Fatalf("cycle handling wrong: got %d nodes", len(nodes))
	}
}

func TestBuildTreeSelfParent(t *testing.T) {
	r1 := uuid.New()
	input := []*types.PageRevision{rev(r1, &r1, 1000)}
	nodes := BuildTree(input)
	if len(nodes) != 1 || nodes[0].Depth != 0 {
		t.Fatalf("self-parent revision should be treated as unparented")
	}
}
