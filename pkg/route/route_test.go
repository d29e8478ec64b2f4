package route

import (
	"slices"
	"testing"

	"github.com/matzehuels/patchbay/pkg/patch"
	"github.com/matzehuels/patchbay/pkg/porttype"
	"github.com/matzehuels/patchbay/pkg/registry"
)

func testPatch(t *testing.T) *patch.Patch {
	t.Helper()
	r := registry.New()
	blocks := map[string]registry.Template{
		"Const": {
			Category: "Sources",
			Outputs:  []porttype.Type{porttype.Float()},
		},
		"Sink": {
			Category: "Sinks",
			Inputs:   []porttype.Type{porttype.Float()},
		},
		"Mixer": {
			Category: "Math",
			Inputs:   []porttype.Type{porttype.Float(), porttype.Float(), porttype.Float()},
			Outputs:  []porttype.Type{porttype.Float()},
		},
	}
	for id, tmpl := range blocks {
		if err := r.Register(id, tmpl); err != nil {
			t.Fatalf("Register(%s) error = %v", id, err)
		}
	}
	return patch.New(r, nil)
}

func addNode(t *testing.T, p *patch.Patch, blockType string, x, y float64) patch.NodeID {
	t.Helper()
	id, err := p.AddNode(blockType, patch.Point{X: x, Y: y})
	if err != nil {
		t.Fatalf("AddNode(%s) error = %v", blockType, err)
	}
	return id
}

func connect(t *testing.T, p *patch.Patch, from, to patch.PortAddr) patch.LinkID {
	t.Helper()
	res, err := p.Connect(from, to)
	if err != nil {
		t.Fatalf("Connect(%s, %s) error = %v", from, to, err)
	}
	return res.Link
}

// assertOrthogonal fails unless every segment of the path is axis-aligned.
func assertOrthogonal(t *testing.T, path []patch.Point) {
	t.Helper()
	if len(path) < 2 {
		t.Fatalf("path too short: %v", path)
	}
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if a.X != b.X && a.Y != b.Y {
			t.Errorf("segment %v → %v is not axis-aligned", a, b)
		}
	}
}

func TestRouter_EveryLinkHasAPath(t *testing.T) {
	p := testPatch(t)
	a := addNode(t, p, "Const", 0, 0)
	b := addNode(t, p, "Const", 0, 200)
	m := addNode(t, p, "Mixer", 300, 80)
	s := addNode(t, p, "Sink", 600, 100)

	connect(t, p, patch.Output(a, 0), patch.Input(m, 0))
	connect(t, p, patch.Output(b, 0), patch.Input(m, 1))
	connect(t, p, patch.Output(m, 0), patch.Input(s, 0))

	r := New(p, DefaultConfig())

	if r.PathCount() != p.LinkCount() {
		t.Fatalf("PathCount = %d, want %d", r.PathCount(), p.LinkCount())
	}
	for _, l := range p.Links() {
		path := r.Path(l.ID)
		assertOrthogonal(t, path)

		src, _ := p.Node(l.From.Node)
		dst, _ := p.Node(l.To.Node)
		if path[0] != src.OutputAnchor(l.From.Index) {
			t.Errorf("link %d starts at %v, want output anchor", l.ID, path[0])
		}
		if path[len(path)-1] != dst.InputAnchor(l.To.Index) {
			t.Errorf("link %d ends at %v, want input anchor", l.ID, path[len(path)-1])
		}
		if l.Path == nil {
			t.Errorf("link %d: model path not written through", l.ID)
		}
	}
}

func TestRouter_TracksLiveMutations(t *testing.T) {
	p := testPatch(t)
	r := New(p, DefaultConfig())

	a := addNode(t, p, "Const", 0, 0)
	s := addNode(t, p, "Sink", 300, 0)
	id := connect(t, p, patch.Output(a, 0), patch.Input(s, 0))

	if r.Path(id) == nil {
		t.Fatal("router did not route a link added after construction")
	}

	if err := p.Disconnect(id); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if r.Path(id) != nil {
		t.Error("router kept a path for a removed link")
	}
	if r.PathCount() != 0 {
		t.Errorf("PathCount = %d, want 0", r.PathCount())
	}
}

func TestRouter_MoveReroutesOnlyIncidentLinks(t *testing.T) {
	p := testPatch(t)
	a := addNode(t, p, "Const", 0, 0)
	s1 := addNode(t, p, "Sink", 300, 0)
	c := addNode(t, p, "Const", 0, 400)
	s2 := addNode(t, p, "Sink", 300, 400)

	touched := connect(t, p, patch.Output(a, 0), patch.Input(s1, 0))
	unrelated := connect(t, p, patch.Output(c, 0), patch.Input(s2, 0))

	r := New(p, DefaultConfig())
	before := slices.Clone(r.Path(unrelated))
	touchedBefore := slices.Clone(r.Path(touched))

	if err := p.MoveNode(a, patch.Point{X: 0, Y: 120}); err != nil {
		t.Fatalf("MoveNode() error = %v", err)
	}

	if !slices.Equal(r.Path(unrelated), before) {
		t.Error("unrelated link path changed after a move elsewhere")
	}
	if slices.Equal(r.Path(touched), touchedBefore) {
		t.Error("incident link path did not change after its source moved")
	}
}

func TestRouter_LaneAssignmentOnSharedEntrySide(t *testing.T) {
	p := testPatch(t)
	top := addNode(t, p, "Const", 0, 0)
	bottom := addNode(t, p, "Const", 0, 300)
	m := addNode(t, p, "Mixer", 400, 100)

	// Cross the inputs on purpose: the top source feeds the lower input.
	lTop := connect(t, p, patch.Output(top, 0), patch.Input(m, 2))
	lBottom := connect(t, p, patch.Output(bottom, 0), patch.Input(m, 0))

	r := New(p, DefaultConfig())

	lanes := r.lanes[side{node: m, dir: patch.DirInput}]
	if len(lanes) != 2 {
		t.Fatalf("entry side lanes = %v, want 2 entries", lanes)
	}
	// The link from the higher far endpoint gets the lower lane index.
	if lanes[lTop] >= lanes[lBottom] {
		t.Errorf("lanes = %v: link from top source should take the first lane", lanes)
	}
	if lanes[lTop] == lanes[lBottom] {
		t.Error("links sharing a side must occupy distinct lanes")
	}
}

func TestRouter_LaneTieBreakByCreationOrder(t *testing.T) {
	p := testPatch(t)
	// Two sources at the same height feeding one mixer: far endpoint Y ties.
	a := addNode(t, p, "Const", 0, 100)
	b := addNode(t, p, "Const", 0, 100)
	m := addNode(t, p, "Mixer", 400, 100)

	first := connect(t, p, patch.Output(a, 0), patch.Input(m, 0))
	second := connect(t, p, patch.Output(b, 0), patch.Input(m, 1))

	r := New(p, DefaultConfig())
	lanes := r.lanes[side{node: m, dir: patch.DirInput}]
	if lanes[first] != 0 || lanes[second] != 1 {
		t.Errorf("lanes = %v, want creation order to break the tie", lanes)
	}
}

func TestRouter_SharedExitSideGetsDistinctReaches(t *testing.T) {
	p := testPatch(t)
	src := addNode(t, p, "Const", 0, 100)
	s1 := addNode(t, p, "Sink", 400, 0)
	s2 := addNode(t, p, "Sink", 400, 300)

	l1 := connect(t, p, patch.Output(src, 0), patch.Input(s1, 0))
	l2 := connect(t, p, patch.Output(src, 0), patch.Input(s2, 0))

	r := New(p, DefaultConfig())

	p1, p2 := r.Path(l1), r.Path(l2)
	assertOrthogonal(t, p1)
	assertOrthogonal(t, p2)

	// Both depart the same anchor; their first bend must sit at different
	// horizontal reaches so the vertical runs do not overlap.
	if len(p1) < 3 || len(p2) < 3 {
		t.Fatalf("expected bent paths, got %v and %v", p1, p2)
	}
	if p1[1].X == p2[1].X {
		t.Errorf("shared exit side: both links bend at x=%v", p1[1].X)
	}
}

func TestRouter_RemovalRelanesSharedSideOnly(t *testing.T) {
	p := testPatch(t)
	src := addNode(t, p, "Const", 0, 100)
	s1 := addNode(t, p, "Sink", 400, 0)
	s2 := addNode(t, p, "Sink", 400, 300)
	c := addNode(t, p, "Const", 0, 600)
	s3 := addNode(t, p, "Sink", 400, 600)

	l1 := connect(t, p, patch.Output(src, 0), patch.Input(s1, 0))
	l2 := connect(t, p, patch.Output(src, 0), patch.Input(s2, 0))
	unrelated := connect(t, p, patch.Output(c, 0), patch.Input(s3, 0))

	r := New(p, DefaultConfig())
	unrelatedBefore := slices.Clone(r.Path(unrelated))
	l2Before := slices.Clone(r.Path(l2))

	if err := p.Disconnect(l1); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}

	if !slices.Equal(r.Path(unrelated), unrelatedBefore) {
		t.Error("unrelated link rerouted by a removal elsewhere")
	}
	if slices.Equal(r.Path(l2), l2Before) {
		t.Error("sibling on the shared exit side should re-lane after removal")
	}
}

func TestRouter_BackwardLinkWrapsAroundNodes(t *testing.T) {
	p := testPatch(t)
	// Target sits to the left of the source: the wire must wrap.
	src := addNode(t, p, "Const", 400, 100)
	dst := addNode(t, p, "Sink", 0, 100)

	id := connect(t, p, patch.Output(src, 0), patch.Input(dst, 0))
	r := New(p, DefaultConfig())

	path := r.Path(id)
	assertOrthogonal(t, path)
	if len(path) < 5 {
		t.Fatalf("wrapped path = %v, want at least 5 waypoints", path)
	}

	srcNode, _ := p.Node(src)
	corridorY := path[2].Y
	if corridorY > srcNode.Pos.Y && corridorY < srcNode.Pos.Y+srcNode.Height() {
		t.Errorf("wrap corridor y=%v runs through the source node", corridorY)
	}
}

func TestRouter_StraightLineWhenAligned(t *testing.T) {
	p := testPatch(t)
	src := addNode(t, p, "Const", 0, 100)
	dst := addNode(t, p, "Sink", 400, 100)

	id := connect(t, p, patch.Output(src, 0), patch.Input(dst, 0))
	r := New(p, DefaultConfig())

	srcNode, _ := p.Node(src)
	dstNode, _ := p.Node(dst)
	if srcNode.OutputAnchor(0).Y == dstNode.InputAnchor(0).Y {
		if got := len(r.Path(id)); got != 2 {
			t.Errorf("aligned ports: path has %d waypoints, want 2", got)
		}
	}
}

func TestRouter_RouteAllAfterLoad(t *testing.T) {
	p := testPatch(t)
	a := addNode(t, p, "Const", 0, 0)
	s := addNode(t, p, "Sink", 300, 0)
	id := connect(t, p, patch.Output(a, 0), patch.Input(s, 0))

	r := New(p, DefaultConfig())
	first := slices.Clone(r.Path(id))

	r.RouteAll()
	if !slices.Equal(r.Path(id), first) {
		t.Error("RouteAll is not deterministic for an unchanged patch")
	}
}
