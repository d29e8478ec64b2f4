package route

import (
	"slices"

	"github.com/matzehuels/patchbay/pkg/patch"
)

// side identifies one lane group: all links departing from (DirOutput) or
// arriving at (DirInput) one node boundary.
type side struct {
	node patch.NodeID
	dir  patch.Direction
}

// laneRef is one link competing for a lane on a side, with the sort key the
// spec's rearrangement rule uses: the far endpoint's vertical position,
// tie-broken by creation order.
type laneRef struct {
	id     patch.LinkID
	farY   float64
	anchor patch.Point // this link's own anchor on the side
}

// computeLanes orders the links sharing a side and assigns each a lane
// index. Returns nil when the side is absent or unconnected.
func (r *Router) computeLanes(s side) map[patch.LinkID]int {
	refs := r.sideRefs(s)
	if len(refs) == 0 {
		return nil
	}

	slices.SortFunc(refs, func(a, b laneRef) int {
		if a.farY != b.farY {
			if a.farY < b.farY {
				return -1
			}
			return 1
		}
		return int(a.id - b.id)
	})

	lanes := make(map[patch.LinkID]int, len(refs))
	for i, ref := range refs {
		lanes[ref.id] = i
	}
	return lanes
}

// sideRefs collects every link touching the given node side.
func (r *Router) sideRefs(s side) []laneRef {
	n, ok := r.patch.Node(s.node)
	if !ok {
		return nil
	}

	var refs []laneRef
	switch s.dir {
	case patch.DirOutput:
		for i := range n.Outputs {
			addr := patch.Output(s.node, i)
			for _, id := range r.patch.LinksOut(addr) {
				if ref, ok := r.laneRef(id, n.OutputAnchor(i), patch.DirInput); ok {
					refs = append(refs, ref)
				}
			}
		}
	case patch.DirInput:
		for i := range n.Inputs {
			addr := patch.Input(s.node, i)
			if id, ok := r.patch.LinkInto(addr); ok {
				if ref, ok := r.laneRef(id, n.InputAnchor(i), patch.DirOutput); ok {
					refs = append(refs, ref)
				}
			}
		}
	}
	return refs
}

// laneRef resolves the far endpoint's anchor height for sorting.
func (r *Router) laneRef(id patch.LinkID, own patch.Point, farDir patch.Direction) (laneRef, bool) {
	l, ok := r.patch.Link(id)
	if !ok {
		return laneRef{}, false
	}
	far := l.To
	if farDir == patch.DirOutput {
		far = l.From
	}
	fn, ok := r.patch.Node(far.Node)
	if !ok {
		return laneRef{}, false
	}
	var anchor patch.Point
	if far.Dir == patch.DirOutput {
		anchor = fn.OutputAnchor(far.Index)
	} else {
		anchor = fn.InputAnchor(far.Index)
	}
	return laneRef{id: id, farY: anchor.Y, anchor: own}, true
}

// lanesEqual reports whether two lane assignments give every link the same
// lane. Used to skip re-routing siblings whose lane survived a change.
func lanesEqual(a, b map[patch.LinkID]int) bool {
	if len(a) != len(b) {
		return false
	}
	for id, lane := range a {
		if b[id] != lane {
			return false
		}
	}
	return true
}
