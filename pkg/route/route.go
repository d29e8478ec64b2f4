package route

import (
	"slices"

	"github.com/matzehuels/patchbay/pkg/patch"
)

// Config holds the routing geometry constants.
type Config struct {
	// StubLength is the minimum perpendicular run a wire makes when leaving
	// or approaching a port, before any bend.
	StubLength float64

	// LaneGap is the spacing between parallel lanes on a shared node side.
	LaneGap float64

	// Clearance is the gap kept from node boundaries when a wire has to
	// wrap around its endpoints (target left of source).
	Clearance float64
}

// DefaultConfig returns the routing constants used by the editor.
func DefaultConfig() Config {
	return Config{
		StubLength: 12,
		LaneGap:    8,
		Clearance:  16,
	}
}

// Router computes and caches wire paths for one patch. Create it with [New],
// which registers it as a patch observer; afterwards the cache tracks the
// patch automatically.
//
// Router is purely derivative of the patch's accepted state: it never
// rejects a topology and reports no errors, only updated path data.
type Router struct {
	cfg   Config
	patch *patch.Patch

	paths map[patch.LinkID][]patch.Point
	lanes map[side]map[patch.LinkID]int

	// endpoints remembers each routed link's sides so a deletion batch can
	// be processed after the link is gone from the model.
	endpoints map[patch.LinkID][2]side
}

// New creates a router bound to a patch, routes every existing link, and
// subscribes to the patch's change notifications.
func New(p *patch.Patch, cfg Config) *Router {
	if cfg.StubLength <= 0 {
		cfg = DefaultConfig()
	}
	r := &Router{
		cfg:       cfg,
		patch:     p,
		paths:     make(map[patch.LinkID][]patch.Point),
		lanes:     make(map[side]map[patch.LinkID]int),
		endpoints: make(map[patch.LinkID][2]side),
	}
	r.RouteAll()
	p.Observe(r)
	return r
}

// Path returns the cached polyline for a link, or nil if the link is
// unknown. The returned slice is the cache entry; treat it as read-only.
func (r *Router) Path(id patch.LinkID) []patch.Point {
	return r.paths[id]
}

// PathCount returns the number of cached paths (always the patch's link
// count once a change batch has been applied).
func (r *Router) PathCount() int { return len(r.paths) }

// RouteAll recomputes every lane assignment and every path from scratch.
// Mutations normally go through the incremental [Router.PatchChanged] path;
// this is for initial construction and document loads.
func (r *Router) RouteAll() {
	r.paths = make(map[patch.LinkID][]patch.Point)
	r.lanes = make(map[side]map[patch.LinkID]int)
	r.endpoints = make(map[patch.LinkID][2]side)

	for _, l := range r.patch.Links() {
		r.track(l)
	}
	for s := range r.sidesInUse() {
		r.lanes[s] = r.computeLanes(s)
	}
	for _, l := range r.patch.Links() {
		r.routeLink(l)
	}
}

// PatchChanged implements [patch.Observer]. It applies one mutation batch
// incrementally: only links named by the batch, plus same-side siblings
// whose lane assignment changed, are re-routed.
func (r *Router) PatchChanged(c patch.Change) {
	dirty := make(map[side]bool)
	force := make(map[patch.LinkID]bool)

	for _, id := range c.LinksRemoved {
		if sides, ok := r.endpoints[id]; ok {
			dirty[sides[0]] = true
			dirty[sides[1]] = true
			delete(r.endpoints, id)
		}
		delete(r.paths, id)
	}

	for _, id := range c.LinksAdded {
		l, ok := r.patch.Link(id)
		if !ok {
			continue
		}
		sides := r.track(l)
		dirty[sides[0]] = true
		dirty[sides[1]] = true
		force[id] = true
	}

	for _, nid := range c.Moved {
		// The moved node's own sides re-lane, and so do the far sides of
		// its incident links: their ordering key is this node's height.
		dirty[side{node: nid, dir: patch.DirInput}] = true
		dirty[side{node: nid, dir: patch.DirOutput}] = true
		for _, id := range r.patch.IncidentLinks(nid) {
			force[id] = true
			if sides, ok := r.endpoints[id]; ok {
				dirty[sides[0]] = true
				dirty[sides[1]] = true
			}
		}
	}

	for s := range dirty {
		fresh := r.computeLanes(s)
		if lanesEqual(r.lanes[s], fresh) {
			continue
		}
		old := r.lanes[s]
		for id, lane := range fresh {
			if oldLane, ok := old[id]; !ok || oldLane != lane {
				force[id] = true
			}
		}
		if fresh == nil {
			delete(r.lanes, s)
		} else {
			r.lanes[s] = fresh
		}
	}

	for id := range force {
		if l, ok := r.patch.Link(id); ok {
			r.routeLink(l)
		}
	}
}

// track records a link's sides in the endpoint index.
func (r *Router) track(l *patch.Link) [2]side {
	sides := [2]side{
		{node: l.From.Node, dir: patch.DirOutput},
		{node: l.To.Node, dir: patch.DirInput},
	}
	r.endpoints[l.ID] = sides
	return sides
}

// sidesInUse returns the set of sides touched by at least one link.
func (r *Router) sidesInUse() map[side]bool {
	sides := make(map[side]bool)
	for _, s := range r.endpoints {
		sides[s[0]] = true
		sides[s[1]] = true
	}
	return sides
}

// routeLink computes a link's polyline and stores it in the cache and on the
// model's link entry.
func (r *Router) routeLink(l *patch.Link) {
	src, ok := r.patch.Node(l.From.Node)
	if !ok {
		return
	}
	dst, ok := r.patch.Node(l.To.Node)
	if !ok {
		return
	}

	start := src.OutputAnchor(l.From.Index)
	end := dst.InputAnchor(l.To.Index)

	outLane := r.lanes[side{node: l.From.Node, dir: patch.DirOutput}][l.ID]
	inLane := r.lanes[side{node: l.To.Node, dir: patch.DirInput}][l.ID]

	outReach := start.X + r.cfg.StubLength + float64(outLane)*r.cfg.LaneGap
	inReach := end.X - r.cfg.StubLength - float64(inLane)*r.cfg.LaneGap

	var path []patch.Point
	switch {
	case start.Y == end.Y && outReach <= inReach:
		// Straight shot.
		path = []patch.Point{start, end}
	case outReach <= inReach:
		// Z route: out, across the gap, in.
		path = []patch.Point{
			start,
			{X: outReach, Y: start.Y},
			{X: outReach, Y: end.Y},
			end,
		}
	default:
		// Target is behind the source: wrap around both nodes.
		wy := r.wrapHeight(src, dst)
		path = []patch.Point{
			start,
			{X: outReach, Y: start.Y},
			{X: outReach, Y: wy},
			{X: inReach, Y: wy},
			{X: inReach, Y: end.Y},
			end,
		}
	}

	path = dedupe(path)
	r.paths[l.ID] = path
	r.patch.SetLinkPath(l.ID, path)
}

// wrapHeight picks the horizontal corridor for a wrapped route: through the
// vertical gap between the nodes when one exists, otherwise below both.
func (r *Router) wrapHeight(src, dst *patch.Node) float64 {
	srcTop, srcBottom := src.Pos.Y, src.Pos.Y+src.Height()
	dstTop, dstBottom := dst.Pos.Y, dst.Pos.Y+dst.Height()

	if srcBottom+2*r.cfg.Clearance <= dstTop {
		return (srcBottom + dstTop) / 2
	}
	if dstBottom+2*r.cfg.Clearance <= srcTop {
		return (dstBottom + srcTop) / 2
	}
	return max(srcBottom, dstBottom) + r.cfg.Clearance
}

// dedupe collapses consecutive identical waypoints.
func dedupe(path []patch.Point) []patch.Point {
	return slices.Compact(path)
}
