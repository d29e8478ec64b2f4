// Package route derives the visual wire paths for a patch and keeps them
// current as nodes move.
//
// Every link is routed as an orthogonal (axis-aligned) polyline that leaves
// the output port perpendicular to the node's right boundary and arrives
// perpendicular to the input port on the target's left boundary. When several
// links share a node side they are assigned parallel lanes - ordered by the
// far endpoint's vertical position, tie-broken by link creation order - so
// wires never overlap at the point of departure or arrival.
//
// The router is incremental. It observes the patch
// ([Router.PatchChanged]); a mutation batch re-routes only the links it
// names plus same-side siblings whose lane assignment actually changed.
// Cached paths of unaffected links are left untouched, so the cost of a drag
// interaction is bounded by the moved node's incident-link degree, not the
// graph size.
//
// Routing is total: it never rejects a topology the patch has accepted and
// has no error channel - there is always some path for every link.
package route
