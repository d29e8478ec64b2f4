// Package export converts patches to external formats.
//
// Two formats are supported:
//   - DOT: Graphviz source, suitable for further processing
//   - SVG: rendered via Graphviz, suitable for display
//
// The exported diagram shows blocks as boxes and wires as edges labelled
// with their port indices. Routed wire geometry is not carried over; the
// Graphviz layout engine positions the exported diagram independently.
package export
