package patch

import (
	"fmt"

	"github.com/matzehuels/patchbay/pkg/porttype"
	"github.com/matzehuels/patchbay/pkg/registry"
)

// NodeID identifies a node within one patch. Ids are assigned sequentially
// starting at 1 and never reused within a session; 0 is never a valid id.
type NodeID int

// LinkID identifies a link within one patch. Ids are assigned sequentially
// starting at 1 and never reused within a session; 0 is never a valid id.
type LinkID int

// Direction distinguishes input ports from output ports.
type Direction int

const (
	// DirInput marks a port that receives data (at most one incoming link).
	DirInput Direction = iota + 1
	// DirOutput marks a port that produces data (any number of outgoing links).
	DirOutput
)

// String returns "in" or "out".
func (d Direction) String() string {
	switch d {
	case DirInput:
		return "in"
	case DirOutput:
		return "out"
	default:
		return fmt.Sprintf("dir(%d)", int(d))
	}
}

// Point is a position on the canvas in user units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PortAddr addresses a single port: the owning node, the port's direction,
// and its ordinal within that direction. Addresses are stable for the life
// of the node and unique within the patch.
type PortAddr struct {
	Node  NodeID
	Dir   Direction
	Index int
}

// String formats the address as "node3.in0" / "node3.out1".
func (a PortAddr) String() string {
	return fmt.Sprintf("node%d.%s%d", a.Node, a.Dir, a.Index)
}

// Input returns the address of input port index on node id.
func Input(id NodeID, index int) PortAddr {
	return PortAddr{Node: id, Dir: DirInput, Index: index}
}

// Output returns the address of output port index on node id.
func Output(id NodeID, index int) PortAddr {
	return PortAddr{Node: id, Dir: DirOutput, Index: index}
}

// Port is a typed attachment point on a node. Ports are owned by their node
// and have no independent lifetime.
type Port struct {
	Type porttype.Type
}

// Default node footprint. Height grows with the port count so that anchors
// stay distinct on the node boundary.
const (
	nodeWidth      = 128.0
	nodeBaseHeight = 32.0
	portPitch      = 20.0
)

// Node is one processing-block instance on the canvas. Ports and parameter
// definitions are the node's own copies of the registry template it was
// instantiated from; unregistering or replacing the block type later does
// not affect the node.
//
// Position and parameter values must be changed through [Patch.MoveNode] and
// [Patch.SetParameter] so observers are notified and constraints enforced.
type Node struct {
	ID        NodeID
	BlockType string
	Category  string
	Pos       Point
	Inputs    []Port
	Outputs   []Port
	Params    map[string]any

	defs []registry.ParamDef
}

// newNode builds a node from an instantiated template copy.
func newNode(id NodeID, blockType string, tmpl registry.Template, pos Point) (*Node, error) {
	params, err := tmpl.DefaultParams()
	if err != nil {
		return nil, err
	}
	n := &Node{
		ID:        id,
		BlockType: blockType,
		Category:  tmpl.Category,
		Pos:       pos,
		Inputs:    make([]Port, len(tmpl.Inputs)),
		Outputs:   make([]Port, len(tmpl.Outputs)),
		Params:    params,
		defs:      tmpl.Params,
	}
	for i, typ := range tmpl.Inputs {
		n.Inputs[i] = Port{Type: typ}
	}
	for i, typ := range tmpl.Outputs {
		n.Outputs[i] = Port{Type: typ}
	}
	return n, nil
}

// ParamDef returns the node's own copy of the named parameter definition.
func (n *Node) ParamDef(name string) (registry.ParamDef, bool) {
	for _, d := range n.defs {
		if d.Name == name {
			return d, true
		}
	}
	return registry.ParamDef{}, false
}

// ParamDefs returns the node's parameter definitions in declaration order.
// The returned slice is a read-only view.
func (n *Node) ParamDefs() []registry.ParamDef { return n.defs }

// Width returns the horizontal extent of the node's canvas footprint.
func (n *Node) Width() float64 { return nodeWidth }

// Height returns the vertical extent of the node's canvas footprint.
// It scales with the larger port count so anchors never collide.
func (n *Node) Height() float64 {
	ports := max(len(n.Inputs), len(n.Outputs))
	if ports < 1 {
		ports = 1
	}
	return nodeBaseHeight + portPitch*float64(ports-1)
}

// InputAnchor returns the canvas point where input port i attaches, on the
// node's left boundary. Anchors are evenly spaced along the side.
func (n *Node) InputAnchor(i int) Point {
	return Point{X: n.Pos.X, Y: n.anchorY(i, len(n.Inputs))}
}

// OutputAnchor returns the canvas point where output port i attaches, on the
// node's right boundary.
func (n *Node) OutputAnchor(i int) Point {
	return Point{X: n.Pos.X + n.Width(), Y: n.anchorY(i, len(n.Outputs))}
}

func (n *Node) anchorY(i, count int) float64 {
	if count <= 0 {
		count = 1
	}
	return n.Pos.Y + n.Height()*float64(i+1)/float64(count+1)
}

// port returns the port at addr if it exists on this node.
func (n *Node) port(addr PortAddr) (Port, bool) {
	switch addr.Dir {
	case DirInput:
		if addr.Index >= 0 && addr.Index < len(n.Inputs) {
			return n.Inputs[addr.Index], true
		}
	case DirOutput:
		if addr.Index >= 0 && addr.Index < len(n.Outputs) {
			return n.Outputs[addr.Index], true
		}
	}
	return Port{}, false
}

// Link is a directed edge from one output port to one input port. The Path
// field is the link's routed polyline: it is regenerated by the wire router
// and opaque to the patch model itself.
type Link struct {
	ID   LinkID
	From PortAddr // always an output port
	To   PortAddr // always an input port
	Path []Point
}
