package patch

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/patchbay/pkg/porttype"
	"github.com/matzehuels/patchbay/pkg/registry"
)

var (
	// ErrNodeNotFound is returned when an operation references a node id
	// that is not present in the patch.
	ErrNodeNotFound = errors.New("node not found")

	// ErrPortNotFound is returned by [Patch.Connect] when a port address
	// does not resolve to an existing port.
	ErrPortNotFound = errors.New("port not found")

	// ErrLinkNotFound is returned by [Patch.Disconnect] when the link id is
	// not present in the patch.
	ErrLinkNotFound = errors.New("link not found")

	// ErrDirectionMismatch is returned by [Patch.Connect] when the claimed
	// directions do not pair an output with an input.
	ErrDirectionMismatch = errors.New("connection must pair an output with an input")

	// ErrSelfConnection is returned by [Patch.Connect] when both ports
	// belong to the same node.
	ErrSelfConnection = errors.New("cannot connect a node to itself")

	// ErrTypeMismatch is returned by [Patch.Connect] when the port types are
	// incompatible, and by [Patch.SetParameter] when a value violates the
	// parameter's declared type or constraints.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnknownParameter is returned by [Patch.SetParameter] when the node
	// declares no parameter with the given name.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// ConnectResult reports the outcome of a successful [Patch.Connect]:
// the id of the created link and, when the input port was already occupied,
// the id of the link that was implicitly removed to make room.
type ConnectResult struct {
	Link     LinkID
	Replaced LinkID // 0 when no link was displaced
}

// Patch is the graph model: an arena of nodes and links keyed by stable
// integer ids. The registry and type rules are injected at construction;
// there is no hidden process-wide state.
//
// Patch is not safe for concurrent use - the editor drives all mutations
// from a single interaction thread.
type Patch struct {
	registry *registry.Registry
	rules    *porttype.Rules

	nodes    map[NodeID]*Node
	links    map[LinkID]*Link
	inbound  map[PortAddr]LinkID   // input port -> its single incoming link
	outbound map[PortAddr][]LinkID // output port -> outgoing links

	nextNode NodeID
	nextLink LinkID

	observers []Observer
}

// New creates an empty patch bound to a block registry and type rules.
// A nil rules table means exact-match compatibility plus the default
// widening conversions.
func New(reg *registry.Registry, rules *porttype.Rules) *Patch {
	if rules == nil {
		rules = porttype.DefaultRules()
	}
	return &Patch{
		registry: reg,
		rules:    rules,
		nodes:    make(map[NodeID]*Node),
		links:    make(map[LinkID]*Link),
		inbound:  make(map[PortAddr]LinkID),
		outbound: make(map[PortAddr][]LinkID),
	}
}

// Registry returns the block registry the patch instantiates from.
func (p *Patch) Registry() *registry.Registry { return p.registry }

// Rules returns the type compatibility rules in effect.
func (p *Patch) Rules() *porttype.Rules { return p.rules }

// =============================================================================
// Mutations
// =============================================================================

// AddNode instantiates a node of the given block type at the given canvas
// position and returns its fresh id. Returns registry.ErrUnknownBlockType if
// the block type is not registered.
func (p *Patch) AddNode(blockType string, pos Point) (NodeID, error) {
	tmpl, err := p.registry.Instantiate(blockType)
	if err != nil {
		return 0, err
	}
	p.nextNode++
	n, err := newNode(p.nextNode, blockType, tmpl, pos)
	if err != nil {
		p.nextNode--
		return 0, err
	}
	p.nodes[n.ID] = n
	p.notify(Change{NodesAdded: []NodeID{n.ID}})
	return n.ID, nil
}

// RemoveNode deletes the node and every link touching any of its ports.
// The removed link ids are returned (sorted) so the router and UI can react.
// Returns ErrNodeNotFound if the id is absent.
func (p *Patch) RemoveNode(id NodeID) ([]LinkID, error) {
	n, ok := p.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	removed := p.incidentLinks(n)
	for _, lid := range removed {
		p.dropLink(p.links[lid])
	}
	delete(p.nodes, id)

	p.notify(Change{NodesRemoved: []NodeID{id}, LinksRemoved: removed})
	return removed, nil
}

// Connect validates and creates a link from an output port to an input port.
//
// Failure modes, checked in order: ErrPortNotFound (either address does not
// resolve), ErrDirectionMismatch (the pair is not output→input),
// ErrSelfConnection (both ports on one node), ErrTypeMismatch (the type
// rules reject the pairing). On any failure the patch is unchanged.
//
// If the input port already has an incoming link it is implicitly removed
// first and reported in the result - replace-on-connect is policy, not an
// error.
func (p *Patch) Connect(from, to PortAddr) (ConnectResult, error) {
	outPort, err := p.resolvePort(from)
	if err != nil {
		return ConnectResult{}, err
	}
	inPort, err := p.resolvePort(to)
	if err != nil {
		return ConnectResult{}, err
	}
	if from.Dir != DirOutput || to.Dir != DirInput {
		return ConnectResult{}, fmt.Errorf("%w: %s → %s", ErrDirectionMismatch, from, to)
	}
	if from.Node == to.Node {
		return ConnectResult{}, fmt.Errorf("%w: %s → %s", ErrSelfConnection, from, to)
	}
	if !p.rules.CanConnect(outPort.Type, inPort.Type) {
		return ConnectResult{}, fmt.Errorf("%w: %s (%s) → %s (%s)",
			ErrTypeMismatch, from, outPort.Type, to, inPort.Type)
	}

	var result ConnectResult
	change := Change{}

	if old, occupied := p.inbound[to]; occupied {
		p.dropLink(p.links[old])
		result.Replaced = old
		change.LinksRemoved = []LinkID{old}
	}

	p.nextLink++
	l := &Link{ID: p.nextLink, From: from, To: to}
	p.links[l.ID] = l
	p.inbound[to] = l.ID
	p.outbound[from] = append(p.outbound[from], l.ID)

	result.Link = l.ID
	change.LinksAdded = []LinkID{l.ID}
	p.notify(change)
	return result, nil
}

// Disconnect removes a link. Returns ErrLinkNotFound if the id is absent.
func (p *Patch) Disconnect(id LinkID) error {
	l, ok := p.links[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrLinkNotFound, id)
	}
	p.dropLink(l)
	p.notify(Change{LinksRemoved: []LinkID{id}})
	return nil
}

// MoveNode updates a node's canvas position and notifies observers so the
// router re-routes the links incident on it. Returns ErrNodeNotFound if the
// id is absent.
func (p *Patch) MoveNode(id NodeID, pos Point) error {
	n, ok := p.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	n.Pos = pos
	p.notify(Change{Moved: []NodeID{id}})
	return nil
}

// SetParameter validates a value against the node's own parameter definition
// (declared type plus any range or enum constraint) and stores it in
// canonical form. Returns ErrNodeNotFound, ErrUnknownParameter, or
// ErrTypeMismatch wrapping the violation detail.
func (p *Patch) SetParameter(id NodeID, name string, value any) error {
	n, ok := p.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	def, ok := n.ParamDef(name)
	if !ok {
		return fmt.Errorf("%w: %s on node %d", ErrUnknownParameter, name, id)
	}
	v, err := def.Normalize(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	n.Params[name] = v
	return nil
}

// SetLinkPath stores a routed polyline on a link. The path is produced by
// the wire router; the model only holds it. Unknown ids are ignored - the
// router may race a deletion batch it has not processed yet.
func (p *Patch) SetLinkPath(id LinkID, path []Point) {
	if l, ok := p.links[id]; ok {
		l.Path = path
	}
}

// =============================================================================
// Queries
// =============================================================================

// Node returns the node with the given id. The pointer refers to the live
// node; treat it as read-only and mutate through patch operations.
func (p *Patch) Node(id NodeID) (*Node, bool) {
	n, ok := p.nodes[id]
	return n, ok
}

// Link returns the link with the given id.
func (p *Patch) Link(id LinkID) (*Link, bool) {
	l, ok := p.links[id]
	return l, ok
}

// Nodes returns all nodes sorted by id.
func (p *Patch) Nodes() []*Node {
	ids := slices.Sorted(maps.Keys(p.nodes))
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = p.nodes[id]
	}
	return nodes
}

// Links returns all links sorted by id.
func (p *Patch) Links() []*Link {
	ids := slices.Sorted(maps.Keys(p.links))
	links := make([]*Link, len(ids))
	for i, id := range ids {
		links[i] = p.links[id]
	}
	return links
}

// NodeCount returns the number of nodes in the patch.
func (p *Patch) NodeCount() int { return len(p.nodes) }

// LinkCount returns the number of links in the patch.
func (p *Patch) LinkCount() int { return len(p.links) }

// IncidentLinks returns the ids of every link touching any port of the node,
// sorted. Returns nil if the node is absent or unconnected.
func (p *Patch) IncidentLinks(id NodeID) []LinkID {
	n, ok := p.nodes[id]
	if !ok {
		return nil
	}
	return p.incidentLinks(n)
}

// LinkInto returns the id of the link feeding the given input port, if any.
func (p *Patch) LinkInto(addr PortAddr) (LinkID, bool) {
	id, ok := p.inbound[addr]
	return id, ok
}

// LinksOut returns the ids of links leaving the given output port.
// The returned slice is a read-only view in creation order.
func (p *Patch) LinksOut(addr PortAddr) []LinkID {
	return p.outbound[addr]
}

// InDegree returns the number of links into the given input port (0 or 1).
func (p *Patch) InDegree(addr PortAddr) int {
	if _, ok := p.inbound[addr]; ok {
		return 1
	}
	return 0
}

// =============================================================================
// Integrity
// =============================================================================

// Validate re-checks the structural invariants and returns the first
// violation found, or nil. A patch mutated only through its operations
// always validates; this exists for load paths and tests.
func (p *Patch) Validate() error {
	for id, l := range p.links {
		if l.From.Dir != DirOutput || l.To.Dir != DirInput {
			return fmt.Errorf("link %d: %w", id, ErrDirectionMismatch)
		}
		if l.From.Node == l.To.Node {
			return fmt.Errorf("link %d: %w", id, ErrSelfConnection)
		}
		outPort, err := p.resolvePort(l.From)
		if err != nil {
			return fmt.Errorf("link %d: %w", id, err)
		}
		inPort, err := p.resolvePort(l.To)
		if err != nil {
			return fmt.Errorf("link %d: %w", id, err)
		}
		if !p.rules.CanConnect(outPort.Type, inPort.Type) {
			return fmt.Errorf("link %d: %w", id, ErrTypeMismatch)
		}
	}

	seen := make(map[PortAddr]LinkID, len(p.links))
	for id, l := range p.links {
		if other, dup := seen[l.To]; dup {
			return fmt.Errorf("input %s fed by links %d and %d", l.To, other, id)
		}
		seen[l.To] = id
	}
	return nil
}

// =============================================================================
// Internal helpers
// =============================================================================

func (p *Patch) resolvePort(addr PortAddr) (Port, error) {
	n, ok := p.nodes[addr.Node]
	if !ok {
		return Port{}, fmt.Errorf("%w: %s", ErrPortNotFound, addr)
	}
	port, ok := n.port(addr)
	if !ok {
		return Port{}, fmt.Errorf("%w: %s", ErrPortNotFound, addr)
	}
	return port, nil
}

// incidentLinks collects the sorted ids of all links touching the node.
func (p *Patch) incidentLinks(n *Node) []LinkID {
	var ids []LinkID
	for i := range n.Inputs {
		if id, ok := p.inbound[Input(n.ID, i)]; ok {
			ids = append(ids, id)
		}
	}
	for i := range n.Outputs {
		ids = append(ids, p.outbound[Output(n.ID, i)]...)
	}
	slices.Sort(ids)
	return ids
}

// dropLink removes a link from the arena and both port indices.
func (p *Patch) dropLink(l *Link) {
	delete(p.links, l.ID)
	delete(p.inbound, l.To)
	p.outbound[l.From] = slices.DeleteFunc(p.outbound[l.From], func(id LinkID) bool {
		return id == l.ID
	})
	if len(p.outbound[l.From]) == 0 {
		delete(p.outbound, l.From)
	}
}
