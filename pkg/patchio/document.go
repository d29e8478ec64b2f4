package patchio

import (
	"github.com/google/uuid"

	"github.com/matzehuels/patchbay/pkg/patch"
)

// FormatVersion is the current document schema version. Load accepts
// documents at this version only; 0 is tolerated for hand-written files.
const FormatVersion = 1

// Document is the persisted snapshot of a patch: enough to reconstruct the
// graph, nothing more. Routed wire paths are derived state and deliberately
// not persisted.
type Document struct {
	Version int       `json:"version"`
	ID      string    `json:"id,omitempty"` // stable document identity (UUID)
	Nodes   []NodeDoc `json:"nodes"`
	Links   []LinkDoc `json:"links,omitempty"`
}

// NodeDoc is one persisted node.
type NodeDoc struct {
	ID     int            `json:"id"`
	Block  string         `json:"block"`
	Pos    patch.Point    `json:"pos"`
	Params map[string]any `json:"params,omitempty"`
}

// LinkDoc is one persisted link, addressed by (node, port ordinal) pairs.
// The from side is always an output port and the to side an input port.
type LinkDoc struct {
	From PortRef `json:"from"`
	To   PortRef `json:"to"`
}

// PortRef addresses a port within a document.
type PortRef struct {
	Node int `json:"node"`
	Port int `json:"port"`
}

// Save produces a document snapshot of the patch. It is total: every patch
// satisfying the model invariants serializes successfully. Nodes and links
// are emitted sorted by id for deterministic output; the document gets a
// fresh UUID identity.
func Save(p *patch.Patch) Document {
	doc := Document{
		Version: FormatVersion,
		ID:      uuid.NewString(),
		Nodes:   make([]NodeDoc, 0, p.NodeCount()),
		Links:   make([]LinkDoc, 0, p.LinkCount()),
	}

	for _, n := range p.Nodes() {
		nd := NodeDoc{
			ID:    int(n.ID),
			Block: n.BlockType,
			Pos:   n.Pos,
		}
		if len(n.Params) > 0 {
			nd.Params = make(map[string]any, len(n.Params))
			for k, v := range n.Params {
				nd.Params[k] = v
			}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, l := range p.Links() {
		doc.Links = append(doc.Links, LinkDoc{
			From: PortRef{Node: int(l.From.Node), Port: l.From.Index},
			To:   PortRef{Node: int(l.To.Node), Port: l.To.Index},
		})
	}

	return doc
}
