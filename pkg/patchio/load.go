package patchio

import (
	"errors"
	"fmt"

	"github.com/matzehuels/patchbay/pkg/patch"
	"github.com/matzehuels/patchbay/pkg/porttype"
	"github.com/matzehuels/patchbay/pkg/registry"
)

var (
	// ErrMalformedDocument is returned by [Load] and the decode functions
	// when a document is structurally corrupt: bad JSON, unsupported
	// version, duplicate node ids, or links referencing missing ports.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrIncompatibleLink is returned by [Load] when a persisted link's
	// endpoint types no longer satisfy the compatibility rules - typically
	// because registry definitions changed between save and load.
	ErrIncompatibleLink = errors.New("incompatible link")
)

// Load reconstructs a patch from a document, validating everything against
// the current registry before building anything.
//
// Failure modes: ErrMalformedDocument (structural corruption),
// registry.ErrUnknownBlockType (a referenced block type is not registered),
// ErrIncompatibleLink (a link's port types no longer connect), or a
// parameter violation wrapping patch.ErrTypeMismatch. On any failure no
// patch is returned - there is never a partially built result, and a patch
// the caller already holds is untouched.
func Load(doc Document, reg *registry.Registry, rules *porttype.Rules) (*patch.Patch, error) {
	if rules == nil {
		rules = porttype.DefaultRules()
	}
	templates, err := validate(doc, reg, rules)
	if err != nil {
		return nil, err
	}
	return build(doc, reg, rules, templates)
}

// validate checks the whole document and resolves each node's template.
// Nothing is constructed here; a failed load must have no side effects.
func validate(doc Document, reg *registry.Registry, rules *porttype.Rules) (map[int]registry.Template, error) {
	if doc.Version != 0 && doc.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedDocument, doc.Version)
	}

	templates := make(map[int]registry.Template, len(doc.Nodes))
	for i, nd := range doc.Nodes {
		if nd.ID <= 0 {
			return nil, fmt.Errorf("%w: node %d has invalid id %d", ErrMalformedDocument, i, nd.ID)
		}
		if _, dup := templates[nd.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrMalformedDocument, nd.ID)
		}
		tmpl, err := reg.Instantiate(nd.Block)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", nd.ID, err)
		}
		for name, value := range nd.Params {
			def, ok := tmpl.Param(name)
			if !ok {
				return nil, fmt.Errorf("node %d: %w: %s", nd.ID, patch.ErrUnknownParameter, name)
			}
			if _, err := def.Normalize(value); err != nil {
				return nil, fmt.Errorf("node %d: %w: %v", nd.ID, patch.ErrTypeMismatch, err)
			}
		}
		templates[nd.ID] = tmpl
	}

	inputsSeen := make(map[PortRef]int, len(doc.Links))
	for i, ld := range doc.Links {
		from, ok := templates[ld.From.Node]
		if !ok {
			return nil, fmt.Errorf("%w: link %d references missing node %d", ErrMalformedDocument, i, ld.From.Node)
		}
		to, ok := templates[ld.To.Node]
		if !ok {
			return nil, fmt.Errorf("%w: link %d references missing node %d", ErrMalformedDocument, i, ld.To.Node)
		}
		if ld.From.Port < 0 || ld.From.Port >= len(from.Outputs) {
			return nil, fmt.Errorf("%w: link %d references missing output %d on node %d",
				ErrMalformedDocument, i, ld.From.Port, ld.From.Node)
		}
		if ld.To.Port < 0 || ld.To.Port >= len(to.Inputs) {
			return nil, fmt.Errorf("%w: link %d references missing input %d on node %d",
				ErrMalformedDocument, i, ld.To.Port, ld.To.Node)
		}
		if ld.From.Node == ld.To.Node {
			return nil, fmt.Errorf("%w: link %d connects node %d to itself", ErrMalformedDocument, i, ld.From.Node)
		}
		if prev, dup := inputsSeen[ld.To]; dup {
			return nil, fmt.Errorf("%w: links %d and %d both feed input %d on node %d",
				ErrMalformedDocument, prev, i, ld.To.Port, ld.To.Node)
		}
		inputsSeen[ld.To] = i

		outType := from.Outputs[ld.From.Port]
		inType := to.Inputs[ld.To.Port]
		if !rules.CanConnect(outType, inType) {
			return nil, fmt.Errorf("%w: link %d: %s → %s", ErrIncompatibleLink, i, outType, inType)
		}
	}

	return templates, nil
}

// build replays the validated document into a fresh patch. Node ids are
// reassigned sequentially in document order; link endpoints are remapped
// accordingly, preserving graph isomorphism.
func build(doc Document, reg *registry.Registry, rules *porttype.Rules, templates map[int]registry.Template) (*patch.Patch, error) {
	p := patch.New(reg, rules)

	idmap := make(map[int]patch.NodeID, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		id, err := p.AddNode(nd.Block, nd.Pos)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", nd.ID, err)
		}
		idmap[nd.ID] = id
		for name, value := range nd.Params {
			if err := p.SetParameter(id, name, value); err != nil {
				return nil, fmt.Errorf("node %d: %w", nd.ID, err)
			}
		}
	}

	for i, ld := range doc.Links {
		from := patch.Output(idmap[ld.From.Node], ld.From.Port)
		to := patch.Input(idmap[ld.To.Node], ld.To.Port)
		if _, err := p.Connect(from, to); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}

	return p, nil
}
