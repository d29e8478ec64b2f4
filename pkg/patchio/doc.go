// Package patchio converts patches to and from their persisted document
// form.
//
// The on-disk format is human-readable JSON with deterministic ordering
// (nodes and links sorted by id), designed for round-trip fidelity: Save
// followed by Load against an unchanged registry reproduces an isomorphic
// patch.
//
//	doc := patchio.Save(p)
//	err := patchio.WriteFile(doc, "receiver.patch.json")
//
//	doc, err := patchio.ReadFile("receiver.patch.json")
//	p, err := patchio.Load(doc, reg, rules)
//
// Load validates the entire document - every block type, parameter value,
// and link - against the current registry and type rules before building
// anything. A document that fails validation yields no partially built
// patch, and a load failure never disturbs a patch the editor already has
// open.
package patchio
