// Package patch implements the editable node-graph model at the heart of the
// editor: typed nodes instantiated from a block registry, their input/output
// ports, and the links wired between them.
//
// # Ownership
//
// A [Patch] is the sole owner of its nodes and links. All cross-references
// are id-based ([NodeID], [LinkID], [PortAddr]); no component holds live
// pointers across deletions, so removing a node can never dangle. Nodes are
// instantiated as deep copies of registry templates and never reference back
// into the registry.
//
// # Mutation contract
//
// Every mutation is atomic: on failure the patch is byte-for-byte unchanged
// and a sentinel error (ErrNodeNotFound, ErrTypeMismatch, ...) describes the
// rejection. After each successful mutation the structural invariants hold:
//
//  1. Every link's endpoints reference ports on nodes present in the patch.
//  2. Every input port has at most one incoming link.
//  3. No link joins two ports of the same direction or two ports on one node.
//  4. Link endpoint types satisfy the type rules.
//  5. Node ids and port addresses are unique.
//
// [Patch.Validate] re-checks all five, mirroring how a freshly mutated patch
// must always look.
//
// # Change notification
//
// Registered [Observer] values receive a [Change] batch after each successful
// topology or position mutation. The wire router subscribes this way and
// re-routes only the links the batch names.
//
// Patch is not safe for concurrent use without external synchronization; the
// editor drives it from a single interaction thread.
package patch
