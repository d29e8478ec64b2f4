// Package porttype defines the data types carried by node ports and the
// compatibility rules that decide which output→input pairings are legal.
//
// A [Type] is a small value: a [Kind] plus an optional name for custom
// (opaque) types. Compatibility is evaluated by a [Rules] table:
//
//	rules := porttype.DefaultRules()
//	ok := rules.CanConnect(porttype.Int(), porttype.Float()) // true (widening)
//	ok = rules.CanConnect(porttype.Float(), porttype.Int())  // false
//
// The baseline policy is exact-match plus a fixed table of one-directional
// widening conversions. Custom types are only compatible with an identically
// named custom type unless an explicit rule is registered with [Rules.Allow].
//
// CanConnect is pure and side-effect-free, so callers can evaluate it
// speculatively (e.g., while previewing a drag-to-connect gesture) without
// committing anything.
package porttype
