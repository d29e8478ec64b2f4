// Package registry maps block-type identifiers to immutable node templates.
//
// A [Template] describes everything needed to instantiate a node: display
// category, ordered input/output port types, and parameter definitions with
// defaults and optional constraints. Templates are registered once (first
// registration wins) and instantiation always returns a deep copy, so nodes
// never share mutable state with the registry:
//
//	reg := registry.New()
//	err := reg.Register("Const", registry.Template{
//	    Category: "Sources",
//	    Outputs:  []porttype.Type{porttype.Float()},
//	    Params: []registry.ParamDef{
//	        {Name: "value", Kind: registry.ParamFloat, Default: 0.0},
//	    },
//	})
//	tmpl, err := reg.Instantiate("Const")
//
// Block definitions are typically fed from an external discovery process.
// [LoadLibrary] reads YAML block-descriptor files and registers each entry,
// keeping the registry independent of whatever produced the descriptors.
package registry
