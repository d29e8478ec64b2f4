// Package pkg provides the core libraries for the patchbay patch editor.
//
// # Overview
//
// Patchbay edits block-diagram patches: typed blocks wired together through
// ports, with orthogonal wire routing and JSON persistence. The pkg directory
// is organized into these areas:
//
//  1. [porttype] - Port data types and connection compatibility rules
//  2. [registry] - Block templates and YAML block libraries
//  3. [patch] - The mutable patch graph (nodes, links, parameters)
//  4. [route] - Orthogonal wire routing with incremental updates
//  5. [patchio] - Document serialization and validated loading
//  6. [export] - DOT and SVG diagram export
//  7. [store] - SQLite autosave revision store
//  8. [config], [session], [errors], [observability], [buildinfo] - ambient support
//
// # Architecture
//
// The typical data flow through patchbay:
//
//	Block library (YAML)
//	         ↓
//	    [registry] package (templates)
//	         ↓
//	    [patch] package (graph mutations)
//	         ↓
//	    [route] package (wire geometry)
//	         ↓
//	    [patchio] / [export] output
//
// # Quick Start
//
//	reg := registry.New()
//	registry.LoadLibraryFile(reg, "blocks.yaml")
//
//	p := patch.New(reg, nil)
//	osc, _ := p.AddNode("Const", patch.Point{X: 0, Y: 0})
//	out, _ := p.AddNode("Sink", patch.Point{X: 300, Y: 0})
//	p.Connect(patch.Output(osc, 0), patch.Input(out, 0))
//
//	router := route.New(p, route.DefaultConfig())
//	_ = router
//
//	doc := patchio.Save(p)
//	patchio.WriteFile(doc, "untitled.patch.json")
package pkg
