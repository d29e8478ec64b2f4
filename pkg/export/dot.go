package export

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/patchbay/pkg/patch"
)

// Options configures diagram export.
type Options struct {
	// Detailed includes parameter values in block labels.
	// When false, only the block type and node id are shown.
	Detailed bool
}

// ToDOT converts a patch to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(p *patch.Patch, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph patch {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range p.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeName(n.ID), fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, l := range p.Links() {
		fmt.Fprintf(&buf, "  %q -> %q [taillabel=\"%d\", headlabel=\"%d\", fontsize=10];\n",
			nodeName(l.From.Node), nodeName(l.To.Node), l.From.Index, l.To.Index)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id patch.NodeID) string {
	return fmt.Sprintf("n%d", id)
}

func fmtLabel(n *patch.Node, detailed bool) string {
	head := fmt.Sprintf("%s #%d", n.BlockType, n.ID)
	if !detailed || len(n.Params) == 0 {
		return head
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(n.Params)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Params[k]))
	}
	return head + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
