package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patchbay/pkg/observability"
	"github.com/matzehuels/patchbay/pkg/patch"
	"github.com/matzehuels/patchbay/pkg/route"
)

// routeCommand creates the route command for computing wire geometry.
func (c *CLI) routeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "route <patch.json>",
		Short: "Compute orthogonal wire routes for a patch",
		Long: `Compute orthogonal wire routes for a patch.

The route command validates the document, computes an orthogonal polyline
for every wire, and writes the routed geometry as JSON. Routing geometry
(stub length, lane gap, clearance) comes from the config file's [routing]
section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.routes.json)")

	return cmd
}

// wireRoute is one routed wire in the output document.
type wireRoute struct {
	Link int           `json:"link"`
	From patch.NodeID  `json:"from"`
	To   patch.NodeID  `json:"to"`
	Path []patch.Point `json:"path"`
}

// routesDoc is the routed-geometry output document.
type routesDoc struct {
	Wires []wireRoute `json:"wires"`
}

func (c *CLI) runRoute(ctx context.Context, input, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	p, err := c.loadPatch(ctx, input)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	observability.Routing().OnRouteStart(ctx, p.LinkCount())
	start := time.Now()

	router := route.New(p, cfg.RouteConfig())
	doc := collectRoutes(p, router)

	observability.Routing().OnRouteComplete(ctx, p.LinkCount(), time.Since(start))
	prog.done(fmt.Sprintf("Routed %d wires", p.LinkCount()))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".routes.json"
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Routing complete")
	printFile(outputPath)
	printStats(p.NodeCount(), p.LinkCount())
	printNewline()
	printNextStep("Export", "patchbay export "+input)

	return nil
}

// collectRoutes gathers routed paths in stable link order.
func collectRoutes(p *patch.Patch, router *route.Router) routesDoc {
	doc := routesDoc{Wires: []wireRoute{}}
	for _, l := range p.Links() {
		doc.Wires = append(doc.Wires, wireRoute{
			Link: int(l.ID),
			From: l.From.Node,
			To:   l.To.Node,
			Path: router.Path(l.ID),
		})
	}
	return doc
}
