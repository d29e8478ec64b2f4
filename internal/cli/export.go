package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patchbay/pkg/export"
)

// Supported export formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// exportCommand creates the export command for diagram generation.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "export <patch.json>",
		Short: "Export a patch as a DOT or SVG diagram",
		Long: `Export a patch as a DOT or SVG diagram.

The patch is validated against the block library first, then converted to
Graphviz DOT. With -f svg the DOT source is rendered through the embedded
Graphviz engine.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], output, format, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include parameter values in block labels")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, output, format string, detailed bool) error {
	if format != formatDOT && format != formatSVG {
		return fmt.Errorf("unsupported format %q (use dot or svg)", format)
	}

	p, err := c.loadPatch(ctx, input)
	if err != nil {
		return err
	}

	dot := export.ToDOT(p, export.Options{Detailed: detailed})

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
		spinner.Start()
		data, err = export.RenderSVG(dot)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spinner.Stop()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Export complete")
	printFile(outputPath)
	printStats(p.NodeCount(), p.LinkCount())

	return nil
}
