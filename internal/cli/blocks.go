package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patchbay/pkg/errors"
	"github.com/matzehuels/patchbay/pkg/porttype"
	"github.com/matzehuels/patchbay/pkg/registry"
)

// blocksCommand creates the blocks command for inspecting block libraries.
func (c *CLI) blocksCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "blocks [block-type]",
		Short: "List block types available in the loaded libraries",
		Long: `List block types available in the loaded libraries.

Libraries come from the config file's library.paths plus any --library flags.
Each block is shown with its port signature and parameters, grouped by
category. With a block-type argument, only that block is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.runBlockDetail(args[0])
			}
			return c.runBlocks(category)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show blocks in this category")

	return cmd
}

func (c *CLI) runBlocks(category string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	reg, err := c.newRegistry(cfg)
	if err != nil {
		return err
	}

	if reg.Len() == 0 {
		printWarning("no block libraries loaded")
		printNextStep("Load one", "patchbay blocks --library blocks.yaml")
		return nil
	}

	categories := reg.Categories()
	if category != "" {
		ids := reg.IDsInCategory(category)
		if len(ids) == 0 {
			return errors.New(errors.ErrCodeNotFound, "no blocks in category %q", category)
		}
		categories = []string{category}
	}

	for i, cat := range categories {
		if i > 0 {
			printNewline()
		}
		printCategory(cat)
		for _, id := range reg.IDsInCategory(cat) {
			tmpl, ok := reg.Template(id)
			if !ok {
				continue
			}
			fmt.Println("  " + StyleHighlight.Render(id) + "  " + StyleDim.Render(signature(tmpl)))
			for _, pd := range tmpl.Params {
				printDetail("%s", paramSummary(pd))
			}
		}
	}

	printNewline()
	printInfo("%d block types in %d categories", reg.Len(), len(reg.Categories()))
	return nil
}

// runBlockDetail shows a single block type.
func (c *CLI) runBlockDetail(id string) error {
	if err := errors.ValidateBlockType(id); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	reg, err := c.newRegistry(cfg)
	if err != nil {
		return err
	}

	tmpl, ok := reg.Template(id)
	if !ok {
		return errors.New(errors.ErrCodeBlockNotFound, "unknown block type %q", id)
	}

	printKeyValue("block", id)
	printKeyValue("category", tmpl.Category)
	printKeyValue("inputs", typeList(tmpl.Inputs))
	printKeyValue("outputs", typeList(tmpl.Outputs))
	for _, pd := range tmpl.Params {
		printKeyValue("param", paramSummary(pd))
	}
	return nil
}

// signature formats a template's port types as "in, in -> out".
func signature(tmpl registry.Template) string {
	return typeList(tmpl.Inputs) + " " + iconArrow + " " + typeList(tmpl.Outputs)
}

func typeList(types []porttype.Type) string {
	if len(types) == 0 {
		return "()"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// paramSummary formats a parameter definition for display.
func paramSummary(pd registry.ParamDef) string {
	s := fmt.Sprintf("%s (%s) = %v", pd.Name, pd.Kind, pd.Default)
	if pd.Min != nil || pd.Max != nil {
		lo, hi := "-inf", "+inf"
		if pd.Min != nil {
			lo = fmt.Sprintf("%g", *pd.Min)
		}
		if pd.Max != nil {
			hi = fmt.Sprintf("%g", *pd.Max)
		}
		s += fmt.Sprintf(" [%s..%s]", lo, hi)
	}
	if len(pd.Choices) > 0 {
		s += " {" + strings.Join(pd.Choices, "|") + "}"
	}
	return s
}
