package cli

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patchbay/pkg/errors"
	"github.com/matzehuels/patchbay/pkg/observability"
	"github.com/matzehuels/patchbay/pkg/patch"
	"github.com/matzehuels/patchbay/pkg/patchio"
	"github.com/matzehuels/patchbay/pkg/registry"
	"github.com/matzehuels/patchbay/pkg/session"
)

// checkCommand creates the check command for validating patch documents.
func (c *CLI) checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <patch.json>",
		Short: "Validate a patch document against the block library",
		Long: `Validate a patch document against the block library.

The document is checked for structural problems (bad references, duplicate
ids, multiple wires into one input), unknown block types, parameter
violations, and wires whose port types are incompatible under the loaded
conversion rules. Nothing is written; the exit code reports the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0])
		},
	}

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, input string) error {
	p, err := c.loadPatch(ctx, input)
	if err != nil {
		return err
	}

	printSuccess("Patch is valid")
	printFile(input)
	printStats(p.NodeCount(), p.LinkCount())
	printNewline()
	printNextStep("Route wires", "patchbay route "+input)

	return nil
}

// loadPatch reads, validates, and instantiates a patch document.
// On success it also records the file in the workspace session.
func (c *CLI) loadPatch(ctx context.Context, input string) (*patch.Patch, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	reg, err := c.newRegistry(cfg)
	if err != nil {
		return nil, err
	}

	observability.Document().OnLoadStart(ctx, input)
	start := time.Now()

	doc, err := patchio.ReadFile(input)
	if err != nil {
		observability.Document().OnLoadComplete(ctx, input, 0, 0, time.Since(start), err)
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "reading %s", input)
	}

	p, err := patchio.Load(doc, reg, nil)
	observability.Document().OnLoadComplete(ctx, input, len(doc.Nodes), len(doc.Links), time.Since(start), err)
	if err != nil {
		return nil, wrapLoadError(err, input)
	}

	c.recordRecentFile(ctx, input)
	return p, nil
}

// wrapLoadError maps core sentinel errors to coded CLI errors.
func wrapLoadError(err error, input string) error {
	switch {
	case goerrors.Is(err, registry.ErrUnknownBlockType):
		return errors.Wrap(errors.ErrCodeBlockNotFound, err, "loading %s", input)
	case goerrors.Is(err, patchio.ErrIncompatibleLink), goerrors.Is(err, patch.ErrTypeMismatch):
		return errors.Wrap(errors.ErrCodeTypeMismatch, err, "loading %s", input)
	default:
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "loading %s", input)
	}
}

// recordRecentFile updates the workspace session, best effort.
func (c *CLI) recordRecentFile(ctx context.Context, path string) {
	store, err := session.NewCLIStore()
	if err != nil {
		c.Logger.Debug("session store unavailable", "err", err)
		return
	}
	sess, err := store.GetSession(ctx)
	if err != nil || sess == nil {
		sess = session.New(path)
	}
	sess.RecordFile(path)
	if err := store.SaveSession(ctx, sess); err != nil {
		c.Logger.Debug("session save failed", "err", err)
	}
}
