package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patchbay/pkg/errors"
	"github.com/matzehuels/patchbay/pkg/observability"
	"github.com/matzehuels/patchbay/pkg/patchio"
	"github.com/matzehuels/patchbay/pkg/store"
)

// revisionsCommand creates the revisions command group for the autosave store.
func (c *CLI) revisionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "Manage the autosave revision store",
		Long: `Manage the autosave revision store.

Revisions are full document snapshots kept in a local SQLite database
(~/.cache/patchbay/revisions.db). Each document's history is bounded by
the autosave.keep setting.`,
	}

	cmd.AddCommand(c.revisionsListCommand())
	cmd.AddCommand(c.revisionsSaveCommand())
	cmd.AddCommand(c.revisionsRestoreCommand())
	cmd.AddCommand(c.revisionsPruneCommand())

	return cmd
}

// openStore opens the autosave revision store.
func (c *CLI) openStore() (*store.Store, error) {
	path, err := revisionDBPath()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "locating revision store")
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "opening revision store")
	}
	return s, nil
}

func (c *CLI) revisionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [doc-id]",
		Short: "List stored documents or the revisions of one document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if len(args) == 0 {
				return listDocuments(ctx, s)
			}
			return listRevisions(ctx, s, args[0])
		},
	}
}

func listDocuments(ctx context.Context, s *store.Store) error {
	docs, err := s.Documents(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "listing documents")
	}
	if len(docs) == 0 {
		printInfo("no stored revisions")
		return nil
	}
	for _, id := range docs {
		revs, err := s.List(ctx, id)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "listing revisions of %s", id)
		}
		fmt.Println(StyleHighlight.Render(id) + " " + StyleDim.Render(fmt.Sprintf("(%d revisions)", len(revs))))
	}
	return nil
}

func listRevisions(ctx context.Context, s *store.Store, docID string) error {
	revs, err := s.List(ctx, docID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "listing revisions of %s", docID)
	}
	if len(revs) == 0 {
		return errors.New(errors.ErrCodeRevisionNotFound, "no revisions for %s", docID)
	}
	for _, rev := range revs {
		printKeyValue(strconv.FormatInt(rev.ID, 10), rev.CreatedAt.Local().Format(time.RFC3339))
	}
	return nil
}

func (c *CLI) revisionsSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <patch.json>",
		Short: "Snapshot a document into the revision store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRevisionsSave(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runRevisionsSave(ctx context.Context, input string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	// Validate before storing so the history never holds a broken snapshot.
	if _, err := c.loadPatch(ctx, input); err != nil {
		return err
	}

	doc, err := patchio.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "reading %s", input)
	}
	data, err := patchio.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "encoding %s", input)
	}

	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.SaveRevision(ctx, doc.ID, data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "saving revision")
	}
	removed, err := s.Prune(ctx, doc.ID, cfg.Autosave.Keep)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "pruning revisions")
	}

	printSuccess("Saved revision %d of %s", id, doc.ID)
	if removed > 0 {
		printDetail("pruned %d old revisions", removed)
	}
	return nil
}

func (c *CLI) revisionsRestoreCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "restore <doc-id> [revision]",
		Short: "Write a stored revision back to a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRevisionsRestore(cmd.Context(), args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <doc-id>.patch.json)")

	return cmd
}

func (c *CLI) runRevisionsRestore(ctx context.Context, args []string, output string) error {
	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	docID := args[0]
	var rev *store.Revision
	if len(args) == 2 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "revision must be a number: %q", args[1])
		}
		rev, err = s.Get(ctx, id)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRevisionNotFound, err, "revision %d", id)
		}
	} else {
		rev, err = s.Latest(ctx, docID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRevisionNotFound, err, "document %s", docID)
		}
	}

	if output == "" {
		output = docID + ".patch.json"
	}
	observability.Document().OnSaveStart(ctx, output)
	start := time.Now()
	err = os.WriteFile(output, rev.Data, 0644)
	observability.Document().OnSaveComplete(ctx, output, len(rev.Data), time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "writing %s", output)
	}

	printSuccess("Restored revision %d", rev.ID)
	printFile(output)
	return nil
}

func (c *CLI) revisionsPruneCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune [doc-id]",
		Short: "Remove old revisions past the keep limit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRevisionsPrune(cmd.Context(), args, keep)
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "revisions to keep per document (default: autosave.keep)")

	return cmd
}

func (c *CLI) runRevisionsPrune(ctx context.Context, args []string, keep int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if keep <= 0 {
		keep = cfg.Autosave.Keep
	}

	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	docs := args
	if len(docs) == 0 {
		docs, err = s.Documents(ctx)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "listing documents")
		}
	}

	total := 0
	for _, id := range docs {
		n, err := s.Prune(ctx, id, keep)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "pruning %s", id)
		}
		total += n
	}

	printSuccess("Pruned %d revisions", total)
	return nil
}
