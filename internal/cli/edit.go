package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphpad/pkg/errors"
)

func (c *CLI) editCommand() *cobra.Command {
	var (
		restore bool
		docID   string
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive editor",
		Long: `Open the interactive terminal editor.

With a file argument the graph is loaded from it; a file that does not exist
yet is created on the first save. Without one the editor starts on an empty,
untitled graph.

Mouse:
  click empty space          create a node with the current pen
  drag a node                move it
  drag a node onto another   connect them
  double-click two nodes     connect them
  right-click a node         delete it

Every change is autosaved to the recovery store. After a crash, start the
editor again with --recover to restore the unsaved graph. Untitled graphs
are found by the document ID printed when the editor exits.`,
		Example: `  graphpad edit
  graphpad edit diagram.graph
  graphpad edit --recover diagram.graph
  graphpad edit --recover --id 6f1c2a4e-8d0b-4a57-9a52-3f0e7b1d9c21`,
		ValidArgsFunction: completeGraphFiles,
		Args:              cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stderr := cmd.ErrOrStderr()

			st, backend := c.openStore(ctx, stderr)
			defer st.Close()
			doc := c.newDocument(st, backend)

			if docID != "" {
				if err := doc.SetID(docID); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				if _, err := loadDocument(ctx, doc, args[0]); err != nil {
					return err
				}
			}
			if restore {
				ok, err := doc.Recover(ctx)
				if err != nil {
					return errs.Wrap(errs.ErrCodeCorruptData, err, "recover %s", doc.RecoveryKey())
				}
				if !ok {
					printWarning(stderr, "no autosave found for %s", describe(doc.Path()))
				}
			}

			restoreLog := redirectLog(c.Logger, c.logOut)
			model := newEditorModel(ctx, doc, grid{cellW: c.cfg.Canvas.CellWidth, cellH: c.cfg.Canvas.CellHeight})
			p := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err := p.Run()
			restoreLog()
			if err != nil {
				return err
			}

			printStats(stderr, doc.Graph().NodeCount(), doc.Graph().EdgeCount(), doc.Dirty())
			if doc.Dirty() {
				printWarning(stderr, "unsaved changes kept in the recovery store")
				printNextStep(stderr, "Restore them with", recoverCommand(doc.Path(), doc.ID()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&restore, "recover", false, "restore the last autosave of the document")
	cmd.Flags().StringVar(&docID, "id", "", "document ID of an untitled graph to recover")
	return cmd
}

func describe(path string) string {
	if path == "" {
		return "the untitled document"
	}
	return path
}

func recoverCommand(path, docID string) string {
	if path == "" {
		return appName + " edit --recover --id " + docID
	}
	return appName + " edit --recover " + path
}
