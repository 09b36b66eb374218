package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpad/internal/server"
	errs "github.com/matzehuels/graphpad/pkg/errors"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr           string
		restore        bool
		allowOverwrite bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Edit a document over HTTP",
		Long: `Serve one document over HTTP.

Pointer events are posted to /events as {"kind":"press","x":40,"y":40}
objects (or an array of them) and go through the same gesture handling as
the terminal editor.

Routes:
  GET    /graph               status and snapshot
  POST   /events              apply pointer events
  PUT    /pen                 {"color":"red"}
  POST   /document/new        start over (?force=true drops unsaved changes)
  POST   /document/open       {"path":"a.graph"}
  POST   /document/save       optional {"path":"b.graph"} for save-as
  DELETE /nodes/{id}          delete a node and its edges
  GET    /render.{format}     dot, svg or png
  GET    /healthz             build info`,
		Example: `  graphpad serve
  graphpad serve diagram.graph --addr :9000`,
		ValidArgsFunction: completeGraphFiles,
		Args:              cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stderr := cmd.ErrOrStderr()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			st, backend := c.openStore(ctx, stderr)
			defer st.Close()
			doc := c.newDocument(st, backend)

			if len(args) == 1 {
				if _, err := loadDocument(ctx, doc, args[0]); err != nil {
					return err
				}
			}
			if restore {
				if _, err := doc.Recover(ctx); err != nil {
					return errs.Wrap(errs.ErrCodeCorruptData, err, "recover %s", doc.RecoveryKey())
				}
			}

			printInfo(stderr, "Serving %s on http://%s", describe(doc.Path()), addr)
			srv := server.New(doc, server.Options{
				AllowOverwrite: allowOverwrite,
				Logger:         c.Logger,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&restore, "recover", false, "restore the last autosave of the document")
	cmd.Flags().BoolVar(&allowOverwrite, "allow-overwrite", false, "let new/open discard unsaved changes without ?force=true")
	return cmd
}
