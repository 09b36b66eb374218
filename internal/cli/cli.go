package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpad/internal/config"
	"github.com/matzehuels/graphpad/pkg/buildinfo"
	"github.com/matzehuels/graphpad/pkg/document"
	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/observability"
	"github.com/matzehuels/graphpad/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "graphpad"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	logOut     io.Writer
	configPath string
	cfg        config.Config
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		logOut: w,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Graphpad draws node and edge diagrams in the terminal",
		Long:         `Graphpad is a small diagram editor. Click to place nodes, drag one node onto another (or double-click both) to connect them, and save the result as JSON or TOML.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger and hooks.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	observability.SetDocumentHooks(logHooks{logger: c.Logger})
	observability.SetRecoveryHooks(logHooks{logger: c.Logger})
	observability.SetHTTPHooks(logHooks{logger: c.Logger})
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Document Factory
// =============================================================================

// openStore connects to the configured recovery backend. A backend that
// cannot be reached is reported and replaced by the null store so editing
// still works without recovery.
func (c *CLI) openStore(ctx context.Context, w io.Writer) (store.Store, string) {
	cfg := c.cfg.StoreConfig()
	remote := cfg.Backend == store.BackendRedis || cfg.Backend == store.BackendMongo

	var spinner *Spinner
	if remote {
		spinner = newSpinner(ctx, w, "Connecting to "+cfg.Backend+"...")
		spinner.Start()
	}
	st, err := store.Open(ctx, cfg)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		printWarning(w, "recovery disabled: %s", errs.UserMessage(err))
		c.Logger.Debug("open recovery store", "backend", cfg.Backend, "error", err)
		return store.NewNullStore(), store.BackendNone
	}
	return st, cfg.Backend
}

// newDocument creates a document wired to st and the configured canvas.
func (c *CLI) newDocument(st store.Store, backend string) *document.Document {
	return document.New(document.Options{
		Store:       st,
		Backend:     backend,
		RecoveryTTL: c.cfg.Recovery.TTL.Duration,
		HitSlack:    c.cfg.Canvas.HitSlack,
		Pen:         c.cfg.PenColor(),
		Logger:      c.Logger,
	})
}

// loadDocument opens path into doc. A path that does not exist yet becomes
// the save target of the empty document.
func loadDocument(ctx context.Context, doc *document.Document, path string) (created bool, err error) {
	err = doc.Open(ctx, path)
	if errs.Is(err, errs.ErrCodeFileNotFound) {
		return true, doc.SetPath(ctx, path)
	}
	return false, err
}
