package document

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphpad/pkg/editor"
	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	gpio "github.com/matzehuels/graphpad/pkg/io"
	"github.com/matzehuels/graphpad/pkg/observability"
	"github.com/matzehuels/graphpad/pkg/store"
)

// Options configures a Document.
type Options struct {
	// Store receives autosaves. Nil disables recovery.
	Store store.Store
	// Backend names the store in hook events.
	Backend string
	// RecoveryTTL bounds how long an autosave is kept. Zero keeps it until
	// the document is saved or discarded.
	RecoveryTTL time.Duration
	// HitSlack is passed to the controller.
	HitSlack float64
	// Pen is the initial pen color. The zero value is black.
	Pen graph.Color
	// OnChange is called after every mutating edit, typically to redraw.
	OnChange func(editor.Result)
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Document is one open diagram.
type Document struct {
	id    string
	g     *graph.Graph
	ctl   *editor.Controller
	pen   *editor.Pen
	path  string
	dirty bool

	// pending is set by edits that have not reached the recovery store.
	pending bool

	store  store.Store
	opts   Options
	logger *log.Logger
}

// New returns an empty, unsaved document.
func New(opts Options) *Document {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Store == nil {
		opts.Store = store.NewNullStore()
		if opts.Backend == "" {
			opts.Backend = store.BackendNone
		}
	}
	d := &Document{
		id:     uuid.NewString(),
		g:      graph.New(),
		pen:    editor.NewPen(opts.Pen),
		store:  opts.Store,
		opts:   opts,
		logger: opts.Logger,
	}
	d.ctl = editor.New(d.g, d.pen, editor.Options{
		HitSlack: opts.HitSlack,
		OnChange: opts.OnChange,
		Logger:   opts.Logger,
	})
	return d
}

// ID identifies the document for recovery while it has no save target.
func (d *Document) ID() string { return d.id }

// SetID adopts the ID of an earlier session so that [Document.Recover] can
// find the autosave of an untitled document. id must be a UUID.
func (d *Document) SetID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid document id %q", id)
	}
	d.id = u.String()
	return nil
}

// Graph returns the model being edited.
func (d *Document) Graph() *graph.Graph { return d.g }

// Controller returns the gesture controller.
func (d *Document) Controller() *editor.Controller { return d.ctl }

// Path returns the save target, or "" for a document that was never saved.
func (d *Document) Path() string { return d.path }

// HasSaveTarget reports whether Save can be used without a path.
func (d *Document) HasSaveTarget() bool { return d.path != "" }

// Dirty reports whether the document has changes that were not saved.
func (d *Document) Dirty() bool { return d.dirty }

// PenColor returns the current pen color.
func (d *Document) PenColor() graph.Color { return d.pen.Color() }

// SetPenColor changes the color of subsequently created elements.
func (d *Document) SetPenColor(c graph.Color) { d.ctl.SetPenColor(c) }

// SetPenColorName parses name with errors.ValidateColorName and applies it.
func (d *Document) SetPenColorName(name string) error {
	c, err := errs.ValidateColorName(name)
	if err != nil {
		return err
	}
	d.SetPenColor(c)
	return nil
}

// SetPath sets the save target without writing anything. It is used when
// the editor is started on a file that does not exist yet.
func (d *Document) SetPath(ctx context.Context, path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if !d.dirty {
		d.path = path
		return nil
	}
	// Re-key the pending autosave under the new target.
	d.dropRecovery(ctx)
	d.path = path
	d.autosave(ctx)
	return nil
}

// =============================================================================
// Editing
// =============================================================================

// HandleEvent forwards ev to the controller and records the outcome.
// Edits mark the document dirty. The recovery store is updated once the
// gesture leaves the drag phase, so a drag costs one write, not one per move.
func (d *Document) HandleEvent(ctx context.Context, ev editor.Event) editor.Result {
	res := d.ctl.HandleEvent(ev)
	d.record(ctx, res)
	if d.pending && ev.Kind != editor.Move {
		d.autosave(ctx)
	}
	return res
}

// DeleteAt removes the topmost node under pos.
func (d *Document) DeleteAt(ctx context.Context, pos graph.Point) editor.Result {
	res := d.ctl.DeleteAt(pos)
	d.record(ctx, res)
	if d.pending {
		d.autosave(ctx)
	}
	return res
}

// DeleteNode removes node id. Unknown ids fail with UNKNOWN_NODE.
func (d *Document) DeleteNode(ctx context.Context, id graph.NodeID) (editor.Result, error) {
	res, err := d.ctl.DeleteNode(id)
	if err != nil {
		return res, errs.Wrap(errs.ErrCodeUnknownNode, err, "delete node %d", id)
	}
	d.record(ctx, res)
	d.autosave(ctx)
	return res, nil
}

func (d *Document) record(ctx context.Context, res editor.Result) {
	if res.Action != editor.ActionNone {
		observability.Document().OnEdit(ctx, res.Action.String())
	}
	if res.Mutated {
		d.dirty = true
		d.pending = true
	}
}

// =============================================================================
// Lifecycle
// =============================================================================

// Reset discards the current document and starts an empty one. The host is
// responsible for confirming when Dirty reports unsaved changes. The
// discarded document's autosave is removed.
func (d *Document) Reset(ctx context.Context) {
	d.dropRecovery(ctx)
	d.replace(graph.New(), "")
	d.id = uuid.NewString()
	observability.Document().OnNew(ctx, d.id)
	d.logger.Info("new document", "id", d.id)
}

// Open loads the snapshot at path and makes it the current document,
// discarding the autosave of the one it replaces. On error the current
// document is left untouched.
func (d *Document) Open(ctx context.Context, path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	start := time.Now()
	g, err := gpio.ImportFile(path)
	if err != nil {
		observability.Document().OnOpen(ctx, path, 0, 0, time.Since(start), err)
		return err
	}

	d.dropRecovery(ctx)
	d.replace(g, path)
	d.id = uuid.NewString()
	observability.Document().OnOpen(ctx, path, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	d.logger.Info("opened document", "path", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// Save writes the document to its save target. A document without one
// fails with INVALID_PATH; use SaveAs.
func (d *Document) Save(ctx context.Context) error {
	if d.path == "" {
		return errs.New(errs.ErrCodeInvalidPath, "document has no save target")
	}
	return d.write(ctx, d.path)
}

// SaveAs writes the document to path and makes path the save target.
func (d *Document) SaveAs(ctx context.Context, path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if err := d.write(ctx, path); err != nil {
		return err
	}
	if path != d.path {
		d.dropRecovery(ctx)
		d.path = path
	}
	return nil
}

func (d *Document) write(ctx context.Context, path string) error {
	start := time.Now()
	err := gpio.ExportFile(d.g, path)
	observability.Document().OnSave(ctx, path, d.g.NodeCount(), d.g.EdgeCount(), time.Since(start), err)
	if err != nil {
		return err
	}
	d.dirty = false
	d.pending = false
	if path == d.path {
		d.dropRecovery(ctx)
	}
	d.logger.Info("saved document", "path", path, "nodes", d.g.NodeCount(), "edges", d.g.EdgeCount())
	return nil
}

func (d *Document) replace(g *graph.Graph, path string) {
	d.g = g
	d.ctl.SetGraph(g)
	d.path = path
	d.dirty = false
	d.pending = false
}
