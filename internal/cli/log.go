// Package cli implements the graphpad command-line interface.
//
// The CLI is built with cobra. Every command shares one charmbracelet/log
// logger, attached to the command context, and one configuration loaded
// from --config or the default XDG path.
//
// # Commands
//
//   - edit: open the interactive terminal editor
//   - render: export a saved graph as DOT, SVG or PNG
//   - info: print node and edge counts of a saved graph
//   - serve: drive a document over HTTP
//   - config: print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The terminal
// editor owns the screen, so while it runs the logger writes to
// $XDG_STATE_HOME/graphpad/graphpad.log instead of stderr.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpad/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered a.svg (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logFilePath returns the editor log file, honoring XDG_STATE_HOME.
func logFilePath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, appName, appName+".log"), nil
}

// redirectLog points l at the editor log file and returns a function that
// restores the previous output. If the file cannot be opened, logging is
// discarded for the duration instead of corrupting the screen.
func redirectLog(l *log.Logger, prev io.Writer) (restore func()) {
	restore = func() { l.SetOutput(prev) }

	path, err := logFilePath()
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		l.SetOutput(io.Discard)
		return restore
	}
	l.SetOutput(f)
	return func() {
		l.SetOutput(prev)
		f.Close()
	}
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports document, recovery and HTTP events to the logger.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.DocumentHooks = logHooks{}
	_ observability.RecoveryHooks = logHooks{}
	_ observability.HTTPHooks     = logHooks{}
)

func (h logHooks) OnNew(_ context.Context, docID string) {
	h.logger.Debug("new document", "id", docID)
}

func (h logHooks) OnOpen(_ context.Context, path string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("open failed", "path", path, "error", err)
		return
	}
	h.logger.Info("opened", "path", path, "nodes", nodes, "edges", edges, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnSave(_ context.Context, path string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save failed", "path", path, "error", err)
		return
	}
	h.logger.Info("saved", "path", path, "nodes", nodes, "edges", edges, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnEdit(_ context.Context, action string) {
	h.logger.Debug("edit", "action", action)
}

func (h logHooks) OnAutosave(_ context.Context, backend string, size int, err error) {
	if err != nil {
		h.logger.Warn("autosave failed", "backend", backend, "error", err)
		return
	}
	h.logger.Debug("autosaved", "backend", backend, "bytes", size)
}

func (h logHooks) OnRecover(_ context.Context, backend string, hit bool) {
	h.logger.Debug("recovery lookup", "backend", backend, "hit", hit)
}

func (h logHooks) OnRequest(context.Context, string, string) {}

// OnResponse surfaces server errors; the server logs every request at debug.
func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
	}
}
