package document

import (
	"context"

	errs "github.com/matzehuels/graphpad/pkg/errors"
	gpio "github.com/matzehuels/graphpad/pkg/io"
	"github.com/matzehuels/graphpad/pkg/observability"
	"github.com/matzehuels/graphpad/pkg/store"
)

// RecoveryKey returns the store key of this document's autosave.
func (d *Document) RecoveryKey() string {
	return store.RecoveryKey(d.path, d.id)
}

// Recover replaces the graph with the autosave found for the current save
// target (or document ID) and reports whether one existed. A recovered
// document is dirty until saved.
func (d *Document) Recover(ctx context.Context) (bool, error) {
	data, hit, err := d.store.Get(ctx, d.RecoveryKey())
	observability.Recovery().OnRecover(ctx, d.opts.Backend, hit)
	if err != nil {
		return false, errs.Wrap(errs.ErrCodeIO, err, "read autosave")
	}
	if !hit {
		return false, nil
	}
	g, err := gpio.Unmarshal(data, gpio.FormatJSON)
	if err != nil {
		return false, err
	}

	path := d.path
	d.replace(g, path)
	d.dirty = true
	d.logger.Info("recovered autosave", "path", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return true, nil
}

// autosave writes the current graph to the recovery store. Failures are
// logged, never returned: an edit must not fail because the store is down.
func (d *Document) autosave(ctx context.Context) {
	data, err := gpio.Marshal(d.g, gpio.FormatJSON)
	if err == nil {
		err = d.store.Set(ctx, d.RecoveryKey(), data, d.opts.RecoveryTTL)
	}
	observability.Recovery().OnAutosave(ctx, d.opts.Backend, len(data), err)
	if err != nil {
		d.logger.Warn("autosave failed", "backend", d.opts.Backend, "err", err)
		return
	}
	d.pending = false
	d.logger.Debug("autosaved", "key", d.RecoveryKey(), "bytes", len(data))
}

func (d *Document) dropRecovery(ctx context.Context) {
	if err := d.store.Delete(ctx, d.RecoveryKey()); err != nil {
		d.logger.Warn("discard autosave failed", "backend", d.opts.Backend, "err", err)
	}
}
