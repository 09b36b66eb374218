package document

import (
	"github.com/matzehuels/graphpad/pkg/graph"
)

// Status summarizes a document for status lines and the HTTP host.
type Status struct {
	ID      string  `json:"id"`
	Path    string  `json:"path,omitempty"`
	Dirty   bool    `json:"dirty"`
	Pen     string  `json:"pen"`
	State   string  `json:"state"`
	Anchor  *int    `json:"anchor,omitempty"`
	Nodes   int     `json:"nodes"`
	Edges   int     `json:"edges"`
	Angle   float64 `json:"angle"`
	CanSave bool    `json:"can_save"`
}

// Status returns a summary of the document.
func (d *Document) Status() Status {
	s := Status{
		ID:      d.id,
		Path:    d.path,
		Dirty:   d.dirty,
		Pen:     d.pen.Color().Name(),
		State:   d.ctl.State().String(),
		Nodes:   d.g.NodeCount(),
		Edges:   d.g.EdgeCount(),
		Angle:   d.g.Angle(),
		CanSave: d.HasSaveTarget(),
	}
	if id, ok := d.ctl.Anchor(); ok {
		a := int(id)
		s.Anchor = &a
	}
	return s
}

// Snapshot returns the persistence record of the current graph.
func (d *Document) Snapshot() graph.Snapshot {
	return d.g.ToSnapshot()
}
