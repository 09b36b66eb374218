package io

import (
	"encoding/json"
	"io"

	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

// jsonRecord mirrors graph.Snapshot with pointer fields so that missing keys
// can be told apart from empty ones.
type jsonRecord struct {
	Nodes *[]graph.SnapshotNode `json:"nodes"`
	Edges *[]graph.SnapshotEdge `json:"edges"`
	Angle *float64              `json:"angle"`
}

// ReadJSON decodes a JSON snapshot from r.
//
// ReadJSON fails with CORRUPT_DATA if the input is not valid JSON, if
// "nodes", "edges" or "angle" is missing or null, if anything but whitespace
// follows the record, if a color does not parse,
// or if the record violates a graph invariant. The returned graph is
// independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var rec jsonRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return nil, errs.Wrap(errs.ErrCodeCorruptData, err, "decode json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errs.New(errs.ErrCodeCorruptData, "decode json: trailing data after snapshot")
	}
	switch {
	case rec.Nodes == nil:
		return nil, missingField("nodes")
	case rec.Edges == nil:
		return nil, missingField("edges")
	case rec.Angle == nil:
		return nil, missingField("angle")
	}
	return restore(graph.Snapshot{Nodes: *rec.Nodes, Edges: *rec.Edges, Angle: *rec.Angle})
}

// WriteJSON encodes g as indented JSON.
// The output can be read back with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.ToSnapshot()); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "encode json")
	}
	return nil
}

func restore(s graph.Snapshot) (*graph.Graph, error) {
	g, err := graph.FromSnapshot(s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeCorruptData, err, "restore snapshot")
	}
	return g, nil
}

func missingField(name string) error {
	return errs.New(errs.ErrCodeCorruptData, "missing field %q", name)
}
