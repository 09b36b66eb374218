package io

import (
	"io"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

// ReadTOML decodes a TOML snapshot from r. Validation matches [ReadJSON]:
// the "nodes", "edges" and "angle" keys must all be present.
func ReadTOML(r io.Reader) (*graph.Graph, error) {
	var s graph.Snapshot
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeCorruptData, err, "decode toml")
	}
	for _, key := range []string{"nodes", "edges", "angle"} {
		if !md.IsDefined(key) {
			return nil, missingField(key)
		}
	}
	return restore(s)
}

// WriteTOML encodes g as TOML. Empty node and edge lists are written as
// "nodes = []" so the record stays readable by [ReadTOML].
func WriteTOML(g *graph.Graph, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(g.ToSnapshot()); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "encode toml")
	}
	return nil
}
