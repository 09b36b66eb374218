// Package io reads and writes graph snapshots.
//
// # Formats
//
// Two encodings are supported, chosen by file extension (see [FormatFor]):
//
//   - JSON for ".graph" and ".json"
//   - TOML for ".toml"
//
// Both carry the same record:
//
//	{
//	  "nodes": [
//	    {"id": 1, "x": 40, "y": 40, "color": "#000000"},
//	    {"id": 2, "x": 200, "y": 40, "color": "#ff0000", "radius": 20}
//	  ],
//	  "edges": [
//	    {"from": 1, "to": 2, "color": "#0000ff"}
//	  ],
//	  "angle": 0
//	}
//
// "nodes", "edges" and "angle" are required. "radius" is optional and is
// written only when it differs from [graph.DefaultRadius].
//
// # Errors
//
// Reading a path that does not exist fails with code FILE_NOT_FOUND. A record
// that does not parse, lacks a required field, or violates a graph invariant
// (duplicate IDs, dangling edges, self-loops, duplicate edges) fails with
// CORRUPT_DATA. Other I/O failures are IO_ERROR. Codes are defined in
// package errors and can be checked with errors.Is.
//
// # Round trips
//
// Nodes are written in ascending ID order and edges in insertion order, so
// loading a file and saving it again without edits reproduces it byte for
// byte.
package io
