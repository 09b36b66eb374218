// Package graph provides the in-memory model of a graphpad document.
//
// A [Graph] owns a set of positioned, colored nodes, an ordered list of colored
// edges between them, and a rotation angle that is carried through persistence
// as metadata. It is the single source of truth that the interactive editor
// mutates and that renderers and the snapshot codecs read.
//
// # Invariants
//
//   - Node IDs are unique and never reused while the document is open.
//   - Every edge references two existing nodes.
//   - Self-loops are rejected with [ErrInvalidEdge].
//   - At most one edge exists per unordered node pair; a second edge in
//     either direction is rejected with [ErrInvalidEdge].
//
// # Hit-testing
//
// [Graph.NodeAt] answers "which node is under this point" using the node's
// circle plus an optional slack. When circles overlap, the most recently
// created node wins because it is drawn on top.
//
// # Snapshots
//
// [Graph.ToSnapshot] and [FromSnapshot] convert to and from the transport
// neutral [Snapshot] record used by pkg/io. Nodes are emitted in ascending ID
// order and edges in insertion order, so loading and re-saving a document
// without edits produces identical output.
//
//	g := graph.New()
//	a := g.CreateNode(graph.Point{X: 40, Y: 40}, graph.Black)
//	b := g.CreateNode(graph.Point{X: 120, Y: 40}, graph.Black)
//	_ = g.CreateEdge(a, b, graph.Red)
//	snap := g.ToSnapshot()
//
// # Concurrency
//
// Graph is not safe for concurrent use. Hosts that accept events from more
// than one goroutine must serialise access themselves.
package graph
