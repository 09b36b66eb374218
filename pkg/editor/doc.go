// Package editor interprets pointer gestures against a [graph.Graph].
//
// A [Controller] consumes press, move, release and double-click events in
// scene coordinates, hit-tests them against the graph, and turns them into
// edits:
//
//   - press and release on empty canvas creates a node at the press position
//   - press on a node and move drags it
//   - press on node A and release on node B connects A and B
//   - double-click on A, then double-click on B, also connects A and B
//
// The hit node at press time decides whether a gesture is a node creation or
// a node gesture; the hit node at release time decides between a drag and an
// edge. Gestures that do not make sense (release on a node after pressing
// empty canvas, connecting a node to itself, duplicating an edge) are absorbed
// without error.
//
// New nodes and edges take the color of the [Pen] at the moment they are
// created. Changing the pen never recolors existing elements.
//
// Every transition that mutates the graph invokes [Options.OnChange] so the
// host can redraw.
package editor
