// Package pkg holds the graphpad libraries.
//
// # Overview
//
// Graphpad is a small diagram editor: nodes are circles on a canvas, edges
// join pairs of nodes, and every edit comes from a pointer gesture. The
// libraries are layered:
//
//  1. [graph] - The model: nodes, edges, hit-testing and snapshots
//  2. [editor] - The gesture state machine that turns pointer events into edits
//  3. [document] - One open diagram: save target, dirty flag, autosave
//  4. [io] - JSON and TOML snapshot files
//  5. [store] - Recovery store for autosaves (file, Redis, MongoDB)
//  6. [render] - DOT, SVG and PNG export
//
// # Data Flow
//
//	pointer events (terminal mouse, HTTP)
//	         ↓
//	    [editor] Controller (hit-test, gesture table)
//	         ↓
//	    [graph] Graph (mutations)
//	         ↓
//	    [document] Document ── autosave ──→ [store]
//	         ↓
//	    [io] file  /  [render] export
//
// # Quick Start
//
//	doc := document.New(document.Options{HitSlack: 2})
//	doc.HandleEvent(ctx, editor.Event{Kind: editor.Press, Pos: graph.Point{X: 40, Y: 40}})
//	doc.HandleEvent(ctx, editor.Event{Kind: editor.Release, Pos: graph.Point{X: 40, Y: 40}})
//	if err := doc.SaveAs(ctx, "diagram.graph"); err != nil {
//	    return err
//	}
//
// # Supporting Packages
//
// [errors] - Coded errors shared by the CLI and the HTTP host.
//
// [observability] - Hooks for document, recovery and HTTP events.
//
// [buildinfo] - Version information injected at build time.
package pkg
