// Package document binds a graph, its gesture controller and its pen to a
// save target.
//
// A [Document] is what a host (the terminal editor, the HTTP server) holds
// open. It implements the new/open/save/save-as operations, tracks unsaved
// changes, and autosaves every edit to a recovery [store.Store] so a crashed
// session can be restored with [Document.Recover].
//
// Failed opens and saves leave the document exactly as it was.
//
// Documents are not safe for concurrent use.
package document
