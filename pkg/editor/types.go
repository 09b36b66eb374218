package editor

import (
	"fmt"
	"strings"

	"github.com/matzehuels/graphpad/pkg/graph"
)

// State is the gesture state of a [Controller].
type State int

const (
	// Idle means no press is active and no edge anchor is pending.
	Idle State = iota
	// PressedOnEmpty means a press started on empty canvas.
	PressedOnEmpty
	// PressedOnNode means a press started on a node, which follows the pointer.
	PressedOnNode
	// DrawingEdge means a double-click anchored an edge that awaits its
	// second endpoint.
	DrawingEdge
)

var stateNames = [...]string{
	Idle:           "idle",
	PressedOnEmpty: "pressed-on-empty",
	PressedOnNode:  "pressed-on-node",
	DrawingEdge:    "drawing-edge",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EventKind is the kind of a pointer event.
type EventKind int

const (
	Press EventKind = iota + 1
	Move
	Release
	DoubleClick
)

var kindNames = map[EventKind]string{
	Press:       "press",
	Move:        "move",
	Release:     "release",
	DoubleClick: "double-click",
}

func (k EventKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind accepts the names produced by EventKind.String, plus
// "dblclick" and "doubleclick".
func ParseEventKind(s string) (EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "press", "down":
		return Press, nil
	case "move":
		return Move, nil
	case "release", "up":
		return Release, nil
	case "double-click", "doubleclick", "dblclick":
		return DoubleClick, nil
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is a pointer event in scene coordinates.
type Event struct {
	Kind EventKind
	Pos  graph.Point
}

// Action is the semantic outcome of an event.
type Action int

const (
	ActionNone Action = iota
	ActionNodeCreated
	ActionNodeMoved
	ActionNodeDeleted
	ActionEdgeCreated
	// ActionEdgeRejected reports an edge gesture that named a self-loop or an
	// existing pair. The graph is unchanged apart from reverting a drag.
	ActionEdgeRejected
	ActionAnchorSet
	ActionAnchorCleared
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionNodeCreated:   "node-created",
	ActionNodeMoved:     "node-moved",
	ActionNodeDeleted:   "node-deleted",
	ActionEdgeCreated:   "edge-created",
	ActionEdgeRejected:  "edge-rejected",
	ActionAnchorSet:     "anchor-set",
	ActionAnchorCleared: "anchor-cleared",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Result describes what an event did.
type Result struct {
	Action Action
	// Node is the created, moved or deleted node, or the anchor.
	Node graph.NodeID
	// Edge is set for ActionEdgeCreated and ActionEdgeRejected.
	Edge graph.Edge
	// State is the controller state after the event.
	State State
	// Mutated is true when the graph changed.
	Mutated bool
}

// Pen holds the drawing color of a document. The zero value is a black pen.
type Pen struct {
	color graph.Color
}

// NewPen returns a pen loaded with c.
func NewPen(c graph.Color) *Pen { return &Pen{color: c} }

// Color returns the current color.
func (p *Pen) Color() graph.Color { return p.color }

// Set changes the color used for elements created from now on.
func (p *Pen) Set(c graph.Color) { p.color = c }
