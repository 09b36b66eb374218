package editor

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpad/pkg/graph"
)

// Options configures a Controller.
type Options struct {
	// HitSlack grows every node's circle when hit-testing pointer positions.
	HitSlack float64

	// OnChange is called after every event that mutated the graph. Hosts use
	// it to request a redraw.
	OnChange func(Result)

	// Logger receives debug output for every semantic action.
	// Defaults to log.Default().
	Logger *log.Logger
}

// Controller is the gesture state machine of a single document.
//
// Controller is not safe for concurrent use.
type Controller struct {
	g    *graph.Graph
	pen  *Pen
	opts Options

	pressing  bool
	onNode    bool
	origin    graph.NodeID
	pressPos  graph.Point
	originPos graph.Point // origin's position before the drag started
	moved     bool

	anchored bool
	anchor   graph.NodeID
}

// handler processes one event in one state.
type handler func(c *Controller, ev Event) Result

// transitions is the gesture table. Events with no entry for the current
// state are ignored.
var transitions = map[State]map[EventKind]handler{
	Idle: {
		Press:       (*Controller).press,
		DoubleClick: (*Controller).doubleClick,
	},
	DrawingEdge: {
		Press:       (*Controller).press,
		DoubleClick: (*Controller).doubleClick,
	},
	PressedOnEmpty: {
		Press:       (*Controller).press,
		Move:        (*Controller).ignore,
		Release:     (*Controller).releaseEmpty,
		DoubleClick: (*Controller).doubleClick,
	},
	PressedOnNode: {
		Press:       (*Controller).press,
		Move:        (*Controller).drag,
		Release:     (*Controller).releaseNode,
		DoubleClick: (*Controller).doubleClick,
	},
}

// New returns a controller editing g. A nil pen is replaced by a black one.
func New(g *graph.Graph, pen *Pen, opts Options) *Controller {
	if pen == nil {
		pen = NewPen(graph.Black)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Controller{g: g, pen: pen, opts: opts}
}

// Graph returns the graph being edited.
func (c *Controller) Graph() *graph.Graph { return c.g }

// SetGraph switches to a different graph and resets the interaction state.
func (c *Controller) SetGraph(g *graph.Graph) {
	c.g = g
	c.Reset()
}

// Reset drops any active gesture and pending anchor.
func (c *Controller) Reset() {
	c.endGesture()
	c.anchored = false
	c.anchor = 0
}

// State returns the current gesture state.
func (c *Controller) State() State {
	switch {
	case c.pressing && c.onNode:
		return PressedOnNode
	case c.pressing:
		return PressedOnEmpty
	case c.anchored:
		return DrawingEdge
	default:
		return Idle
	}
}

// Anchor returns the pending edge anchor set by a double-click.
func (c *Controller) Anchor() (graph.NodeID, bool) { return c.anchor, c.anchored }

// PenColor returns the color the next node or edge will get.
func (c *Controller) PenColor() graph.Color { return c.pen.Color() }

// SetPenColor changes the color of subsequently created nodes and edges.
func (c *Controller) SetPenColor(col graph.Color) {
	c.pen.Set(col)
	c.opts.Logger.Debug("pen color changed", "color", col.Name())
}

// HandleEvent runs ev through the gesture table.
func (c *Controller) HandleEvent(ev Event) Result {
	from := c.State()
	h, ok := transitions[from][ev.Kind]
	if !ok {
		return Result{State: from}
	}
	res := h(c, ev)
	res.State = c.State()
	if res.Action != ActionNone && ev.Kind != Move {
		c.opts.Logger.Debug("gesture",
			"event", ev.Kind, "pos", ev.Pos,
			"action", res.Action, "node", res.Node,
			"from", from, "to", res.State)
	}
	if res.Mutated && c.opts.OnChange != nil {
		c.opts.OnChange(res)
	}
	return res
}

// DeleteAt removes the topmost node under pos together with its edges.
// A miss is reported as ActionNone.
func (c *Controller) DeleteAt(pos graph.Point) Result {
	id, ok := c.g.NodeAt(pos, c.opts.HitSlack)
	if !ok {
		return Result{State: c.State()}
	}
	res, err := c.DeleteNode(id)
	must(err)
	return res
}

// DeleteNode removes node id together with its edges. Deleting the pending
// anchor clears it; deleting the node being pressed ends the gesture.
func (c *Controller) DeleteNode(id graph.NodeID) (Result, error) {
	if err := c.g.RemoveNode(id); err != nil {
		return Result{State: c.State()}, err
	}
	if c.anchored && c.anchor == id {
		c.anchored = false
	}
	if c.pressing && c.onNode && c.origin == id {
		c.endGesture()
	}
	res := Result{Action: ActionNodeDeleted, Node: id, State: c.State(), Mutated: true}
	c.opts.Logger.Debug("node deleted", "node", id)
	if c.opts.OnChange != nil {
		c.opts.OnChange(res)
	}
	return res, nil
}

// =============================================================================
// Transitions
// =============================================================================

func (c *Controller) ignore(Event) Result { return Result{} }

func (c *Controller) press(ev Event) Result {
	c.endGesture()
	c.pressing = true
	c.pressPos = ev.Pos
	if id, ok := c.g.NodeAt(ev.Pos, c.opts.HitSlack); ok {
		n, _ := c.g.Node(id)
		c.onNode = true
		c.origin = id
		c.originPos = n.Pos
	}
	return Result{}
}

func (c *Controller) drag(ev Event) Result {
	must(c.g.MoveNode(c.origin, ev.Pos))
	c.moved = true
	return Result{Action: ActionNodeMoved, Node: c.origin, Mutated: true}
}

func (c *Controller) releaseEmpty(ev Event) Result {
	pos := c.pressPos
	c.endGesture()
	if _, hit := c.g.NodeAt(ev.Pos, c.opts.HitSlack); hit {
		return Result{}
	}
	id := c.g.CreateNode(pos, c.pen.Color())
	return Result{Action: ActionNodeCreated, Node: id, Mutated: true}
}

func (c *Controller) releaseNode(ev Event) Result {
	origin, originPos, moved := c.origin, c.originPos, c.moved
	c.endGesture()

	target, ok := c.g.NodeAtExcept(ev.Pos, c.opts.HitSlack, origin)
	if !ok {
		// Released on empty canvas or on the origin itself: the drag, if
		// any, is already applied.
		return Result{Node: origin}
	}

	// Edge gesture: the node only followed the pointer provisionally.
	if moved {
		must(c.g.MoveNode(origin, originPos))
	}
	res := c.connect(origin, target)
	res.Mutated = res.Mutated || moved
	return res
}

func (c *Controller) doubleClick(ev Event) Result {
	hit, ok := c.g.NodeAt(ev.Pos, c.opts.HitSlack)
	switch {
	case !c.anchored && ok:
		c.anchored = true
		c.anchor = hit
		return Result{Action: ActionAnchorSet, Node: hit}
	case !c.anchored:
		return Result{}
	case ok && hit != c.anchor:
		anchor := c.anchor
		c.anchored = false
		return c.connect(anchor, hit)
	default:
		anchor := c.anchor
		c.anchored = false
		return Result{Action: ActionAnchorCleared, Node: anchor}
	}
}

// connect creates an edge with the current pen, absorbing ErrInvalidEdge.
func (c *Controller) connect(a, b graph.NodeID) Result {
	e := graph.Edge{From: a, To: b, Color: c.pen.Color()}
	err := c.g.CreateEdge(a, b, e.Color)
	switch {
	case err == nil:
		return Result{Action: ActionEdgeCreated, Edge: e, Mutated: true}
	case errors.Is(err, graph.ErrInvalidEdge):
		c.opts.Logger.Debug("edge rejected", "from", a, "to", b, "reason", err)
		return Result{Action: ActionEdgeRejected, Edge: e}
	default:
		panic(fmt.Sprintf("editor: %v", err))
	}
}

func (c *Controller) endGesture() {
	c.pressing = false
	c.onNode = false
	c.origin = 0
	c.moved = false
}

// must panics on errors that hit-testing makes unreachable, such as moving a
// node that is not in the graph.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("editor: %v", err))
	}
}
