package graph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownNode is returned when an operation references a node ID that
	// is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidEdge is returned by [Graph.CreateEdge] for self-loops and for
	// pairs that are already connected in either direction.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrDuplicateNode is returned by [Graph.AddNode] when the ID is taken.
	ErrDuplicateNode = errors.New("duplicate node ID")
)

// Graph is the node/edge model of a single document.
//
// The zero value is not usable; create graphs with [New] or [FromSnapshot].
type Graph struct {
	nodes  map[NodeID]*Node
	order  []NodeID // creation order, bottom to top for hit-testing
	edges  []Edge
	nextID NodeID
	angle  float64
}

// New returns an empty graph. The first node created gets ID 1.
func New() *Graph {
	return &Graph{
		nodes:  make(map[NodeID]*Node),
		nextID: 1,
	}
}

// CreateNode allocates a fresh ID and inserts a node of [DefaultRadius] at pos.
func (g *Graph) CreateNode(pos Point, color Color) NodeID {
	id := g.nextID
	g.insert(&Node{ID: id, Pos: pos, Radius: DefaultRadius, Color: color})
	return id
}

// AddNode inserts n with its own ID. A zero or negative radius is replaced by
// [DefaultRadius]. Later calls to CreateNode never reuse n.ID.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
	}
	if n.Radius <= 0 {
		n.Radius = DefaultRadius
	}
	g.insert(&n)
	return nil
}

func (g *Graph) insert(n *Node) {
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	if n.ID >= g.nextID {
		g.nextID = n.ID + 1
	}
}

// RemoveNode deletes the node and every edge touching it.
func (g *Graph) RemoveNode(id NodeID) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(o NodeID) bool { return o == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.Touches(id) })
	return nil
}

// MoveNode sets the position of an existing node.
func (g *Graph) MoveNode(id NodeID, pos Point) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	n.Pos = pos
	return nil
}

// CreateEdge connects a and b. Unknown endpoints are reported before edge
// validity, so a self-loop on a missing node is ErrUnknownNode.
func (g *Graph) CreateEdge(a, b NodeID, color Color) error {
	if _, ok := g.nodes[a]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, a)
	}
	if _, ok := g.nodes[b]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, b)
	}
	if a == b {
		return fmt.Errorf("%w: self-loop on node %d", ErrInvalidEdge, a)
	}
	if g.HasEdge(a, b) {
		return fmt.Errorf("%w: nodes %d and %d are already connected", ErrInvalidEdge, a, b)
	}
	g.edges = append(g.edges, Edge{From: a, To: b, Color: color})
	return nil
}

// RemoveEdge deletes the edge between a and b in either direction and
// reports whether one existed.
func (g *Graph) RemoveEdge(a, b NodeID) bool {
	n := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.Connects(a, b) })
	return len(g.edges) != n
}

// HasEdge reports whether a and b are connected in either direction.
func (g *Graph) HasEdge(a, b NodeID) bool {
	return slices.ContainsFunc(g.edges, func(e Edge) bool { return e.Connects(a, b) })
}

// NodeAt returns the topmost node whose circle, grown by slack, contains pos.
func (g *Graph) NodeAt(pos Point, slack float64) (NodeID, bool) {
	return g.nodeAt(pos, slack, 0, false)
}

// NodeAtExcept is NodeAt ignoring skip. The editor uses it on release, when
// the node being dragged sits directly under the pointer.
func (g *Graph) NodeAtExcept(pos Point, slack float64, skip NodeID) (NodeID, bool) {
	return g.nodeAt(pos, slack, skip, true)
}

func (g *Graph) nodeAt(pos Point, slack float64, skip NodeID, skipping bool) (NodeID, bool) {
	for i := len(g.order) - 1; i >= 0; i-- {
		id := g.order[i]
		if skipping && id == skip {
			continue
		}
		if g.nodes[id].Contains(pos, slack) {
			return id, true
		}
	}
	return 0, false
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all nodes in ascending ID order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, *n)
	}
	slices.SortFunc(nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })
	return nodes
}

// DrawOrder returns copies of all nodes bottom to top, the order renderers
// should paint them in so that hit-testing matches what is visible.
func (g *Graph) DrawOrder() []Node {
	nodes := make([]Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = *g.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Angle returns the rotation metadata of the document.
func (g *Graph) Angle() float64 { return g.angle }

// SetAngle replaces the rotation metadata. It is not applied to geometry.
func (g *Graph) SetAngle(a float64) { g.angle = a }

// Bounds returns the corners of the smallest rectangle containing every node
// circle. ok is false for an empty graph.
func (g *Graph) Bounds() (lo, hi Point, ok bool) {
	for _, n := range g.nodes {
		nlo := Point{X: n.Pos.X - n.Radius, Y: n.Pos.Y - n.Radius}
		nhi := Point{X: n.Pos.X + n.Radius, Y: n.Pos.Y + n.Radius}
		if !ok {
			lo, hi, ok = nlo, nhi, true
			continue
		}
		lo.X, lo.Y = min(lo.X, nlo.X), min(lo.Y, nlo.Y)
		hi.X, hi.Y = max(hi.X, nhi.X), max(hi.Y, nhi.Y)
	}
	return lo, hi, ok
}

// Validate checks the edge invariants. A non-nil result indicates a bug in
// code that bypassed CreateEdge.
func (g *Graph) Validate() error {
	for i, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return fmt.Errorf("edge %d: %w: %d", i, ErrUnknownNode, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return fmt.Errorf("edge %d: %w: %d", i, ErrUnknownNode, e.To)
		}
		if e.From == e.To {
			return fmt.Errorf("edge %d: %w: self-loop on node %d", i, ErrInvalidEdge, e.From)
		}
		for _, prev := range g.edges[:i] {
			if prev.Connects(e.From, e.To) {
				return fmt.Errorf("edge %d: %w: duplicate of %d-%d", i, ErrInvalidEdge, prev.From, prev.To)
			}
		}
	}
	return nil
}

// Equal reports whether g and o hold the same nodes, the same edges in the
// same order and the same angle.
func (g *Graph) Equal(o *Graph) bool {
	if g.angle != o.angle || len(g.nodes) != len(o.nodes) {
		return false
	}
	for id, n := range g.nodes {
		on, ok := o.nodes[id]
		if !ok || *n != *on {
			return false
		}
	}
	return slices.Equal(g.edges, o.edges)
}
