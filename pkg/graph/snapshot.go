package graph

import (
	"errors"
	"fmt"
	"math"
)

// ErrCorruptSnapshot is returned by [FromSnapshot] when the record violates a
// graph invariant: duplicate or out-of-range node IDs, non-finite
// coordinates, dangling or invalid edges.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot is the persistence record of a document.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes" toml:"nodes"`
	Edges []SnapshotEdge `json:"edges" toml:"edges"`
	Angle float64        `json:"angle" toml:"angle"`
}

// SnapshotNode is the persisted form of a [Node]. Radius is omitted when it
// equals [DefaultRadius].
type SnapshotNode struct {
	ID     NodeID  `json:"id" toml:"id"`
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Color  Color   `json:"color" toml:"color"`
	Radius float64 `json:"radius,omitempty" toml:"radius,omitempty"`
}

// SnapshotEdge is the persisted form of an [Edge].
type SnapshotEdge struct {
	From  NodeID `json:"from" toml:"from"`
	To    NodeID `json:"to" toml:"to"`
	Color Color  `json:"color" toml:"color"`
}

// ToSnapshot converts g to its persistence record. Nodes are sorted by ID and
// edges keep insertion order; both slices are non-nil.
func (g *Graph) ToSnapshot() Snapshot {
	nodes := g.Nodes()
	s := Snapshot{
		Nodes: make([]SnapshotNode, len(nodes)),
		Edges: make([]SnapshotEdge, len(g.edges)),
		Angle: g.angle,
	}
	for i, n := range nodes {
		sn := SnapshotNode{ID: n.ID, X: n.Pos.X, Y: n.Pos.Y, Color: n.Color}
		if n.Radius != DefaultRadius {
			sn.Radius = n.Radius
		}
		s.Nodes[i] = sn
	}
	for i, e := range g.edges {
		s.Edges[i] = SnapshotEdge{From: e.From, To: e.To, Color: e.Color}
	}
	return s
}

// FromSnapshot rebuilds a graph from s. Nodes are inserted in snapshot order,
// which also becomes their drawing order.
//
// Node IDs must lie in [1, MaxNodeID].
func FromSnapshot(s Snapshot) (*Graph, error) {
	if !finite(s.Angle) {
		return nil, fmt.Errorf("%w: angle %v", ErrCorruptSnapshot, s.Angle)
	}
	g := New()
	g.angle = s.Angle
	for i, sn := range s.Nodes {
		if sn.ID <= 0 || sn.ID > MaxNodeID {
			return nil, fmt.Errorf("%w: node %d: id %d out of range", ErrCorruptSnapshot, i, sn.ID)
		}
		if !finite(sn.X) || !finite(sn.Y) || !finite(sn.Radius) {
			return nil, fmt.Errorf("%w: node %d: non-finite geometry", ErrCorruptSnapshot, i)
		}
		n := Node{ID: sn.ID, Pos: Point{X: sn.X, Y: sn.Y}, Radius: sn.Radius, Color: sn.Color}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrCorruptSnapshot, i, err)
		}
	}
	for i, se := range s.Edges {
		if err := g.CreateEdge(se.From, se.To, se.Color); err != nil {
			return nil, fmt.Errorf("%w: edge %d: %v", ErrCorruptSnapshot, i, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return g, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
