package graph

import (
	"errors"
	"testing"
)

func TestCreateNode(t *testing.T) {
	g := New()
	a := g.CreateNode(Point{X: 10, Y: 20}, Red)
	b := g.CreateNode(Point{X: 30, Y: 40}, Blue)

	if a == b {
		t.Fatalf("CreateNode returned duplicate IDs %d", a)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}

	n, ok := g.Node(a)
	if !ok {
		t.Fatal("Node(a) not found")
	}
	if n.Pos != (Point{X: 10, Y: 20}) {
		t.Errorf("Pos = %v, want (10, 20)", n.Pos)
	}
	if n.Radius != DefaultRadius {
		t.Errorf("Radius = %v, want %v", n.Radius, DefaultRadius)
	}
	if n.Color != Red {
		t.Errorf("Color = %v, want %v", n.Color, Red)
	}
}

func TestIDsAreNotReused(t *testing.T) {
	g := New()
	a := g.CreateNode(Point{}, Black)
	b := g.CreateNode(Point{}, Black)
	if err := g.RemoveNode(b); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	c := g.CreateNode(Point{}, Black)
	if c == a || c == b {
		t.Errorf("CreateNode reused ID %d (a=%d, b=%d)", c, a, b)
	}

	if err := g.AddNode(Node{ID: 50}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if d := g.CreateNode(Point{}, Black); d <= 50 {
		t.Errorf("CreateNode after AddNode(50) = %d, want > 50", d)
	}
}

func TestAddNodeDuplicate(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: 3}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: 3}); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("AddNode duplicate err = %v, want ErrDuplicateNode", err)
	}
	n, _ := g.Node(3)
	if n.Radius != DefaultRadius {
		t.Errorf("AddNode zero radius = %v, want default", n.Radius)
	}
}

func TestCreateEdge(t *testing.T) {
	g := New()
	a := g.CreateNode(Point{X: 0, Y: 0}, Black)
	b := g.CreateNode(Point{X: 100, Y: 0}, Black)

	tests := []struct {
		name    string
		from    NodeID
		to      NodeID
		wantErr error
	}{
		{name: "first edge", from: a, to: b},
		{name: "duplicate same direction", from: a, to: b, wantErr: ErrInvalidEdge},
		{name: "duplicate reverse direction", from: b, to: a, wantErr: ErrInvalidEdge},
		{name: "self-loop", from: a, to: a, wantErr: ErrInvalidEdge},
		{name: "unknown source", from: 99, to: a, wantErr: ErrUnknownNode},
		{name: "unknown target", from: a, to: 99, wantErr: ErrUnknownNode},
		{name: "self-loop on unknown node", from: 99, to: 99, wantErr: ErrUnknownNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.EdgeCount()
			err := g.CreateEdge(tt.from, tt.to, Red)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CreateEdge: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateEdge err = %v, want %v", err, tt.wantErr)
			}
			if g.EdgeCount() != before {
				t.Errorf("EdgeCount changed from %d to %d on failure", before, g.EdgeCount())
			}
		})
	}
}

func TestNoSelfLoopsForAnyNode(t *testing.T) {
	g := New()
	for i := 0; i < 5; i++ {
		g.CreateNode(Point{X: float64(i * 50)}, Black)
	}
	for _, n := range g.Nodes() {
		if err := g.CreateEdge(n.ID, n.ID, Blue); !errors.Is(err, ErrInvalidEdge) {
			t.Errorf("CreateEdge(%d, %d) err = %v, want ErrInvalidEdge", n.ID, n.ID, err)
		}
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := New()
	a := g.CreateNode(Point{}, Black)
	b := g.CreateNode(Point{X: 50}, Black)
	c := g.CreateNode(Point{X: 100}, Black)
	_ = g.CreateEdge(a, b, Black)
	_ = g.CreateEdge(b, c, Black)
	_ = g.CreateEdge(a, c, Black)

	if err := g.RemoveNode(b); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if !g.HasEdge(c, a) {
		t.Error("edge a-c should survive")
	}
	if err := g.RemoveNode(b); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("second RemoveNode err = %v, want ErrUnknownNode", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	a := g.CreateNode(Point{}, Black)
	b := g.CreateNode(Point{X: 50}, Black)
	_ = g.CreateEdge(a, b, Black)

	if !g.RemoveEdge(b, a) {
		t.Error("RemoveEdge(b, a) = false, want true")
	}
	if g.RemoveEdge(a, b) {
		t.Error("RemoveEdge on missing edge = true, want false")
	}
	if err := g.CreateEdge(b, a, Black); err != nil {
		t.Errorf("CreateEdge after removal: %v", err)
	}
}

func TestMoveNode(t *testing.T) {
	g := New()
	a := g.CreateNode(Point{}, Black)
	if err := g.MoveNode(a, Point{X: 5, Y: 6}); err != nil {
		t.Fatalf("MoveNode: %v", err)
	}
	n, _ := g.Node(a)
	if n.Pos != (Point{X: 5, Y: 6}) {
		t.Errorf("Pos = %v, want (5, 6)", n.Pos)
	}
	if err := g.MoveNode(42, Point{}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("MoveNode unknown err = %v, want ErrUnknownNode", err)
	}
}

func TestNodeAt(t *testing.T) {
	g := New()
	a := g.CreateNode(Point{X: 100, Y: 100}, Black)
	b := g.CreateNode(Point{X: 110, Y: 100}, Black) // overlaps a, drawn on top

	tests := []struct {
		name   string
		pos    Point
		slack  float64
		wantID NodeID
		wantOK bool
	}{
		{name: "center of a", pos: Point{X: 95, Y: 100}, wantID: a, wantOK: true},
		{name: "overlap prefers topmost", pos: Point{X: 105, Y: 100}, wantID: b, wantOK: true},
		{name: "empty canvas", pos: Point{X: 300, Y: 300}},
		{name: "just outside radius", pos: Point{X: 100, Y: 113}},
		{name: "inside with slack", pos: Point{X: 100, Y: 113}, slack: 2, wantID: a, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := g.NodeAt(tt.pos, tt.slack)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("NodeAt(%v) = (%d, %v), want (%d, %v)", tt.pos, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}

	if id, ok := g.NodeAtExcept(Point{X: 105, Y: 100}, 0, b); !ok || id != a {
		t.Errorf("NodeAtExcept skipping b = (%d, %v), want (%d, true)", id, ok, a)
	}
}

func TestNodesSortedByID(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: 7})
	_ = g.AddNode(Node{ID: 2})
	_ = g.AddNode(Node{ID: 5})

	nodes := g.Nodes()
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1].ID >= nodes[i].ID {
			t.Fatalf("Nodes not sorted: %v", nodes)
		}
	}
	draw := g.DrawOrder()
	if draw[0].ID != 7 || draw[2].ID != 5 {
		t.Errorf("DrawOrder = %v, want insertion order 7,2,5", draw)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "red", want: Red},
		{in: "BLUE", want: Blue},
		{in: " black ", want: Black},
		{in: "#00ff80", want: Color{0, 255, 128}},
		{in: "00FF80", want: Color{0, 255, 128}},
		{in: "#fff", wantErr: true},
		{in: "green", wantErr: true},
		{in: "#gg0000", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if Red.Name() != "red" || (Color{1, 2, 3}).Name() != "#010203" {
		t.Errorf("Name() = %q, %q", Red.Name(), Color{1, 2, 3}.Name())
	}
}

func TestBounds(t *testing.T) {
	g := New()
	if _, _, ok := g.Bounds(); ok {
		t.Fatal("empty graph should have no bounds")
	}
	g.CreateNode(Point{X: 10, Y: 100}, Black)
	g.CreateNode(Point{X: 200, Y: 20}, Black)

	lo, hi, ok := g.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	wantLo := Point{X: 10 - DefaultRadius, Y: 20 - DefaultRadius}
	wantHi := Point{X: 200 + DefaultRadius, Y: 100 + DefaultRadius}
	if lo != wantLo || hi != wantHi {
		t.Errorf("Bounds() = %v, %v; want %v, %v", lo, hi, wantLo, wantHi)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
		want  error
	}{
		{"consistent", []Edge{{From: 1, To: 2}}, nil},
		{"dangling", []Edge{{From: 1, To: 3}}, ErrUnknownNode},
		{"self-loop", []Edge{{From: 2, To: 2}}, ErrInvalidEdge},
		{"duplicate", []Edge{{From: 1, To: 2}, {From: 2, To: 1}}, ErrInvalidEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.CreateNode(Point{}, Black)
			g.CreateNode(Point{X: 50}, Black)
			g.edges = tt.edges
			err := g.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
