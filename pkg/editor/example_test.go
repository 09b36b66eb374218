package editor_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpad/pkg/editor"
	"github.com/matzehuels/graphpad/pkg/graph"
)

func Example() {
	g := graph.New()
	c := editor.New(g, editor.NewPen(graph.Red), editor.Options{Logger: log.New(io.Discard)})

	click := func(x, y float64) editor.Result {
		c.HandleEvent(editor.Event{Kind: editor.Press, Pos: graph.Point{X: x, Y: y}})
		return c.HandleEvent(editor.Event{Kind: editor.Release, Pos: graph.Point{X: x, Y: y}})
	}

	a := click(40, 40).Node
	b := click(200, 40).Node

	// Drag from a onto b.
	c.HandleEvent(editor.Event{Kind: editor.Press, Pos: graph.Point{X: 40, Y: 40}})
	c.HandleEvent(editor.Event{Kind: editor.Move, Pos: graph.Point{X: 120, Y: 40}})
	res := c.HandleEvent(editor.Event{Kind: editor.Release, Pos: graph.Point{X: 200, Y: 40}})

	fmt.Println(res.Action, res.Edge.From == a, res.Edge.To == b)
	n, _ := g.Node(a)
	fmt.Println(n.Pos, n.Color.Name())
	// Output:
	// edge-created true true
	// (40, 40) red
}

func ExampleController_SetPenColor() {
	g := graph.New()
	c := editor.New(g, nil, editor.Options{Logger: log.New(io.Discard)})

	c.HandleEvent(editor.Event{Kind: editor.Press, Pos: graph.Point{X: 10, Y: 10}})
	first := c.HandleEvent(editor.Event{Kind: editor.Release, Pos: graph.Point{X: 10, Y: 10}})

	c.SetPenColor(graph.Blue)
	c.HandleEvent(editor.Event{Kind: editor.Press, Pos: graph.Point{X: 90, Y: 10}})
	second := c.HandleEvent(editor.Event{Kind: editor.Release, Pos: graph.Point{X: 90, Y: 10}})

	for _, id := range []graph.NodeID{first.Node, second.Node} {
		n, _ := g.Node(id)
		fmt.Println(id, n.Color.Name())
	}
	// Output:
	// 1 black
	// 2 blue
}
