package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultRadius is the radius, in scene units, given to nodes created
// without an explicit size.
const DefaultRadius = 12.0

// NodeID identifies a node for the lifetime of a document.
type NodeID int

// MaxNodeID is the largest ID a snapshot may carry. CreateNode keeps
// counting above it without overflowing.
const MaxNodeID NodeID = 1 << 30

// Point is a position in scene space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// =============================================================================
// Color
// =============================================================================

// Color is an opaque RGB color. Its text form is "#rrggbb", which is also how
// it appears in JSON, TOML and BSON snapshots.
type Color struct {
	R, G, B uint8
}

// Pen palette.
var (
	Black = Color{0, 0, 0}
	Red   = Color{255, 0, 0}
	Blue  = Color{0, 0, 255}
)

// Palette maps the names accepted by [ParseColor] to their colors.
var Palette = map[string]Color{
	"black": Black,
	"red":   Red,
	"blue":  Blue,
}

// ParseColor accepts a palette name (case-insensitive) or a "#rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := Palette[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the "#rrggbb" form of c.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Name returns the palette name of c, or its hex form if it is not in the palette.
func (c Color) Name() string {
	for name, pc := range Palette {
		if pc == c {
			return name
		}
	}
	return c.Hex()
}

func (c Color) String() string { return c.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RGB returns the components scaled to [0, 1].
func (c Color) RGB() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// =============================================================================
// Node and Edge
// =============================================================================

// Node is a circle on the canvas. Color is the pen color active when the node
// was created and is used for its border.
type Node struct {
	ID     NodeID
	Pos    Point
	Radius float64
	Color  Color
}

// Contains reports whether p lies within the node's circle grown by slack.
func (n Node) Contains(p Point, slack float64) bool {
	r := n.Radius + slack
	dx, dy := p.X-n.Pos.X, p.Y-n.Pos.Y
	return dx*dx+dy*dy <= r*r
}

// Edge connects two distinct nodes. From and To record the direction the edge
// was drawn in; uniqueness is over the unordered pair.
type Edge struct {
	From  NodeID
	To    NodeID
	Color Color
}

// Connects reports whether e joins a and b in either direction.
func (e Edge) Connects(a, b NodeID) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// Touches reports whether id is one of e's endpoints.
func (e Edge) Touches(id NodeID) bool {
	return e.From == id || e.To == id
}
