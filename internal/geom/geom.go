// Package geom provides the planar geometry shared by the map and the
// adjacency builder: points, polylines, and segment crossing tests.
package geom

import "math"

// Sqrt3 is the ratio between the center spacing of neighboring hexes and
// the hex side length.
var Sqrt3 = math.Sqrt(3)

// Point is a position in either normalized map space or scaled space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Scale converts a normalized map coordinate into scaled space for the given
// hex side. x scales by the side, y by sqrt(3) times the side.
func Scale(p Point, hexSide float64) Point {
	return Point{X: p.X * hexSide, Y: p.Y * Sqrt3 * hexSide}
}

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

// Polyline is an ordered list of points joined by straight segments.
type Polyline []Point

// Segments returns the consecutive segments of the polyline. Polylines with
// fewer than two points have none.
func (pl Polyline) Segments() []Segment {
	if len(pl) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(pl)-1)
	for i := 1; i < len(pl); i++ {
		segs = append(segs, Segment{A: pl[i-1], B: pl[i]})
	}
	return segs
}

// Scaled returns a copy of the polyline in scaled space.
func (pl Polyline) Scaled(hexSide float64) Polyline {
	out := make(Polyline, len(pl))
	for i, p := range pl {
		out[i] = Scale(p, hexSide)
	}
	return out
}

// cross returns the z component of (b-a) x (c-a). Positive means c lies
// counter-clockwise of the directed line a->b.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Intersects reports whether segments p1p2 and p3p4 properly cross: p3 and p4
// lie strictly on opposite sides of line p1p2 and p1 and p2 lie strictly on
// opposite sides of line p3p4. Collinear or endpoint-touching configurations
// do not count as crossings.
func Intersects(p1, p2, p3, p4 Point) bool {
	d1 := cross(p1, p2, p3)
	d2 := cross(p1, p2, p4)
	d3 := cross(p3, p4, p1)
	d4 := cross(p3, p4, p2)
	return d1*d2 < 0 && d3*d4 < 0
}

// CrossesAny reports whether segment ab crosses any segment of any polyline.
func CrossesAny(a, b Point, lines []Polyline) bool {
	for _, pl := range lines {
		for _, s := range pl.Segments() {
			if Intersects(a, b, s.A, s.B) {
				return true
			}
		}
	}
	return false
}

// HexVertices returns the six corners of a flat-topped hexagon, starting at
// the right-hand corner and proceeding clockwise in screen space.
func HexVertices(center Point, side float64) [6]Point {
	half := 0.5 * side
	vertical := 0.5 * Sqrt3 * side
	return [6]Point{
		{X: center.X + side, Y: center.Y},
		{X: center.X + half, Y: center.Y + vertical},
		{X: center.X - half, Y: center.Y + vertical},
		{X: center.X - side, Y: center.Y},
		{X: center.X - half, Y: center.Y - vertical},
		{X: center.X + half, Y: center.Y - vertical},
	}
}
