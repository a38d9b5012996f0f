package geometry

import "math"

// closeTolerance is the maximum distance between the first and last
// point for a polygon to count as closed. Closing the path (exact
// repeat of the first point vs. proximity auto-close) is the caller's
// policy; this package only validates the result.
const closeTolerance = 1e-6

// Polygon is a closed freeform path. The last point is expected to
// repeat the first; intermediate points are the drawn vertices.
type Polygon []Point

// Valid reports whether the polygon is usable for region selection:
// closed and with at least three distinct vertices. Invalid polygons
// are discarded by callers, never treated as errors.
func (p Polygon) Valid() bool {
	if len(p) < 4 {
		return false
	}
	first, last := p[0], p[len(p)-1]
	if math.Hypot(first.X-last.X, first.Y-last.Y) > closeTolerance {
		return false
	}
	return len(p)-1 >= 3
}

// Scale converts every point of the polygon from one space to another.
func (p Polygon) Scale(from, to Space) Polygon {
	sx := to.Width / from.Width
	sy := to.Height / from.Height
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X * sx, Y: pt.Y * sy}
	}
	return out
}

// Bounds returns the axis-aligned bounding rectangle of the polygon.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := p[0].X, p[0].Y
	for _, pt := range p[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
