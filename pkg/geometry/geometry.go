// Package geometry provides the coordinate math shared by the face
// masking pipeline: axis-aligned rectangles, freeform selection
// polygons, and conversion between the three pixel spaces the pipeline
// works in (source image, detector canvas, display canvas).
package geometry

import "math"

// Space describes the pixel dimensions of one coordinate space.
type Space struct {
	Width  float64
	Height float64
}

// Valid reports whether the space has positive dimensions.
func (s Space) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Point is a position in some coordinate space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle with top-left origin.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Size returns the geometric mean side length, sqrt(W*H).
// Used as the characteristic face size for duplicate checks.
func (r Rect) Size() float64 {
	return math.Sqrt(r.W * r.H)
}

// Scale converts the rectangle from one space to another. Scale factors
// are always derived per axis as target dimension over source dimension.
func (r Rect) Scale(from, to Space) Rect {
	sx := to.Width / from.Width
	sy := to.Height / from.Height
	return Rect{X: r.X * sx, Y: r.Y * sy, W: r.W * sx, H: r.H * sy}
}

// Expand grows the rectangle by ratio of its own size on each side.
func (r Rect) Expand(ratio float64) Rect {
	mx := r.W * ratio
	my := r.H * ratio
	return Rect{X: r.X - mx, Y: r.Y - my, W: r.W + 2*mx, H: r.H + 2*my}
}

// ClampTo restricts the rectangle to the given space: the origin is
// clamped to be non-negative and the size is clamped so the rectangle
// does not extend past the space's dimensions. The result may be empty.
func (r Rect) ClampTo(s Space) Rect {
	out := r
	if out.X < 0 {
		out.X = 0
	}
	if out.Y < 0 {
		out.Y = 0
	}
	if out.X+out.W > s.Width {
		out.W = s.Width - out.X
	}
	if out.Y+out.H > s.Height {
		out.H = s.Height - out.Y
	}
	return out
}

// IoU returns the intersection-over-union of two rectangles,
// zero when they do not overlap.
func (r Rect) IoU(o Rect) float64 {
	x1 := math.Max(r.X, o.X)
	y1 := math.Max(r.Y, o.Y)
	x2 := math.Min(r.X+r.W, o.X+o.W)
	y2 := math.Min(r.Y+r.H, o.Y+o.H)

	if x1 >= x2 || y1 >= y2 {
		return 0
	}

	intersection := (x2 - x1) * (y2 - y1)
	union := r.Area() + o.Area() - intersection
	if union <= 0 {
		return 0
	}
	return intersection / union
}

// CenterDistance returns the Euclidean distance between the centers
// of two rectangles.
func CenterDistance(a, b Rect) float64 {
	ca, cb := a.Center(), b.Center()
	return math.Hypot(ca.X-cb.X, ca.Y-cb.Y)
}
