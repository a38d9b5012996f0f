package geometry

import (
	"math"
	"sort"
)

// Raster is a polygon rasterized into a pixel space with even-odd
// fill. It answers point-in-region queries and drives clip masking.
type Raster struct {
	width  int
	height int
	inside []bool
}

// Rasterize fills the polygon into a grid sized to the given space
// using scanline even-odd filling at pixel centers.
func (p Polygon) Rasterize(s Space) *Raster {
	w := int(math.Ceil(s.Width))
	h := int(math.Ceil(s.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	r := &Raster{width: w, height: h, inside: make([]bool, w*h)}
	if len(p) < 3 {
		return r
	}

	xs := make([]float64, 0, len(p))
	for y := 0; y < h; y++ {
		cy := float64(y) + 0.5
		xs = xs[:0]
		for i := 0; i < len(p); i++ {
			a := p[i]
			b := p[(i+1)%len(p)]
			if (a.Y <= cy) == (b.Y <= cy) {
				continue
			}
			t := (cy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			if x0 < 0 {
				x0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			for x := x0; x <= x1; x++ {
				r.inside[y*w+x] = true
			}
		}
	}
	return r
}

// Contains reports whether the point falls inside the rasterized
// region. Points outside the grid are outside the region.
func (r *Raster) Contains(pt Point) bool {
	x := int(pt.X)
	y := int(pt.Y)
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return false
	}
	return r.inside[y*r.width+x]
}

// ContainsPixel reports whether the pixel at integer coordinates is
// inside the region.
func (r *Raster) ContainsPixel(x, y int) bool {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return false
	}
	return r.inside[y*r.width+x]
}
