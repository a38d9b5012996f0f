package geometry

import "testing"

func square(x0, y0, x1, y1 float64) Polygon {
	return Polygon{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
		{X: x0, Y: y0},
	}
}

func TestPolygon_Valid(t *testing.T) {
	cases := []struct {
		name string
		poly Polygon
		want bool
	}{
		{"two points", Polygon{{X: 0, Y: 0}, {X: 10, Y: 10}}, false},
		{"three points unclosed", Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}, false},
		{"triangle closed", Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}, {X: 0, Y: 0}}, true},
		{"square closed", square(0, 0, 10, 10), true},
		{"empty", Polygon{}, false},
	}
	for _, tc := range cases {
		if got := tc.poly.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPolygon_Scale(t *testing.T) {
	p := square(10, 10, 20, 20)
	scaled := p.Scale(Space{Width: 100, Height: 100}, Space{Width: 200, Height: 50})
	if scaled[0].X != 20 || scaled[0].Y != 5 {
		t.Errorf("scaled first point: got %+v", scaled[0])
	}
	if scaled[2].X != 40 || scaled[2].Y != 10 {
		t.Errorf("scaled third point: got %+v", scaled[2])
	}
}

func TestPolygon_Bounds(t *testing.T) {
	p := Polygon{{X: 5, Y: 10}, {X: 30, Y: 2}, {X: 15, Y: 25}}
	b := p.Bounds()
	want := Rect{X: 5, Y: 2, W: 25, H: 23}
	if b != want {
		t.Errorf("Bounds: got %+v, want %+v", b, want)
	}
}

func TestRaster_SquareContains(t *testing.T) {
	r := square(2, 2, 8, 8).Rasterize(Space{Width: 10, Height: 10})

	if !r.Contains(Point{X: 5, Y: 5}) {
		t.Error("center of square should be inside")
	}
	if r.Contains(Point{X: 1, Y: 1}) {
		t.Error("point left of square should be outside")
	}
	if r.Contains(Point{X: 9, Y: 9}) {
		t.Error("point past square should be outside")
	}
	if r.Contains(Point{X: -1, Y: 5}) || r.Contains(Point{X: 5, Y: 11}) {
		t.Error("points outside the grid should be outside")
	}
}

func TestRaster_Triangle(t *testing.T) {
	tri := Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	r := tri.Rasterize(Space{Width: 10, Height: 10})

	if !r.Contains(Point{X: 2, Y: 2}) {
		t.Error("point near the right-angle corner should be inside")
	}
	if r.Contains(Point{X: 8, Y: 8}) {
		t.Error("point across the hypotenuse should be outside")
	}
}

func TestRaster_DegeneratePolygon(t *testing.T) {
	// Fewer than three points rasterizes to an empty region.
	r := Polygon{{X: 0, Y: 0}, {X: 10, Y: 10}}.Rasterize(Space{Width: 10, Height: 10})
	if r.Contains(Point{X: 5, Y: 5}) {
		t.Error("degenerate polygon should contain nothing")
	}
}
