package mask

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/teslashibe/facemask/pkg/detection"
	"github.com/teslashibe/facemask/pkg/geometry"
)

func gradientCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8((x * y) % 256), G: uint8(x * 2), B: uint8(y * 2), A: 255})
		}
	}
	return img
}

func face(x, y, w, h float64) detection.FaceSet {
	return detection.FaceSet{{
		Rect:       geometry.Rect{X: x, Y: y, W: w, H: h},
		Confidence: 0.9,
	}}
}

func TestPixelCellSize(t *testing.T) {
	cases := []struct {
		minSide   float64
		intensity int
		want      int
	}{
		{10, 3, 2},   // floor(10/10.5) = 0, clamped to 2
		{100, 5, 13}, // floor(100/7.5)
		{100, 1, 7},  // floor(100/13.5)
		{3, 5, 2},    // tiny region clamps to minimum
	}
	for _, tc := range cases {
		if got := pixelCellSize(tc.minSide, tc.intensity); got != tc.want {
			t.Errorf("pixelCellSize(%v, %d) = %d, want %d", tc.minSide, tc.intensity, got, tc.want)
		}
	}
}

func TestApply_PixelateFlattensCells(t *testing.T) {
	canvas := gradientCanvas(100, 100)
	applier := NewApplier(Config{MarginRatio: 0})
	src := geometry.Space{Width: 100, Height: 100}

	// 30x30 region at intensity 5: cell = floor(30/7.5) = 4.
	if err := applier.Apply(canvas, face(20, 20, 30, 30), TransformPixelate, 5, src); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// All pixels of one cell share the same color.
	base := canvas.RGBAAt(20, 20)
	for y := 20; y < 24; y++ {
		for x := 20; x < 24; x++ {
			if canvas.RGBAAt(x, y) != base {
				t.Fatalf("cell not flat at (%d,%d)", x, y)
			}
		}
	}
}

func TestApply_PixelateLeavesOutsideUntouched(t *testing.T) {
	canvas := gradientCanvas(100, 100)
	before := canvas.RGBAAt(5, 5)
	applier := NewApplier(Config{MarginRatio: 0})
	src := geometry.Space{Width: 100, Height: 100}

	if err := applier.Apply(canvas, face(20, 20, 30, 30), TransformPixelate, 3, src); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if canvas.RGBAAt(5, 5) != before {
		t.Error("pixel outside the region changed")
	}
}

func TestApply_BlurChangesRegionOnly(t *testing.T) {
	canvas := gradientCanvas(100, 100)
	outside := canvas.RGBAAt(90, 90)
	inside := canvas.RGBAAt(35, 35)
	applier := NewApplier(Config{MarginRatio: 0})
	src := geometry.Space{Width: 100, Height: 100}

	if err := applier.Apply(canvas, face(20, 20, 30, 30), TransformBlur, 5, src); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if canvas.RGBAAt(90, 90) != outside {
		t.Error("pixel outside the region changed")
	}
	if canvas.RGBAAt(35, 35) == inside {
		t.Error("pixel inside the region did not change")
	}
}

func TestApply_StampCoversRegion(t *testing.T) {
	canvas := gradientCanvas(100, 100)
	applier := NewApplier(Config{MarginRatio: 0})
	src := geometry.Space{Width: 100, Height: 100}

	stamp := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{R: 255, A: 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			stamp.SetRGBA(x, y, red)
		}
	}
	applier.SetStamp(stamp)

	if err := applier.Apply(canvas, face(40, 40, 20, 20), TransformStamp, 3, src); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// The stamp diagonal is 1.1x the region diagonal, so the region
	// center is certainly covered.
	if got := canvas.RGBAAt(50, 50); got != red {
		t.Errorf("region center not covered by stamp: %+v", got)
	}
}

func TestApply_StampWithoutImageFails(t *testing.T) {
	canvas := gradientCanvas(100, 100)
	applier := NewApplier(DefaultConfig())
	src := geometry.Space{Width: 100, Height: 100}

	err := applier.Apply(canvas, face(40, 40, 20, 20), TransformStamp, 3, src)
	if !errors.Is(err, ErrNoStamp) {
		t.Errorf("expected ErrNoStamp, got %v", err)
	}
}

func TestApply_SkipsRegionOutsideCanvas(t *testing.T) {
	canvas := gradientCanvas(100, 100)
	beforePix := make([]uint8, len(canvas.Pix))
	copy(beforePix, canvas.Pix)
	applier := NewApplier(DefaultConfig())
	src := geometry.Space{Width: 100, Height: 100}

	if err := applier.Apply(canvas, face(200, 200, 50, 50), TransformPixelate, 3, src); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range beforePix {
		if canvas.Pix[i] != beforePix[i] {
			t.Fatal("canvas changed for a region entirely outside it")
		}
	}
}

func TestApply_ScalesRegionsIntoDisplaySpace(t *testing.T) {
	// Source 200x200, display canvas 100x100: the region halves.
	canvas := gradientCanvas(100, 100)
	applier := NewApplier(Config{MarginRatio: 0})
	src := geometry.Space{Width: 200, Height: 200}

	outside := canvas.RGBAAt(60, 60)
	if err := applier.Apply(canvas, face(40, 40, 40, 40), TransformPixelate, 5, src); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// Region maps to (20,20)-(40,40) on the canvas; (60,60) is out.
	if canvas.RGBAAt(60, 60) != outside {
		t.Error("pixel outside the scaled region changed")
	}
}

func TestApply_MarginExpandsRegion(t *testing.T) {
	canvas := gradientCanvas(100, 100)
	applier := NewApplier(DefaultConfig()) // 10% margin
	src := geometry.Space{Width: 100, Height: 100}

	// Region (40,40)-(60,60) expands to (38,38)-(62,62).
	before := canvas.RGBAAt(39, 50)
	if err := applier.Apply(canvas, face(40, 40, 20, 20), TransformPixelate, 5, src); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if canvas.RGBAAt(39, 50) == before {
		t.Error("margin band not masked")
	}
}
