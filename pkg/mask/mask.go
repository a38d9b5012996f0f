// Package mask applies destructive pixel transforms to face regions
// on a display canvas: block-average pixelation, blur, or an image
// stamp overlay.
package mask

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/teslashibe/facemask/pkg/detection"
	"github.com/teslashibe/facemask/pkg/geometry"
)

// Transform selects the pixel transform applied to each region.
type Transform string

const (
	TransformPixelate Transform = "pixelate"
	TransformBlur     Transform = "blur"
	TransformStamp    Transform = "stamp"
)

// Intensity runs 1-5; lower intensity obscures less.
const (
	MinIntensity = 1
	MaxIntensity = 5
)

// ErrNoStamp is returned when the stamp transform is requested but no
// overlay image has been set.
var ErrNoStamp = errors.New("mask: no stamp image set")

// Config holds the tunable parameters of the masking stage.
type Config struct {
	// MarginRatio expands each region by this ratio of its size on
	// every side before masking. Empirically chosen default.
	MarginRatio float64
}

// DefaultConfig returns the recommended masking parameters.
func DefaultConfig() Config {
	return Config{MarginRatio: 0.10}
}

// Applier paints mask transforms over face regions. Regions arrive in
// source image coordinates and are converted to the canvas's space
// before painting; everything is clamped to canvas bounds first, so
// transforms never read or write outside the canvas.
type Applier struct {
	cfg   Config
	stamp image.Image
}

// NewApplier returns an applier with the given parameters.
func NewApplier(cfg Config) *Applier {
	if cfg.MarginRatio < 0 {
		cfg.MarginRatio = 0
	}
	return &Applier{cfg: cfg}
}

// SetStamp sets the overlay image used by TransformStamp.
func (a *Applier) SetStamp(img image.Image) {
	a.stamp = img
}

// Apply paints the transform over every face region. src is the
// source image space the regions are expressed in; the canvas bounds
// define the display space. Regions that clamp away to nothing are
// left untouched.
func (a *Applier) Apply(canvas *image.RGBA, faces detection.FaceSet, t Transform, intensity int, src geometry.Space) error {
	if intensity < MinIntensity {
		intensity = MinIntensity
	}
	if intensity > MaxIntensity {
		intensity = MaxIntensity
	}
	display := geometry.Space{
		Width:  float64(canvas.Bounds().Dx()),
		Height: float64(canvas.Bounds().Dy()),
	}

	for _, f := range faces {
		r := f.Rect.Scale(src, display).Expand(a.cfg.MarginRatio).ClampTo(display)
		if r.Empty() {
			continue
		}
		switch t {
		case TransformBlur:
			blurRegion(canvas, r, intensity)
		case TransformStamp:
			if a.stamp == nil {
				return ErrNoStamp
			}
			stampRegion(canvas, r, a.stamp)
		default:
			pixelateRegion(canvas, r, intensity)
		}
	}
	return nil
}

// pixelCellSize returns the pixelation grid cell for a region's
// shorter side: max(2, floor(minSide / (15 - intensity*1.5))).
func pixelCellSize(minSide float64, intensity int) int {
	cell := int(minSide / (15.0 - float64(intensity)*1.5))
	if cell < 2 {
		cell = 2
	}
	return cell
}

// pixelateRegion replaces each grid cell with the flat average of its
// RGBA channels.
func pixelateRegion(canvas *image.RGBA, r geometry.Rect, intensity int) {
	rect := toImageRect(r).Intersect(canvas.Bounds())
	if rect.Empty() {
		return
	}
	cell := pixelCellSize(math.Min(r.W, r.H), intensity)

	for y := rect.Min.Y; y < rect.Max.Y; y += cell {
		for x := rect.Min.X; x < rect.Max.X; x += cell {
			cellRect := image.Rect(x, y, x+cell, y+cell).Intersect(rect)
			fillAverage(canvas, cellRect)
		}
	}
}

func fillAverage(canvas *image.RGBA, rect image.Rectangle) {
	var sr, sg, sb, sa, n uint64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := canvas.RGBAAt(x, y)
			sr += uint64(c.R)
			sg += uint64(c.G)
			sb += uint64(c.B)
			sa += uint64(c.A)
			n++
		}
	}
	if n == 0 {
		return
	}
	avg := image.NewUniform(color.RGBA{
		R: uint8(sr / n),
		G: uint8(sg / n),
		B: uint8(sb / n),
		A: uint8(sa / n),
	})
	draw.Draw(canvas, rect, avg, image.Point{}, draw.Src)
}

// blurRegion extracts the region to an off-canvas surface, blurs it
// with sigma 2 + intensity*1.5, and composites it back in place.
func blurRegion(canvas *image.RGBA, r geometry.Rect, intensity int) {
	rect := toImageRect(r).Intersect(canvas.Bounds())
	if rect.Empty() {
		return
	}
	sigma := 2.0 + float64(intensity)*1.5
	blurred := imaging.Blur(canvas.SubImage(rect), sigma)
	draw.Draw(canvas, rect, blurred, image.Point{}, draw.Src)
}

// stampRegion scales the overlay so its diagonal is 1.1x the region's
// diagonal, guaranteeing full coverage regardless of aspect-ratio
// mismatch, and centers it on the region. Drawing clips to the canvas.
func stampRegion(canvas *image.RGBA, r geometry.Rect, stamp image.Image) {
	sb := stamp.Bounds()
	stampDiag := math.Hypot(float64(sb.Dx()), float64(sb.Dy()))
	if stampDiag <= 0 {
		return
	}
	scale := 1.1 * math.Hypot(r.W, r.H) / stampDiag
	w := int(math.Round(float64(sb.Dx()) * scale))
	h := int(math.Round(float64(sb.Dy()) * scale))
	if w < 1 || h < 1 {
		return
	}
	resized := imaging.Resize(stamp, w, h, imaging.Lanczos)

	center := r.Center()
	dst := image.Rect(0, 0, w, h).
		Add(image.Pt(int(center.X)-w/2, int(center.Y)-h/2)).
		Intersect(canvas.Bounds())
	if dst.Empty() {
		return
	}
	src := image.Pt(dst.Min.X-(int(center.X)-w/2), dst.Min.Y-(int(center.Y)-h/2))
	draw.Draw(canvas, dst, resized, src, draw.Over)
}

func toImageRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)),
		int(math.Ceil(r.Y+r.H)),
	)
}
