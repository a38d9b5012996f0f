// Package region resolves a freeform selection polygon to the faces
// inside it. Two interchangeable strategies exist: mask the image to
// the polygon and re-detect, or classify already-known face centers
// against the polygon. Both honor the same output contract.
package region

import (
	"context"
	"image"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/teslashibe/facemask/pkg/detection"
	"github.com/teslashibe/facemask/pkg/geometry"
)

// Strategy selects how faces inside a polygon are found.
type Strategy string

const (
	// StrategyCropRedetect masks the image to the polygon and runs
	// detection on the masked surface.
	StrategyCropRedetect Strategy = "crop-redetect"

	// StrategyClassifyCenters detects on the whole image (or reuses
	// the known set) and keeps faces whose centers fall inside the
	// polygon.
	StrategyClassifyCenters Strategy = "classify-centers"
)

// Engine finds the faces inside a selection polygon. The polygon is
// in display canvas coordinates; the returned faces are in source
// image coordinates. An invalid polygon (fewer than three vertices or
// not closed) yields a nil set and no error: it is discarded, not
// failed.
type Engine interface {
	FacesInRegion(ctx context.Context, img image.Image, display geometry.Space, poly geometry.Polygon, known detection.FaceSet) (detection.FaceSet, error)
}

// Config holds the tunable parameters of the region stage.
type Config struct {
	Strategy        Strategy
	DetectorCanvas  geometry.Space
	ManualThreshold float64
	Resolver        detection.Resolver
}

// DefaultConfig returns the recommended region parameters, derived
// from the detection defaults.
func DefaultConfig() Config {
	det := detection.DefaultConfig()
	return Config{
		Strategy:        StrategyCropRedetect,
		DetectorCanvas:  det.DetectorCanvas,
		ManualThreshold: det.ManualThreshold,
		Resolver:        detection.NewResolver(det.IoUThreshold),
	}
}

// New returns the engine for the configured strategy.
func New(cfg Config, adapter *detection.Adapter) Engine {
	if cfg.Strategy == StrategyClassifyCenters {
		return &classifyCenters{adapter: adapter, cfg: cfg}
	}
	return &cropRedetect{adapter: adapter, cfg: cfg}
}

// SpaceOf returns the pixel space of an image.
func SpaceOf(img image.Image) geometry.Space {
	b := img.Bounds()
	return geometry.Space{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// RenderToCanvas draws the image onto a surface sized to the given
// space, scaling it to fill.
func RenderToCanvas(img image.Image, s geometry.Space) *image.RGBA {
	w, h := int(s.Width), int(s.Height)
	scaled := resize.Resize(uint(w), uint(h), img, resize.Bilinear)
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return canvas
}

// insidePolygon keeps the faces whose centers (in source space) fall
// inside the polygon rasterized into source space.
func insidePolygon(faces detection.FaceSet, poly geometry.Polygon, display, src geometry.Space) detection.FaceSet {
	raster := poly.Scale(display, src).Rasterize(src)
	out := make(detection.FaceSet, 0, len(faces))
	for _, f := range faces {
		if raster.Contains(f.Rect.Center()) {
			out = append(out, f)
		}
	}
	return out
}
