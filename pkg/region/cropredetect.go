package region

import (
	"context"
	"image"
	"image/color"

	"github.com/teslashibe/facemask/internal/log"
	"github.com/teslashibe/facemask/pkg/detection"
	"github.com/teslashibe/facemask/pkg/geometry"
)

// cropRedetect renders the source onto a detector-canvas-sized
// surface, destroys every pixel outside the polygon, and re-runs
// detection on the masked surface. The polygon travels two chained
// scale factors: display -> detector for the clip, and display ->
// source for the post-detection hit test that drops edge artifacts
// the black fill can produce.
type cropRedetect struct {
	adapter *detection.Adapter
	cfg     Config
}

func (e *cropRedetect) FacesInRegion(ctx context.Context, img image.Image, display geometry.Space, poly geometry.Polygon, known detection.FaceSet) (detection.FaceSet, error) {
	if !poly.Valid() {
		return nil, nil
	}

	src := SpaceOf(img)
	det := e.cfg.DetectorCanvas

	canvas := RenderToCanvas(img, det)
	maskOutside(canvas, poly.Scale(display, det).Rasterize(det))

	if err := e.adapter.Initialize(e.cfg.ManualThreshold); err != nil {
		return nil, err
	}
	raws, err := e.adapter.Detect(ctx, canvas)
	if err != nil {
		return nil, err
	}

	faces := detection.Normalize(raws, det, src, e.cfg.ManualThreshold)
	faces = e.cfg.Resolver.ResolveStrict(faces)
	faces = insidePolygon(faces, poly, display, src)
	faces = faces.AboveConfidence(e.cfg.ManualThreshold)

	log.Debug("region re-detection", "raw", len(raws), "kept", len(faces))
	return faces, nil
}

// maskOutside fills every pixel outside the rasterized region with a
// neutral black background.
func maskOutside(canvas *image.RGBA, raster *geometry.Raster) {
	black := color.RGBA{A: 255}
	b := canvas.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !raster.ContainsPixel(x, y) {
				canvas.SetRGBA(x, y, black)
			}
		}
	}
}
