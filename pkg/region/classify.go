package region

import (
	"context"
	"image"

	"github.com/teslashibe/facemask/internal/log"
	"github.com/teslashibe/facemask/pkg/detection"
	"github.com/teslashibe/facemask/pkg/geometry"
)

// classifyCenters reuses the known face set when one is available,
// otherwise detects on the whole image once, and keeps the faces
// whose centers fall inside the polygon.
type classifyCenters struct {
	adapter *detection.Adapter
	cfg     Config
}

func (e *classifyCenters) FacesInRegion(ctx context.Context, img image.Image, display geometry.Space, poly geometry.Polygon, known detection.FaceSet) (detection.FaceSet, error) {
	if !poly.Valid() {
		return nil, nil
	}

	src := SpaceOf(img)
	faces := known.Clone()
	if len(faces) == 0 {
		if err := e.adapter.Initialize(e.cfg.ManualThreshold); err != nil {
			return nil, err
		}
		raws, err := e.adapter.Detect(ctx, RenderToCanvas(img, e.cfg.DetectorCanvas))
		if err != nil {
			return nil, err
		}
		faces = detection.Normalize(raws, e.cfg.DetectorCanvas, src, e.cfg.ManualThreshold)
		faces = e.cfg.Resolver.Resolve(faces)
	}

	faces = insidePolygon(faces, poly, display, src)
	faces = faces.AboveConfidence(e.cfg.ManualThreshold)

	log.Debug("region classification", "known", len(known), "kept", len(faces))
	return faces, nil
}
