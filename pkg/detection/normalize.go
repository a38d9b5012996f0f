package detection

import (
	"github.com/google/uuid"

	"github.com/teslashibe/facemask/pkg/geometry"
)

// Normalize maps raw detections into face regions in source image
// pixel space. Boxes arrive center-based and 0-1 normalized relative
// to the detector canvas; they are converted to top-left origin in
// detector pixels, scaled per axis into source pixels, and clamped to
// the image bounds. Regions that clamp away to nothing are dropped.
//
// threshold is the confidence threshold used for the call; it feeds
// the fallback of the confidence extractor.
func Normalize(raws []RawDetection, detector, source geometry.Space, threshold float64) FaceSet {
	out := make(FaceSet, 0, len(raws))
	for _, raw := range raws {
		w := raw.Box.Width * detector.Width
		h := raw.Box.Height * detector.Height
		r := geometry.Rect{
			X: raw.Box.XCenter*detector.Width - w/2,
			Y: raw.Box.YCenter*detector.Height - h/2,
			W: w,
			H: h,
		}
		r = r.Scale(detector, source).ClampTo(source)
		if r.Empty() {
			continue
		}
		out = append(out, FaceRegion{
			ID:         uuid.NewString(),
			Rect:       r,
			Confidence: ExtractConfidence(raw.Payload, threshold),
		})
	}
	return out
}
