// Package detection turns raw face detector output into a stable,
// deduplicated set of face regions in source image coordinates.
//
// The external detector is modeled as a Backend; the Adapter wraps a
// Backend with the one-at-a-time and timeout discipline the pipeline
// relies on.
package detection

import (
	"image"

	"github.com/teslashibe/facemask/pkg/geometry"
)

// FaceRegion is a detected face's bounding rectangle in source image
// pixel coordinates, plus the detection confidence. Regions are never
// mutated in place; operations always produce new regions or sets.
type FaceRegion struct {
	ID         string
	Rect       geometry.Rect
	Confidence float64
}

// FaceSet is an ordered collection of face regions. Order is not
// significant for correctness; it only keeps rendering stable.
type FaceSet []FaceRegion

// Clone returns an independent copy of the set.
func (s FaceSet) Clone() FaceSet {
	if s == nil {
		return nil
	}
	out := make(FaceSet, len(s))
	copy(out, s)
	return out
}

// AboveConfidence returns the regions at or above the given floor.
func (s FaceSet) AboveConfidence(min float64) FaceSet {
	out := make(FaceSet, 0, len(s))
	for _, f := range s {
		if f.Confidence >= min {
			out = append(out, f)
		}
	}
	return out
}

// NormalizedBox is a center-based bounding box with all fields in the
// 0-1 range, relative to the dimensions of the image the backend saw.
type NormalizedBox struct {
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// RawDetection is a single detection as reported by a backend, before
// normalization and deduplication. Payload carries the backend's
// loosely typed result for best-effort confidence extraction.
type RawDetection struct {
	Box     NormalizedBox
	Payload any
}

// Backend is the external inference service. Implementations are safe
// for use through the Adapter only; Initialize must be idempotent.
type Backend interface {
	// Initialize prepares the backend with a confidence threshold.
	// Calling it again with the same threshold is a no-op.
	Initialize(confidenceThreshold float64) error

	// Infer runs detection and returns raw detections with boxes
	// normalized to the inferred image's dimensions.
	Infer(img image.Image) ([]RawDetection, error)

	// Close releases backend resources.
	Close() error
}
