package detection

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	pigo "github.com/esimov/pigo/core"
)

// Pigo cascade quality values are unbounded; this scale maps the
// usual 0-50 range into a 0-1 confidence.
const pigoQualityScale = 50.0

// PigoBackend is a pure-Go Backend built on the pigo cascade
// classifier. It needs no native dependencies, which makes it the
// default backend for fully on-device use.
type PigoBackend struct {
	mu         sync.Mutex
	classifier *pigo.Pigo
	threshold  float64
}

// NewPigo unpacks the binary cascade and returns a backend.
func NewPigo(cascade []byte) (*PigoBackend, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &PigoBackend{classifier: classifier}, nil
}

// Initialize records the confidence threshold. The cascade itself is
// stateless, so repeated calls are trivially idempotent.
func (d *PigoBackend) Initialize(confidenceThreshold float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.threshold = confidenceThreshold
	return nil
}

// Infer runs the cascade over the image and returns raw detections
// with boxes normalized to the image dimensions.
func (d *PigoBackend) Infer(img image.Image) ([]RawDetection, error) {
	d.mu.Lock()
	threshold := d.threshold
	classifier := d.classifier
	d.mu.Unlock()

	if classifier == nil {
		return nil, fmt.Errorf("pigo: not initialized")
	}

	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	cols, rows := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	params := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     max(cols, rows),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(nrgba),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	faces := classifier.RunCascade(params, 0)
	faces = classifier.ClusterDetections(faces, 0.18)

	var detections []RawDetection
	for _, face := range faces {
		conf := clamp01(float64(face.Q) / pigoQualityScale)
		if conf < threshold {
			continue
		}
		size := float64(face.Scale)
		detections = append(detections, RawDetection{
			Box: NormalizedBox{
				XCenter: float64(face.Col) / float64(cols),
				YCenter: float64(face.Row) / float64(rows),
				Width:   size / float64(cols),
				Height:  size / float64(rows),
			},
			Payload: map[string]any{"confidence": conf},
		})
	}
	return detections, nil
}

// Close releases nothing; the cascade is plain memory.
func (d *PigoBackend) Close() error {
	return nil
}
