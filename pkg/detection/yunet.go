package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YuNet is a Backend backed by OpenCV's FaceDetectorYN.
type YuNet struct {
	mu        sync.Mutex // protects detector state and inference
	detector  gocv.FaceDetectorYN
	modelPath string
	threshold float64
	ready     bool
}

// NewYuNet creates a YuNet backend for the given ONNX model.
func NewYuNet(modelPath string) (*YuNet, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}
	return &YuNet{modelPath: modelPath}, nil
}

// Initialize builds the detector with the given score threshold.
// Re-initializing with the same threshold is a no-op; a different
// threshold rebuilds the detector.
func (d *YuNet) Initialize(confidenceThreshold float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready && d.threshold == confidenceThreshold {
		return nil
	}
	if d.ready {
		d.detector.Close()
		d.ready = false
	}

	d.detector = gocv.NewFaceDetectorYNWithParams(
		d.modelPath,
		"", // no config file needed for ONNX
		image.Pt(320, 320),
		float32(confidenceThreshold),
		0.3,  // NMS threshold
		5000, // top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)
	d.threshold = confidenceThreshold
	d.ready = true
	return nil
}

// Infer runs detection and returns raw detections with boxes
// normalized to the image dimensions.
func (d *YuNet) Infer(img image.Image) ([]RawDetection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return nil, fmt.Errorf("yunet: not initialized")
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	imgW := float64(mat.Cols())
	imgH := float64(mat.Rows())
	d.detector.SetInputSize(image.Pt(mat.Cols(), mat.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	d.detector.Detect(mat, &faces)

	// YuNet output format (15 columns):
	// 0-3: x, y, w, h (bounding box in pixels)
	// 4-13: 5 facial landmarks (x,y pairs)
	// 14: face score
	var detections []RawDetection
	for r := 0; r < faces.Rows(); r++ {
		x := float64(faces.GetFloatAt(r, 0))
		y := float64(faces.GetFloatAt(r, 1))
		w := float64(faces.GetFloatAt(r, 2))
		h := float64(faces.GetFloatAt(r, 3))
		score := float64(faces.GetFloatAt(r, 14))

		detections = append(detections, RawDetection{
			Box: NormalizedBox{
				XCenter: (x + w/2) / imgW,
				YCenter: (y + h/2) / imgH,
				Width:   w / imgW,
				Height:  h / imgH,
			},
			Payload: map[string]any{"score": score},
		})
	}
	return detections, nil
}

// Close releases the detector resources.
func (d *YuNet) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ready {
		d.detector.Close()
		d.ready = false
	}
	return nil
}
