package detection

import (
	"time"

	"github.com/teslashibe/facemask/pkg/geometry"
)

// Config holds the tunable parameters of the detection stage.
type Config struct {
	// Timeout bounds a single inference call. On expiry the adapter
	// returns ErrInferenceTimeout and becomes available again.
	Timeout time.Duration

	// AutoThreshold is the confidence floor for automatic whole-image
	// detection.
	AutoThreshold float64

	// ManualThreshold is the lower confidence floor used when the
	// user selects a region by hand.
	ManualThreshold float64

	// IoUThreshold is the overlap above which two detections are
	// treated as the same face. Empirically chosen default.
	IoUThreshold float64

	// DetectorCanvas is the working resolution of the detector.
	DetectorCanvas geometry.Space
}

// DefaultConfig returns the recommended detection parameters.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		AutoThreshold:   0.5,
		ManualThreshold: 0.3,
		IoUThreshold:    0.3,
		DetectorCanvas:  geometry.Space{Width: 320, Height: 320},
	}
}
