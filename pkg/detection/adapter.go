package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"
)

// Sentinel errors for inference failures.
var (
	// ErrInferenceTimeout is returned when the detector exceeds its
	// time budget. The call is not retried.
	ErrInferenceTimeout = errors.New("detection: inference timed out")

	// ErrInferenceFailed is returned when the detector call fails.
	ErrInferenceFailed = errors.New("detection: inference failed")

	// ErrAdapterClosed is returned after Close.
	ErrAdapterClosed = errors.New("detection: adapter closed")
)

// Adapter serializes calls into a detection backend. The backend is
// not safely reentrant, so at most one logical inference is in flight;
// a call arriving while another is outstanding waits for it to finish.
//
// Each adapter owns its backend and has an explicit lifecycle:
// NewAdapter, Initialize, Close. Tests can instantiate independent
// adapters; there is no shared package state.
type Adapter struct {
	backend Backend
	cfg     Config

	mu        sync.Mutex // serializes inference and lifecycle
	threshold float64
	ready     bool
	closed    bool
}

// NewAdapter wraps a backend with the serialization and timeout
// discipline. The adapter takes ownership of the backend.
func NewAdapter(backend Backend, cfg Config) *Adapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Adapter{backend: backend, cfg: cfg}
}

// Initialize prepares the backend with the given confidence threshold.
// Repeated calls with the same threshold are no-ops.
func (a *Adapter) Initialize(threshold float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrAdapterClosed
	}
	if a.ready && a.threshold == threshold {
		return nil
	}
	if err := a.backend.Initialize(threshold); err != nil {
		return fmt.Errorf("%w: %w", ErrInferenceFailed, err)
	}
	a.threshold = threshold
	a.ready = true
	return nil
}

// Threshold returns the confidence threshold of the last Initialize.
func (a *Adapter) Threshold() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.threshold
}

// Detect runs one inference on the image and returns raw detections.
// Calls are serialized; a second caller blocks until the first call
// returns. On timeout the adapter returns ErrInferenceTimeout and is
// immediately usable again, even though the abandoned backend call may
// still be running unobserved. There is no cancel signal toward the
// backend; the timeout is the only cancellation mechanism.
func (a *Adapter) Detect(ctx context.Context, img image.Image) ([]RawDetection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrAdapterClosed
	}
	if !a.ready {
		if err := a.backend.Initialize(a.cfg.AutoThreshold); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInferenceFailed, err)
		}
		a.threshold = a.cfg.AutoThreshold
		a.ready = true
	}

	type result struct {
		dets []RawDetection
		err  error
	}
	done := make(chan result, 1)
	go func() {
		dets, err := a.backend.Infer(img)
		done <- result{dets: dets, err: err}
	}()

	timer := time.NewTimer(a.cfg.Timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInferenceFailed, r.err)
		}
		return r.dets, nil
	case <-timer.C:
		return nil, ErrInferenceTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the backend. Further calls fail with ErrAdapterClosed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.backend.Close()
}
