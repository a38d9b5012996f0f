package detection

import (
	"image"
	"sync"
)

// MockBackend implements Backend for testing.
type MockBackend struct {
	// InitializeFunc is called when Initialize is invoked.
	InitializeFunc func(confidenceThreshold float64) error

	// InferFunc is called when Infer is invoked.
	InferFunc func(img image.Image) ([]RawDetection, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu         sync.Mutex
	inferCalls int
	inFlight   int
	maxFlight  int
}

// Initialize implements Backend.
func (m *MockBackend) Initialize(confidenceThreshold float64) error {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(confidenceThreshold)
	}
	return nil
}

// Infer implements Backend, tracking call counts and the maximum
// number of concurrent calls so tests can assert serialization.
func (m *MockBackend) Infer(img image.Image) ([]RawDetection, error) {
	m.mu.Lock()
	m.inferCalls++
	m.inFlight++
	if m.inFlight > m.maxFlight {
		m.maxFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.InferFunc != nil {
		return m.InferFunc(img)
	}
	return nil, nil
}

// Close implements Backend.
func (m *MockBackend) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// InferCalls returns how many times Infer was invoked.
func (m *MockBackend) InferCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inferCalls
}

// MaxConcurrentInfers returns the highest number of Infer calls that
// overlapped in time.
func (m *MockBackend) MaxConcurrentInfers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxFlight
}
