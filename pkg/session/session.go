// Package session orchestrates the face masking pipeline: it owns the
// active image, the committed face set, and the undo/redo history,
// and drives detection, region selection, and mask painting.
package session

import (
	"context"
	"errors"
	"image"

	"github.com/teslashibe/facemask/internal/log"
	"github.com/teslashibe/facemask/pkg/detection"
	"github.com/teslashibe/facemask/pkg/geometry"
	"github.com/teslashibe/facemask/pkg/history"
	"github.com/teslashibe/facemask/pkg/mask"
	"github.com/teslashibe/facemask/pkg/region"
)

// ErrNoImage is returned when an operation needs an image and none
// has been set.
var ErrNoImage = errors.New("session: no image set")

// MergeMode is the set-algebra policy for merging a region's faces
// into the active set.
type MergeMode string

const (
	// ModeInclude adds the region's faces to the active set.
	ModeInclude MergeMode = "include"

	// ModeExclude removes the region's faces from the active set.
	ModeExclude MergeMode = "exclude"
)

// State is the session's position in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateDetecting State = "detecting"
	StateDetected  State = "detected"
	StateEditing   State = "editing"
)

// Config aggregates the per-stage configurations.
type Config struct {
	Detection detection.Config
	Region    region.Config
	Mask      mask.Config
}

// DefaultConfig returns the recommended session parameters.
func DefaultConfig() Config {
	det := detection.DefaultConfig()
	reg := region.DefaultConfig()
	reg.DetectorCanvas = det.DetectorCanvas
	reg.ManualThreshold = det.ManualThreshold
	reg.Resolver = detection.NewResolver(det.IoUThreshold)
	return Config{
		Detection: det,
		Region:    reg,
		Mask:      mask.DefaultConfig(),
	}
}

// Session is the caller-facing API of the masking core. It is a
// single-consumer object: methods must not be called concurrently.
// Components receive snapshots only; the face set and history never
// leave the session by reference.
type Session struct {
	cfg      Config
	adapter  *detection.Adapter
	engine   region.Engine
	applier  *mask.Applier
	resolver detection.Resolver

	img     image.Image
	src     geometry.Space
	display geometry.Space

	faces detection.FaceSet
	hist  *history.History
	state State
}

// New builds a session around a detection backend. The session owns
// the backend through its adapter; Close releases it.
func New(backend detection.Backend, cfg Config) *Session {
	adapter := detection.NewAdapter(backend, cfg.Detection)
	return &Session{
		cfg:      cfg,
		adapter:  adapter,
		engine:   region.New(cfg.Region, adapter),
		applier:  mask.NewApplier(cfg.Mask),
		resolver: detection.NewResolver(cfg.Detection.IoUThreshold),
		hist:     history.New(),
		state:    StateIdle,
	}
}

// SetImage makes a new source image active. Face set, history, and
// detection state reset together; there is no partial reset.
func (s *Session) SetImage(img image.Image, display geometry.Space) {
	s.img = img
	s.src = region.SpaceOf(img)
	s.display = display
	s.faces = nil
	s.hist.Reset()
	s.state = StateIdle
}

// SetStamp sets the overlay image used by the stamp transform.
func (s *Session) SetStamp(img image.Image) {
	s.applier.SetStamp(img)
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Faces returns a copy of the active face set.
func (s *Session) Faces() detection.FaceSet { return s.faces.Clone() }

// DetectAll runs automatic whole-image detection and commits the
// resulting face set. An empty result is a legitimate outcome, not an
// error; inference failures leave the face set at its last good state.
func (s *Session) DetectAll(ctx context.Context) (detection.FaceSet, error) {
	if s.img == nil {
		return nil, ErrNoImage
	}
	prev := s.state
	s.state = StateDetecting

	if err := s.adapter.Initialize(s.cfg.Detection.AutoThreshold); err != nil {
		s.state = prev
		return nil, err
	}
	canvas := region.RenderToCanvas(s.img, s.cfg.Detection.DetectorCanvas)
	raws, err := s.adapter.Detect(ctx, canvas)
	if err != nil {
		s.state = prev
		return nil, err
	}

	faces := detection.Normalize(raws, s.cfg.Detection.DetectorCanvas, s.src, s.cfg.Detection.AutoThreshold)
	faces = faces.AboveConfidence(s.cfg.Detection.AutoThreshold)
	faces = s.resolver.Resolve(faces)

	s.faces = faces
	s.hist.Commit(faces)
	s.state = StateDetected
	log.Debug("detected faces", "count", len(faces))
	return faces.Clone(), nil
}

// DetectInRegion resolves the polygon to a set of faces and merges
// them into the active set under the given mode, committing the
// result. An invalid polygon (fewer than three vertices, unclosed)
// returns the unchanged active set without recording history.
func (s *Session) DetectInRegion(ctx context.Context, poly geometry.Polygon, mode MergeMode) (detection.FaceSet, error) {
	if s.img == nil {
		return nil, ErrNoImage
	}
	if !poly.Valid() {
		return s.faces.Clone(), nil
	}
	prev := s.state
	s.state = StateEditing

	found, err := s.engine.FacesInRegion(ctx, s.img, s.display, poly, s.faces)
	if err != nil {
		s.state = prev
		return nil, err
	}

	var next detection.FaceSet
	switch mode {
	case ModeExclude:
		next = detection.MergeExclude(s.faces, found, s.cfg.Detection.IoUThreshold)
	default:
		next = detection.MergeInclude(s.faces, found, s.cfg.Detection.IoUThreshold)
	}

	s.faces = next
	s.hist.Commit(next)
	s.state = StateDetected
	log.Debug("region merge", "mode", string(mode), "found", len(found), "active", len(next))
	return next.Clone(), nil
}

// Undo steps the history back one entry and makes that snapshot the
// active face set. Returns false at the start of history.
func (s *Session) Undo() (detection.FaceSet, bool) {
	s.hist.BeginNavigation()
	defer s.hist.EndNavigation()

	set, ok := s.hist.Undo()
	if !ok {
		return nil, false
	}
	s.faces = set
	return set.Clone(), true
}

// Redo steps the history forward one entry and makes that snapshot
// the active face set. Returns false at the tail.
func (s *Session) Redo() (detection.FaceSet, bool) {
	s.hist.BeginNavigation()
	defer s.hist.EndNavigation()

	set, ok := s.hist.Redo()
	if !ok {
		return nil, false
	}
	s.faces = set
	return set.Clone(), true
}

// Reset clears the face set and history but keeps the active image.
func (s *Session) Reset() {
	s.faces = nil
	s.hist.Reset()
	s.state = StateIdle
}

// ApplyMask paints the given transform over every active face region
// on the canvas. The canvas defines the display space.
func (s *Session) ApplyMask(canvas *image.RGBA, t mask.Transform, intensity int) error {
	if s.img == nil {
		return ErrNoImage
	}
	return s.applier.Apply(canvas, s.faces, t, intensity, s.src)
}

// HistoryLen returns the number of committed snapshots.
func (s *Session) HistoryLen() int { return s.hist.Len() }

// Close releases the detection backend.
func (s *Session) Close() error {
	return s.adapter.Close()
}
