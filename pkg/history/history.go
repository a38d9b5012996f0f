// Package history keeps the linear undo/redo stack of face set
// snapshots: append-only with truncate-on-branch semantics.
package history

import "github.com/teslashibe/facemask/pkg/detection"

// History is an ordered list of face set snapshots plus a cursor.
// The cursor is always a valid index into the entries, or -1 when
// empty. Writing while the cursor is not at the tail truncates
// everything after it before appending.
//
// History is not safe for concurrent use; the single-consumer session
// owns it.
type History struct {
	entries    []detection.FaceSet
	cursor     int
	navigating bool
}

// New returns an empty history.
func New() *History {
	return &History{cursor: -1}
}

// Commit appends a snapshot and moves the cursor to the new tail,
// truncating any redo branch first. Empty sets are never recorded,
// and commits are ignored while a navigation is in progress so that
// stepping through undo/redo cannot re-record transient states.
// Reports whether an entry was written.
func (h *History) Commit(set detection.FaceSet) bool {
	if len(set) == 0 || h.navigating {
		return false
	}
	h.entries = append(h.entries[:h.cursor+1], set.Clone())
	h.cursor = len(h.entries) - 1
	return true
}

// Undo moves the cursor back one entry and returns a copy of that
// entry's face set. No-op at the start of history.
func (h *History) Undo() (detection.FaceSet, bool) {
	if h.cursor <= 0 {
		return nil, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo moves the cursor forward one entry and returns a copy of that
// entry's face set. No-op at the tail.
func (h *History) Redo() (detection.FaceSet, bool) {
	if h.cursor >= len(h.entries)-1 {
		return nil, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// Current returns a copy of the entry at the cursor.
func (h *History) Current() (detection.FaceSet, bool) {
	if h.cursor < 0 {
		return nil, false
	}
	return h.entries[h.cursor].Clone(), true
}

// Reset clears all entries.
func (h *History) Reset() {
	h.entries = nil
	h.cursor = -1
	h.navigating = false
}

// BeginNavigation marks a history navigation in progress, blocking
// commits until EndNavigation. Guards against face set changes
// triggered by undo/redo being appended back into history.
func (h *History) BeginNavigation() { h.navigating = true }

// EndNavigation clears the navigation guard.
func (h *History) EndNavigation() { h.navigating = false }

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the current cursor index, -1 when empty.
func (h *History) Cursor() int { return h.cursor }
