package detection

import (
	"sort"

	"github.com/teslashibe/facemask/pkg/geometry"
)

// Resolver removes duplicate detections of the same physical face.
type Resolver struct {
	// IoUThreshold is the overlap above which two regions count as
	// the same face.
	IoUThreshold float64

	// CenterDistanceRatio and SizeRatio drive the stricter secondary
	// check used on the manual-selection path: a candidate whose
	// center is within CenterDistanceRatio of the average face size
	// from an accepted region, and whose size ratio against it
	// exceeds SizeRatio, is a duplicate even at low IoU. Re-detection
	// on a masked sub-image produces exactly these near-misses.
	CenterDistanceRatio float64
	SizeRatio           float64
}

// NewResolver returns a resolver with the standard duplicate checks.
func NewResolver(iouThreshold float64) Resolver {
	return Resolver{
		IoUThreshold:        iouThreshold,
		CenterDistanceRatio: 0.3,
		SizeRatio:           0.7,
	}
}

// Resolve keeps the highest-confidence region of every duplicate
// group: regions are visited in descending confidence order and a
// region is accepted only if its IoU against every accepted region is
// at or below the threshold.
func (r Resolver) Resolve(faces FaceSet) FaceSet {
	return r.resolve(faces, false)
}

// ResolveStrict additionally applies the center-distance and
// size-ratio check. Used for manual-region merges.
func (r Resolver) ResolveStrict(faces FaceSet) FaceSet {
	return r.resolve(faces, true)
}

func (r Resolver) resolve(faces FaceSet, strict bool) FaceSet {
	if len(faces) <= 1 {
		return faces.Clone()
	}

	sorted := faces.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	accepted := make(FaceSet, 0, len(sorted))
	for _, candidate := range sorted {
		if !r.duplicatesAny(candidate, accepted, strict) {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}

func (r Resolver) duplicatesAny(candidate FaceRegion, accepted FaceSet, strict bool) bool {
	for _, a := range accepted {
		if r.duplicates(candidate, a, strict) {
			return true
		}
	}
	return false
}

func (r Resolver) duplicates(a, b FaceRegion, strict bool) bool {
	if a.Rect.IoU(b.Rect) > r.IoUThreshold {
		return true
	}
	if !strict {
		return false
	}
	sa, sb := a.Rect.Size(), b.Rect.Size()
	if sa <= 0 || sb <= 0 {
		return false
	}
	avgSize := (sa + sb) / 2
	if geometry.CenterDistance(a.Rect, b.Rect) >= r.CenterDistanceRatio*avgSize {
		return false
	}
	ratio := sa / sb
	if sb < sa {
		ratio = sb / sa
	}
	return ratio > r.SizeRatio
}

// MergeInclude adds the found faces to the current set, skipping any
// that duplicate (IoU above threshold) a face already in the result.
// Merging the same found faces twice yields the same set as once.
func MergeInclude(current, found FaceSet, iouThreshold float64) FaceSet {
	out := current.Clone()
	if out == nil {
		out = FaceSet{}
	}
	for _, f := range found {
		dup := false
		for _, c := range out {
			if f.Rect.IoU(c.Rect) > iouThreshold {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, f)
		}
	}
	return out
}

// MergeExclude removes from the current set every face duplicated
// (IoU above threshold) by some found face. An empty found set leaves
// the current set unchanged.
func MergeExclude(current, found FaceSet, iouThreshold float64) FaceSet {
	out := make(FaceSet, 0, len(current))
	for _, c := range current {
		matched := false
		for _, f := range found {
			if c.Rect.IoU(f.Rect) > iouThreshold {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, c)
		}
	}
	return out
}
