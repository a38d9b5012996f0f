package detection

// The detector's confidence field is not reliable: different backends
// and model wrappers expose it under different names and shapes. The
// extractors below are tried in priority order against a detection's
// payload; the first match wins.

// confidenceEpsilon is added to the call threshold when no extractor
// matches. The fallback is a synthetic placeholder, not a measured
// confidence: it only records that the detection cleared the threshold.
const confidenceEpsilon = 0.01

type confidenceExtractor func(payload any) (float64, bool)

var confidenceExtractors = []confidenceExtractor{
	mapField("score"),
	mapField("confidence"),
	mapField("faceScore"),
	scoreSlice,
	numericPayload,
}

// ExtractConfidence probes the payload with each known extractor and
// falls back to threshold plus a fixed epsilon.
func ExtractConfidence(payload any, threshold float64) float64 {
	for _, extract := range confidenceExtractors {
		if v, ok := extract(payload); ok {
			return v
		}
	}
	return clamp01(threshold + confidenceEpsilon)
}

func mapField(name string) confidenceExtractor {
	return func(payload any) (float64, bool) {
		m, ok := payload.(map[string]any)
		if !ok {
			return 0, false
		}
		return asFloat(m[name])
	}
}

func scoreSlice(payload any) (float64, bool) {
	switch v := payload.(type) {
	case []float64:
		if len(v) > 0 {
			return clamp01(v[0]), true
		}
	case []float32:
		if len(v) > 0 {
			return clamp01(float64(v[0])), true
		}
	}
	return 0, false
}

func numericPayload(payload any) (float64, bool) {
	return asFloat(payload)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return clamp01(n), true
	case float32:
		return clamp01(float64(n)), true
	case int:
		return clamp01(float64(n)), true
	}
	return 0, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
