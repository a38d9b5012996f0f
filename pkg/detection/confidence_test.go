package detection

import "testing"

func TestExtractConfidence_KnownShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload any
		want    float64
	}{
		{"score field", map[string]any{"score": 0.8}, 0.8},
		{"confidence field", map[string]any{"confidence": 0.7}, 0.7},
		{"faceScore field", map[string]any{"faceScore": 0.6}, 0.6},
		{"float32 field", map[string]any{"score": float32(0.25)}, float64(float32(0.25))},
		{"score slice", []float64{0.9, 0.1}, 0.9},
		{"float32 slice", []float32{0.5}, 0.5},
		{"bare float", 0.4, 0.4},
		{"clamped above one", map[string]any{"score": 3.0}, 1.0},
		{"clamped below zero", map[string]any{"score": -1.0}, 0.0},
	}
	for _, tc := range cases {
		if got := ExtractConfidence(tc.payload, 0.5); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestExtractConfidence_PriorityOrder(t *testing.T) {
	// score wins over confidence when both are present.
	payload := map[string]any{"score": 0.8, "confidence": 0.3}
	if got := ExtractConfidence(payload, 0.5); got != 0.8 {
		t.Errorf("got %v, want score field to win", got)
	}
}

func TestExtractConfidence_Fallback(t *testing.T) {
	cases := []any{
		nil,
		map[string]any{"unrelated": "value"},
		map[string]any{"score": "not a number"},
		[]float64{},
		"garbage",
	}
	for _, payload := range cases {
		got := ExtractConfidence(payload, 0.5)
		if !floatEquals(got, 0.5+confidenceEpsilon) {
			t.Errorf("payload %v: got %v, want threshold+epsilon", payload, got)
		}
	}
}
