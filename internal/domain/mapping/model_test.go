package mapping

import "testing"

func TestConfidenceFromScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  Confidence
	}{
		{1.0, ConfidenceHigh},
		{0.85, ConfidenceHigh},
		{0.84, ConfidenceMedium},
		{0.6, ConfidenceMedium},
		{0.59, ConfidenceLow},
		{0, ConfidenceLow},
	}

	for _, tc := range cases {
		if got := ConfidenceFromScore(tc.score); got != tc.want {
			t.Errorf("ConfidenceFromScore(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
