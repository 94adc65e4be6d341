package models_test

import (
	"testing"

	"github.com/impactlens/mne_backend/models"
)

// The two classifiers agree everywhere except at exactly 25%, where the
// indicator view reports amber and the plan view reports red. Dashboards
// show both side by side, so the boundaries must hold exactly.
func TestClassifyRagScoreBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		achieved float64
		target   float64
		wantA    models.RagStatus
		wantB    models.RagStatus
	}{
		{"zero achievement", 0, 100, models.RagRed, models.RagRed},
		{"just below 25", 24.9, 100, models.RagRed, models.RagRed},
		{"exactly 25", 25, 100, models.RagAmber, models.RagRed},
		{"just above 25", 25.1, 100, models.RagAmber, models.RagAmber},
		{"mid amber", 50, 100, models.RagAmber, models.RagAmber},
		{"just below 75", 74.9, 100, models.RagAmber, models.RagAmber},
		{"exactly 75", 75, 100, models.RagGreen, models.RagGreen},
		{"over target", 150, 100, models.RagGreen, models.RagGreen},
		{"fractional target", 1, 4, models.RagAmber, models.RagRed},
	}
	for _, tc := range cases {
		if got := models.ClassifyRagScoreA(tc.achieved, tc.target); got != tc.wantA {
			t.Errorf("%s: scheme A = %s, want %s", tc.name, got, tc.wantA)
		}
		if got := models.ClassifyRagScoreB(tc.achieved, tc.target); got != tc.wantB {
			t.Errorf("%s: scheme B = %s, want %s", tc.name, got, tc.wantB)
		}
	}
}

func TestClassifyRagScoreNoTarget(t *testing.T) {
	for _, target := range []float64{0, -5} {
		if got := models.ClassifyRagScoreA(10, target); got != models.RagGray {
			t.Errorf("scheme A with target %v = %s, want gray", target, got)
		}
		if got := models.ClassifyRagScoreB(10, target); got != models.RagGray {
			t.Errorf("scheme B with target %v = %s, want gray", target, got)
		}
	}
}
