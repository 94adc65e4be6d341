package utils_test

import (
	"testing"

	"github.com/impactlens/mne_backend/utils"
)

// Free-text numeric fields default to 0 instead of erroring, including
// comma-grouped values.
func TestParseNumericOrZero(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{" 42.5 ", 42.5},
		{"1,20,000", 120000},
		{"", 0},
		{"N/A", 0},
		{"ten", 0},
		{"-3", -3},
	}
	for _, tc := range cases {
		if got := utils.ParseNumericOrZero(tc.in); got != tc.want {
			t.Errorf("ParseNumericOrZero(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestUniqueSlice(t *testing.T) {
	got := utils.UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("UniqueSlice = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UniqueSlice = %v, want %v", got, want)
		}
	}
}
