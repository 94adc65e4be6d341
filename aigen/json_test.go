package aigen_test

import (
	"testing"

	"github.com/impactlens/mne_backend/aigen"
)

func TestExtractJSONPayload(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"bare array", `[1,2]`, `[1,2]`},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no tag", "```\n[1]\n```", `[1]`},
		{"chat filler", "Sure, here you go:\n{\"a\":1}\nHope that helps!", `{"a":1}`},
		{"array before object", `[{"a":1}]`, `[{"a":1}]`},
	}
	for _, tc := range cases {
		got, err := aigen.ExtractJSONPayload(tc.in)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExtractJSONPayloadErrors(t *testing.T) {
	for _, in := range []string{"", "no json here", "```\n```"} {
		if _, err := aigen.ExtractJSONPayload(in); err == nil {
			t.Errorf("ExtractJSONPayload(%q) accepted non-JSON", in)
		}
	}
}
