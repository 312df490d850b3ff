package verifier

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDisplayPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.005, 1},
		{0.5, 50},
		{0.72, 72},
		{0.999, 100},
		{1, 100},
		{-0.01, 0},
		{1.01, 100},
		{math.NaN(), 0},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		if got := DisplayPercent(tc.in); got != tc.want {
			t.Errorf("DisplayPercent(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDisplayPercentMonotonic(t *testing.T) {
	prev := DisplayPercent(-0.5)
	for c := -0.5; c <= 1.5; c += 0.001 {
		got := DisplayPercent(c)
		if got < prev {
			t.Fatalf("DisplayPercent not monotonic at %v: %d < %d", c, got, prev)
		}
		if got < 0 || got > 100 {
			t.Fatalf("DisplayPercent(%v) = %d outside [0,100]", c, got)
		}
		prev = got
	}
}

func TestValidateFactor(t *testing.T) {
	ok := Factor{Label: "Source corroboration", Impact: 15, Description: "Two independent sources agree"}
	if err := ValidateFactor(ok); err != nil {
		t.Fatalf("ValidateFactor(valid) = %v", err)
	}
	bad := []Factor{
		{Label: "", Impact: 1, Description: "d"},
		{Label: "l", Impact: 1, Description: ""},
		{Label: "l", Impact: math.NaN(), Description: "d"},
		{Label: "l", Impact: math.Inf(-1), Description: "d"},
	}
	for i, f := range bad {
		if err := ValidateFactor(f); !errors.Is(err, ErrMalformedFactor) {
			t.Errorf("case %d: err = %v, want ErrMalformedFactor", i, err)
		}
	}
}

func TestSummarizeDropsMalformedPreservingOrder(t *testing.T) {
	in := []Factor{
		{Label: "Source corroboration", Impact: 15, Description: "agrees"},
		{Label: "", Impact: 3, Description: "broken"},
		{Label: "Vague quantifier", Impact: -8, Description: "imprecise"},
		{Label: "Stale citation", Impact: math.NaN(), Description: "broken too"},
		{Label: "Primary source", Impact: 11, Description: "first-party data"},
	}
	got := Summarize(0.72, in)
	want := Breakdown{
		Confidence: 0.72,
		Factors: []Factor{
			{Label: "Source corroboration", Impact: 15, Description: "agrees"},
			{Label: "Vague quantifier", Impact: -8, Description: "imprecise"},
			{Label: "Primary source", Impact: 11, Description: "first-party data"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}
