package verifier

import (
	"fmt"
	"log"
	"math"
)

// Disclaimer must accompany every rendered confidence number. Factor weights
// are heuristic aids assigned by the engine, not calibrated probabilities.
const Disclaimer = "Factor weights are heuristic estimates, not statistical certainties."

// Factor is a single named, signed contributor to the confidence score.
// Positive impact increases trust, negative decreases it.
type Factor struct {
	Label       string  `json:"label"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// Breakdown packages the engine's aggregate confidence with its explanatory
// factors. Factor order reflects relative importance as assigned by the
// engine and is preserved verbatim. The confidence value is authoritative;
// it is never recomputed from the factors.
type Breakdown struct {
	Confidence float64  `json:"confidence"`
	Factors    []Factor `json:"factors"`
}

// DisplayPercent rounds confidence to a whole percentage clamped to [0,100].
// The clamp guards against the engine supplying a value slightly outside
// [0,1]; NaN renders as 0.
func DisplayPercent(confidence float64) int {
	if math.IsNaN(confidence) {
		return 0
	}
	p := math.Round(confidence * 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// ValidateFactor rejects partially-formed engine output before it reaches
// the rendering layer.
func ValidateFactor(f Factor) error {
	if math.IsNaN(f.Impact) || math.IsInf(f.Impact, 0) {
		return fmt.Errorf("%w: impact %v", ErrMalformedFactor, f.Impact)
	}
	if f.Label == "" {
		return fmt.Errorf("%w: empty label", ErrMalformedFactor)
	}
	if f.Description == "" {
		return fmt.Errorf("%w: empty description for %q", ErrMalformedFactor, f.Label)
	}
	return nil
}

// Summarize builds a display Breakdown from the engine's factors. Malformed
// factors are dropped and logged rather than failing the whole result; a
// single bad explanatory factor must not hide a valid verdict. Ordering of
// the surviving factors is unchanged.
func Summarize(confidence float64, factors []Factor) Breakdown {
	kept := make([]Factor, 0, len(factors))
	for i, f := range factors {
		if err := ValidateFactor(f); err != nil {
			log.Printf("dropping factor %d from breakdown: %v", i, err)
			continue
		}
		kept = append(kept, f)
	}
	return Breakdown{Confidence: confidence, Factors: kept}
}
