package verifier

import "fmt"

// Vertical is the topical category of submitted content. The engine tunes
// claim interpretation per vertical.
type Vertical string

const (
	VerticalGeneral   Vertical = "general"
	VerticalNews      Vertical = "news"
	VerticalSaaS      Vertical = "saas"
	VerticalEcommerce Vertical = "ecommerce"
	VerticalHealth    Vertical = "health"
	VerticalFinance   Vertical = "finance"
	VerticalScience   Vertical = "science"
)

// ParseVertical validates a raw category value. Empty input falls back to
// general; unknown values are rejected even though the UI only offers valid
// ones.
func ParseVertical(raw string) (Vertical, error) {
	if raw == "" {
		return VerticalGeneral, nil
	}
	switch v := Vertical(raw); v {
	case VerticalGeneral, VerticalNews, VerticalSaaS, VerticalEcommerce,
		VerticalHealth, VerticalFinance, VerticalScience:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
}
