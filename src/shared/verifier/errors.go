package verifier

import "errors"

// Classified errors surfaced by the verification workflow. Callers match
// them with errors.Is; raw transport errors never leave this package.
var (
	// Request validation failures. Resolved locally, never dispatched.
	ErrEmptyContent    = errors.New("empty content")
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidCategory = errors.New("invalid category")

	// ErrMalformedFactor marks a single factor dropped from a breakdown.
	// Non-fatal: it never fails the overall result.
	ErrMalformedFactor = errors.New("malformed factor")

	// ErrMalformedResult means the engine call succeeded transport-wise but
	// the payload cannot be validated into a Result.
	ErrMalformedResult = errors.New("malformed result")

	// Orchestration failures.
	ErrNetworkFailure    = errors.New("network failure")
	ErrTimeout           = errors.New("verification timeout")
	ErrAlreadyInProgress = errors.New("verification already in progress")

	// ErrSuperseded is returned to an abandoned submission whose response
	// arrived after Reset. Its result is discarded, never rendered.
	ErrSuperseded = errors.New("verification superseded")
)

// ErrorCode maps a classified error to a stable wire identifier for API
// responses. Unclassified errors report as network_failure.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, ErrMalformedFactor):
		return "malformed_factor"
	case errors.Is(err, ErrMalformedResult):
		return "malformed_result"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrAlreadyInProgress):
		return "already_in_progress"
	case errors.Is(err, ErrSuperseded):
		return "superseded"
	default:
		return "network_failure"
	}
}
