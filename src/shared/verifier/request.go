package verifier

import (
	"fmt"
	"net/url"
	"strings"
)

// Request is a validated verification request. Immutable once dispatched.
type Request struct {
	Text     string   `json:"text"`
	URL      string   `json:"url,omitempty"`
	Vertical Vertical `json:"vertical"`
}

// NewRequest validates raw submission input into a Request. Pure validation,
// no side effects. Requests that fail here are never dispatched.
func NewRequest(text, rawURL, vertical string) (Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, ErrEmptyContent
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return Request{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return Request{}, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
		}
	}

	v, err := ParseVertical(vertical)
	if err != nil {
		return Request{}, err
	}

	return Request{Text: text, URL: rawURL, Vertical: v}, nil
}

// check re-validates an already built Request. The orchestrator calls this
// defensively before dispatch in case a caller bypassed NewRequest.
func (r Request) check() error {
	_, err := NewRequest(r.Text, r.URL, string(r.Vertical))
	return err
}
