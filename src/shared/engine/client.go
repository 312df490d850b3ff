package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Pulkit7070/Verique-Mumbai/src/shared/verifier"
)

// Client talks to the external verification engine. One request per Verify,
// no retries; retry policy belongs to the caller.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type verifyRequest struct {
	Text     string `json:"text"`
	URL      string `json:"url,omitempty"`
	Vertical string `json:"vertical"`
}

type wireBreakdown struct {
	Confidence *float64          `json:"confidence"`
	Factors    []verifier.Factor `json:"factors"`
}

type wirePayload struct {
	ConfidenceBreakdown *wireBreakdown  `json:"confidenceBreakdown"`
	Claims              json.RawMessage `json:"claims"`
}

// Verify issues the single outbound verification call. Errors come back
// classified: context deadline as timeout, transport and non-200 statuses
// as network failure, an undecodable body as a malformed result.
func (c *Client) Verify(ctx context.Context, req verifier.Request) (*verifier.RawResult, error) {
	payload := verifyRequest{
		Text:     req.Text,
		URL:      req.URL,
		Vertical: string(req.Vertical),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", verifier.ErrNetworkFailure, err)
	}

	url := fmt.Sprintf("%s/v1/verify", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verifier.ErrNetworkFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", verifier.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", verifier.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: engine returned status %d", verifier.ErrNetworkFailure, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", verifier.ErrNetworkFailure, err)
	}

	var wire wirePayload
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", verifier.ErrMalformedResult, err)
	}

	raw := &verifier.RawResult{Claims: wire.Claims}
	if wire.ConfidenceBreakdown != nil {
		raw.Breakdown = &verifier.RawBreakdown{
			Confidence: wire.ConfidenceBreakdown.Confidence,
			Factors:    wire.ConfidenceBreakdown.Factors,
		}
	}
	return raw, nil
}
