package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Pulkit7070/Verique-Mumbai/src/shared/verifier"
)

func testRequest(t *testing.T) verifier.Request {
	t.Helper()
	req, err := verifier.NewRequest("Our platform serves 10,000 teams.", "https://example.com", "saas")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestVerifyDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/verify" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Text     string `json:"text"`
			URL      string `json:"url"`
			Vertical string `json:"vertical"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Vertical != "saas" || body.Text == "" {
			t.Errorf("request body not forwarded: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"confidenceBreakdown": {
				"confidence": 0.72,
				"factors": [
					{"label": "Source corroboration", "impact": 15, "description": "Two sources agree"},
					{"label": "Vague quantifier", "impact": -8, "description": "Unsourced round number"}
				]
			},
			"claims": [{"text": "Our platform serves 10,000 teams.", "verdict": "supported"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	raw, err := c.Verify(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if raw.Breakdown == nil || raw.Breakdown.Confidence == nil || *raw.Breakdown.Confidence != 0.72 {
		t.Fatalf("breakdown not decoded: %+v", raw.Breakdown)
	}
	if len(raw.Breakdown.Factors) != 2 || raw.Breakdown.Factors[0].Label != "Source corroboration" {
		t.Errorf("factors not decoded in order: %+v", raw.Breakdown.Factors)
	}
	if len(raw.Claims) == 0 {
		t.Error("claims payload dropped")
	}
}

func TestVerifyNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Verify(context.Background(), testRequest(t)); !errors.Is(err, verifier.ErrNetworkFailure) {
		t.Errorf("err = %v, want ErrNetworkFailure", err)
	}
}

func TestVerifyUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"confidenceBreakdown": nonsense`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Verify(context.Background(), testRequest(t)); !errors.Is(err, verifier.ErrMalformedResult) {
		t.Errorf("err = %v, want ErrMalformedResult", err)
	}
}

func TestVerifyTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL)
	if _, err := c.Verify(ctx, testRequest(t)); !errors.Is(err, verifier.ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestVerifyConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	if _, err := c.Verify(context.Background(), testRequest(t)); !errors.Is(err, verifier.ErrNetworkFailure) {
		t.Errorf("err = %v, want ErrNetworkFailure", err)
	}
}
