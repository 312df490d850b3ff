package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func floatPtr(f float64) *float64 { return &f }

func stubEngine(raw *RawResult, err error) Engine {
	return EngineFunc(func(ctx context.Context, req Request) (*RawResult, error) {
		return raw, err
	})
}

func sampleRawResult() *RawResult {
	return &RawResult{
		Breakdown: &RawBreakdown{
			Confidence: floatPtr(0.72),
			Factors: []Factor{
				{Label: "Source corroboration", Impact: 15, Description: "Two sources confirm the figure"},
				{Label: "Vague quantifier", Impact: -8, Description: "Round number with no citation"},
			},
		},
		Claims: json.RawMessage(`[{"text":"Our platform serves 10,000 teams.","verdict":"supported","evidence":["https://example.com/report"]}]`),
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	raw := sampleRawResult()
	o := New(stubEngine(raw, nil))

	req, err := NewRequest("Our platform serves 10,000 teams.", "", "saas")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	res, err := o.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got := DisplayPercent(res.Breakdown.Confidence); got != 72 {
		t.Errorf("display percent = %d, want 72", got)
	}
	wantFactors := raw.Breakdown.Factors
	if diff := cmp.Diff(wantFactors, res.Breakdown.Factors); diff != "" {
		t.Errorf("factor order not preserved (-want +got):\n%s", diff)
	}
	if !bytes.Equal(res.Claims, raw.Claims) {
		t.Errorf("claims payload not preserved verbatim:\n%s\nvs\n%s", res.Claims, raw.Claims)
	}

	steps, failed := o.Progress()
	if failed {
		t.Error("sequence reported failed after success")
	}
	for _, st := range steps {
		if st.Status != StepComplete {
			t.Errorf("step %q = %s, want complete", st.Label, st.Status)
		}
	}
}

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	o := New(stubEngine(sampleRawResult(), nil))
	_, err := o.Submit(context.Background(), Request{Text: "   ", Vertical: VerticalGeneral})
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("err = %v, want ErrEmptyContent", err)
	}
	// An invalid request must not consume the in-flight slot.
	if _, err := o.Submit(context.Background(), mustRequest(t, "valid text")); err != nil {
		t.Errorf("Submit after rejected request: %v", err)
	}
}

func mustRequest(t *testing.T, text string) Request {
	t.Helper()
	req, err := NewRequest(text, "", "")
	if err != nil {
		t.Fatalf("NewRequest(%q): %v", text, err)
	}
	return req
}

func TestSubmitAlreadyInProgress(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	eng := EngineFunc(func(ctx context.Context, req Request) (*RawResult, error) {
		close(entered)
		<-release
		return sampleRawResult(), nil
	})
	o := New(eng)

	first := mustRequest(t, "first")
	firstDone := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background(), first)
		firstDone <- err
	}()
	<-entered

	if _, err := o.Submit(context.Background(), mustRequest(t, "second")); !errors.Is(err, ErrAlreadyInProgress) {
		t.Errorf("second Submit err = %v, want ErrAlreadyInProgress", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Errorf("first Submit err = %v", err)
	}
}

func TestResetDiscardsStaleResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	eng := EngineFunc(func(ctx context.Context, req Request) (*RawResult, error) {
		close(entered)
		<-release
		return sampleRawResult(), nil
	})
	o := New(eng)

	abandoned := mustRequest(t, "abandoned")
	done := make(chan error, 1)
	go func() {
		res, err := o.Submit(context.Background(), abandoned)
		if res != nil {
			err = fmt.Errorf("stale result delivered: %+v", res)
		}
		done <- err
	}()
	<-entered
	o.Reset()
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("abandoned Submit err = %v, want ErrSuperseded", err)
	}

	// State discarded by Reset stays discarded: fresh stages, nothing failed.
	steps, failed := o.Progress()
	if failed {
		t.Error("stale response marked sequence failed")
	}
	for _, st := range steps {
		if st.Status != StepPending {
			t.Errorf("step %q = %s after Reset, want pending", st.Label, st.Status)
		}
	}
}

func TestSubmitTimeout(t *testing.T) {
	eng := EngineFunc(func(ctx context.Context, req Request) (*RawResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	o := New(eng, WithTimeout(20*time.Millisecond))

	_, err := o.Submit(context.Background(), mustRequest(t, "slow"))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	steps, failed := o.Progress()
	if !failed {
		t.Error("sequence not failed after timeout")
	}
	if steps[0].Status != StepActive {
		t.Errorf("first step = %s, want active (stage in progress at failure)", steps[0].Status)
	}
}

func TestSubmitMalformedResult(t *testing.T) {
	cases := []struct {
		name string
		raw  *RawResult
	}{
		{"nil payload", nil},
		{"missing breakdown", &RawResult{Claims: json.RawMessage(`[]`)}},
		{"missing confidence", &RawResult{Breakdown: &RawBreakdown{Factors: []Factor{}}}},
		{"missing factors", &RawResult{Breakdown: &RawBreakdown{Confidence: floatPtr(0.5)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := New(stubEngine(tc.raw, nil))
			_, err := o.Submit(context.Background(), mustRequest(t, "content"))
			if !errors.Is(err, ErrMalformedResult) {
				t.Errorf("err = %v, want ErrMalformedResult", err)
			}
			if _, failed := o.Progress(); !failed {
				t.Error("sequence not failed after malformed result")
			}
		})
	}
}

func TestSubmitClassifiesRawEngineErrors(t *testing.T) {
	o := New(stubEngine(nil, errors.New("connection reset by peer")))
	_, err := o.Submit(context.Background(), mustRequest(t, "content"))
	if !errors.Is(err, ErrNetworkFailure) {
		t.Errorf("raw transport error surfaced unclassified: %v", err)
	}
}

func TestStagePacerAdvancesButNeverCompletes(t *testing.T) {
	release := make(chan struct{})
	eng := EngineFunc(func(ctx context.Context, req Request) (*RawResult, error) {
		<-release
		return sampleRawResult(), nil
	})
	o := New(eng, WithStagePace(2*time.Millisecond))

	paced := mustRequest(t, "paced")
	done := make(chan struct{})
	go func() {
		o.Submit(context.Background(), paced)
		close(done)
	}()

	// Wait until pacing parks on the final stage.
	deadline := time.After(2 * time.Second)
	for {
		steps, failed := o.Progress()
		if failed {
			t.Fatal("pacer failed the sequence")
		}
		last := steps[len(steps)-1]
		if last.Status == StepComplete {
			t.Fatal("pacer completed the final stage before the engine settled")
		}
		if last.Status == StepActive {
			break
		}
		select {
		case <-deadline:
			t.Fatal("pacer never reached the final stage")
		case <-time.After(time.Millisecond):
		}
	}

	close(release)
	<-done
	steps, _ := o.Progress()
	for _, st := range steps {
		if st.Status != StepComplete {
			t.Errorf("step %q = %s after completion, want complete", st.Label, st.Status)
		}
	}
}
