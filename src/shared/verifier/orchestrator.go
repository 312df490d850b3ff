package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// RawBreakdown is the not-yet-validated confidence section of an engine
// payload. Confidence is a pointer so a missing number is distinguishable
// from zero.
type RawBreakdown struct {
	Confidence *float64
	Factors    []Factor
}

// RawResult is the engine payload before validation. Claims carry the
// per-claim verdicts and evidence; their shape is owned by the engine and
// passed through byte-for-byte.
type RawResult struct {
	Breakdown *RawBreakdown
	Claims    json.RawMessage
}

// Result is a completed verification. Immutable once returned.
type Result struct {
	Breakdown Breakdown       `json:"confidenceBreakdown"`
	Claims    json.RawMessage `json:"claims,omitempty"`
}

// Engine is the outbound verification call. Implementations classify their
// own transport failures into this package's error taxonomy where they can;
// anything unclassified is treated as a network failure.
type Engine interface {
	Verify(ctx context.Context, req Request) (*RawResult, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, req Request) (*RawResult, error)

func (f EngineFunc) Verify(ctx context.Context, req Request) (*RawResult, error) {
	return f(ctx, req)
}

// Stages returns the fixed pipeline stages of a verification, in order.
func Stages() []Step {
	return []Step{
		{Label: "Extracting claims", Detail: "Identifying factual assertions in the content"},
		{Label: "Filtering verifiable claims", Detail: "Discarding opinions and unverifiable statements"},
		{Label: "Retrieving evidence", Detail: "Searching reputable sources for each claim"},
		{Label: "Synthesizing verdicts", Detail: "Weighing evidence into per-claim verdicts"},
	}
}

// Orchestrator owns the end-to-end lifecycle of one verification at a time:
// it validates the request, drives the progress sequence, issues exactly one
// engine call, and returns either a completed Result or a classified error.
//
// Policy: a second Submit while one is pending is rejected with
// ErrAlreadyInProgress rather than superseding the first. Reset abandons an
// in-flight submission; its late response is discarded, never rendered.
type Orchestrator struct {
	engine  Engine
	timeout time.Duration
	pace    time.Duration

	mu       sync.Mutex
	gen      uint64
	inFlight bool
	seq      *Sequence
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds the engine call. Zero means no timeout beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithStagePace advances intermediate stages on a timer while the engine
// call is in flight, so the display moves even though the call is a single
// round trip. Pacing never advances past the final stage; completion only
// comes from the engine settling. Zero disables pacing.
func WithStagePace(d time.Duration) Option {
	return func(o *Orchestrator) { o.pace = d }
}

// New creates an Orchestrator bound to an engine.
func New(engine Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{engine: engine}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Progress returns a read-only snapshot of the current sequence plus its
// failed flag. Before the first Submit it reports the declared stages, all
// pending.
func (o *Orchestrator) Progress() ([]Step, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq == nil {
		steps := Stages()
		for i := range steps {
			steps[i].Status = StepPending
		}
		return steps, false
	}
	return o.seq.Steps(), o.seq.Failed()
}

// Reset abandons any in-flight submission. The eventual engine response is
// treated as stale: the abandoned Submit returns ErrSuperseded and neither
// the sequence nor any result state is touched by it.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.inFlight = false
	o.seq = nil
}

// Submit runs one verification. It suspends at the engine call and resumes
// when the call settles; no internal retries are performed.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*Result, error) {
	if err := req.check(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, ErrAlreadyInProgress
	}
	o.gen++
	gen := o.gen
	o.inFlight = true
	o.seq = NewSequence(Stages()...)
	o.mu.Unlock()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	stopPacer := o.startPacer(gen)
	raw, err := o.engine.Verify(ctx, req)
	stopPacer()

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.gen {
		// Reset raced the response; the caller is gone and the state it
		// owned has been discarded.
		return nil, ErrSuperseded
	}
	o.inFlight = false

	if err != nil {
		o.seq.Fail()
		return nil, classify(err)
	}

	breakdown, verr := validatePayload(raw)
	if verr != nil {
		o.seq.Fail()
		return nil, verr
	}

	for !o.seq.Terminal() {
		o.seq.Advance()
	}
	return &Result{Breakdown: breakdown, Claims: raw.Claims}, nil
}

// startPacer walks intermediate stages forward on a timer. It stops on its
// own once the last stage is active, on generation change, or when the
// returned stop function runs.
func (o *Orchestrator) startPacer(gen uint64) (stop func()) {
	if o.pace <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(o.pace)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				o.mu.Lock()
				if gen != o.gen || o.seq == nil || o.seq.Terminal() {
					o.mu.Unlock()
					return
				}
				if i := o.seq.activeIndex(); i+1 < len(o.seq.steps) {
					o.seq.Advance()
				}
				o.mu.Unlock()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// validatePayload checks that the engine returned a usable confidence
// breakdown and builds the display form. Claims are not inspected.
func validatePayload(raw *RawResult) (Breakdown, error) {
	if raw == nil || raw.Breakdown == nil {
		return Breakdown{}, fmt.Errorf("%w: missing confidence breakdown", ErrMalformedResult)
	}
	if raw.Breakdown.Confidence == nil {
		return Breakdown{}, fmt.Errorf("%w: missing confidence value", ErrMalformedResult)
	}
	if raw.Breakdown.Factors == nil {
		return Breakdown{}, fmt.Errorf("%w: missing factor sequence", ErrMalformedResult)
	}
	return Summarize(*raw.Breakdown.Confidence, raw.Breakdown.Factors), nil
}

// classify folds any engine error into the taxonomy so the caller never
// sees a raw transport error.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrNetworkFailure),
		errors.Is(err, ErrMalformedResult):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
}
