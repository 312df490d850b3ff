package verifier

import "fmt"

// StepStatus is the strict three-state progression of a pipeline stage.
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepActive   StepStatus = "active"
	StepComplete StepStatus = "complete"
)

// Step is one fixed pipeline stage shown to the user while a verification
// is in flight.
type Step struct {
	Label  string     `json:"label"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
}

// Sequence tracks the ordered stages of one in-flight verification. It is
// owned by the orchestrator for the duration of a request; the presentation
// layer only ever sees copies via Steps.
type Sequence struct {
	steps  []Step
	failed bool
}

// NewSequence starts a sequence at the declared stages: the first step
// active, the rest pending. Step statuses supplied by the caller are
// ignored.
func NewSequence(steps ...Step) *Sequence {
	s := &Sequence{steps: make([]Step, len(steps))}
	copy(s.steps, steps)
	for i := range s.steps {
		s.steps[i].Status = StepPending
	}
	if len(s.steps) > 0 {
		s.steps[0].Status = StepActive
	}
	return s
}

// activeIndex returns the position of the active step, or -1 when none.
func (s *Sequence) activeIndex() int {
	for i := range s.steps {
		if s.steps[i].Status == StepActive {
			return i
		}
	}
	return -1
}

// Advance completes the active step and activates the next pending one.
// Once every step is complete, or after Fail, further calls are no-ops.
func (s *Sequence) Advance() {
	s.check()
	if s.failed {
		return
	}
	i := s.activeIndex()
	if i < 0 {
		return // already terminal
	}
	s.steps[i].Status = StepComplete
	if i+1 < len(s.steps) {
		s.steps[i+1].Status = StepActive
	}
}

// Fail terminates the sequence, leaving the active step in place so the
// display layer can show exactly which stage was in progress.
func (s *Sequence) Fail() {
	s.check()
	s.failed = true
}

// Failed reports whether the sequence was terminated by Fail.
func (s *Sequence) Failed() bool { return s.failed }

// Terminal reports whether no further transitions can occur.
func (s *Sequence) Terminal() bool {
	return s.failed || s.activeIndex() < 0
}

// Steps returns a read-only snapshot of the current stage statuses.
func (s *Sequence) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// check panics when the step layout violates the forward-only ordering:
// complete steps, at most one active step, then pending steps. Transitions
// only ever move forward, so a violation is a programmer error.
func (s *Sequence) check() {
	phase := StepComplete
	for i, st := range s.steps {
		switch st.Status {
		case StepComplete:
			if phase != StepComplete {
				panic(fmt.Sprintf("progress: step %d complete after %s", i, phase))
			}
		case StepActive:
			if phase != StepComplete {
				panic(fmt.Sprintf("progress: step %d active after %s step", i, phase))
			}
			phase = StepActive
		case StepPending:
			phase = StepPending
		default:
			panic(fmt.Sprintf("progress: step %d has unknown status %q", i, st.Status))
		}
	}
}
