// internal/player/fake.go
package player

import (
	"sync"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

// FakeIndicator is a test double recording every transition.
type FakeIndicator struct {
	mu sync.Mutex

	// Transitions holds every Set value in call order.
	Transitions []bool

	// SetError, if set, is returned by every Set call.
	SetError error

	// Hook, if set, runs inside every Set call after recording.
	Hook func(on bool)
}

// Set implements Indicator.
func (f *FakeIndicator) Set(on bool) error {
	f.mu.Lock()
	f.Transitions = append(f.Transitions, on)
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		hook(on)
	}
	return f.SetError
}

// On reports the current light state, false before any transition.
func (f *FakeIndicator) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Transitions) == 0 {
		return false
	}
	return f.Transitions[len(f.Transitions)-1]
}

// Count returns how many transitions were recorded.
func (f *FakeIndicator) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Transitions)
}

// Recorder is a StepObserver collecting every completed step.
type Recorder struct {
	mu    sync.Mutex
	steps []morse.TransmissionStep
}

// ObserveStep implements StepObserver.
func (r *Recorder) ObserveStep(step morse.TransmissionStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

// Steps returns a copy of the recorded steps in arrival order.
func (r *Recorder) Steps() []morse.TransmissionStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]morse.TransmissionStep, len(r.steps))
	copy(out, r.steps)
	return out
}
