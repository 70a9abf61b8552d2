package gpioled

import "sync"

// FakeDriver is a test double recording LED transitions.
type FakeDriver struct {
	mu sync.Mutex

	// Transitions records every Set value in order.
	Transitions []bool

	// SetError, if set, will be returned by Set()
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeDriver creates an empty FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Set records the transition.
func (f *FakeDriver) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SetError != nil {
		return f.SetError
	}
	f.Transitions = append(f.Transitions, on)
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// On reports the current LED state (the last transition).
func (f *FakeDriver) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Transitions) == 0 {
		return false
	}
	return f.Transitions[len(f.Transitions)-1]
}

// Count returns the number of recorded transitions.
func (f *FakeDriver) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Transitions)
}

// Reset clears recorded state.
func (f *FakeDriver) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Transitions = nil
	f.Closed = false
}
