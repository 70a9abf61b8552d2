// internal/morse/step.go
package morse

import "time"

// StepKind identifies what a single transmission step does to the light.
type StepKind int

const (
	// StepDot is a short on-pulse
	StepDot StepKind = iota
	// StepDash is a long on-pulse
	StepDash
	// StepGap keeps the light dark for its duration
	StepGap
	// StepConfirmation is the fixed trailer pulse ending every payload
	StepConfirmation
)

// String returns the step kind name used in traces and serialized sequences.
func (k StepKind) String() string {
	switch k {
	case StepDot:
		return "dot"
	case StepDash:
		return "dash"
	case StepGap:
		return "gap"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

// TransmissionStep is one timed element of an encoded transmission.
// Steps are immutable once built; a full transmission is an ordered
// []TransmissionStep that players iterate without modifying.
type TransmissionStep struct {
	// Kind says whether the light is on (dot/dash/confirmation) or off (gap)
	Kind StepKind
	// Duration is how long the step holds its state
	Duration time.Duration
	// Label is the human-readable description shown in progress displays
	Label string
}

// IsPulse reports whether the step lights the indicator.
func (s TransmissionStep) IsPulse() bool {
	return s.Kind != StepGap
}

// TotalDuration sums the durations of all steps in a transmission.
// Used by progress displays; the decoder never consumes it.
func TotalDuration(steps []TransmissionStep) time.Duration {
	var total time.Duration
	for _, s := range steps {
		total += s.Duration
	}
	return total
}
