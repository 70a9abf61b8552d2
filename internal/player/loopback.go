// internal/player/loopback.go
package player

import "github.com/ColonelBlimp/fibertester/internal/morse"

// Loopback forwards played steps into a decoder, emulating a live link in
// the same process. Pulse steps arrive as pulses, gap steps as gaps, each
// with its configured duration.
type Loopback struct {
	dec *morse.Decoder
}

// NewLoopback creates a loopback feeding the given decoder.
func NewLoopback(dec *morse.Decoder) *Loopback {
	return &Loopback{dec: dec}
}

// ObserveStep implements StepObserver.
func (l *Loopback) ObserveStep(step morse.TransmissionStep) {
	if step.IsPulse() {
		l.dec.ProcessPulse(step.Duration)
	} else {
		l.dec.ProcessGap(step.Duration)
	}
}

// Feed replays a full step sequence into a decoder without waiting.
// Equivalent to playing the sequence through a Loopback observer.
func Feed(dec *morse.Decoder, steps []morse.TransmissionStep) {
	for _, s := range steps {
		if s.IsPulse() {
			dec.ProcessPulse(s.Duration)
		} else {
			dec.ProcessGap(s.Duration)
		}
	}
}
