// internal/player/indicator.go
package player

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

// NopIndicator discards every transition. Used for quiet playback.
type NopIndicator struct{}

// Set implements Indicator.
func (NopIndicator) Set(bool) error { return nil }

// ConsoleIndicator renders the light on a writer: each on-transition
// prints a block glyph, so a transmission leaves one glyph per flash.
type ConsoleIndicator struct {
	w io.Writer
}

// NewConsoleIndicator creates a console indicator writing to w.
func NewConsoleIndicator(w io.Writer) *ConsoleIndicator {
	return &ConsoleIndicator{w: w}
}

// Set implements Indicator.
func (c *ConsoleIndicator) Set(on bool) error {
	if !on {
		return nil
	}
	_, err := fmt.Fprint(c.w, "█ ")
	return err
}

// MultiIndicator fans a transition out to several indicators. Every
// indicator is driven even when an earlier one fails; failures are joined.
type MultiIndicator struct {
	indicators []Indicator
}

// NewMultiIndicator combines the given indicators. Nil entries are dropped.
func NewMultiIndicator(indicators ...Indicator) *MultiIndicator {
	m := &MultiIndicator{}
	for _, ind := range indicators {
		if ind != nil {
			m.indicators = append(m.indicators, ind)
		}
	}
	return m
}

// Set implements Indicator.
func (m *MultiIndicator) Set(on bool) error {
	var errs []error
	for _, ind := range m.indicators {
		if err := ind.Set(on); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StepPrinter is a StepObserver that writes one line per completed step,
// marking pulses with a filled glyph and gaps with blank space.
type StepPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStepPrinter creates a step printer writing to w.
func NewStepPrinter(w io.Writer) *StepPrinter {
	return &StepPrinter{w: w}
}

// ObserveStep implements StepObserver.
func (p *StepPrinter) ObserveStep(step morse.TransmissionStep) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mark := "  "
	if step.IsPulse() {
		mark = "██"
	}
	fmt.Fprintf(p.w, "%s %6dms  %s\n", mark, step.Duration.Milliseconds(), step.Label)
}
