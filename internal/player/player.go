// internal/player/player.go
// Package player walks an encoded transmission step by step, driving an
// output indicator and notifying observers. The real implementation waits
// out each step's duration; the feed helpers replay sequences instantly.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

var (
	// ErrNilIndicator indicates the player was built without an output
	ErrNilIndicator = errors.New("indicator must not be nil")
)

// Indicator is the abstract light a player drives. Implementations exist
// for the console, an audio sidetone, a GPIO LED, and a serial port.
type Indicator interface {
	// Set turns the light on or off.
	Set(on bool) error
}

// StepObserver is notified after each fully completed step. Interrupted
// steps are never delivered.
type StepObserver interface {
	ObserveStep(step morse.TransmissionStep)
}

// ProgressFunc receives the zero-based step index and the total step count
// as each step begins.
type ProgressFunc func(index, total int)

// Player plays a transmission against an indicator in real time.
type Player struct {
	indicator Indicator
	observers []StepObserver
	progress  ProgressFunc
}

// NewPlayer creates a player driving the given indicator.
func NewPlayer(indicator Indicator) (*Player, error) {
	if indicator == nil {
		return nil, ErrNilIndicator
	}
	return &Player{indicator: indicator}, nil
}

// AddObserver registers an observer for completed steps. Not safe to call
// while Play is running.
func (p *Player) AddObserver(obs StepObserver) {
	if obs != nil {
		p.observers = append(p.observers, obs)
	}
}

// SetProgress sets the per-step progress callback.
func (p *Player) SetProgress(fn ProgressFunc) {
	p.progress = fn
}

// Play walks the step sequence: pulse steps turn the indicator on for
// their duration, gap steps keep it dark. Cancelling the context stops the
// current wait immediately, forces the indicator off, and returns the
// context's error. Observers receive each step's configured duration, not
// the measured wall-clock time; timer jitter makes the two differ, and
// only configured durations survive the decoder's exact matching.
func (p *Player) Play(ctx context.Context, steps []morse.TransmissionStep) error {
	for i, step := range steps {
		if p.progress != nil {
			p.progress(i, len(steps))
		}

		if step.IsPulse() {
			if err := p.indicator.Set(true); err != nil {
				return fmt.Errorf("indicator on: %w", err)
			}
		}

		if err := p.wait(ctx, step.Duration); err != nil {
			// Best effort: the light must not stay lit after a cancel.
			_ = p.indicator.Set(false)
			return err
		}

		if step.IsPulse() {
			if err := p.indicator.Set(false); err != nil {
				return fmt.Errorf("indicator off: %w", err)
			}
		}

		for _, obs := range p.observers {
			obs.ObserveStep(step)
		}
	}
	return nil
}

// wait blocks for d or until the context is canceled.
func (p *Player) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
