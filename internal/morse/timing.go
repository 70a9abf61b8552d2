// internal/morse/timing.go
// Package morse implements the fiber tester's timing-based signalling core:
// the shared timing and pattern tables, the transmission encoder, and the
// exact-match pulse decoder.
package morse

import (
	"errors"
	"time"
)

// Standard visual timing, one unit = 200ms. Values chosen for human-visible
// flashing rather than ITU radio speeds.
const (
	// StandardDot is the short-pulse duration (1 unit).
	StandardDot = 200 * time.Millisecond
	// StandardDash is the long-pulse duration (3 units).
	StandardDash = 600 * time.Millisecond
	// StandardSymbolGap separates glyphs within one character (1 unit).
	StandardSymbolGap = 200 * time.Millisecond
	// StandardLetterGap separates characters (3 units).
	StandardLetterGap = 600 * time.Millisecond
	// StandardConfirmationFlash trails every transmission (5 units).
	StandardConfirmationFlash = 1000 * time.Millisecond
	// StandardEndTransmissionGap terminates a transmission (7 units).
	StandardEndTransmissionGap = 1400 * time.Millisecond
)

var (
	// ErrNonPositiveDuration indicates a table duration that is zero or negative
	ErrNonPositiveDuration = errors.New("all timing durations must be positive")
	// ErrAmbiguousPulseTiming indicates two pulse kinds share a duration
	ErrAmbiguousPulseTiming = errors.New("dot, dash, and confirmation durations must be pairwise distinct")
	// ErrAmbiguousGapTiming indicates two gap kinds share a duration
	ErrAmbiguousGapTiming = errors.New("symbol, letter, and end-transmission gap durations must be pairwise distinct")
)

// TimingTable maps each symbol kind to its on-the-wire duration.
// An encoder and a decoder can only interoperate when built from identical
// tables: the decoder accepts a duration only when it equals the table value
// exactly, so any drift between the two sides is a silent total-failure mode.
type TimingTable struct {
	Dot                time.Duration
	Dash               time.Duration
	SymbolGap          time.Duration
	LetterGap          time.Duration
	ConfirmationFlash  time.Duration
	EndTransmissionGap time.Duration
}

// StandardTiming returns the canonical timing table.
func StandardTiming() TimingTable {
	return TimingTable{
		Dot:                StandardDot,
		Dash:               StandardDash,
		SymbolGap:          StandardSymbolGap,
		LetterGap:          StandardLetterGap,
		ConfirmationFlash:  StandardConfirmationFlash,
		EndTransmissionGap: StandardEndTransmissionGap,
	}
}

// Validate checks that the table can be classified without ambiguity.
// Pulse durations (dot, dash, confirmation) must be pairwise distinct, as
// must the three gap durations, or the strict classifier cannot tell the
// kinds apart.
func (t TimingTable) Validate() error {
	for _, d := range []time.Duration{
		t.Dot, t.Dash, t.SymbolGap, t.LetterGap, t.ConfirmationFlash, t.EndTransmissionGap,
	} {
		if d <= 0 {
			return ErrNonPositiveDuration
		}
	}
	if t.Dot == t.Dash || t.Dot == t.ConfirmationFlash || t.Dash == t.ConfirmationFlash {
		return ErrAmbiguousPulseTiming
	}
	if t.SymbolGap == t.LetterGap || t.SymbolGap == t.EndTransmissionGap || t.LetterGap == t.EndTransmissionGap {
		return ErrAmbiguousGapTiming
	}
	return nil
}
