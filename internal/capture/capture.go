// internal/capture/capture.go
// Pulse-stream recordings. A recording is the YAML serialization of
// exactly what a player emitted, durations in milliseconds, so a replay
// feeds the decoder the same stream a live transmission would.
package capture

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

const (
	// KindPulse marks a light-on interval
	KindPulse = "pulse"
	// KindGap marks a light-off interval
	KindGap = "gap"
)

var (
	// ErrNoPulses indicates a recording with an empty pulse stream
	ErrNoPulses = errors.New("recording has no pulses")
	// ErrUnknownPulseKind indicates a pulse kind other than pulse or gap
	ErrUnknownPulseKind = errors.New("pulse kind must be pulse or gap")
	// ErrBadPulseDuration indicates a zero or negative pulse duration
	ErrBadPulseDuration = errors.New("pulse duration must be positive")
)

// Pulse is one recorded interval.
type Pulse struct {
	Kind       string `yaml:"kind"`
	DurationMS int64  `yaml:"duration_ms"`
}

// Recording is a captured pulse stream plus the profile it was timed with.
// Replaying under a different profile never decodes; the profile name lets
// tooling say so up front.
type Recording struct {
	Profile    string    `yaml:"profile"`
	RecordedAt time.Time `yaml:"recorded_at"`
	Pulses     []Pulse   `yaml:"pulses"`
}

// FromSteps captures an encoded transmission as a recording.
func FromSteps(profile string, steps []morse.TransmissionStep) Recording {
	rec := Recording{
		Profile:    profile,
		RecordedAt: time.Now(),
		Pulses:     make([]Pulse, 0, len(steps)),
	}
	for _, step := range steps {
		kind := KindGap
		if step.IsPulse() {
			kind = KindPulse
		}
		rec.Pulses = append(rec.Pulses, Pulse{
			Kind:       kind,
			DurationMS: step.Duration.Milliseconds(),
		})
	}
	return rec
}

// Validate checks the recording is structurally replayable. It says
// nothing about whether the stream decodes; only the decoder knows that.
func (r Recording) Validate() error {
	if len(r.Pulses) == 0 {
		return ErrNoPulses
	}
	for i, p := range r.Pulses {
		if p.Kind != KindPulse && p.Kind != KindGap {
			return fmt.Errorf("pulse %d: %w: %q", i, ErrUnknownPulseKind, p.Kind)
		}
		if p.DurationMS <= 0 {
			return fmt.Errorf("pulse %d: %w: %d", i, ErrBadPulseDuration, p.DurationMS)
		}
	}
	return nil
}

// Replay feeds the recorded stream into the decoder in order. Whether a
// decoded signal results is read from the decoder afterwards.
func (r Recording) Replay(dec *morse.Decoder) {
	for _, p := range r.Pulses {
		d := time.Duration(p.DurationMS) * time.Millisecond
		if p.Kind == KindPulse {
			dec.ProcessPulse(d)
		} else {
			dec.ProcessGap(d)
		}
	}
}

// Write serializes the recording to path.
func Write(path string, rec Recording) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid recording: %w", err)
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recording: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write recording %s: %w", path, err)
	}
	return nil
}

// Read loads and validates a recording from path.
func Read(path string) (Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recording{}, fmt.Errorf("read recording %s: %w", path, err)
	}
	var rec Recording
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Recording{}, fmt.Errorf("parse recording %s: %w", path, err)
	}
	if err := rec.Validate(); err != nil {
		return Recording{}, fmt.Errorf("invalid recording %s: %w", path, err)
	}
	return rec, nil
}
