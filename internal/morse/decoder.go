// internal/morse/decoder.go
package morse

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// SignalKind distinguishes light-on observations from dark ones.
type SignalKind int

const (
	// PulseOn is a period with the light on
	PulseOn SignalKind = iota
	// PulseGap is a period with the light off
	PulseGap
)

// String returns a human-readable name for the signal kind.
func (k SignalKind) String() string {
	switch k {
	case PulseOn:
		return "pulse"
	case PulseGap:
		return "gap"
	default:
		return "unknown"
	}
}

// SignalPulse is a single timed observation fed to the decoder in arrival
// order.
type SignalPulse struct {
	Kind       SignalKind
	Duration   time.Duration
	ObservedAt time.Time
}

// DecodedSignal is the result of a fully successful reduction. Partial
// buffers never produce one.
type DecodedSignal struct {
	// Color is the resolved color name ("Red", "Green", "Blue")
	Color string
	// Number is the resolved digit string, exactly as transmitted
	Number string
	// RawPattern is the glyph pattern with characters space-separated
	RawPattern string
	// DecodingSteps is the per-stage diagnostic trace
	DecodingSteps []string
	// Timestamp is when the reduction completed
	Timestamp time.Time
}

// Decoder accumulates pulse and gap observations into a buffer and reduces
// the buffer to a (color, number) pair when a transmission ends. Every
// observed duration must exactly equal a timing table entry; a single
// mismatch rejects the whole buffer. The decoder must share its table
// values with the encoder that produced the signal, or no transmission
// will ever decode.
type Decoder struct {
	timing TimingTable

	mu       sync.Mutex
	buffer   []SignalPulse
	lastSeen time.Time
	latest   *DecodedSignal

	// now is replaceable in tests to drive CheckForTransmissionEnd
	now func() time.Time
}

// NewDecoder creates a decoder over the given timing table.
func NewDecoder(t TimingTable) (*Decoder, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		timing: t,
		now:    time.Now,
	}, nil
}

// Timing returns the decoder's timing table.
func (d *Decoder) Timing() TimingTable {
	return d.timing
}

// ProcessPulse appends a light-on observation to the buffer.
func (d *Decoder) ProcessPulse(duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.buffer = append(d.buffer, SignalPulse{
		Kind:       PulseOn,
		Duration:   duration,
		ObservedAt: now,
	})
	d.lastSeen = now
}

// ProcessGap appends a dark observation to the buffer. A gap whose duration
// exactly equals the end-of-transmission gap triggers a reduction attempt
// immediately.
func (d *Decoder) ProcessGap(duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.buffer = append(d.buffer, SignalPulse{
		Kind:       PulseGap,
		Duration:   duration,
		ObservedAt: now,
	})
	d.lastSeen = now

	if duration == d.timing.EndTransmissionGap {
		d.reduce()
	}
}

// CheckForTransmissionEnd is the polled trigger for streams that go silent
// without an explicit terminating gap. If the buffer is non-empty and more
// than the end-of-transmission gap has elapsed since the last observation,
// a reduction attempt runs.
func (d *Decoder) CheckForTransmissionEnd() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.buffer) == 0 {
		return
	}
	if d.now().Sub(d.lastSeen) > d.timing.EndTransmissionGap {
		d.reduce()
	}
}

// LatestDecoded returns the most recent successful decode and clears the
// slot, or nil when nothing new arrived since the last read. A new decode
// overwrites an unread previous one.
func (d *Decoder) LatestDecoded() *DecodedSignal {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := d.latest
	d.latest = nil
	return out
}

// BufferLen reports how many observations are currently buffered.
func (d *Decoder) BufferLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffer)
}

// Reset clears the buffer and the decoded-result slot.
func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffer = nil
	d.latest = nil
}

// reduce runs the classify/segment/map/interpret pipeline over the buffer.
// The buffer is cleared whether the attempt succeeds or is rejected;
// rejections are silent and publish nothing. Caller holds d.mu.
func (d *Decoder) reduce() {
	buffered := d.buffer
	d.buffer = nil

	if len(buffered) == 0 {
		return
	}

	var trace []string

	// Stage 1: strict classification into a working pattern
	var pattern strings.Builder
	for _, obs := range buffered {
		switch obs.Kind {
		case PulseOn:
			switch classifyPulse(d.timing, obs.Duration) {
			case pulseDot:
				pattern.WriteByte(GlyphDot)
			case pulseDash:
				pattern.WriteByte(GlyphDash)
			case pulseConfirmation:
				// expected trailer, carries no payload
			default:
				return
			}
		case PulseGap:
			switch classifyGap(d.timing, obs.Duration) {
			case gapSymbol:
				// glyphs of the same character stay adjacent
			case gapLetter:
				pattern.WriteByte(' ')
			case gapEndTransmission:
				// expected terminator
			default:
				return
			}
		default:
			return
		}
	}
	raw := strings.TrimSpace(pattern.String())
	trace = append(trace, fmt.Sprintf("Classified %d signals into pattern %q", len(buffered), raw))

	// Stage 2: segment on character separators
	segments := strings.Fields(raw)
	if len(segments) == 0 {
		return
	}
	trace = append(trace, fmt.Sprintf("Segmented into %d characters", len(segments)))

	// Stage 3: reverse-map each segment
	chars := make([]byte, 0, len(segments))
	for _, seg := range segments {
		c, ok := CharForPattern(seg)
		if !ok {
			return
		}
		chars = append(chars, c)
	}
	trace = append(trace, fmt.Sprintf("Mapped pattern to %q", string(chars)))

	// Stage 4: interpret as color letter followed by digits
	color, ok := ColorForLetter(chars[0])
	if !ok {
		return
	}
	if len(chars) < 2 {
		return
	}
	for _, c := range chars[1:] {
		if c < '0' || c > '9' {
			return
		}
	}
	number := string(chars[1:])
	if !ValidNumber(number) {
		return
	}
	trace = append(trace, fmt.Sprintf("Interpreted %s %s", color, number))

	d.latest = &DecodedSignal{
		Color:         color,
		Number:        number,
		RawPattern:    raw,
		DecodingSteps: trace,
		Timestamp:     d.now(),
	}
}
