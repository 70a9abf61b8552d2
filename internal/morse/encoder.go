// internal/morse/encoder.go
package morse

import (
	"errors"
	"fmt"
	"strconv"
)

// Supported color names. The color's leading letter is what actually goes
// on the wire.
const (
	ColorRed   = "Red"
	ColorGreen = "Green"
	ColorBlue  = "Blue"
)

var (
	// ErrInvalidColor indicates a color outside the three supported names
	ErrInvalidColor = errors.New("color must be Red, Green, or Blue")
	// ErrInvalidNumber indicates a number that is not a digit string in [0,100]
	ErrInvalidNumber = errors.New("number must be 0-100")
)

// ColorForLetter maps a leading letter back to its color name.
func ColorForLetter(c byte) (string, bool) {
	switch c {
	case 'R':
		return ColorRed, true
	case 'G':
		return ColorGreen, true
	case 'B':
		return ColorBlue, true
	default:
		return "", false
	}
}

// ValidColor reports whether color is one of the supported names.
func ValidColor(color string) bool {
	return color == ColorRed || color == ColorGreen || color == ColorBlue
}

// ValidNumber reports whether number is a pure digit string whose integer
// value lies in [0,100]. Leading zeros are allowed and preserved by the
// encoder; signs and whitespace are not.
func ValidNumber(number string) bool {
	if number == "" {
		return false
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(number)
	if err != nil {
		return false
	}
	return n >= 0 && n <= 100
}

// Encoder turns a (color, number) selection into a timed step sequence.
type Encoder struct {
	timing TimingTable
}

// NewEncoder creates an encoder over the given timing table.
func NewEncoder(t TimingTable) (*Encoder, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{timing: t}, nil
}

// Timing returns the encoder's timing table.
func (e *Encoder) Timing() TimingTable {
	return e.timing
}

// Encode builds the full transmission sequence for a color and number:
// the color letter's glyphs, each digit's glyphs left to right with a
// letter gap after every character, the confirmation flash, and the
// end-of-transmission gap. The number is encoded digit by digit exactly
// as given, so "07" transmits a zero then a seven.
func (e *Encoder) Encode(color, number string) ([]TransmissionStep, error) {
	if !ValidColor(color) {
		return nil, fmt.Errorf("%q: %w", color, ErrInvalidColor)
	}
	if !ValidNumber(number) {
		return nil, fmt.Errorf("%q: %w", number, ErrInvalidNumber)
	}

	var steps []TransmissionStep

	colorPattern, _ := Pattern(color[0])
	steps = append(steps, e.patternSteps(colorPattern, "color")...)
	steps = append(steps, TransmissionStep{
		Kind:     StepGap,
		Duration: e.timing.LetterGap,
		Label:    "Inter-letter gap",
	})

	for i := 0; i < len(number); i++ {
		digit := number[i]
		digitPattern, _ := Pattern(digit)
		steps = append(steps, e.patternSteps(digitPattern, "digit")...)
		steps = append(steps, TransmissionStep{
			Kind:     StepGap,
			Duration: e.timing.LetterGap,
			Label:    fmt.Sprintf("Inter-letter gap after digit %c", digit),
		})
	}

	steps = append(steps, TransmissionStep{
		Kind:     StepConfirmation,
		Duration: e.timing.ConfirmationFlash,
		Label:    "Confirmation flash",
	})
	steps = append(steps, TransmissionStep{
		Kind:     StepGap,
		Duration: e.timing.EndTransmissionGap,
		Label:    "End-of-transmission gap",
	})

	return steps, nil
}

// patternSteps converts one character's glyph string into pulse steps with
// a symbol gap between consecutive glyphs. No gap follows the last glyph;
// the caller appends the letter gap.
func (e *Encoder) patternSteps(pattern, seqType string) []TransmissionStep {
	steps := make([]TransmissionStep, 0, 2*len(pattern))
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case GlyphDot:
			steps = append(steps, TransmissionStep{
				Kind:     StepDot,
				Duration: e.timing.Dot,
				Label:    fmt.Sprintf("Dot (%s)", seqType),
			})
		case GlyphDash:
			steps = append(steps, TransmissionStep{
				Kind:     StepDash,
				Duration: e.timing.Dash,
				Label:    fmt.Sprintf("Dash (%s)", seqType),
			})
		}
		if i < len(pattern)-1 {
			steps = append(steps, TransmissionStep{
				Kind:     StepGap,
				Duration: e.timing.SymbolGap,
				Label:    "Intra-letter gap",
			})
		}
	}
	return steps
}

// PatternFor returns the raw glyph pattern a selection transmits, with
// characters separated by spaces (".-. ....." for Red 5). Used for
// history records and diagnostic displays.
func PatternFor(color, number string) (string, error) {
	if !ValidColor(color) {
		return "", fmt.Errorf("%q: %w", color, ErrInvalidColor)
	}
	if !ValidNumber(number) {
		return "", fmt.Errorf("%q: %w", number, ErrInvalidNumber)
	}
	raw, _ := Pattern(color[0])
	for i := 0; i < len(number); i++ {
		digitPattern, _ := Pattern(number[i])
		raw += " " + digitPattern
	}
	return raw, nil
}
