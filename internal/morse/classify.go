// internal/morse/classify.go
package morse

import "time"

// pulseClass is the strict classification of an observed pulse duration.
type pulseClass int

const (
	pulseUnknown pulseClass = iota
	pulseDot
	pulseDash
	pulseConfirmation
)

// gapClass is the strict classification of an observed gap duration.
type gapClass int

const (
	gapUnknown gapClass = iota
	gapSymbol
	gapLetter
	gapEndTransmission
)

// classifyPulse matches a pulse duration against the table by exact
// equality. There is no tolerance window: a duration either equals a table
// entry or it is unknown. This only works when the feeding side reports
// configured step durations; measured wall-clock durations will never match.
func classifyPulse(t TimingTable, d time.Duration) pulseClass {
	switch d {
	case t.Dot:
		return pulseDot
	case t.Dash:
		return pulseDash
	case t.ConfirmationFlash:
		return pulseConfirmation
	default:
		return pulseUnknown
	}
}

// classifyGap matches a gap duration against the table by exact equality.
func classifyGap(t TimingTable, d time.Duration) gapClass {
	switch d {
	case t.SymbolGap:
		return gapSymbol
	case t.LetterGap:
		return gapLetter
	case t.EndTransmissionGap:
		return gapEndTransmission
	default:
		return gapUnknown
	}
}
