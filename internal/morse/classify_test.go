package morse

import (
	"testing"
	"time"
)

func TestClassifyPulse(t *testing.T) {
	tab := StandardTiming()

	tests := []struct {
		name     string
		duration time.Duration
		want     pulseClass
	}{
		{"dot", tab.Dot, pulseDot},
		{"dash", tab.Dash, pulseDash},
		{"confirmation", tab.ConfirmationFlash, pulseConfirmation},
		{"dot plus 1ms", tab.Dot + time.Millisecond, pulseUnknown},
		{"dot minus 1ms", tab.Dot - time.Millisecond, pulseUnknown},
		{"dash plus 1ns", tab.Dash + time.Nanosecond, pulseUnknown},
		{"zero", 0, pulseUnknown},
		{"letter gap duration as pulse", tab.EndTransmissionGap, pulseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyPulse(tab, tt.duration); got != tt.want {
				t.Errorf("classifyPulse(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestClassifyGap(t *testing.T) {
	tab := StandardTiming()

	tests := []struct {
		name     string
		duration time.Duration
		want     gapClass
	}{
		{"symbol gap", tab.SymbolGap, gapSymbol},
		{"letter gap", tab.LetterGap, gapLetter},
		{"end transmission", tab.EndTransmissionGap, gapEndTransmission},
		{"symbol gap plus 1ms", tab.SymbolGap + time.Millisecond, gapUnknown},
		{"letter gap minus 1ms", tab.LetterGap - time.Millisecond, gapUnknown},
		{"confirmation duration as gap", tab.ConfirmationFlash, gapUnknown},
		{"zero", 0, gapUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyGap(tab, tt.duration); got != tt.want {
				t.Errorf("classifyGap(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestClassify_NonStandardTable(t *testing.T) {
	// Classification follows the table it is given, not the standard values.
	tab := TimingTable{
		Dot:                100 * time.Millisecond,
		Dash:               300 * time.Millisecond,
		SymbolGap:          100 * time.Millisecond,
		LetterGap:          300 * time.Millisecond,
		ConfirmationFlash:  500 * time.Millisecond,
		EndTransmissionGap: 700 * time.Millisecond,
	}
	if err := tab.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if got := classifyPulse(tab, 100*time.Millisecond); got != pulseDot {
		t.Errorf("classifyPulse(100ms) = %v, want %v", got, pulseDot)
	}
	if got := classifyPulse(tab, 200*time.Millisecond); got != pulseUnknown {
		t.Errorf("classifyPulse(200ms) = %v, want %v", got, pulseUnknown)
	}
	if got := classifyGap(tab, 700*time.Millisecond); got != gapEndTransmission {
		t.Errorf("classifyGap(700ms) = %v, want %v", got, gapEndTransmission)
	}
	if got := classifyGap(tab, 1400*time.Millisecond); got != gapUnknown {
		t.Errorf("classifyGap(1400ms) = %v, want %v", got, gapUnknown)
	}
}
