// internal/tui/view_test.go
package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

func TestView_InitialPanels(t *testing.T) {
	m := newTestModel(t, morse.StandardTiming())

	view := m.View()

	for _, want := range []string{
		"Fiber Optic Tester",
		"profile: standard",
		"Red",
		"Green",
		"Blue",
		"Select color and number",
		"Decoder",
		"no decoded transmission yet",
		"History",
		"none yet",
		"q quit",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_LampStates(t *testing.T) {
	m := newTestModel(t, morse.StandardTiming())

	if view := m.View(); !strings.Contains(view, "dark") {
		t.Error("View() should show a dark lamp initially")
	}

	m.lampOn = true
	if view := m.View(); !strings.Contains(view, "LIT") {
		t.Error("View() should show a lit lamp")
	}
}

func TestView_Progress(t *testing.T) {
	m := newTestModel(t, morse.StandardTiming())
	m.transmitting = true
	m.stepIndex = 2
	m.stepTotal = 18

	if view := m.View(); !strings.Contains(view, "step 3/18") {
		t.Error("View() should show one-based step progress")
	}
}

func TestView_DecodedReadout(t *testing.T) {
	m := newTestModel(t, morse.StandardTiming())
	m.decoded = &morse.DecodedSignal{
		Color:      "Red",
		Number:     "5",
		RawPattern: ".-. .....",
		DecodingSteps: []string{
			"buffer: 18 signals",
			"confirmation flash found",
		},
		Timestamp: time.Now(),
	}

	view := m.View()

	for _, want := range []string{"Red 5", ".-. .....", "confirmation flash found"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_DecodedTraceCapped(t *testing.T) {
	m := newTestModel(t, morse.StandardTiming())
	trace := make([]string, maxTraceLines+4)
	for i := range trace {
		trace[i] = fmt.Sprintf("stage %d", i)
	}
	m.decoded = &morse.DecodedSignal{
		Color:         "Blue",
		Number:        "100",
		RawPattern:    "-... .---- ----- -----",
		DecodingSteps: trace,
	}

	view := m.View()

	if !strings.Contains(view, "... and 4 more") {
		t.Error("View() should cap the decoder trace")
	}
	if strings.Contains(view, fmt.Sprintf("stage %d", maxTraceLines)) {
		t.Error("View() should not render lines past the cap")
	}
}

func TestView_History(t *testing.T) {
	m := newTestModel(t, morse.StandardTiming())
	m.status.History = []string{"Blue 9 sent", "Red 5 sent"}

	view := m.View()

	for _, want := range []string{"Blue 9 sent", "Red 5 sent"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing history entry %q", want)
		}
	}
}

func TestView_ErrorMessage(t *testing.T) {
	m := newTestModel(t, morse.StandardTiming())
	m.message = "Invalid color: Purple. Must be Red, Green, or Blue."
	m.messageIsErr = true

	if view := m.View(); !strings.Contains(view, "Invalid color: Purple") {
		t.Error("View() should show the error message verbatim")
	}
}
