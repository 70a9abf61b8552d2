package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

// fakeJournal records transmissions in memory.
type fakeJournal struct {
	mu      sync.Mutex
	records []Transmission
	err     error
}

func (f *fakeJournal) Record(tx Transmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, tx)
	return nil
}

func (f *fakeJournal) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func newTestController(t *testing.T, journal Journal) *Controller {
	t.Helper()
	c, err := NewController(Config{
		Timing:  morse.StandardTiming(),
		Profile: "standard",
		Journal: journal,
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	return c
}

func TestNewController_InvalidTiming(t *testing.T) {
	_, err := NewController(Config{Timing: morse.TimingTable{}})
	if err != morse.ErrNonPositiveDuration {
		t.Errorf("NewController() error = %v, want %v", err, morse.ErrNonPositiveDuration)
	}
}

func TestController_SetColor(t *testing.T) {
	c := newTestController(t, nil)

	res, err := c.SetColor("Red")
	if err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if res.Message != "Red selected - Enter number" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Status != "color_selected" {
		t.Errorf("Status = %q, want %q", res.Status, "color_selected")
	}
	if res.Color != "Red" {
		t.Errorf("Color = %q, want %q", res.Color, "Red")
	}
}

func TestController_SetColor_Invalid(t *testing.T) {
	c := newTestController(t, nil)

	_, err := c.SetColor("Purple")
	if err == nil {
		t.Fatal("SetColor(Purple) should fail")
	}
	want := "Invalid color: Purple. Must be Red, Green, or Blue."
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}

	if st := c.Status(); st.Color != "" {
		t.Errorf("rejected color stored: %q", st.Color)
	}
}

func TestController_SetNumber_BeforeColor(t *testing.T) {
	c := newTestController(t, nil)

	res, err := c.SetNumber("5")
	if err != nil {
		t.Fatalf("SetNumber() error = %v", err)
	}
	if res.Message != "Number 5 set - Select color" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Status != "number_set" {
		t.Errorf("Status = %q, want %q", res.Status, "number_set")
	}
}

func TestController_SetNumber_AfterColor(t *testing.T) {
	c := newTestController(t, nil)

	if _, err := c.SetColor("Red"); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	res, err := c.SetNumber("5")
	if err != nil {
		t.Fatalf("SetNumber() error = %v", err)
	}
	if res.Message != "Red 5 ready" {
		t.Errorf("Message = %q, want %q", res.Message, "Red 5 ready")
	}
}

func TestController_SetNumber_Invalid(t *testing.T) {
	c := newTestController(t, nil)

	_, err := c.SetNumber("101")
	if err == nil {
		t.Fatal("SetNumber(101) should fail")
	}
	want := "Invalid number: 101. Must be 0-100."
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestController_Clear(t *testing.T) {
	c := newTestController(t, nil)

	mustSelect(t, c, "Blue", "7")
	if _, err := c.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	res := c.Clear()
	if res.Message != "Select color and number" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Status != "cleared" {
		t.Errorf("Status = %q, want %q", res.Status, "cleared")
	}

	st := c.Status()
	if st.Color != "" || st.Number != "" || st.Transmitting {
		t.Errorf("after Clear(), status = %+v", st)
	}
}

func TestController_Prepare_MissingSelection(t *testing.T) {
	c := newTestController(t, nil)

	if _, err := c.Prepare(); err != ErrNoColorSelected {
		t.Errorf("Prepare() error = %v, want %v", err, ErrNoColorSelected)
	}

	if _, err := c.SetColor("Green"); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if _, err := c.Prepare(); err != ErrNoNumberEntered {
		t.Errorf("Prepare() error = %v, want %v", err, ErrNoNumberEntered)
	}
}

func TestController_Prepare(t *testing.T) {
	c := newTestController(t, nil)
	mustSelect(t, c, "Red", "5")

	prep, err := c.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if prep.Message != "Transmitting Red 5..." {
		t.Errorf("Message = %q", prep.Message)
	}
	if prep.Color != "Red" || prep.Number != "5" {
		t.Errorf("Prepared = %s %s, want Red 5", prep.Color, prep.Number)
	}
	if len(prep.Steps) != 18 {
		t.Errorf("len(Steps) = %d, want 18", len(prep.Steps))
	}
	if prep.TotalDuration != 6800*time.Millisecond {
		t.Errorf("TotalDuration = %v, want %v", prep.TotalDuration, 6800*time.Millisecond)
	}

	st := c.Status()
	if !st.Transmitting {
		t.Error("after Prepare(), Transmitting should be true")
	}
	if st.ReadyToSend {
		t.Error("after Prepare(), ReadyToSend should be false")
	}
}

func TestController_Prepare_AlreadyTransmitting(t *testing.T) {
	c := newTestController(t, nil)
	mustSelect(t, c, "Red", "5")

	if _, err := c.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err := c.Prepare(); err != ErrTransmissionInProgress {
		t.Errorf("second Prepare() error = %v, want %v", err, ErrTransmissionInProgress)
	}
}

func TestController_Complete(t *testing.T) {
	c := newTestController(t, nil)
	mustSelect(t, c, "Red", "5")
	if _, err := c.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	done, err := c.Complete()
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if done.Message != "Red 5 sent" {
		t.Errorf("Message = %q, want %q", done.Message, "Red 5 sent")
	}
	if len(done.History) != 1 || done.History[0] != "Red 5 sent" {
		t.Errorf("History = %v", done.History)
	}

	st := c.Status()
	if st.Color != "" || st.Number != "" || st.Transmitting {
		t.Errorf("after Complete(), status = %+v", st)
	}
}

func TestController_Complete_WithoutPrepare(t *testing.T) {
	// Completion only needs a selection, not a prepared transmission.
	c := newTestController(t, nil)
	mustSelect(t, c, "Green", "12")

	done, err := c.Complete()
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if done.Message != "Green 12 sent" {
		t.Errorf("Message = %q", done.Message)
	}
}

func TestController_Complete_NothingSelected(t *testing.T) {
	c := newTestController(t, nil)

	if _, err := c.Complete(); err != ErrNothingToComplete {
		t.Errorf("Complete() error = %v, want %v", err, ErrNothingToComplete)
	}
}

func TestController_HistoryNewestFirstCapped(t *testing.T) {
	c := newTestController(t, nil)

	for n := 1; n <= MaxHistory+1; n++ {
		mustSelect(t, c, "Red", fmt.Sprintf("%d", n))
		if _, err := c.Complete(); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
	}

	st := c.Status()
	if len(st.History) != MaxHistory {
		t.Fatalf("len(History) = %d, want %d", len(st.History), MaxHistory)
	}
	if st.History[0] != "Red 6 sent" {
		t.Errorf("History[0] = %q, want newest first", st.History[0])
	}
	if st.History[MaxHistory-1] != "Red 2 sent" {
		t.Errorf("History[%d] = %q, oldest entry should have dropped off", MaxHistory-1, st.History[MaxHistory-1])
	}
}

func TestController_JournalReceivesTransmission(t *testing.T) {
	journal := &fakeJournal{}
	c := newTestController(t, journal)

	mustSelect(t, c, "Blue", "42")
	if _, err := c.Complete(); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if journal.count() != 1 {
		t.Fatalf("journal received %d records, want 1", journal.count())
	}
	tx := journal.records[0]
	if tx.Color != "Blue" || tx.Number != "42" {
		t.Errorf("recorded %s %s, want Blue 42", tx.Color, tx.Number)
	}
	if tx.Pattern != "-... ....- ..---" {
		t.Errorf("Pattern = %q", tx.Pattern)
	}
	if tx.Profile != "standard" {
		t.Errorf("Profile = %q, want standard", tx.Profile)
	}
	if tx.TotalDuration <= 0 {
		t.Errorf("TotalDuration = %v", tx.TotalDuration)
	}
	if tx.SentAt.IsZero() {
		t.Error("SentAt should be set")
	}
}

func TestController_JournalFailureKeepsMemoryHistory(t *testing.T) {
	journal := &fakeJournal{err: errors.New("disk full")}
	c := newTestController(t, journal)

	mustSelect(t, c, "Red", "5")
	_, err := c.Complete()
	if err == nil {
		t.Fatal("Complete() should surface the journal error")
	}
	if !errors.Is(err, journal.err) {
		t.Errorf("error = %v, want wrapped %v", err, journal.err)
	}

	st := c.Status()
	if len(st.History) != 1 || st.History[0] != "Red 5 sent" {
		t.Errorf("History = %v, want the in-memory entry kept", st.History)
	}
	if st.Color != "" || st.Number != "" {
		t.Errorf("selection should clear despite journal failure: %+v", st)
	}
}

func TestController_StatusReadyToSend(t *testing.T) {
	c := newTestController(t, nil)

	if c.Status().ReadyToSend {
		t.Error("empty session should not be ready")
	}
	if _, err := c.SetColor("Red"); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if c.Status().ReadyToSend {
		t.Error("color-only session should not be ready")
	}
	if _, err := c.SetNumber("9"); err != nil {
		t.Fatalf("SetNumber() error = %v", err)
	}
	if !c.Status().ReadyToSend {
		t.Error("full selection should be ready")
	}
}

func TestController_Retime(t *testing.T) {
	journal := &fakeJournal{}
	c := newTestController(t, journal)

	training := morse.TimingTable{
		Dot:                300 * time.Millisecond,
		Dash:               900 * time.Millisecond,
		SymbolGap:          300 * time.Millisecond,
		LetterGap:          900 * time.Millisecond,
		ConfirmationFlash:  1500 * time.Millisecond,
		EndTransmissionGap: 2100 * time.Millisecond,
	}
	if err := c.Retime(training, "training"); err != nil {
		t.Fatalf("Retime() error = %v", err)
	}

	mustSelect(t, c, "Red", "5")
	prep, err := c.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if prep.Steps[0].Duration != 300*time.Millisecond {
		t.Errorf("first dot = %v, want retimed 300ms", prep.Steps[0].Duration)
	}
	if _, err := c.Complete(); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got := journal.records[0].Profile; got != "training" {
		t.Errorf("journaled profile = %q, want %q", got, "training")
	}
}

func TestController_Retime_WhileTransmitting(t *testing.T) {
	c := newTestController(t, nil)
	mustSelect(t, c, "Blue", "7")
	if _, err := c.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	err := c.Retime(morse.StandardTiming(), "standard")
	if !errors.Is(err, ErrTransmissionInProgress) {
		t.Errorf("Retime() error = %v, want ErrTransmissionInProgress", err)
	}
}

func TestController_Retime_InvalidTiming(t *testing.T) {
	c := newTestController(t, nil)

	if err := c.Retime(morse.TimingTable{}, "broken"); err == nil {
		t.Error("Retime() with zero table should fail")
	}
}

func TestController_ConcurrentAccess(t *testing.T) {
	c := newTestController(t, &fakeJournal{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, _ = c.SetColor("Red")
				_, _ = c.SetNumber("5")
				if _, err := c.Prepare(); err == nil {
					_, _ = c.Complete()
				}
				_ = c.Status()
				c.Clear()
			}
		}()
	}
	wg.Wait()
}

func mustSelect(t *testing.T, c *Controller, color, number string) {
	t.Helper()
	if _, err := c.SetColor(color); err != nil {
		t.Fatalf("SetColor(%q) error = %v", color, err)
	}
	if _, err := c.SetNumber(number); err != nil {
		t.Fatalf("SetNumber(%q) error = %v", number, err)
	}
}
