// internal/session/session.go
// Package session implements the operator selection state machine: pick a
// color, pick a number, prepare a transmission, complete it into history.
// Message strings are displayed verbatim on the operator panel.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

// MaxHistory is how many completed transmissions the in-memory history keeps.
const MaxHistory = 5

// Operator-facing failures. The wording is what the panel displays.
var (
	// ErrNoColorSelected indicates Prepare was called before SetColor
	ErrNoColorSelected = errors.New("No color selected")
	// ErrNoNumberEntered indicates Prepare was called before SetNumber
	ErrNoNumberEntered = errors.New("No number entered")
	// ErrTransmissionInProgress indicates a prepared transmission was not completed
	ErrTransmissionInProgress = errors.New("Transmission already in progress")
	// ErrNothingToComplete indicates Complete was called with no selection
	ErrNothingToComplete = errors.New("No transmission to complete")
)

// Transmission describes one completed send handed to the journal.
type Transmission struct {
	Color         string
	Number        string
	Pattern       string
	Profile       string
	TotalDuration time.Duration
	SentAt        time.Time
}

// Journal persists completed transmissions beyond process memory.
// The in-memory five-entry history works without one.
type Journal interface {
	Record(tx Transmission) error
}

// Result is the outcome of a selection operation.
type Result struct {
	// Message is the panel display line
	Message string
	// Status is the machine-readable state name
	Status string
	// Color and Number echo the accepted value, when one was accepted
	Color  string
	Number string
}

// Prepared is the outcome of Prepare: everything a player needs.
type Prepared struct {
	Message       string
	Color         string
	Number        string
	Steps         []morse.TransmissionStep
	TotalDuration time.Duration
}

// Completed is the outcome of Complete.
type Completed struct {
	Message string
	History []string
}

// Status is a point-in-time snapshot of the session.
type Status struct {
	Color        string
	Number       string
	Transmitting bool
	ReadyToSend  bool
	History      []string
}

// Config configures a session controller.
type Config struct {
	// Timing is the table transmissions are encoded with
	Timing morse.TimingTable
	// Profile names the active timing profile for journal records
	Profile string
	// Journal, when non-nil, receives every completed transmission
	Journal Journal
}

// Controller is the explicit, per-session state machine. Safe for
// concurrent use; the HTTP server and the terminal panel share one.
type Controller struct {
	encoder *morse.Encoder
	profile string
	journal Journal

	mu           sync.Mutex
	color        string
	number       string
	transmitting bool
	history      []string
}

// NewController creates a controller encoding with the given timing table.
func NewController(cfg Config) (*Controller, error) {
	enc, err := morse.NewEncoder(cfg.Timing)
	if err != nil {
		return nil, err
	}
	return &Controller{
		encoder: enc,
		profile: cfg.Profile,
		journal: cfg.Journal,
	}, nil
}

// SetColor stores the selected color.
func (c *Controller) SetColor(color string) (Result, error) {
	if !morse.ValidColor(color) {
		return Result{}, fmt.Errorf("Invalid color: %s. Must be Red, Green, or Blue.", color)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = color

	return Result{
		Message: fmt.Sprintf("%s selected - Enter number", color),
		Status:  "color_selected",
		Color:   color,
	}, nil
}

// SetNumber stores the selected number. Selecting the number before the
// color is allowed; the message prompts for whichever half is missing.
func (c *Controller) SetNumber(number string) (Result, error) {
	if !morse.ValidNumber(number) {
		return Result{}, fmt.Errorf("Invalid number: %s. Must be 0-100.", number)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.number = number

	message := fmt.Sprintf("Number %s set - Select color", number)
	if c.color != "" {
		message = fmt.Sprintf("%s %s ready", c.color, number)
	}
	return Result{
		Message: message,
		Status:  "number_set",
		Number:  number,
	}, nil
}

// Clear drops the selection and any in-flight transmission marker.
func (c *Controller) Clear() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = ""
	c.number = ""
	c.transmitting = false

	return Result{
		Message: "Select color and number",
		Status:  "cleared",
	}
}

// Prepare encodes the current selection and marks the session as
// transmitting. Fails when either half of the selection is missing or a
// prepared transmission was never completed.
func (c *Controller) Prepare() (Prepared, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.color == "" {
		return Prepared{}, ErrNoColorSelected
	}
	if c.number == "" {
		return Prepared{}, ErrNoNumberEntered
	}
	if c.transmitting {
		return Prepared{}, ErrTransmissionInProgress
	}

	steps, err := c.encoder.Encode(c.color, c.number)
	if err != nil {
		return Prepared{}, err
	}
	c.transmitting = true

	return Prepared{
		Message:       fmt.Sprintf("Transmitting %s %s...", c.color, c.number),
		Color:         c.color,
		Number:        c.number,
		Steps:         steps,
		TotalDuration: morse.TotalDuration(steps),
	}, nil
}

// Complete records the transmission into history, clears the selection,
// and unmarks transmitting. The in-memory history keeps its entry even
// when the journal write fails; only the journal error is reported.
func (c *Controller) Complete() (Completed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.color == "" || c.number == "" {
		return Completed{}, ErrNothingToComplete
	}

	color, number := c.color, c.number
	message := fmt.Sprintf("%s %s sent", color, number)

	c.history = append([]string{message}, c.history...)
	if len(c.history) > MaxHistory {
		c.history = c.history[:MaxHistory]
	}

	c.color = ""
	c.number = ""
	c.transmitting = false

	if c.journal != nil {
		tx, err := c.transmission(color, number)
		if err == nil {
			err = c.journal.Record(tx)
		}
		if err != nil {
			return Completed{}, fmt.Errorf("record transmission: %w", err)
		}
	}

	return Completed{
		Message: message,
		History: c.historySnapshot(),
	}, nil
}

// Retime swaps the encoding timing table and profile name. Rejected
// while a transmission is in progress so a prepared sequence is never
// journaled under a profile it was not encoded with.
func (c *Controller) Retime(timing morse.TimingTable, profile string) error {
	enc, err := morse.NewEncoder(timing)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transmitting {
		return ErrTransmissionInProgress
	}
	c.encoder = enc
	c.profile = profile
	return nil
}

// Status returns a snapshot of the session.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Color:        c.color,
		Number:       c.number,
		Transmitting: c.transmitting,
		ReadyToSend:  c.color != "" && c.number != "" && !c.transmitting,
		History:      c.historySnapshot(),
	}
}

// transmission builds the journal record for a completed send.
func (c *Controller) transmission(color, number string) (Transmission, error) {
	pattern, err := morse.PatternFor(color, number)
	if err != nil {
		return Transmission{}, err
	}
	steps, err := c.encoder.Encode(color, number)
	if err != nil {
		return Transmission{}, err
	}
	return Transmission{
		Color:         color,
		Number:        number,
		Pattern:       pattern,
		Profile:       c.profile,
		TotalDuration: morse.TotalDuration(steps),
		SentAt:        time.Now(),
	}, nil
}

// historySnapshot copies the history, newest first. Caller holds c.mu.
func (c *Controller) historySnapshot() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}
