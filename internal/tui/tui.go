// internal/tui/tui.go

// Package tui implements the interactive transmit panel. A single
// Bubble Tea model drives color selection, number entry, a live lamp
// mirroring the player's indicator, a loopback decoder readout, and the
// recent-transmission history.
package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ColonelBlimp/fibertester/internal/morse"
	"github.com/ColonelBlimp/fibertester/internal/player"
	"github.com/ColonelBlimp/fibertester/internal/session"
)

// ErrNoSession is returned when Run is started without a controller.
var ErrNoSession = errors.New("tui: session controller is required")

// ReloadFunc re-reads configuration and returns the timing table and
// profile name the panel should switch to.
type ReloadFunc func() (morse.TimingTable, string, error)

// Options wires the panel to the rest of the tester.
type Options struct {
	// Session is the shared operator state machine
	Session *session.Controller
	// Timing is the table transmissions start out encoded with
	Timing morse.TimingTable
	// Profile names the active timing profile
	Profile string
	// ConfigPath, when set, is watched for changes that trigger Reload
	ConfigPath string
	// Reload, when set, supplies fresh timing after a config change
	Reload ReloadFunc
	// Sinks are extra indicators driven alongside the on-screen lamp
	Sinks []player.Indicator
}

// Run starts the panel and blocks until the operator quits.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run panel: %w", err)
	}
	return nil
}
