// internal/tui/model.go
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ColonelBlimp/fibertester/internal/morse"
	"github.com/ColonelBlimp/fibertester/internal/player"
	"github.com/ColonelBlimp/fibertester/internal/session"
)

// pollInterval is how often the decoder's silence trigger runs.
const pollInterval = 250 * time.Millisecond

// tickMsg is sent by Bubble Tea on every poll interval. It drives
// CheckForTransmissionEnd and the status refresh.
type tickMsg time.Time

// lampMsg carries an indicator transition from the player goroutine.
type lampMsg bool

// progressMsg carries the player's step progress.
type progressMsg struct {
	index int
	total int
}

// playDoneMsg is sent when the player goroutine finishes a sequence.
type playDoneMsg struct {
	err error
}

// tickCmd returns a command that sends a tickMsg after the poll interval.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent returns a command that relays one player event into the
// update loop. It is re-issued after every delivery.
func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// playCmd runs a full transmission on the player goroutine.
func playCmd(p *player.Player, steps []morse.TransmissionStep) tea.Cmd {
	return func() tea.Msg {
		return playDoneMsg{err: p.Play(context.Background(), steps)}
	}
}

// eventIndicator forwards indicator transitions into the event channel so
// the on-screen lamp mirrors the physical one.
type eventIndicator struct {
	events chan<- tea.Msg
}

func (e *eventIndicator) Set(on bool) error {
	e.events <- lampMsg(on)
	return nil
}

// Model is the Bubble Tea model for the transmit panel.
type Model struct {
	session    *session.Controller
	decoder    *morse.Decoder
	timing     morse.TimingTable
	profile    string
	reload     ReloadFunc
	configPath string
	sinks      []player.Indicator

	// events carries lamp and progress messages out of the player
	// goroutine; waitForEvent drains it one message at a time.
	events chan tea.Msg

	numberInput textinput.Model

	lampOn       bool
	transmitting bool
	stepIndex    int
	stepTotal    int
	message      string
	messageIsErr bool
	status       session.Status
	decoded      *morse.DecodedSignal

	width  int
	height int
}

// newModel creates the panel model. The decoder shares the encoder's
// timing table so the loopback readout can succeed.
func newModel(opts Options) (Model, error) {
	if opts.Session == nil {
		return Model{}, ErrNoSession
	}
	dec, err := morse.NewDecoder(opts.Timing)
	if err != nil {
		return Model{}, err
	}

	input := textinput.New()
	input.Prompt = "Number: "
	input.Placeholder = "0-100"
	input.CharLimit = 3
	input.Width = 7
	input.Focus()

	return Model{
		session:     opts.Session,
		decoder:     dec,
		timing:      opts.Timing,
		profile:     opts.Profile,
		reload:      opts.Reload,
		configPath:  opts.ConfigPath,
		sinks:       opts.Sinks,
		events:      make(chan tea.Msg, 64),
		numberInput: input,
		message:     "Select color and number",
		status:      opts.Session.Status(),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd(), waitForEvent(m.events)}
	if m.configPath != "" {
		if watch := watchConfigFile(m.configPath); watch != nil {
			cmds = append(cmds, watch)
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case lampMsg:
		m.lampOn = bool(msg)
		return m, waitForEvent(m.events)

	case progressMsg:
		m.stepIndex = msg.index
		m.stepTotal = msg.total
		return m, waitForEvent(m.events)

	case playDoneMsg:
		return m.finishTransmission(msg.err)

	case tickMsg:
		m.decoder.CheckForTransmissionEnd()
		// LatestDecoded clears its slot; keep showing the last readout.
		if sig := m.decoder.LatestDecoded(); sig != nil {
			m.decoded = sig
		}
		m.status = m.session.Status()
		return m, tickCmd()

	case configChangedMsg:
		m = m.reloadProfile()
		if m.configPath != "" {
			if watch := watchConfigFile(m.configPath); watch != nil {
				return m, watch
			}
		}
	}

	return m, nil
}

// handleKeyPress processes keyboard input. While a transmission is
// playing every key except quit is swallowed.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}
	if m.transmitting {
		return m, nil
	}

	switch key {
	case "r", "R":
		return m.selectColor("Red"), nil
	case "g", "G":
		return m.selectColor("Green"), nil
	case "b", "B":
		return m.selectColor("Blue"), nil
	case "c", "C":
		return m.clearSelection(), nil
	case "enter":
		return m.startTransmission()
	default:
		var cmd tea.Cmd
		m.numberInput, cmd = m.numberInput.Update(msg)
		return m, cmd
	}
}

// selectColor stores the chosen color in the session.
func (m Model) selectColor(color string) Model {
	res, err := m.session.SetColor(color)
	if err != nil {
		return m.setError(err)
	}
	m.message = res.Message
	m.messageIsErr = false
	m.status = m.session.Status()
	return m
}

// clearSelection resets the session, the number field, and the decoder.
func (m Model) clearSelection() Model {
	res := m.session.Clear()
	m.numberInput.SetValue("")
	m.decoder.Reset()
	m.decoded = nil
	m.message = res.Message
	m.messageIsErr = false
	m.status = m.session.Status()
	return m
}

// startTransmission commits the number field, prepares the sequence, and
// launches the player goroutine.
func (m Model) startTransmission() (tea.Model, tea.Cmd) {
	if value := strings.TrimSpace(m.numberInput.Value()); value != "" {
		if _, err := m.session.SetNumber(value); err != nil {
			return m.setError(err), nil
		}
	}

	prep, err := m.session.Prepare()
	if err != nil {
		m = m.setError(err)
		return m, nil
	}

	p, err := m.newPlayer()
	if err != nil {
		m.session.Clear()
		return m.setError(err), nil
	}

	m.transmitting = true
	m.stepIndex = 0
	m.stepTotal = len(prep.Steps)
	m.decoder.Reset()
	m.decoded = nil
	m.message = prep.Message
	m.messageIsErr = false
	m.status = m.session.Status()
	return m, playCmd(p, prep.Steps)
}

// newPlayer builds a player wired to the lamp, the loopback decoder, and
// any hardware sinks. Built fresh per transmission so a reloaded profile
// never leaves a stale decoder observer behind.
func (m Model) newPlayer() (*player.Player, error) {
	lamp := &eventIndicator{events: m.events}
	indicator := player.Indicator(lamp)
	if len(m.sinks) > 0 {
		all := append([]player.Indicator{lamp}, m.sinks...)
		indicator = player.NewMultiIndicator(all...)
	}

	p, err := player.NewPlayer(indicator)
	if err != nil {
		return nil, err
	}
	p.AddObserver(player.NewLoopback(m.decoder))
	events := m.events
	p.SetProgress(func(index, total int) {
		events <- progressMsg{index: index, total: total}
	})
	return p, nil
}

// finishTransmission completes the session after the player returns.
func (m Model) finishTransmission(playErr error) (tea.Model, tea.Cmd) {
	m.transmitting = false
	m.lampOn = false

	if playErr != nil {
		m.session.Clear()
		m.message = fmt.Sprintf("Transmission failed: %v", playErr)
		m.messageIsErr = true
		m.status = m.session.Status()
		return m, nil
	}

	done, err := m.session.Complete()
	if err != nil {
		m = m.setError(err)
	} else {
		m.message = done.Message
		m.messageIsErr = false
	}
	m.numberInput.SetValue("")
	if sig := m.decoder.LatestDecoded(); sig != nil {
		m.decoded = sig
	}
	m.status = m.session.Status()
	return m, nil
}

// reloadProfile swaps in freshly loaded timing. Skipped while a
// transmission is playing; the next config change tries again.
func (m Model) reloadProfile() Model {
	if m.reload == nil || m.transmitting {
		return m
	}

	timing, profile, err := m.reload()
	if err != nil {
		m.message = fmt.Sprintf("Config reload failed: %v", err)
		m.messageIsErr = true
		return m
	}
	if timing == m.timing && profile == m.profile {
		return m
	}

	if err := m.session.Retime(timing, profile); err != nil {
		m.message = fmt.Sprintf("Config reload failed: %v", err)
		m.messageIsErr = true
		return m
	}
	dec, err := morse.NewDecoder(timing)
	if err != nil {
		m.message = fmt.Sprintf("Config reload failed: %v", err)
		m.messageIsErr = true
		return m
	}

	m.timing = timing
	m.profile = profile
	m.decoder = dec
	m.decoded = nil
	m.message = fmt.Sprintf("Profile %q loaded", profile)
	m.messageIsErr = false
	return m
}

// setError displays an operator-facing failure on the message line.
func (m Model) setError(err error) Model {
	m.message = err.Error()
	m.messageIsErr = true
	m.status = m.session.Status()
	return m
}
