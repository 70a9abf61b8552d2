// internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// maxTraceLines caps the decoder trace shown in the readout panel.
const maxTraceLines = 6

// Theme defines the visual styling for the transmit panel.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Red     lipgloss.Color
	Green   lipgloss.Color
	Blue    lipgloss.Color
}

// DefaultTheme returns the default panel theme.
func DefaultTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("12"),  // Blue
		Success: lipgloss.Color("10"),  // Green
		Warning: lipgloss.Color("11"),  // Yellow
		Error:   lipgloss.Color("9"),   // Red
		Muted:   lipgloss.Color("240"), // Gray
		Red:     lipgloss.Color("9"),
		Green:   lipgloss.Color("10"),
		Blue:    lipgloss.Color("12"),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	theme := DefaultTheme()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitle(theme),
		m.renderSelector(theme),
		m.numberInput.View(),
		m.renderLamp(theme),
		m.renderMessage(theme),
		m.renderDecoded(theme),
		m.renderHistory(theme),
		m.renderHelp(theme),
	)
}

// renderTitle renders the panel header with the active profile.
func (m Model) renderTitle(theme Theme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("Fiber Optic Tester")
	profile := lipgloss.NewStyle().Foreground(theme.Muted).Render(fmt.Sprintf("  profile: %s", m.profile))
	return title + profile
}

// renderSelector renders the three color choices, highlighting the
// selected one.
func (m Model) renderSelector(theme Theme) string {
	choice := func(name string, color lipgloss.Color) string {
		style := lipgloss.NewStyle().Foreground(color)
		if m.status.Color == name {
			style = style.Bold(true).Underline(true)
		}
		return style.Render(name)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		lipgloss.NewStyle().Render("Color:  "),
		choice("Red", theme.Red),
		lipgloss.NewStyle().Render("  "),
		choice("Green", theme.Green),
		lipgloss.NewStyle().Render("  "),
		choice("Blue", theme.Blue),
	)
}

// renderLamp renders the live indicator mirror and step progress.
func (m Model) renderLamp(theme Theme) string {
	lamp := lipgloss.NewStyle().Foreground(theme.Muted).Render("○ dark")
	if m.lampOn {
		lamp = lipgloss.NewStyle().Bold(true).Foreground(theme.Warning).Render("● LIT")
	}

	progress := ""
	if m.transmitting && m.stepTotal > 0 {
		progress = lipgloss.NewStyle().Foreground(theme.Muted).
			Render(fmt.Sprintf("  step %d/%d", m.stepIndex+1, m.stepTotal))
	}

	return "\nLamp:   " + lamp + progress
}

// renderMessage renders the session's status line verbatim.
func (m Model) renderMessage(theme Theme) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary)
	if m.messageIsErr {
		style = lipgloss.NewStyle().Foreground(theme.Error)
	}
	return "\n" + style.Render(m.message)
}

// renderDecoded renders the loopback decoder readout with its trace.
func (m Model) renderDecoded(theme Theme) string {
	header := lipgloss.NewStyle().Bold(true).Render("Decoder")
	if m.decoded == nil {
		empty := lipgloss.NewStyle().Foreground(theme.Muted).Render("no decoded transmission yet")
		return "\n" + header + "\n" + empty
	}

	result := lipgloss.NewStyle().Bold(true).Foreground(theme.Success).
		Render(fmt.Sprintf("%s %s", m.decoded.Color, m.decoded.Number))
	pattern := lipgloss.NewStyle().Foreground(theme.Muted).Render(m.decoded.RawPattern)

	var trace strings.Builder
	lines := m.decoded.DecodingSteps
	shown := lines
	if len(shown) > maxTraceLines {
		shown = shown[:maxTraceLines]
	}
	traceStyle := lipgloss.NewStyle().Foreground(theme.Muted)
	for _, line := range shown {
		trace.WriteString("\n  " + traceStyle.Render(line))
	}
	if len(lines) > maxTraceLines {
		trace.WriteString("\n  " + traceStyle.Render(fmt.Sprintf("... and %d more", len(lines)-maxTraceLines)))
	}

	return "\n" + header + "\n" + result + "  " + pattern + trace.String()
}

// renderHistory renders the recent transmissions, newest first.
func (m Model) renderHistory(theme Theme) string {
	header := lipgloss.NewStyle().Bold(true).Render("History")
	if len(m.status.History) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.Muted).Render("none yet")
		return "\n" + header + "\n" + empty
	}

	var b strings.Builder
	b.WriteString("\n" + header)
	for _, entry := range m.status.History {
		b.WriteString("\n  " + entry)
	}
	return b.String()
}

// renderHelp renders the key legend.
func (m Model) renderHelp(theme Theme) string {
	help := lipgloss.NewStyle().Foreground(theme.Muted).
		Render("r/g/b select color, type number, enter send, c clear, q quit")
	return "\n" + help
}
