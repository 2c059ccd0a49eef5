// Package shell implements the application shell: the bubbletea event
// loop, view switching, input dispatch, the pending-action confirmation
// state machine, and the lipgloss-based presenters for the System,
// Docker, and Swarm monitors. Grounded on the teacher's internal/tui
// package (app.go's tea.Model shape, theme.go's color scheme, style.go's
// render helpers), generalized from a multi-server metrics dashboard to
// sitrep's three-monitor triage layout.
package shell

import "github.com/charmbracelet/lipgloss"

// Theme holds every color the presenters reference. Views never embed a
// raw lipgloss.Color literal; they go through Theme fields so the palette
// stays in one place.
type Theme struct {
	Critical lipgloss.Color
	Warning  lipgloss.Color
	Healthy  lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
	Fg       lipgloss.Color
	FgDim    lipgloss.Color
}

// DefaultTheme returns sitrep's color scheme using standard terminal
// color codes, matching the teacher's DefaultTheme.
func DefaultTheme() *Theme {
	return &Theme{
		Critical: lipgloss.Color("9"),
		Warning:  lipgloss.Color("11"),
		Healthy:  lipgloss.Color("10"),
		Accent:   lipgloss.Color("14"),
		Muted:    lipgloss.Color("8"),
		Border:   lipgloss.Color("240"),
		Fg:       lipgloss.Color("15"),
		FgDim:    lipgloss.Color("245"),
	}
}

// UsageColor returns green/yellow/red based on a usage percentage,
// matching the teacher's threshold convention (>=80 critical, >=60
// warning).
func (t *Theme) UsageColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 80:
		return t.Critical
	case percent >= 60:
		return t.Warning
	default:
		return t.Healthy
	}
}

// StateColor returns a color for a container/service lifecycle state
// string.
func (t *Theme) StateColor(state string) lipgloss.Color {
	switch state {
	case "running", "Ready", "Active":
		return t.Healthy
	case "restarting", "unhealthy", "Pause":
		return t.Warning
	case "exited", "dead", "Down", "Drain":
		return t.Critical
	default:
		return t.Muted
	}
}
