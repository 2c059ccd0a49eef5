package shell

import "strings"

// errorFilterSubstrings is the case-insensitive substring set for service
// log error-only filtering. Matches the reference implementation's set
// exactly (§9).
var errorFilterSubstrings = []string{"error", "panic", "fatal", "exception", "fail"}

func matchesErrorFilter(line string) bool {
	lower := strings.ToLower(line)
	for _, sub := range errorFilterSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func (a *App) renderSwarmLogsView(w, h int) (string, []RowHandle) {
	buf := a.swarm.ActiveLogBuffer()
	if buf == nil {
		return centerText("log view not active", w), nil
	}
	t := a.theme
	a.swarmLogVP.Width = w
	a.swarmLogVP.Height = h - 2

	header := accentStyle(t).Bold(true).Render(a.view.ServiceName + " logs")
	filterLabel := "off"
	if a.swarmLogFilterErrors {
		filterLabel = "on"
	}
	bindings := []helpBinding{{"e", "filter errors (" + filterLabel + ")"}, {"↑/↓/PgUp/PgDn", "scroll"}, {"End", "bottom"}, {"Esc", "back"}}
	content := header + "\n" + a.swarmLogVP.View() + "\n" + renderHelpBar(bindings, w, t)
	return content, nil
}
