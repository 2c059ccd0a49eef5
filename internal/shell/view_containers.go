package shell

import (
	"fmt"
	"strings"
)

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *App) renderContainersView(w, h int) (string, []RowHandle) {
	containers := a.docker.Snapshot()
	if containers == nil {
		return centerText("waiting for docker...", w), nil
	}
	ui := a.docker.UIState()
	t := a.theme

	var b strings.Builder
	var rows []RowHandle
	line := 0
	writeLine := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
		line++
	}

	if msg := a.docker.StatusMessage(); msg != "" {
		writeLine(accentStyle(t).Render(msg))
	}

	for i, c := range containers {
		prefix := "  "
		if i == ui.SelectedIndex {
			prefix = "> "
		}
		row := fmt.Sprintf("%s%-12s %-20s %-10s cpu=%5.1f%% %-24s %-15s %-22s %s",
			prefix, c.ID, truncate(c.Name, 20), c.State, c.CPUPercent, truncate(c.Image, 24),
			valueOrDash(c.IPAddress), truncate(valueOrDash(c.Ports), 22), c.Status)
		if i == ui.SelectedIndex {
			row = cursorRow(row, w)
		}
		writeLine(row)
		rows = append(rows, RowHandle{Row: line - 1, Kind: HandleContainerID, ID: c.ID})
	}

	if a.docker.ActionInProgress() {
		writeLine(mutedStyle(t).Render("action in progress..."))
	}

	bindings := []helpBinding{
		{"→/Enter", "logs"}, {"S", "start"}, {"s", "stop"}, {"t", "restart"}, {"Tab", "switch view"}, {"q", "quit"},
	}
	content := pageFrame(b.String(), w, h-1) + "\n" + renderHelpBar(bindings, w, t)
	return content, rows
}
