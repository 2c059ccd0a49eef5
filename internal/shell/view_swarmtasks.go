package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderSwarmTasksView(w, h int) (string, []RowHandle) {
	data := a.swarm.Snapshot()
	if data == nil {
		return centerText("waiting for tasks...", w), nil
	}
	ui := a.swarm.UIState()
	t := a.theme

	var b strings.Builder
	var rows []RowHandle
	b.WriteString(accentStyle(t).Bold(true).Render("Tasks: " + a.view.ServiceName))
	b.WriteByte('\n')

	for i, task := range data.SelectedServiceTasks {
		line := fmt.Sprintf("  %-25s node=%-12s slot=%-4s %-10s %-10s age=%-8s %s",
			truncate(task.ID, 25), truncate(task.NodeID, 12), task.Slot, task.DesiredState, task.CurrentState, task.Age, task.Error)
		line = lipgloss.NewStyle().Foreground(t.StateColor(task.CurrentState)).Render(line)
		if i == ui.SelectedRowIndex {
			line = cursorRow(line, w)
		}
		b.WriteString(line)
		b.WriteByte('\n')
		rows = append(rows, RowHandle{Row: i + 1, Kind: HandleSwarmOverviewItem, ID: task.ID})
	}

	bindings := []helpBinding{{"→/Enter/l", "tail logs"}, {"Esc", "back"}}
	content := pageFrame(b.String(), w, h-1) + "\n" + renderHelpBar(bindings, w, t)
	return content, rows
}
