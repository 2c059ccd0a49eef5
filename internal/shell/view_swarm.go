package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshzrh/sitrep/internal/swarmmon"
)

// renderSwarmOverviewView draws the cluster nodes list, the stack/service
// tree, and the warnings panel. Row indices follow
// resolveSwarmOverviewItem's flattened layout exactly, so the cursor and
// the presenter never disagree about what row N means.
func (a *App) renderSwarmOverviewView(w, h int) (string, []RowHandle) {
	data := a.swarm.Snapshot()
	if data == nil || !data.Available {
		return centerText("waiting for swarm detection...", w), nil
	}
	ui := a.swarm.UIState()
	t := a.theme

	var b strings.Builder
	var rows []RowHandle
	row := 0
	writeLine := func(s string, selected bool) {
		if selected {
			s = cursorRow(s, w)
		}
		b.WriteString(s)
		b.WriteByte('\n')
		rows = append(rows, RowHandle{Row: row, Kind: HandleSwarmOverviewItem})
		row++
	}

	if msg := a.swarm.StatusMessage(); msg != "" {
		b.WriteString(accentStyle(t).Render(msg))
		b.WriteByte('\n')
	}

	writeLine(accentStyle(t).Bold(true).Render(fmt.Sprintf("Nodes (%d, %d managers)", len(data.Nodes), data.Cluster.Managers)), ui.SelectedRowIndex == 0)
	for _, n := range data.Nodes {
		leader := ""
		if n.Leader {
			leader = " *leader*"
		}
		line := fmt.Sprintf("  %-15s %-8s %-10s %-8s %s%s", n.Hostname, n.Status, n.Availability, n.Role, n.EngineVersion, leader)
		line = lipgloss.NewStyle().Foreground(t.StateColor(n.Status)).Render(line)
		writeLine(line, ui.SelectedRowIndex == row)
	}

	for _, st := range data.Stacks {
		_, expanded := a.expandedStacks[st.Name]
		marker := "▸"
		if expanded {
			marker = "▾"
		}
		writeLine(accentStyle(t).Render(fmt.Sprintf("%s %s (%d services)", marker, st.Name, len(st.ServiceIndices))), ui.SelectedRowIndex == row)
		if !expanded {
			continue
		}
		for _, svcIdx := range st.ServiceIndices {
			svc := data.Services[svcIdx]
			line := fmt.Sprintf("    %-24s %-12s %-10s %-24s %s", svc.Name, svc.Mode, svc.Replicas, svc.Image, svc.Ports)
			writeLine(line, ui.SelectedRowIndex == row)
		}
	}

	if len(data.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Bold(true).Render("Warnings"))
		b.WriteByte('\n')
		for _, wn := range data.Warnings {
			color := t.Warning
			if wn.Severity == swarmmon.WarnCritical {
				color = t.Critical
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render("  ! " + wn.Message))
			b.WriteByte('\n')
		}
	}

	bindings := []helpBinding{{"→/Enter", "expand/drill"}, {"R", "rolling restart"}, {"Tab", "switch view"}, {"q", "quit"}}
	content := pageFrame(b.String(), w, h-1) + "\n" + renderHelpBar(bindings, w, t)
	return content, rows
}
