package shell

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const tabBarHeight = 1

// renderTabsAndView draws the tab bar plus whichever view is active,
// per §4.5 step 7.
func (a *App) renderTabsAndView() string {
	tabs := a.renderTabBar()
	body := a.renderActiveView(a.width, a.height-tabBarHeight)
	return tabs + "\n" + body
}

func (a *App) renderTabBar() string {
	tabs := a.visibleTabs()
	cur := topLevelKindOf(a.view.Kind)
	var parts []string
	for _, t := range tabs {
		label := tabLabel(t)
		if t == cur {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent).Render("["+label+"]"))
		} else {
			parts = append(parts, mutedStyle(a.theme).Render(" "+label+" "))
		}
	}
	return lipgloss.NewStyle().Width(a.width).Render(strings.Join(parts, " "))
}

func tabLabel(k ViewKind) string {
	switch k {
	case ViewContainers:
		return "Containers"
	case ViewSwarm:
		return "Swarm"
	default:
		return "System"
	}
}

func (a *App) renderActiveView(w, h int) string {
	var frame string
	var rows []RowHandle
	switch a.view.Kind {
	case ViewSystem:
		frame, rows = a.renderSystemView(w, h)
	case ViewContainers:
		frame, rows = a.renderContainersView(w, h)
	case ViewContainerLogs:
		frame, rows = a.renderContainerLogsView(w, h)
	case ViewSwarm:
		frame, rows = a.renderSwarmOverviewView(w, h)
	case ViewSwarmServiceTasks:
		frame, rows = a.renderSwarmTasksView(w, h)
	case ViewSwarmServiceLogs:
		frame, rows = a.renderSwarmLogsView(w, h)
	}
	a.lastRows = rows
	return frame
}

// renderPendingPrompt draws the Y/N confirmation box for the pending
// action, overlaid on top of the current frame.
func (a *App) renderPendingPrompt() string {
	p := a.pending
	remaining := int(time.Until(p.ExpiresAt).Round(time.Second).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	msg := fmt.Sprintf("%s: %s\n\n[Y]es   [N]o   (expires in %ds)", p.Kind.label(), p.TargetName, remaining)
	return renderBox("Confirm", msg, 48, 6, a.theme)
}
