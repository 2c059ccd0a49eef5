package shell

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshzrh/sitrep/internal/swarmmon"
	"github.com/rshzrh/sitrep/internal/sysmon"
)

// handleKey dispatches one key event. Global keys are handled first;
// anything left over is routed to the view-specific handler. Returns
// whether the key was consumed (and therefore needs a re-render).
func (a *App) handleKey(msg tea.KeyMsg) bool {
	if key.Matches(msg, globalKeys.Quit) {
		a.shouldQuit = true
		return true
	}

	if a.pending != nil {
		return a.handlePendingKey(msg)
	}

	switch {
	case msg.String() == "esc":
		if a.view.Kind == ViewSystem || a.view.Kind == ViewContainers || a.view.Kind == ViewSwarm {
			a.shouldQuit = true
			return true
		}
		return a.handleBack()
	case key.Matches(msg, globalKeys.NextTab):
		a.cycleTab(1)
		return true
	case key.Matches(msg, globalKeys.PrevTab):
		a.cycleTab(-1)
		return true
	}

	k := msg.String()
	switch a.view.Kind {
	case ViewSystem:
		return a.handleSystemKey(k)
	case ViewContainers:
		return a.handleContainersKey(k)
	case ViewContainerLogs:
		return a.handleContainerLogsKey(k)
	case ViewSwarm:
		return a.handleSwarmOverviewKey(k)
	case ViewSwarmServiceTasks:
		return a.handleSwarmTasksKey(k)
	case ViewSwarmServiceLogs:
		return a.handleSwarmLogsKey(k)
	}
	return false
}

func (a *App) handlePendingKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, globalKeys.ConfirmY):
		a.confirmPending()
		return true
	case key.Matches(msg, globalKeys.ConfirmN):
		a.rejectPending()
		return true
	}
	return true // swallow everything else while a prompt is open
}

// handleBack pops one level back toward the view's top-level screen
// (Esc from a drill-down view, per §4.5: "Esc only quits from the
// top-level views").
func (a *App) handleBack() bool {
	switch a.view.Kind {
	case ViewContainerLogs:
		a.docker.LeaveLogView()
		a.view = AppView{Kind: ViewContainers}
	case ViewSwarmServiceTasks, ViewSwarmServiceLogs:
		a.swarm.GoBack()
		if a.swarm.UIState().Level == swarmmon.ViewOverview {
			a.view = AppView{Kind: ViewSwarm}
		} else {
			a.view = AppView{Kind: ViewSwarmServiceTasks, ServiceID: a.view.ServiceID, ServiceName: a.view.ServiceName}
		}
	}
	return true
}

// visibleTabs returns the tab order currently shown, skipping any
// backend that isn't available, per §4.5's tab-visibility rule.
func (a *App) visibleTabs() []ViewKind {
	tabs := []ViewKind{ViewSystem}
	if a.docker != nil && a.dockerClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if a.docker.IsAvailable(ctx) {
			tabs = append(tabs, ViewContainers)
		}
	}
	if a.swarm.IsAvailable() {
		tabs = append(tabs, ViewSwarm)
	}
	return tabs
}

// topLevelKindOf maps any view (including drill-downs) to the tab it
// belongs to, so Tab/Shift-Tab cycling from a drill-down view still
// lands on the right neighbor.
func topLevelKindOf(k ViewKind) ViewKind {
	switch k {
	case ViewContainerLogs:
		return ViewContainers
	case ViewSwarmServiceTasks, ViewSwarmServiceLogs:
		return ViewSwarm
	default:
		return k
	}
}

// cycleTab moves to the next (dir=1) or previous (dir=-1) visible tab,
// wrapping System -> Containers -> Swarm -> System. Implements both
// directions per §10's supplemented symmetric tab cycling.
func (a *App) cycleTab(dir int) {
	if next, ok := nextVisibleTab(a.visibleTabs(), topLevelKindOf(a.view.Kind), dir); ok {
		a.view = AppView{Kind: next}
	}
}

// nextVisibleTab is cycleTab's pure selection logic, factored out so the
// symmetric forward/backward wraparound can be tested without a live
// Docker or Swarm backend. ok is false when tabs is empty.
func nextVisibleTab(tabs []ViewKind, cur ViewKind, dir int) (ViewKind, bool) {
	if len(tabs) == 0 {
		return 0, false
	}
	idx := 0
	for i, t := range tabs {
		if t == cur {
			idx = i
			break
		}
	}
	next := (idx + dir + len(tabs)) % len(tabs)
	return tabs[next], true
}

func (a *App) handleSystemKey(key string) bool {
	ui := a.sys.UIState()
	data := a.sys.Snapshot()
	switch key {
	case " ":
		ui.Paused = !ui.Paused
		return true
	case "up":
		if ui.SelectedRow > 0 {
			ui.SelectedRow--
		}
		return true
	case "down":
		if data != nil && ui.SelectedRow < len(data.TopProcesses)-1 {
			ui.SelectedRow++
		}
		return true
	case "c":
		ui.SortColumn = sysmon.SortCPU
		return true
	case "m":
		ui.SortColumn = sysmon.SortMemory
		return true
	case "r":
		ui.SortColumn = sysmon.SortRead
		return true
	case "w":
		ui.SortColumn = sysmon.SortWrite
		return true
	case "d":
		ui.SortColumn = sysmon.SortNetDown
		return true
	case "u":
		ui.SortColumn = sysmon.SortNetUp
		return true
	case "enter":
		a.toggleSelectedProcess()
		return true
	}
	return false
}

func (a *App) toggleSelectedProcess() {
	ui := a.sys.UIState()
	data := a.sys.Snapshot()
	if data == nil || ui.SelectedRow < 0 || ui.SelectedRow >= len(data.TopProcesses) {
		return
	}
	pid := data.TopProcesses[ui.SelectedRow].ParentPid
	if _, ok := ui.ExpandedPids[pid]; ok {
		delete(ui.ExpandedPids, pid)
	} else {
		ui.ExpandedPids[pid] = struct{}{}
	}
}

func (a *App) handleContainersKey(key string) bool {
	ui := a.docker.UIState()
	containers := a.docker.Snapshot()
	switch key {
	case "up":
		if ui.SelectedIndex > 0 {
			ui.SelectedIndex--
		}
		return true
	case "down":
		if ui.SelectedIndex < len(containers)-1 {
			ui.SelectedIndex++
		}
		return true
	case "right", "enter":
		if ui.SelectedIndex >= 0 && ui.SelectedIndex < len(containers) {
			c := containers[ui.SelectedIndex]
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := a.docker.EnterLogView(ctx, c.ID, c.Name); err == nil {
				a.view = AppView{Kind: ViewContainerLogs, ContainerID: c.ID}
				a.dockerLogVP = viewport.New(a.width, a.height-2)
				a.dockerLogVP.GotoBottom()
			}
		}
		return true
	case "S":
		if a.docker.ActionInProgress() {
			return true
		}
		if c, ok := a.selectedContainer(); ok {
			a.triggerPending(PendingContainerStart, c.ID, c.Name, time.Now())
		}
		return true
	case "s":
		if a.docker.ActionInProgress() {
			return true
		}
		if c, ok := a.selectedContainer(); ok {
			a.triggerPending(PendingContainerStop, c.ID, c.Name, time.Now())
		}
		return true
	case "t":
		if a.docker.ActionInProgress() {
			return true
		}
		if c, ok := a.selectedContainer(); ok {
			a.triggerPending(PendingContainerRestart, c.ID, c.Name, time.Now())
		}
		return true
	}
	return false
}

func (a *App) selectedContainer() (dockerContainer, bool) {
	ui := a.docker.UIState()
	containers := a.docker.Snapshot()
	if ui.SelectedIndex < 0 || ui.SelectedIndex >= len(containers) {
		return dockerContainer{}, false
	}
	c := containers[ui.SelectedIndex]
	return dockerContainer{ID: c.ID, Name: c.Name}, true
}

// dockerContainer is the minimal projection app_key.go needs without
// importing dockermon's full Container type into every call site.
type dockerContainer struct{ ID, Name string }

func (a *App) handleContainerLogsKey(key string) bool {
	buf := a.docker.ActiveLogBuffer()
	if buf == nil {
		return false
	}

	// While a search is being typed, everything but backspace/enter/f is
	// captured into the query rather than treated as a scroll command.
	if buf.SearchMode {
		switch key {
		case "enter":
			buf.SearchMode = false
			return true
		case "f":
			buf.SearchMode = false
			buf.SearchQuery = ""
			a.syncDockerLogViewport()
			return true
		case "backspace":
			if n := len(buf.SearchQuery); n > 0 {
				buf.SearchQuery = buf.SearchQuery[:n-1]
				a.syncDockerLogViewport()
			}
			return true
		default:
			if len([]rune(key)) == 1 {
				buf.SearchQuery += key
				a.syncDockerLogViewport()
			}
			return true
		}
	}

	switch key {
	case "up":
		a.dockerLogVP.LineUp(1)
		buf.AutoFollow = false
		return true
	case "down":
		a.dockerLogVP.LineDown(1)
		buf.AutoFollow = a.dockerLogVP.AtBottom()
		return true
	case "pgup":
		a.dockerLogVP.ViewUp()
		buf.AutoFollow = false
		return true
	case "pgdown":
		a.dockerLogVP.ViewDown()
		buf.AutoFollow = a.dockerLogVP.AtBottom()
		return true
	case "end":
		a.dockerLogVP.GotoBottom()
		buf.AutoFollow = true
		return true
	case "f":
		buf.SearchMode = true
		return true
	case "F":
		buf.SearchQuery = ""
		a.syncDockerLogViewport()
		return true
	}
	return false
}

func (a *App) handleSwarmOverviewKey(key string) bool {
	data := a.swarm.Snapshot()
	rowCount := swarmOverviewRowCount(data, a.expandedStacks)
	ui := a.swarm.UIState()
	switch key {
	case "up":
		if ui.SelectedRowIndex > 0 {
			ui.SelectedRowIndex--
		}
		return true
	case "down":
		if ui.SelectedRowIndex < rowCount-1 {
			ui.SelectedRowIndex++
		}
		return true
	case "right", "enter":
		item, ok := resolveSwarmOverviewItem(data, a.expandedStacks, ui.SelectedRowIndex)
		if !ok {
			return true
		}
		switch item.Kind {
		case ItemStackHeader:
			name := data.Stacks[item.StackIndex].Name
			if _, exp := a.expandedStacks[name]; exp {
				delete(a.expandedStacks, name)
			} else {
				a.expandedStacks[name] = struct{}{}
			}
		case ItemService:
			svcIdx := data.Stacks[item.StackIndex].ServiceIndices[item.ServiceIndex]
			svc := data.Services[svcIdx]
			a.swarm.EnterServiceTasks(svc.ID)
			a.view = AppView{Kind: ViewSwarmServiceTasks, ServiceID: svc.ID, ServiceName: svc.Name}
		}
		return true
	case "R":
		item, ok := resolveSwarmOverviewItem(data, a.expandedStacks, ui.SelectedRowIndex)
		if ok && item.Kind == ItemService && !a.swarm.ActionInProgress() {
			svcIdx := data.Stacks[item.StackIndex].ServiceIndices[item.ServiceIndex]
			svc := data.Services[svcIdx]
			a.triggerPending(PendingServiceForceUpdate, svc.ID, svc.Name, time.Now())
		}
		return true
	}
	return false
}

func (a *App) handleSwarmTasksKey(key string) bool {
	ui := a.swarm.UIState()
	data := a.swarm.Snapshot()
	tasks := 0
	if data != nil {
		tasks = len(data.SelectedServiceTasks)
	}
	switch key {
	case "up":
		if ui.SelectedRowIndex > 0 {
			ui.SelectedRowIndex--
		}
		return true
	case "down":
		if ui.SelectedRowIndex < tasks-1 {
			ui.SelectedRowIndex++
		}
		return true
	case "right", "enter", "l":
		if data != nil && ui.SelectedRowIndex >= 0 && ui.SelectedRowIndex < len(data.SelectedServiceTasks) {
			task := data.SelectedServiceTasks[ui.SelectedRowIndex]
			if err := a.swarm.EnterTaskLog(ui.SelectedServiceID, task.ID); err == nil {
				a.view = AppView{Kind: ViewSwarmServiceLogs, ServiceID: a.view.ServiceID, ServiceName: a.view.ServiceName}
				a.swarmLogVP = viewport.New(a.width, a.height-2)
				a.swarmLogVP.GotoBottom()
				a.swarmLogAutoFollow = true
			}
		}
		return true
	}
	return false
}

func (a *App) handleSwarmLogsKey(key string) bool {
	switch key {
	case "e":
		a.swarmLogFilterErrors = !a.swarmLogFilterErrors
		a.syncSwarmLogViewport()
		return true
	case "up":
		a.swarmLogVP.LineUp(1)
		a.swarmLogAutoFollow = false
		return true
	case "down":
		a.swarmLogVP.LineDown(1)
		a.swarmLogAutoFollow = a.swarmLogVP.AtBottom()
		return true
	case "pgup":
		a.swarmLogVP.ViewUp()
		a.swarmLogAutoFollow = false
		return true
	case "pgdown":
		a.swarmLogVP.ViewDown()
		a.swarmLogAutoFollow = a.swarmLogVP.AtBottom()
		return true
	case "end":
		a.swarmLogVP.GotoBottom()
		a.swarmLogAutoFollow = true
		return true
	}
	return false
}
