package shell

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshzrh/sitrep/internal/collector"
	"github.com/rshzrh/sitrep/internal/dockermon"
	"github.com/rshzrh/sitrep/internal/sysmon"
	"github.com/rshzrh/sitrep/internal/swarmmon"
)

const (
	tickInterval       = 3 * time.Second
	viewSwitchThrottle = 500 * time.Millisecond
	sizeFloorW         = 80
	sizeFloorH         = 24
)

// App is the root bubbletea model: the event loop described in §4.5,
// implemented as a self-rescheduling tea.Tick rather than a hand-rolled
// for{} loop, matching the teacher's app.go idiom.
type App struct {
	log *slog.Logger

	sys    *sysmon.Monitor
	docker *dockermon.Monitor
	swarm  *swarmmon.Monitor

	dockerClient *dockermon.Client
	swarmClient  *swarmmon.Client

	theme *Theme

	view       AppView
	prevView   AppView
	lastTick   time.Time
	tickCount  int
	lastSwitch map[Category]time.Time

	pending *PendingAction

	width, height int
	needsRender   bool

	expandedStacks map[string]struct{} // swarm overview stack expansion, mirrored from swarm.UIState for resolve

	lastRows []RowHandle

	dockerLogVP viewport.Model
	swarmLogVP  viewport.Model

	shouldQuit bool
	quitErr    error

	swarmLogFilterErrors bool
	swarmLogAutoFollow   bool
}

// New constructs the application shell with no data; monitors populate
// themselves on their first Update.
func New(log *slog.Logger) *App {
	dc, err := dockermon.NewClient()
	if err != nil {
		log.Warn("docker client unavailable", "error", err)
	}
	sc := swarmmon.NewClient()

	a := &App{
		log:            log,
		sys:            sysmon.New(collector.New()),
		docker:         dockermon.NewMonitor(dc),
		swarm:          swarmmon.NewMonitor(sc),
		dockerClient:   dc,
		swarmClient:    sc,
		theme:          DefaultTheme(),
		view:           AppView{Kind: ViewSystem},
		lastSwitch:     make(map[Category]time.Time),
		expandedStacks: make(map[string]struct{}),
		needsRender:    true,
	}
	return a
}

// tickMsg drives the steady-state loop at tickInterval.
type tickMsg time.Time

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// logPollMsg drains any active log view's buffer at a faster cadence than
// the 3s metrics tick so streaming feels live.
type logPollMsg time.Time

const logPollInterval = 100 * time.Millisecond

func scheduleLogPoll() tea.Cmd {
	return tea.Tick(logPollInterval, func(t time.Time) tea.Msg { return logPollMsg(t) })
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(scheduleTick(), scheduleLogPoll(), a.refreshActiveView())
}

// refreshActiveView issues one immediate Update of the monitor owning
// a.view, off the render path, used on startup and on a view switch.
func (a *App) refreshActiveView() tea.Cmd {
	cat := a.view.Category()
	return func() tea.Msg {
		a.updateCategory(cat)
		return nil
	}
}

func (a *App) updateCategory(cat Category) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	switch cat {
	case CategorySystem:
		a.sys.Update()
	case CategoryDocker:
		a.docker.Update(ctx)
	case CategorySwarm:
		a.swarm.Update(ctx)
	}
}

// recheckSwarm re-probes swarm availability once per ten ticks (~30s)
// while standalone, per §4.4.3/§4.5 step 3 — a single gate at the shell
// level, not doubled up inside the monitor.
func (a *App) recheckSwarm() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	a.swarm.RecheckSwarm(ctx)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.needsRender = true
		return a, nil

	case tickMsg:
		return a.onTick(time.Time(msg))

	case logPollMsg:
		a.pollLogs()
		return a, scheduleLogPoll()

	case tea.KeyMsg:
		consumed := a.handleKey(msg)
		if consumed {
			a.needsRender = true
		}
		if a.shouldQuit {
			return a, tea.Quit
		}
		return a, a.maybeSwitchView()
	}
	return a, nil
}

// onTick implements steps 1-6 of §4.5's event loop. Step 7 (render) and
// step 8 (input polling) are bubbletea's own responsibility: every
// Update call that sets needsRender triggers a View() call next frame.
func (a *App) onTick(now time.Time) (tea.Model, tea.Cmd) {
	if a.shouldQuit {
		return a, tea.Quit
	}

	a.expirePending(now)

	a.tickCount++
	a.updateCategory(a.view.Category())
	if a.view.Category() != CategorySwarm && !a.swarm.IsAvailable() && a.tickCount%10 == 0 {
		a.recheckSwarm()
	}
	a.lastTick = now

	a.pollLogs()
	a.docker.PollAction()
	a.swarm.PollAction()

	a.needsRender = true
	return a, tea.Batch(scheduleTick(), a.maybeSwitchView())
}

func (a *App) pollLogs() {
	if a.view.Kind == ViewContainerLogs {
		if n := a.docker.PollLogs(); n > 0 {
			a.needsRender = true
			a.syncDockerLogViewport()
		}
	}
	if a.view.Kind == ViewSwarmServiceLogs {
		if n := a.swarm.PollLogs(); n > 0 {
			a.needsRender = true
			a.syncSwarmLogViewport()
		}
	}
}

// syncDockerLogViewport feeds the active container log buffer's current
// contents into the bubbles/viewport that renders it, auto-following the
// tail unless the user has scrolled up (LogBuffer.AutoFollow).
func (a *App) syncDockerLogViewport() {
	buf := a.docker.ActiveLogBuffer()
	if buf == nil {
		return
	}
	lines := buf.Lines()
	if buf.SearchQuery != "" {
		lines = filterLinesContaining(lines, buf.SearchQuery)
	}
	a.dockerLogVP.SetContent(joinLines(lines))
	if buf.AutoFollow {
		a.dockerLogVP.GotoBottom()
	}
}

// filterLinesContaining keeps only the lines containing query, matched
// case-insensitively, mirroring the Swarm log view's error-only filter.
func filterLinesContaining(lines []string, query string) []string {
	needle := strings.ToLower(query)
	out := lines[:0:0]
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), needle) {
			out = append(out, l)
		}
	}
	return out
}

// syncSwarmLogViewport mirrors syncDockerLogViewport for the service-log
// view, applying the error-only filter before handing lines to the
// viewport.
func (a *App) syncSwarmLogViewport() {
	buf := a.swarm.ActiveLogBuffer()
	if buf == nil {
		return
	}
	lines := buf.Slice()
	if a.swarmLogFilterErrors {
		filtered := lines[:0:0]
		for _, l := range lines {
			if matchesErrorFilter(l) {
				filtered = append(filtered, l)
			}
		}
		lines = filtered
	}
	a.swarmLogVP.SetContent(joinLines(lines))
	if a.swarmLogAutoFollow {
		a.swarmLogVP.GotoBottom()
	}
}

func joinLines(lines []string) string { return strings.Join(lines, "\n") }

// maybeSwitchView issues an immediate, throttled update of the newly
// active view's monitor when the view category changed since the last
// check (§4.5 step 6).
func (a *App) maybeSwitchView() tea.Cmd {
	if a.view.Kind == a.prevView.Kind &&
		a.view.ContainerID == a.prevView.ContainerID &&
		a.view.ServiceID == a.prevView.ServiceID {
		return nil
	}
	a.prevView = a.view
	cat := a.view.Category()
	if t, ok := a.lastSwitch[cat]; ok && time.Since(t) < viewSwitchThrottle {
		return nil
	}
	a.lastSwitch[cat] = time.Now()
	return a.refreshActiveView()
}

func (a *App) View() string {
	if a.width < sizeFloorW || a.height < sizeFloorH {
		return resizeMeBox(max(a.width, 1), max(a.height, 1))
	}

	frame := a.renderTabsAndView()
	if a.pending != nil {
		prompt := a.renderPendingPrompt()
		frame = overlay(frame, prompt, a.width, a.height)
	}
	return frame
}
