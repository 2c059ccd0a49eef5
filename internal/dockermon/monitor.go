package dockermon

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const pollLogsBatch = 100

// actionResult is what a background lifecycle-action goroutine reports
// back through its single-shot channel.
type actionResult struct {
	kind ActionKind
	id   string
	err  error
}

// Monitor is the Docker monitor: container list, live CPU sampling, one
// live log buffer at a time, and at most one in-flight lifecycle action.
type Monitor struct {
	client *Client

	snap atomic.Pointer[[]Container]
	ui   *UIState

	logBuf    *LogBuffer
	logHandle *LogStreamHandle

	actionInProgress atomic.Bool
	actionResultCh   chan actionResult
	statusMessage    string
	statusSetAt      time.Time
}

// NewMonitor constructs a Docker monitor with no data.
func NewMonitor(c *Client) *Monitor {
	return &Monitor{
		client:         c,
		ui:             NewUIState(),
		actionResultCh: make(chan actionResult, 1),
	}
}

// UIState returns the mutable per-session presentation state.
func (m *Monitor) UIState() *UIState { return m.ui }

// Snapshot returns the current container list, or nil before the first
// successful Update.
func (m *Monitor) Snapshot() []Container {
	if p := m.snap.Load(); p != nil {
		return *p
	}
	return nil
}

// IsAvailable reports whether the Docker daemon responded to a ping.
func (m *Monitor) IsAvailable(ctx context.Context) bool { return m.client.IsAvailable(ctx) }

// StatusMessage returns the most recent action status, or "" once it has
// aged out (visible for ~3s per §7).
func (m *Monitor) StatusMessage() string {
	if time.Since(m.statusSetAt) > 3*time.Second {
		return ""
	}
	return m.statusMessage
}

// Update fetches the container list, then fans CPU sampling out
// concurrently across running containers. A no-op if Docker is
// unavailable.
func (m *Monitor) Update(ctx context.Context) {
	if !m.IsAvailable(ctx) {
		return
	}
	containers, err := m.client.ListContainers(ctx)
	if err != nil {
		return // transient: next tick retries, per §7 recovery policy.
	}

	running := make([]string, 0, len(containers))
	runningIdx := make([]int, 0, len(containers))
	for i, c := range containers {
		if c.State == "running" {
			running = append(running, c.ID)
			runningIdx = append(runningIdx, i)
		}
	}
	pcts := m.client.GetAllCPUPercents(ctx, running)
	for j, i := range runningIdx {
		if pcts[j] != nil {
			containers[i].CPUPercent = *pcts[j]
		}
	}

	m.pruneExpansions(containers)
	m.snap.Store(&containers)
}

func (m *Monitor) pruneExpansions(containers []Container) {
	live := make(map[string]struct{}, len(containers))
	for _, c := range containers {
		live[c.ID] = struct{}{}
	}
	for id := range m.ui.ExpandedIDs {
		if _, ok := live[id]; !ok {
			delete(m.ui.ExpandedIDs, id)
		}
	}
}

// EnterLogView allocates a ring-backed log buffer and starts tailing the
// given container's combined stdout/stderr.
func (m *Monitor) EnterLogView(ctx context.Context, id, name string) error {
	handle, err := m.client.TailLogs(ctx, id)
	if err != nil {
		return err
	}
	m.logBuf = NewLogBuffer(id, name)
	m.logHandle = handle
	return nil
}

// LeaveLogView cancels the active tail and releases the buffer.
func (m *Monitor) LeaveLogView() {
	if m.logHandle != nil {
		m.logHandle.Cancel()
		m.logHandle = nil
	}
	m.logBuf = nil
}

// ActiveLogBuffer returns the buffer for the currently entered log view,
// or nil if no log view is active.
func (m *Monitor) ActiveLogBuffer() *LogBuffer { return m.logBuf }

// PollLogs drains up to 100 lines from the active tail into the ring
// buffer, returning the count drained (0 means no progress, used by the
// event loop to decide whether a render is needed).
func (m *Monitor) PollLogs() int {
	if m.logBuf == nil || m.logHandle == nil {
		return 0
	}
	n := 0
	for n < pollLogsBatch {
		select {
		case line, ok := <-m.logHandle.Lines:
			if !ok {
				return n
			}
			m.logBuf.PushLine(line)
			n++
		default:
			return n
		}
	}
	return n
}

// ActionInProgress reports whether a lifecycle action is in flight.
func (m *Monitor) ActionInProgress() bool { return m.actionInProgress.Load() }

// Start, Stop, and Restart dispatch a background goroutine performing the
// named lifecycle action and report completion through PollAction.
// Disallowed while another action on this monitor is in flight.
func (m *Monitor) Start(id string) { m.dispatchAction(ActionStart, id) }
func (m *Monitor) Stop(id string)  { m.dispatchAction(ActionStop, id) }
func (m *Monitor) Restart(id string) { m.dispatchAction(ActionRestart, id) }

func (m *Monitor) dispatchAction(kind ActionKind, id string) {
	if !m.actionInProgress.CompareAndSwap(false, true) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var err error
		switch kind {
		case ActionStart:
			err = m.client.Start(ctx, id)
		case ActionStop:
			err = m.client.Stop(ctx, id, 10)
		case ActionRestart:
			err = m.client.Restart(ctx, id, 10)
		}
		m.actionResultCh <- actionResult{kind: kind, id: id, err: err}
	}()
}

// PollAction drains a pending action result, if any, into a status
// message, and clears ActionInProgress. Non-blocking.
func (m *Monitor) PollAction() {
	select {
	case res := <-m.actionResultCh:
		m.actionInProgress.Store(false)
		if res.err != nil {
			m.statusMessage = fmt.Sprintf("%s %s failed: %v", res.kind, res.id, res.err)
		} else {
			m.statusMessage = fmt.Sprintf("%s %s succeeded", res.kind, res.id)
		}
		m.statusSetAt = time.Now()
	default:
	}
}
