package swarmmon

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rshzrh/sitrep/internal/ring"
)

const (
	logBufferCap  = 10000
	pollLogsBatch = 200
)

// actionResult is what a background service-action goroutine reports back
// through its single-shot channel.
type actionResult struct {
	kind actionKind
	id   string
	err  error
}

type actionKind int

const (
	actionForceUpdate actionKind = iota
	actionScale
)

func (k actionKind) String() string {
	if k == actionScale {
		return "scale"
	}
	return "force-update"
}

// Monitor is the Swarm monitor: cluster detection, the node/stack/service
// overview, task drill-down, and task log tailing, all polled only while
// their corresponding ViewLevel is active.
type Monitor struct {
	client *Client

	snap atomic.Pointer[MonitorData]
	ui   *UIState

	standalone bool // true once DetectSwarm has reported unavailable

	logBuf    *ring.Buffer[string]
	logHandle *LogStreamHandle

	actionInProgress atomic.Bool
	actionResultCh   chan actionResult
	statusMessage    string
	statusSetAt      time.Time
}

// NewMonitor constructs a Swarm monitor with no data.
func NewMonitor(c *Client) *Monitor {
	return &Monitor{
		client:         c,
		ui:             NewUIState(),
		actionResultCh: make(chan actionResult, 1),
	}
}

// UIState returns the mutable per-session presentation state.
func (m *Monitor) UIState() *UIState { return m.ui }

// Snapshot returns the current published data, or nil before the first
// successful Update.
func (m *Monitor) Snapshot() *MonitorData { return m.snap.Load() }

// IsAvailable reports whether the docker CLI is reachable and the node is
// swarm-active, per the most recent detection.
func (m *Monitor) IsAvailable() bool {
	d := m.snap.Load()
	return d != nil && d.Available
}

// StatusMessage returns the most recent action status, or "" once it has
// aged out (visible for ~3s per §7).
func (m *Monitor) StatusMessage() string {
	if time.Since(m.statusSetAt) > 3*time.Second {
		return ""
	}
	return m.statusMessage
}

// Update refreshes exactly the data the current ViewLevel needs. At
// ViewOverview it rebuilds cluster info, nodes, stacks, and warnings; at
// ViewServiceTasks it refreshes only the selected service's tasks;
// ViewTaskLog polls no REST/CLI data (the log tail runs on its own
// goroutine, drained by PollLogs). A no-op while standalone: the app
// shell drives re-detection itself via RecheckSwarm, once per ten ticks,
// so this method doesn't need (and must not apply) its own gate on top.
func (m *Monitor) Update(ctx context.Context) {
	if m.standalone {
		return
	}

	switch m.ui.Level {
	case ViewOverview:
		m.updateOverview(ctx)
	case ViewServiceTasks:
		m.updateServiceTasks(ctx)
	case ViewTaskLog:
		// nothing to poll; PollLogs drains the live tail.
	}
}

// RecheckSwarm re-probes swarm availability while standalone. The app
// shell calls this once every ten ticks (~30s) per §4.4.3/§4.5 step 3;
// it is the only cadence gate on standalone detection.
func (m *Monitor) RecheckSwarm(ctx context.Context) {
	info, err := m.client.DetectSwarm(ctx)
	if err != nil || !info.SwarmAvailable {
		return
	}
	m.standalone = false
	m.updateOverview(ctx)
}

func (m *Monitor) updateOverview(ctx context.Context) {
	info, err := m.client.DetectSwarm(ctx)
	if err != nil {
		return // transient: next tick retries.
	}
	if !info.SwarmAvailable {
		m.standalone = true
		m.snap.Store(&MonitorData{Available: false})
		return
	}

	nodes, err := m.client.ListNodes(ctx)
	if err != nil {
		return
	}
	services, err := m.client.ListServices(ctx)
	if err != nil {
		return
	}

	stacks := buildStacks(services)
	warnings := generateWarnings(info, nodes, services)

	m.snap.Store(&MonitorData{
		Available: true,
		Cluster:   info,
		Nodes:     nodes,
		Services:  services,
		Stacks:    stacks,
		Warnings:  warnings,
	})
}

func (m *Monitor) updateServiceTasks(ctx context.Context) {
	if m.ui.SelectedServiceID == "" {
		return
	}
	tasks, err := m.client.ListServiceTasks(ctx, m.ui.SelectedServiceID)
	if err != nil {
		return
	}
	prev := m.snap.Load()
	next := &MonitorData{SelectedServiceTasks: tasks}
	if prev != nil {
		next.Available = prev.Available
		next.Cluster = prev.Cluster
		next.Nodes = prev.Nodes
		next.Services = prev.Services
		next.Stacks = prev.Stacks
		next.Warnings = prev.Warnings
	}
	m.snap.Store(next)
}

// buildStacks groups services by their stack label, falling back to a
// single-service stack named after the service when no label is present.
// Each Stack holds indices into the services slice passed in — the same
// slice the caller publishes as MonitorData.Services — rather than cloned
// records, so the invariant "every index in ServiceIndices is valid
// against the snapshot's Services" holds by construction. The resulting
// slice is sorted by stack name so row indices stay stable across ticks.
func buildStacks(services []Service) []Stack {
	byName := map[string]*Stack{}
	var order []string
	for i, s := range services {
		name := s.Stack
		if name == "" {
			name = s.Name
		}
		st, ok := byName[name]
		if !ok {
			st = &Stack{Name: name}
			byName[name] = st
			order = append(order, name)
		}
		st.ServiceIndices = append(st.ServiceIndices, i)
	}
	sortStrings(order)
	out := make([]Stack, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// generateWarnings derives cluster-health annotations: a down node and a
// drained node each get their own entry, a replicated service whose
// current replica count falls short of its desired count is Degraded, and
// too few managers for the cluster size is Degraded. This mirrors the
// original's check_warnings pass (swarm_controller.rs) rather than
// cross-referencing task listings: the "current/desired" pair is already
// sitting in the service's own Replicas string.
func generateWarnings(info *ClusterInfo, nodes []Node, services []Service) []Warning {
	var warnings []Warning

	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Status), "down") {
			warnings = append(warnings, Warning{
				Severity: WarnCritical,
				Message:  fmt.Sprintf("node %s is down", n.Hostname),
			})
		}
	}

	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Availability), "drain") {
			warnings = append(warnings, Warning{
				Severity: WarnDegraded,
				Message:  fmt.Sprintf("node %s is drained", n.Hostname),
			})
		}
	}

	for _, s := range services {
		current, desired, ok := parseReplicaCounts(s.Replicas)
		if !ok || desired == 0 {
			continue
		}
		if current < desired {
			warnings = append(warnings, Warning{
				Severity:  WarnDegraded,
				Message:   fmt.Sprintf("%s: %d/%d replicas running", s.Name, current, desired),
				StackName: s.Stack,
				ServiceID: s.ID,
			})
		}
	}

	if info != nil && info.Managers < 3 && info.Nodes > 3 {
		warnings = append(warnings, Warning{
			Severity: WarnDegraded,
			Message:  fmt.Sprintf("only %d manager(s) for %d nodes (recommend 3+)", info.Managers, info.Nodes),
		})
	}

	return warnings
}

// parseReplicaCounts splits docker service ls's "current/desired" replica
// string into its two halves.
func parseReplicaCounts(replicas string) (current, desired int, ok bool) {
	parts := strings.SplitN(replicas, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	cur, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	want, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return cur, want, true
}

// EnterServiceTasks switches to the task drill-down for one service.
func (m *Monitor) EnterServiceTasks(serviceID string) {
	m.ui.Level = ViewServiceTasks
	m.ui.SelectedServiceID = serviceID
	m.ui.SelectedRowIndex = 0
}

// EnterTaskLog allocates a ring-backed log buffer and starts tailing the
// owning service's combined log stream (per-task log isolation is not
// offered by `docker service logs`). taskID is recorded in
// UIState.SelectedTaskID; the buffer holds every task's lines and is not
// filtered by task id.
func (m *Monitor) EnterTaskLog(serviceID, taskID string) error {
	handle, err := m.client.TailServiceLogs(serviceID)
	if err != nil {
		return err
	}
	m.logHandle = handle
	m.logBuf = ring.New[string](logBufferCap)
	m.ui.Level = ViewTaskLog
	m.ui.SelectedTaskID = taskID
	return nil
}

// ActiveLogBuffer returns the buffer for the currently entered log view,
// or nil if no log view is active.
func (m *Monitor) ActiveLogBuffer() *ring.Buffer[string] { return m.logBuf }

// PollLogs drains up to 200 lines from the active tail into the ring
// buffer, returning the count drained.
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
			m.logBuf.Push(line)
			n++
		default:
			return n
		}
	}
	return n
}

// GoBack pops one level: ViewTaskLog -> ViewServiceTasks -> ViewOverview.
// Leaving ViewTaskLog kills the active log tail.
func (m *Monitor) GoBack() {
	switch m.ui.Level {
	case ViewTaskLog:
		if m.logHandle != nil {
			m.logHandle.Kill()
			m.logHandle = nil
		}
		m.logBuf = nil
		m.ui.Level = ViewServiceTasks
	case ViewServiceTasks:
		m.ui.Level = ViewOverview
		m.ui.SelectedServiceID = ""
	}
}

// ActionInProgress reports whether a service action is in flight.
func (m *Monitor) ActionInProgress() bool { return m.actionInProgress.Load() }

// ForceUpdate and Scale dispatch a background goroutine performing the
// named service action and report completion through PollAction.
// Disallowed while another action on this monitor is in flight.
func (m *Monitor) ForceUpdate(serviceID string) {
	m.dispatchAction(actionForceUpdate, serviceID, 0)
}

func (m *Monitor) Scale(serviceID string, replicas int) {
	m.dispatchAction(actionScale, serviceID, replicas)
}

func (m *Monitor) dispatchAction(kind actionKind, id string, replicas int) {
	if !m.actionInProgress.CompareAndSwap(false, true) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var err error
		switch kind {
		case actionForceUpdate:
			err = m.client.ForceUpdateService(ctx, id)
		case actionScale:
			err = m.client.ScaleService(ctx, id, replicas)
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
