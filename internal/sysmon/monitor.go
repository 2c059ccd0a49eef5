package sysmon

import (
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rshzrh/sitrep/internal/collector"
)

func numCPU() int { return runtime.NumCPU() }

const slidingWindow = 60 * time.Second
const topN = 5

type historyEntry struct {
	t      time.Time
	groups map[int32]*ProcessGroup
}

// Monitor is the System monitor: it owns the collector, the host-level
// procfs readers, the sliding-window process history, and the published
// snapshot. Update is called synchronously from the application shell's
// event loop, once per tick, only while the System view is active.
type Monitor struct {
	collector collector.Collector
	host      *hostReader

	prevCPU map[int32]uint64
	prevIO  map[int32]procIOCounters
	lastSample time.Time

	history []historyEntry

	ui   *UIState
	snap atomic.Pointer[MonitorData]

	now func() time.Time
}

// New constructs a System monitor with no data. c is the platform
// collector (collector.New() on Linux, collector.New() stub elsewhere).
func New(c collector.Collector) *Monitor {
	return &Monitor{
		collector: c,
		host:      newHostReader(),
		prevCPU:   make(map[int32]uint64),
		prevIO:    make(map[int32]procIOCounters),
		ui:        NewUIState(),
		now:       time.Now,
	}
}

// UIState returns the mutable per-session presentation state.
func (m *Monitor) UIState() *UIState { return m.ui }

// Snapshot returns the most recently published data, or nil before the
// first Update.
func (m *Monitor) Snapshot() *MonitorData { return m.snap.Load() }

// IsAvailable is always true: the System monitor has no external backend
// to lose. Present for symmetry with the Docker/Swarm monitor surface.
func (m *Monitor) IsAvailable() bool { return true }

// Update refreshes the snapshot. A no-op while ui.Paused is true.
func (m *Monitor) Update() {
	if m.ui.Paused {
		return
	}

	now := m.now()
	elapsed := 0.0
	if !m.lastSample.IsZero() {
		elapsed = now.Sub(m.lastSample).Seconds()
	}
	m.lastSample = now

	netRates := m.collector.PerProcessNetRates()
	samples := enumerateProcesses(m.prevCPU, m.prevIO, elapsed, netRates)
	groups := groupByParent(samples)
	m.pruneExpansions(groups)

	m.history = append(m.history, historyEntry{t: now, groups: groups})
	cutoff := now.Add(-slidingWindow)
	i := 0
	for i < len(m.history) && m.history[i].t.Before(cutoff) {
		i++
	}
	m.history = m.history[i:]

	top := m.computeTopProcesses()

	loadAvg1, loadAvg5, loadAvg15 := readLoadAvg()
	mem := readMemory()
	ifaces := m.host.readNetwork()
	sockets := m.collector.SocketOverviewAndTop()
	fds := m.collector.FDTotalsAndTop()
	ctxsw := m.collector.CtxSwitchTotalsAndTop()
	diskBusy, diskBusyOK := m.collector.DiskBusyPercent()
	disks := readDiskSpace()

	data := &MonitorData{
		Time:          now.Format("15:04:05"),
		CoreCount:     float64(numCPU()),
		LoadAvg1:      loadAvg1,
		LoadAvg5:      loadAvg5,
		LoadAvg15:     loadAvg15,
		TopProcesses:  top,
		DiskSpace:     disks,
		DiskBusyPct:   diskBusy,
		DiskBusyKnown: diskBusyOK,
		Memory:        mem,
		Network: NetworkInfo{
			Interfaces:  ifaces,
			Established: sockets.Established,
			TimeWait:    sockets.TimeWait,
			CloseWait:   sockets.CloseWait,
		},
		FDTotal:            fds.Total,
		FDLimit:            fds.Limit,
		FDAvailable:        fds.Available,
		FDTopByPid:         convertPidCounts(fds.TopByPid),
		CtxSwitchTotal:     ctxsw.Total,
		CtxSwitchAvailable: ctxsw.Available,
		CtxSwitchTopByPid:  convertPidCounts(ctxsw.TopByPid),
		SocketTopByPid:     convertPidCounts(sockets.TopByPid),
	}
	m.snap.Store(data)
}

func convertPidCounts(in []collector.PidCount) []PidCount {
	out := make([]PidCount, len(in))
	for i, c := range in {
		out[i] = PidCount{Pid: c.Pid, Count: c.Count}
	}
	return out
}

// computeTopProcesses averages each ProcessGroup's metrics across every
// history entry it appears in, then sorts by ui.SortColumn and returns the
// top N=5.
func (m *Monitor) computeTopProcesses() []ProcessGroup {
	type accum struct {
		group ProcessGroup
		count int
	}
	acc := map[int32]*accum{}
	for _, h := range m.history {
		for pid, g := range h.groups {
			a, ok := acc[pid]
			if !ok {
				a = &accum{group: ProcessGroup{ParentPid: pid, Name: g.Name}}
				acc[pid] = a
			}
			a.group.CPU += g.CPU
			a.group.MemRSS = g.MemRSS // latest wins; RSS isn't rate-averaged
			a.group.ReadRate += g.ReadRate
			a.group.WriteRate += g.WriteRate
			a.group.NetDown += g.NetDown
			a.group.NetUp += g.NetUp
			a.group.ChildCount = g.ChildCount
			a.group.Children = g.Children
			a.count++
		}
	}

	out := make([]ProcessGroup, 0, len(acc))
	for _, a := range acc {
		if a.count > 0 {
			a.group.CPU /= float64(a.count)
			a.group.ReadRate /= float64(a.count)
			a.group.WriteRate /= float64(a.count)
			a.group.NetDown /= float64(a.count)
			a.group.NetUp /= float64(a.count)
		}
		out = append(out, a.group)
	}

	sort.Slice(out, func(i, j int) bool {
		switch m.ui.SortColumn {
		case SortMemory:
			return out[i].MemRSS > out[j].MemRSS
		case SortRead:
			return out[i].ReadRate > out[j].ReadRate
		case SortWrite:
			return out[i].WriteRate > out[j].WriteRate
		case SortNetDown:
			return out[i].NetDown > out[j].NetDown
		case SortNetUp:
			return out[i].NetUp > out[j].NetUp
		default:
			return out[i].CPU > out[j].CPU
		}
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// pruneExpansions drops expanded pids that no longer exist in the fresh
// group set, per the spec's "expansion sets contain only identifiers that
// existed in the most recent snapshot" invariant.
func (m *Monitor) pruneExpansions(groups map[int32]*ProcessGroup) {
	for pid := range m.ui.ExpandedPids {
		if _, ok := groups[pid]; !ok {
			delete(m.ui.ExpandedPids, pid)
		}
	}
	if m.ui.SelectedRow >= len(groups) && len(groups) > 0 {
		m.ui.SelectedRow = len(groups) - 1
	}
}
