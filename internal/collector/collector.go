// Package collector defines the OS-specific metric capability surface the
// system monitor polls every tick. The build-tagged implementations
// (collector_linux.go, collector_other.go) are the out-of-scope half of the
// contract: this file fixes the shape every platform must produce.
package collector

// FdInfo reports system-wide open file descriptor pressure and the
// processes holding the most of them. Fields are zero when unavailable.
type FdInfo struct {
	Available bool
	Total     int64
	Limit     int64
	TopByPid  []PidCount
}

// SocketOverviewInfo reports a TCP connection-state histogram plus the
// processes holding the most connections.
type SocketOverviewInfo struct {
	Available  bool
	Established int64
	TimeWait    int64
	CloseWait   int64
	Other       int64
	TopByPid    []PidCount
}

// ContextSwitchInfo reports system-wide involuntary context switches and
// the processes responsible for the most of them.
type ContextSwitchInfo struct {
	Available bool
	Total     int64
	TopByPid  []PidCount
}

// PidCount pairs a process id with a capability-specific count, used for
// the top-N rendering of fd/socket/context-switch pressure.
type PidCount struct {
	Pid   int32
	Count int64
}

// Collector is the capability set {disk_busy, fd_totals_and_top,
// socket_overview_and_top, ctxsw_totals_and_top, per_process_net_rates}.
// Every method is expected to return within tens of milliseconds and must
// not spawn background goroutines of its own; the system monitor calls all
// five synchronously, once per Update.
type Collector interface {
	// DiskBusyPercent returns the percentage of wall-clock time the busiest
	// block device spent servicing I/O since the previous call, or false
	// if the figure could not be computed on this platform/kernel.
	DiskBusyPercent() (float64, bool)

	FDTotalsAndTop() FdInfo
	SocketOverviewAndTop() SocketOverviewInfo
	CtxSwitchTotalsAndTop() ContextSwitchInfo

	// PerProcessNetRates returns per-pid (rx, tx) network figures. The
	// Linux implementation reports each process's currently queued TCP
	// bytes, not a per-second rate. Processes with no attributable sockets
	// are omitted rather than reported as zero.
	PerProcessNetRates() map[int32][2]uint64
}
