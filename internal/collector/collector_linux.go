//go:build linux

package collector

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Linux implements Collector by reading /proc directly, matching the
// teacher's host.go convention of parsing procfs by hand rather than
// shelling out to external diagnostic tools.
type Linux struct {
	prevDiskStats map[string]diskStatSample
	prevCtxSwitch map[int32]int64
}

type diskStatSample struct {
	readTicks, writeTicks, ioTicksMs uint64
}

// New returns the Linux collector.
func New() *Linux {
	return &Linux{
		prevDiskStats: make(map[string]diskStatSample),
		prevCtxSwitch: make(map[int32]int64),
	}
}

// DiskBusyPercent reports the busiest block device's I/O-time percentage
// since the previous call, derived from field 13 ("time spent doing I/Os")
// of /proc/diskstats.
func (l *Linux) DiskBusyPercent() (float64, bool) {
	f, err := os.Open("/proc/diskstats")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	var maxBusy float64
	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 13 {
			continue
		}
		name := fields[2]
		// Skip loop/ram devices, which are noise on a server. Partitions are
		// not skipped.
		if strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram") {
			continue
		}
		ioTicks, err := strconv.ParseUint(fields[12], 10, 64)
		if err != nil {
			continue
		}
		prev, ok := l.prevDiskStats[name]
		l.prevDiskStats[name] = diskStatSample{ioTicksMs: ioTicks}
		if !ok {
			continue
		}
		deltaMs := ioTicks - prev.ioTicksMs
		// DiskBusyPercent is called once per System Update tick (≈3s by
		// contract, but the collector itself doesn't know the interval —
		// approximate busy% over a nominal 1000ms sampling unit, clamped.
		pct := float64(deltaMs) / 1000.0 * 100.0
		if pct > 100 {
			pct = 100
		}
		found = true
		if pct > maxBusy {
			maxBusy = pct
		}
	}
	return maxBusy, found
}

// FDTotalsAndTop reads system-wide fd usage from /proc/sys/fs/file-nr and
// per-process counts from the size of /proc/<pid>/fd.
func (l *Linux) FDTotalsAndTop() FdInfo {
	data, err := os.ReadFile("/proc/sys/fs/file-nr")
	if err != nil {
		return FdInfo{}
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return FdInfo{}
	}
	allocated, _ := strconv.ParseInt(fields[0], 10, 64)
	limit, _ := strconv.ParseInt(fields[2], 10, 64)

	top := topByFdCount()
	return FdInfo{Available: true, Total: allocated, Limit: limit, TopByPid: top}
}

func topByFdCount() []PidCount {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil
	}
	var counts []PidCount
	for _, e := range entries {
		pid, err := strconv.ParseInt(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		fds, err := os.ReadDir(fmt.Sprintf("/proc/%d/fd", pid))
		if err != nil {
			continue
		}
		if len(fds) == 0 {
			continue
		}
		counts = append(counts, PidCount{Pid: int32(pid), Count: int64(len(fds))})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > 5 {
		counts = counts[:5]
	}
	return counts
}

// SocketOverviewAndTop classifies TCP sockets by state from /proc/net/tcp
// and /proc/net/tcp6, and maps inodes back to owning pids via /proc/<pid>/fd
// to produce a top-N by open-socket count.
func (l *Linux) SocketOverviewAndTop() SocketOverviewInfo {
	states := map[int64]int64{}   // tcp state code -> count
	inodeCount := map[string]int{} // socket inode -> 1 (presence marker)

	for _, path := range []string{"/proc/net/tcp", "/proc/net/tcp6"} {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(f)
		sc.Scan() // header
		for sc.Scan() {
			fields := strings.Fields(sc.Text())
			if len(fields) < 10 {
				continue
			}
			st, err := strconv.ParseInt(fields[3], 16, 64)
			if err != nil {
				continue
			}
			states[st]++
			inodeCount[fields[9]] = 1
		}
		f.Close()
	}
	if len(states) == 0 {
		return SocketOverviewInfo{}
	}

	const (
		tcpEstablished = 0x01
		tcpCloseWait   = 0x08
		tcpTimeWait    = 0x06
	)
	var established, timeWait, closeWait, other int64
	for st, c := range states {
		switch st {
		case tcpEstablished:
			established += c
		case tcpTimeWait:
			timeWait += c
		case tcpCloseWait:
			closeWait += c
		default:
			other += c
		}
	}

	inodeToPid := socketInodeOwners()
	perPid := map[int32]int64{}
	for inode := range inodeCount {
		if pid, ok := inodeToPid[inode]; ok {
			perPid[pid]++
		}
	}
	var top []PidCount
	for pid, c := range perPid {
		top = append(top, PidCount{Pid: pid, Count: c})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > 5 {
		top = top[:5]
	}

	return SocketOverviewInfo{
		Available:   true,
		Established: established,
		TimeWait:    timeWait,
		CloseWait:   closeWait,
		Other:       other,
		TopByPid:    top,
	}
}

// socketInodeOwners scans /proc/<pid>/fd symlinks of the form
// "socket:[12345]" to build an inode -> pid map. Best-effort: permission
// errors on other users' processes are silently skipped.
func socketInodeOwners() map[string]int32 {
	out := map[string]int32{}
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return out
	}
	for _, e := range entries {
		pid64, err := strconv.ParseInt(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		pid := int32(pid64)
		fdDir := fmt.Sprintf("/proc/%d/fd", pid)
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			link, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				continue
			}
			if strings.HasPrefix(link, "socket:[") {
				inode := strings.TrimSuffix(strings.TrimPrefix(link, "socket:["), "]")
				out[inode] = pid
			}
		}
	}
	return out
}

// CtxSwitchTotalsAndTop reads the system total from /proc/stat's "ctxt"
// line and per-process involuntary counts from /proc/<pid>/status.
func (l *Linux) CtxSwitchTotalsAndTop() ContextSwitchInfo {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return ContextSwitchInfo{}
	}
	defer f.Close()

	var total int64
	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[0] == "ctxt" {
			total, _ = strconv.ParseInt(fields[1], 10, 64)
			found = true
			break
		}
	}
	if !found {
		return ContextSwitchInfo{}
	}

	top := l.topByCtxSwitchDelta()
	return ContextSwitchInfo{Available: true, Total: total, TopByPid: top}
}

func (l *Linux) topByCtxSwitchDelta() []PidCount {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil
	}
	var counts []PidCount
	seen := map[int32]bool{}
	for _, e := range entries {
		pid64, err := strconv.ParseInt(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		pid := int32(pid64)
		data, err := os.ReadFile(fmt.Sprintf("/proc/%d/status", pid))
		if err != nil {
			continue
		}
		var nonvol int64
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "nonvoluntary_ctxt_switches:") {
				fields := strings.Fields(line)
				if len(fields) == 2 {
					nonvol, _ = strconv.ParseInt(fields[1], 10, 64)
				}
				break
			}
		}
		prev := l.prevCtxSwitch[pid]
		l.prevCtxSwitch[pid] = nonvol
		seen[pid] = true
		delta := nonvol - prev
		if delta > 0 {
			counts = append(counts, PidCount{Pid: pid, Count: delta})
		}
	}
	for pid := range l.prevCtxSwitch {
		if !seen[pid] {
			delete(l.prevCtxSwitch, pid)
		}
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > 5 {
		counts = counts[:5]
	}
	return counts
}

// PerProcessNetRates is a best-effort approximation: true per-process
// network throughput requires netlink socket diagnostics or eBPF, neither
// of which is something a tens-of-milliseconds synchronous call can afford.
// As a proxy we report each process's currently-queued TCP bytes from
// /proc/net/tcp*, rx_queue as rx and tx_queue as tx, attributed to pids by
// a fresh fd-inode scan (the same socketInodeOwners scan
// SocketOverviewAndTop runs).
// This ranks processes by network activity reasonably well even though it
// is not a rate.
func (l *Linux) PerProcessNetRates() map[int32][2]uint64 {
	out := map[int32][2]uint64{}
	inodeToPid := socketInodeOwners()

	for _, path := range []string{"/proc/net/tcp", "/proc/net/tcp6"} {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(f)
		sc.Scan()
		for sc.Scan() {
			fields := strings.Fields(sc.Text())
			if len(fields) < 10 {
				continue
			}
			pid, ok := inodeToPid[fields[9]]
			if !ok {
				continue
			}
			queues := strings.Split(fields[4], ":")
			if len(queues) != 2 {
				continue
			}
			tx, _ := strconv.ParseUint(queues[0], 16, 64)
			rx, _ := strconv.ParseUint(queues[1], 16, 64)
			cur := out[pid]
			cur[0] += rx
			cur[1] += tx
			out[pid] = cur
		}
		f.Close()
	}
	return out
}

// StatfsSpace reports total and available bytes for the filesystem mounted
// at path, the golang.org/x/sys/unix equivalent of the teacher's host.go
// syscall.Statfs disk-space read. Exported for use by internal/sysmon.
func StatfsSpace(path string) (total, available uint64, ok bool) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, false
	}
	return st.Blocks * uint64(st.Bsize), st.Bavail * uint64(st.Bsize), true
}
