package sysmon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// rawProcSample is one process's instantaneous metrics for a single tick,
// before sliding-window averaging.
type rawProcSample struct {
	pid        int32
	parentPid  int32
	name       string
	cpuPct     float64
	memRSS     uint64
	readRate   float64
	writeRate  float64
	netDown    float64
	netUp      float64
}

const clockTicksPerSec = 100.0 // typical Linux USER_HZ; good enough for ranking purposes.

// procIOCounters are the cumulative byte counters from /proc/<pid>/io.
type procIOCounters struct {
	readBytes, writeBytes uint64
}

// enumerateProcesses walks /proc/<pid> and returns one rawProcSample per
// live process. prevCPU/prevIO hold the previous tick's cumulative
// counters (ticks, bytes) so per-tick rates can be derived; both maps are
// updated in place for the next call, and entries for processes that have
// disappeared are pruned.
func enumerateProcesses(prevCPU map[int32]uint64, prevIO map[int32]procIOCounters, elapsedSec float64, netRates map[int32][2]uint64) []rawProcSample {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil
	}

	seen := map[int32]bool{}
	var out []rawProcSample
	for _, e := range entries {
		pid64, err := strconv.ParseInt(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		pid := int32(pid64)
		seen[pid] = true

		statData, err := os.ReadFile(filepath.Join("/proc", e.Name(), "stat"))
		if err != nil {
			continue
		}
		name, ppid, utime, stime, rss, ok := parseProcStat(string(statData))
		if !ok {
			continue
		}

		var cpuPct float64
		ticks := utime + stime
		if prev, ok := prevCPU[pid]; ok && elapsedSec > 0 {
			delta := ticks - prev
			cpuPct = float64(delta) / clockTicksPerSec / elapsedSec * 100
		}
		prevCPU[pid] = ticks

		var readRate, writeRate float64
		if io, ok := readProcIO(pid); ok {
			if prev, seen := prevIO[pid]; seen && elapsedSec > 0 {
				readRate = float64(satSub(io.readBytes, prev.readBytes)) / elapsedSec
				writeRate = float64(satSub(io.writeBytes, prev.writeBytes)) / elapsedSec
			}
			prevIO[pid] = io
		}

		var down, up float64
		if nr, ok := netRates[pid]; ok {
			down, up = float64(nr[0]), float64(nr[1])
		}

		out = append(out, rawProcSample{
			pid: pid, parentPid: ppid, name: name,
			cpuPct: cpuPct, memRSS: rss,
			readRate: readRate, writeRate: writeRate,
			netDown: down, netUp: up,
		})
	}

	for pid := range prevCPU {
		if !seen[pid] {
			delete(prevCPU, pid)
			delete(prevIO, pid)
		}
	}
	return out
}

// parseProcStat extracts comm, ppid, utime, stime, and rss (in bytes) from
// a /proc/<pid>/stat line. The comm field is parenthesized and may itself
// contain spaces/parens, so it is located by the last ')' rather than by
// fixed field splitting.
func parseProcStat(s string) (name string, ppid int32, utime, stime uint64, rssBytes uint64, ok bool) {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close < 0 || close < open {
		return "", 0, 0, 0, 0, false
	}
	name = s[open+1 : close]
	rest := strings.Fields(s[close+1:])
	// rest[0] = state, rest[1] = ppid, ... rest[11]=utime, rest[12]=stime,
	// rest[21]=rss (in pages), 0-indexed from state.
	if len(rest) < 22 {
		return "", 0, 0, 0, 0, false
	}
	ppid64, _ := strconv.ParseInt(rest[1], 10, 32)
	utime, _ = strconv.ParseUint(rest[11], 10, 64)
	stime, _ = strconv.ParseUint(rest[12], 10, 64)
	rssPages, _ := strconv.ParseUint(rest[21], 10, 64)
	return name, int32(ppid64), utime, stime, rssPages * 4096, true
}

func readProcIO(pid int32) (procIOCounters, bool) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(int(pid)), "io"))
	if err != nil {
		return procIOCounters{}, false
	}
	var c procIOCounters
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		switch fields[0] {
		case "read_bytes:":
			c.readBytes, _ = strconv.ParseUint(fields[1], 10, 64)
		case "write_bytes:":
			c.writeBytes, _ = strconv.ParseUint(fields[1], 10, 64)
		}
	}
	return c, true
}

// groupByParent aggregates raw per-process samples into ProcessGroup rows
// keyed by parent pid, matching the original's build_live_groups: a process
// with no parent in this snapshot groups under its own pid.
func groupByParent(samples []rawProcSample) map[int32]*ProcessGroup {
	byPid := map[int32]rawProcSample{}
	for _, s := range samples {
		byPid[s.pid] = s
	}

	groups := map[int32]*ProcessGroup{}
	for _, s := range samples {
		parent := s.parentPid
		if _, ok := byPid[parent]; parent == 0 || !ok {
			parent = s.pid
		}
		g, ok := groups[parent]
		if !ok {
			parentName := s.name
			if p, ok := byPid[parent]; ok {
				parentName = p.name
			}
			g = &ProcessGroup{ParentPid: parent, Name: parentName}
			groups[parent] = g
		}
		g.CPU += s.cpuPct
		g.MemRSS += s.memRSS
		g.ReadRate += s.readRate
		g.WriteRate += s.writeRate
		g.NetDown += s.netDown
		g.NetUp += s.netUp
		g.Children = append(g.Children, ProcessInfo{Pid: s.pid, Name: s.name, CPU: s.cpuPct, MemRSS: s.memRSS})
		if s.pid != parent {
			g.ChildCount++
		}
	}
	return groups
}
