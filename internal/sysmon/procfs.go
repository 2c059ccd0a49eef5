package sysmon

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rshzrh/sitrep/internal/collector"
)

// hostReader holds the delta state needed across ticks to turn cumulative
// /proc counters into rates, grounded on the teacher's host.go pattern of
// keeping a hasPrev/prev* pair per metric rather than re-deriving state.
type hostReader struct {
	hasPrevCPU          bool
	prevIdle, prevTotal uint64

	prevNet     map[string][2]uint64 // iface -> (rxBytes, txBytes)
	prevNetTime time.Time
}

func newHostReader() *hostReader {
	return &hostReader{prevNet: make(map[string][2]uint64)}
}

// readLoadAvg parses /proc/loadavg's first three fields.
func readLoadAvg() (one, five, fifteen float64) {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0, 0, 0
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return 0, 0, 0
	}
	one, _ = strconv.ParseFloat(fields[0], 64)
	five, _ = strconv.ParseFloat(fields[1], 64)
	fifteen, _ = strconv.ParseFloat(fields[2], 64)
	return
}

// readMemory parses the key fields of /proc/meminfo, which reports kB.
func readMemory() MemoryInfo {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return MemoryInfo{}
	}
	defer f.Close()

	vals := map[string]uint64{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		fields := strings.Fields(parts[1])
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		vals[key] = n * 1024
	}

	total := vals["MemTotal"]
	available := vals["MemAvailable"]
	used := total - available
	return MemoryInfo{
		Total:     total,
		Used:      used,
		Available: available,
		SwapTotal: vals["SwapTotal"],
		SwapUsed:  vals["SwapTotal"] - vals["SwapFree"],
	}
}

// readDiskSpace resolves mounted filesystems from /proc/mounts, keeping
// only real block devices, and reports free-space ratio per mount via
// collector.StatfsSpace (golang.org/x/sys/unix under the hood).
func readDiskSpace() []DiskSpaceInfo {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return nil
	}
	defer f.Close()

	// Keep the shortest mount point per device, matching the teacher's
	// host.go dedup rule (bind mounts and overlays would otherwise repeat
	// the same device at several paths).
	byDevice := map[string]string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		dev, mount := fields[0], fields[1]
		if !strings.HasPrefix(dev, "/dev/") {
			continue
		}
		if existing, ok := byDevice[dev]; !ok || len(mount) < len(existing) {
			byDevice[dev] = mount
		}
	}

	var out []DiskSpaceInfo
	for _, mount := range byDevice {
		total, available, ok := collector.StatfsSpace(mount)
		if !ok || total == 0 {
			continue
		}
		totalGB := float64(total) / 1e9
		availGB := float64(available) / 1e9
		pct := availGB / totalGB * 100
		out = append(out, DiskSpaceInfo{
			MountPoint:  mount,
			TotalGB:     totalGB,
			AvailableGB: availGB,
			PercentFree: pct,
			IsWarning:   pct < 10.0,
		})
	}
	return out
}

// readNetwork parses /proc/net/dev, skipping the loopback interface and
// converting the cumulative byte counters into a rate against the reader's
// previous sample.
func (h *hostReader) readNetwork() []NetworkInterfaceInfo {
	f, err := os.Open("/proc/net/dev")
	if err != nil {
		return nil
	}
	defer f.Close()

	now := time.Now()
	cur := map[string][2]uint64{}
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo <= 2 {
			continue // two header lines
		}
		line := sc.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		if name == "lo" {
			continue
		}
		fields := strings.Fields(parts[1])
		if len(fields) < 9 {
			continue
		}
		rx, err1 := strconv.ParseUint(fields[0], 10, 64)
		tx, err2 := strconv.ParseUint(fields[8], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		cur[name] = [2]uint64{rx, tx}
	}

	var out []NetworkInterfaceInfo
	if !h.prevNetTime.IsZero() {
		dur := now.Sub(h.prevNetTime).Seconds()
		if dur > 0 {
			for name, c := range cur {
				if p, ok := h.prevNet[name]; ok {
					rxRate := uint64(float64(satSub(c[0], p[0])) / dur)
					txRate := uint64(float64(satSub(c[1], p[1])) / dur)
					if rxRate > 0 || txRate > 0 {
						out = append(out, NetworkInterfaceInfo{Name: name, RxRate: rxRate, TxRate: txRate})
					}
				}
			}
		}
	}
	h.prevNet = cur
	h.prevNetTime = now
	return out
}

func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
