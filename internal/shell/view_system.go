package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	units "github.com/docker/go-units"

	"github.com/rshzrh/sitrep/internal/sysmon"
)

// renderSystemView draws the host report: load average, memory, disk,
// network, file descriptors, context switches, sockets, and the top-5
// process table. Collapsed sections (per sysmon.Layout) render only
// their header line.
func (a *App) renderSystemView(w, h int) (string, []RowHandle) {
	data := a.sys.Snapshot()
	if data == nil {
		return centerText("waiting for first sample...", w), nil
	}
	ui := a.sys.UIState()
	t := a.theme

	var b strings.Builder
	var rows []RowHandle
	line := 0

	writeLine := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
		line++
	}

	if ui.Paused {
		writeLine(lipgloss.NewStyle().Foreground(t.Warning).Render("PAUSED — press space to resume"))
	}

	for _, sec := range ui.Layout.Sections() {
		collapsed := ui.Layout.IsCollapsed(sec)
		marker := "▾"
		if collapsed {
			marker = "▸"
		}
		writeLine(accentStyle(t).Bold(true).Render(marker+" "+sec.String()))
		if collapsed {
			continue
		}
		switch sec {
		case sysmon.SectionLoadAverage:
			writeLine(fmt.Sprintf("  %.2f %.2f %.2f  (%d cores)", data.LoadAvg1, data.LoadAvg5, data.LoadAvg15, int(data.CoreCount)))
		case sysmon.SectionDiskSpace:
			for _, d := range data.DiskSpace {
				color := t.UsageColor(100 - d.PercentFree)
				pctLabel := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%.0f%%", d.PercentFree))
				writeLine(fmt.Sprintf("  %-20s %s free of %s (%s)", d.MountPoint,
					units.HumanSize(d.AvailableGB*1e9), units.HumanSize(d.TotalGB*1e9), pctLabel))
			}
		case sysmon.SectionMemory:
			m := data.Memory
			usedPct := 0.0
			if m.Total > 0 {
				usedPct = float64(m.Used) / float64(m.Total) * 100
			}
			writeLine(fmt.Sprintf("  mem  %s / %s (%s)", units.HumanSize(float64(m.Used)), units.HumanSize(float64(m.Total)),
				lipgloss.NewStyle().Foreground(t.UsageColor(usedPct)).Render(fmt.Sprintf("%.0f%%", usedPct))))
			if m.SwapTotal > 0 {
				writeLine(fmt.Sprintf("  swap %s / %s", units.HumanSize(float64(m.SwapUsed)), units.HumanSize(float64(m.SwapTotal))))
			}
		case sysmon.SectionCPUProcesses:
			for i, pg := range data.TopProcesses {
				prefix := "  "
				if i == ui.SelectedRow {
					prefix = "> "
				}
				_, expanded := ui.ExpandedPids[pg.ParentPid]
				exp := "+"
				if expanded {
					exp = "-"
				}
				row := fmt.Sprintf("%s%s pid=%-7d %-20s cpu=%5.1f%% mem=%8s io(r/w)=%s/%s net(d/u)=%s/%s",
					prefix, exp, pg.ParentPid, truncate(pg.Name, 20), pg.CPU, units.HumanSize(float64(pg.MemRSS)),
					units.HumanSize(pg.ReadRate), units.HumanSize(pg.WriteRate),
					units.HumanSize(pg.NetDown), units.HumanSize(pg.NetUp))
				if i == ui.SelectedRow {
					row = cursorRow(row, w)
				}
				writeLine(row)
				rows = append(rows, RowHandle{Row: line - 1, Kind: HandlePid, Pid: pg.ParentPid})
				if expanded {
					for _, c := range pg.Children {
						writeLine(fmt.Sprintf("      ↳ pid=%-7d %-20s cpu=%5.1f%%", c.Pid, truncate(c.Name, 20), c.CPU))
					}
				}
			}
		case sysmon.SectionDiskIO:
			writeLine(fmt.Sprintf("  disk busy: %s", diskBusyLabel(data.DiskBusyKnown, data.DiskBusyPct)))
		case sysmon.SectionNetwork:
			for _, n := range data.Network.Interfaces {
				writeLine(fmt.Sprintf("  %-10s down=%s/s up=%s/s", n.Name, units.HumanSize(float64(n.RxRate)), units.HumanSize(float64(n.TxRate))))
			}
		case sysmon.SectionFileDescriptors:
			writeLine(fmt.Sprintf("  %s", fdLabel(data.FDAvailable, data.FDTotal, data.FDLimit)))
		case sysmon.SectionContextSwitches:
			writeLine(fmt.Sprintf("  %s", ctxswLabel(data.CtxSwitchAvailable, data.CtxSwitchTotal)))
		case sysmon.SectionSocketOverview:
			writeLine(fmt.Sprintf("  established=%d time_wait=%d close_wait=%d", data.Network.Established, data.Network.TimeWait, data.Network.CloseWait))
		}
	}

	content := pageFrame(b.String(), w, h)
	return content, rows
}

func diskBusyLabel(known bool, pct float64) string {
	if !known {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", pct)
}

func fdLabel(available bool, total, limit int64) string {
	if !available {
		return "—"
	}
	return fmt.Sprintf("%d / %d", total, limit)
}

func ctxswLabel(available bool, total int64) string {
	if !available {
		return "—"
	}
	return fmt.Sprintf("%d", total)
}

// pageFrame pads/trims content vertically to fill exactly h lines,
// matching the teacher's pageFrame helper for fixed-height views.
func pageFrame(content string, w, h int) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}
