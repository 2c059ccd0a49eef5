package sysmon

// SectionID names one collapsible panel on the System view.
type SectionID int

const (
	SectionLoadAverage SectionID = iota
	SectionDiskSpace
	SectionMemory
	SectionCPUProcesses
	SectionDiskIO
	SectionNetwork
	SectionFileDescriptors
	SectionContextSwitches
	SectionSocketOverview
)

func (s SectionID) String() string {
	switch s {
	case SectionLoadAverage:
		return "Load Average"
	case SectionDiskSpace:
		return "Disk Space Warnings"
	case SectionMemory:
		return "Memory Overview"
	case SectionCPUProcesses:
		return "Top 5 CPU Processes (Past 1 Minute)"
	case SectionDiskIO:
		return "Top 5 Disk I/O Processes (Past 1 Minute)"
	case SectionNetwork:
		return "Network & Bandwidth"
	case SectionFileDescriptors:
		return "Open File Descriptors"
	case SectionContextSwitches:
		return "Context Switches"
	case SectionSocketOverview:
		return "TCP/Socket Overview"
	default:
		return "Unknown"
	}
}

// sectionLayout is one entry in the System view's panel ordering.
type sectionLayout struct {
	ID        SectionID
	Collapsed bool
}

// Layout holds the System view's panel order and per-panel collapse state.
// Supplements spec.md (ported from the original implementation's
// layout.rs): a pure UI-state concern, no new backend dependency.
type Layout struct {
	sections []sectionLayout
}

// DefaultLayout returns the default panel ordering. Context Switches and
// Socket Overview start collapsed, matching the reference behavior.
func DefaultLayout() *Layout {
	return &Layout{
		sections: []sectionLayout{
			{ID: SectionLoadAverage},
			{ID: SectionDiskSpace},
			{ID: SectionMemory},
			{ID: SectionCPUProcesses},
			{ID: SectionDiskIO},
			{ID: SectionNetwork},
			{ID: SectionFileDescriptors},
			{ID: SectionContextSwitches, Collapsed: true},
			{ID: SectionSocketOverview, Collapsed: true},
		},
	}
}

// Sections returns the panel ordering.
func (l *Layout) Sections() []SectionID {
	out := make([]SectionID, len(l.sections))
	for i, s := range l.sections {
		out[i] = s.ID
	}
	return out
}

// ToggleSection flips a panel's collapsed state.
func (l *Layout) ToggleSection(id SectionID) {
	for i := range l.sections {
		if l.sections[i].ID == id {
			l.sections[i].Collapsed = !l.sections[i].Collapsed
			return
		}
	}
}

// IsCollapsed reports whether a panel is currently collapsed.
func (l *Layout) IsCollapsed(id SectionID) bool {
	for _, s := range l.sections {
		if s.ID == id {
			return s.Collapsed
		}
	}
	return false
}
