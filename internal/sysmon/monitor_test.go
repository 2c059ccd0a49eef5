package sysmon

import (
	"testing"
	"time"
)

func TestComputeTopProcessesSortsByColumn(t *testing.T) {
	m := &Monitor{ui: NewUIState()}
	m.ui.SortColumn = SortMemory
	m.history = []historyEntry{
		{t: time.Now(), groups: map[int32]*ProcessGroup{
			1: {ParentPid: 1, Name: "a", MemRSS: 100},
			2: {ParentPid: 2, Name: "b", MemRSS: 300},
			3: {ParentPid: 3, Name: "c", MemRSS: 200},
		}},
	}
	top := m.computeTopProcesses()
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	if top[0].ParentPid != 2 || top[1].ParentPid != 3 || top[2].ParentPid != 1 {
		t.Fatalf("unexpected order: %+v", top)
	}
}

func TestComputeTopProcessesCapsAtFive(t *testing.T) {
	m := &Monitor{ui: NewUIState()}
	groups := map[int32]*ProcessGroup{}
	for i := int32(1); i <= 8; i++ {
		groups[i] = &ProcessGroup{ParentPid: i, CPU: float64(i)}
	}
	m.history = []historyEntry{{t: time.Now(), groups: groups}}
	top := m.computeTopProcesses()
	if len(top) != 5 {
		t.Fatalf("len = %d, want 5", len(top))
	}
	if top[0].ParentPid != 8 {
		t.Fatalf("top[0] = %d, want 8 (highest cpu)", top[0].ParentPid)
	}
}

func TestSlidingWindowEvictsOldSamples(t *testing.T) {
	m := New(nil)
	base := time.Now()
	clock := base
	m.now = func() time.Time { return clock }

	// Seed two history entries, then move the clock so the span exceeds 60s; Update itself
	// touches the collector, so we drive the eviction logic directly
	// against m.history the way Update would.
	m.history = []historyEntry{
		{t: base, groups: map[int32]*ProcessGroup{1: {ParentPid: 1, CPU: 10}}},
		{t: base.Add(30 * time.Second), groups: map[int32]*ProcessGroup{1: {ParentPid: 1, CPU: 20}}},
	}
	clock = base.Add(65 * time.Second)
	cutoff := clock.Add(-slidingWindow)
	i := 0
	for i < len(m.history) && m.history[i].t.Before(cutoff) {
		i++
	}
	m.history = m.history[i:]

	if len(m.history) != 1 {
		t.Fatalf("len(history) = %d, want 1 after eviction", len(m.history))
	}
	if m.history[0].t != base.Add(30*time.Second) {
		t.Fatalf("unexpected surviving sample: %v", m.history[0].t)
	}
}

func TestLayoutDefaultsCollapseContextAndSockets(t *testing.T) {
	l := DefaultLayout()
	if !l.IsCollapsed(SectionContextSwitches) {
		t.Error("ContextSwitches should start collapsed")
	}
	if !l.IsCollapsed(SectionSocketOverview) {
		t.Error("SocketOverview should start collapsed")
	}
	if l.IsCollapsed(SectionMemory) {
		t.Error("Memory should start expanded")
	}
	l.ToggleSection(SectionMemory)
	if !l.IsCollapsed(SectionMemory) {
		t.Error("ToggleSection should collapse Memory")
	}
}

func TestPruneExpansionsDropsStalePids(t *testing.T) {
	m := &Monitor{ui: NewUIState()}
	m.ui.ExpandedPids[42] = struct{}{}
	m.ui.ExpandedPids[7] = struct{}{}
	m.pruneExpansions(map[int32]*ProcessGroup{7: {}})
	if _, ok := m.ui.ExpandedPids[42]; ok {
		t.Error("pid 42 should have been pruned")
	}
	if _, ok := m.ui.ExpandedPids[7]; !ok {
		t.Error("pid 7 should survive (still present)")
	}
}
