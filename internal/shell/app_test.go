package shell

import "testing"

func TestTopLevelKindOfMapsDrillDownsToTheirTab(t *testing.T) {
	cases := map[ViewKind]ViewKind{
		ViewSystem:            ViewSystem,
		ViewContainers:        ViewContainers,
		ViewContainerLogs:     ViewContainers,
		ViewSwarm:             ViewSwarm,
		ViewSwarmServiceTasks: ViewSwarm,
		ViewSwarmServiceLogs:  ViewSwarm,
	}
	for in, want := range cases {
		if got := topLevelKindOf(in); got != want {
			t.Errorf("topLevelKindOf(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestNextVisibleTabForwardWraps(t *testing.T) {
	tabs := []ViewKind{ViewSystem, ViewContainers, ViewSwarm}

	next, ok := nextVisibleTab(tabs, ViewSystem, 1)
	if !ok || next != ViewContainers {
		t.Fatalf("forward from System: got %v ok=%v, want Containers", next, ok)
	}
	next, ok = nextVisibleTab(tabs, ViewSwarm, 1)
	if !ok || next != ViewSystem {
		t.Fatalf("forward from Swarm should wrap to System, got %v ok=%v", next, ok)
	}
}

func TestNextVisibleTabBackwardWraps(t *testing.T) {
	tabs := []ViewKind{ViewSystem, ViewContainers, ViewSwarm}

	prev, ok := nextVisibleTab(tabs, ViewSystem, -1)
	if !ok || prev != ViewSwarm {
		t.Fatalf("backward from System should wrap to Swarm, got %v ok=%v", prev, ok)
	}
	prev, ok = nextVisibleTab(tabs, ViewContainers, -1)
	if !ok || prev != ViewSystem {
		t.Fatalf("backward from Containers: got %v ok=%v, want System", prev, ok)
	}
}

func TestNextVisibleTabSkipsUnavailableBackends(t *testing.T) {
	// Docker tab absent because the daemon isn't reachable: cycling from
	// System should land straight on Swarm in both directions.
	tabs := []ViewKind{ViewSystem, ViewSwarm}

	next, ok := nextVisibleTab(tabs, ViewSystem, 1)
	if !ok || next != ViewSwarm {
		t.Fatalf("forward skip: got %v ok=%v, want Swarm", next, ok)
	}
	prev, ok := nextVisibleTab(tabs, ViewSystem, -1)
	if !ok || prev != ViewSwarm {
		t.Fatalf("backward skip: got %v ok=%v, want Swarm", prev, ok)
	}
}

func TestNextVisibleTabEmptyIsNoop(t *testing.T) {
	if _, ok := nextVisibleTab(nil, ViewSystem, 1); ok {
		t.Fatalf("empty tab list must report ok=false")
	}
}

func TestCategoryGroupsViewsForSelectiveRefresh(t *testing.T) {
	cases := map[ViewKind]Category{
		ViewSystem:            CategorySystem,
		ViewContainers:        CategoryDocker,
		ViewContainerLogs:     CategoryDocker,
		ViewSwarm:             CategorySwarm,
		ViewSwarmServiceTasks: CategorySwarm,
		ViewSwarmServiceLogs:  CategorySwarm,
	}
	for kind, want := range cases {
		v := AppView{Kind: kind}
		if got := v.Category(); got != want {
			t.Errorf("AppView{Kind: %v}.Category() = %v, want %v", kind, got, want)
		}
	}
}

func TestUpdateCategoryOnlyTouchesOwningMonitor(t *testing.T) {
	a := newTestApp()

	before := a.sys.Snapshot()
	a.updateCategory(CategorySystem)
	after := a.sys.Snapshot()
	if before == nil && after == nil {
		t.Fatalf("updating CategorySystem should populate the system snapshot")
	}

	// Updating a different category must not touch the system monitor's
	// already-populated snapshot (selective refresh, §8 property 4).
	a.updateCategory(CategoryDocker)
	if got := a.sys.Snapshot(); got != after {
		t.Fatalf("updateCategory(CategoryDocker) must not refresh the system monitor")
	}
}
