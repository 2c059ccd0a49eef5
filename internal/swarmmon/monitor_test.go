package swarmmon

import "testing"

func TestBuildStacksGroupsByLabel(t *testing.T) {
	services := []Service{
		{ID: "1", Name: "web", Stack: "myapp"},
		{ID: "2", Name: "db", Stack: "myapp"},
		{ID: "3", Name: "standalone-svc", Stack: ""},
	}
	stacks := buildStacks(services)
	if len(stacks) != 2 {
		t.Fatalf("got %d stacks, want 2", len(stacks))
	}
	byName := map[string]Stack{}
	for _, s := range stacks {
		byName[s.Name] = s
	}
	if got := len(byName["myapp"].ServiceIndices); got != 2 {
		t.Errorf("myapp stack has %d services, want 2", got)
	}
	if got := len(byName["standalone-svc"].ServiceIndices); got != 1 {
		t.Errorf("fallback stack has %d services, want 1", got)
	}
	for _, st := range stacks {
		for _, idx := range st.ServiceIndices {
			if idx < 0 || idx >= len(services) {
				t.Fatalf("stack %q has out-of-range index %d", st.Name, idx)
			}
		}
	}
}

func TestBuildStacksSortedForStableIndices(t *testing.T) {
	services := []Service{
		{ID: "1", Name: "z", Stack: "zstack"},
		{ID: "2", Name: "a", Stack: "astack"},
	}
	stacks := buildStacks(services)
	if stacks[0].Name != "astack" || stacks[1].Name != "zstack" {
		t.Fatalf("stacks not sorted: %v", stacks)
	}
}

func TestGenerateWarningsFlagsUnreadyNode(t *testing.T) {
	nodes := []Node{{Hostname: "node1", Status: "Down", Availability: "Active"}}
	warnings := generateWarnings(nil, nodes, nil)
	if len(warnings) != 1 || warnings[0].Severity != WarnCritical {
		t.Fatalf("expected one critical warning, got %v", warnings)
	}
}

func TestGenerateWarningsFlagsDrainedNodeSeparatelyFromDown(t *testing.T) {
	nodes := []Node{
		{Hostname: "node1", Status: "Down", Availability: "Active"},
		{Hostname: "node2", Status: "Ready", Availability: "Drain"},
	}
	warnings := generateWarnings(nil, nodes, nil)
	if len(warnings) != 2 {
		t.Fatalf("expected one down + one drain warning, got %v", warnings)
	}
	if warnings[0].Severity != WarnCritical {
		t.Errorf("down node warning should be critical, got %v", warnings[0])
	}
	if warnings[1].Severity != WarnDegraded {
		t.Errorf("drained node warning should be degraded, got %v", warnings[1])
	}
}

func TestGenerateWarningsFlagsUnderReplicatedService(t *testing.T) {
	services := []Service{{ID: "svc1", Name: "web", Replicas: "1/3"}}
	warnings := generateWarnings(nil, nil, services)
	if len(warnings) != 1 || warnings[0].Severity != WarnDegraded {
		t.Fatalf("expected one degraded warning, got %v", warnings)
	}
}

func TestGenerateWarningsFlagsLowManagers(t *testing.T) {
	info := &ClusterInfo{Managers: 1, Nodes: 5}
	warnings := generateWarnings(info, nil, nil)
	if len(warnings) != 1 || warnings[0].Severity != WarnDegraded {
		t.Fatalf("expected one low-managers warning, got %v", warnings)
	}
}

func TestGenerateWarningsNoFalsePositiveOnHealthyCluster(t *testing.T) {
	info := &ClusterInfo{Managers: 3, Nodes: 3}
	nodes := []Node{{Hostname: "node1", Status: "Ready", Availability: "Active"}}
	services := []Service{{ID: "svc1", Name: "web", Replicas: "3/3"}}
	warnings := generateWarnings(info, nodes, services)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestParseReplicaCounts(t *testing.T) {
	cases := map[string][2]int{"1/3": {1, 3}, "0/1": {0, 1}}
	for in, want := range cases {
		current, desired, ok := parseReplicaCounts(in)
		if !ok || current != want[0] || desired != want[1] {
			t.Errorf("parseReplicaCounts(%q) = %d,%d,%v want %d,%d", in, current, desired, ok, want[0], want[1])
		}
	}
	if _, _, ok := parseReplicaCounts("global"); ok {
		t.Errorf("parseReplicaCounts(%q) should fail for global mode", "global")
	}
}

func TestGoBackPopsOneLevelAtATime(t *testing.T) {
	m := NewMonitor(nil)
	m.ui.Level = ViewServiceTasks
	m.ui.SelectedServiceID = "svc1"
	m.GoBack()
	if m.ui.Level != ViewOverview {
		t.Fatalf("level = %v, want ViewOverview", m.ui.Level)
	}
	if m.ui.SelectedServiceID != "" {
		t.Errorf("SelectedServiceID should be cleared, got %q", m.ui.SelectedServiceID)
	}
}

func TestDispatchActionRejectsConcurrentTrigger(t *testing.T) {
	m := NewMonitor(nil)
	m.actionInProgress.Store(true)
	m.ForceUpdate("svc1")
	select {
	case <-m.actionResultCh:
		t.Fatal("no result should have been produced by a rejected dispatch")
	default:
	}
}

func TestPollActionNonBlockingWhenEmpty(t *testing.T) {
	m := NewMonitor(nil)
	m.actionInProgress.Store(true)
	m.PollAction()
	if !m.ActionInProgress() {
		t.Error("ActionInProgress should remain true when no result is pending")
	}
}

func TestUpdateIsNoOpWhileStandalone(t *testing.T) {
	m := NewMonitor(nil)
	m.standalone = true
	m.Update(nil) // must not panic on nil ctx or a nil client: standalone Update never reaches them.
	if !m.standalone {
		t.Fatalf("standalone should remain true: Update must not itself re-detect swarm availability")
	}
}
