package shell

import (
	"testing"

	"github.com/rshzrh/sitrep/internal/swarmmon"
)

func sampleSwarmData() *swarmmon.MonitorData {
	return &swarmmon.MonitorData{
		Available: true,
		Nodes: []swarmmon.Node{
			{Hostname: "node-a"},
			{Hostname: "node-b"},
		},
		Services: []swarmmon.Service{
			{ID: "svc-1", Name: "web"},
			{ID: "svc-2", Name: "worker"},
			{ID: "svc-3", Name: "cache"},
		},
		Stacks: []swarmmon.Stack{
			{Name: "frontend", ServiceIndices: []int{0}},
			{Name: "backend", ServiceIndices: []int{1, 2}},
		},
	}
}

func TestResolveSwarmOverviewItemHeaderAndNodes(t *testing.T) {
	data := sampleSwarmData()
	expanded := map[string]struct{}{}

	item, ok := resolveSwarmOverviewItem(data, expanded, 0)
	if !ok || item.Kind != ItemNodesHeader {
		t.Fatalf("row 0: want nodes header, got %+v ok=%v", item, ok)
	}

	item, ok = resolveSwarmOverviewItem(data, expanded, 1)
	if !ok || item.Kind != ItemNode || item.NodeIndex != 0 {
		t.Fatalf("row 1: want node 0, got %+v ok=%v", item, ok)
	}

	item, ok = resolveSwarmOverviewItem(data, expanded, 2)
	if !ok || item.Kind != ItemNode || item.NodeIndex != 1 {
		t.Fatalf("row 2: want node 1, got %+v ok=%v", item, ok)
	}
}

func TestResolveSwarmOverviewItemCollapsedStacks(t *testing.T) {
	data := sampleSwarmData()
	expanded := map[string]struct{}{}

	// header(1) + nodes(2) = rows 0-2; stack headers follow at 3, 4.
	item, ok := resolveSwarmOverviewItem(data, expanded, 3)
	if !ok || item.Kind != ItemStackHeader || item.StackIndex != 0 {
		t.Fatalf("row 3: want stack header 0, got %+v ok=%v", item, ok)
	}
	item, ok = resolveSwarmOverviewItem(data, expanded, 4)
	if !ok || item.Kind != ItemStackHeader || item.StackIndex != 1 {
		t.Fatalf("row 4: want stack header 1, got %+v ok=%v", item, ok)
	}
	// nothing past the second stack header when both are collapsed.
	if _, ok := resolveSwarmOverviewItem(data, expanded, 5); ok {
		t.Fatalf("row 5: want out of range with both stacks collapsed")
	}
}

func TestResolveSwarmOverviewItemExpandedStacks(t *testing.T) {
	data := sampleSwarmData()
	expanded := map[string]struct{}{"backend": {}}

	// header(0) + nodes(1,2) + frontend header(3) + backend header(4) +
	// backend's two services (5,6), frontend stays collapsed.
	item, ok := resolveSwarmOverviewItem(data, expanded, 5)
	if !ok || item.Kind != ItemService || item.StackIndex != 1 || item.ServiceIndex != 0 {
		t.Fatalf("row 5: want backend service 0, got %+v ok=%v", item, ok)
	}
	item, ok = resolveSwarmOverviewItem(data, expanded, 6)
	if !ok || item.Kind != ItemService || item.StackIndex != 1 || item.ServiceIndex != 1 {
		t.Fatalf("row 6: want backend service 1, got %+v ok=%v", item, ok)
	}
	if _, ok := resolveSwarmOverviewItem(data, expanded, 7); ok {
		t.Fatalf("row 7: want out of range")
	}
}

func TestResolveSwarmOverviewItemOutOfRange(t *testing.T) {
	data := sampleSwarmData()
	expanded := map[string]struct{}{}

	if _, ok := resolveSwarmOverviewItem(data, expanded, -1); ok {
		t.Fatalf("negative row should never resolve")
	}
	if _, ok := resolveSwarmOverviewItem(nil, expanded, 0); ok {
		t.Fatalf("nil snapshot should never resolve")
	}
}

func TestSwarmOverviewRowCountMatchesResolvableRows(t *testing.T) {
	data := sampleSwarmData()
	expanded := map[string]struct{}{"frontend": {}, "backend": {}}

	count := swarmOverviewRowCount(data, expanded)
	for i := 0; i < count; i++ {
		if _, ok := resolveSwarmOverviewItem(data, expanded, i); !ok {
			t.Fatalf("row %d within row count %d did not resolve", i, count)
		}
	}
	if _, ok := resolveSwarmOverviewItem(data, expanded, count); ok {
		t.Fatalf("row %d at row count boundary should not resolve", count)
	}
}

func TestSwarmOverviewRowCountEmptySnapshot(t *testing.T) {
	if got := swarmOverviewRowCount(nil, nil); got != 0 {
		t.Fatalf("nil snapshot: want 0 rows, got %d", got)
	}
}
