package shell

import "github.com/rshzrh/sitrep/internal/swarmmon"

// resolveSwarmOverviewItem maps a flat selected-row index in the Swarm
// overview's rendered list to the semantic item it represents. Ported
// from the original implementation's resolve_swarm_overview_item (§10,
// supplemented) as a pure, independently testable function rather than
// inlined into the key handler.
//
// The flattened layout is: a "Nodes" header row, one row per node, then
// for every stack a header row followed by one row per service in that
// stack (expanded stacks only contribute their service rows; collapsed
// stacks contribute just the header). ok is false when row is out of
// range for the given snapshot.
func resolveSwarmOverviewItem(data *swarmmon.MonitorData, expanded map[string]struct{}, row int) (SwarmOverviewItem, bool) {
	if data == nil || row < 0 {
		return SwarmOverviewItem{}, false
	}

	cursor := 0
	if row == cursor {
		return SwarmOverviewItem{Kind: ItemNodesHeader}, true
	}
	cursor++

	for i := range data.Nodes {
		if row == cursor {
			return SwarmOverviewItem{Kind: ItemNode, NodeIndex: i}, true
		}
		cursor++
	}

	for si, st := range data.Stacks {
		if row == cursor {
			return SwarmOverviewItem{Kind: ItemStackHeader, StackIndex: si}, true
		}
		cursor++

		if _, isExpanded := expanded[st.Name]; !isExpanded {
			continue
		}
		for svi := range st.ServiceIndices {
			if row == cursor {
				return SwarmOverviewItem{Kind: ItemService, StackIndex: si, ServiceIndex: svi}, true
			}
			cursor++
		}
	}

	return SwarmOverviewItem{}, false
}

// swarmOverviewRowCount returns how many flattened rows the current
// expansion set produces, used to clamp the cursor after a refresh.
func swarmOverviewRowCount(data *swarmmon.MonitorData, expanded map[string]struct{}) int {
	if data == nil {
		return 0
	}
	n := 1 + len(data.Nodes) // header + nodes
	for _, st := range data.Stacks {
		n++ // stack header
		if _, ok := expanded[st.Name]; ok {
			n += len(st.ServiceIndices)
		}
	}
	return n
}
