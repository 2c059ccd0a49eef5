package shell

// ViewKind names one of the six screens the application can show, the
// Go rendition of the spec's tagged AppView variant.
type ViewKind int

const (
	ViewSystem ViewKind = iota
	ViewContainers
	ViewContainerLogs
	ViewSwarm
	ViewSwarmServiceTasks
	ViewSwarmServiceLogs
)

// AppView is the active screen plus whatever identifiers a drill-down
// view needs to stay pinned to its subject across renders.
type AppView struct {
	Kind        ViewKind
	ContainerID string
	ServiceID   string
	ServiceName string
}

// Category groups a view by which monitor owns it, used by the event
// loop's selective-refresh rule (§8 testable property 4: exactly one
// monitor's Update is invoked per tick, the one matching the active
// view's category).
type Category int

const (
	CategorySystem Category = iota
	CategoryDocker
	CategorySwarm
)

func (v AppView) Category() Category {
	switch v.Kind {
	case ViewContainers, ViewContainerLogs:
		return CategoryDocker
	case ViewSwarm, ViewSwarmServiceTasks, ViewSwarmServiceLogs:
		return CategorySwarm
	default:
		return CategorySystem
	}
}

// IsLogView reports whether this view owns a live log buffer that
// PollLogs should drain each tick.
func (v AppView) IsLogView() bool {
	return v.Kind == ViewContainerLogs || v.Kind == ViewSwarmServiceLogs
}

// RowHandleKind names what a rendered row resolves to when the cursor
// lands on it.
type RowHandleKind int

const (
	HandlePid RowHandleKind = iota
	HandleContainerID
	HandleSwarmOverviewItem
)

// RowHandle pairs a visible display row with the semantic selection it
// represents, per §6's render contract: "returns a row-mapping list
// pairing display-row index with a semantic handle used by input
// handlers to resolve cursor position into a semantic selection."
type RowHandle struct {
	Row  int
	Kind RowHandleKind
	Pid  int32
	ID   string
}

// SwarmOverviewItemKind names what one flattened row of the Swarm
// overview represents, per the supplemented resolve_swarm_overview_item
// feature (§10).
type SwarmOverviewItemKind int

const (
	ItemNodesHeader SwarmOverviewItemKind = iota
	ItemNode
	ItemStackHeader
	ItemService
)

// SwarmOverviewItem is the result of resolving a flattened row index
// against the current Swarm snapshot.
type SwarmOverviewItem struct {
	Kind         SwarmOverviewItemKind
	NodeIndex    int
	StackIndex   int
	ServiceIndex int // index into the stack's ServiceIndices, not the snapshot's Services
}

// Presenter renders one view into a frame and returns the row mapping for
// the rows it drew, per §6's render contract.
type Presenter interface {
	Render(width, height int) (frame string, rows []RowHandle)
}
