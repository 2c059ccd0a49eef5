package dockermon

import "github.com/rshzrh/sitrep/internal/ring"

const logBufferCap = 5000

// LogBuffer is a container's live-tail log ring, allocated when the log
// view is entered and released when it is left.
type LogBuffer struct {
	ContainerID   string
	ContainerName string
	lines         *ring.Buffer[string]
	AutoFollow    bool
	SearchMode    bool
	SearchQuery   string
}

// NewLogBuffer allocates a ring-backed log buffer for one container.
func NewLogBuffer(id, name string) *LogBuffer {
	return &LogBuffer{
		ContainerID:   id,
		ContainerName: name,
		lines:         ring.New[string](logBufferCap),
		AutoFollow:    true,
	}
}

// PushLine appends a line to the tail, evicting the oldest line at 5000.
func (b *LogBuffer) PushLine(line string) { b.lines.Push(line) }

// Lines returns the buffer's current contents, oldest first.
func (b *LogBuffer) Lines() []string { return b.lines.Slice() }

// UIState is the Docker monitor's per-session presentation state.
type UIState struct {
	SelectedIndex int
	TotalRows     int
	ExpandedIDs   map[string]struct{}
}

// NewUIState returns fresh Docker monitor UI-state.
func NewUIState() *UIState {
	return &UIState{ExpandedIDs: make(map[string]struct{})}
}

// ActionKind names a container lifecycle action.
type ActionKind int

const (
	ActionStart ActionKind = iota
	ActionStop
	ActionRestart
)

func (k ActionKind) String() string {
	switch k {
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	case ActionRestart:
		return "restart"
	default:
		return "unknown"
	}
}
