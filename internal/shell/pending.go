package shell

import "time"

// PendingKind names which destructive action is awaiting confirmation.
type PendingKind int

const (
	PendingContainerStart PendingKind = iota
	PendingContainerStop
	PendingContainerRestart
	PendingServiceForceUpdate
)

func (k PendingKind) label() string {
	switch k {
	case PendingContainerStart:
		return "start container"
	case PendingContainerStop:
		return "stop container"
	case PendingContainerRestart:
		return "restart container"
	case PendingServiceForceUpdate:
		return "rolling restart service"
	default:
		return "action"
	}
}

// PendingAction is the single in-flight confirmation prompt. At most one
// exists across the whole app per §3's invariant; triggering a new one
// while a prompt is open replaces it outright (Idle -> AwaitingConfirm ->
// {Executing, Idle} per §4.5's FSM).
type PendingAction struct {
	Kind       PendingKind
	TargetID   string
	TargetName string
	ExpiresAt  time.Time
}

const pendingActionTimeout = 5 * time.Second

// triggerPending replaces any existing prompt with a new one expiring in
// 5s, per the FSM's "triggering a new action replaces an existing
// prompt" rule.
func (a *App) triggerPending(kind PendingKind, id, name string, now time.Time) {
	a.pending = &PendingAction{
		Kind:       kind,
		TargetID:   id,
		TargetName: name,
		ExpiresAt:  now.Add(pendingActionTimeout),
	}
}

// expirePending clears the prompt if its deadline has passed. Called
// once per tick (step 2 of the event loop).
func (a *App) expirePending(now time.Time) {
	if a.pending != nil && now.After(a.pending.ExpiresAt) {
		a.pending = nil
	}
}

// confirmPending executes the pending action on its owning monitor and
// clears the prompt (AwaitingConfirm --Y--> Executing).
func (a *App) confirmPending() {
	if a.pending == nil {
		return
	}
	p := a.pending
	a.pending = nil
	switch p.Kind {
	case PendingContainerStart:
		a.docker.Start(p.TargetID)
	case PendingContainerStop:
		a.docker.Stop(p.TargetID)
	case PendingContainerRestart:
		a.docker.Restart(p.TargetID)
	case PendingServiceForceUpdate:
		a.swarm.ForceUpdate(p.TargetID)
	}
}

// rejectPending dismisses the prompt with no backend call
// (AwaitingConfirm --N/Esc--> Idle).
func (a *App) rejectPending() {
	a.pending = nil
}
