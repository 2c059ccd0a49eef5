package shell

import (
	"log/slog"
	"testing"
	"time"
)

func newTestApp() *App {
	return New(slog.New(slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelError + 1})))
}

func TestTriggerPendingSetsExpiry(t *testing.T) {
	a := newTestApp()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	a.triggerPending(PendingContainerStop, "c1", "web", now)
	if a.pending == nil {
		t.Fatalf("expected a pending action")
	}
	if want := now.Add(pendingActionTimeout); !a.pending.ExpiresAt.Equal(want) {
		t.Fatalf("expiry = %v, want %v", a.pending.ExpiresAt, want)
	}
}

func TestTriggerPendingReplacesExisting(t *testing.T) {
	a := newTestApp()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	a.triggerPending(PendingContainerStop, "c1", "web", now)
	a.triggerPending(PendingContainerRestart, "c2", "db", now.Add(time.Second))

	if a.pending.Kind != PendingContainerRestart || a.pending.TargetID != "c2" {
		t.Fatalf("second trigger should replace the first, got %+v", a.pending)
	}
}

func TestExpirePendingClearsAfterDeadline(t *testing.T) {
	a := newTestApp()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a.triggerPending(PendingContainerStop, "c1", "web", start)

	a.expirePending(start.Add(pendingActionTimeout - time.Millisecond))
	if a.pending == nil {
		t.Fatalf("pending action expired too early")
	}

	a.expirePending(start.Add(pendingActionTimeout + time.Millisecond))
	if a.pending != nil {
		t.Fatalf("pending action should have expired")
	}
}

func TestRejectPendingClearsWithoutAction(t *testing.T) {
	a := newTestApp()
	a.triggerPending(PendingServiceForceUpdate, "s1", "api", time.Now())
	a.rejectPending()
	if a.pending != nil {
		t.Fatalf("reject should clear the pending action")
	}
}

func TestConfirmPendingClearsPrompt(t *testing.T) {
	a := newTestApp()
	a.triggerPending(PendingContainerStop, "c1", "web", time.Now())
	a.confirmPending()
	if a.pending != nil {
		t.Fatalf("confirm should clear the pending action")
	}
}

func TestConfirmPendingNoopWhenNoneSet(t *testing.T) {
	a := newTestApp()
	a.confirmPending() // must not panic with a nil docker/swarm client target
	if a.pending != nil {
		t.Fatalf("confirm with no pending action should remain a no-op")
	}
}

func TestConfirmPendingStartDispatchesToDockerMonitor(t *testing.T) {
	a := newTestApp()
	a.triggerPending(PendingContainerStart, "c1", "web", time.Now())
	a.confirmPending()
	if a.pending != nil {
		t.Fatalf("confirm should clear the pending action")
	}
	if !a.docker.ActionInProgress() {
		t.Fatalf("confirming a start action should dispatch it on the docker monitor")
	}
}
