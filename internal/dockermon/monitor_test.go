package dockermon

import "testing"

func TestLogBufferCapsAt5000(t *testing.T) {
	b := NewLogBuffer("abc123", "web")
	for i := 0; i < 5000+37; i++ {
		b.PushLine("line")
	}
	if got := len(b.Lines()); got != logBufferCap {
		t.Fatalf("len = %d, want %d", got, logBufferCap)
	}
}

func TestPollActionClearsInProgressOnSuccess(t *testing.T) {
	m := NewMonitor(nil)
	m.actionInProgress.Store(true)
	m.actionResultCh <- actionResult{kind: ActionRestart, id: "abc", err: nil}

	m.PollAction()

	if m.ActionInProgress() {
		t.Error("ActionInProgress should be cleared after a successful result")
	}
	if m.StatusMessage() == "" {
		t.Error("StatusMessage should be set after PollAction drains a result")
	}
}

func TestPollActionNonBlockingWhenEmpty(t *testing.T) {
	m := NewMonitor(nil)
	m.actionInProgress.Store(true)
	m.PollAction() // must not block
	if !m.ActionInProgress() {
		t.Error("ActionInProgress should remain true when no result is pending")
	}
}

func TestDispatchActionRejectsConcurrentTrigger(t *testing.T) {
	m := NewMonitor(nil)
	m.actionInProgress.Store(true)
	// dispatchAction should no-op (CompareAndSwap fails) rather than spawn
	// a second goroutine against a nil client.
	m.Restart("abc")
	select {
	case <-m.actionResultCh:
		t.Fatal("no result should have been produced by a rejected dispatch")
	default:
	}
}

func TestPruneExpansionsDropsVanishedContainers(t *testing.T) {
	m := NewMonitor(nil)
	m.ui.ExpandedIDs["gone"] = struct{}{}
	m.ui.ExpandedIDs["stays"] = struct{}{}
	m.pruneExpansions([]Container{{ID: "stays"}})
	if _, ok := m.ui.ExpandedIDs["gone"]; ok {
		t.Error("gone should have been pruned")
	}
	if _, ok := m.ui.ExpandedIDs["stays"]; !ok {
		t.Error("stays should survive")
	}
}
