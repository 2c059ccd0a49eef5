// Package errkind defines the small set of error sentinels monitors use to
// classify failures before converting them into status messages or warnings.
// Errors never cross a monitor boundary in their raw form; callers wrap a
// sentinel with fmt.Errorf("...: %w", err) so the kind can be matched with
// errors.Is rather than by message text. The monitors do not branch on the
// kind: a failed refresh is dropped until the next tick, and a failed
// action's error text goes into the status message.
package errkind

import "errors"

var (
	// ErrBackendUnavailable means the backend itself is unreachable: Docker
	// ping failed, or the node is not a Swarm manager. The owning tab hides.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrTransientIO means a single API or CLI call failed. The monitors
	// show no status message for it; the next tick retries with no special
	// handling.
	ErrTransientIO = errors.New("transient I/O failure")

	// ErrParseError means backend output could not be decoded. Malformed
	// listing rows are skipped without this error and without a warning.
	ErrParseError = errors.New("parse error")

	// ErrActionFailed means a destructive action returned a non-zero
	// status. Shown as a status message; not retried automatically.
	ErrActionFailed = errors.New("action failed")

	// ErrTerminalError means terminal setup or render itself failed. This
	// is the one kind that propagates out of the event loop.
	ErrTerminalError = errors.New("terminal error")

	// ErrUserCancelled means a pending action was rejected or expired.
	// Never surfaced to the user beyond the prompt's own disappearance.
	ErrUserCancelled = errors.New("user cancelled")
)
