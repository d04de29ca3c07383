// Package advice holds the presentation-agnostic logic between the views and
// the API client: action helpers (validate, call, translate errors, confirm
// destructive actions), the search filter state, and the load/retry state
// machine that drives the list views.
//
// # Error handling
//
// Action helpers classify every failure before it reaches a view:
//   - *ValidationError: local, pre-network, human-readable
//   - ErrCancelled: confirmation declined - a silent no-op, not a failure
//   - translated API errors: ownership messages for 403 on deletes, the
//     server's message field when present, generic fallbacks otherwise
//
// Views render UserMessage(err) and never inspect status codes.
//
// # The loader
//
// Loader is an explicit state machine (Idle, Loading, Loaded, Unauthorized,
// WaitingRetry). It returns effects instead of touching timers or the
// network, and every scheduled timer carries a sequence number so that
// stale firings after Stop or after an early response are ignored. The TUI
// maps effects onto tea.Tick commands; tests drive the machine directly.
package advice
