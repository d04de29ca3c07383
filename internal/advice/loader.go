package advice

import (
	"fmt"
	"time"

	"github.com/adviceboard/adviceboard/internal/api"
	"github.com/adviceboard/adviceboard/internal/logging"
)

const (
	// SpinnerGraceDelay is how long a load must stay outstanding before the
	// spinner becomes visible. Faster responses never show it.
	SpinnerGraceDelay = 400 * time.Millisecond

	// RetryDelay is the fixed pause between transient-failure retries of the
	// list load.
	RetryDelay = 3 * time.Second
)

// LoadPhase is the state of the advice-list load flow.
type LoadPhase int

const (
	// PhaseIdle: nothing loaded, nothing in flight (initial and stopped).
	PhaseIdle LoadPhase = iota
	// PhaseLoading: a fetch is outstanding.
	PhaseLoading
	// PhaseLoaded: the last fetch succeeded.
	PhaseLoaded
	// PhaseUnauthorized: the last fetch failed with 401/403. No retry.
	PhaseUnauthorized
	// PhaseWaitingRetry: the last fetch failed transiently; a retry is due.
	PhaseWaitingRetry
)

// String returns a short name for the phase.
func (p LoadPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseUnauthorized:
		return "unauthorized"
	case PhaseWaitingRetry:
		return "waiting-retry"
	default:
		return fmt.Sprintf("LoadPhase(%d)", int(p))
	}
}

// EffectKind tells the driver what to do next. The loader itself never
// touches the network or a clock, which is what makes it testable without
// either.
type EffectKind int

const (
	// EffectFetch: issue the list fetch now.
	EffectFetch EffectKind = iota
	// EffectSpinnerTimer: call SpinnerElapsed(Seq) after Delay.
	EffectSpinnerTimer
	// EffectRetryTimer: call RetryElapsed(Seq) after Delay.
	EffectRetryTimer
)

// Effect is one instruction for the driver (the TUI maps these onto
// tea.Tick commands; tests call the callbacks directly).
type Effect struct {
	Kind  EffectKind
	Delay time.Duration
	Seq   int
}

// Loader is the load/retry/spinner state machine for a list view. Every
// scheduled timer carries a sequence number; bumping the counter invalidates
// timers that are already in flight, so a stale firing is ignored rather
// than cancelled. Stop bumps everything, which is how view teardown
// guarantees no late state updates.
type Loader struct {
	phase          LoadPhase
	spinnerVisible bool
	attempt        int

	spinnerSeq int
	retrySeq   int
}

// NewLoader returns an idle loader.
func NewLoader() *Loader {
	return &Loader{phase: PhaseIdle}
}

// Phase returns the current phase.
func (l *Loader) Phase() LoadPhase { return l.phase }

// SpinnerVisible reports whether the spinner (or retry banner) should show.
func (l *Loader) SpinnerVisible() bool { return l.spinnerVisible }

// Attempt returns the current attempt number, 1-based while active.
func (l *Loader) Attempt() int { return l.attempt }

// Start begins a fresh load (mount, reset, or search submit). Any pending
// timers are invalidated; the spinner stays hidden until the grace delay
// elapses with the fetch still outstanding.
func (l *Loader) Start() []Effect {
	l.phase = PhaseLoading
	l.spinnerVisible = false
	l.attempt = 1
	l.spinnerSeq++
	l.retrySeq++

	return []Effect{
		{Kind: EffectFetch},
		{Kind: EffectSpinnerTimer, Delay: SpinnerGraceDelay, Seq: l.spinnerSeq},
	}
}

// Succeed records a successful fetch: list replaces previous contents
// (caller's job), error flags clear, pending timers are invalidated, and no
// further retry is ever scheduled.
func (l *Loader) Succeed() {
	if l.phase != PhaseLoading {
		return
	}
	l.phase = PhaseLoaded
	l.spinnerVisible = false
	l.attempt = 0
	l.spinnerSeq++
	l.retrySeq++
}

// Fail records a failed fetch. Authorization failures stop the flow for
// good; anything else schedules a retry after the fixed delay and keeps the
// banner visible.
func (l *Loader) Fail(err error) []Effect {
	if l.phase != PhaseLoading {
		return nil
	}

	l.spinnerSeq++ // the grace timer no longer applies either way

	if api.IsAuthorization(err) {
		l.phase = PhaseUnauthorized
		l.spinnerVisible = false
		l.attempt = 0
		l.retrySeq++
		return nil
	}

	l.phase = PhaseWaitingRetry
	l.spinnerVisible = true
	l.retrySeq++
	logging.LogRetry(l.attempt, RetryDelay)

	return []Effect{
		{Kind: EffectRetryTimer, Delay: RetryDelay, Seq: l.retrySeq},
	}
}

// SpinnerElapsed is called when the grace timer fires. Stale sequence
// numbers are ignored; the spinner shows only if the fetch is still
// outstanding.
func (l *Loader) SpinnerElapsed(seq int) {
	if seq != l.spinnerSeq || l.phase != PhaseLoading {
		return
	}
	l.spinnerVisible = true
}

// RetryElapsed is called when the retry timer fires. A current sequence
// number re-enters Loading and fetches again, keeping the attempt count;
// stale firings do nothing.
func (l *Loader) RetryElapsed(seq int) []Effect {
	if seq != l.retrySeq || l.phase != PhaseWaitingRetry {
		return nil
	}

	l.phase = PhaseLoading
	l.attempt++
	l.spinnerSeq++

	effects := []Effect{{Kind: EffectFetch}}
	if !l.spinnerVisible {
		effects = append(effects, Effect{Kind: EffectSpinnerTimer, Delay: SpinnerGraceDelay, Seq: l.spinnerSeq})
	}
	return effects
}

// Stop tears the flow down (view unmount). All pending timers are
// invalidated so nothing fires into a dead view, and the retry loop ends.
func (l *Loader) Stop() {
	l.phase = PhaseIdle
	l.spinnerVisible = false
	l.attempt = 0
	l.spinnerSeq++
	l.retrySeq++
}
