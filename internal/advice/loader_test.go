package advice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adviceboard/adviceboard/internal/api"
)

func transientErr() error {
	return &api.Error{Kind: api.KindTransient, Message: "connection refused"}
}

func authErr() error {
	return &api.Error{Kind: api.KindAuthorization, StatusCode: 401, Message: "unauthorized"}
}

func kinds(effects []Effect) []EffectKind {
	out := make([]EffectKind, len(effects))
	for i, e := range effects {
		out[i] = e.Kind
	}
	return out
}

func findEffect(t *testing.T, effects []Effect, kind EffectKind) Effect {
	t.Helper()
	for _, e := range effects {
		if e.Kind == kind {
			return e
		}
	}
	t.Fatalf("no effect of kind %d in %v", kind, effects)
	return Effect{}
}

func TestLoaderStart(t *testing.T) {
	l := NewLoader()
	effects := l.Start()

	assert.Equal(t, PhaseLoading, l.Phase())
	assert.Equal(t, 1, l.Attempt())
	assert.False(t, l.SpinnerVisible(), "spinner stays hidden until the grace delay")
	assert.Equal(t, []EffectKind{EffectFetch, EffectSpinnerTimer}, kinds(effects))
	assert.Equal(t, SpinnerGraceDelay, findEffect(t, effects, EffectSpinnerTimer).Delay)
}

func TestLoaderFastResponseNeverShowsSpinner(t *testing.T) {
	l := NewLoader()
	effects := l.Start()
	graceSeq := findEffect(t, effects, EffectSpinnerTimer).Seq

	l.Succeed()
	require.Equal(t, PhaseLoaded, l.Phase())

	// Grace timer fires after the response already landed.
	l.SpinnerElapsed(graceSeq)
	assert.False(t, l.SpinnerVisible())
}

func TestLoaderSlowResponseShowsSpinner(t *testing.T) {
	l := NewLoader()
	effects := l.Start()

	l.SpinnerElapsed(findEffect(t, effects, EffectSpinnerTimer).Seq)
	assert.True(t, l.SpinnerVisible())

	l.Succeed()
	assert.Equal(t, PhaseLoaded, l.Phase())
	assert.False(t, l.SpinnerVisible())
}

func TestLoaderAuthorizationFailureStopsForGood(t *testing.T) {
	l := NewLoader()
	l.Start()

	effects := l.Fail(authErr())

	assert.Empty(t, effects, "401/403 schedules no retry")
	assert.Equal(t, PhaseUnauthorized, l.Phase())
	assert.False(t, l.SpinnerVisible())
}

func TestLoaderTransientFailureSchedulesRetry(t *testing.T) {
	l := NewLoader()
	l.Start()

	effects := l.Fail(transientErr())

	require.Equal(t, []EffectKind{EffectRetryTimer}, kinds(effects))
	assert.Equal(t, RetryDelay, effects[0].Delay)
	assert.Equal(t, PhaseWaitingRetry, l.Phase())
	assert.True(t, l.SpinnerVisible(), "retry keeps the banner up")
}

func TestLoaderRetryThenSuccess(t *testing.T) {
	l := NewLoader()
	l.Start()
	retry := l.Fail(transientErr())

	effects := l.RetryElapsed(retry[0].Seq)
	require.Equal(t, []EffectKind{EffectFetch}, kinds(effects),
		"spinner already visible, no second grace timer")
	assert.Equal(t, PhaseLoading, l.Phase())
	assert.Equal(t, 2, l.Attempt())

	l.Succeed()
	assert.Equal(t, PhaseLoaded, l.Phase())
	assert.False(t, l.SpinnerVisible())

	// A timer left over from before success must do nothing.
	assert.Empty(t, l.RetryElapsed(retry[0].Seq))
	assert.Equal(t, PhaseLoaded, l.Phase())
}

func TestLoaderRetriesUntilSuccess(t *testing.T) {
	l := NewLoader()
	l.Start()

	for attempt := 1; attempt <= 3; attempt++ {
		assert.Equal(t, attempt, l.Attempt())
		retry := l.Fail(transientErr())
		require.Len(t, retry, 1)
		l.RetryElapsed(retry[0].Seq)
	}

	l.Succeed()
	assert.Equal(t, PhaseLoaded, l.Phase())
}

func TestLoaderStopInvalidatesPendingTimers(t *testing.T) {
	l := NewLoader()
	start := l.Start()
	retry := l.Fail(transientErr())

	l.Stop()
	require.Equal(t, PhaseIdle, l.Phase())

	// Both timers fire after teardown; neither may resurrect the flow.
	l.SpinnerElapsed(findEffect(t, start, EffectSpinnerTimer).Seq)
	assert.False(t, l.SpinnerVisible())

	assert.Empty(t, l.RetryElapsed(retry[0].Seq))
	assert.Equal(t, PhaseIdle, l.Phase())
}

func TestLoaderRestartInvalidatesOldTimers(t *testing.T) {
	l := NewLoader()
	l.Start()
	retry := l.Fail(transientErr())

	// A search submit restarts the load before the retry timer fires.
	second := l.Start()

	assert.Empty(t, l.RetryElapsed(retry[0].Seq), "stale retry from the first run")
	assert.Equal(t, PhaseLoading, l.Phase())
	assert.Equal(t, 1, l.Attempt(), "restart resets the attempt count")

	l.SpinnerElapsed(findEffect(t, second, EffectSpinnerTimer).Seq)
	assert.True(t, l.SpinnerVisible())
}

func TestLoaderStaleSpinnerSeqIgnored(t *testing.T) {
	l := NewLoader()
	first := l.Start()
	staleSeq := findEffect(t, first, EffectSpinnerTimer).Seq

	l.Start()

	l.SpinnerElapsed(staleSeq)
	assert.False(t, l.SpinnerVisible())
}

func TestLoaderFailIgnoredOutsideLoading(t *testing.T) {
	l := NewLoader()
	assert.Empty(t, l.Fail(errors.New("late response")))
	assert.Equal(t, PhaseIdle, l.Phase())

	l.Start()
	l.Succeed()
	assert.Empty(t, l.Fail(transientErr()))
	assert.Equal(t, PhaseLoaded, l.Phase())
}

func TestLoaderRetryAfterSpinnerNotYetVisible(t *testing.T) {
	l := NewLoader()
	l.Start()

	// Fail before the grace timer fires: the banner shows immediately and
	// stays up, so the retry fetch schedules no fresh grace timer.
	retry := l.Fail(transientErr())
	require.True(t, l.SpinnerVisible())

	effects := l.RetryElapsed(retry[0].Seq)
	assert.Equal(t, []EffectKind{EffectFetch}, kinds(effects))
}

func TestLoadPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "loaded", PhaseLoaded.String())
	assert.Equal(t, "unauthorized", PhaseUnauthorized.String())
	assert.Equal(t, "waiting-retry", PhaseWaitingRetry.String())
}
