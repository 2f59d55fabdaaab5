package timerq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A callback may cancel its own key; the record is released when the pass
// completes.
func TestQueue_Flush_selfCancel(t *testing.T) {
	q, clk := newTestQueue(t)
	require.NoError(t, q.Schedule(`k`, 1001, Create, func(key any) {
		q.Cancel(key)
		assert.False(t, q.Exists(key))
	}))
	clk.Advance(1)
	assert.Equal(t, 1, q.Flush())
	assert.False(t, q.Exists(`k`))
	assert.Zero(t, q.Len())
}

// A callback observes its own key as existing while it executes, and the key
// is gone once the pass completes unless it was re-registered.
func TestQueue_Flush_existsDuringOwnCallback(t *testing.T) {
	q, clk := newTestQueue(t)
	var sawSelf bool
	require.NoError(t, q.Schedule(`k`, 1001, Create, func(key any) {
		sawSelf = q.Exists(key)
	}))
	clk.Advance(1)
	assert.Equal(t, 1, q.Flush())
	assert.True(t, sawSelf)
	assert.False(t, q.Exists(`k`))
}

// While a timer is in flight its key is still registered, so a Create-only
// schedule for it fails the same way it would for any existing timer.
func TestQueue_Flush_selfCreateFails(t *testing.T) {
	q, clk := newTestQueue(t)
	require.NoError(t, q.Schedule(`k`, 1001, Create, func(key any) {
		assert.ErrorIs(t, q.Schedule(key, 5, Create, func(any) {}), ErrPermissionDenied)
	}))
	clk.Advance(1)
	assert.Equal(t, 1, q.Flush())
}

// Re-registering during the callback lands on a fresh record that survives
// the pass.
func TestQueue_Flush_selfReregister(t *testing.T) {
	q, clk := newTestQueue(t)
	require.NoError(t, q.Schedule(`k`, 1001, Create, func(key any) {
		assert.NoError(t, q.Schedule(key, 5, Update|Relative, nil))
	}))
	clk.Advance(1)
	assert.Equal(t, 1, q.Flush())
	assert.True(t, q.Exists(`k`))
	wakeup, ok := q.NextWakeup()
	assert.True(t, ok)
	assert.Equal(t, 1006.0, wakeup)
}

// Repeat inside the callback advances from the wakeup the timer fired at, so
// a periodic timer keeps its phase regardless of dispatch latency.
func TestQueue_Flush_selfRepeatKeepsPhase(t *testing.T) {
	q, clk := newTestQueue(t)
	rearm := func(key any) {
		assert.NoError(t, q.Schedule(key, 10, Update|Repeat, nil))
	}
	require.NoError(t, q.Schedule(`k`, 1005, Create, rearm))

	clk.Advance(5.2) // dispatched late, at 1005.2
	require.Equal(t, 1, q.Flush())
	wakeup, _ := q.NextWakeup()
	assert.Equal(t, 1015.0, wakeup)

	clk.Advance(10.3) // 1015.5
	require.Equal(t, 1, q.Flush())
	wakeup, _ = q.NextWakeup()
	assert.Equal(t, 1025.0, wakeup)
}

// A periodic timer that has fallen more than a period behind restarts from
// now rather than scheduling a catch-up burst.
func TestQueue_Flush_selfRepeatFallenBehind(t *testing.T) {
	q, clk := newTestQueue(t)
	require.NoError(t, q.Schedule(`k`, 1005, Create, func(key any) {
		assert.NoError(t, q.Schedule(key, 10, Update|Repeat, nil))
	}))
	clk.Advance(100) // 1100, way past both 1005 and 1015
	require.Equal(t, 1, q.Flush())
	wakeup, ok := q.NextWakeup()
	assert.True(t, ok)
	assert.Equal(t, 1110.0, wakeup)
}

// Canceling and re-creating the key inside the callback leaves the new timer
// in place; the sweep only releases the record it dispatched.
func TestQueue_Flush_selfCancelThenRecreate(t *testing.T) {
	q, clk := newTestQueue(t)
	require.NoError(t, q.Schedule(`k`, 1001, Create, func(key any) {
		q.Cancel(key)
		assert.NoError(t, q.Schedule(key, 1234, Create, func(any) {}))
	}))
	clk.Advance(1)
	assert.Equal(t, 1, q.Flush())
	assert.True(t, q.Exists(`k`))
	wakeup, _ := q.NextWakeup()
	assert.Equal(t, 1234.0, wakeup)
}

// Reset inside a callback empties the queue mid-pass without breaking it.
func TestQueue_Flush_resetDuringCallback(t *testing.T) {
	q, clk := newTestQueue(t)
	var ran []string
	fn := func(key any) { ran = append(ran, key.(string)) }
	require.NoError(t, q.Schedule(`a`, 1001, Create, func(key any) {
		ran = append(ran, key.(string))
		q.Reset()
	}))
	require.NoError(t, q.Schedule(`b`, 1001.5, Create, fn))
	clk.Advance(2)
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, []string{`a`}, ran)
	assert.Zero(t, q.Len())

	// still usable
	require.NoError(t, q.Schedule(`c`, 1003, Create, fn))
	clk.Advance(1)
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, []string{`a`, `c`}, ran)
}

// A nested Flush takes over the pass: it runs the remaining due timers and
// completes the pass's bookkeeping, releasing the outer caller's record too.
func TestQueue_Flush_reentrant(t *testing.T) {
	q, clk := newTestQueue(t)
	var ran []string
	var inner int
	require.NoError(t, q.Schedule(`a`, 1001, Create, func(key any) {
		ran = append(ran, key.(string))
		inner = q.Flush()
		assert.False(t, q.Exists(key), "inner flush completes the pass for the outer record")
	}))
	require.NoError(t, q.Schedule(`b`, 1002, Create, func(key any) {
		ran = append(ran, key.(string))
	}))
	clk.Advance(10)
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, 1, inner)
	assert.Equal(t, []string{`a`, `b`}, ran)
	assert.Zero(t, q.Len())
}

// Re-registering before a nested Flush keeps the fresh record alive through
// the inner pass's bookkeeping.
func TestQueue_Flush_reentrantAfterReregister(t *testing.T) {
	q, clk := newTestQueue(t)
	var ran []string
	require.NoError(t, q.Schedule(`a`, 1001, Create, func(key any) {
		ran = append(ran, key.(string))
		assert.NoError(t, q.Schedule(key, 60, Update|Relative, nil))
		q.Flush()
		assert.True(t, q.Exists(key))
	}))
	require.NoError(t, q.Schedule(`b`, 1002, Create, func(key any) {
		ran = append(ran, key.(string))
	}))
	clk.Advance(10)
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, []string{`a`, `b`}, ran)
	assert.True(t, q.Exists(`a`))
	assert.False(t, q.Exists(`b`))
	assert.Equal(t, 1, q.Len())
}

// A full periodic lifecycle driven by re-arming inside the callback.
func TestQueue_Flush_periodicLifecycle(t *testing.T) {
	q, clk := newTestQueue(t)
	var wakeups []float64
	require.NoError(t, q.Schedule(`tick`, 5, Create|Relative, func(key any) {
		wakeups = append(wakeups, clk.Now())
		if len(wakeups) < 3 {
			assert.NoError(t, q.Schedule(key, 10, Update|Repeat, nil))
		}
	}))

	for i := 0; i < 10 && q.Len() != 0; i++ {
		budget := q.WaitBudgetMillis()
		require.GreaterOrEqual(t, budget, int64(0))
		clk.Advance(float64(budget) / 1000)
		q.Flush()
	}

	assert.Equal(t, []float64{1005, 1015, 1025}, wakeups)
	assert.Zero(t, q.Len())
}
