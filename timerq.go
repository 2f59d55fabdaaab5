package timerq

import (
	"math"

	"github.com/joeycumines/logiface"
)

const (
	// flushSlack widens the due check by one millisecond, the resolution this
	// package works at, so a timer missed by scheduling jitter between the
	// wait and the flush still fires.
	flushSlack = 0.001

	// maxWaitMillis caps WaitBudgetMillis at a quarter of the largest 32-bit
	// value, leaving headroom in whatever native type the caller's wait
	// primitive uses.
	maxWaitMillis = (1<<32 - 1) / 4

	defaultCapacity = 16
)

type (
	// TimerFunc is a timer callback. It receives the key the timer was
	// scheduled under.
	TimerFunc func(key any)

	// Flags is a bitset controlling [Queue.Schedule] behavior.
	Flags uint

	// Queue schedules callbacks against a monotonic clock, in seconds. It is
	// owned by a single goroutine, typically the one running an event loop,
	// and is not safe for concurrent use. Callbacks run synchronously within
	// [Queue.Flush], and may themselves schedule, cancel, or query timers,
	// including their own.
	//
	// Use [New] to construct instances.
	Queue struct {
		pending  *ringBuffer
		inflight []*timer
		byKey    map[any]*timer
		now      func() float64
		logger   *logiface.Logger[logiface.Event]
	}

	// timer is one scheduled callback. The queue owns every record; byKey
	// maps each key to its current record, whether pending or in flight.
	timer struct {
		key    any
		fn     TimerFunc
		wakeup float64
	}
)

const (
	// Create permits Schedule to create a timer for a key that has none.
	Create Flags = 1 << iota

	// Update permits Schedule to modify the timer a key already has.
	Update

	// Relative interprets the wakeup spec as an offset from now rather than
	// an absolute time.
	Relative

	// Repeat interprets the wakeup spec as a period added to the timer's
	// previous wakeup. On first registration it behaves as Relative.
	Repeat
)

// New constructs a Queue.
func New(opts ...Option) (*Queue, error) {
	cfg, err := resolveQueueOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Queue{
		pending: newRingBuffer(ceilPow2(cfg.capacity)),
		byKey:   make(map[any]*timer),
		now:     cfg.now,
		logger:  cfg.logger,
	}, nil
}

// Schedule creates or updates the timer for key, which must be comparable in
// the same sense as a map key. At most one timer exists per key; the flags
// decide whether a missing timer may be created (Create) and whether an
// existing one may be modified (Update), failing with [ErrNotFound] or
// [ErrPermissionDenied] respectively when not.
//
// spec is in seconds: an absolute monotonic time by default, an offset from
// now with Relative, or, with Repeat, a period added to the timer's previous
// wakeup. A Repeat wakeup that has already passed restarts from now plus the
// period, trading strict periodic phase for forward progress when the
// consumer has fallen behind.
//
// A NaN spec fails with [ErrInvalidTime]. A nil fn retains the existing
// callback when updating; Schedule panics when asked to create a timer with
// nil fn.
func (x *Queue) Schedule(key any, spec float64, flags Flags, fn TimerFunc) error {
	if math.IsNaN(spec) {
		return ErrInvalidTime
	}

	t := x.byKey[key]
	if t == nil {
		if flags&Create == 0 {
			return ErrNotFound
		}
		if fn == nil {
			panic(`timerq: schedule: nil fn`)
		}
		if flags&(Relative|Repeat) != 0 {
			spec += x.now()
		}
		t = &timer{key: key, fn: fn, wakeup: spec}
		x.byKey[key] = t
		x.insert(t)
		x.logger.Trace().
			Interface(`key`, key).
			Float64(`wakeup`, t.wakeup).
			Log(`timer created`)
		return nil
	}

	if flags&Update == 0 {
		return ErrPermissionDenied
	}

	wakeup := spec
	switch {
	case flags&Repeat != 0:
		// spec is an increment on the previous wakeup
		wakeup = t.wakeup + spec
		if now := x.now(); wakeup < now {
			// already in the past: restart from now, sacrificing phase
			wakeup = now + spec
		}
	case flags&Relative != 0:
		wakeup = spec + x.now()
	}

	if i := x.pending.Index(t); i >= 0 {
		// pending: mutate in place and re-sort
		x.pending.RemoveAt(i)
		t.wakeup = wakeup
		if fn != nil {
			t.fn = fn
		}
		x.insert(t)
	} else {
		// in flight: the record under dispatch belongs to the flush pass
		// that staged it, so the update takes effect on a fresh record
		n := &timer{key: key, fn: t.fn, wakeup: wakeup}
		if fn != nil {
			n.fn = fn
		}
		x.byKey[key] = n
		x.insert(n)
	}
	x.logger.Trace().
		Interface(`key`, key).
		Float64(`wakeup`, wakeup).
		Log(`timer updated`)
	return nil
}

// Cancel removes and releases the timer for key, if any. Canceling an absent
// key is not an error.
func (x *Queue) Cancel(key any) {
	t := x.byKey[key]
	if t == nil {
		return
	}
	delete(x.byKey, key)
	if i := x.pending.Index(t); i >= 0 {
		x.pending.RemoveAt(i)
	}
	// an in-flight record is released by the flush pass that staged it
	x.logger.Trace().
		Interface(`key`, key).
		Log(`timer canceled`)
}

// Exists reports whether key has a timer, pending or in flight. A callback
// may query its own key while it executes.
func (x *Queue) Exists(key any) bool {
	_, ok := x.byKey[key]
	return ok
}

// Len returns the number of timers currently tracked, pending and in flight.
func (x *Queue) Len() int {
	return len(x.byKey)
}

// NextWakeup returns the earliest pending wakeup, in monotonic seconds, or
// false if no timers are pending.
func (x *Queue) NextWakeup() (float64, bool) {
	if t := x.pending.Front(); t != nil {
		return t.wakeup, true
	}
	return 0, false
}

// WaitBudgetMillis returns how long a poll-style wait may block before the
// earliest pending timer is due: -1 when no timers are pending (block as long
// as you like), 0 when one is due now, and otherwise whole milliseconds
// capped at 1073741823.
func (x *Queue) WaitBudgetMillis() int64 {
	t := x.pending.Front()
	if t == nil {
		return -1
	}
	// computed in floating point: integer arithmetic could overflow for far
	// wakeups and turn a long wait into a spin
	ms := (t.wakeup - x.now()) * 1000
	if ms <= 0 {
		return 0
	}
	if ms > maxWaitMillis {
		return maxWaitMillis
	}
	return int64(ms)
}

// Flush runs every callback due at the time of the call, in wakeup order,
// and returns the number invoked. The reference time is captured once, one
// millisecond past now. Each timer moves to an in-flight holding area before
// its callback runs, so the callback observes its own key as existing and a
// re-registration lands on a fresh pending record; in-flight records whose
// keys were not re-registered are released when the pass completes. Timers
// made due by a callback during the pass are also run.
func (x *Queue) Flush() int {
	ref := x.now() + flushSlack
	defer x.sweep()
	var cnt int
	for {
		t := x.pending.Front()
		if t == nil || t.wakeup > ref {
			break
		}
		x.pending.PopFront()
		// staged before the callback runs, for re-arm inside the callback
		x.inflight = append(x.inflight, t)
		t.fn(t.key)
		cnt++
	}
	x.logger.Debug().
		Int(`count`, cnt).
		Log(`flushed timers`)
	return cnt
}

// sweep releases in-flight records whose keys were not re-registered.
func (x *Queue) sweep() {
	for i, t := range x.inflight {
		if x.byKey[t.key] == t {
			delete(x.byKey, t.key)
		}
		x.inflight[i] = nil
	}
	x.inflight = x.inflight[:0]
}

// Reset releases every timer, pending and in flight, without invoking any
// callbacks.
func (x *Queue) Reset() {
	clear(x.byKey)
	x.pending.Clear()
	for i := range x.inflight {
		x.inflight[i] = nil
	}
	x.inflight = x.inflight[:0]
}

// insert places t into the pending queue after any timers sharing its wakeup,
// keeping equal wakeups in arrival order.
func (x *Queue) insert(t *timer) {
	x.pending.Insert(x.pending.SearchAfter(t.wakeup), t)
}
