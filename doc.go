// Package timerq implements a software timer queue for single-threaded
// event loops, multiplexing any number of one-shot and repeating timers
// onto one poll timeout.
//
// # Timing Model
//
// Time is a float64 count of seconds on a monotonic clock ([MonotonicNow]
// by default, replaceable via [WithNowFunc]). The queue works at
// millisecond resolution: [Queue.Flush] runs every timer due within a
// millisecond of now, and [Queue.WaitBudgetMillis] reports how long the
// surrounding loop may sleep before the next timer is due. A typical tick
// is
//
//	poll(fds, q.WaitBudgetMillis())
//	q.Flush()
//
// with [Queue.Run] available as a canned version of that loop for programs
// that have no file descriptors to poll.
//
// # Identity
//
// Timers are identified by a caller-supplied comparable key. Scheduling an
// existing key updates it, scheduling a new one creates it, and the
// [Create] and [Update] flags restrict which of the two is permitted, so a
// caller can insist on one outcome and get an error ([ErrNotFound],
// [ErrPermissionDenied]) instead of the other.
//
// # Re-entrancy
//
// Everything is legal inside a timer callback: scheduling, canceling, and
// querying other timers, the timer itself included, and even a nested
// [Queue.Flush]. A timer that re-registers itself during its own callback
// behaves like [Repeat], continuing from its previous wakeup. A timer
// inserted during a flush with a wakeup inside the flush window runs in
// that same pass.
//
// # Calendar Alignment
//
// [TimeToNextInterval] converts a wall-clock time ([WallNow]) into the
// delay until the next boundary of a periodic schedule, e.g. the next whole
// hour, adjusting for daylight-saving changes when the period is long
// enough to span one. Feed the result to [Queue.Schedule] with [Relative]
// to fire on calendar boundaries without drift.
//
// # Goroutine Safety
//
// There is none: a [Queue] must be confined to one goroutine, matching the
// event-loop model it is designed for. Callbacks do their work on the loop
// goroutine or hand it off themselves.
package timerq
