package timerq

import (
	"context"
	"time"
)

// Run drains the queue against the real clock: it sleeps until the next
// wakeup, flushes, and repeats, returning nil once no timers remain, or the
// context's error if ctx is canceled first. Because the queue is single
// threaded, an empty queue cannot refill while Run sleeps, so emptiness is
// final.
//
// Run is a convenience for programs without a poll loop of their own.
// Everything it does is available piecemeal, via [Queue.WaitBudgetMillis] to
// size a poll timeout and [Queue.Flush] once the poll returns. Callbacks run
// on the calling goroutine.
func (x *Queue) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		budget := x.WaitBudgetMillis()
		if budget < 0 {
			return nil
		}
		if budget > 0 {
			timer := time.NewTimer(time.Duration(budget) * time.Millisecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		x.Flush()
	}
}
