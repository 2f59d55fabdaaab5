package timerq

import (
	"testing"
)

// fakeClock is a manually advanced stand-in for the monotonic clock.
type fakeClock struct {
	now float64
}

func (x *fakeClock) Now() float64 { return x.now }

func (x *fakeClock) Advance(d float64) { x.now += d }

// newTestQueue returns a queue driven by a fakeClock starting at t=1000.
func newTestQueue(t *testing.T, opts ...Option) (*Queue, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: 1000}
	q, err := New(append([]Option{WithNowFunc(clk.Now)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return q, clk
}
