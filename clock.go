package timerq

// MonotonicNow returns the current monotonic time in seconds. The monotonic
// clock is unaffected by wall-clock adjustments and is the basis for every
// wakeup comparison in this package.
//
// MonotonicNow panics if the platform monotonic clock is unavailable: no
// scheduling decision can be made without it, and nothing at the call site
// can recover that.
func MonotonicNow() float64 {
	return monotonicNow()
}

// WallNow returns the current wall-clock time in seconds since the Unix
// epoch, or NaN if the platform wall clock is unavailable. Alignment against
// calendar time is advisory, so failure is surfaced as a detectable value
// rather than an abort; [TimeToNextInterval] propagates the NaN.
func WallNow() float64 {
	return wallNow()
}
