//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package timerq

import (
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

func monotonicNow() float64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(fmt.Sprintf(`timerq: monotonic clock unavailable: %v`, err))
	}
	return float64(ts.Sec) + float64(ts.Nsec)/1e9
}

func wallNow() float64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return math.NaN()
	}
	return float64(ts.Sec) + float64(ts.Nsec)/1e9
}
