//go:build windows

package timerq

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// qpcFrequency is the performance counter rate in ticks per second, fixed at
// boot.
var qpcFrequency = func() int64 {
	var freq int64
	if err := windows.QueryPerformanceFrequency(&freq); err != nil || freq <= 0 {
		panic(fmt.Sprintf(`timerq: monotonic clock unavailable: %v`, err))
	}
	return freq
}()

func monotonicNow() float64 {
	var counter int64
	if err := windows.QueryPerformanceCounter(&counter); err != nil {
		panic(fmt.Sprintf(`timerq: monotonic clock unavailable: %v`, err))
	}
	return float64(counter) / float64(qpcFrequency)
}

func wallNow() float64 {
	var ft windows.Filetime
	windows.GetSystemTimeAsFileTime(&ft)
	return float64(ft.Nanoseconds()) / 1e9
}
