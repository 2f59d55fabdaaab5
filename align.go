package timerq

import (
	"math"
	"time"
)

// dstCheckInterval is the period, in seconds, at and above which alignment
// consults the timezone: a shorter period is assumed not to span a
// daylight-saving change.
const dstCheckInterval = 3600 * 1.5

// TimeToNextInterval returns the delay in seconds from wall until the next
// boundary of a periodic schedule, using the process-local timezone for
// daylight-saving adjustments. See [TimeToNextIntervalIn].
func TimeToNextInterval(wall, interval, offset, minPad float64) float64 {
	return TimeToNextIntervalIn(time.Local, wall, interval, offset, minPad)
}

// TimeToNextIntervalIn returns the delay in seconds from wall, a wall-clock
// time in seconds since the Unix epoch, until the next boundary satisfying
// (boundary - offset) mod interval == 0, so repeated callers stay phase
// locked to calendar time instead of accumulating scheduling error.
//
// Intervals of ninety minutes and up are aligned in the given location's
// local time: if a daylight-saving change falls between wall and the naive
// target, the delay is corrected by the offset difference so the callback
// still lands on the intended local boundary rather than its UTC-naive
// equivalent. Shorter intervals use plain modular arithmetic. A nil loc
// means [time.Local].
//
// minPad floors at one millisecond, the resolution this package works at. A
// boundary closer than the pad is skipped in favor of the one after it, so
// the returned delay always exceeds the pad. The result is NaN when wall is
// NaN (see [WallNow]) or interval is zero; callers treating alignment as
// advisory can detect that and fall back.
func TimeToNextIntervalIn(loc *time.Location, wall, interval, offset, minPad float64) float64 {
	if loc == nil {
		loc = time.Local
	}
	if minPad < 0.001 {
		minPad = 0.001
	}

	var value float64
	if interval >= dstCheckInterval {
		_, gmtoff := time.Unix(int64(wall), 0).In(loc).Zone()
		value = interval - math.Mod(wall+float64(gmtoff)-offset, interval)
		if _, target := time.Unix(int64(wall+value), 0).In(loc).Zone(); target != gmtoff {
			// a daylight-saving change sits between now and the target
			value += float64(gmtoff - target)
		}
	} else {
		value = interval - math.Mod(wall-offset, interval)
	}

	if value < minPad {
		value = value + minPad + TimeToNextIntervalIn(loc, wall+value+minPad, interval, offset, minPad)
	}
	return value
}
