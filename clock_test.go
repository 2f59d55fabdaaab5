package timerq

import (
	"testing"
	"time"
)

func TestMonotonicNow_nonDecreasing(t *testing.T) {
	prev := MonotonicNow()
	for i := 0; i < 1000; i++ {
		now := MonotonicNow()
		if now < prev {
			t.Fatalf("clock went backwards: %v < %v", now, prev)
		}
		prev = now
	}
}

func TestMonotonicNow_advances(t *testing.T) {
	start := MonotonicNow()
	time.Sleep(20 * time.Millisecond)
	if elapsed := MonotonicNow() - start; elapsed < 0.01 {
		t.Errorf("elapsed = %v, want >= 0.01", elapsed)
	}
}

func TestWallNow_tracksSystemTime(t *testing.T) {
	got := WallNow()
	want := float64(time.Now().UnixNano()) / 1e9
	if diff := got - want; diff < -5 || diff > 5 {
		t.Errorf("WallNow() = %v, system time %v", got, want)
	}
}
