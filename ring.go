package timerq

import (
	"sort"
)

// ringBuffer holds pending timers in wakeup order, earliest first. It is a
// power-of-two circular buffer, so the due end pops in O(1) while sorted
// inserts shift at most one segment.
type ringBuffer struct {
	s    []*timer
	r, w uint
}

func newRingBuffer(size int) *ringBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic(`timerq: ring: size must be a power of 2`)
	}
	return &ringBuffer{s: make([]*timer, size)}
}

// ceilPow2 returns the next power of 2 >= n.
func ceilPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func (x *ringBuffer) mask(val uint) uint {
	return val & (uint(len(x.s)) - 1)
}

func (x *ringBuffer) bounds() (i1, l1, l2 int) {
	if x.r == x.w {
		return
	}
	i1 = int(x.mask(x.r))
	l1 = int(x.mask(x.w))
	if l1 <= i1 {
		l2 = l1
		l1 = len(x.s)
	}
	return
}

func (x *ringBuffer) Len() int {
	return int(x.w - x.r)
}

func (x *ringBuffer) Cap() int {
	return len(x.s)
}

func (x *ringBuffer) Get(i int) *timer {
	if i < 0 || i >= x.Len() {
		panic(`timerq: ring: get: index out of range`)
	}
	return x.s[x.mask(x.r+uint(i))]
}

// Front returns the earliest pending timer, or nil if there are none.
func (x *ringBuffer) Front() *timer {
	if x.r == x.w {
		return nil
	}
	return x.s[x.mask(x.r)]
}

// PopFront removes and returns the earliest pending timer.
func (x *ringBuffer) PopFront() *timer {
	t := x.Get(0)
	x.s[x.mask(x.r)] = nil
	x.r++
	return t
}

func (x *ringBuffer) Slice() (b []*timer) {
	if l := x.Len(); l != 0 {
		b = make([]*timer, l)
		i1, l1, l2 := x.bounds()
		copy(b, x.s[i1:l1])
		copy(b[l1-i1:], x.s[:l2])
	}
	return b
}

// SearchAfter returns the index of the first timer with wakeup strictly after
// the given time, which is also the insert position that keeps equal wakeups
// in arrival order.
func (x *ringBuffer) SearchAfter(wakeup float64) int {
	return sort.Search(x.Len(), func(i int) bool {
		return x.Get(i).wakeup > wakeup
	})
}

// Index locates the exact record t, or returns -1 if t is not in the buffer.
func (x *ringBuffer) Index(t *timer) int {
	l := x.Len()
	for i := sort.Search(l, func(i int) bool {
		return x.Get(i).wakeup >= t.wakeup
	}); i < l; i++ {
		e := x.Get(i)
		if e == t {
			return i
		}
		if e.wakeup > t.wakeup {
			break
		}
	}
	return -1
}

// Clear drops every element, releasing the references but keeping the
// allocated buffer.
func (x *ringBuffer) Clear() {
	clear(x.s)
	x.r = 0
	x.w = 0
}

// RemoveAt deletes the element at index, shifting whichever side is shorter.
func (x *ringBuffer) RemoveAt(index int) {
	l := x.Len()
	if index < 0 || index >= l {
		panic(`timerq: ring: remove at: index out of range`)
	}
	if index < l-index-1 {
		// shift the head segment up by one
		for ; index > 0; index-- {
			x.s[x.mask(x.r+uint(index))] = x.s[x.mask(x.r+uint(index-1))]
		}
		x.s[x.mask(x.r)] = nil
		x.r++
	} else {
		// shift the tail segment down by one
		for ; index < l-1; index++ {
			x.s[x.mask(x.r+uint(index))] = x.s[x.mask(x.r+uint(index+1))]
		}
		x.w--
		x.s[x.mask(x.w)] = nil
	}
}

func (x *ringBuffer) Insert(index int, value *timer) {
	l := x.Len()
	if index < 0 || index > l {
		panic(`timerq: ring: insert: index out of range`)
	}

	if l == len(x.s) {
		// full: grow to the next power of 2, copying both segments across
		s := make([]*timer, uint(len(x.s))<<1)
		if len(s) == 0 {
			panic(`timerq: ring: insert: overflow`)
		}

		// the copy rebases everything at 0
		i1, l1, l2 := x.bounds()
		l = l1 - i1
		if index < l {
			// insert in the first segment
			copy(s, x.s[i1:i1+index])
			s[index] = value
			copy(s[index+1:], x.s[i1+index:l1])
			l++
			copy(s[l:], x.s[:l2])
			l += l2
		} else {
			// insert in the second segment
			copy(s, x.s[i1:l1])
			copy(s[l:], x.s[:index-l])
			s[index] = value
			copy(s[index+1:], x.s[index-l:l2])
			l += l2 + 1
		}

		x.r = 0
		x.w = uint(l)
		x.s = s
		return
	}

	// an empty buffer can be rebased at 0, which avoids wraparound entirely
	var i, j int
	if l == 0 {
		x.r = 0
		x.w = 0
	} else {
		i = int(x.mask(x.r))
		j = int(x.mask(x.w))
	}

	// contiguous with room after: a single shift within one segment
	if l == 0 || i < j {
		copy(x.s[i+index+1:], x.s[i+index:j])
		x.s[i+index] = value
		x.w++
		return
	}

	// wrapped, target lands in the second segment (at the start of the
	// buffer): still a single shift, len(x.s)-i is the first segment's length
	if index >= len(x.s)-i {
		index -= len(x.s) - i
		copy(x.s[index+1:], x.s[index:j])
		x.s[index] = value
		x.w++
		return
	}

	// wrapped, target lands in the first segment (at the end of the buffer):
	// shift the second segment to make room for the element that falls off
	// the end of the first, j being the second segment's length
	copy(x.s[1:], x.s[:j])
	x.s[0] = x.s[len(x.s)-1]
	copy(x.s[i+index+1:], x.s[i+index:])
	x.s[i+index] = value
	x.w++
}
