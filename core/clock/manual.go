package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a Clock that only moves when told to. Timers run synchronously on
// the goroutine calling Advance or Set, ordered by deadline and then by the
// order they were created in.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers manualTimers
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}

	t := &manualTimer{clock: m, when: m.now.Add(d), seq: m.seq, f: f}
	m.seq++
	heap.Push(&m.timers, t)
	return t
}

// Advance moves the clock forward by d, running every timer whose deadline
// falls inside the window. Timers created by those callbacks run too if they
// are due before the window closes.
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}

	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	m.runUntil(target)
}

// Set moves the clock to t. Moving backwards only changes Now, no timer runs.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	if t.Before(m.now) {
		m.now = t
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.runUntil(t)
}

// Pending returns the number of timers that are armed and not yet run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manual) runUntil(target time.Time) {
	for {
		m.mu.Lock()
		if len(m.timers) == 0 || m.timers[0].when.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}

		next := heap.Pop(&m.timers).(*manualTimer)
		if next.when.After(m.now) {
			m.now = next.when
		}
		m.mu.Unlock()

		next.f()
	}
}

type manualTimer struct {
	clock *Manual
	when  time.Time
	seq   uint64
	f     func()
	index int
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.index < 0 {
		return false
	}

	heap.Remove(&t.clock.timers, t.index)
	return true
}

type manualTimers []*manualTimer

func (h manualTimers) Len() int { return len(h) }

func (h manualTimers) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h manualTimers) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *manualTimers) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *manualTimers) Pop() any {
	old := *h
	last := old[len(old)-1]
	old[len(old)-1] = nil
	last.index = -1
	*h = old[:len(old)-1]
	return last
}
