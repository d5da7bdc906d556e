package sequencer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/koscakluka/crane-core/core/clock"
	"github.com/koscakluka/crane-core/core/events"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// callRecorder collects callbacks and events with the clock time they
// happened at, relative to epoch.
type callRecorder struct {
	clock   *clock.Manual
	calls   []string
	at      []time.Duration
	fires   []int
	events  []events.Event
	handle  *Handle
	observe func(index int)
}

func newCallRecorder(c *clock.Manual) *callRecorder {
	return &callRecorder{clock: c}
}

func (r *callRecorder) onSlotFire(index int) {
	if r.observe != nil {
		r.observe(index)
	}
	r.fires = append(r.fires, index)
	r.record(fmt.Sprintf("fire:%d", index))
}

func (r *callRecorder) onComplete() {
	r.record("complete")
}

func (r *callRecorder) emit(event events.Event) {
	r.events = append(r.events, event)
}

func (r *callRecorder) record(call string) {
	r.calls = append(r.calls, call)
	r.at = append(r.at, r.clock.Now().Sub(epoch))
}

func (r *callRecorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *callRecorder) eventKinds() []events.Kind {
	kinds := make([]events.Kind, len(r.events))
	for i, event := range r.events {
		kinds[i] = event.Kind()
	}
	return kinds
}

func startManual(t *testing.T, schedule Schedule, startDelay time.Duration, opts ...Option) (*Handle, *callRecorder, *clock.Manual) {
	t.Helper()

	c := clock.NewManual(epoch)
	r := newCallRecorder(c)
	opts = append([]Option{WithClock(c), WithEventEmitter(r.emit)}, opts...)

	h, err := Start(context.Background(), schedule, startDelay, r.onSlotFire, r.onComplete, opts...)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	r.handle = h
	return h, r, c
}

func seconds(t *testing.T, s ...float64) Schedule {
	t.Helper()

	schedule, err := ScheduleFromSeconds(s...)
	if err != nil {
		t.Fatalf("expected valid schedule, got %v", err)
	}
	return schedule
}
