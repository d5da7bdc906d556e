// Package sequencer implements the drop sequencer behind the crane overlay.
//
// A run waits for its start delay, then counts schedule offsets from that
// moment (arming). When a slot's offset is reached the slot becomes the
// active position, and after a settle delay its drop callback runs. Once the
// largest offset plus the completion padding has elapsed, the completion
// callback runs exactly once.
//
// All due actions of a run sit on one agenda ordered by due time and then by
// insertion order, and only the earliest one has a clock timer armed. Timer
// callbacks are handed to the configured host ([eventloop.Poster]), so with
// an [eventloop.Loop] every state change and every user callback of a run
// happens on the loop goroutine.
package sequencer

import (
	"container/heap"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/crane-core/core/clock"
	"github.com/koscakluka/crane-core/core/eventloop"
	"github.com/koscakluka/crane-core/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handle controls a single run. A new schedule always needs a new Handle.
type Handle struct {
	id         string
	schedule   Schedule
	startDelay time.Duration
	config     Config

	clock  clock.Clock
	poster eventloop.Poster
	emit   func(events.Event)

	onSlotFire func(index int)
	onComplete func()

	ctx  context.Context
	span trace.Span

	mu           sync.Mutex
	phase        Phase
	active       int
	fired        map[int]struct{}
	firedCount   int
	agenda       agenda
	seq          uint64
	armedAt      time.Time
	timer        clock.Timer
	timerGen     uint64
	pendingFires int
	// completionDue is set when completion came due while drop callbacks
	// were still pending.
	completionDue bool
	completing    bool

	done     chan struct{}
	doneOnce sync.Once
}

// Start validates the run and arms its start delay. Nil callbacks are
// treated as no-ops. Invalid input returns a *ConfigError and arms nothing.
//
// Cancelling ctx cancels the run.
func Start(
	ctx context.Context,
	schedule Schedule,
	startDelay time.Duration,
	onSlotFire func(index int),
	onComplete func(),
	opts ...Option,
) (*Handle, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := tracer.Start(ctx, "drop sequence")
	if err := validateStart(schedule, startDelay, o.config); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return nil, fmt.Errorf("failed to start drop sequence: %w", err)
	}

	if onSlotFire == nil {
		onSlotFire = func(int) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	h := &Handle{
		id:         uuid.NewString(),
		schedule:   schedule.Clone(),
		startDelay: startDelay,
		config:     o.config,
		clock:      o.clock,
		poster:     o.poster,
		emit:       o.emit,
		onSlotFire: onSlotFire,
		onComplete: onComplete,
		ctx:        ctx,
		span:       span,
		phase:      PhaseIdle,
		fired:      make(map[int]struct{}, len(schedule)),
		done:       make(chan struct{}),
	}

	span.SetAttributes(
		attribute.String("drop_sequence.run_id", h.id),
		attribute.Int("drop_sequence.slots", len(schedule)),
		attribute.Float64("drop_sequence.start_delay", startDelay.Seconds()),
		attribute.Float64("drop_sequence.duration", schedule.Duration().Seconds()),
	)
	logger.DebugContext(ctx, "drop sequence started",
		"run_id", h.id,
		"slots", len(schedule),
		"start_delay", startDelay)

	h.emit(events.NewSequenceStarted(h.id, h.clock.Now(), len(h.schedule), startDelay))

	h.mu.Lock()
	if !h.phase.Terminal() {
		h.armTimerLocked(startDelay, h.arm)
	}
	h.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				if !h.poster.Post(func() { h.Cancel() }) {
					h.Cancel()
				}
			case <-h.done:
			}
		}()
	}

	return h, nil
}

func validateStart(schedule Schedule, startDelay time.Duration, config Config) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	if startDelay < 0 {
		return newConfigError("start delay", ErrNegativeStartDelay)
	}
	return config.Validate()
}

func (h *Handle) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

func (h *Handle) Phase() Phase {
	if h == nil {
		return PhaseCancelled
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// ActiveSlot returns the slot most recently activated, 0 before any.
func (h *Handle) ActiveSlot() int {
	if h == nil {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// HasFired reports whether slot index has been dispatched (it is in the
// fired set). A dispatched slot's drop callback may still be settling.
func (h *Handle) HasFired(index int) bool {
	if h == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.fired[index]
	return ok
}

// FiredSlots returns the dispatched slot indices in ascending order.
func (h *Handle) FiredSlots() []int {
	if h == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	slots := make([]int, 0, len(h.fired))
	for index := range h.fired {
		slots = append(slots, index)
	}
	slices.Sort(slots)
	return slots
}

// DropCount returns how many drop callbacks have run.
func (h *Handle) DropCount() int {
	if h == nil {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.firedCount
}

func (h *Handle) Schedule() Schedule {
	if h == nil {
		return nil
	}
	return h.schedule.Clone()
}

func (h *Handle) Config() Config {
	if h == nil {
		return Config{}
	}
	return h.config
}

// ArmedAt returns the clock time the start delay elapsed, zero before that.
func (h *Handle) ArmedAt() time.Time {
	if h == nil {
		return time.Time{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.armedAt
}

// Total is the time from arming until completion is due.
func (h *Handle) Total() time.Duration {
	if h == nil {
		return 0
	}
	return h.schedule.Duration() + h.config.CompletionPadding
}

// Progress returns the fraction of Total elapsed since arming, in [0, 1].
func (h *Handle) Progress() float64 {
	if h == nil {
		return 0
	}

	h.mu.Lock()
	phase, armedAt := h.phase, h.armedAt
	h.mu.Unlock()

	switch {
	case phase == PhaseCompleted:
		return 1
	case armedAt.IsZero():
		return 0
	}

	total := h.Total()
	if total <= 0 {
		return 1
	}

	elapsed := h.clock.Now().Sub(armedAt)
	return min(max(float64(elapsed)/float64(total), 0), 1)
}

// Done is closed once the run completed or was cancelled.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		return closedDone
	}
	return h.done
}

var closedDone = func() chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}()

// Cancel invalidates every pending timer of the run. When called on the host
// the run's callbacks are posted to, no drop or completion callback runs
// after Cancel returns. From any other goroutine a callback that already
// started may still finish. Cancel reports false if the run had already
// finished or is running its completion callback.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}

	h.mu.Lock()
	if h.phase.Terminal() || h.completing {
		h.mu.Unlock()
		return false
	}

	h.phase = PhaseCancelled
	h.stopTimerLocked()
	h.agenda = nil
	h.pendingFires = 0
	dropCount := h.firedCount
	h.mu.Unlock()

	at := h.clock.Now()
	h.span.AddEvent("cancelled", trace.WithAttributes(attribute.Int("drop_sequence.drops", dropCount)))
	runsCancelled.Add(h.ctx, 1)
	logger.DebugContext(h.ctx, "drop sequence cancelled", "run_id", h.id, "drops", dropCount)

	h.finish()
	h.emit(events.NewSequenceCancelled(h.id, at, dropCount))
	return true
}

// armTimerLocked arms the single clock timer of the run. The generation
// check drops jobs from timers that were replaced or stopped after they
// already handed their job to the host.
func (h *Handle) armTimerLocked(delay time.Duration, run func(gen uint64)) {
	h.stopTimerLocked()

	gen := h.timerGen
	h.timer = h.clock.AfterFunc(max(delay, 0), func() {
		if !h.poster.Post(func() { run(gen) }) {
			h.abandon()
		}
	})
}

func (h *Handle) stopTimerLocked() {
	h.timerGen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

func (h *Handle) arm(gen uint64) {
	h.mu.Lock()
	if gen != h.timerGen || h.phase != PhaseIdle {
		h.mu.Unlock()
		return
	}

	h.timer = nil
	h.phase = PhaseArmed
	h.armedAt = h.clock.Now()
	for index, offset := range h.schedule {
		h.pushLocked(offset, actionActivate, index)
	}
	h.pushLocked(h.Total(), actionComplete, -1)
	armedAt := h.armedAt
	h.mu.Unlock()

	h.span.AddEvent("armed")
	h.emit(events.NewSequenceArmed(h.id, armedAt, h.Total()))

	h.mu.Lock()
	if h.phase == PhaseArmed {
		h.scheduleNextLocked()
	}
	h.mu.Unlock()
}

func (h *Handle) pushLocked(due time.Duration, kind actionKind, index int) {
	heap.Push(&h.agenda, action{due: due, seq: h.seq, kind: kind, index: index})
	h.seq++
}

func (h *Handle) scheduleNextLocked() {
	if len(h.agenda) == 0 {
		return
	}

	elapsed := h.clock.Now().Sub(h.armedAt)
	h.armTimerLocked(h.agenda[0].due-elapsed, h.tick)
}

// tick runs every action that is due, in agenda order. User callbacks run
// with the lock released, so they may cancel the run or read its state.
func (h *Handle) tick(gen uint64) {
	h.mu.Lock()
	if gen != h.timerGen || h.phase.Terminal() {
		h.mu.Unlock()
		return
	}
	h.timer = nil

	for len(h.agenda) > 0 && h.agenda[0].due <= h.clock.Now().Sub(h.armedAt) {
		next := heap.Pop(&h.agenda).(action)

		switch next.kind {
		case actionActivate:
			if _, ok := h.fired[next.index]; ok {
				continue
			}
			h.activateLocked(next)

		case actionFire:
			h.fireLocked(next)
			if h.phase.Terminal() {
				h.mu.Unlock()
				return
			}
			if h.completionDue && h.pendingFires == 0 {
				h.completeLocked()
				h.mu.Unlock()
				return
			}

		case actionComplete:
			if h.pendingFires > 0 {
				h.completionDue = true
				continue
			}
			h.completeLocked()
			h.mu.Unlock()
			return
		}

		if h.phase.Terminal() {
			h.mu.Unlock()
			return
		}
	}

	h.scheduleNextLocked()
	h.mu.Unlock()
}

// activateLocked marks the slot active and queues its drop after the settle
// delay. The activation is visible before the drop callback runs.
func (h *Handle) activateLocked(next action) {
	h.fired[next.index] = struct{}{}
	h.active = next.index
	h.phase = PhaseRunning
	h.pendingFires++
	h.pushLocked(next.due+h.config.SettleDelay, actionFire, next.index)

	offset := h.schedule[next.index]
	at := h.clock.Now()
	h.mu.Unlock()

	h.span.AddEvent("slot activated", trace.WithAttributes(attribute.Int("slot.index", next.index)))
	h.emit(events.NewSlotActivated(h.id, at, next.index, offset))

	h.mu.Lock()
}

func (h *Handle) fireLocked(next action) {
	h.pendingFires--
	h.firedCount++
	offset := h.schedule[next.index]
	h.mu.Unlock()

	h.onSlotFire(next.index)

	at := h.clock.Now()
	h.span.AddEvent("slot fired", trace.WithAttributes(attribute.Int("slot.index", next.index)))
	slotsFired.Add(h.ctx, 1)
	h.emit(events.NewSlotFired(h.id, at, next.index, offset))

	h.mu.Lock()
}

// completeLocked runs the completion callback. Once completing is set the
// run can no longer be cancelled.
func (h *Handle) completeLocked() {
	h.completing = true
	h.completionDue = false
	h.stopTimerLocked()
	h.agenda = nil
	h.mu.Unlock()

	h.onComplete()

	h.mu.Lock()
	h.phase = PhaseCompleted
	dropCount := h.firedCount
	h.mu.Unlock()

	at := h.clock.Now()
	runsCompleted.Add(h.ctx, 1)
	h.span.SetAttributes(attribute.Int("drop_sequence.drops", dropCount))
	h.finish()
	h.emit(events.NewSequenceCompleted(h.id, at, dropCount))

	h.mu.Lock()
}

// abandon ends a run whose host stopped accepting work. Nothing can be
// delivered anymore, so no callback or event is attempted.
func (h *Handle) abandon() {
	h.mu.Lock()
	if h.phase.Terminal() || h.completing {
		h.mu.Unlock()
		return
	}
	h.phase = PhaseCancelled
	h.stopTimerLocked()
	h.agenda = nil
	h.mu.Unlock()

	logger.WarnContext(h.ctx, "drop sequence host stopped, abandoning run", "run_id", h.id)
	err := fmt.Errorf("host rejected timer callback for run %s", h.id)
	h.span.RecordError(err)
	h.span.SetStatus(codes.Error, err.Error())
	h.finish()
}

func (h *Handle) finish() {
	h.doneOnce.Do(func() {
		close(h.done)
		h.span.End()
	})
}
