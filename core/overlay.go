// Package crane hosts the drop sequencer behind the decorative crane overlay.
//
// An [Overlay] owns at most one sequencer run at a time. Every cycle, and
// every schedule change, gets a fresh run; the previous run is cancelled
// first so its timers can never touch the new cycle. While running, the
// overlay tracks the hook [Pose] a renderer should draw.
package crane

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/koscakluka/crane-core/core/clock"
	"github.com/koscakluka/crane-core/core/eventloop"
	"github.com/koscakluka/crane-core/core/events"
	"github.com/koscakluka/crane-core/core/sequencer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrOverlayClosed         = errors.New("overlay is closed")
	ErrSlotPositionsMismatch = errors.New("slot positions do not match schedule")
	ErrZeroLengthCycle       = errors.New("looping cycle has zero length")
)

// Default overlay timing: four drops two seconds apart.
var defaultSchedule = sequencer.Schedule{
	1800 * time.Millisecond,
	3800 * time.Millisecond,
	5800 * time.Millisecond,
	7800 * time.Millisecond,
}

const defaultStartDelay = 180 * time.Millisecond

type Overlay struct {
	mu sync.Mutex

	schedule        sequencer.Schedule
	startDelay      time.Duration
	positions       []float64
	autoPositions   bool
	looping         bool
	sequencerConfig sequencer.Config
	clock           clock.Clock
	poster          eventloop.Poster

	motion motion

	baseContext context.Context
	playOptions PlayOptions
	emit        eventEmitter
	stopHook    chan struct{}
	playing     bool
	current     *sequencer.Handle
	cycle       int

	closeOnce sync.Once
	closed    bool
}

func NewOverlay(opts ...OverlayOption) *Overlay {
	o := &Overlay{
		schedule:        defaultSchedule.Clone(),
		startDelay:      defaultStartDelay,
		looping:         true,
		sequencerConfig: sequencer.DefaultConfig(),
		clock:           clock.Real(),
		poster:          eventloop.Inline{},
		motion:          newMotion(),
		baseContext:     context.Background(),
		emit:            noopEventEmitter,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.positions == nil {
		o.autoPositions = true
		o.positions = evenPositions(len(o.schedule))
	}

	return o
}

// Play starts the first cycle, cancelling whatever run was active before.
// ctx is the base context of every run; cancelling it stops the overlay.
func (o *Overlay) Play(ctx context.Context, opts ...PlayOption) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := tracer.Start(ctx, "play overlay")
	defer span.End()

	playOptions := PlayOptions{}
	for _, opt := range opts {
		opt(&playOptions)
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		span.RecordError(ErrOverlayClosed)
		span.SetStatus(codes.Error, ErrOverlayClosed.Error())
		return ErrOverlayClosed
	}
	if err := o.validateLocked(); err != nil {
		o.mu.Unlock()
		err = fmt.Errorf("failed to play overlay: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	previous := o.current
	o.current = nil
	o.mu.Unlock()

	// The previous run reports its cancellation to the callbacks it was
	// started with.
	previous.Cancel()

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrOverlayClosed
	}
	o.baseContext = ctx
	o.playOptions = playOptions
	o.emit = newCallbackEventEmitter(playOptions)
	o.playing = true
	if o.stopHook != nil {
		close(o.stopHook)
		o.stopHook = nil
	}
	if ctx.Done() != nil {
		o.stopHook = withContextCancelHook(ctx, o.Stop)
	}
	if previous == nil {
		o.motion.reset(o.positions[0])
	}
	span.SetAttributes(
		attribute.Int("overlay.slots", len(o.schedule)),
		attribute.Bool("overlay.looping", o.looping),
	)
	o.mu.Unlock()

	if err := o.restart(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Replace swaps the schedule and, if the overlay is playing, restarts it
// with a fresh run. Auto-spread slot positions follow the new slot count.
func (o *Overlay) Replace(schedule sequencer.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("failed to replace schedule: %w", err)
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrOverlayClosed
	}

	previousSchedule, previousPositions := o.schedule, o.positions
	o.schedule = schedule.Clone()
	if o.autoPositions {
		o.positions = evenPositions(len(schedule))
	}
	if err := o.validateLocked(); err != nil {
		o.schedule, o.positions = previousSchedule, previousPositions
		o.mu.Unlock()
		return fmt.Errorf("failed to replace schedule: %w", err)
	}
	playing := o.playing
	o.mu.Unlock()

	if !playing {
		return nil
	}
	return o.restart()
}

func (o *Overlay) validateLocked() error {
	if err := o.schedule.Validate(); err != nil {
		return err
	}
	if o.startDelay < 0 {
		return &sequencer.ConfigError{Field: "start delay", Index: -1, Err: sequencer.ErrNegativeStartDelay}
	}
	if err := o.sequencerConfig.Validate(); err != nil {
		return err
	}
	if len(o.positions) != len(o.schedule) {
		return fmt.Errorf("%w: %d positions for %d slots",
			ErrSlotPositionsMismatch, len(o.positions), len(o.schedule))
	}
	if o.looping && o.startDelay+o.schedule.Duration()+o.sequencerConfig.CompletionPadding <= 0 {
		return ErrZeroLengthCycle
	}
	return nil
}

// restart cancels the current run and starts the next cycle on a new one.
// The overlay stops playing if the new run cannot start.
func (o *Overlay) restart() error {
	o.mu.Lock()
	previous := o.current
	o.current = nil
	o.mu.Unlock()

	previous.Cancel()

	o.mu.Lock()
	if o.closed || !o.playing {
		o.mu.Unlock()
		return nil
	}
	o.cycle++
	cycle := o.cycle
	ctx := o.baseContext
	schedule := o.schedule
	startDelay := o.startDelay
	config := o.sequencerConfig
	o.mu.Unlock()

	handle, err := sequencer.Start(ctx, schedule, startDelay,
		func(slot int) { o.handleDrop(cycle, slot) },
		nil,
		sequencer.WithConfig(config),
		sequencer.WithClock(o.clock),
		sequencer.WithPoster(o.poster),
		sequencer.WithEventEmitter(func(event events.Event) { o.handleEvent(cycle, event) }),
	)
	if err != nil {
		o.mu.Lock()
		if o.cycle == cycle {
			o.playing = false
		}
		o.mu.Unlock()
		return err
	}

	o.mu.Lock()
	if o.cycle != cycle || o.closed || !o.playing {
		o.mu.Unlock()
		handle.Cancel()
		return nil
	}
	o.current = handle
	emit := o.emit
	o.mu.Unlock()

	logger.DebugContext(ctx, "overlay cycle started", "cycle", cycle, "run_id", handle.ID())
	emit(events.NewCycleStarted(handle.ID(), o.clock.Now(), cycle))
	return nil
}

func (o *Overlay) handleDrop(cycle, slot int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cycle != o.cycle {
		return
	}
	o.motion.dropAt(o.clock.Now())
}

// handleEvent updates the hook motion, forwards the event and loops on
// completion. Events from superseded cycles are dropped.
func (o *Overlay) handleEvent(cycle int, event events.Event) {
	o.mu.Lock()
	if cycle != o.cycle {
		o.mu.Unlock()
		return
	}

	if activated, ok := event.(events.SlotActivated); ok && activated.Index < len(o.positions) {
		o.motion.moveTo(o.positions[activated.Index], activated.Timestamp())
	}

	_, completed := event.(events.SequenceCompleted)
	loop := completed && o.looping && o.playing && !o.closed
	if completed && !o.looping {
		o.playing = false
	}
	emit := o.emit
	onCycleComplete := o.playOptions.onCycleComplete
	o.mu.Unlock()

	emit(event)

	if !completed {
		return
	}
	if onCycleComplete != nil {
		onCycleComplete(cycle)
	}
	if loop {
		if err := o.restart(); err != nil {
			logger.Error("failed to start next overlay cycle", "cycle", cycle+1, "error", err)
		}
	}
}

func (o *Overlay) IsPlaying() bool {
	if o == nil {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing
}

// Cycle returns the number of the current cycle, starting at 1.
func (o *Overlay) Cycle() int {
	if o == nil {
		return 0
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cycle
}

// Pose returns where the hook should be drawn now.
func (o *Overlay) Pose() Pose {
	if o == nil {
		return Pose{}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.motion.pose(o.clock.Now())
}
