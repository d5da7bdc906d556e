package crane

import (
	"time"

	"github.com/koscakluka/crane-core/core/clock"
	"github.com/koscakluka/crane-core/core/eventloop"
	"github.com/koscakluka/crane-core/core/events"
	"github.com/koscakluka/crane-core/core/sequencer"
)

type OverlayOption func(*Overlay)

// WithSchedule sets the drop schedule. An invalid schedule is reported by
// Play.
func WithSchedule(schedule sequencer.Schedule) OverlayOption {
	return func(o *Overlay) {
		o.schedule = schedule.Clone()
	}
}

func WithStartDelay(startDelay time.Duration) OverlayOption {
	return func(o *Overlay) {
		o.startDelay = startDelay
	}
}

// WithSlotPositions sets the horizontal position of every slot, one per
// schedule entry, usually in [0, 1]. Without it slots are spread evenly.
func WithSlotPositions(positions []float64) OverlayOption {
	return func(o *Overlay) {
		o.positions = append([]float64(nil), positions...)
	}
}

// WithLooping controls whether a new cycle starts when one completes.
func WithLooping(looping bool) OverlayOption {
	return func(o *Overlay) {
		o.looping = looping
	}
}

func WithSequencerConfig(config sequencer.Config) OverlayOption {
	return func(o *Overlay) {
		o.sequencerConfig = config
	}
}

// WithTravelDuration sets how long the hook takes to move between slots.
func WithTravelDuration(travel time.Duration) OverlayOption {
	return func(o *Overlay) {
		if travel >= 0 {
			o.motion.travel = travel
		}
	}
}

// WithDropDuration sets how long one lower-and-lift of the hook takes.
func WithDropDuration(drop time.Duration) OverlayOption {
	return func(o *Overlay) {
		if drop >= 0 {
			o.motion.drop = drop
		}
	}
}

func WithClock(c clock.Clock) OverlayOption {
	return func(o *Overlay) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithPoster sets the host the sequencer hands its timer callbacks to. Drops,
// cycle completions and the events raised by timers run there. Events raised
// by Play, Replace, Restart, Stop or Close, and cancellations caused by the
// Play context, are delivered on the goroutine that caused them.
func WithPoster(poster eventloop.Poster) OverlayOption {
	return func(o *Overlay) {
		if poster != nil {
			o.poster = poster
		}
	}
}

type PlayOptions struct {
	onDrop          func(slot int)
	onCycleComplete func(cycle int)
	onCancellation  func()
	onEvent         func(event events.Event)
}

type PlayOption func(*PlayOptions)

// WithDropCallback registers a callback for every slot drop, after the slot
// became active and its settle delay elapsed.
func WithDropCallback(callback func(slot int)) PlayOption {
	return func(o *PlayOptions) {
		o.onDrop = callback
	}
}

// WithCycleCompleteCallback registers a callback for the end of every cycle.
// When looping, the next cycle starts after the callback returns.
func WithCycleCompleteCallback(callback func(cycle int)) PlayOption {
	return func(o *PlayOptions) {
		o.onCycleComplete = callback
	}
}

// WithCancellationCallback registers a callback for runs cancelled by Stop,
// Replace, Close or a new Play.
func WithCancellationCallback(callback func()) PlayOption {
	return func(o *PlayOptions) {
		o.onCancellation = callback
	}
}

// WithEventCallback registers a receiver for every sequencer and overlay
// event of the current cycle.
func WithEventCallback(callback func(event events.Event)) PlayOption {
	return func(o *PlayOptions) {
		o.onEvent = callback
	}
}
