package sequencer

import (
	"github.com/koscakluka/crane-core/core/clock"
	"github.com/koscakluka/crane-core/core/eventloop"
	"github.com/koscakluka/crane-core/core/events"
)

type Option func(*options)

type options struct {
	config Config
	clock  clock.Clock
	poster eventloop.Poster
	emit   func(events.Event)
}

func defaultOptions() options {
	return options{
		config: DefaultConfig(),
		clock:  clock.Real(),
		poster: eventloop.Inline{},
		emit:   func(events.Event) {},
	}
}

func WithConfig(config Config) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithClock replaces the real clock, typically with a [clock.Manual] in tests.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithPoster sets the host every timer callback is handed to. Without it,
// callbacks run on the timer goroutine.
func WithPoster(poster eventloop.Poster) Option {
	return func(o *options) {
		if poster != nil {
			o.poster = poster
		}
	}
}

// WithEventEmitter registers a receiver for the run's lifecycle events. It is
// never called while the handle's lock is held. sequence.started is emitted
// from Start itself, sequence.cancelled from the goroutine calling Cancel,
// every other event on the host.
func WithEventEmitter(emit func(events.Event)) Option {
	return func(o *options) {
		if emit != nil {
			o.emit = emit
		}
	}
}
