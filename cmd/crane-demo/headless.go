package main

import (
	"context"
	"fmt"
	"io"

	crane "github.com/koscakluka/crane-core/core"
	"github.com/koscakluka/crane-core/core/clock"
	"github.com/koscakluka/crane-core/core/eventloop"
	"github.com/koscakluka/crane-core/core/events"
)

// runHeadless plays the overlay on its own event loop and prints every
// event until the requested cycles completed or ctx is done.
func runHeadless(ctx context.Context, config Config, out io.Writer) error {
	return playHeadless(ctx, config, clock.Real(), out)
}

func playHeadless(ctx context.Context, config Config, c clock.Clock, out io.Writer) error {
	opts, err := config.OverlayOptions()
	if err != nil {
		return err
	}

	loop := eventloop.New()
	loop.SetOnPanic(func(recovered any) {
		fmt.Fprintf(out, "callback panicked: %v\n", recovered)
	})
	loop.Start(ctx)
	defer func() {
		loop.Stop()
		loop.AwaitDone()
	}()

	overlay := crane.NewOverlay(append(opts, crane.WithClock(c), crane.WithPoster(loop))...)
	defer func() {
		if !loop.Call(overlay.Close) {
			overlay.Close()
		}
	}()

	start := c.Now()
	finished := make(chan struct{})
	finish := func() {
		select {
		case <-finished:
		default:
			close(finished)
		}
	}

	err = overlay.Play(ctx,
		crane.WithEventCallback(func(event events.Event) {
			fmt.Fprintln(out, describeEvent(start, event))
		}),
		crane.WithCycleCompleteCallback(func(cycle int) {
			if !config.Loop || (config.Cycles > 0 && cycle >= config.Cycles) {
				overlay.Stop()
				finish()
			}
		}),
	)
	if err != nil {
		return err
	}

	select {
	case <-finished:
	case <-ctx.Done():
	}
	return nil
}
