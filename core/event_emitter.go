package crane

import events "github.com/koscakluka/crane-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts PlayOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.SlotFired:
			if opts.onDrop != nil {
				opts.onDrop(typedEvent.Index)
			}
		case events.SequenceCancelled:
			if opts.onCancellation != nil {
				opts.onCancellation()
			}
		}
	}
}
