package main

import (
	"fmt"
	"time"

	"github.com/koscakluka/crane-core/core/events"
)

// describeEvent renders one event as a log line, timed relative to start.
func describeEvent(start time.Time, event events.Event) string {
	elapsed := event.Timestamp().Sub(start).Seconds()
	prefix := fmt.Sprintf("%8.3fs %-21s", elapsed, event.Kind())

	switch e := event.(type) {
	case events.CycleStarted:
		return fmt.Sprintf("%s cycle=%d run=%s", prefix, e.Cycle, shortID(e.RunID()))
	case events.SequenceStarted:
		return fmt.Sprintf("%s slots=%d start_delay=%s", prefix, e.SlotCount, e.StartDelay)
	case events.SequenceArmed:
		return fmt.Sprintf("%s total=%s", prefix, e.Total)
	case events.SlotActivated:
		return fmt.Sprintf("%s slot=%d offset=%s", prefix, e.Index, e.Offset)
	case events.SlotFired:
		return fmt.Sprintf("%s slot=%d offset=%s", prefix, e.Index, e.Offset)
	case events.SequenceCompleted:
		return fmt.Sprintf("%s drops=%d", prefix, e.FiredCount)
	case events.SequenceCancelled:
		return fmt.Sprintf("%s drops=%d", prefix, e.FiredCount)
	default:
		return prefix
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
