package events

import "time"

// KindCycleStarted identifies the start of an overlay animation cycle.
const KindCycleStarted Kind = "overlay.cycle_started"

type CycleStarted struct {
	Base
	Cycle int
}

func NewCycleStarted(runID string, at time.Time, cycle int) CycleStarted {
	return CycleStarted{Base: NewBase(KindCycleStarted, runID, at), Cycle: cycle}
}
