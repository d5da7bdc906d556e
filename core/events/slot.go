package events

import "time"

const (
	// KindSlotActivated identifies a slot becoming the active position.
	KindSlotActivated Kind = "slot.activated"
	// KindSlotFired identifies the drop callback of a slot.
	KindSlotFired Kind = "slot.fired"
)

type SlotActivated struct {
	Base
	Index  int
	Offset time.Duration
}

func NewSlotActivated(runID string, at time.Time, index int, offset time.Duration) SlotActivated {
	return SlotActivated{Base: NewBase(KindSlotActivated, runID, at), Index: index, Offset: offset}
}

type SlotFired struct {
	Base
	Index  int
	Offset time.Duration
}

func NewSlotFired(runID string, at time.Time, index int, offset time.Duration) SlotFired {
	return SlotFired{Base: NewBase(KindSlotFired, runID, at), Index: index, Offset: offset}
}
