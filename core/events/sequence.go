package events

import "time"

const (
	// KindSequenceStarted identifies sequencer creation.
	KindSequenceStarted Kind = "sequence.started"
	// KindSequenceArmed identifies the end of the start delay.
	KindSequenceArmed Kind = "sequence.armed"
	// KindSequenceCompleted identifies the completion callback.
	KindSequenceCompleted Kind = "sequence.completed"
	// KindSequenceCancelled identifies cancellation before completion.
	KindSequenceCancelled Kind = "sequence.cancelled"
)

type SequenceStarted struct {
	Base
	SlotCount  int
	StartDelay time.Duration
}

func NewSequenceStarted(runID string, at time.Time, slotCount int, startDelay time.Duration) SequenceStarted {
	return SequenceStarted{
		Base:       NewBase(KindSequenceStarted, runID, at),
		SlotCount:  slotCount,
		StartDelay: startDelay,
	}
}

type SequenceArmed struct {
	Base
	// Total is the time from arming until completion is due.
	Total time.Duration
}

func NewSequenceArmed(runID string, at time.Time, total time.Duration) SequenceArmed {
	return SequenceArmed{Base: NewBase(KindSequenceArmed, runID, at), Total: total}
}

type SequenceCompleted struct {
	Base
	FiredCount int
}

func NewSequenceCompleted(runID string, at time.Time, firedCount int) SequenceCompleted {
	return SequenceCompleted{Base: NewBase(KindSequenceCompleted, runID, at), FiredCount: firedCount}
}

type SequenceCancelled struct {
	Base
	FiredCount int
}

func NewSequenceCancelled(runID string, at time.Time, firedCount int) SequenceCancelled {
	return SequenceCancelled{Base: NewBase(KindSequenceCancelled, runID, at), FiredCount: firedCount}
}
