package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
	// RunID identifies the sequencer run the event belongs to.
	RunID() string
}

type Base struct {
	kind      Kind
	timestamp time.Time
	runID     string
}

func NewBase(kind Kind, runID string, at time.Time) Base {
	return Base{kind: kind, timestamp: at, runID: runID}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

func (b Base) RunID() string {
	return b.runID
}
