package sequencer

type Phase uint8

const (
	// PhaseIdle: the start delay is running.
	PhaseIdle Phase = iota
	// PhaseArmed: offsets are being counted, no slot activated yet.
	PhaseArmed
	// PhaseRunning: at least one slot has been activated.
	PhaseRunning
	// PhaseCompleted: the completion callback ran.
	PhaseCompleted
	// PhaseCancelled: the run was cancelled before completing.
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmed:
		return "armed"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further callbacks can run in this phase.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}
