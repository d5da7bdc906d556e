package crane

import (
	"github.com/jinzhu/copier"
	"github.com/koscakluka/crane-core/core/sequencer"
)

// State is a point-in-time view of the overlay for renderers.
type State struct {
	RunID      string
	Cycle      int
	Phase      sequencer.Phase
	ActiveSlot int
	FiredSlots []int
	Drops      int
	// Progress is the fraction of the current cycle elapsed since arming.
	Progress  float64
	Pose      Pose
	Positions []float64
}

// Snapshot returns a copy of the overlay state that the caller owns.
func (o *Overlay) Snapshot() State {
	if o == nil {
		return State{}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	live := State{
		Cycle:      o.cycle,
		Phase:      sequencer.PhaseIdle,
		FiredSlots: []int{},
		Pose:       o.motion.pose(now),
		Positions:  o.positions,
	}
	if o.current != nil {
		live.RunID = o.current.ID()
		live.Phase = o.current.Phase()
		live.ActiveSlot = o.current.ActiveSlot()
		live.FiredSlots = o.current.FiredSlots()
		live.Drops = o.current.DropCount()
		live.Progress = o.current.Progress()
	}

	var snapshot State
	if err := copier.CopyWithOption(&snapshot, &live, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to copy overlay state", "error", err)
		return live
	}
	return snapshot
}
