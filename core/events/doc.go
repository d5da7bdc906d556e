// Package events defines the typed event contract of the drop sequencer and
// the crane overlay.
//
// Event kinds are grouped by namespace:
//
//   - sequence.*
//   - slot.*
//   - overlay.*
//
// Every event carries the run ID of the sequencer instance that produced it
// and the clock time it was produced at.
//
// sequence events
//
//   - SequenceStarted (sequence.started): a sequencer was created and its
//     start delay is running.
//   - SequenceArmed (sequence.armed): the start delay elapsed; schedule
//     offsets are measured from this moment.
//   - SequenceCompleted (sequence.completed): the completion callback ran.
//   - SequenceCancelled (sequence.cancelled): the run was cancelled before
//     completion; no further callbacks will run for it.
//
// slot events
//
//   - SlotActivated (slot.activated): the slot became the active position.
//     Emitted before the settle delay starts.
//   - SlotFired (slot.fired): the drop callback for the slot ran.
//
// overlay events
//
//   - CycleStarted (overlay.cycle_started): the overlay began a new
//     animation cycle with a fresh sequencer run.
package events
