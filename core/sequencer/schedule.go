package sequencer

import (
	"math"
	"time"
)

// Schedule lists, per slot, the offset from arming at which the slot becomes
// active. Offsets need not be sorted and may repeat.
type Schedule []time.Duration

// ScheduleFromSeconds builds a Schedule from offsets in seconds.
func ScheduleFromSeconds(seconds ...float64) (Schedule, error) {
	schedule := make(Schedule, len(seconds))
	for i, s := range seconds {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, newOffsetError(i, ErrInvalidOffset)
		}
		if s < 0 {
			return nil, newOffsetError(i, ErrNegativeOffset)
		}
		schedule[i] = time.Duration(math.Round(s * float64(time.Second)))
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s Schedule) Validate() error {
	if len(s) == 0 {
		return newConfigError("schedule", ErrEmptySchedule)
	}

	for i, offset := range s {
		if offset < 0 {
			return newOffsetError(i, ErrNegativeOffset)
		}
	}
	return nil
}

// Duration returns the largest offset.
func (s Schedule) Duration() time.Duration {
	var longest time.Duration
	for _, offset := range s {
		longest = max(longest, offset)
	}
	return longest
}

func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	return append(Schedule(nil), s...)
}

func (s Schedule) Seconds() []float64 {
	seconds := make([]float64, len(s))
	for i, offset := range s {
		seconds[i] = offset.Seconds()
	}
	return seconds
}
