package sequencer

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"
)

func TestScheduleFromSecondsConvertsExactly(t *testing.T) {
	schedule, err := ScheduleFromSeconds(1.8, 3.8, 5.8, 7.8)
	if err != nil {
		t.Fatalf("expected valid schedule, got %v", err)
	}

	expected := Schedule{1800 * time.Millisecond, 3800 * time.Millisecond, 5800 * time.Millisecond, 7800 * time.Millisecond}
	if !slices.Equal(schedule, expected) {
		t.Fatalf("expected %v, got %v", expected, schedule)
	}
	if schedule.Duration() != 7800*time.Millisecond {
		t.Fatalf("expected duration 7.8s, got %v", schedule.Duration())
	}
}

func TestScheduleFromSecondsRejectsBadValues(t *testing.T) {
	if _, err := ScheduleFromSeconds(); !errors.Is(err, ErrEmptySchedule) {
		t.Fatalf("expected empty schedule error, got %v", err)
	}
	if _, err := ScheduleFromSeconds(1, -0.5); !errors.Is(err, ErrNegativeOffset) {
		t.Fatalf("expected negative offset error, got %v", err)
	}
	if _, err := ScheduleFromSeconds(math.NaN()); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("expected invalid offset error for NaN, got %v", err)
	}
	if _, err := ScheduleFromSeconds(math.Inf(1)); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("expected invalid offset error for +Inf, got %v", err)
	}
}

func TestScheduleDurationIsMaximumOfUnsorted(t *testing.T) {
	schedule := Schedule{3 * time.Second, time.Second, 5 * time.Second, 0}
	if schedule.Duration() != 5*time.Second {
		t.Fatalf("expected 5s, got %v", schedule.Duration())
	}
}

func TestScheduleSeconds(t *testing.T) {
	schedule := Schedule{1500 * time.Millisecond, 0}
	if got := schedule.Seconds(); !slices.Equal(got, []float64{1.5, 0}) {
		t.Fatalf("expected [1.5 0], got %v", got)
	}
}

func TestPhaseStrings(t *testing.T) {
	for phase, expected := range map[Phase]string{
		PhaseIdle:      "idle",
		PhaseArmed:     "armed",
		PhaseRunning:   "running",
		PhaseCompleted: "completed",
		PhaseCancelled: "cancelled",
		Phase(99):      "unknown",
	} {
		if phase.String() != expected {
			t.Fatalf("expected %q, got %q", expected, phase.String())
		}
	}
}
