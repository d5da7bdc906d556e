package crane

import (
	"context"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/koscakluka/crane-core/core/sequencer"
)

func TestEaseInOutCubic(t *testing.T) {
	testCases := []struct {
		in, expected float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.0625},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}

	for _, testCase := range testCases {
		if got := EaseInOutCubic(testCase.in); math.Abs(got-testCase.expected) > 1e-9 {
			t.Fatalf("expected EaseInOutCubic(%v) = %v, got %v", testCase.in, testCase.expected, got)
		}
	}
}

func TestEvenPositions(t *testing.T) {
	if got := evenPositions(1); !slices.Equal(got, []float64{0.5}) {
		t.Fatalf("expected single slot centred, got %v", got)
	}
	if got := evenPositions(3); !slices.Equal(got, []float64{0, 0.5, 1}) {
		t.Fatalf("expected slots spread over [0, 1], got %v", got)
	}
}

func TestMotionWithoutTravelDurationJumps(t *testing.T) {
	m := motion{}
	m.reset(0)
	m.moveTo(1, epoch)

	if x := m.x(epoch); x != 1 {
		t.Fatalf("expected hook to jump with zero travel, got %v", x)
	}
}

func TestOverlayPoseFollowsActiveSlot(t *testing.T) {
	o, c := newManualOverlay(
		WithSchedule(sequencer.Schedule{time.Second, 3 * time.Second}),
		WithStartDelay(0),
		WithTravelDuration(time.Second),
		WithDropDuration(time.Second),
		WithLooping(false),
	)
	defer o.Close()

	if err := o.Play(context.Background()); err != nil {
		t.Fatalf("expected play to succeed, got %v", err)
	}

	if pose := o.Pose(); pose != (Pose{X: 0, Depth: 0}) {
		t.Fatalf("expected hook parked over the first slot, got %+v", pose)
	}

	c.Advance(3500 * time.Millisecond)
	if pose := o.Pose(); math.Abs(pose.X-0.5) > 1e-9 {
		t.Fatalf("expected hook halfway to the second slot, got %+v", pose)
	}
	if pose := o.Pose(); math.Abs(pose.Depth-math.Sin(math.Pi*0.45)) > 1e-9 {
		t.Fatalf("expected hook lowering after the drop, got %+v", pose)
	}

	c.Advance(50 * time.Millisecond)
	if pose := o.Pose(); math.Abs(pose.Depth-1) > 1e-9 {
		t.Fatalf("expected hook fully lowered mid drop, got %+v", pose)
	}

	c.Advance(time.Second)
	if pose := o.Pose(); pose.X != 1 || pose.Depth != 0 {
		t.Fatalf("expected hook raised over the second slot, got %+v", pose)
	}
}

func TestOverlayPoseUsesExplicitPositions(t *testing.T) {
	o, c := newManualOverlay(
		WithSchedule(sequencer.Schedule{time.Second, 2 * time.Second}),
		WithSlotPositions([]float64{0.2, 0.7}),
		WithStartDelay(0),
		WithTravelDuration(0),
	)
	defer o.Close()

	if err := o.Play(context.Background()); err != nil {
		t.Fatalf("expected play to succeed, got %v", err)
	}

	c.Advance(1500 * time.Millisecond)
	if x := o.Pose().X; x != 0.2 {
		t.Fatalf("expected hook over the first slot, got %v", x)
	}
	c.Advance(time.Second)
	if x := o.Pose().X; math.Abs(x-0.7) > 1e-9 {
		t.Fatalf("expected hook over the second slot, got %v", x)
	}
}
