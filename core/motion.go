package crane

import (
	"math"
	"time"

	"github.com/koscakluka/crane-core/internal/utils"
)

const (
	defaultTravelDuration = 800 * time.Millisecond
	defaultDropDuration   = 900 * time.Millisecond
)

// Pose is where a renderer should draw the hook.
type Pose struct {
	// X is the horizontal hook position in slot-position units.
	X float64
	// Depth is how far the hook is lowered, 0 (up) to 1 (fully down).
	Depth float64
}

// motion tracks the hook between slots. Travel starts when a slot becomes
// active; the lower-and-lift starts when its drop fires.
type motion struct {
	travel time.Duration
	drop   time.Duration

	fromX       float64
	toX         float64
	travelStart time.Time
	droppedAt   time.Time
}

func newMotion() motion {
	return motion{travel: defaultTravelDuration, drop: defaultDropDuration}
}

// reset parks the hook at x with no travel or drop in progress.
func (m *motion) reset(x float64) {
	m.fromX = x
	m.toX = x
	m.travelStart = time.Time{}
	m.droppedAt = time.Time{}
}

// moveTo starts travel towards x from wherever the hook is at now.
func (m *motion) moveTo(x float64, now time.Time) {
	m.fromX = m.x(now)
	m.toX = x
	m.travelStart = now
}

func (m *motion) dropAt(now time.Time) {
	m.droppedAt = now
}

func (m motion) pose(now time.Time) Pose {
	return Pose{X: m.x(now), Depth: m.depth(now)}
}

func (m motion) x(now time.Time) float64 {
	if m.travelStart.IsZero() {
		return m.toX
	}

	p := progress(now.Sub(m.travelStart), m.travel)
	return m.fromX + (m.toX-m.fromX)*EaseInOutCubic(p)
}

func (m motion) depth(now time.Time) float64 {
	if m.droppedAt.IsZero() {
		return 0
	}

	p := progress(now.Sub(m.droppedAt), m.drop)
	if p >= 1 {
		return 0
	}
	return math.Sin(math.Pi * p)
}

func progress(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return utils.Clamp(float64(elapsed)/float64(total), 0, 1)
}

// EaseInOutCubic maps linear progress t in [0, 1] onto a curve that starts
// and ends slowly.
func EaseInOutCubic(t float64) float64 {
	t = utils.Clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// evenPositions spreads n slots over [0, 1], a single slot sits at 0.5.
func evenPositions(n int) []float64 {
	positions := make([]float64, n)
	if n == 1 {
		positions[0] = 0.5
		return positions
	}
	for i := range positions {
		positions[i] = float64(i) / float64(n-1)
	}
	return positions
}
