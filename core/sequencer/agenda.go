package sequencer

import "time"

type actionKind uint8

const (
	actionActivate actionKind = iota
	actionFire
	actionComplete
)

// action is one due step of a run. due is measured from arming; seq breaks
// ties so equal due times run in the order they were added.
type action struct {
	due   time.Duration
	seq   uint64
	kind  actionKind
	index int
}

type agenda []action

func (a agenda) Len() int { return len(a) }

func (a agenda) Less(i, j int) bool {
	if a[i].due == a[j].due {
		return a[i].seq < a[j].seq
	}
	return a[i].due < a[j].due
}

func (a agenda) Swap(i, j int) { a[i], a[j] = a[j], a[i] }

func (a *agenda) Push(x any) {
	*a = append(*a, x.(action))
}

func (a *agenda) Pop() any {
	old := *a
	last := old[len(old)-1]
	*a = old[:len(old)-1]
	return last
}
