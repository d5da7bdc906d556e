// Package eventloop provides the single-goroutine host that sequencer timers
// post their work to.
//
// Timer goroutines never touch sequencer state directly; they hand a job to a
// [Poster] and the poster decides where it runs. [Loop] runs every job on one
// goroutine in post order, [Inline] runs the job on the caller, and
// [PosterFunc] lets an existing host (for example a TUI program) act as the
// loop.
package eventloop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type Poster interface {
	// Post schedules job to run on the host. It reports false if the host no
	// longer accepts work, in which case job never runs.
	Post(job func()) bool
}

type PosterFunc func(job func()) bool

func (f PosterFunc) Post(job func()) bool {
	return f(job)
}

// Inline runs posted jobs immediately on the calling goroutine.
type Inline struct{}

func (Inline) Post(job func()) bool {
	if job == nil {
		return false
	}

	job()
	return true
}

type queuedJob struct {
	run      func()
	queuedAt time.Time
}

// Loop runs posted jobs one at a time on a dedicated goroutine. The queue is
// unbounded so posting never blocks, including posts made from a running job.
type Loop struct {
	mu   sync.Mutex
	jobs []queuedJob
	wake chan struct{}

	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool

	onPanic func(recovered any)
}

func New() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),

		onPanic: func(any) {},
	}
}

// SetOnPanic registers a hook called on the loop goroutine when a job panics.
// The loop keeps running afterwards.
func (l *Loop) SetOnPanic(onPanic func(recovered any)) {
	if l == nil {
		return
	}

	if onPanic != nil {
		l.onPanic = onPanic
	}
}

func (l *Loop) CanIngest() bool {
	if l == nil {
		return false
	}

	select {
	case <-l.closeCh:
		return false
	default:
		return true
	}
}

// Start launches the loop goroutine. Only the first call starts anything.
// The loop stops when ctx is done or Stop is called.
func (l *Loop) Start(ctx context.Context) (started bool) {
	if l == nil || !l.CanIngest() {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	l.startOnce.Do(func() {
		if !l.CanIngest() {
			return
		}

		started = true
		l.started.Store(true)
		go func() {
			defer close(l.done)

			for {
				select {
				case <-ctx.Done():
					l.Stop()
					return
				case <-l.closeCh:
					return
				case <-l.wake:
				}

				for {
					job, ok := l.next()
					if !ok {
						break
					}
					if !l.CanIngest() {
						return
					}
					l.runJob(job)
				}
			}
		}()
	})

	return started
}

func (l *Loop) Post(job func()) bool {
	if l == nil || job == nil || !l.CanIngest() {
		return false
	}

	l.mu.Lock()
	l.jobs = append(l.jobs, queuedJob{run: job, queuedAt: time.Now()})
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Call posts fn and waits for it to finish. It must not be called from a job
// running on the same loop.
func (l *Loop) Call(fn func()) bool {
	if l == nil || fn == nil || !l.started.Load() {
		return false
	}

	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}

	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Stop closes the loop. Jobs still queued are dropped.
func (l *Loop) Stop() {
	if l == nil {
		return
	}

	l.endOnce.Do(func() { close(l.closeCh) })
}

func (l *Loop) AwaitDone() {
	if l == nil {
		return
	}

	if l.started.Load() {
		<-l.done
	}
}

// Pending returns the number of queued jobs that have not started yet.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.jobs)
}

func (l *Loop) next() (queuedJob, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.jobs) == 0 {
		return queuedJob{}, false
	}

	job := l.jobs[0]
	l.jobs[0] = queuedJob{}
	l.jobs = l.jobs[1:]
	return job, true
}

func (l *Loop) runJob(job queuedJob) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("event loop job panicked",
				"panic", fmt.Sprint(recovered),
				"queued_for", time.Since(job.queuedAt))
			l.onPanic(recovered)
		}
	}()

	job.run()
}
