package scope

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval approximates one display frame.
const DefaultFrameInterval = 16 * time.Millisecond

// Task is one scheduled unit of deferred work.
type Task struct {
	fn       func()
	canceled atomic.Bool
	ran      atomic.Bool
}

// Cancel prevents the task from running. It reports whether the task was
// still pending.
func (t *Task) Cancel() bool {
	if t == nil || t.ran.Load() {
		return false
	}
	return !t.canceled.Swap(true)
}

// Canceled reports whether Cancel stopped the task.
func (t *Task) Canceled() bool {
	return t != nil && t.canceled.Load()
}

// Ran reports whether the task has executed.
func (t *Task) Ran() bool {
	return t != nil && t.ran.Load()
}

func (t *Task) run() bool {
	if t.canceled.Load() || t.ran.Swap(true) {
		return false
	}
	t.fn()
	return true
}

// Scheduler queues tasks for the next frame.
type Scheduler struct {
	mu     sync.Mutex
	queue  []*Task
	closed bool

	// flushMu serializes frames so a task never runs concurrently with another.
	flushMu sync.Mutex
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule queues fn for the next frame. On a closed Scheduler the returned
// task is already canceled.
func (s *Scheduler) Schedule(fn func()) *Task {
	t := &Task{fn: fn}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || fn == nil {
		t.canceled.Store(true)
		return t
	}
	s.queue = append(s.queue, t)
	return t
}

// Flush runs one frame: every task queued before Flush was called, in
// scheduling order. Tasks scheduled while the frame runs wait for the next
// one. Returns the number of tasks executed.
func (s *Scheduler) Flush() int {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	frame := s.queue
	s.queue = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range frame {
		if t.run() {
			ran++
		}
	}
	return ran
}

// Pending returns the number of queued tasks that have not been canceled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.queue {
		if !t.canceled.Load() {
			n++
		}
	}
	return n
}

// Run flushes a frame every interval until ctx is done or the scheduler is closed.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.isClosed() {
				return nil
			}
			s.Flush()
		}
	}
}

func (s *Scheduler) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels every queued task; later Schedule calls return canceled tasks.
func (s *Scheduler) Close() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.closed = true
	s.mu.Unlock()

	for _, t := range queue {
		t.Cancel()
	}
}
