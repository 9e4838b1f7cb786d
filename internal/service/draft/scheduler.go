// internal/service/draft/scheduler.go

package draft

import (
	"sync"
	"time"
)

// scheduler is a cancel-and-reschedule single-task timer. Scheduling a new
// task cancels the pending one; Fire runs the pending task immediately.
// It exists so flush-before-shutdown is structurally guaranteed rather
// than depending on ad hoc timer handles.
type scheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

func newScheduler(delay time.Duration) *scheduler {
	return &scheduler{delay: delay}
}

// Schedule replaces any pending task with fn, to run after the delay
func (s *scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = fn
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		fn := s.pending
		s.pending = nil
		s.timer = nil
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Fire runs the pending task now, if any, cancelling its timer
func (s *scheduler) Fire() {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel drops the pending task without running it
func (s *scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
