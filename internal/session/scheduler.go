package session

import (
	"sync"
	"time"
)

// armedReset is one pending reset. The generation ties a fired callback
// back to the entry that armed it: a callback whose generation no longer
// matches the registered entry was cancelled or replaced after firing
// and must not act.
type armedReset struct {
	timer *time.Timer
	gen   uint64
}

// ResetScheduler arms one deferred reset per device. Scheduling again for
// the same device replaces the pending timer, so a device never fires two
// resets.
type ResetScheduler struct {
	mu     sync.Mutex
	timers map[string]*armedReset
	gen    uint64
	closed bool
}

// NewResetScheduler builds an empty scheduler.
func NewResetScheduler() *ResetScheduler {
	return &ResetScheduler{timers: make(map[string]*armedReset)}
}

// Schedule arms fn to run after d for the device, replacing any pending
// timer. The timer entry is removed before fn runs. A replaced or
// cancelled timer never runs its fn, even when it already fired and is
// waiting on the lock.
func (s *ResetScheduler) Schedule(deviceID string, d time.Duration, fn func()) {
	if deviceID == "" || fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if existing, ok := s.timers[deviceID]; ok {
		existing.timer.Stop()
	}

	s.gen++
	gen := s.gen
	entry := &armedReset{gen: gen}
	entry.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		current, ok := s.timers[deviceID]
		if !ok || current.gen != gen || s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, deviceID)
		s.mu.Unlock()
		fn()
	})
	s.timers[deviceID] = entry
}

// Cancel stops a pending reset for the device, if any. It reports whether
// a timer was armed.
func (s *ResetScheduler) Cancel(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.timers[deviceID]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.timers, deviceID)
	return true
}

// Pending reports whether the device has a reset armed.
func (s *ResetScheduler) Pending(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[deviceID]
	return ok
}

// Stop cancels all pending timers. Used at shutdown.
func (s *ResetScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, id)
	}
}
