package noop

import (
	"sync"
	"time"

	"github.com/spaghettifunk/lumen/hal"
)

type fence struct {
	mu       sync.Mutex
	signaled bool
	done     chan struct{}
}

func newFence(signaled bool) *fence {
	f := &fence{signaled: signaled, done: make(chan struct{})}
	if signaled {
		close(f.done)
	}
	return f
}

func (f *fence) Signaled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signaled
}

func (f *fence) signal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.signaled {
		f.signaled = true
		close(f.done)
	}
}

func (f *fence) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signaled {
		f.signaled = false
		f.done = make(chan struct{})
	}
}

func (f *fence) wait(timeoutNs uint64) hal.Result {
	f.mu.Lock()
	done := f.done
	signaled := f.signaled
	f.mu.Unlock()

	if signaled {
		return hal.Success
	}
	if timeoutNs == 0 {
		return hal.Timeout
	}
	if timeoutNs == hal.TimeoutInfinite {
		<-done
		return hal.Success
	}

	select {
	case <-done:
		return hal.Success
	case <-time.After(time.Duration(timeoutNs) * time.Nanosecond):
		return hal.Timeout
	}
}

// semaphore is binary: signal sets it, a successful wait consumes it.
type semaphore struct {
	mu       sync.Mutex
	signaled bool
}

func (s *semaphore) signal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signaled = true
}

func (s *semaphore) consume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.signaled
	s.signaled = false
	return was
}
