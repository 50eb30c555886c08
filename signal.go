package eventfd

import (
	"context"
	"sync"
)

// signal is a binary semaphore which may also be observed without being
// consumed, see ready. Each method accepts the done channel of the caller's
// incarnation of the owning object, and is a no-op (or fails with ErrClosed)
// once it is closed. The check happens under mu, and the owner only calls
// init after closing the previous incarnation's done channel, so a stale
// caller can never consume or observe state belonging to a later incarnation.
type signal struct {
	// ch is closed while set
	ch  chan struct{}
	mu  sync.Mutex
	set bool
}

func (s *signal) init(set bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ch = make(chan struct{})
	s.set = set
	if set {
		close(s.ch)
	}
}

// give asserts the signal.
func (s *signal) give(done <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isClosed(done) || s.set {
		return
	}
	s.set = true
	close(s.ch)
}

// tryTake resets the signal, without blocking, returning true if it was
// set.
func (s *signal) tryTake(done <-chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isClosed(done) || !s.set {
		return false
	}
	s.reset()
	return true
}

// take blocks until the signal is set, then resets it.
func (s *signal) take(ctx context.Context, done <-chan struct{}) error {
	for {
		s.mu.Lock()
		if isClosed(done) {
			s.mu.Unlock()
			return ErrClosed
		}
		if s.set {
			s.reset()
			s.mu.Unlock()
			return nil
		}
		ch := s.ch
		s.mu.Unlock()

		select {
		case <-ch:
		case <-done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ready returns a channel that is closed once the signal is set, observing
// it without consuming it.
func (s *signal) ready(done <-chan struct{}) (<-chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isClosed(done) {
		return nil, false
	}
	return s.ch, true
}

// abandon wakes every observer of the current channel, and must only be
// called after the incarnation's done channel has been closed. All other
// methods check done first, so the signal is inert until the next init.
func (s *signal) abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		s.set = true
		close(s.ch)
	}
}

// must be called with mu held, while set
func (s *signal) reset() {
	s.set = false
	s.ch = make(chan struct{})
}

func isClosed(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
