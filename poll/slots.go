package poll

import (
	"context"
	"sync"
	"time"

	"github.com/joeycumines/go-eventfd/fdtable"
)

// SlotState is the resolved state of a Slot.
type SlotState uint8

const (
	// NotReady indicates that the bound channel was not ready when the slots
	// were last resolved.
	NotReady SlotState = iota
	// Ready indicates that the bound channel was ready.
	Ready
)

// String returns the name of the state.
func (s SlotState) String() string {
	switch s {
	case NotReady:
		return `NotReady`
	case Ready:
		return `Ready`
	default:
		return `Unknown`
	}
}

type (
	// Slot is a single wait entry, bound to a channel that is closed (or
	// otherwise receivable) while the observed condition might hold.
	// Receiving from the channel must not consume anything.
	Slot struct {
		ready <-chan struct{}
		state SlotState
	}

	// Slots is a bounded array of wait entries, with a cursor. During the
	// prepare phase, the cursor is the next free entry. During the update
	// phase, it is the next entry to be consumed.
	Slots struct {
		slots  []Slot
		n      int
		cursor int
	}
)

// State returns the state of the slot as of the last resolve.
func (s *Slot) State() SlotState {
	return s.state
}

// NewSlots allocates an array of n wait entries.
func NewSlots(n int) *Slots {
	if n < 0 {
		n = 0
	}
	return &Slots{slots: make([]Slot, n)}
}

// Cap returns the capacity of the array.
func (s *Slots) Cap() int { return len(s.slots) }

// Len returns the number of bound entries.
func (s *Slots) Len() int { return s.n }

// Cursor returns the current cursor position.
func (s *Slots) Cursor() int { return s.cursor }

// Bind claims the next free entry, binding it to ready, in the NotReady
// state. It returns fdtable.ErrNoCapacity if the array is full.
func (s *Slots) Bind(ready <-chan struct{}) error {
	if s.n >= len(s.slots) {
		return fdtable.ErrNoCapacity
	}
	s.slots[s.n] = Slot{ready: ready}
	s.n++
	s.cursor = s.n
	return nil
}

// Next returns the entry at the cursor, advancing the cursor past it.
func (s *Slots) Next() (*Slot, bool) {
	if s.cursor >= s.n {
		return nil, false
	}
	slot := &s.slots[s.cursor]
	s.cursor++
	return slot, true
}

// Seek moves the cursor, clamped to the bound entries.
func (s *Slots) Seek(cursor int) {
	s.cursor = min(max(cursor, 0), s.n)
}

// Reset unbinds all entries.
func (s *Slots) Reset() {
	clear(s.slots[:s.n])
	s.n = 0
	s.cursor = 0
}

// resolve updates the state of every bound entry, without blocking,
// returning true if any were ready.
func (s *Slots) resolve() (ready bool) {
	for i := range s.slots[:s.n] {
		slot := &s.slots[i]
		select {
		case <-slot.ready:
			slot.state = Ready
			ready = true
		default:
			slot.state = NotReady
		}
	}
	return ready
}

// wait blocks until any bound entry becomes ready, ctx is canceled, or
// expired is receivable (a nil expired never fires). It returns true if
// expired fired.
func (s *Slots) wait(ctx context.Context, expired <-chan time.Time) (bool, error) {
	woke := make(chan struct{}, 1)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := range s.slots[:s.n] {
		ch := s.slots[i].ready
		if ch == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ch:
				select {
				case woke <- struct{}{}:
				default:
				}
			case <-stop:
			}
		}()
	}
	defer func() {
		close(stop)
		wg.Wait()
	}()

	select {
	case <-woke:
		return false, nil
	case <-expired:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
