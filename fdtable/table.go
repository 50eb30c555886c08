package fdtable

import (
	"context"
	"fmt"
	"sync"

	"github.com/joeycumines/logiface"
)

type (
	// Table maps descriptors to objects. Descriptors are allocated lowest
	// first, in two phases: Reserve claims a descriptor, and Finalize binds
	// it to an object. Instances must be created using New.
	Table struct {
		logger  *logiface.Logger[logiface.Event]
		entries []entry
		mu      sync.Mutex
	}

	entry struct {
		obj      Object
		reserved bool
	}
)

// New creates a Table with the given fixed capacity, which must be positive.
func New(capacity int, opts ...Option) (*Table, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidArgument, capacity)
	}
	cfg, err := resolveTableOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Table{
		logger:  cfg.logger,
		entries: make([]entry, capacity),
	}, nil
}

// Cap returns the fixed capacity of the table.
func (t *Table) Cap() int {
	return len(t.entries)
}

// Len returns the number of reserved descriptors, bound or not.
func (t *Table) Len() (n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].reserved {
			n++
		}
	}
	return n
}

// Reserve claims the lowest free descriptor, returning ErrNoCapacity if the
// table is full. The descriptor must subsequently be passed to either
// Finalize or Free.
func (t *Table) Reserve() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for fd := range t.entries {
		if !t.entries[fd].reserved {
			t.entries[fd].reserved = true
			return fd, nil
		}
	}
	t.logger.Warning().
		Int(`capacity`, len(t.entries)).
		Log(`fdtable: descriptor table exhausted`)
	return -1, ErrNoCapacity
}

// Finalize binds a reserved descriptor to obj. It returns ErrBadDescriptor if
// fd was not reserved, or is already bound, and ErrInvalidArgument if obj is
// nil.
func (t *Table) Finalize(fd int, obj Object) error {
	if obj == nil {
		return ErrInvalidArgument
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.valid(fd) || !t.entries[fd].reserved || t.entries[fd].obj != nil {
		return ErrBadDescriptor
	}
	t.entries[fd].obj = obj
	t.logger.Debug().
		Int(`fd`, fd).
		Log(`fdtable: descriptor bound`)
	return nil
}

// Free releases a descriptor without dispatching any request to the object
// bound to it (if any). It is intended to undo Reserve.
func (t *Table) Free(fd int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.valid(fd) {
		t.entries[fd] = entry{}
	}
}

// Get returns the object bound to fd.
func (t *Table) Get(fd int) (Object, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.valid(fd) || t.entries[fd].obj == nil {
		return nil, ErrBadDescriptor
	}
	return t.entries[fd].obj, nil
}

// Read dispatches to the Read method of the object bound to fd.
func (t *Table) Read(fd int, p []byte) (int, error) {
	obj, err := t.Get(fd)
	if err != nil {
		return 0, err
	}
	return obj.Read(p)
}

// Write dispatches to the Write method of the object bound to fd.
func (t *Table) Write(fd int, p []byte) (int, error) {
	obj, err := t.Get(fd)
	if err != nil {
		return 0, err
	}
	return obj.Write(p)
}

// ReadContext is Read, passing ctx to objects that implement ContextReader.
func (t *Table) ReadContext(ctx context.Context, fd int, p []byte) (int, error) {
	obj, err := t.Get(fd)
	if err != nil {
		return 0, err
	}
	if r, ok := obj.(ContextReader); ok {
		return r.ReadContext(ctx, p)
	}
	return obj.Read(p)
}

// WriteContext is Write, passing ctx to objects that implement
// ContextWriter.
func (t *Table) WriteContext(ctx context.Context, fd int, p []byte) (int, error) {
	obj, err := t.Get(fd)
	if err != nil {
		return 0, err
	}
	if w, ok := obj.(ContextWriter); ok {
		return w.WriteContext(ctx, p)
	}
	return obj.Write(p)
}

// Ioctl dispatches req to the object bound to fd. A CloseRequest is handled
// as Close, detaching fd first.
func (t *Table) Ioctl(fd int, req Request) (int, error) {
	if _, ok := req.(CloseRequest); ok {
		if err := t.Close(fd); err != nil {
			return -1, err
		}
		return 0, nil
	}
	obj, err := t.Get(fd)
	if err != nil {
		return -1, err
	}
	return obj.Ioctl(req)
}

// Close detaches fd then dispatches CloseRequest to the object. The
// descriptor is free for reuse once Close returns, even if the object
// reported an error.
func (t *Table) Close(fd int) error {
	t.mu.Lock()
	if !t.valid(fd) || t.entries[fd].obj == nil {
		t.mu.Unlock()
		return ErrBadDescriptor
	}
	obj := t.entries[fd].obj
	t.entries[fd] = entry{}
	t.mu.Unlock()

	if _, err := obj.Ioctl(CloseRequest{}); err != nil {
		t.logger.Err().
			Int(`fd`, fd).
			Err(err).
			Log(`fdtable: close failed`)
		return err
	}
	t.logger.Debug().
		Int(`fd`, fd).
		Log(`fdtable: descriptor closed`)
	return nil
}

func (t *Table) valid(fd int) bool {
	return fd >= 0 && fd < len(t.entries)
}
