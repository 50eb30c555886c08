package fdtable

import (
	"errors"
)

// Standard errors.
var (
	// ErrInvalidArgument indicates a malformed size, unrecognized flag bits,
	// or an illegal value.
	ErrInvalidArgument = errors.New("fdtable: invalid argument")

	// ErrWouldBlock indicates that the operation would have suspended the
	// caller, which was not permitted (non-blocking mode).
	ErrWouldBlock = errors.New("fdtable: operation would block")

	// ErrNoCapacity indicates that a fixed capacity resource (pool, table,
	// wait slots) has been exhausted.
	ErrNoCapacity = errors.New("fdtable: no capacity")

	// ErrNotSupported indicates an unrecognized control request.
	ErrNotSupported = errors.New("fdtable: operation not supported")

	// ErrBadDescriptor indicates that the descriptor is not bound to an
	// object.
	ErrBadDescriptor = errors.New("fdtable: bad descriptor")

	// ErrClosed indicates that the object was closed, including while the
	// caller was blocked on it.
	ErrClosed = errors.New("fdtable: object closed")
)
