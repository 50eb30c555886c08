//go:build !unix

package fdtable

import (
	"errors"
	"syscall"
)

// Errno maps err to the equivalent error number, returning 0 for a nil error.
// Errors that wrap a [syscall.Errno] resolve to that value. Unrecognized
// errors map to EIO.
//
// On non-unix platforms the values are the invented errno constants provided
// by package syscall.
func Errno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidArgument):
		return syscall.EINVAL
	case errors.Is(err, ErrWouldBlock):
		return syscall.EAGAIN
	case errors.Is(err, ErrNoCapacity):
		return syscall.ENOMEM
	case errors.Is(err, ErrNotSupported):
		return syscall.EOPNOTSUPP
	case errors.Is(err, ErrBadDescriptor), errors.Is(err, ErrClosed):
		return syscall.EBADF
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return syscall.EIO
}
