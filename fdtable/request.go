package fdtable

import (
	"context"
	"io"
)

type (
	// Object is the capability interface implemented by anything bound to a
	// Table. Read and Write follow the io.Reader and io.Writer contracts.
	// Ioctl receives control requests, and must return ErrNotSupported for
	// any request it does not recognize.
	Object interface {
		io.Reader
		io.Writer
		Ioctl(req Request) (int, error)
	}

	// ContextReader is optionally implemented by objects whose reads may
	// block, see Table.ReadContext.
	ContextReader interface {
		ReadContext(ctx context.Context, p []byte) (int, error)
	}

	// ContextWriter is optionally implemented by objects whose writes may
	// block, see Table.WriteContext.
	ContextWriter interface {
		WriteContext(ctx context.Context, p []byte) (int, error)
	}

	// Request models a control operation. The set of requests is open:
	// other packages (e.g. poll) define their own, and objects type switch on
	// the concrete type.
	Request interface {
		RequestName() string
	}

	// GetFlagsRequest retrieves the object's mode flags, which are returned
	// as the int result of Ioctl.
	GetFlagsRequest struct{}

	// SetFlagsRequest replaces the object's mode flags.
	SetFlagsRequest struct {
		Flags int
	}

	// CloseRequest releases the object. It is dispatched by Table.Close,
	// after the descriptor has been detached.
	CloseRequest struct{}
)

var (
	_ Request = GetFlagsRequest{}
	_ Request = SetFlagsRequest{}
	_ Request = CloseRequest{}
)

func (GetFlagsRequest) RequestName() string { return `get_flags` }

func (SetFlagsRequest) RequestName() string { return `set_flags` }

func (CloseRequest) RequestName() string { return `close` }
