package eventfd

import (
	"context"
	"encoding/binary"

	"github.com/joeycumines/go-eventfd/fdtable"
)

// Eventfd creates an event object (see Pool.Create), and binds it to a
// descriptor of the pool's table (see WithTable). If the table is full, the
// object is released, and ErrNoCapacity is returned.
//
// The descriptor supports Read, Write, and the control requests documented
// by EventFD.Ioctl, and is released with Table.Close.
func (p *Pool) Eventfd(initval uint64, flags Flags) (int, error) {
	e, err := p.Create(initval, flags)
	if err != nil {
		return -1, err
	}

	fd, err := p.table.Reserve()
	if err != nil {
		_ = e.Close()
		return -1, err
	}

	if err := p.table.Finalize(fd, e); err != nil {
		p.table.Free(fd)
		_ = e.Close()
		return -1, err
	}

	p.logger.Debug().
		Int(`id`, e.ID()).
		Int(`fd`, fd).
		Log(`eventfd: bound to descriptor`)

	return fd, nil
}

// ReadFD reads a value from the object bound to fd, see EventFD.ReadValue.
func ReadFD(table *fdtable.Table, fd int) (uint64, error) {
	return ReadFDContext(context.Background(), table, fd)
}

// ReadFDContext is ReadFD, with a context that bounds any blocking wait.
func ReadFDContext(ctx context.Context, table *fdtable.Table, fd int) (uint64, error) {
	var buf [8]byte
	if _, err := table.ReadContext(ctx, fd, buf[:]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

// WriteFD writes a value to the object bound to fd, see EventFD.WriteValue.
func WriteFD(table *fdtable.Table, fd int, v uint64) error {
	return WriteFDContext(context.Background(), table, fd, v)
}

// WriteFDContext is WriteFD, with a context that bounds any blocking wait.
func WriteFDContext(ctx context.Context, table *fdtable.Table, fd int, v uint64) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], v)
	_, err := table.WriteContext(ctx, fd, buf[:])
	return err
}
