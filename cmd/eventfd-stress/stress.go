package main

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-eventfd"
	"github.com/joeycumines/go-eventfd/fdtable"
	"github.com/joeycumines/go-eventfd/poll"
	"github.com/joeycumines/logiface"
	"golang.org/x/sync/errgroup"
)

type result struct {
	elapsed  time.Duration
	posted   uint64
	received uint64
	reads    int
}

func stress(ctx context.Context, pool *eventfd.Pool, logger *logiface.Logger[logiface.Event], cfg config) (*result, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var flags eventfd.Flags
	if cfg.semaphore {
		flags |= eventfd.FlagSemaphore
	}
	if cfg.poll {
		flags |= eventfd.FlagNonBlock
	}

	table := pool.Table()
	fd, err := pool.Eventfd(0, flags)
	if err != nil {
		return nil, err
	}
	var closeOnce atomic.Bool
	closeFD := func() {
		if closeOnce.CompareAndSwap(false, true) {
			_ = table.Close(fd)
		}
	}
	defer closeFD()

	poller, err := poll.NewPoller(table, poll.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var (
		target   = uint64(cfg.writers) * uint64(cfg.posts)
		received atomic.Uint64
		reads    atomic.Int64
		start    = time.Now()
	)

	readers, rctx := errgroup.WithContext(ctx)
	for range cfg.readers {
		readers.Go(func() error {
			for {
				v, err := readOne(rctx, table, poller, fd, cfg.poll)
				if err != nil {
					if errors.Is(err, eventfd.ErrClosed) || errors.Is(err, eventfd.ErrBadDescriptor) {
						// the last reader closed the object
						return nil
					}
					return err
				}
				reads.Add(1)
				if received.Add(v) >= target {
					closeFD()
					return nil
				}
			}
		})
	}

	writers, wctx := errgroup.WithContext(ctx)
	for i := range cfg.writers {
		writers.Go(func() error {
			for j := range cfg.posts {
				if err := wctx.Err(); err != nil {
					return err
				}
				if err := eventfd.WriteFDContext(wctx, table, fd, 1); err != nil {
					logger.Err().
						Int("writer", i).
						Int("post", j).
						Err(err).
						Log("write failed")
					return err
				}
			}
			return nil
		})
	}

	werr := writers.Wait()
	if werr != nil {
		closeFD()
	}
	rerr := readers.Wait()

	if err := errors.Join(werr, rerr); err != nil {
		return nil, err
	}

	return &result{
		elapsed:  time.Since(start),
		posted:   target,
		received: received.Load(),
		reads:    int(reads.Load()),
	}, nil
}

// readOne reads a single value, either blocking, or waiting for readiness
// using the poller, then attempting a non-blocking read.
func readOne(ctx context.Context, table *fdtable.Table, poller *poll.Poller, fd int, usePoll bool) (uint64, error) {
	if !usePoll {
		return eventfd.ReadFDContext(ctx, table, fd)
	}
	for {
		v, err := eventfd.ReadFD(table, fd)
		if !errors.Is(err, eventfd.ErrWouldBlock) {
			return v, err
		}
		fds := []poll.FD{{FD: fd, Events: poll.In}}
		if _, err := poller.Poll(ctx, fds, -1); err != nil {
			return 0, err
		}
		if fds[0].REvents&poll.Nval != 0 {
			return 0, eventfd.ErrBadDescriptor
		}
	}
}
