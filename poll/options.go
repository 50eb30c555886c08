package poll

import (
	"fmt"

	"github.com/joeycumines/go-eventfd/fdtable"
	"github.com/joeycumines/logiface"
)

// DefaultMaxSlots is the default capacity of the wait slot array used by a
// single call to Poller.Poll.
const DefaultMaxSlots = 32

// pollerOptions holds configuration options for Poller creation.
type pollerOptions struct {
	logger   *logiface.Logger[logiface.Event]
	maxSlots int
}

// Option configures a Poller instance.
type Option interface {
	applyPoller(*pollerOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyPollerFunc func(*pollerOptions) error
}

func (o *optionImpl) applyPoller(opts *pollerOptions) error {
	return o.applyPollerFunc(opts)
}

// WithLogger attaches a structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *pollerOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMaxSlots sets the capacity of the wait slot array, which bounds the
// number of wait entries all polled objects may claim, per call to Poll.
func WithMaxSlots(n int) Option {
	return &optionImpl{func(opts *pollerOptions) error {
		if n <= 0 {
			return fmt.Errorf("%w: max slots %d", fdtable.ErrInvalidArgument, n)
		}
		opts.maxSlots = n
		return nil
	}}
}

// resolvePollerOptions applies Option instances to pollerOptions.
func resolvePollerOptions(opts []Option) (*pollerOptions, error) {
	cfg := &pollerOptions{
		maxSlots: DefaultMaxSlots,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyPoller(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
