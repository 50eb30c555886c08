package eventfd

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-eventfd/fdtable"
	"github.com/joeycumines/logiface"
)

// DefaultCapacity is the default number of slots in a Pool.
const DefaultCapacity = 32

// poolOptions holds configuration options for Pool creation.
type poolOptions struct {
	table          *fdtable.Table
	logger         *logiface.Logger[logiface.Event]
	logRateLimits  map[time.Duration]int
	capacity       int
	metricsEnabled bool
}

// --- Pool Options ---

// Option configures a Pool instance.
type Option interface {
	applyPool(*poolOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyPoolFunc func(*poolOptions) error
}

func (o *optionImpl) applyPool(opts *poolOptions) error {
	return o.applyPoolFunc(opts)
}

// WithCapacity sets the fixed number of event objects the pool can hold
// open at once. Defaults to DefaultCapacity.
func WithCapacity(n int) Option {
	return &optionImpl{func(opts *poolOptions) error {
		if n <= 0 {
			return fmt.Errorf("%w: capacity %d", ErrInvalidArgument, n)
		}
		opts.capacity = n
		return nil
	}}
}

// WithTable sets the descriptor table used by Pool.Eventfd. If not
// provided, the pool creates a private table, with the same capacity as the
// pool.
func WithTable(table *fdtable.Table) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.table = table
		return nil
	}}
}

// WithLogger attaches a structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithLogRateLimits configures the rate limits applied to repeated warnings,
// e.g. on pool exhaustion, see catrate.NewLimiter for the format. A nil map
// disables rate limiting. Defaults to 1 per second and 10 per minute.
func WithLogRateLimits(rates map[time.Duration]int) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.logRateLimits = rates
		return nil
	}}
}

// WithMetrics enables runtime metrics collection, see Pool.Metrics and
// Pool.Stats.
func WithMetrics(enabled bool) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// resolvePoolOptions applies Option instances to poolOptions.
func resolvePoolOptions(opts []Option) (*poolOptions, error) {
	cfg := &poolOptions{
		capacity: DefaultCapacity,
		logRateLimits: map[time.Duration]int{
			time.Second: 1,
			time.Minute: 10,
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
