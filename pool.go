package eventfd

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-eventfd/fdtable"
	"github.com/joeycumines/logiface"
)

// Pool is a fixed capacity arena of event objects. Allocation is a linear
// scan under a pool-wide mutex, which is independent of the per-object
// locks, and is never held across a blocking wait. Instances must be created
// using NewPool.
type Pool struct {
	table   *fdtable.Table
	logger  *logiface.Logger[logiface.Event]
	limiter *catrate.Limiter
	metrics *Metrics
	objects []object
	inUse   atomic.Int64
	mu      sync.Mutex
}

// rate limiting categories
type (
	limitNoCapacity struct{}
)

// NewPool creates a Pool, see Option.
func NewPool(opts ...Option) (*Pool, error) {
	cfg, err := resolvePoolOptions(opts)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		table:   cfg.table,
		logger:  cfg.logger,
		objects: make([]object, cfg.capacity),
	}

	if cfg.logRateLimits != nil {
		if p.limiter, err = newLimiter(cfg.logRateLimits); err != nil {
			return nil, err
		}
	}

	if cfg.metricsEnabled {
		p.metrics = &Metrics{}
	}

	if p.table == nil {
		if p.table, err = fdtable.New(cfg.capacity, fdtable.WithLogger(cfg.logger)); err != nil {
			return nil, err
		}
	}

	for i := range p.objects {
		p.objects[i].id = i
	}

	return p, nil
}

func newLimiter(rates map[time.Duration]int) (limiter *catrate.Limiter, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidArgument, r)
		}
	}()
	return catrate.NewLimiter(rates), nil
}

// Capacity returns the fixed number of slots.
func (p *Pool) Capacity() int {
	return len(p.objects)
}

// InUse returns the number of open objects.
func (p *Pool) InUse() int {
	return int(p.inUse.Load())
}

// Table returns the descriptor table used by Eventfd.
func (p *Pool) Table() *fdtable.Table {
	return p.table
}

// Metrics returns the live metrics, or nil if not enabled (see WithMetrics).
func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

// Create allocates and initializes an event object, with the counter set to
// initval. Fails with ErrInvalidArgument if flags contains bits outside
// FlagsSet, or if initval is the reserved value math.MaxUint64, and with
// ErrNoCapacity if every slot is in use.
//
// The read wake signal starts asserted if initval is non-zero.
func (p *Pool) Create(initval uint64, flags Flags) (*EventFD, error) {
	if err := validateFlags(flags); err != nil {
		return nil, err
	}
	if initval == math.MaxUint64 {
		return nil, wrapError(`initial value is reserved`, ErrInvalidArgument)
	}

	o, err := p.allocate()
	if err != nil {
		return nil, err
	}

	o.guard.Lock()
	o.counter = initval
	o.flags = flagInUse | flags
	o.done = make(chan struct{})
	o.readSignal.init(initval != 0)
	o.writeSignal.init(false)
	e := &EventFD{
		pool: p,
		obj:  o,
		done: o.done,
		gen:  o.gen,
	}
	o.guard.Unlock()

	if p.metrics != nil {
		p.metrics.Creates.Add(1)
	}

	p.logger.Debug().
		Int(`id`, o.id).
		Uint64(`initval`, initval).
		Stringer(`flags`, flags).
		Log(`eventfd: created`)

	return e, nil
}

// allocate claims the first free slot. Initialization happens after the
// pool lock is released.
func (p *Pool) allocate() (*object, error) {
	p.mu.Lock()
	for i := range p.objects {
		o := &p.objects[i]
		o.guard.Lock()
		if o.flags&flagInUse == 0 {
			o.flags = flagInUse
			o.guard.Unlock()
			p.mu.Unlock()
			p.inUse.Add(1)
			return o, nil
		}
		o.guard.Unlock()
	}
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.NoCapacity.Add(1)
	}
	if _, ok := p.limiter.Allow(limitNoCapacity{}); ok {
		p.logger.Warning().
			Int(`capacity`, len(p.objects)).
			Log(`eventfd: pool exhausted`)
	}
	return nil, ErrNoCapacity
}

// release clears the slot of e, returning it to the pool, and closes the
// incarnation's done channel, waking all blocked waiters.
func (p *Pool) release(e *EventFD) error {
	o := e.obj
	o.guard.Lock()
	if o.gen != e.gen || o.flags&flagInUse == 0 {
		o.guard.Unlock()
		return ErrClosed
	}
	o.flags = 0
	o.counter = 0
	o.gen++
	close(o.done)
	o.readSignal.abandon()
	o.writeSignal.abandon()
	o.guard.Unlock()

	p.inUse.Add(-1)

	if p.metrics != nil {
		p.metrics.Closes.Add(1)
	}

	p.logger.Debug().
		Int(`id`, o.id).
		Log(`eventfd: closed`)

	return nil
}
