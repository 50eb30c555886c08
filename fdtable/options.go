package fdtable

import (
	"github.com/joeycumines/logiface"
)

// tableOptions holds configuration options for Table creation.
type tableOptions struct {
	logger *logiface.Logger[logiface.Event]
}

// Option configures a Table instance.
type Option interface {
	applyTable(*tableOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyTableFunc func(*tableOptions) error
}

func (o *optionImpl) applyTable(opts *tableOptions) error {
	return o.applyTableFunc(opts)
}

// WithLogger attaches a structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *tableOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveTableOptions applies Option instances to tableOptions.
func resolveTableOptions(opts []Option) (*tableOptions, error) {
	cfg := &tableOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyTable(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
