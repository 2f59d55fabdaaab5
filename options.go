package timerq

import (
	"errors"

	"github.com/joeycumines/logiface"
)

// queueOptions holds configuration options for Queue creation.
type queueOptions struct {
	now      func() float64
	logger   *logiface.Logger[logiface.Event]
	capacity int
}

// Option configures a Queue instance.
type Option interface {
	applyQueue(*queueOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyQueueFunc func(*queueOptions) error
}

func (o *optionImpl) applyQueue(opts *queueOptions) error {
	return o.applyQueueFunc(opts)
}

// WithNowFunc overrides the monotonic clock used for all wakeup arithmetic.
// The default is [MonotonicNow]. The replacement must be non-decreasing, in
// seconds, and must never return NaN.
func WithNowFunc(now func() float64) Option {
	return &optionImpl{func(opts *queueOptions) error {
		if now == nil {
			return errors.New("timerq: nil now func")
		}
		opts.now = now
		return nil
	}}
}

// WithLogger attaches a logger to the Queue. A nil logger (the default)
// disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *queueOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithCapacity sets the initial pending-queue capacity, rounded up to the
// next power of 2. Zero selects the default. The queue grows as needed
// regardless.
func WithCapacity(n int) Option {
	return &optionImpl{func(opts *queueOptions) error {
		if n < 0 {
			return errors.New("timerq: negative capacity")
		}
		if n > 0 {
			opts.capacity = n
		}
		return nil
	}}
}

// resolveQueueOptions applies Option instances to queueOptions.
func resolveQueueOptions(opts []Option) (*queueOptions, error) {
	cfg := &queueOptions{
		now:      MonotonicNow, // default
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // skip nil options gracefully
		}
		if err := opt.applyQueue(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
