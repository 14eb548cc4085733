package assess

import (
	"time"

	"github.com/NoliDD/assessment-tool/pkg/logger"
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithParallelism sets how many evaluation workers run concurrently.
// Values below one are ignored.
func WithParallelism(n int) Option {
	return func(a *Aggregator) {
		if n >= 1 {
			a.parallelism = n
		}
	}
}

// WithClock overrides the timestamp source. Fix the clock to make repeated
// runs over the same inputs byte-identical.
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithRunIDFunc overrides the run-ID source.
func WithRunIDFunc(fn func() string) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// WithLogger sets the logger used by the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}
