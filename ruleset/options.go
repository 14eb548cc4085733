package ruleset

import (
	"time"

	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/predicate"
)

const defaultDebounce = 500 * time.Millisecond

// Option applies a configuration option to loading, stores, and watching.
type Option func(*options)

type options struct {
	registry *predicate.Registry
	log      logger.Logger
	debounce time.Duration
}

func newOptions() options {
	return options{
		registry: predicate.NewRegistry(),
		log:      logger.Named("ruleset"),
		debounce: defaultDebounce,
	}
}

// WithRegistry sets the predicate registry rule documents bind against.
// The default carries the builtins.
func WithRegistry(reg *predicate.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDebounce sets the watcher's quiet window before a reload.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}
