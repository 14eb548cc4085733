package engine

import (
	"github.com/NoliDD/assessment-tool/assess"
	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/ruleset"
)

// Option configures an Engine.
type Option func(*Engine)

// WithAggregator replaces the default aggregator, typically to pin the
// clock and run-ID source or to bound parallelism.
func WithAggregator(a *assess.Aggregator) Option {
	return func(e *Engine) {
		if a != nil {
			e.agg = a
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRuleWatch arms Start with a rule file to watch. Reloads replace the
// store's document; runs already in flight keep the document they resolved.
func WithRuleWatch(path string, opts ...ruleset.Option) Option {
	return func(e *Engine) {
		if path != "" {
			e.watchPath = path
			e.watchOpts = opts
		}
	}
}
