// Package engine wires rule resolution, attribute evaluation and evidence
// export into a single assessment entrypoint.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/NoliDD/assessment-tool/assess"
	"github.com/NoliDD/assessment-tool/evidence"
	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/ruleset"
	"github.com/NoliDD/assessment-tool/verdict"
)

// Result pairs the raw assessment with its exported evidence bundle.
type Result struct {
	Verdict  *verdict.Assessment
	Evidence *evidence.Bundle
}

// Engine runs eligibility assessments against a rule store. It is safe for
// concurrent use; rule reloads through the store apply to subsequent runs.
type Engine struct {
	store *ruleset.Store
	agg   *assess.Aggregator
	log   logger.Logger

	watchPath string
	watchOpts []ruleset.Option

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New builds an engine over the given rule store.
func New(store *ruleset.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   logger.Named("engine"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.agg == nil {
		e.agg = assess.NewAggregator()
	}
	return e
}

// Run assesses one measurement feed against the rules for a vertical.
// Unknown verticals fail fast with ruleset.ErrUnknownVertical before any
// evaluation happens.
func (e *Engine) Run(ctx context.Context, vertical string, feed *measure.Feed) (*Result, error) {
	start := time.Now()

	rs, err := e.store.Resolve(ctx, vertical)
	if err != nil {
		return nil, err
	}

	a, err := e.agg.Aggregate(ctx, rs, feed)
	if err != nil {
		return nil, err
	}

	e.log.Info(ctx, "assessment complete",
		logger.String("vertical", rs.Vertical),
		logger.String("run_id", a.RunID),
		logger.String("eligibility", a.Label()),
		logger.Int("attributes", len(a.Attributes)),
		logger.Int("blocking", len(a.Blocking)),
		logger.Duration("took", time.Since(start)),
	)

	return &Result{Verdict: a, Evidence: evidence.Export(a)}, nil
}

// Verticals lists the verticals the active rule document declares.
func (e *Engine) Verticals() []string {
	return e.store.Verticals()
}

// Start launches the background rule watcher when one was configured with
// WithRuleWatch. Without a watch path it only marks the engine started.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	e.started = true
	if e.watchPath == "" {
		return nil
	}

	wctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	go func() {
		defer close(e.done)
		if err := ruleset.Watch(wctx, e.watchPath, e.store, e.watchOpts...); err != nil {
			e.log.Error(wctx, "rule watcher stopped", logger.Error(err))
		}
	}()

	e.log.Info(ctx, "rule watcher started", logger.String("path", e.watchPath))
	return nil
}

// Stop halts the background watcher and waits for it to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	if e.cancel != nil {
		e.cancel()
		<-e.done
		e.cancel = nil
		e.done = nil
	}
	e.started = false
}
