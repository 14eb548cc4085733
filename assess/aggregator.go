package assess

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/pkg/metrics"
	"github.com/NoliDD/assessment-tool/ruleset"
	"github.com/NoliDD/assessment-tool/verdict"
)

// Aggregator evaluates every rule of a resolved rule set against a
// measurement feed and folds the attribute verdicts into one assessment.
// The zero value is not usable; construct with NewAggregator.
type Aggregator struct {
	parallelism int
	clock       func() time.Time
	newID       func() string
	log         logger.Logger
}

// NewAggregator builds an aggregator. Defaults: one evaluation worker per
// CPU, wall-clock timestamps and random run IDs.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		parallelism: runtime.NumCPU(),
		clock:       time.Now,
		newID:       uuid.NewString,
		log:         logger.Named("assess"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	metrics.UpdateEvaluationWorkers(a.parallelism)
	return a
}

// Aggregate runs the assessment for one vertical. Attribute verdicts keep
// the rule set's declaration order regardless of how many workers ran, and
// the blocking list is the required non-pass subsequence of that order.
// Identical inputs produce identical assessments when the clock and run-ID
// source are fixed. The only error condition is context cancellation; rule
// evaluation itself never aborts the run.
func (a *Aggregator) Aggregate(ctx context.Context, rs *ruleset.ResolvedRuleSet, feed *measure.Feed) (*verdict.Assessment, error) {
	start := time.Now()

	attrs, err := a.evaluateAll(ctx, rs.Rules, feed)
	if err != nil {
		return nil, err
	}

	eligible := true
	var blocking []verdict.Attribute
	for _, v := range attrs {
		metrics.RecordEvaluation(string(v.Status))
		if v.Blocks() {
			eligible = false
			blocking = append(blocking, v)
		}
	}

	out := &verdict.Assessment{
		RunID:       a.newID(),
		Vertical:    rs.Vertical,
		Eligible:    eligible,
		Attributes:  attrs,
		Blocking:    blocking,
		GeneratedAt: a.clock().UTC(),
	}

	outcome := metrics.OutcomeEligible
	if !eligible {
		outcome = metrics.OutcomeNotEligible
	}
	metrics.RecordAssessment(outcome)
	metrics.RecordBlockingAttributes(len(blocking))
	metrics.RecordAssessmentDuration(float64(time.Since(start).Milliseconds()))

	a.log.Debug(ctx, "assessment aggregated",
		logger.String("vertical", rs.Vertical),
		logger.String("run_id", out.RunID),
		logger.Bool("eligible", eligible),
		logger.Int("attributes", len(attrs)),
		logger.Int("blocking", len(blocking)),
	)

	return out, nil
}
