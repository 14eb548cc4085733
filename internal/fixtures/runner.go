// Package fixtures generates deterministic synthetic rule documents and
// measurement feeds, runs the eligibility engine over them, and verifies
// that repeated runs agree byte for byte.
package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/NoliDD/assessment-tool/assess"
	"github.com/NoliDD/assessment-tool/engine"
	"github.com/NoliDD/assessment-tool/evidence"
	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/ruleset"
)

// Run executes the complete fixture assessment.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting fixture assessment",
		logger.String("rules", cfg.RulesPath),
		logger.String("feed", cfg.FeedPath),
		logger.String("vertical", cfg.Vertical),
		logger.Int("attributes", cfg.Attributes),
		logger.Any("seed", cfg.Seed),
		logger.Int("runs", cfg.Runs),
		logger.Int("workers", cfg.Workers),
		logger.String("format", outputFormat(cfg)))

	rng := rand.New(rand.NewSource(cfg.Seed))

	// Step 1: Build the rule store.
	store, err := buildStore(ctx, cfg, rng, stats)
	if err != nil {
		return fmt.Errorf("rule document setup failed: %w", err)
	}

	// Step 2: Build the measurement feed.
	feed, generated, err := buildFeed(ctx, cfg, rng, store, stats)
	if err != nil {
		return fmt.Errorf("feed setup failed: %w", err)
	}

	// Step 3: Pin the clock and run-ID source so reruns can be compared.
	agg := assess.NewAggregator(
		assess.WithParallelism(cfg.Workers),
		assess.WithClock(func() time.Time { return time.Unix(cfg.Seed, 0).UTC() }),
		assess.WithRunIDFunc(func() string { return fmt.Sprintf("fixture-%d", cfg.Seed) }),
	)
	engOpts := []engine.Option{engine.WithAggregator(agg)}
	if cfg.WatchRules && cfg.RulesPath != "" {
		engOpts = append(engOpts, engine.WithRuleWatch(cfg.RulesPath, ruleset.WithDebounce(cfg.ReloadDebounce)))
	}
	eng := engine.New(store, engOpts...)
	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("engine start failed: %w", err)
	}
	defer eng.Stop()

	// Step 4: Run the assessment repeatedly.
	runs := cfg.Runs
	if runs <= 0 {
		runs = DefaultRuns
	}
	outputs := make([][]byte, 0, runs)
	var last *engine.Result
	for i := 0; i < runs; i++ {
		res, rerr := eng.Run(ctx, cfg.Vertical, feed)
		if rerr != nil {
			return fmt.Errorf("assessment run %d failed: %w", i+1, rerr)
		}
		var buf bytes.Buffer
		if werr := evidence.Write(&buf, res.Evidence, outputFormat(cfg)); werr != nil {
			return fmt.Errorf("evidence encoding failed: %w", werr)
		}
		outputs = append(outputs, buf.Bytes())
		last = res
	}
	stats.RunsExecuted = runs

	// Step 5: Verify determinism and structural invariants.
	if err := verifyDeterminism(outputs); err != nil {
		return fmt.Errorf("determinism verification failed: %w", err)
	}
	if err := verifyAssessment(last.Verdict); err != nil {
		return fmt.Errorf("verdict verification failed: %w", err)
	}
	stats.Eligible = last.Verdict.Eligible
	stats.BlockingAttributes = len(last.Verdict.Blocking)

	// Step 6: Save artifacts.
	if cfg.OutputDir != "" {
		if err := saveArtifacts(ctx, cfg, generated, outputs[0]); err != nil {
			logger.Get().Warn(ctx, "failed to save artifacts", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats, last)

	logger.Get().Info(ctx, "fixture assessment completed successfully")
	return nil
}

// buildStore loads the configured rule document, or synthesizes one.
func buildStore(ctx context.Context, cfg *Config, rng *rand.Rand, stats *Stats) (*ruleset.Store, error) {
	if cfg.RulesPath != "" {
		doc, err := ruleset.Load(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		stats.RulesGenerated = doc.RuleCount()
		logger.Get().Info(ctx, "loaded rule document",
			logger.String("path", cfg.RulesPath),
			logger.Int("rules", doc.RuleCount()),
			logger.Int("verticals", len(doc.Verticals())))
		return ruleset.NewStore(doc), nil
	}

	doc, err := ruleset.NewDocument(generateRules(cfg, rng))
	if err != nil {
		return nil, err
	}
	stats.RulesGenerated = doc.RuleCount()
	logger.Get().Info(ctx, "synthesized rule document", logger.Int("rules", doc.RuleCount()))
	return ruleset.NewStore(doc), nil
}

// buildFeed loads the configured measurement feed, or synthesizes one
// against the rules the assessment will actually run.
func buildFeed(ctx context.Context, cfg *Config, rng *rand.Rand, store *ruleset.Store, stats *Stats) (*measure.Feed, []measure.Measurement, error) {
	if cfg.FeedPath != "" {
		f, err := os.Open(cfg.FeedPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open feed: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logger.Get().Error(ctx, "failed to close feed file", logger.Error(cerr))
			}
		}()

		feed, err := measure.DecodeFeed(f, measure.WithStrictDuplicates(cfg.StrictDuplicates))
		if err != nil {
			return nil, nil, err
		}
		stats.MeasurementsGenerated = feed.Len()
		logger.Get().Info(ctx, "loaded measurement feed",
			logger.String("path", cfg.FeedPath),
			logger.Int("measurements", feed.Len()))
		return feed, nil, nil
	}

	rs, err := store.Resolve(ctx, cfg.Vertical)
	if err != nil {
		return nil, nil, err
	}
	measurements := generateFeed(rng, rs.Rules)
	stats.MeasurementsGenerated = len(measurements)
	logger.Get().Info(ctx, "synthesized measurement feed",
		logger.Int("measurements", len(measurements)),
		logger.Int("unmeasured", len(rs.Rules)-len(measurements)))
	return measure.NewFeed(measurements...), measurements, nil
}

// saveArtifacts writes the synthetic feed and the first evidence bundle
// under the output directory.
func saveArtifacts(ctx context.Context, cfg *Config, measurements []measure.Measurement, evidenceOut []byte) error {
	if err := os.MkdirAll(cfg.OutputDir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(measurements) > 0 {
		data, err := json.MarshalIndent(measurements, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal feed: %w", err)
		}
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("feed_seed%d.json", cfg.Seed))
		if err := os.WriteFile(path, append(data, '\n'), filePermission); err != nil {
			return fmt.Errorf("failed to write feed: %w", err)
		}
		logger.Get().Info(ctx, "feed saved", logger.String("path", path))
	}

	path := filepath.Join(cfg.OutputDir, fmt.Sprintf("evidence_seed%d.%s", cfg.Seed, outputFormat(cfg)))
	if err := os.WriteFile(path, evidenceOut, filePermission); err != nil {
		return fmt.Errorf("failed to write evidence: %w", err)
	}
	logger.Get().Info(ctx, "evidence saved", logger.String("path", path))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats, res *engine.Result) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("rules", stats.RulesGenerated),
		logger.Int("measurements", stats.MeasurementsGenerated),
		logger.Int("runs", stats.RunsExecuted),
		logger.String("eligibility", res.Verdict.Label()),
		logger.Int("blocking", stats.BlockingAttributes),
		logger.String("duration", stats.Duration.String()))
}

func outputFormat(cfg *Config) string {
	if cfg.Format == "" {
		return evidence.FormatJSON
	}
	return cfg.Format
}
