package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/NoliDD/assessment-tool/internal/config"
	"github.com/NoliDD/assessment-tool/internal/fixtures"
)

// Default configuration constants.
const (
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	// Defaults layer in from ASSESS_CONFIG and ASSESS_* env vars; flags
	// override both.
	base, err := config.Load(context.Background())
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		rulesPath  = flag.String("rules", base.RulesPath, "Rule document to load (YAML, JSON or CSV); empty synthesizes one")
		feedPath   = flag.String("feed", base.FeedPath, "Measurement feed to load (JSON); empty synthesizes one")
		vertical   = flag.String("vertical", base.Vertical, "Vertical to assess (default: the universal baseline)")
		attributes = flag.Int("attributes", fixtures.DefaultAttributes, "Number of synthetic attributes to generate")
		seed       = flag.Int64("seed", fixtures.DefaultSeed, "Seed for the synthetic generators")
		runs       = flag.Int("runs", fixtures.DefaultRuns, "How many times to repeat the assessment")
		workers    = flag.Int("workers", base.Workers, "Number of concurrent evaluation workers")
		format     = flag.String("format", base.Format, "Evidence output format: json or yaml")
		outputDir  = flag.String("output", base.OutputDir, "Directory for generated feed and evidence files")
		strict     = flag.Bool("strict-duplicates", base.StrictDuplicates, "Reject feeds carrying the same attribute twice")
		watch      = flag.Bool("watch-rules", base.WatchRules, "Reload the rule document on change between runs")
		logFile    = flag.String("log", "", "Log file for run output (default: fixture_assess_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", base.LogLevel == "debug", "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if err := fixtures.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &fixtures.Config{
		RulesPath:        *rulesPath,
		FeedPath:         *feedPath,
		Vertical:         *vertical,
		Attributes:       *attributes,
		Seed:             *seed,
		Runs:             *runs,
		Workers:          *workers,
		Format:           *format,
		OutputDir:        *outputDir,
		StrictDuplicates: *strict,
		WatchRules:       *watch,
		ReloadDebounce:   time.Duration(base.RuleReloadDebounceMS) * time.Millisecond,
		LogFile:          *logFile,
		Verbose:          *verbose,
	}

	if err := fixtures.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Fixture assessment failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
