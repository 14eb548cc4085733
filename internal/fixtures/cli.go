package fixtures

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/NoliDD/assessment-tool/pkg/logger"
)

// SetupLogging configures structured logging to stderr plus a run log file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "fixture_assess_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logger.Init(logger.WithWriter(io.MultiWriter(os.Stderr, file)))
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return err
		}
	}
	log.SetOutput(file)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the fixture assessment tool.
func ShowHelp() {
	os.Stdout.WriteString(`Eligibility Fixture Assessment Tool
===================================

Generates deterministic synthetic rule documents and measurement feeds,
runs the eligibility engine over them repeatedly, and verifies the runs
agree byte for byte.

Defaults layer in from an ASSESS_CONFIG file and ASSESS_* environment
variables; command-line flags take precedence.

Usage:
  go run cmd/fixture-assess/main.go [options]

Options:
  -rules string
        Rule document to load (YAML, JSON or CSV); empty synthesizes one
  -feed string
        Measurement feed to load (JSON); empty synthesizes one
  -vertical string
        Vertical to assess (default: the universal baseline)
  -attributes int
        Number of synthetic attributes to generate (default 12)
  -seed int
        Seed for the synthetic generators (default 1)
  -runs int
        How many times to repeat the assessment (default 3)
  -workers int
        Number of concurrent evaluation workers (default CPU cores)
  -format string
        Evidence output format: json or yaml (default "json")
  -output string
        Directory for generated feed and evidence files (default: none)
  -strict-duplicates
        Reject feeds carrying the same attribute twice
  -watch-rules
        Reload the rule document on change between runs
  -log string
        Log file for run output (default: fixture_assess_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Assess a synthetic catalog against synthetic rules
  go run cmd/fixture-assess/main.go -seed 7

  # Assess a real rule document with a synthetic feed
  go run cmd/fixture-assess/main.go -rules rules.yaml -vertical Alcohol

  # Keep the artifacts
  go run cmd/fixture-assess/main.go -seed 7 -output ./artifacts -format yaml
`)
}
