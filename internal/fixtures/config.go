package fixtures

import "time"

// Config holds configuration for a fixture assessment run.
type Config struct {
	RulesPath        string        // Rule document to load; empty synthesizes one
	FeedPath         string        // Measurement feed to load; empty synthesizes one
	Vertical         string        // Vertical to assess; empty means the universal baseline
	Attributes       int           // Number of synthetic attributes in the baseline
	Seed             int64         // Seed for the synthetic generators
	Runs             int           // How many times to repeat the assessment
	Workers          int           // Concurrent attribute evaluations
	Format           string        // Evidence output encoding: json or yaml
	OutputDir        string        // Where feed and evidence files land; empty skips saving
	StrictDuplicates bool          // Reject duplicate feed attributes instead of keeping the first
	WatchRules       bool          // Reload the rule document on change between runs
	ReloadDebounce   time.Duration // Coalesces rapid rule-file writes into one reload
	LogFile          string        // Log file for run output
	Verbose          bool          // Enable verbose logging
}

// Stats holds fixture run statistics.
type Stats struct {
	RulesGenerated        int
	MeasurementsGenerated int
	RunsExecuted          int
	BlockingAttributes    int
	Eligible              bool
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
