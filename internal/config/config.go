// Package config defines tool configuration and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"runtime"

	"github.com/NoliDD/assessment-tool/evidence"
)

// Config contains process configuration for the assessment tool.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// RulesPath points at the rule document (YAML, JSON or CSV).
	RulesPath string `koanf:"rules_path"`

	// FeedPath points at the measurement feed (JSON). Empty means stdin.
	FeedPath string `koanf:"feed_path"`

	// Vertical selects which rule set to assess against. Empty and the
	// usual synonyms resolve to the universal baseline.
	Vertical string `koanf:"vertical"`

	// Workers bounds concurrent attribute evaluations.
	Workers int `koanf:"workers"`

	// Format selects the evidence output encoding: json or yaml.
	Format string `koanf:"format"`

	// OutputDir is where generated artifacts land. Empty skips saving.
	OutputDir string `koanf:"output_dir"`

	// StrictDuplicates rejects feeds carrying the same attribute twice
	// instead of keeping the first record.
	StrictDuplicates bool `koanf:"strict_duplicates"`

	// WatchRules reloads the rule document on change for long-running use.
	WatchRules bool `koanf:"watch_rules"`

	// RuleReloadDebounceMS coalesces rapid rule-file writes into one reload.
	RuleReloadDebounceMS int `koanf:"rule_reload_debounce_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Workers:              runtime.NumCPU(),
		Format:               evidence.FormatJSON,
		RuleReloadDebounceMS: 500,
	}
}
