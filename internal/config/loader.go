package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/NoliDD/assessment-tool/evidence"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML or JSON) if ASSESS_CONFIG is set
//  3. env (prefix ASSESS_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ASSESS_CONFIG"); path != "" {
		var parser koanf.Parser = kyaml.Parser()
		if strings.EqualFold(filepath.Ext(path), ".json") {
			parser = kjson.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ASSESS_RULES_PATH, ASSESS_VERTICAL, ...
	// Map env keys like ASSESS_RULES_PATH -> rules_path (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ASSESS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "assess_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Format {
	case evidence.FormatJSON, evidence.FormatYAML:
	default:
		return fmt.Errorf("%w: format %q (want %s or %s)",
			ErrInvalidConfig, c.Format, evidence.FormatJSON, evidence.FormatYAML)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.RuleReloadDebounceMS < 0 {
		return fmt.Errorf("%w: rule_reload_debounce_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
