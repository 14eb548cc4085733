package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/NoliDD/assessment-tool/internal/config"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"ASSESS_CONFIG",
		"ASSESS_LOG_LEVEL",
		"ASSESS_RULES_PATH",
		"ASSESS_FEED_PATH",
		"ASSESS_VERTICAL",
		"ASSESS_WORKERS",
		"ASSESS_FORMAT",
		"ASSESS_OUTPUT_DIR",
		"ASSESS_STRICT_DUPLICATES",
		"ASSESS_WATCH_RULES",
		"ASSESS_RULE_RELOAD_DEBOUNCE_MS",
	} {
		_ = os.Unsetenv(key)
	}
}

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.Format, convey.ShouldEqual, "json")
				convey.So(cfg.Vertical, convey.ShouldEqual, "")
				convey.So(cfg.RuleReloadDebounceMS, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ASSESS_RULES_PATH", "/etc/assess/rules.yaml")
			_ = os.Setenv("ASSESS_VERTICAL", "Alcohol")
			_ = os.Setenv("ASSESS_WORKERS", "16")
			_ = os.Setenv("ASSESS_FORMAT", "yaml")
			_ = os.Setenv("ASSESS_STRICT_DUPLICATES", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RulesPath, convey.ShouldEqual, "/etc/assess/rules.yaml")
				convey.So(cfg.Vertical, convey.ShouldEqual, "Alcohol")
				convey.So(cfg.Workers, convey.ShouldEqual, 16)
				convey.So(cfg.Format, convey.ShouldEqual, "yaml")
				convey.So(cfg.StrictDuplicates, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := writeTempConfig(t, "assess.yaml", `
rules_path: /srv/rules.csv
vertical: CnG
workers: 4
format: yaml
watch_rules: true
rule_reload_debounce_ms: 250
`)
			_ = os.Setenv("ASSESS_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RulesPath, convey.ShouldEqual, "/srv/rules.csv")
				convey.So(cfg.Vertical, convey.ShouldEqual, "CnG")
				convey.So(cfg.Workers, convey.ShouldEqual, 4)
				convey.So(cfg.Format, convey.ShouldEqual, "yaml")
				convey.So(cfg.WatchRules, convey.ShouldBeTrue)
				convey.So(cfg.RuleReloadDebounceMS, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When loading config from a JSON file", func() {
			clearConfigEnvVars()
			path := writeTempConfig(t, "assess.json", `{"rules_path":"/srv/rules.json","format":"json","workers":2}`)
			_ = os.Setenv("ASSESS_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RulesPath, convey.ShouldEqual, "/srv/rules.json")
				convey.So(cfg.Workers, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			clearConfigEnvVars()
			path := writeTempConfig(t, "assess.yaml", `
rules_path: /srv/rules.yaml
vertical: CnG
workers: 4
`)
			_ = os.Setenv("ASSESS_CONFIG", path)
			_ = os.Setenv("ASSESS_VERTICAL", "Office") // overrides the file
			_ = os.Setenv("ASSESS_WORKERS", "8")       // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RulesPath, convey.ShouldEqual, "/srv/rules.yaml") // from file
				convey.So(cfg.Vertical, convey.ShouldEqual, "Office")           // overridden by env
				convey.So(cfg.Workers, convey.ShouldEqual, 8)                   // overridden by env
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ASSESS_CONFIG", "/nonexistent/assess.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading fails with the load sentinel", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the format is not a known encoder", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ASSESS_FORMAT", "xml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When workers is zero", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ASSESS_WORKERS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigNew(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Format, convey.ShouldEqual, "json")
			convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.OutputDir, convey.ShouldEqual, "")
			convey.So(cfg.StrictDuplicates, convey.ShouldBeFalse)
		})
	})
}
