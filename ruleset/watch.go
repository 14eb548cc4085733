package ruleset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/NoliDD/assessment-tool/pkg/logger"
	"github.com/NoliDD/assessment-tool/pkg/metrics"
)

// Watch reloads path into store whenever the rule file changes, debouncing
// editor save bursts. It blocks until ctx ends or the watcher breaks, so
// callers run it in its own goroutine. A reload that fails validation
// keeps the active document; resolution itself never re-reads the file.
func Watch(ctx context.Context, path string, store *Store, opts ...Option) error {
	cfg := newOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("rule watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files by rename, which drops
	// direct file watches.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("rule watcher: %w", err)
	}

	target := filepath.Clean(path)
	debounce := time.NewTimer(cfg.debounce)
	stopTimer(debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			stopTimer(debounce)
			debounce.Reset(cfg.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.log.Error(ctx, "rule watcher error", logger.Error(err))

		case <-debounce.C:
			doc, err := Load(path, WithRegistry(cfg.registry), WithLogger(cfg.log))
			if err != nil {
				cfg.log.Error(ctx, "rule reload rejected, keeping active document",
					logger.String("path", path),
					logger.Error(err))
				continue
			}
			store.Replace(doc)
			metrics.RecordRuleReload()
			cfg.log.Info(ctx, "rule document reloaded",
				logger.String("path", path),
				logger.Int("rules", doc.RuleCount()))
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
