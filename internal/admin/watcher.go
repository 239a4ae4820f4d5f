package admin

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	rendertemplate "github.com/goliatone/go-article-admin/pkg/render/template"
)

// reloadDebounce collapses bursts of editor writes into one reset.
const reloadDebounce = 100 * time.Millisecond

// WatchTemplates resets the compiled template caches whenever a file under
// dir changes. It blocks until ctx is done.
func WatchTemplates(ctx context.Context, dir string, logger *zap.Logger, targets ...rendertemplate.Resetter) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("admin: template watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("admin: watch %s: %w", dir, err)
	}
	logger.Info("watching templates", zap.String("dir", dir))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Ext(event.Name) != ".tmpl" {
				continue
			}
			logger.Debug("template changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(reloadDebounce)
			pending = timer.C
		case <-pending:
			pending = nil
			for _, target := range targets {
				if target != nil {
					target.Reset()
				}
			}
			logger.Info("templates reloaded", zap.String("dir", dir))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("template watcher error", zap.Error(err))
		}
	}
}
