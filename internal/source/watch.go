package source

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// Watch reloads the catalog at path whenever a catalog file changes and
// hands the result to onReload. A failed reload is logged and the previous
// catalog stays in effect. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *zap.Logger, onReload func(Catalog)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir, only := path, ""
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// Editors replace files on save, so watch the parent directory.
		dir, only = filepath.Dir(path), filepath.Clean(path)
	}
	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Debug("watching catalog", zap.String("dir", dir))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, only) {
				continue
			}
			timer.Reset(defaultDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", zap.Error(err))
		case <-timer.C:
			cat, err := Load(ctx, path)
			if err != nil {
				logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			for _, warning := range cat.Warnings {
				logger.Warn("catalog", zap.String("warning", warning))
			}
			logger.Info("catalog reloaded", zap.String("path", path))
			onReload(cat)
		}
	}
}

func relevant(ev fsnotify.Event, only string) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if only != "" {
		return filepath.Clean(ev.Name) == only
	}
	return isCatalogFile(ev.Name)
}
