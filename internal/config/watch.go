package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"shellhost/internal/logger"
)

// Watch reloads path whenever it is written and calls onChange with the old
// and new configuration. It returns once ctx is done.
func Watch(ctx context.Context, path string, current Config, log logger.Logger, onChange func(old, updated Config)) error {
	if log == nil {
		log = logger.NoOp{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors replace files on save, so the directory is watched.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	log.Info("ConfigWatcher", "watching configuration", map[string]interface{}{"path": target})

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}

			updated, err := Load(path)
			if err != nil {
				log.Error("ConfigWatcher", err, map[string]interface{}{"path": target})
				continue
			}
			if updated == current {
				continue
			}
			onChange(current, updated)
			current = updated
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warning("ConfigWatcher", "watcher error", map[string]interface{}{"error": err.Error()})
		}
	}
}
