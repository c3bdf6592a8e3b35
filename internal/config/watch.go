package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors produce on save.
const watchDebounce = 75 * time.Millisecond

// Watch reloads the config at path whenever it changes and reports the
// outcome to onChange until ctx is done. The parent directory is watched
// so that atomic replace-by-rename saves are seen.
func Watch(ctx context.Context, path string, onChange func(Config, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		timer := time.NewTimer(watchDebounce)
		if !timer.Stop() {
			<-timer.C
		}
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				timer.Reset(watchDebounce)
			case <-timer.C:
				cfg, err := Load(abs)
				onChange(cfg, err)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				onChange(Config{}, fmt.Errorf("watch %s: %w", abs, err))
			}
		}
	}()
	return nil
}
