package scheduler

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events produced by one rewrite of the input file.
const DefaultDebounce = 500 * time.Millisecond

// WatchInput refreshes the plan whenever the file at path is written, created or renamed into place.
// The parent directory is watched so atomic replacements are seen. Blocks until ctx is cancelled.
func (s *Scheduler) WatchInput(ctx context.Context, path string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	log.Printf("[INFO] watching %s for changes", target)

	return watchLoop(ctx, w, target, debounce, func() { s.RefreshNow("input changed") })
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, target string, debounce time.Duration, fire func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] input watcher stopped")
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fire)
		}
	}
}

func relevant(ev fsnotify.Event, target string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
