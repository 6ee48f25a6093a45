package desktop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of descriptor changes, e.g. a
// package manager installing several applications.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watch rebuilds the index whenever a descriptor in one of the index
// directories changes, until ctx is cancelled. onRebuild, if set, runs
// after each successful rebuild with the new snapshot. Directories that
// don't exist are not watched.
func (x *Index) Watch(ctx context.Context, debounce time.Duration, onRebuild func(*Snapshot)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range x.dirs {
		if err := watcher.Add(dir); err != nil {
			x.logger.Debug("not watching descriptor directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return ErrNoDescriptorDirs
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, descriptorExt) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			x.logger.Debug("descriptor changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			x.logger.Warn("descriptor watcher error", "error", err)

		case <-timer.C:
			if err := x.Rebuild(ctx); err != nil {
				x.logger.Warn("index rebuild failed", "error", err)
				continue
			}
			if onRebuild != nil {
				onRebuild(x.Snapshot())
			}
		}
	}
}
