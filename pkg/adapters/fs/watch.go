package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/jot/pkg/core"
)

// Watch streams changes to vault files matching pattern (doublestar syntax,
// relative to the vault root; empty means the notes file). Writes made by
// this repository are not reported. The channel closes when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Change, error) {
	if pattern == "" {
		pattern = filepath.Base(r.Filename())
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	events := make(chan core.Change)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, pattern, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

// watchLoop is the select loop translating fsnotify events into changes.
func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, events chan<- core.Change) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			change, ok := r.translate(event, pattern)
			if !ok {
				continue
			}
			select {
			case events <- change:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.reportError(wErr)
		}
	}
}

// translate filters an fsnotify event and maps it to a core.Change.
func (r *Repository) translate(event fsnotify.Event, pattern string) (core.Change, bool) {
	r.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if r.shouldIgnore(event.Name, pattern) {
		return core.Change{}, false
	}

	var t core.ChangeType
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.ChangeDelete
	case event.Has(fsnotify.Create):
		t = core.ChangeCreate
	case event.Has(fsnotify.Write):
		t = core.ChangeModify
	default:
		return core.Change{}, false
	}

	if t != core.ChangeDelete && r.isOwnWrite(event.Name) {
		return core.Change{}, false
	}

	rel, _ := filepath.Rel(r.Path, event.Name)
	return core.Change{Type: t, Path: filepath.ToSlash(rel), Timestamp: time.Now().Unix()}, true
}

func (r *Repository) shouldIgnore(name, pattern string) bool {
	if isTempFile(name) {
		return true
	}
	rel, err := filepath.Rel(r.Path, name)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	if rel == r.config.SystemDir || strings.HasPrefix(rel, r.config.SystemDir+"/") ||
		rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return true
	}
	matched, err := doublestar.Match(pattern, rel)
	return err != nil || !matched
}

// isOwnWrite reports whether the file currently holds the content we last wrote or read.
func (r *Repository) isOwnWrite(name string) bool {
	if name != r.Filename() {
		return false
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastChecksum != "" && checksum(data) == r.lastChecksum
}

func (r *Repository) reportError(err error) {
	r.config.Logger.Error("fsnotify error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
