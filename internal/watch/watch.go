// Package watch regenerates output when the repository history changes.
// It observes the .git directory for ref updates and debounces bursts of
// events into a single regeneration.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches bursts of ref updates into one regeneration.
const DefaultDebounce = 250 * time.Millisecond

// Watcher observes a .git directory for history changes.
type Watcher struct {
	gitDir   string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
}

// New creates a watcher for the given .git directory. A non-positive
// debounce falls back to DefaultDebounce.
func New(gitDir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	if err := fsw.Add(gitDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", gitDir, err)
	}

	// Ref writes land in subdirectories, which inotify does not cover
	// recursively. Missing ones are picked up on creation in Run.
	for _, sub := range []string{"refs", "refs/heads", "refs/tags"} {
		dir := filepath.Join(gitDir, sub)
		if _, err := os.Stat(dir); err == nil {
			if err := fsw.Add(dir); err != nil {
				fsw.Close()
				return nil, fmt.Errorf("watching %s: %w", dir, err)
			}
		}
	}

	return &Watcher{
		gitDir:   gitDir,
		debounce: debounce,
		watcher:  fsw,
	}, nil
}

// Run blocks, invoking fn after each settled batch of history changes.
// It returns nil when ctx is cancelled or the watcher is closed, and the
// callback's error when a regeneration fails.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ignoreEvent(event) {
				continue
			}

			// New ref directories need their own watch.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.watcher.Add(event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timerC:
			timer = nil
			timerC = nil
			if err := fn(); err != nil {
				return err
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			// Transient watcher errors are recoverable, keep going.
		}
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

// ignoreEvent filters events that never indicate a history change: lock
// files from in-progress ref updates, reflog appends, the index, and
// bookkeeping files git rewrites constantly.
func ignoreEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return true
	}

	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	sep := string(filepath.Separator)
	if strings.Contains(event.Name, sep+"logs"+sep) {
		return true
	}
	switch base {
	case "config", "index", "FETCH_HEAD", "ORIG_HEAD", "COMMIT_EDITMSG":
		return true
	}
	return false
}
