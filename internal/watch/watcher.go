// SPDX-License-Identifier: MPL-2.0

// Package watch reports changes below a scripts folder.
//
// A Watcher registers every directory under its root with fsnotify, keeps
// the events whose relative path matches one of its glob patterns, and calls
// OnChange once per quiet period with the set of changed paths. Directories
// created while watching are picked up automatically, since exporting a new
// folder label creates one.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not set.
// Editors often write a temp file and rename it; both events fall inside it.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyStarted is returned by a second call to Run.
var ErrAlreadyStarted = errors.New("watcher already started")

// noise lists paths that never trigger a callback.
var noise = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.#*",
	"**/.DS_Store",
	"**/Thumbs.db",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory to watch. It must exist.
		Root string
		// Patterns are doublestar globs relative to Root, such as "**/*.rb".
		// An empty list matches every path that is not noise.
		Patterns []string
		// Debounce is the quiet period after the last event. Zero or negative
		// values use DefaultDebounce.
		Debounce time.Duration
		// OnChange receives the sorted, slash-separated paths that changed.
		OnChange func(ctx context.Context, changed []string) error
		// Logger receives callback failures and recoverable watcher errors.
		Logger *log.Logger
	}

	// Watcher delivers debounced change sets for one directory tree.
	// Run must be called exactly once.
	Watcher struct {
		root     string
		patterns []string
		debounce time.Duration
		onChange func(ctx context.Context, changed []string) error
		logger   *log.Logger
		fsw      *fsnotify.Watcher
		started  atomic.Bool
	}

	// batch accumulates changed paths between two callbacks.
	batch struct {
		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		busy    atomic.Bool
	}
)

// New validates cfg and registers every directory under cfg.Root.
func New(cfg Config) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}

	for _, pat := range cfg.Patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid watch pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	w := &Watcher{
		root:     root,
		patterns: slices.Clone(cfg.Patterns),
		debounce: cfg.Debounce,
		onChange: cfg.OnChange,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.addTree(root); err != nil {
		_ = w.fsw.Close() // Best-effort cleanup; the walk error wins
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string { return w.root }

// Run blocks until ctx is canceled and returns nil in that case. It returns
// an error when the underlying watcher breaks. Callbacks never overlap; a
// change set arriving while one is running is delivered afterwards.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	b := &batch{pending: make(map[string]struct{})}
	defer func() {
		b.stop()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing file watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("file watcher closed its event channel")
			}
			if evt.Has(fsnotify.Create) {
				w.addCreatedDir(evt.Name)
			}
			rel, ok := w.relevant(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("change", "path", rel, "op", evt.Op.String())
			b.add(rel, w.debounce, func() { w.flush(ctx, b) })

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("file watcher closed its error channel")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("file watcher failed: %w", err)
			}
			w.logger.Warn("file watcher error", "err", err)
		}
	}
}

// flush hands the pending set to OnChange. When a callback is still running
// the timer is rearmed instead, so no change is lost.
func (w *Watcher) flush(ctx context.Context, b *batch) {
	if ctx.Err() != nil {
		return
	}
	if !b.busy.CompareAndSwap(false, true) {
		b.rearm(w.debounce)
		return
	}
	defer b.busy.Store(false)

	changed := b.drain()
	if len(changed) == 0 || w.onChange == nil {
		return
	}
	if err := w.onChange(ctx, changed); err != nil {
		w.logger.Error("change handler failed", "err", err)
	}
}

// relevant maps an event path to its slash-separated form relative to the
// root and reports whether it should trigger a callback.
func (w *Watcher) relevant(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || matchAny(noise, rel) {
		return "", false
	}
	if len(w.patterns) == 0 {
		return rel, true
	}
	return rel, matchAny(w.patterns, rel)
}

// addTree registers dir and every directory below it that is not noise.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(w.root, path); relErr == nil && rel != "." {
			if matchAny(noise, filepath.ToSlash(rel)+"/") {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch directory %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) addCreatedDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("new directory not watched", "path", path, "err", err)
	}
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (b *batch) add(rel string, debounce time.Duration, fire func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[rel] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(debounce, fire)
		return
	}
	b.timer.Reset(debounce)
}

func (b *batch) rearm(debounce time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Reset(debounce)
	}
}

func (b *batch) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := slices.Sorted(maps.Keys(b.pending))
	clear(b.pending)
	return changed
}

func (b *batch) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
}
