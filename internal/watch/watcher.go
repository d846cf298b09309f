// Package watch re-runs a callback when files matching glob patterns change.
//
// Events arriving within the debounce window are coalesced, so an editor's
// write-then-rename produces a single callback with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

// skipDirs are never descended into when registering recursive watches.
var skipDirs = []string{".git", "node_modules", ".cache"}

// Config holds the parameters for a Watcher.
type Config struct {
	// Patterns are doublestar globs or plain file paths. Relative patterns
	// are resolved against BaseDir.
	Patterns []string

	// BaseDir defaults to the working directory.
	BaseDir string

	// Debounce is the quiet period after the last event before OnChange fires.
	Debounce time.Duration

	// OnChange receives the sorted, deduplicated changed paths relative to
	// BaseDir. Its error is logged, not returned from Run.
	OnChange func(ctx context.Context, changed []string) error

	Logger *slog.Logger
}

// Watcher monitors the directories that can hold matching files.
// Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	baseDir  string
	patterns []string // absolute, slash-separated
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger
	started  atomic.Bool
}

// New validates the patterns and registers watches for their directories.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Patterns) == 0 {
		return nil, errors.New("watch: no patterns")
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	patterns, err := absolutePatterns(absBase, cfg.Patterns)
	if err != nil {
		return nil, err
	}
	dirs, err := WatchDirs(patterns)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		baseDir:  absBase,
		patterns: patterns,
		dirs:     dirs,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Dirs returns the directories being watched.
func (w *Watcher) Dirs() []string {
	return slices.Clone(w.dirs)
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks.
// Callbacks run on the event loop, so a slow callback delays the next one
// instead of overlapping it.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", "error", err)
		}
	}()

	pending := make(map[string]struct{})
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.Matches(evt.Name) {
				continue
			}

			pending[w.rel(evt.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.logger.Debug("files changed", "paths", changed)
			if w.cfg.OnChange != nil {
				if err := w.cfg.OnChange(ctx, changed); err != nil {
					w.logger.Error("watch callback failed", "error", err)
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("fsnotify queue overflow, some changes may be missed")
				continue
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// Matches reports whether name (absolute, or relative to the base directory)
// matches any pattern.
func (w *Watcher) Matches(name string) bool {
	if !filepath.IsAbs(name) {
		name = filepath.Join(w.baseDir, name)
	}
	return matchAny(w.patterns, filepath.ToSlash(name))
}

func (w *Watcher) rel(name string) string {
	rel, err := filepath.Rel(w.baseDir, name)
	if err != nil {
		return filepath.ToSlash(name)
	}
	return filepath.ToSlash(rel)
}

// maybeAddDir extends recursive watches to directories created after startup.
func (w *Watcher) maybeAddDir(name string) {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() || slices.Contains(skipDirs, info.Name()) {
		return
	}
	if !w.underRecursiveBase(filepath.ToSlash(name)) {
		return
	}
	if err := w.fsw.Add(name); err != nil {
		w.logger.Warn("add new directory", "path", name, "error", err)
		return
	}
	w.logger.Debug("watching new directory", "path", name)
}

func (w *Watcher) underRecursiveBase(dir string) bool {
	for _, p := range w.patterns {
		base, rest := doublestar.SplitPattern(p)
		if recursive(rest) && strings.HasPrefix(dir+"/", strings.TrimSuffix(base, "/")+"/") {
			return true
		}
	}
	return false
}

// WatchDirs returns the sorted directories that must be watched to see every
// file the absolute patterns can match. A pattern whose remainder spans
// directories registers its static base recursively.
func WatchDirs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range patterns {
		base, rest := doublestar.SplitPattern(p)
		base = filepath.FromSlash(base)

		info, err := os.Stat(base)
		if err != nil {
			return nil, fmt.Errorf("watch: %s: %w", base, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("watch: %s is not a directory", base)
		}

		if !recursive(rest) {
			seen[base] = struct{}{}
			continue
		}
		err = filepath.WalkDir(base, func(dir string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil //nolint:nilerr // unreadable subtrees are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if dir != base && slices.Contains(skipDirs, d.Name()) {
				return filepath.SkipDir
			}
			seen[dir] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("watch: walk %s: %w", base, err)
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

func absolutePatterns(baseDir string, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return nil, fmt.Errorf("watch: invalid pattern %q", p)
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		out = append(out, path.Clean(filepath.ToSlash(p)))
	}
	return out, nil
}

func recursive(rest string) bool {
	return strings.Contains(rest, "/") || strings.Contains(rest, "**")
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
