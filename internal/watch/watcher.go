package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"djazzy"

	"github.com/fsnotify/fsnotify"
)

// Config configures a Watcher.
type Config struct {
	// Root is the project directory to watch recursively.
	Root string

	// Debounce is the coalescing window for change events. Zero selects a
	// 500ms default.
	Debounce time.Duration

	// OnChange is invoked with the sorted urls.py paths of each coalesced
	// burst. The caller typically runs an incremental rescan here.
	OnChange func(paths []string)

	// OnError receives non-fatal watch errors. May be nil.
	OnError func(err error)
}

// Watcher follows filesystem events under a project root and reports bursts
// of urls.py changes. Directories in the scanner's ignore set are neither
// watched nor reported; directories created while watching are picked up.
type Watcher struct {
	cfg       Config
	fsWatcher *fsnotify.Watcher
	debouncer *debouncer
}

// New creates a Watcher. Call Run to start it.
func New(cfg Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	return &Watcher{cfg: cfg, fsWatcher: fsWatcher}, nil
}

// Run blocks delivering change bursts until the stop channel closes, then
// flushes anything pending and returns.
func (w *Watcher) Run(stop <-chan struct{}) error {
	window := w.cfg.Debounce
	if window <= 0 {
		window = 500 * time.Millisecond
	}
	w.debouncer = newDebouncer(window, w.handleFlush)
	defer w.debouncer.stop()

	if err := w.addRecursive(w.cfg.Root); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Root, err)
	}

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// addRecursive registers root and all non-ignored subdirectories.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.reportError(fmt.Errorf("walk %s: %w", path, err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && djazzy.IsIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.reportError(fmt.Errorf("watch %s: %w", path, err))
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// A created directory needs its own watch before events inside it can
	// be seen.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if djazzy.IsIgnoredDir(filepath.Base(path)) {
				return
			}
			if err := w.addRecursive(path); err != nil {
				w.reportError(err)
			}
			return
		}
	}

	if !djazzy.IsURLFile(filepath.Base(path)) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return // chmod noise
	}

	w.debouncer.add(path)
}

func (w *Watcher) handleFlush(paths []string) {
	sort.Strings(paths)
	if w.cfg.OnChange != nil {
		w.cfg.OnChange(paths)
	}
}

func (w *Watcher) reportError(err error) {
	if w.cfg.OnError != nil {
		w.cfg.OnError(err)
	}
}
