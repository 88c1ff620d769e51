// Package watcher keeps a live, debounced view of directory contents. Each
// watched directory moves through an explicit state machine:
//
//	Unwatched -> Watching(cached) -> PendingRescan -> Watching(cached)
//
// OS change events arriving inside the debounce window reset the rescan
// timer, so a burst of events collapses into a single rescan and a single
// cache-updated notification.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/fileop"
)

// State of one watched directory.
type State int

const (
	StateUnwatched State = iota
	StateWatching
	StatePendingRescan
)

// String implements fmt.Stringer for logs.
func (s State) String() string {
	switch s {
	case StateWatching:
		return "watching"
	case StatePendingRescan:
		return "pending-rescan"
	default:
		return "unwatched"
	}
}

// Default tuning. Both are config knobs, not invariants.
const (
	DefaultDebounce  = 1000 * time.Millisecond
	DefaultStaleness = 30 * time.Second
	DefaultMaxDepth  = 8
)

// CacheUpdatedFunc is invoked after a debounced rescan refreshes a
// directory's cached listing.
type CacheUpdatedFunc func(path string, records []fileop.FileRecord)

// Config tunes the watcher.
type Config struct {
	Debounce       time.Duration // quiet period before a rescan, DefaultDebounce when 0
	Staleness      time.Duration // cached listing max age on read, DefaultStaleness when 0
	MaxDepth       int           // recursive registration depth bound, DefaultMaxDepth when 0
	Locale         string        // collation locale for listings
	Logger         zerolog.Logger
	OnCacheUpdated CacheUpdatedFunc
}

// watched is the per-directory state machine.
type watched struct {
	path        string
	recursive   bool
	state       State
	listing     []fileop.FileRecord
	lastScan    time.Time
	changeCount int
	debounce    *time.Timer
	osWatch     bool // false when the OS denied the watch; degraded mode
}

// Watcher owns one fsnotify handle and the registry of watched directories.
type Watcher struct {
	fsw    *fsnotify.Watcher
	cfg    Config
	logger zerolog.Logger

	mu   sync.Mutex
	dirs map[string]*watched // keyed by normalized absolute path

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher and starts its event loop.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Staleness == 0 {
		cfg.Staleness = DefaultStaleness
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}

	w := &Watcher{
		fsw:    fsw,
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "watcher").Logger(),
		dirs:   make(map[string]*watched),
		done:   make(chan struct{}),
	}

	go w.eventLoop()
	return w, nil
}

// normalize resolves a path to its canonical absolute form, the registry key.
func normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("normalize %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// Watch registers a directory. Idempotent per normalized path: a second
// call for the same directory reuses the live watch. When the OS denies
// the watch the directory is still registered in degraded mode and served
// by direct scans.
func (w *Watcher) Watch(path string, recursive bool) error {
	key, err := normalize(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.ensureLocked(key, recursive)
	return err
}

// ensureLocked registers key if needed and returns its entry. Caller holds
// the lock.
func (w *Watcher) ensureLocked(key string, recursive bool) (*watched, error) {
	if d, ok := w.dirs[key]; ok {
		return d, nil
	}

	d := &watched{
		path:      key,
		recursive: recursive,
		state:     StateWatching,
		osWatch:   true,
	}

	if err := w.addWatches(key, recursive); err != nil {
		// Degrade instead of failing: listings still work via direct
		// scans, refreshed by the staleness policy.
		w.logger.Warn().
			Err(err).
			Str("path", key).
			Msg("OS watch denied, serving directory in degraded mode")
		d.osWatch = false
	}

	records, err := fileop.ScanDirectory(key, w.cfg.Locale)
	if err != nil {
		if !d.osWatch {
			// Neither a watch nor a readable directory. Not worth an
			// entry in the registry.
			return nil, fmt.Errorf("watch %s: %w", key, err)
		}
		w.logger.Warn().Err(err).Str("path", key).Msg("Initial scan failed")
	} else {
		d.listing = records
		d.lastScan = time.Now()
	}

	w.dirs[key] = d

	w.logger.Debug().
		Str("path", key).
		Bool("recursive", recursive).
		Bool("os_watch", d.osWatch).
		Msg("Directory watch registered")

	return d, nil
}

// addWatches registers the OS watch, walking subdirectories when recursive.
// fsnotify has no native recursive watch, so subdirectories are registered
// one by one down to the depth bound.
func (w *Watcher) addWatches(root string, recursive bool) error {
	if err := w.fsw.Add(root); err != nil {
		return fmt.Errorf("%w: %s: %v", fileop.ErrWatchSetupFailed, root, err)
	}
	if !recursive {
		return nil
	}

	return filepath.WalkDir(root, func(p string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, skip
		}
		if !entry.IsDir() || p == root {
			return nil
		}
		if depthOf(root, p) > w.cfg.MaxDepth {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			w.logger.Warn().Err(err).Str("path", p).Msg("Failed to watch subdirectory")
		}
		return nil
	})
}

func depthOf(root, p string) int {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

// eventLoop routes raw OS events into per-directory debounce timers.
func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")

		case <-w.done:
			return
		}
	}
}

// handleEvent attributes an event to its watched directory and arms or
// resets that directory's debounce timer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := w.ownerLocked(event.Name)
	if d == nil {
		return
	}

	d.changeCount++
	d.state = StatePendingRescan

	// A new subdirectory under a recursive watch needs its own OS watch;
	// fsnotify does not cascade.
	if d.recursive && event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if depthOf(d.path, event.Name) <= w.cfg.MaxDepth {
				if err := w.fsw.Add(event.Name); err != nil {
					w.logger.Warn().Err(err).Str("path", event.Name).Msg("Failed to watch new subdirectory")
				}
			}
		}
	}

	if d.debounce != nil {
		d.debounce.Stop()
	}
	path := d.path
	d.debounce = time.AfterFunc(w.cfg.Debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.rescan(path)
	})
}

// ownerLocked finds the watched directory an event path belongs to. Caller
// holds the lock.
func (w *Watcher) ownerLocked(name string) *watched {
	dir := filepath.Clean(filepath.Dir(name))
	if d, ok := w.dirs[dir]; ok {
		return d
	}
	// Direct child events of a watched dir are covered above; anything
	// deeper belongs to the closest recursive ancestor.
	for _, d := range w.dirs {
		if d.recursive && strings.HasPrefix(name, d.path+string(filepath.Separator)) {
			return d
		}
	}
	if d, ok := w.dirs[filepath.Clean(name)]; ok {
		// Event on the watched directory itself.
		return d
	}
	return nil
}

// rescan refreshes a directory's cached listing and emits cache-updated.
func (w *Watcher) rescan(path string) {
	records, err := fileop.ScanDirectory(path, w.cfg.Locale)

	w.mu.Lock()
	d, ok := w.dirs[path]
	if !ok {
		w.mu.Unlock()
		return
	}
	if err != nil {
		// Keep the previous listing; the next read degrades to a direct
		// scan if this persists.
		d.state = StateWatching
		w.mu.Unlock()
		w.logger.Warn().Err(err).Str("path", path).Msg("Rescan failed, keeping stale listing")
		return
	}

	d.listing = records
	d.lastScan = time.Now()
	d.state = StateWatching
	callback := w.cfg.OnCacheUpdated
	w.mu.Unlock()

	w.logger.Debug().
		Str("path", path).
		Int("entries", len(records)).
		Msg("Listing cache refreshed")

	if callback != nil {
		callback(path, records)
	}
}

// GetRealTimeFiles guarantees a fresh listing: it creates the watch on
// demand, rescans synchronously, and falls back to a one-off direct scan
// when the cached machinery fails. Returns nil only when every path fails.
func (w *Watcher) GetRealTimeFiles(path string) []fileop.FileRecord {
	key, err := normalize(path)
	if err != nil {
		return nil
	}

	w.mu.Lock()
	d, err := w.ensureLocked(key, false)
	if err != nil {
		w.mu.Unlock()
		return w.directScan(key)
	}

	records, scanErr := fileop.ScanDirectory(key, w.cfg.Locale)
	if scanErr != nil {
		w.mu.Unlock()
		return w.directScan(key)
	}

	d.listing = records
	d.lastScan = time.Now()
	w.mu.Unlock()
	return records
}

// Files returns the cached listing for a watched directory, refreshing it
// first when older than the staleness bound. Unwatched paths are registered
// on demand.
func (w *Watcher) Files(path string) []fileop.FileRecord {
	key, err := normalize(path)
	if err != nil {
		return nil
	}

	w.mu.Lock()
	d, err := w.ensureLocked(key, false)
	if err != nil {
		w.mu.Unlock()
		return w.directScan(key)
	}

	fresh := time.Since(d.lastScan) <= w.cfg.Staleness && d.listing != nil
	listing := d.listing
	w.mu.Unlock()

	if fresh {
		return listing
	}
	return w.GetRealTimeFiles(key)
}

// directScan is the degraded fallback when the watch machinery fails.
func (w *Watcher) directScan(path string) []fileop.FileRecord {
	records, err := fileop.ScanDirectory(path, w.cfg.Locale)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("Direct scan failed")
		return nil
	}
	return records
}

// StopWatching releases one directory: cancels its pending debounce timer,
// removes the OS watch, and drops the cached listing.
func (w *Watcher) StopWatching(path string) {
	key, err := normalize(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	d, ok := w.dirs[key]
	if !ok {
		return
	}
	if d.debounce != nil {
		d.debounce.Stop()
	}
	if d.osWatch {
		if err := w.fsw.Remove(key); err != nil {
			w.logger.Debug().Err(err).Str("path", key).Msg("Watch removal failed")
		}
	}
	delete(w.dirs, key)

	w.logger.Debug().Str("path", key).Msg("Directory watch stopped")
}

// Close stops every watch, cancels all timers, and releases the OS handle.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		for _, d := range w.dirs {
			if d.debounce != nil {
				d.debounce.Stop()
			}
		}
		w.dirs = make(map[string]*watched)
		w.mu.Unlock()

		err = w.fsw.Close()
	})
	return err
}
