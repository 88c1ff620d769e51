// Package engine is the narrow interface higher layers consume: resolve a
// fuzzy location query, list a directory with live caching, inspect watch
// status, and feed back the user's actual choice. No internal fault in any
// of these calls may crash the host process.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/alias"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/cache"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/detect"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/fileop"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/learning"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/resolver"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/watcher"
)

// Config assembles an engine. Zero values fall back to the process
// environment and the documented defaults.
type Config struct {
	Home          string
	Username      string
	Platform      string // windows, darwin, linux, wsl; detected when empty
	WorkingDir    string
	DataDir       string // snapshot + learning db location; empty disables persistence
	DefaultLocale string

	Debounce           time.Duration
	Staleness          time.Duration
	ResolveCacheTTL    time.Duration
	SweepInterval      time.Duration // 0 disables the periodic sweep
	LearnedThreshold   float64
	HeuristicThreshold float64
	NearMatchThreshold float64
	MaxScanDepth       int

	PersistLearning bool // sqlite-backed learning store under DataDir

	Logger         zerolog.Logger
	Observer       resolver.Observer
	OnCacheUpdated watcher.CacheUpdatedFunc
}

// Engine owns the resolver, the watcher, the alias table, the detector,
// and the learning store.
type Engine struct {
	cfg      Config
	logger   zerolog.Logger
	table    *alias.Table
	detector *detect.Detector
	watcher  *watcher.Watcher
	resolver *resolver.Resolver
	store    learning.Store
	sweeper  *cache.Sweeper
}

// New builds and wires the engine. The watcher's event loop starts
// immediately; detection runs when Start is called.
func New(cfg Config) (*Engine, error) {
	applyDefaults(&cfg)
	logger := cfg.Logger.With().Str("component", "engine").Logger()

	table := alias.NewTable(alias.Config{
		Home:          cfg.Home,
		Username:      cfg.Username,
		Platform:      cfg.Platform,
		DefaultLocale: cfg.DefaultLocale,
		NearMatch:     cfg.NearMatchThreshold,
		Logger:        cfg.Logger,
	})

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	w, err := watcher.New(watcher.Config{
		Debounce:       cfg.Debounce,
		Staleness:      cfg.Staleness,
		MaxDepth:       cfg.MaxScanDepth,
		Locale:         cfg.DefaultLocale,
		Logger:         cfg.Logger,
		OnCacheUpdated: cfg.OnCacheUpdated,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	res := resolver.New(resolver.Config{
		Table:              table,
		Store:              store,
		WorkingDir:         cfg.WorkingDir,
		DefaultLocale:      cfg.DefaultLocale,
		LearnedThreshold:   cfg.LearnedThreshold,
		HeuristicThreshold: cfg.HeuristicThreshold,
		CacheTTL:           cfg.ResolveCacheTTL,
		Logger:             cfg.Logger,
		Observer:           cfg.Observer,
	})

	e := &Engine{
		cfg:    cfg,
		logger: logger,
		table:  table,
		detector: detect.NewDetector(detect.Config{
			Home:     cfg.Home,
			Username: cfg.Username,
			Platform: cfg.Platform,
			DataDir:  cfg.DataDir,
			Logger:   cfg.Logger,
		}),
		watcher:  w,
		resolver: res,
		store:    store,
	}

	if cfg.SweepInterval > 0 {
		sweeper, err := cache.NewSweeper(cfg.Logger, cfg.SweepInterval, res)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.sweeper = sweeper
		sweeper.Start()
	}

	return e, nil
}

// Start runs path detection and folds the findings into the alias table.
// A valid persisted snapshot short-circuits the probes; anything invalid
// is recomputed from scratch.
func (e *Engine) Start(ctx context.Context) {
	detected := e.loadSnapshot()
	if detected == nil {
		detected = e.detector.StartDetection(ctx)
	} else {
		// Keep the detector's view consistent with what the table was fed.
		e.detector.Seed(detected)
	}

	for category, paths := range detected {
		entry := &alias.Entry{
			Key: category,
			LocalizedNames: map[string][]string{
				"en": {strings.ReplaceAll(category, "_", " ")},
			},
			TargetPaths: map[string][]string{},
		}
		for _, dp := range paths {
			entry.TargetPaths[e.cfg.Platform] = append(entry.TargetPaths[e.cfg.Platform], dp.Path)
		}
		e.table.Register(entry)
	}

	if len(detected) > 0 {
		// Detector findings can change what a query resolves to.
		e.resolver.InvalidateCache()
	}

	e.logger.Info().
		Int("categories", len(detected)).
		Msg("Engine started")
}

// loadSnapshot reads a prior detection snapshot, nil when absent or
// invalid (invalid files are treated as a cache miss and recomputed).
func (e *Engine) loadSnapshot() map[string][]detect.DetectedPath {
	if e.cfg.DataDir == "" {
		return nil
	}

	snap, err := detect.LoadSnapshot(filepath.Join(e.cfg.DataDir, "detected-paths.json"))
	if err != nil {
		e.logger.Debug().Err(err).Msg("No reusable detection snapshot")
		return nil
	}
	if snap.Platform != e.cfg.Platform {
		// A snapshot written on another platform would poison the table.
		return nil
	}
	return snap.Paths
}

// ResolvePath resolves a fuzzy location query. Never empty, never an error.
func (e *Engine) ResolvePath(input string, ctx resolver.Context) []string {
	return e.resolver.ResolvePath(input, ctx)
}

// Resolve exposes the full result (stage, confidence) for callers that
// want to explain themselves.
func (e *Engine) Resolve(input string, ctx resolver.Context) resolver.Result {
	return e.resolver.Resolve(input, ctx)
}

// ListDirectory returns the cached listing for path, registering a watch
// on demand. Nil signals total failure; callers must null-check.
func (e *Engine) ListDirectory(path string) []fileop.FileRecord {
	return e.watcher.Files(path)
}

// GetRealTimeFiles forces a synchronous rescan before returning.
func (e *Engine) GetRealTimeFiles(path string) []fileop.FileRecord {
	return e.watcher.GetRealTimeFiles(path)
}

// WatchDirectory registers a watch without reading the listing.
func (e *Engine) WatchDirectory(path string, recursive bool) error {
	return e.watcher.Watch(path, recursive)
}

// StopWatching releases one directory's watch and timers.
func (e *Engine) StopWatching(path string) {
	e.watcher.StopWatching(path)
}

// GetWatchStatus reports the watch registry.
func (e *Engine) GetWatchStatus() watcher.Status {
	return e.watcher.Status()
}

// ResolverStats reports the resolver's running metrics.
func (e *Engine) ResolverStats() resolver.Stats {
	return e.resolver.Stats()
}

// RecordUserFeedback notes which path the user actually chose for an
// input, feeding the learned-intent stage. Memoized results for stale
// answers are dropped.
func (e *Engine) RecordUserFeedback(userID, originalInput, chosenPath string) {
	if err := e.store.Record(userID, originalInput, chosenPath); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to record user feedback")
		return
	}
	e.resolver.InvalidateCache()

	e.logger.Debug().
		Str("user", userID).
		Str("input", originalInput).
		Str("chosen", chosenPath).
		Msg("Recorded user feedback")
}

// RunDetection probes the machine without consulting a persisted snapshot.
// Repeated calls, and calls after Start, reuse the earlier result.
func (e *Engine) RunDetection(ctx context.Context) map[string][]detect.DetectedPath {
	return e.detector.StartDetection(ctx)
}

// DetectedPaths returns the last detection result, nil before Start.
func (e *Engine) DetectedPaths() map[string][]detect.DetectedPath {
	return e.detector.Result()
}

// Close stops all watches, timers, sweepers, and the learning store.
func (e *Engine) Close() error {
	if e.sweeper != nil {
		e.sweeper.Stop()
	}

	var firstErr error
	if err := e.watcher.Close(); err != nil {
		firstErr = err
	}
	if err := e.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// newStore picks the learning backend.
func newStore(cfg Config) (learning.Store, error) {
	if !cfg.PersistLearning || cfg.DataDir == "" {
		return learning.NewMemoryStore(), nil
	}

	store, err := learning.NewSQLiteStore(filepath.Join(cfg.DataDir, "learning.db"), cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("open learning store: %w", err)
	}
	return store, nil
}

// applyDefaults fills Config from the process environment.
func applyDefaults(cfg *Config) {
	if cfg.Home == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Home = home
		}
	}
	if cfg.Username == "" {
		cfg.Username = filepath.Base(cfg.Home)
	}
	if cfg.Platform == "" {
		cfg.Platform = detectPlatform()
	}
	if cfg.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.WorkingDir = wd
		}
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
}

// detectPlatform maps the runtime to the alias table's platform ids,
// treating a Microsoft kernel string as WSL.
func detectPlatform() string {
	if runtime.GOOS == "linux" {
		if data, err := os.ReadFile("/proc/version"); err == nil {
			if strings.Contains(strings.ToLower(string(data)), "microsoft") {
				return alias.PlatformWSL
			}
		}
		return alias.PlatformLinux
	}
	return runtime.GOOS
}
