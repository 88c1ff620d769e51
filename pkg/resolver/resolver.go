package resolver

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/alias"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/cache"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/learning"
)

// Default pipeline tuning. All overridable through Config.
const (
	DefaultLearnedThreshold   = 0.6
	DefaultHeuristicThreshold = 0.7
	DefaultCacheTTL           = 5 * time.Minute
)

// Observer receives per-call measurements. Optional; the engine wires one
// backed by Prometheus.
type Observer interface {
	ObserveResolve(stage string, duration time.Duration, cacheHit bool)
}

// Config assembles a resolver.
type Config struct {
	Table              *alias.Table
	Store              learning.Store // nil disables the learned stage
	WorkingDir         string
	DefaultLocale      string
	LearnedThreshold   float64
	HeuristicThreshold float64
	CacheTTL           time.Duration
	Logger             zerolog.Logger
	Observer           Observer
}

// Stats are the resolver's running counters.
type Stats struct {
	TotalCalls    int64         `json:"total_calls"`
	CacheHits     int64         `json:"cache_hits"`
	FallbackUses  int64         `json:"fallback_uses"`
	CacheHitRatio float64       `json:"cache_hit_ratio"`
	FallbackRatio float64       `json:"fallback_ratio"`
	AvgLatency    time.Duration `json:"avg_latency"`
}

// Resolver runs the ordered stage pipeline with memoization. Resolve never
// returns an error and never returns an empty candidate list.
type Resolver struct {
	stages        []Stage
	memo          *cache.Cache[Result]
	defaultLocale string
	logger        zerolog.Logger
	observer      Observer

	mu           sync.Mutex
	totalCalls   int64
	cacheHits    int64
	fallbackUses int64
	totalLatency time.Duration
}

// New builds the pipeline in its fixed order: passthrough, learned,
// contextual, alias, heuristic, fallback.
func New(cfg Config) *Resolver {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	if cfg.LearnedThreshold == 0 {
		cfg.LearnedThreshold = DefaultLearnedThreshold
	}
	if cfg.HeuristicThreshold == 0 {
		cfg.HeuristicThreshold = DefaultHeuristicThreshold
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return &Resolver{
		stages: []Stage{
			&passthroughStage{workingDir: cfg.WorkingDir},
			&learnedStage{store: cfg.Store, threshold: cfg.LearnedThreshold},
			&contextualStage{table: cfg.Table},
			&aliasStage{table: cfg.Table},
			&heuristicStage{table: cfg.Table, threshold: cfg.HeuristicThreshold},
			&fallbackStage{workingDir: cfg.WorkingDir},
		},
		memo:          cache.New[Result](cfg.CacheTTL),
		defaultLocale: cfg.DefaultLocale,
		logger:        cfg.Logger.With().Str("component", "resolver").Logger(),
		observer:      cfg.Observer,
	}
}

// Resolve runs the pipeline. A memoized result within the TTL skips every
// stage and performs zero disk probes.
func (r *Resolver) Resolve(input string, ctx Context) Result {
	start := time.Now()
	if ctx.Locale == "" {
		ctx.Locale = r.defaultLocale
	}

	key := memoKey(input, ctx)
	if cached, ok := r.memo.Get(key); ok {
		r.record(cached, time.Since(start), true)
		return cached
	}

	result := r.runStages(input, ctx)
	r.memo.Set(key, result)
	r.record(result, time.Since(start), false)

	r.logger.Debug().
		Str("input", input).
		Str("stage", result.Stage).
		Float64("confidence", result.Confidence).
		Int("candidates", len(result.Candidates)).
		Msg("Resolved path query")

	return result
}

// ResolvePath is the list-of-paths convenience over Resolve.
func (r *Resolver) ResolvePath(input string, ctx Context) []string {
	return r.Resolve(input, ctx).Candidates
}

// runStages walks the pipeline, first non-empty result wins. The trailing
// fallback stage always answers, so the zero Result below is unreachable
// in practice.
func (r *Resolver) runStages(input string, ctx Context) Result {
	for _, stage := range r.stages {
		if result, ok := r.runStage(stage, input, ctx); ok {
			return result
		}
	}
	return Result{Candidates: []string{input}, Stage: StageFallback, Confidence: 0}
}

// runStage isolates one stage: a panic inside it is logged and treated as
// "no match", never escaping to the caller.
func (r *Resolver) runStage(stage Stage, input string, ctx Context) (result Result, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Str("stage", stage.Name()).
				Interface("panic", rec).
				Msg("Resolution stage panicked, treating as no match")
			result, ok = Result{}, false
		}
	}()
	return stage.Resolve(input, ctx)
}

// record updates the running counters and notifies the observer.
func (r *Resolver) record(result Result, latency time.Duration, cacheHit bool) {
	r.mu.Lock()
	r.totalCalls++
	r.totalLatency += latency
	if cacheHit {
		r.cacheHits++
	}
	if result.Stage == StageFallback {
		r.fallbackUses++
	}
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.ObserveResolve(result.Stage, latency, cacheHit)
	}
}

// Stats returns a snapshot of the running counters.
func (r *Resolver) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		TotalCalls:   r.totalCalls,
		CacheHits:    r.cacheHits,
		FallbackUses: r.fallbackUses,
	}
	if r.totalCalls > 0 {
		stats.CacheHitRatio = float64(r.cacheHits) / float64(r.totalCalls)
		stats.FallbackRatio = float64(r.fallbackUses) / float64(r.totalCalls)
		stats.AvgLatency = r.totalLatency / time.Duration(r.totalCalls)
	}
	return stats
}

// Sweep evicts expired memoized results; wired into the periodic sweeper.
func (r *Resolver) Sweep() int {
	return r.memo.Sweep()
}

// InvalidateCache drops every memoized result, e.g. after the alias table
// gains detector entries.
func (r *Resolver) InvalidateCache() {
	r.memo.Clear()
}

// memoKey serializes the call into the memoization key.
func memoKey(input string, ctx Context) string {
	return strings.Join([]string{input, ctx.Locale, ctx.PreviousPath, ctx.UserID}, "\x1f")
}
