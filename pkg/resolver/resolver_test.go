package resolver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/alias"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/learning"
)

// koreanWindowsResolver simulates the common deployment: Korean-locale user
// on a Windows machine.
func koreanWindowsResolver(t *testing.T, store learning.Store) *Resolver {
	t.Helper()
	table := alias.NewTable(alias.Config{
		Home:          `C:\Users\hana`,
		Username:      "hana",
		Platform:      alias.PlatformWindows,
		DefaultLocale: "en",
		Logger:        zerolog.Nop(),
	})

	return New(Config{
		Table:         table,
		Store:         store,
		WorkingDir:    t.TempDir(),
		DefaultLocale: "ko",
		Logger:        zerolog.Nop(),
	})
}

func TestResolve_PassthroughAbsolute(t *testing.T) {
	r := koreanWindowsResolver(t, nil)
	dir := t.TempDir()

	result := r.Resolve(dir, Context{})
	assert.Equal(t, StagePassthrough, result.Stage)
	assert.Equal(t, []string{dir}, result.Candidates)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestResolve_PassthroughWindowsStyle(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve(`D:\data\reports`, Context{})
	assert.Equal(t, StagePassthrough, result.Stage)
	require.Len(t, result.Candidates, 1)
}

func TestResolve_PassthroughExistingRelative(t *testing.T) {
	table := alias.NewTable(alias.Config{
		Home: "/home/hana", Platform: alias.PlatformLinux, Logger: zerolog.Nop(),
	})
	wd := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(wd, "notes"), 0755))

	r := New(Config{Table: table, WorkingDir: wd, Logger: zerolog.Nop()})

	result := r.Resolve("notes", Context{})
	assert.Equal(t, StagePassthrough, result.Stage)
	assert.Equal(t, []string{filepath.Join(wd, "notes")}, result.Candidates)
}

func TestResolve_KoreanDownloads(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve("다운로드", Context{Locale: "ko"})
	assert.Equal(t, StageAlias, result.Stage)
	require.NotEmpty(t, result.Candidates)
	assert.Equal(t, `C:\Users\hana\Downloads`, result.Candidates[0])
	assert.GreaterOrEqual(t, result.Confidence, 0.8)
}

func TestResolve_KakaoTalkReceivedFiles(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve("카카오톡 받은 파일", Context{Locale: "ko"})
	assert.Equal(t, `C:\Users\hana\Documents\카카오톡 받은 파일`, result.Candidates[0])
	assert.GreaterOrEqual(t, result.Confidence, 0.9)
}

func TestResolve_ContextualKorean(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve("바탕화면에 프로젝트 폴더", Context{Locale: "ko"})
	assert.Equal(t, StageContextual, result.Stage)
	require.NotEmpty(t, result.Candidates)
	assert.Equal(t, `C:\Users\hana\Desktop\프로젝트`, result.Candidates[0])
}

func TestResolve_ContextualKoreanInside(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve("문서 안의 보고서", Context{Locale: "ko"})
	assert.Equal(t, StageContextual, result.Stage)
	assert.Equal(t, `C:\Users\hana\Documents\보고서`, result.Candidates[0])
}

func TestResolve_ContextualEnglish(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve("project folder in desktop", Context{Locale: "en"})
	assert.Equal(t, StageContextual, result.Stage)
	assert.Equal(t, `C:\Users\hana\Desktop\project`, result.Candidates[0])
}

func TestResolve_LearnedBeatsAlias(t *testing.T) {
	store := learning.NewMemoryStore()
	r := koreanWindowsResolver(t, store)

	// The user has corrected "다운로드" to a non-default location.
	require.NoError(t, store.Record("u1", "다운로드", `D:\archive\downloads`))

	result := r.Resolve("다운로드", Context{Locale: "ko", UserID: "u1"})
	assert.Equal(t, StageLearned, result.Stage)
	assert.Equal(t, []string{`D:\archive\downloads`}, result.Candidates)
}

func TestResolve_LearnedBelowThresholdFallsThrough(t *testing.T) {
	store := learning.NewMemoryStore()
	r := koreanWindowsResolver(t, store)

	// Three-way split leaves no suggestion at or above 0.6.
	require.NoError(t, store.Record("u1", "다운로드", `D:\a`))
	require.NoError(t, store.Record("u1", "다운로드", `D:\b`))
	require.NoError(t, store.Record("u1", "다운로드", `D:\c`))

	result := r.Resolve("다운로드", Context{Locale: "ko", UserID: "u1"})
	assert.Equal(t, StageAlias, result.Stage)
}

func TestResolve_LearnedIgnoredWithoutUser(t *testing.T) {
	store := learning.NewMemoryStore()
	require.NoError(t, store.Record("u1", "다운로드", `D:\archive`))

	r := koreanWindowsResolver(t, store)
	result := r.Resolve("다운로드", Context{Locale: "ko"})
	assert.Equal(t, StageAlias, result.Stage)
}

func TestResolve_HeuristicMedia(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve("여행 사진 모음", Context{Locale: "ko"})
	assert.Equal(t, StageHeuristic, result.Stage)
	assert.Contains(t, result.Candidates, `C:\Users\hana\Pictures`)
	assert.GreaterOrEqual(t, result.Confidence, 0.7)
}

func TestResolve_FallbackNeverEmpty(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result := r.Resolve("zzz-nonexistent-token", Context{Locale: "en"})
	assert.Equal(t, StageFallback, result.Stage)
	require.Len(t, result.Candidates, 1)
	assert.True(t, filepath.IsAbs(result.Candidates[0]))
	assert.Contains(t, result.Candidates[0], "zzz-nonexistent-token")
}

func TestResolve_MemoizedWithinTTL(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	first := r.Resolve("다운로드", Context{Locale: "ko"})
	second := r.Resolve("다운로드", Context{Locale: "ko"})

	assert.Equal(t, first, second)

	stats := r.Stats()
	assert.Equal(t, int64(2), stats.TotalCalls)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestResolve_MemoKeyIncludesContext(t *testing.T) {
	store := learning.NewMemoryStore()
	require.NoError(t, store.Record("u1", "docs", `D:\work\docs`))

	r := koreanWindowsResolver(t, store)

	anonymous := r.Resolve("docs", Context{Locale: "en"})
	personal := r.Resolve("docs", Context{Locale: "en", UserID: "u1"})

	assert.NotEqual(t, anonymous.Stage, personal.Stage)
	assert.Equal(t, StageLearned, personal.Stage)
}

func TestResolve_InvalidateCache(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	r.Resolve("다운로드", Context{Locale: "ko"})
	r.InvalidateCache()
	r.Resolve("다운로드", Context{Locale: "ko"})

	assert.Equal(t, int64(0), r.Stats().CacheHits)
}

func TestResolve_StatsRatios(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	r.Resolve("다운로드", Context{Locale: "ko"})         // alias
	r.Resolve("zzz-nothing-here", Context{Locale: "en"}) // fallback
	r.Resolve("zzz-nothing-here", Context{Locale: "en"}) // cache hit

	stats := r.Stats()
	assert.Equal(t, int64(3), stats.TotalCalls)
	assert.InDelta(t, 1.0/3.0, stats.CacheHitRatio, 0.001)
	// The memoized fallback result still counts as fallback usage.
	assert.InDelta(t, 2.0/3.0, stats.FallbackRatio, 0.001)
	assert.GreaterOrEqual(t, stats.AvgLatency, time.Duration(0))
}

// panicStage proves stage isolation: a stage blowing up must read as "no
// match", not crash the pipeline.
type panicStage struct{}

func (panicStage) Name() string { return "panic" }
func (panicStage) Resolve(string, Context) (Result, bool) {
	panic("boom")
}

func TestRunStage_RecoversPanic(t *testing.T) {
	r := koreanWindowsResolver(t, nil)

	result, ok := r.runStage(panicStage{}, "anything", Context{})
	assert.False(t, ok)
	assert.Empty(t, result.Candidates)
}

func TestResolve_SweepEvictsExpired(t *testing.T) {
	table := alias.NewTable(alias.Config{
		Home: "/home/hana", Platform: alias.PlatformLinux, Logger: zerolog.Nop(),
	})
	r := New(Config{
		Table:      table,
		WorkingDir: t.TempDir(),
		CacheTTL:   time.Nanosecond,
		Logger:     zerolog.Nop(),
	})

	r.Resolve("downloads", Context{})
	time.Sleep(time.Millisecond)
	assert.Equal(t, 1, r.Sweep())
}
