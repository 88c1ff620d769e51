package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/resolver"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/watcher"
)

// testEngine builds an engine over a throwaway home with the standard user
// folders plus a Telegram download dir.
func testEngine(t *testing.T, dataDir string) *Engine {
	t.Helper()

	home := t.TempDir()
	for _, dir := range []string{
		"Desktop", "Documents", "Downloads",
		filepath.Join("Downloads", "Telegram Desktop"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(home, dir), 0755))
	}

	e, err := New(Config{
		Home:          home,
		Username:      "hana",
		Platform:      "linux",
		WorkingDir:    t.TempDir(),
		DataDir:       dataDir,
		DefaultLocale: "en",
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngine_ResolveKnownAlias(t *testing.T) {
	e := testEngine(t, "")
	e.Start(context.Background())

	paths := e.ResolvePath("downloads", resolver.Context{Locale: "en"})
	require.NotEmpty(t, paths)
	assert.Equal(t, filepath.Join(e.cfg.Home, "Downloads"), paths[0])
}

func TestEngine_ResolveNeverEmpty(t *testing.T) {
	e := testEngine(t, "")

	paths := e.ResolvePath("zzz-completely-unknown", resolver.Context{})
	require.Len(t, paths, 1)
	assert.True(t, filepath.IsAbs(paths[0]))
}

func TestEngine_StartRegistersDetectedPaths(t *testing.T) {
	e := testEngine(t, "")
	e.Start(context.Background())

	detected := e.DetectedPaths()
	require.Contains(t, detected, "telegram_received")

	result := e.Resolve("telegram received", resolver.Context{Locale: "en"})
	assert.Equal(t, resolver.StageAlias, result.Stage)
	assert.Contains(t, result.Candidates, filepath.Join(e.cfg.Home, "Downloads", "Telegram Desktop"))
}

func TestEngine_StartPersistsSnapshot(t *testing.T) {
	dataDir := t.TempDir()
	e := testEngine(t, dataDir)
	e.Start(context.Background())

	_, err := os.Stat(filepath.Join(dataDir, "detected-paths.json"))
	assert.NoError(t, err)
}

func TestEngine_StartReusesSnapshot(t *testing.T) {
	dataDir := t.TempDir()

	first := testEngine(t, dataDir)
	first.Start(context.Background())
	require.Contains(t, first.DetectedPaths(), "telegram_received")
	require.NoError(t, first.Close())

	// The second engine's home has no Telegram folder; only the snapshot
	// can know about the category.
	second := testEngine(t, dataDir)
	require.NoError(t, os.RemoveAll(filepath.Join(second.cfg.Home, "Downloads", "Telegram Desktop")))
	second.Start(context.Background())

	result := second.Resolve("telegram received", resolver.Context{Locale: "en"})
	assert.Equal(t, resolver.StageAlias, result.Stage)

	// Snapshot reuse seeds the detector, so the reported paths match what
	// the alias table was fed.
	assert.Contains(t, second.DetectedPaths(), "telegram_received")
}

func TestEngine_ListDirectory(t *testing.T) {
	e := testEngine(t, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))

	records := e.ListDirectory(dir)
	require.Len(t, records, 1)
	assert.Equal(t, "a.txt", records[0].Name)
}

func TestEngine_ListDirectoryMissingIsNil(t *testing.T) {
	e := testEngine(t, "")

	records := e.ListDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Nil(t, records)
}

func TestEngine_GetWatchStatus(t *testing.T) {
	e := testEngine(t, "")
	dir := t.TempDir()

	require.NoError(t, e.WatchDirectory(dir, false))

	status := e.GetWatchStatus()
	assert.Equal(t, 1, status.WatchedCount)
	require.Len(t, status.PerPath, 1)
	assert.Equal(t, watcher.StateWatching, status.PerPath[0].State)
}

func TestEngine_RecordUserFeedback(t *testing.T) {
	e := testEngine(t, "")
	chosen := filepath.Join(e.cfg.Home, "Documents", "archive")

	ctx := resolver.Context{Locale: "en", UserID: "u1"}
	before := e.Resolve("downloads", ctx)
	require.NotEqual(t, resolver.StageLearned, before.Stage)

	e.RecordUserFeedback("u1", "downloads", chosen)

	after := e.Resolve("downloads", ctx)
	assert.Equal(t, resolver.StageLearned, after.Stage)
	assert.Equal(t, []string{chosen}, after.Candidates)
}

func TestEngine_PersistentFeedbackSurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()
	home := t.TempDir()
	chosen := filepath.Join(home, "work")

	open := func() *Engine {
		e, err := New(Config{
			Home:            home,
			Username:        "hana",
			Platform:        "linux",
			WorkingDir:      t.TempDir(),
			DataDir:         dataDir,
			PersistLearning: true,
			Logger:          zerolog.Nop(),
		})
		require.NoError(t, err)
		return e
	}

	e := open()
	e.RecordUserFeedback("u1", "작업 폴더", chosen)
	require.NoError(t, e.Close())

	e = open()
	defer e.Close()

	result := e.Resolve("작업 폴더", resolver.Context{Locale: "ko", UserID: "u1"})
	assert.Equal(t, resolver.StageLearned, result.Stage)
	assert.Equal(t, []string{chosen}, result.Candidates)
}

func TestEngine_ResolverStats(t *testing.T) {
	e := testEngine(t, "")

	e.ResolvePath("downloads", resolver.Context{})
	e.ResolvePath("downloads", resolver.Context{})

	stats := e.ResolverStats()
	assert.Equal(t, int64(2), stats.TotalCalls)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestEngine_SweeperLifecycle(t *testing.T) {
	e, err := New(Config{
		Home:          t.TempDir(),
		Platform:      "linux",
		WorkingDir:    t.TempDir(),
		SweepInterval: time.Minute,
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	assert.NotNil(t, e.sweeper)
	assert.NoError(t, e.Close())
}
