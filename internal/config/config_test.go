package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "en", cfg.Engine.DefaultLocale)
	assert.Equal(t, 0.6, cfg.Resolver.LearnedThreshold)
	assert.Equal(t, 0.7, cfg.Resolver.HeuristicThreshold)
	assert.Equal(t, 0.8, cfg.Resolver.NearMatchThreshold)
	assert.Equal(t, 300, cfg.Resolver.CacheTTL)
	assert.Equal(t, 1000, cfg.Watcher.Debounce)
	assert.Equal(t, 30, cfg.Watcher.Staleness)
	assert.Equal(t, 8, cfg.Watcher.MaxDepth)
	assert.True(t, cfg.Learning.Persist)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Gateway.Enabled)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()

	assert.Contains(t, s, "resolver")
	assert.Contains(t, s, "watcher")
	assert.Contains(t, s, "learned_threshold")
}
