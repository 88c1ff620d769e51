package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateThreshold(t *testing.T) {
	v := NewValidator()

	t.Run("valid threshold", func(t *testing.T) {
		assert.NoError(t, v.ValidateThreshold("x", 0.8))
		assert.NoError(t, v.ValidateThreshold("x", 0))
		assert.NoError(t, v.ValidateThreshold("x", 1))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Error(t, v.ValidateThreshold("x", -0.1))
		assert.Error(t, v.ValidateThreshold("x", 1.5))
	})
}

func TestValidatePlatform(t *testing.T) {
	v := NewValidator()

	t.Run("known platforms", func(t *testing.T) {
		for _, p := range []string{"windows", "darwin", "linux", "wsl"} {
			assert.NoError(t, v.ValidatePlatform(p))
		}
	})

	t.Run("empty means autodetect", func(t *testing.T) {
		assert.NoError(t, v.ValidatePlatform(""))
	})

	t.Run("unknown platform", func(t *testing.T) {
		assert.Error(t, v.ValidatePlatform("plan9"))
	})
}

func TestValidateLocale(t *testing.T) {
	v := NewValidator()

	t.Run("valid locales", func(t *testing.T) {
		assert.NoError(t, v.ValidateLocale("ko"))
		assert.NoError(t, v.ValidateLocale("en"))
		assert.NoError(t, v.ValidateLocale("ja-JP"))
	})

	t.Run("empty means default", func(t *testing.T) {
		assert.NoError(t, v.ValidateLocale(""))
	})

	t.Run("garbage tag", func(t *testing.T) {
		assert.Error(t, v.ValidateLocale("not a locale!"))
	})
}

func TestValidateLogLevel(t *testing.T) {
	v := NewValidator()

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			assert.NoError(t, v.ValidateLogLevel(level))
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		assert.Error(t, v.ValidateLogLevel("verbose"))
	})
}

func TestValidateConfig(t *testing.T) {
	v := NewValidator()

	t.Run("default config is valid", func(t *testing.T) {
		errs := v.ValidateConfig(DefaultConfig())
		assert.Empty(t, errs)
	})

	t.Run("collects all problems", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Engine.Platform = "plan9"
		cfg.Resolver.LearnedThreshold = 2
		cfg.Watcher.Debounce = -1
		cfg.Logging.Level = "verbose"
		cfg.Gateway.Port = 0

		errs := v.ValidateConfig(cfg)
		assert.Len(t, errs, 5)
	})

	t.Run("gateway port ignored when disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Gateway.Enabled = false
		cfg.Gateway.Port = 0

		errs := v.ValidateConfig(cfg)
		assert.Empty(t, errs)
	})
}
