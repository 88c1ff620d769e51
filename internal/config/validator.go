package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateThreshold validates a similarity or confidence threshold
func (v *Validator) ValidateThreshold(name string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %f", name, value)
	}
	return nil
}

// ValidatePlatform validates a platform identifier
func (v *Validator) ValidatePlatform(platform string) error {
	if platform == "" {
		return nil // Detected at startup
	}

	validPlatforms := []string{"windows", "darwin", "linux", "wsl"}
	for _, valid := range validPlatforms {
		if platform == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid platform: %s (must be one of: %s)", platform, strings.Join(validPlatforms, ", "))
}

// ValidateLocale validates a locale tag
func (v *Validator) ValidateLocale(locale string) error {
	if locale == "" {
		return nil // Use default
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("invalid locale %s: %w", locale, err)
	}
	return nil
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidatePort validates a TCP port
func (v *Validator) ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}

// ValidateConfig performs comprehensive validation
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errors []error

	if err := v.ValidatePlatform(cfg.Engine.Platform); err != nil {
		errors = append(errors, err)
	}
	if err := v.ValidateLocale(cfg.Engine.DefaultLocale); err != nil {
		errors = append(errors, err)
	}

	if err := v.ValidateThreshold("resolver.learned_threshold", cfg.Resolver.LearnedThreshold); err != nil {
		errors = append(errors, err)
	}
	if err := v.ValidateThreshold("resolver.heuristic_threshold", cfg.Resolver.HeuristicThreshold); err != nil {
		errors = append(errors, err)
	}
	if err := v.ValidateThreshold("resolver.near_match_threshold", cfg.Resolver.NearMatchThreshold); err != nil {
		errors = append(errors, err)
	}
	if cfg.Resolver.CacheTTL < 0 {
		errors = append(errors, fmt.Errorf("resolver.cache_ttl must be >= 0"))
	}
	if cfg.Resolver.SweepInterval < 0 {
		errors = append(errors, fmt.Errorf("resolver.sweep_interval must be >= 0"))
	}

	if cfg.Watcher.Debounce < 0 {
		errors = append(errors, fmt.Errorf("watcher.debounce must be >= 0"))
	}
	if cfg.Watcher.Staleness < 0 {
		errors = append(errors, fmt.Errorf("watcher.staleness must be >= 0"))
	}
	if cfg.Watcher.MaxDepth < 0 {
		errors = append(errors, fmt.Errorf("watcher.max_depth must be >= 0"))
	}

	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errors = append(errors, err)
	}

	if cfg.Gateway.Enabled {
		if err := v.ValidatePort(cfg.Gateway.Port); err != nil {
			errors = append(errors, fmt.Errorf("gateway: %w", err))
		}
	}

	return errors
}
