package config

import (
	"encoding/json"
)

// Config represents the main Filo configuration
type Config struct {
	// Engine environment
	Engine EngineConfig `json:"engine" mapstructure:"engine"`

	// Resolver pipeline tuning
	Resolver ResolverConfig `json:"resolver" mapstructure:"resolver"`

	// Watcher tuning
	Watcher WatcherConfig `json:"watcher" mapstructure:"watcher"`

	// Learning store
	Learning LearningConfig `json:"learning" mapstructure:"learning"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Gateway server configuration
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Metrics configuration
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// EngineConfig describes the machine the engine resolves against. Empty
// fields are detected from the process environment at startup.
type EngineConfig struct {
	Home          string `json:"home" mapstructure:"home"`
	Username      string `json:"username" mapstructure:"username"`
	Platform      string `json:"platform" mapstructure:"platform"` // windows, darwin, linux, wsl
	WorkingDir    string `json:"working_dir" mapstructure:"working_dir"`
	DefaultLocale string `json:"default_locale" mapstructure:"default_locale"`
}

// ResolverConfig tunes the resolution pipeline
type ResolverConfig struct {
	LearnedThreshold   float64 `json:"learned_threshold" mapstructure:"learned_threshold"`
	HeuristicThreshold float64 `json:"heuristic_threshold" mapstructure:"heuristic_threshold"`
	NearMatchThreshold float64 `json:"near_match_threshold" mapstructure:"near_match_threshold"`
	CacheTTL           int     `json:"cache_ttl" mapstructure:"cache_ttl"`           // seconds
	SweepInterval      int     `json:"sweep_interval" mapstructure:"sweep_interval"` // seconds, 0 disables
}

// WatcherConfig tunes the filesystem watcher
type WatcherConfig struct {
	Debounce  int `json:"debounce" mapstructure:"debounce"`   // milliseconds
	Staleness int `json:"staleness" mapstructure:"staleness"` // seconds
	MaxDepth  int `json:"max_depth" mapstructure:"max_depth"`
}

// LearningConfig controls the user-correction store
type LearningConfig struct {
	Persist bool `json:"persist" mapstructure:"persist"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `json:"level" mapstructure:"level"`
	File     string `json:"file" mapstructure:"file"`
	MaxSize  int    `json:"max_size" mapstructure:"max_size"` // MB
	MaxAge   int    `json:"max_age" mapstructure:"max_age"`   // days
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// GatewayConfig holds gateway server configuration
type GatewayConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Port    int    `json:"port" mapstructure:"port"`
	Host    string `json:"host" mapstructure:"host"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultLocale: "en",
		},
		Resolver: ResolverConfig{
			LearnedThreshold:   0.6,
			HeuristicThreshold: 0.7,
			NearMatchThreshold: 0.8,
			CacheTTL:           300,
			SweepInterval:      60,
		},
		Watcher: WatcherConfig{
			Debounce:  1000,
			Staleness: 30,
			MaxDepth:  8,
		},
		Learning: LearningConfig{
			Persist: true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			MaxSize:  100,
			MaxAge:   7,
			Compress: true,
		},
		Gateway: GatewayConfig{
			Enabled: true,
			Port:    8080,
			Host:    "127.0.0.1",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		DataDir: "",
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
