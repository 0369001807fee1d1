package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete deptrack configuration.
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Extract   ExtractConfig   `json:"extract" mapstructure:"extract"`
	Watch     WatchConfig     `json:"watch" mapstructure:"watch"`
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// CacheConfig contains module-map/change cache configuration.
type CacheConfig struct {
	Dir                   string `json:"dir" mapstructure:"dir"`
	ModuleMapCacheFile    string `json:"moduleMapCacheFile" mapstructure:"moduleMapCacheFile"`
	FileEntryCacheFile    string `json:"fileEntryCacheFile" mapstructure:"fileEntryCacheFile"`
	Compress              bool   `json:"compress" mapstructure:"compress"`
}

// ExtractConfig contains dependency-extraction configuration.
type ExtractConfig struct {
	Ignore             []string `json:"ignore" mapstructure:"ignore"`
	PreferTreeSitter   bool     `json:"preferTreeSitter" mapstructure:"preferTreeSitter"`
	MaxFileSizeBytes   int      `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
}

// WatchConfig contains watch-loop polling configuration.
type WatchConfig struct {
	PollIntervalMs int `json:"pollIntervalMs" mapstructure:"pollIntervalMs"`
	DebounceMs     int `json:"debounceMs" mapstructure:"debounceMs"`
}

// TelemetryConfig contains run-history configuration.
type TelemetryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Cache: CacheConfig{
			Dir:                ".deptrack",
			ModuleMapCacheFile: "module-map.cache.json",
			FileEntryCacheFile: "file-entry.cache.json",
			Compress:           false,
		},
		Extract: ExtractConfig{
			Ignore:           []string{"node_modules", "vendor", ".git"},
			PreferTreeSitter: true,
			MaxFileSizeBytes: 1_000_000,
		},
		Watch: WatchConfig{
			PollIntervalMs: 500,
			DebounceMs:     200,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .deptrack/config.json, falling back to
// defaults when the file does not exist.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()
	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".deptrack"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := *DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to .deptrack/config.json.
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".deptrack")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	configPath := filepath.Join(dir, "config.json")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Cache.ModuleMapCacheFile == "" {
		return &ConfigError{Field: "cache.moduleMapCacheFile", Message: "must not be empty"}
	}
	if c.Cache.FileEntryCacheFile == "" {
		return &ConfigError{Field: "cache.fileEntryCacheFile", Message: "must not be empty"}
	}
	if c.Watch.PollIntervalMs <= 0 {
		return &ConfigError{Field: "watch.pollIntervalMs", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
