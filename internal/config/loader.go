package config

import (
	"os"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Overlay the YAML file named by TODO_CONFIG, if any
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithOverrides(nil)
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	configFile := os.Getenv("TODO_CONFIG")
	if overrides != nil && overrides.ConfigFile != nil && *overrides.ConfigFile != "" {
		configFile = *overrides.ConfigFile
	}
	if configFile != "" {
		if err := l.config.LoadFile(configFile); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(l.config, overrides)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides. A nil field means the
// flag was not given.
type ConfigOverrides struct {
	ConfigFile *string

	// Server overrides
	Addr *string

	// Database overrides
	DBDir       *string
	DBFilename  *string
	BusyTimeout *time.Duration

	// Text store overrides
	TextFile *string

	// Time overrides
	TimeZone *string

	// Limits overrides
	SerializeRequests *bool
	RateRPS           *float64

	// Logging overrides
	LogLevel *string
	Debug    *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}

	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.BusyTimeout != nil {
		config.Database.BusyTimeout = *overrides.BusyTimeout
	}

	if overrides.TextFile != nil {
		config.TextStore.Path = *overrides.TextFile
	}

	if overrides.TimeZone != nil {
		config.Time.Zone = *overrides.TimeZone
	}

	if overrides.SerializeRequests != nil {
		config.Limits.SerializeRequests = *overrides.SerializeRequests
	}
	if overrides.RateRPS != nil {
		config.Limits.RateRPS = *overrides.RateRPS
	}

	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.Debug != nil {
		config.Logging.Debug = *overrides.Debug
	}
}
