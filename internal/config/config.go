package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the to-do application
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	TextStore TextStoreConfig `yaml:"text_store" toml:"text_store"`
	Time      TimeConfig      `yaml:"time" toml:"time"`
	Limits    LimitsConfig    `yaml:"limits" toml:"limits"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" toml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" toml:"dir"`
	Filename       string        `yaml:"filename" toml:"filename"`
	BusyTimeout    time.Duration `yaml:"busy_timeout" toml:"busy_timeout"`
	DirPermissions uint32        `yaml:"dir_permissions" toml:"dir_permissions"`
}

// TextStoreConfig holds the flat-file list location
type TextStoreConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// TimeConfig holds the civil time zone timestamps are shown in
type TimeConfig struct {
	Zone string `yaml:"zone" toml:"zone"`
}

// LimitsConfig holds request admission limits
type LimitsConfig struct {
	SerializeRequests bool    `yaml:"serialize_requests" toml:"serialize_requests"`
	RateRPS           float64 `yaml:"rate_rps" toml:"rate_rps"`
	RateBurst         int     `yaml:"rate_burst" toml:"rate_burst"`
	MaxUploadBytes    int64   `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Debug  bool   `yaml:"debug" toml:"debug"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Dir:            ".",
			Filename:       "task.db",
			BusyTimeout:    30 * time.Second,
			DirPermissions: 0755,
		},
		TextStore: TextStoreConfig{
			Path: "tasks.txt",
		},
		Time: TimeConfig{
			Zone: "Asia/Hong_Kong",
		},
		Limits: LimitsConfig{
			SerializeRequests: true,
			RateRPS:           0,
			RateBurst:         5,
			MaxUploadBytes:    10 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Time.Zone)
}

// LoadFile overlays the document at path onto the configuration. Files
// ending in .toml are read as TOML, anything else as YAML. Keys missing
// from the file keep their current values; unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: "config", Message: err.Error()}
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = c.decodeTOML(b)
	} else {
		err = c.decodeYAML(b)
	}
	if err != nil {
		return &ConfigError{Field: "config", Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return nil
}

func (c *Config) decodeYAML(b []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) decodeTOML(b []byte) error {
	md, err := toml.Decode(string(b), c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Server configuration
	if addr := os.Getenv("TODO_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if err := envDuration("TODO_READ_TIMEOUT", &c.Server.ReadTimeout); err != nil {
		return err
	}
	if err := envDuration("TODO_WRITE_TIMEOUT", &c.Server.WriteTimeout); err != nil {
		return err
	}
	if err := envDuration("TODO_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout); err != nil {
		return err
	}

	// Database configuration
	if dir := os.Getenv("TODO_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TODO_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if err := envDuration("TODO_DB_BUSY_TIMEOUT", &c.Database.BusyTimeout); err != nil {
		return err
	}
	if perms := os.Getenv("TODO_DB_DIR_PERMISSIONS"); perms != "" {
		p, err := strconv.ParseUint(perms, 8, 32)
		if err != nil {
			return &ConfigError{Field: "TODO_DB_DIR_PERMISSIONS", Message: "must be an octal file mode"}
		}
		c.Database.DirPermissions = uint32(p)
	}

	// Text store configuration
	if path := os.Getenv("TODO_TEXT_FILE"); path != "" {
		c.TextStore.Path = path
	}

	// Time configuration
	if zone := os.Getenv("TODO_TIMEZONE"); zone != "" {
		c.Time.Zone = zone
	}

	// Limits configuration
	if err := envBool("TODO_SERIALIZE_REQUESTS", &c.Limits.SerializeRequests); err != nil {
		return err
	}
	if rps := os.Getenv("TODO_RATE_RPS"); rps != "" {
		f, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			return &ConfigError{Field: "TODO_RATE_RPS", Message: "must be a number"}
		}
		c.Limits.RateRPS = f
	}
	if burst := os.Getenv("TODO_RATE_BURST"); burst != "" {
		n, err := strconv.Atoi(burst)
		if err != nil {
			return &ConfigError{Field: "TODO_RATE_BURST", Message: "must be an integer"}
		}
		c.Limits.RateBurst = n
	}
	if size := os.Getenv("TODO_MAX_UPLOAD_BYTES"); size != "" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return &ConfigError{Field: "TODO_MAX_UPLOAD_BYTES", Message: "must be an integer"}
		}
		c.Limits.MaxUploadBytes = n
	}

	// Logging configuration
	if level := os.Getenv("TODO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TODO_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	// any non-empty value counts, as in logging.DebugEnabled
	if os.Getenv("TODO_DEBUG") != "" {
		c.Logging.Debug = true
	}

	return nil
}

func envDuration(key string, dst *time.Duration) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return &ConfigError{Field: key, Message: "must be a duration such as 30s"}
	}
	*dst = d
	return nil
}

func envBool(key string, dst *bool) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return &ConfigError{Field: key, Message: "must be true or false"}
	}
	*dst = b
	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate server configuration
	if strings.TrimSpace(c.Server.Addr) == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ConfigError{Field: "server.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.BusyTimeout <= 0 {
		return &ConfigError{Field: "database.busy_timeout", Message: "busy timeout must be positive"}
	}

	// Validate text store configuration
	if c.TextStore.Path == "" {
		return &ConfigError{Field: "text_store.path", Message: "text file path cannot be empty"}
	}

	// Validate time configuration
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "time.zone", Message: fmt.Sprintf("unknown time zone %q", c.Time.Zone)}
	}

	// Validate limits configuration
	if c.Limits.RateRPS < 0 {
		return &ConfigError{Field: "limits.rate_rps", Message: "rate cannot be negative"}
	}
	if c.Limits.RateRPS > 0 && c.Limits.RateBurst < 1 {
		return &ConfigError{Field: "limits.rate_burst", Message: "burst must be at least 1 when rate limiting is on"}
	}
	if c.Limits.MaxUploadBytes <= 0 {
		return &ConfigError{Field: "limits.max_upload_bytes", Message: "upload limit must be positive"}
	}

	// Validate logging configuration
	if _, err := log.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown log level %q", c.Logging.Level)}
	}
	switch c.Logging.Format {
	case "text", "json", "logfmt":
	default:
		return &ConfigError{Field: "logging.format", Message: "format must be text, json or logfmt"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
