package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/ovan/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ovan.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultFrameInterval is how often the scheduler flushes deferred tasks.
	DefaultFrameInterval = "16ms"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "ovan"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the complete ovan.json configuration.
type Config struct {
	// Name is the overlay system name. Empty generates one.
	Name string `json:"name,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Inspector contains the HTTP inspector settings.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Frame contains the frame scheduler settings.
	Frame FrameConfig `json:"frame,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Archive contains snapshot archive settings.
	Archive ArchiveConfig `json:"archive,omitempty"`

	configPath string
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// AllowedOrigins lists websocket origins accepted besides the same host.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// FrameConfig contains frame scheduler settings.
type FrameConfig struct {
	// Interval is a Go duration string (e.g., "16ms").
	Interval string `json:"interval,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// ArchiveConfig configures snapshot archiving to S3-compatible storage.
// Archiving is off while Bucket is empty.
type ArchiveConfig struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads ovan.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E201").
			WithDetail("cannot read " + path).
			Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E201").
			WithDetail("failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Frame.Interval == "" {
		c.Frame.Interval = DefaultFrameInterval
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "ovan"
	}
	if c.Archive.Prefix == "" {
		c.Archive.Prefix = "snapshots/"
	}
	if c.Archive.Region == "" {
		c.Archive.Region = "us-east-1"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("E200").
			WithDetail(fmt.Sprintf("inspector.port must be between 0 and 65535, got %d", c.Inspector.Port))
	}
	if d, err := time.ParseDuration(c.Frame.Interval); err != nil || d <= 0 {
		return errors.New("E200").
			WithDetail(fmt.Sprintf("frame.interval %q is not a positive duration", c.Frame.Interval))
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Address returns the inspector listen address.
func (c *Config) Address() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}

// FrameInterval returns the parsed frame interval, falling back to the default.
func (c *Config) FrameInterval() time.Duration {
	d, err := time.ParseDuration(c.Frame.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultFrameInterval)
	}
	return d
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New("E200").
		WithDetail(fmt.Sprintf("unknown logLevel %q", c.LogLevel)).
		WithSuggestion("Use one of debug, info, warn, error.")
}

// ArchiveEnabled reports whether snapshots should be archived.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Bucket != ""
}
