// Package config loads and validates Markview configuration.
//
// Configuration is resolved in one explicit step: Load reads YAML, ApplyDefaults
// fills every unset key and makes paths absolute, and Validate rejects invalid
// values. The result is treated as immutable by the rest of the program.
package config

import "time"

// Defaults.
const (
	DefaultPort            = 8008
	DefaultTitle           = "Markview"
	DefaultCSSMount        = "/_css"
	DefaultMetricsPath     = "/metrics"
	DefaultHealthPath      = "/healthz"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config is the complete Markview configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	CSS        *CSSConfig       `yaml:"css,omitempty"`       // nil selects the bundled stylesheets
	CSSMount   string           `yaml:"css_mount,omitempty"` // URL prefix for stylesheets
	Template   string           `yaml:"template,omitempty"`  // optional html/template page shell
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Files      *FilesConfig     `yaml:"files,omitempty"` // nil serves the working directory
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Title           string        `yaml:"title"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MarkdownConfig configures the default renderer.
type MarkdownConfig struct {
	HighlightStyle string   `yaml:"highlight_style"`
	Extensions     []string `yaml:"extensions"`
	HardWraps      bool     `yaml:"hard_wraps"`
	UnsafeHTML     bool     `yaml:"unsafe_html"`
}

// MonitoringConfig represents monitoring and observability configuration
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Health  MonitoringHealth  `yaml:"health"`
	Logging MonitoringLogging `yaml:"logging"`
}

// MonitoringMetrics represents metrics configuration
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringHealth represents health check configuration
type MonitoringHealth struct {
	Path string `yaml:"path"`
}

// MonitoringLogging represents logging configuration
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)
