package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/quicktask-go/internal/theme"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultTheme      = "auto"
	DefaultFadeMillis = 300
	DefaultLogDir     = "~/.quicktask/logs"
	DefaultJournal    = true
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for quicktask.
type Config struct {
	// Appearance
	Theme string `toml:"theme"`

	// FadeMillis delays toggle and delete commits so the row can fade out.
	FadeMillis int `toml:"fade_ms"`

	// Journal
	LogDir  string `toml:"log_dir"`
	Journal bool   `toml:"journal"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// FadeDuration returns the fade delay as a duration.
func (c *Config) FadeDuration() time.Duration {
	if c.FadeMillis <= 0 {
		return 0
	}
	return time.Duration(c.FadeMillis) * time.Millisecond
}

// ThemeScheme returns the configured scheme; invalid values fall back to auto.
func (c *Config) ThemeScheme() theme.Scheme {
	scheme, err := theme.ParseScheme(c.Theme)
	if err != nil {
		return theme.SchemeAuto
	}
	return scheme
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := theme.ParseScheme(c.Theme); err != nil {
		return err
	}
	if c.FadeMillis < 0 {
		return fmt.Errorf("invalid fade_ms %d (must be >= 0)", c.FadeMillis)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug|info|warn|error|fatal)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q (expected text|json|logfmt)", c.LogFormat)
	}
	return nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"theme",
		"fade_ms",
		"log_dir",
		"journal",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the display value of a field by its TOML name.
func (c *Config) Value(field string) string {
	switch field {
	case "theme":
		return c.Theme
	case "fade_ms":
		return fmt.Sprintf("%d", c.FadeMillis)
	case "log_dir":
		return c.LogDir
	case "journal":
		return fmt.Sprintf("%t", c.Journal)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprintf("%t", c.LogTimestamps)
	case "log_caller":
		return fmt.Sprintf("%t", c.LogCaller)
	default:
		return ""
	}
}
