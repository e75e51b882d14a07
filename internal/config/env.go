package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "QUICKTASK_"

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvWithSources(cfg, nil)
}

// loadFromEnvWithSources loads environment variables and updates source
// tracking when sources is non-nil.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv(EnvPrefix + "THEME"); v != "" {
		cfg.Theme = v
		mark("theme")
	}
	if v := os.Getenv(EnvPrefix + "FADE_MS"); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.FadeMillis = i
			mark("fade_ms")
		}
	}
	if v := os.Getenv(EnvPrefix + "LOG_DIR"); v != "" {
		cfg.LogDir = v
		mark("log_dir")
	}
	if v := os.Getenv(EnvPrefix + "JOURNAL"); v != "" {
		cfg.Journal = boolFromString(v)
		mark("journal")
	}

	// Logging configuration
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv(EnvPrefix + "LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv(EnvPrefix + "LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
}

// boolFromString parses common truthy spellings; everything else is false.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
