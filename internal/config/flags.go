package config

import (
	"flag"
)

// flagFields maps flag names to the config fields they set.
var flagFields = map[string]string{
	"theme":          "theme",
	"fade-ms":        "fade_ms",
	"log-dir":        "log_dir",
	"journal":        "journal",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsWithSources(cfg, fs, args, nil)
}

// parseFlagsWithSources defines the global flags on fs, parses args into cfg,
// and marks every flag the user set explicitly.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(AppName, flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color scheme (auto|light|dark)")
	fs.IntVar(&cfg.FadeMillis, "fade-ms", cfg.FadeMillis, "Fade delay before toggle/delete commits, in milliseconds")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Journal directory")
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Write a JSONL journal of task changes")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
