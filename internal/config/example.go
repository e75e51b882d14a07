package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# QuickTask configuration file
# Values can be overridden by QUICKTASK_* environment variables or CLI flags

# Color scheme: auto follows the terminal background
theme = "auto"

# Fade delay before a toggle or delete is committed, in milliseconds (0 disables)
fade_ms = 300

# Journal of task changes, one JSONL file per run (supports ~ expansion)
journal = true
log_dir = "~/.quicktask/logs"

# Console logging (written to stderr)
log_level = "info"     # debug|info|warn|error
log_format = "text"    # text|json|logfmt
log_timestamps = false
log_caller = false
`
}
