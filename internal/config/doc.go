// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.quicktask/quicktask.toml or OS-specific config directory)
// 3. Project config file (quicktask.toml or .quicktask.toml in the working directory)
// 4. Environment variables (QUICKTASK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.quicktask/quicktask.toml (preferred)
// - Windows: %APPDATA%\quicktask\quicktask.toml
// - macOS: ~/Library/Application Support/quicktask/quicktask.toml
// - Linux/BSD: $XDG_CONFIG_HOME/quicktask/quicktask.toml or ~/.config/quicktask/quicktask.toml
//
// Project-level config locations (overrides user config):
// - ./quicktask.toml (preferred)
// - ./.quicktask.toml
package config
