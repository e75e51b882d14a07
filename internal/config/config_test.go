package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/quicktask-go/internal/theme"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config file leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, field := range []string{"THEME", "FADE_MS", "LOG_DIR", "JOURNAL", "LOG_LEVEL", "LOG_FORMAT", "LOG_TIMESTAMPS", "LOG_CALLER"} {
		t.Setenv(EnvPrefix+field, "")
	}

	work := t.TempDir()
	t.Chdir(work)
	return work
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Theme != DefaultTheme {
		t.Errorf("Theme: got %q, want %q", cfg.Theme, DefaultTheme)
	}
	if cfg.FadeMillis != DefaultFadeMillis {
		t.Errorf("FadeMillis: got %d, want %d", cfg.FadeMillis, DefaultFadeMillis)
	}
	if cfg.Journal != true {
		t.Errorf("Journal: got %v, want true", cfg.Journal)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("QUICKTASK_THEME", "dark")
	t.Setenv("QUICKTASK_FADE_MS", "0")
	t.Setenv("QUICKTASK_JOURNAL", "no")
	t.Setenv("QUICKTASK_LOG_LEVEL", "debug")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q, want dark", cfg.Theme)
	}
	if cfg.FadeMillis != 0 {
		t.Errorf("FadeMillis: got %d, want 0", cfg.FadeMillis)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
}

func TestLoadFromEnvIgnoresBadNumbers(t *testing.T) {
	isolate(t)
	t.Setenv("QUICKTASK_FADE_MS", "soon")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.FadeMillis != DefaultFadeMillis {
		t.Errorf("FadeMillis: got %d, want default", cfg.FadeMillis)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "quicktask.toml")

	content := []byte(`theme = "light"
fade_ms = 120
log_format = "json"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.Theme != "light" {
		t.Errorf("Theme: got %q, want light", cfg.Theme)
	}
	if cfg.FadeMillis != 120 {
		t.Errorf("FadeMillis: got %d, want 120", cfg.FadeMillis)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel should keep default, got %q", cfg.LogLevel)
	}
}

func TestLoadConfigFileInvalidTOML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "quicktask.toml")
	if err := os.WriteFile(configFile, []byte("theme = \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadConfigFile(&Config{}, configFile); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	if _, err := toml.Decode(ExampleConfig(), cfg); err != nil {
		t.Fatalf("example config does not decode: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config does not validate: %v", err)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--theme", "dark",
		"--fade-ms", "50",
		"--journal=false",
		"--log-format", "logfmt",
		"batch", "-",
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q, want dark", cfg.Theme)
	}
	if cfg.FadeMillis != 50 {
		t.Errorf("FadeMillis: got %d, want 50", cfg.FadeMillis)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false")
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt", cfg.LogFormat)
	}
	if rest := fs.Args(); len(rest) != 2 || rest[0] != "batch" {
		t.Errorf("remaining args: got %v", rest)
	}
}

func TestLoadPrecedence(t *testing.T) {
	work := isolate(t)

	home := os.Getenv("HOME")
	userDir := filepath.Join(home, ".quicktask")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userFile := filepath.Join(userDir, "quicktask.toml")
	if err := os.WriteFile(userFile, []byte("theme = \"light\"\nfade_ms = 10\nlog_level = \"warn\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	projectFile := filepath.Join(work, "quicktask.toml")
	if err := os.WriteFile(projectFile, []byte("fade_ms = 20\nlog_format = \"json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUICKTASK_LOG_FORMAT", "logfmt")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--theme", "dark"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.Theme != "dark" || cws.Sources["theme"] != SourceFlag {
		t.Errorf("theme: got %q from %s", cfg.Theme, cws.Sources["theme"])
	}
	if cfg.FadeMillis != 20 || cws.Sources["fade_ms"] != SourceProjFile {
		t.Errorf("fade_ms: got %d from %s", cfg.FadeMillis, cws.Sources["fade_ms"])
	}
	if cfg.LogLevel != "warn" || cws.Sources["log_level"] != SourceUserFile {
		t.Errorf("log_level: got %q from %s", cfg.LogLevel, cws.Sources["log_level"])
	}
	if cfg.LogFormat != "logfmt" || cws.Sources["log_format"] != SourceEnv {
		t.Errorf("log_format: got %q from %s", cfg.LogFormat, cws.Sources["log_format"])
	}
	if cws.Sources["journal"] != SourceDefault {
		t.Errorf("journal source: got %s", cws.Sources["journal"])
	}
	if len(cws.Files) != 2 || cws.ConfigFile() != "quicktask.toml" {
		t.Errorf("files: got %v", cws.Files)
	}
	if !filepath.IsAbs(cfg.ProjectRoot) {
		t.Errorf("ProjectRoot should be absolute: %q", cfg.ProjectRoot)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad theme", []string{"--theme", "neon"}, "invalid theme"},
		{"negative fade", []string{"--fade-ms", "-5"}, "fade_ms"},
		{"bad level", []string{"--log-level", "loud"}, "log_level"},
		{"bad format", []string{"--log-format", "xml"}, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			_, err := Load(fs, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestFadeDurationAndScheme(t *testing.T) {
	cfg := &Config{FadeMillis: 300, Theme: "dark"}
	if got := cfg.FadeDuration(); got != 300*time.Millisecond {
		t.Errorf("FadeDuration: got %v", got)
	}
	if got := cfg.ThemeScheme(); got != theme.SchemeDark {
		t.Errorf("ThemeScheme: got %s", got)
	}

	cfg = &Config{FadeMillis: -1, Theme: "bogus"}
	if got := cfg.FadeDuration(); got != 0 {
		t.Errorf("negative FadeDuration: got %v", got)
	}
	if got := cfg.ThemeScheme(); got != theme.SchemeAuto {
		t.Errorf("invalid theme should fall back to auto, got %s", got)
	}
}

func TestValue(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	for _, field := range Fields() {
		if cfg.Value(field) == "" {
			t.Errorf("Value(%q) is empty", field)
		}
	}
	if cfg.Value("unknown") != "" {
		t.Error("unknown field should be empty")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS == "windows" {
		t.Setenv("QUICKTASK_TEST_HOME", home)
		tests = append(tests,
			struct{ input, want string }{`~\test`, filepath.Join(home, "test")},
			struct{ input, want string }{`%QUICKTASK_TEST_HOME%\logs`, filepath.Join(home, "logs")},
			struct{ input, want string }{`%QUICKTASK_UNSET_VAR%\logs`, `%QUICKTASK_UNSET_VAR%\logs`},
		)
	} else {
		tests = append(tests, struct{ input, want string }{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
