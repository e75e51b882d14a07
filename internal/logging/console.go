package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ConsolePrefix is printed before every console log line.
const ConsolePrefix = "quicktask"

// ConsoleOptions holds configuration for console logging.
type ConsoleOptions struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// NewConsoleLoggerTo builds a leveled logger on w. The CLI passes stderr
// because the TUI owns stdout.
func NewConsoleLoggerTo(w io.Writer, opts ConsoleOptions) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// ConsoleOptionsFromConfig converts string settings, as they appear in TOML
// or the environment, into ConsoleOptions.
func ConsoleOptionsFromConfig(level, format string, timestamps, caller bool) ConsoleOptions {
	return ConsoleOptions{
		Level:           ParseLogLevel(level),
		Formatter:       ParseLogFormatter(format),
		ReportTimestamp: timestamps,
		ReportCaller:    caller,
		Prefix:          ConsolePrefix,
	}
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ConsoleWriter mirrors journal events onto a console logger.
type ConsoleWriter struct {
	logger *log.Logger
}

// NewConsoleWriter wraps logger as a Writer.
func NewConsoleWriter(logger *log.Logger) *ConsoleWriter {
	return &ConsoleWriter{logger: logger}
}

// Write logs event at a level matching its type.
func (c *ConsoleWriter) Write(event Event) error {
	msg := formatMessage(event)
	fields := eventFields(event)

	switch event.Type {
	case EventError:
		c.logger.Error(msg, fields...)
	case EventStart, EventEnd:
		c.logger.Info(msg, fields...)
	default:
		c.logger.Debug(msg, fields...)
	}
	return nil
}

func eventFields(event Event) []any {
	var fields []any
	if event.TaskID != "" {
		fields = append(fields, "task_id", event.TaskID)
	}
	if event.Title != "" {
		fields = append(fields, "title", event.Title)
	}
	switch event.Type {
	case EventAdd, EventToggle, EventDelete:
		fields = append(fields, "completed", event.Completed, "count", event.Count, "version", event.Version)
	}
	return fields
}

func formatMessage(event Event) string {
	if event.Content != "" {
		return event.Content
	}
	switch event.Type {
	case EventAdd:
		return "Task added"
	case EventToggle:
		if event.Completed {
			return "Task completed"
		}
		return "Task reopened"
	case EventDelete:
		return "Task deleted"
	case EventStart:
		return "Session started"
	case EventEnd:
		return "Session ended"
	case EventError:
		return "Error"
	default:
		return event.Type
	}
}
