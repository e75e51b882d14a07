// Package cmd implements the CLI command structure for quicktask.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/quicktask-go/internal/batch"
	"github.com/nibzard/quicktask-go/internal/config"
	"github.com/nibzard/quicktask-go/internal/logging"
	"github.com/nibzard/quicktask-go/internal/theme"
	"github.com/nibzard/quicktask-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Process streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the quicktask CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("quicktask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := newLogger(cfg)

	// No args or a leading flag means "tui"
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, logger, remainingArgs)
	case "batch":
		return batchCommand(ctx, cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "logs":
		return logsCommand(cfg, remainingArgs)
	case "config":
		return configCommand(remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewConsoleLoggerTo(stderr, logging.ConsoleOptionsFromConfig(
		cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller,
	))
}

// tuiCommand launches the interactive task list.
func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("quicktask tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (use 'quicktask batch' for scripts)")
	}

	logger.Debug("starting tui", "journal", cfg.Journal)
	sess, err := openTUISession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	return ui.RunTUI(ctx, cfg, sess.store, sess.logger)
}

// batchCommand applies a JSONL script to a fresh store.
func batchCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("quicktask batch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", string(batch.FormatText), "Output format (text|json)")
	strict := fs.Bool("strict", false, "Stop at the first failing line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	outFormat, err := batch.ParseFormat(*format)
	if err != nil {
		return err
	}

	in := stdin
	if len(remaining) == 1 && remaining[0] != "-" {
		f, err := os.Open(remaining[0])
		if err != nil {
			return fmt.Errorf("opening batch file: %w", err)
		}
		defer f.Close()
		in = f
	}

	sess, err := openSession(cfg, logger, "batch", logging.NewConsoleWriter(logger))
	if err != nil {
		return err
	}
	defer sess.Close()

	runner, err := batch.NewRunner(sess.store, batch.Options{
		Format: outFormat,
		Strict: *strict,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx, in, stdout)
	if err != nil {
		return err
	}
	return summary.Err()
}

// tailCommand tails the latest journal.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("quicktask tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No journal files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// logsCommand lists journal runs, newest first.
func logsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("quicktask logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("n", 0, "Show at most n runs (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		fmt.Fprintln(stdout, "No journal files found.")
		return nil
	}
	runs, err := logging.FindLogRuns(logDir)
	if err != nil {
		return fmt.Errorf("listing journals: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No journal files found.")
		return nil
	}
	if *limit > 0 && len(runs) > *limit {
		runs = runs[:*limit]
	}

	fmt.Fprintf(stdout, "Journals in %s:\n", logDir)
	for _, run := range runs {
		fmt.Fprintf(stdout, "  %-24s %s  %6d bytes\n", run.RunID, run.ModTime.Format("2006-01-02 15:04:05"), run.Size)
	}
	return nil
}

// doctorCommand reports configuration and environment checks.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("quicktask doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "QuickTask Doctor")
	fmt.Fprintln(stdout, "================")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintln(stdout, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "  (no config file, using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "  file: %s\n", f)
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(stdout, "  %-15s %-20s (%s)\n", field, cfg.Value(field), cws.Sources[field])
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ Valid")
	}
	fmt.Fprintln(stdout)

	scheme := cfg.ThemeScheme()
	fmt.Fprintf(stdout, "Theme: %s\n", scheme)
	if scheme == theme.SchemeAuto {
		fmt.Fprintf(stdout, "  Detected: %s\n", theme.Detect(scheme))
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Batch schema:")
	if _, err := batch.CompileSchema(); err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Terminal:")
	if ui.IsTTY(os.Stdout) {
		fmt.Fprintln(stdout, "  ✅ stdout is a TTY")
	} else {
		fmt.Fprintln(stdout, "  ⚠️  stdout is not a TTY (tui unavailable, batch still works)")
	}
	fmt.Fprintln(stdout)

	if !cfg.Journal {
		fmt.Fprintln(stdout, "Journal: disabled")
	} else {
		logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			fmt.Fprintf(stdout, "Journal directory: %s\n  ❌ Error: %v\n", cfg.LogDir, err)
			allOK = false
		} else {
			fmt.Fprintf(stdout, "Journal directory: %s\n", logDir)
			if info, err := os.Stat(logDir); err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first run)")
				} else {
					fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
					allOK = false
				}
			} else if !info.IsDir() {
				fmt.Fprintln(stdout, "  ❌ Error: path is not a directory")
				allOK = false
			} else {
				fmt.Fprintln(stdout, "  ✅ OK")
			}
		}
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. QuickTask may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// configCommand prints an example configuration file.
func configCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	fmt.Fprint(stdout, config.ExampleConfig())
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "quicktask version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "QuickTask - a small terminal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  quicktask [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui            Run the terminal UI (default command)")
	fmt.Fprintln(w, "  batch [file|-] Apply a JSONL script of add/toggle/delete/list operations")
	fmt.Fprintln(w, "  doctor         Check configuration and environment")
	fmt.Fprintln(w, "  tail           Print the latest journal")
	fmt.Fprintln(w, "  logs           List journals for this project")
	fmt.Fprintln(w, "  config         Print an example config file")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w, "  help           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch Options (use with 'batch' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (text|json) (default \"text\")")
	fmt.Fprintln(w, "  -strict")
	fmt.Fprintln(w, "        Stop at the first failing line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
