// Package batch drives a store from a JSON Lines script.
//
// Each non-blank line that does not start with # is one operation:
//
//	{"op":"add","title":"Buy milk","description":"2 litres"}
//	{"op":"toggle","id":"3f6c..."}
//	{"op":"delete","id":"3f6c..."}
//	{"op":"list"}
//
// Records are checked against an embedded JSON Schema before they run.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/quicktask-go/internal/store"
	"github.com/nibzard/quicktask-go/internal/task"
	"github.com/nibzard/quicktask-go/internal/view"
)

// Operation names.
const (
	OpAdd    = "add"
	OpToggle = "toggle"
	OpDelete = "delete"
	OpList   = "list"
)

// Result statuses.
const (
	StatusOK    = "ok"
	StatusNoop  = "noop"
	StatusError = "error"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name; empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected text|json)", s)
	}
}

// Op is one decoded script record.
type Op struct {
	Op          string `json:"op"`
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Groups is the JSON form of the two task sections.
type Groups struct {
	Active    []task.Task `json:"active"`
	Completed []task.Task `json:"completed"`
}

func groupsOf(snap store.Snapshot) *Groups {
	g := view.Partition(snap.Tasks())
	return &Groups{Active: g.Active, Completed: g.Completed}
}

// Result reports the outcome of one line.
type Result struct {
	Line   int        `json:"line"`
	Op     string     `json:"op,omitempty"`
	Status string     `json:"status"`
	Task   *task.Task `json:"task,omitempty"`
	Groups *Groups    `json:"groups,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// Summary totals a run.
type Summary struct {
	Lines   int     `json:"lines"`
	Applied int     `json:"applied"`
	Noops   int     `json:"noops"`
	Failed  int     `json:"failed"`
	Groups  *Groups `json:"groups"`
}

// Err returns an error when any line failed.
func (s *Summary) Err() error {
	if s == nil || s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d operations failed", s.Failed, s.Lines)
}

// LineError ties a failure to its input line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Options configures a Runner.
type Options struct {
	Format Format
	// Strict stops the run at the first failing line.
	Strict bool
	// NewID generates ids for adds that do not carry one. Nil means UUIDs.
	NewID task.IDGenerator
	// Logger receives debug output per operation. Nil disables it.
	Logger *log.Logger
}

// Runner applies scripts to a store.
type Runner struct {
	store  *store.Store
	schema *jsonschema.Schema
	opts   Options
}

// NewRunner compiles the operation schema and binds it to s.
func NewRunner(s *store.Store, opts Options) (*Runner, error) {
	if s == nil {
		return nil, errors.New("batch: nil store")
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	schema, err := CompileSchema()
	if err != nil {
		return nil, err
	}
	return &Runner{store: s, schema: schema, opts: opts}, nil
}

// Run executes every operation in in, writing results to out. Failing lines
// are counted in the summary; in strict mode the first one also stops the
// run and is returned as a *LineError. Read and write failures are returned
// as errors.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (*Summary, error) {
	summary := &Summary{}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		summary.Lines++
		res := r.apply(lineNo, []byte(line))
		switch res.Status {
		case StatusOK:
			summary.Applied++
		case StatusNoop:
			summary.Noops++
		case StatusError:
			summary.Failed++
		}

		if err := r.writeResult(out, res); err != nil {
			return summary, fmt.Errorf("write result: %w", err)
		}

		if res.Status == StatusError && r.opts.Strict {
			summary.Groups = groupsOf(r.store.Snapshot())
			return summary, &LineError{Line: lineNo, Err: errors.New(res.Error)}
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read batch input: %w", err)
	}

	summary.Groups = groupsOf(r.store.Snapshot())
	if err := r.writeSummary(out, summary); err != nil {
		return summary, fmt.Errorf("write summary: %w", err)
	}
	return summary, nil
}

func (r *Runner) apply(lineNo int, raw []byte) Result {
	res := Result{Line: lineNo}

	op, err := r.decode(raw)
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		r.debug("batch line rejected", "line", lineNo, "err", err)
		return res
	}
	res.Op = op.Op

	switch op.Op {
	case OpAdd:
		gen := r.opts.NewID
		if op.ID != "" {
			id := op.ID
			gen = func() string { return id }
		}
		t, err := task.NewWithID(task.Draft{Title: op.Title, Description: op.Description}, gen)
		if err != nil {
			res.Status = StatusError
			res.Error = err.Error()
			break
		}
		res.Task = &t
		res.Status = status(r.store.AddTask(t))

	case OpToggle:
		res.Status = status(r.store.UpdateTask(task.Task{ID: op.ID}))
		if t, ok := r.store.Get(op.ID); ok {
			res.Task = &t
		}

	case OpDelete:
		if t, ok := r.store.Get(op.ID); ok {
			res.Task = &t
		}
		res.Status = status(r.store.DeleteTask(task.Task{ID: op.ID}))

	case OpList:
		res.Status = StatusOK
		res.Groups = groupsOf(r.store.Snapshot())
	}

	r.debug("batch op", "line", lineNo, "op", res.Op, "status", res.Status)
	return res
}

// decode parses raw, validates it against the schema and converts it to an Op.
func (r *Runner) decode(raw []byte) (Op, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Op{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return Op{}, schemaError(err)
	}
	var op Op
	if err := json.Unmarshal(raw, &op); err != nil {
		return Op{}, fmt.Errorf("decode operation: %w", err)
	}
	return op, nil
}

func (r *Runner) debug(msg string, keyvals ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Debug(msg, keyvals...)
	}
}

func status(changed bool) string {
	if changed {
		return StatusOK
	}
	return StatusNoop
}

func (r *Runner) writeResult(out io.Writer, res Result) error {
	if r.opts.Format == FormatJSON {
		return json.NewEncoder(out).Encode(res)
	}

	switch {
	case res.Status == StatusError:
		_, err := fmt.Fprintf(out, "line %d: error: %s\n", res.Line, res.Error)
		return err
	case res.Op == OpList:
		if _, err := fmt.Fprintf(out, "line %d: list\n", res.Line); err != nil {
			return err
		}
		return writeSections(out, res.Groups)
	case res.Task != nil:
		_, err := fmt.Fprintf(out, "line %d: %s %s %s %q\n", res.Line, res.Op, res.Status, res.Task.ID, res.Task.Title)
		return err
	default:
		_, err := fmt.Fprintf(out, "line %d: %s %s\n", res.Line, res.Op, res.Status)
		return err
	}
}

func (r *Runner) writeSummary(out io.Writer, s *Summary) error {
	if r.opts.Format == FormatJSON {
		return json.NewEncoder(out).Encode(s)
	}
	if _, err := fmt.Fprintf(out, "%d ops: %d applied, %d noop, %d failed\n", s.Lines, s.Applied, s.Noops, s.Failed); err != nil {
		return err
	}
	return writeSections(out, s.Groups)
}

func writeSections(out io.Writer, g *Groups) error {
	groups := view.Groups{Active: g.Active, Completed: g.Completed}
	for _, sec := range groups.Sections() {
		if _, err := fmt.Fprintf(out, "%s (%d)\n", sec.Title, len(sec.Tasks)); err != nil {
			return err
		}
		for _, t := range sec.Tasks {
			line := fmt.Sprintf("  %s %s  [%s]", view.Checkbox(t.Completed), t.Title, t.ID)
			if t.Description != "" {
				line += " - " + t.Description
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}
	return nil
}
