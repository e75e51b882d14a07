package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nibzard/quicktask-go/internal/store"
	"github.com/nibzard/quicktask-go/internal/task"
)

func counterIDs() task.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newRunner(t *testing.T, opts Options) (*Runner, *store.Store) {
	t.Helper()
	s := store.New()
	t.Cleanup(s.Close)
	if opts.NewID == nil {
		opts.NewID = counterIDs()
	}
	r, err := NewRunner(s, opts)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r, s
}

func TestCompileSchema(t *testing.T) {
	if _, err := CompileSchema(); err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}
}

func TestRunTextScript(t *testing.T) {
	r, s := newRunner(t, Options{})

	script := `# groceries
{"op":"add","title":"Buy milk","description":"2 litres"}

{"op":"add","title":"Walk dog"}
{"op":"toggle","id":"t1"}
{"op":"toggle","id":"nope"}
{"op":"delete","id":"t2"}
{"op":"list"}
`
	var out bytes.Buffer
	summary, err := r.Run(context.Background(), strings.NewReader(script), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Lines != 6 || summary.Applied != 5 || summary.Noops != 1 || summary.Failed != 0 {
		t.Errorf("summary: got %+v", summary)
	}
	if summary.Err() != nil {
		t.Errorf("Err: got %v, want nil", summary.Err())
	}

	got := out.String()
	for _, want := range []string{
		`line 2: add ok t1 "Buy milk"`,
		`line 4: add ok t2 "Walk dog"`,
		`line 5: toggle ok t1 "Buy milk"`,
		`line 6: toggle noop`,
		`line 7: delete ok t2 "Walk dog"`,
		`line 8: list`,
		"Tasks (0)",
		"Completed (1)",
		"☑ Buy milk  [t1] - 2 litres",
		"6 ops: 5 applied, 1 noop, 0 failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "t1" || !tasks[0].Completed {
		t.Errorf("store: got %+v", tasks)
	}
}

func TestRunReportsBadLines(t *testing.T) {
	r, s := newRunner(t, Options{})

	script := strings.Join([]string{
		`{"op":"add"}`,
		`{"op":"rename","id":"x"}`,
		`{"op":"add","title":"x","extra":1}`,
		`{"op":"toggle"}`,
		`{not json`,
		`{"op":"add","title":""}`,
		`{"op":"add","title":"ok","description":"` + strings.Repeat("é", 101) + `"}`,
		`{"op":"add","title":"Survivor"}`,
	}, "\n")

	var out bytes.Buffer
	summary, err := r.Run(context.Background(), strings.NewReader(script), &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 7 || summary.Applied != 1 {
		t.Errorf("summary: got %+v", summary)
	}
	if summary.Err() == nil {
		t.Error("Err should report failures")
	}

	lines := strings.Split(out.String(), "\n")
	tests := []struct {
		line int
		want []string
	}{
		{1, []string{"line 1: error: schema", "title"}},
		{2, []string{"line 2: error: schema", "op"}},
		{3, []string{"line 3: error: schema", "extra"}},
		{4, []string{"line 4: error: schema", "id"}},
		{5, []string{"line 5: error: invalid JSON"}},
		{6, []string{"line 6: error: title: You must enter a title"}},
		{7, []string{"line 7: error: description: Description cannot exceed 100 characters"}},
		{8, []string{`line 8: add ok t1 "Survivor"`}},
	}
	for _, tt := range tests {
		got := lines[tt.line-1]
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("line %d: got %q, want it to contain %q", tt.line, got, w)
			}
		}
	}

	if s.Len() != 1 {
		t.Errorf("store should only hold the valid add, got %d", s.Len())
	}
}

func TestRunStrictStopsAtFirstFailure(t *testing.T) {
	r, s := newRunner(t, Options{Strict: true})

	script := `{"op":"add","title":"A"}
{"op":"add","title":""}
{"op":"add","title":"B"}
`
	var out bytes.Buffer
	summary, err := r.Run(context.Background(), strings.NewReader(script), &out)

	var le *LineError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LineError, got %v", err)
	}
	if le.Line != 2 {
		t.Errorf("line: got %d, want 2", le.Line)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error text: %q", err)
	}
	if summary.Applied != 1 || summary.Failed != 1 {
		t.Errorf("summary: got %+v", summary)
	}
	if s.Len() != 1 {
		t.Errorf("B should not have been added, store has %d", s.Len())
	}
}

func TestRunExplicitIDs(t *testing.T) {
	r, s := newRunner(t, Options{})

	script := `{"op":"add","id":"fixed","title":"First"}
{"op":"add","id":"fixed","title":"Second"}
{"op":"add","title":"Generated"}
`
	var out bytes.Buffer
	summary, err := r.Run(context.Background(), strings.NewReader(script), &out)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Applied != 2 || summary.Noops != 1 {
		t.Errorf("summary: got %+v", summary)
	}
	got, ok := s.Get("fixed")
	if !ok || got.Title != "First" {
		t.Errorf("fixed: got %+v", got)
	}
	if _, ok := s.Get("t1"); !ok {
		t.Error("generated id t1 missing")
	}
}

func TestRunDefaultIDsAreUUIDs(t *testing.T) {
	s := store.New()
	defer s.Close()
	r, err := NewRunner(s, Options{})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if _, err := r.Run(context.Background(), strings.NewReader(`{"op":"add","title":"A"}`), &out); err != nil {
		t.Fatal(err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || len(tasks[0].ID) != 36 {
		t.Errorf("expected one task with a UUID id, got %+v", tasks)
	}
}

func TestRunJSONFormat(t *testing.T) {
	r, _ := newRunner(t, Options{Format: FormatJSON})

	script := `{"op":"add","title":"A"}
{"op":"add","title":"B"}
{"op":"toggle","id":"t2"}
{"op":"delete","id":"zzz"}
{"op":"bogus"}
`
	var out bytes.Buffer
	summary, err := r.Run(context.Background(), strings.NewReader(script), &out)
	if err != nil {
		t.Fatal(err)
	}

	var results []Result
	var final Summary
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if bytes.Contains(raw, []byte(`"applied"`)) {
			if err := json.Unmarshal(raw, &final); err != nil {
				t.Fatal(err)
			}
			continue
		}
		var res Result
		if err := json.Unmarshal(raw, &res); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		results = append(results, res)
	}

	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	wantStatus := []string{StatusOK, StatusOK, StatusOK, StatusNoop, StatusError}
	for i, w := range wantStatus {
		if results[i].Status != w {
			t.Errorf("result %d status: got %q, want %q", i, results[i].Status, w)
		}
		if results[i].Line != i+1 {
			t.Errorf("result %d line: got %d", i, results[i].Line)
		}
	}
	if results[2].Task == nil || !results[2].Task.Completed {
		t.Errorf("toggle result should carry the completed task: %+v", results[2])
	}
	if results[4].Error == "" {
		t.Error("error result should carry a message")
	}

	if final.Failed != 1 || final.Groups == nil {
		t.Fatalf("final summary: got %+v", final)
	}
	if len(final.Groups.Active) != 1 || final.Groups.Active[0].ID != "t1" {
		t.Errorf("active: got %+v", final.Groups.Active)
	}
	if len(final.Groups.Completed) != 1 || final.Groups.Completed[0].ID != "t2" {
		t.Errorf("completed: got %+v", final.Groups.Completed)
	}
	if summary.Failed != final.Failed {
		t.Errorf("returned summary differs from printed one")
	}
}

func TestRunHonorsContext(t *testing.T) {
	r, s := newRunner(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := r.Run(ctx, strings.NewReader(`{"op":"add","title":"A"}`), &out)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("nothing should run after cancel")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRunnerNilStore(t *testing.T) {
	if _, err := NewRunner(nil, Options{}); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"#", ""},
		{"/op", "op"},
		{"#/groups/0/title", "groups[0].title"},
		{"/a~1b", "a/b"},
	}
	for _, tt := range tests {
		if got := jsonPointerToPath(tt.in); got != tt.want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
