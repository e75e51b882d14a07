// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/quicktask-go/internal/config"
	"github.com/nibzard/quicktask-go/internal/store"
	"github.com/nibzard/quicktask-go/internal/task"
	"github.com/nibzard/quicktask-go/internal/theme"
	"github.com/nibzard/quicktask-go/internal/view"
)

// RunTUI runs the task list UI against s until the user quits or ctx ends.
// The caller checks IsTTY first and must keep logger off the terminal.
func RunTUI(ctx context.Context, cfg *config.Config, s *store.Store, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scheme := theme.Detect(cfg.ThemeScheme())
	model := NewModel(s, Options{
		Theme:     theme.Lookup(scheme),
		FadeDelay: cfg.FadeDuration(),
		Logger:    logger,
		Snapshots: s.Watch(ctx),
	})
	if logger != nil {
		logger.Debug("starting tui", "theme", scheme, "fade", cfg.FadeDuration())
	}
	return runProgram(ctx, model)
}

func runProgram(ctx context.Context, model *Model) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return ctx.Err()
}

// Options configures a Model.
type Options struct {
	Theme theme.Theme
	// FadeDelay postpones toggle and delete commits. Zero commits at once.
	FadeDelay time.Duration
	// NewID generates ids for tasks created in the form. Nil means UUIDs.
	NewID  task.IDGenerator
	Logger *log.Logger
	// Snapshots, when set, is drained to keep the list current.
	Snapshots <-chan store.Snapshot
}

type mode int

const (
	modeList mode = iota
	modeForm
)

// Model is the bubbletea model for the task list and creation form.
type Model struct {
	store     *store.Store
	snaps     <-chan store.Snapshot
	snap      store.Snapshot
	groups    view.Groups
	rows      []task.Task
	cursor    int
	fadeDelay time.Duration
	fading    map[string]store.Kind
	newID     task.IDGenerator
	styles    theme.Styles
	logger    *log.Logger
	mode      mode
	form      form
	showHelp  bool
	status    string
	width     int
}

type snapshotMsg struct {
	snap store.Snapshot
}

type snapshotsClosedMsg struct{}

// commitMsg fires when a row's fade has finished.
type commitMsg struct {
	id   string
	kind store.Kind
}

// NewModel builds a model showing the current contents of s.
func NewModel(s *store.Store, opts Options) *Model {
	styles := opts.Theme.Styles()
	m := &Model{
		store:     s,
		snaps:     opts.Snapshots,
		fadeDelay: opts.FadeDelay,
		fading:    make(map[string]store.Kind),
		newID:     opts.NewID,
		styles:    styles,
		logger:    opts.Logger,
		form:      newForm(),
		width:     80,
	}
	m.setSnapshot(s.Snapshot())
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.snaps == nil {
		return nil
	}
	return waitForSnapshot(m.snaps)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeForm {
			return m, m.updateForm(msg)
		}
		return m, m.updateList(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.form.setWidth(msg.Width)
		return m, nil
	case snapshotMsg:
		m.setSnapshot(msg.snap)
		return m, waitForSnapshot(m.snaps)
	case snapshotsClosedMsg:
		m.snaps = nil
		return m, nil
	case commitMsg:
		m.commit(msg.id, msg.kind)
		return m, nil
	}

	if m.mode == modeForm {
		return m, m.form.update(msg)
	}
	return m, nil
}

func waitForSnapshot(ch <-chan store.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return snapshotsClosedMsg{}
		}
		return snapshotMsg{snap: snap}
	}
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case " ", "space", "enter":
		if t, ok := m.selected(); ok {
			return m.startFade(t.ID, store.KindToggle)
		}
	case "d", "x":
		if t, ok := m.selected(); ok {
			return m.startFade(t.ID, store.KindDelete)
		}
	case "a", "n":
		m.mode = modeForm
		m.showHelp = false
		m.status = ""
		return m.form.open()
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	if m.form.err != "" {
		switch msg.String() {
		case "enter", "esc", " ", "space":
			m.form.err = ""
		case "ctrl+c":
			return tea.Quit
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.form.close()
		m.mode = modeList
		m.status = "Cancelled"
		return nil
	case "tab", "shift+tab", "up", "down":
		return m.form.switchFocus()
	case "enter":
		m.submit()
		return nil
	}
	return m.form.update(msg)
}

// submit validates the form and adds the task. Invalid input keeps the form
// open behind an error banner and never reaches the store.
func (m *Model) submit() {
	t, err := task.NewWithID(m.form.draft(), m.newID)
	if err != nil {
		var ve *task.ValidationError
		if errors.As(err, &ve) {
			m.form.err = ve.Message
		} else {
			m.form.err = err.Error()
		}
		return
	}

	if !m.store.AddTask(t) {
		m.form.err = "A task with this id already exists"
		return
	}
	m.debug("task added", "task_id", t.ID, "title", t.Title)

	m.form.close()
	m.mode = modeList
	m.status = "Added task"
	m.setSnapshot(m.store.Snapshot())
	m.moveCursorTo(t.ID)
}

func (m *Model) startFade(id string, kind store.Kind) tea.Cmd {
	if _, busy := m.fading[id]; busy {
		return nil
	}
	if m.fadeDelay <= 0 {
		m.commit(id, kind)
		return nil
	}
	m.fading[id] = kind
	return tea.Tick(m.fadeDelay, func(time.Time) tea.Msg {
		return commitMsg{id: id, kind: kind}
	})
}

// commit applies a faded toggle or delete. Rows that vanished meanwhile are
// ignored.
func (m *Model) commit(id string, kind store.Kind) {
	delete(m.fading, id)

	current, ok := m.store.Get(id)
	if !ok {
		return
	}

	var changed bool
	switch kind {
	case store.KindToggle:
		flipped := current
		flipped.Completed = !current.Completed
		changed = m.store.UpdateTask(flipped)
	case store.KindDelete:
		changed = m.store.DeleteTask(current)
	}
	if changed {
		m.debug("task changed", "kind", kind, "task_id", id)
	}
	m.setSnapshot(m.store.Snapshot())
}

// setSnapshot re-derives the sections and keeps the cursor on the same task
// when it is still present.
func (m *Model) setSnapshot(snap store.Snapshot) {
	if snap.Version() < m.snap.Version() {
		return
	}
	selected, hadSelection := m.selected()

	m.snap = snap
	m.groups = view.Partition(snap.Tasks())
	m.rows = m.groups.Rows()

	for id := range m.fading {
		if _, ok := snap.Get(id); !ok {
			delete(m.fading, id)
		}
	}

	if hadSelection && m.moveCursorTo(selected.ID) {
		return
	}
	m.clampCursor()
}

func (m *Model) moveCursorTo(id string) bool {
	for i, t := range m.rows {
		if t.ID == id {
			m.cursor = i
			return true
		}
	}
	return false
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return task.Task{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) debug(msg string, keyvals ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, keyvals...)
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
