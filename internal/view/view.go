// Package view derives display groupings from a task collection.
package view

import "github.com/nibzard/quicktask-go/internal/task"

// Section titles, in display order.
const (
	ActiveTitle    = "Tasks"
	CompletedTitle = "Completed"
)

// Checkbox glyphs.
const (
	CheckboxOpen = "☐"
	CheckboxDone = "☑"
)

// Checkbox returns the glyph for a task's completion state.
func Checkbox(completed bool) string {
	if completed {
		return CheckboxDone
	}
	return CheckboxOpen
}

// Groups splits a collection into incomplete and complete tasks. Both keep
// the collection's relative order.
type Groups struct {
	Active    []task.Task
	Completed []task.Task
}

// Section is a titled run of tasks for display.
type Section struct {
	Title string
	Tasks []task.Task
}

// Partition derives Groups from tasks. It never modifies its input.
func Partition(tasks []task.Task) Groups {
	g := Groups{
		Active:    make([]task.Task, 0, len(tasks)),
		Completed: make([]task.Task, 0),
	}
	for _, t := range tasks {
		if t.Completed {
			g.Completed = append(g.Completed, t)
			continue
		}
		g.Active = append(g.Active, t)
	}
	return g
}

// Len returns the total number of tasks across both groups.
func (g Groups) Len() int {
	return len(g.Active) + len(g.Completed)
}

// Sections returns the active section followed by the completed one.
func (g Groups) Sections() []Section {
	return []Section{
		{Title: ActiveTitle, Tasks: g.Active},
		{Title: CompletedTitle, Tasks: g.Completed},
	}
}

// Rows flattens the sections into display order, which is the order a cursor
// walks them.
func (g Groups) Rows() []task.Task {
	rows := make([]task.Task, 0, g.Len())
	rows = append(rows, g.Active...)
	rows = append(rows, g.Completed...)
	return rows
}
