package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/quicktask-go/internal/task"
)

const (
	fieldTitle = iota
	fieldDescription
)

// form is the task creation form.
type form struct {
	title textinput.Model
	desc  textinput.Model
	focus int
	// err is the blocking banner shown after a failed submit.
	err string
}

func newForm() form {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = "Title: "
	title.CharLimit = 256
	title.Width = 50

	desc := textinput.New()
	desc.Placeholder = fmt.Sprintf("Description (max %d characters)", task.MaxDescriptionLength)
	desc.Prompt = "Description: "
	desc.CharLimit = 512
	desc.Width = 50

	return form{title: title, desc: desc}
}

// open clears the form and focuses the title field.
func (f *form) open() tea.Cmd {
	f.title.SetValue("")
	f.desc.SetValue("")
	f.err = ""
	f.focus = fieldTitle
	f.desc.Blur()
	return f.title.Focus()
}

func (f *form) close() {
	f.title.Blur()
	f.desc.Blur()
	f.err = ""
}

func (f *form) switchFocus() tea.Cmd {
	if f.focus == fieldTitle {
		f.focus = fieldDescription
		f.title.Blur()
		return f.desc.Focus()
	}
	f.focus = fieldTitle
	f.desc.Blur()
	return f.title.Focus()
}

// update forwards msg to the focused field.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return cmd
}

func (f *form) setWidth(width int) {
	w := width - 20
	if w < 20 {
		w = 20
	}
	f.title.Width = w
	f.desc.Width = w
}

func (f form) draft() task.Draft {
	return task.Draft{Title: f.title.Value(), Description: f.desc.Value()}
}

// remaining is how many description characters are left before the limit.
func (f form) remaining() int {
	return task.MaxDescriptionLength - task.DescriptionLength(f.desc.Value())
}
