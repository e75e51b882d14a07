package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/quicktask-go/internal/store"
	"github.com/nibzard/quicktask-go/internal/task"
	"github.com/nibzard/quicktask-go/internal/view"
)

const (
	appTitle        = "QuickTask"
	emptyText       = "No tasks"
	maxDescLines    = 3
	descIndent      = "      "
	deleteMarker    = "✕"
	ellipsis        = "…"
	minContentWidth = 20
)

func (m *Model) View() string {
	var b strings.Builder
	m.writeHeader(&b)

	if m.mode == modeForm {
		m.writeForm(&b)
		return b.String()
	}

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	m.writeList(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *Model) writeHeader(b *strings.Builder) {
	b.WriteString(m.styles.Header.Render(appTitle))
	b.WriteString(fmt.Sprintf("  %d open, %d done\n\n", len(m.groups.Active), len(m.groups.Completed)))
}

func (m *Model) writeList(b *strings.Builder) {
	if len(m.rows) == 0 {
		b.WriteString("  " + emptyText + "\n\n")
		return
	}

	row := 0
	for _, sec := range m.groups.Sections() {
		b.WriteString(m.styles.SectionHeader.Render(sec.Title))
		b.WriteString("\n")
		for _, t := range sec.Tasks {
			b.WriteString(m.renderRow(t, row == m.cursor))
			row++
		}
		b.WriteString("\n")
	}
}

func (m *Model) renderRow(t task.Task, selected bool) string {
	cursor := "  "
	if selected {
		cursor = m.styles.Cursor.Render("> ")
	}

	_, fading := m.fading[t.ID]
	titleStyle := m.styles.Title
	if t.Completed || fading {
		titleStyle = m.styles.Dimmed
	}

	line := fmt.Sprintf("%s%s %s %s\n",
		cursor,
		m.styles.Checkbox.Render(view.Checkbox(t.Completed)),
		titleStyle.Render(t.Title),
		m.styles.Delete.Render(deleteMarker),
	)

	if t.Description == "" {
		return line
	}
	descStyle := m.styles.Description
	if t.Completed || fading {
		descStyle = m.styles.Dimmed.Italic(true)
	}
	for _, l := range truncateLines(t.Description, m.contentWidth(), maxDescLines) {
		line += descIndent + descStyle.Render(l) + "\n"
	}
	return line
}

func (m *Model) contentWidth() int {
	w := m.width - len(descIndent) - 2
	if w < minContentWidth {
		return minContentWidth
	}
	return w
}

// truncateLines wraps s to width and keeps at most maxLines lines, marking a
// cut with an ellipsis.
func truncateLines(s string, width, maxLines int) []string {
	wrapped := lipgloss.NewStyle().Width(width).Render(s)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last) >= width {
		last = last[:width-1]
	}
	lines[maxLines-1] = string(last) + ellipsis
	return lines
}

func (m *Model) writeForm(b *strings.Builder) {
	b.WriteString(m.styles.SectionHeader.Render("New task"))
	b.WriteString("\n\n")
	b.WriteString(m.form.title.View() + "\n")
	b.WriteString(m.form.desc.View() + "\n")

	remaining := m.form.remaining()
	counter := fmt.Sprintf("%d characters left", remaining)
	if remaining < 0 {
		b.WriteString("  " + m.styles.Error.Render(counter) + "\n\n")
	} else {
		b.WriteString("  " + m.styles.Help.Render(counter) + "\n\n")
	}

	if m.form.err != "" {
		b.WriteString(m.styles.Error.Render("Error: "+m.form.err) + "\n")
		b.WriteString(m.styles.Help.Render("Press enter to dismiss") + "\n")
		return
	}
	b.WriteString(m.styles.Help.Render("tab switch field | enter add | esc cancel") + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up, k          Move up\n")
	b.WriteString("  down, j        Move down\n")
	b.WriteString("  space, enter   Toggle completed\n")
	b.WriteString("  d, x           Delete task\n")
	b.WriteString("  a, n           Add task\n")
	b.WriteString("  ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
}

func (m *Model) writeFooter(b *strings.Builder) {
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.styles.Help.Render("a add | space toggle | d delete | ? help | q quit"))
	b.WriteString("\n")
}

// Snapshot returns the snapshot currently on screen.
func (m *Model) Snapshot() store.Snapshot {
	return m.snap
}
