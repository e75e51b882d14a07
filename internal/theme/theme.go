// Package theme maps the terminal color scheme to a palette and styles.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Scheme is a color scheme name.
type Scheme string

const (
	SchemeAuto  Scheme = "auto"
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
)

// Colors holds the palette entries used by the UI.
type Colors struct {
	Background string
	Text       string
	Checkbox   string
}

// Theme is a named palette.
type Theme struct {
	Scheme Scheme
	Colors Colors
}

var (
	light = Theme{
		Scheme: SchemeLight,
		Colors: Colors{Background: "#ffffff", Text: "#000000", Checkbox: "#000000"},
	}
	dark = Theme{
		Scheme: SchemeDark,
		Colors: Colors{Background: "#25292e", Text: "#ffffff", Checkbox: "#ffffff"},
	}
)

// ParseScheme parses auto, light, or dark (case-insensitive).
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeAuto:
		return SchemeAuto, nil
	case SchemeLight:
		return SchemeLight, nil
	case SchemeDark:
		return SchemeDark, nil
	default:
		return "", fmt.Errorf("invalid theme %q (expected auto|light|dark)", s)
	}
}

// Lookup returns the palette for scheme. Anything other than dark gets the
// light palette.
func Lookup(scheme Scheme) Theme {
	if scheme == SchemeDark {
		return dark
	}
	return light
}

// Detect resolves auto to light or dark from the terminal background.
func Detect(scheme Scheme) Scheme {
	return resolve(scheme, lipgloss.HasDarkBackground)
}

func resolve(scheme Scheme, hasDark func() bool) Scheme {
	if scheme != SchemeAuto && scheme != "" {
		return scheme
	}
	if hasDark() {
		return SchemeDark
	}
	return SchemeLight
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Header        lipgloss.Style
	SectionHeader lipgloss.Style
	Title         lipgloss.Style
	Description   lipgloss.Style
	Checkbox      lipgloss.Style
	Delete        lipgloss.Style
	Dimmed        lipgloss.Style
	Cursor        lipgloss.Style
	Error         lipgloss.Style
	Help          lipgloss.Style
}

// Styles builds the UI styles for t.
func (t Theme) Styles() Styles {
	text := lipgloss.Color(t.Colors.Text)
	bg := lipgloss.Color(t.Colors.Background)
	return Styles{
		Header:        lipgloss.NewStyle().Bold(true).Foreground(text).Background(bg).Padding(0, 1),
		SectionHeader: lipgloss.NewStyle().Bold(true).Foreground(text).Underline(true),
		Title:         lipgloss.NewStyle().Foreground(text),
		Description:   lipgloss.NewStyle().Italic(true).Foreground(text),
		Checkbox:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Checkbox)),
		Delete:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Dimmed:        lipgloss.NewStyle().Faint(true),
		Cursor:        lipgloss.NewStyle().Bold(true).Foreground(text),
		Error:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Help:          lipgloss.NewStyle().Faint(true),
	}
}
