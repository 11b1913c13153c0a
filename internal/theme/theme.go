// Package theme maps a color scheme to a concrete palette.
//
// A Resolved value is immutable once constructed. Scheme changes produce a
// brand-new Resolved that is handed to every holder, so no component ever
// renders with a half-updated palette.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/glimpse/internal/log"
	"github.com/zjrosen/glimpse/internal/scheme"
)

// Resolved is the concrete palette for one scheme. All fields are read-only
// after construction; Resolve returns a fresh value on every call.
type Resolved struct {
	Name   string
	Scheme scheme.Scheme

	// GlamourStyle is the style name passed to the markdown renderer
	// ("dark", "light", or a named built-in).
	GlamourStyle string

	// ChromaStyle names the syntax highlighting theme used inside
	// fenced code blocks.
	ChromaStyle string

	// Background paints trailing space on every rendered line so a
	// narrower repaint leaves no stale cells. Fill is the ready-made
	// style for that padding.
	Background lipgloss.Color
	Fill       lipgloss.Style

	Gutter     lipgloss.Style
	Banner     lipgloss.Style
	SearchBar  lipgloss.Style
	Match      lipgloss.Style
	HelpTitle  lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
	HelpBorder lipgloss.Style
	Selected   lipgloss.Style
	Item       lipgloss.Style
	ItemMeta   lipgloss.Style
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
}

// palette is the raw color set a named theme provides per scheme.
type palette struct {
	background string
	surface    string
	accent     string
	text       string
	muted      string
	warn       string
	matchBg    string
	chroma     string
}

// Built-in themes. Each entry carries a dark and a light palette; Resolve
// picks by scheme.
var builtins = map[string]struct{ dark, light palette }{
	"default": {
		dark: palette{
			background: "#1A1B26", surface: "#24283B", accent: "#7AA2F7",
			text: "#C0CAF5", muted: "#565F89", warn: "#E0AF68",
			matchBg: "#3D59A1", chroma: "monokai",
		},
		light: palette{
			background: "#FAFAFA", surface: "#E9E9EC", accent: "#2E7DE9",
			text: "#3760BF", muted: "#848CB5", warn: "#8C6C3E",
			matchBg: "#B7C1E3", chroma: "github",
		},
	},
	"dracula": {
		dark: palette{
			background: "#282A36", surface: "#44475A", accent: "#BD93F9",
			text: "#F8F8F2", muted: "#6272A4", warn: "#FFB86C",
			matchBg: "#44475A", chroma: "dracula",
		},
		light: palette{
			background: "#F8F8F2", surface: "#E5E5E0", accent: "#6B47D9",
			text: "#282A36", muted: "#888888", warn: "#B06800",
			matchBg: "#D6CCF5", chroma: "github",
		},
	},
	"nord": {
		dark: palette{
			background: "#2E3440", surface: "#3B4252", accent: "#88C0D0",
			text: "#D8DEE9", muted: "#4C566A", warn: "#EBCB8B",
			matchBg: "#434C5E", chroma: "nord",
		},
		light: palette{
			background: "#ECEFF4", surface: "#E5E9F0", accent: "#5E81AC",
			text: "#2E3440", muted: "#7B88A1", warn: "#8C6C3E",
			matchBg: "#C2D0E7", chroma: "github",
		},
	},
}

// Resolve returns the palette for the named theme under the given scheme.
// Unknown names fall back to the built-in default; Resolve never fails.
func Resolve(name string, s scheme.Scheme) *Resolved {
	entry, ok := builtins[name]
	if !ok {
		if name != "" && name != "default" {
			log.Warn(log.CatTheme, "Unknown theme, falling back to default", "name", name)
		}
		name = "default"
		entry = builtins["default"]
	}

	p := entry.dark
	glamourStyle := "dark"
	if s == scheme.Light {
		p = entry.light
		glamourStyle = "light"
	}

	bg := lipgloss.Color(p.background)
	return &Resolved{
		Name:         name,
		Scheme:       s,
		GlamourStyle: glamourStyle,
		ChromaStyle:  p.chroma,
		Background:   bg,
		Fill:         lipgloss.NewStyle().Background(bg),

		Gutter:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)).Background(bg),
		Banner:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.background)).Background(lipgloss.Color(p.warn)).Bold(true),
		SearchBar:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)).Background(lipgloss.Color(p.surface)),
		Match:      lipgloss.NewStyle().Background(lipgloss.Color(p.matchBg)),
		HelpTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Bold(true),
		HelpKey:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		HelpDesc:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		HelpBorder: lipgloss.NewStyle().Foreground(lipgloss.Color(p.surface)),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Background(lipgloss.Color(p.surface)).Bold(true),
		Item:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		ItemMeta:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		StatusBar:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)).Background(lipgloss.Color(p.surface)),
		StatusKey:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Background(lipgloss.Color(p.surface)).Bold(true),
	}
}

// Pad extends line to width with background-painted spaces, so a frame
// narrower than the previous one still overwrites every cell.
func (r *Resolved) Pad(line string, width int) string {
	w := lipgloss.Width(line)
	if w >= width {
		return line
	}
	return line + r.Fill.Render(strings.Repeat(" ", width-w))
}

// Names lists the built-in theme names.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}
