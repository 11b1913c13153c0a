// Package statusbar renders the single-line footer shared by both
// sessions.
package statusbar

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/glimpse/internal/theme"
)

// Bar describes one frame of the footer. Left names the document or
// directory, Right holds compact state indicators joined by separators.
type Bar struct {
	Left  string
	Right []string
}

const separator = "  ·  "

// Render lays the bar out across width columns. The left segment is
// truncated first so the state indicators stay visible on narrow
// terminals.
func (b Bar) Render(th *theme.Resolved, width int) string {
	if width <= 0 {
		return ""
	}

	// Segments are plain text here; styling is applied to the whole line
	// at the end, so display width can be measured directly.
	right := strings.Join(b.Right, separator)
	if runewidth.StringWidth(right) > width {
		right = truncate.StringWithTail(right, uint(width), "…")
	}

	avail := width - runewidth.StringWidth(right)
	left := " " + b.Left
	if avail > 0 {
		left = truncate.StringWithTail(left, uint(avail), "…")
	} else {
		left = ""
	}

	pad := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if pad < 0 {
		pad = 0
	}

	line := left + strings.Repeat(" ", pad) + right
	return th.StatusBar.Render(line)
}
