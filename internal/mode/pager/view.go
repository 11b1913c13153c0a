package pager

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/glimpse/internal/ui/viewport"
)

// View renders the pager frame.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.state == stateHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	rows := 0

	lines := m.visibleDocLines()
	height := m.contentHeight()
	start, end := viewport.VisibleRange(m.scrollOffset, len(lines), height)
	for i := start; i < end; i++ {
		b.WriteString(m.th.Pad(m.renderLine(i, lines[i]), m.width))
		b.WriteString("\n")
		rows++
	}

	bottom := m.height
	if m.fileChanged {
		bottom--
	}
	if m.state == stateSearching {
		bottom--
	}
	for rows < bottom {
		b.WriteString(m.th.Pad("", m.width))
		b.WriteString("\n")
		rows++
	}

	if m.fileChanged {
		b.WriteString(m.renderBanner())
		b.WriteString("\n")
	}
	if m.state == stateSearching {
		b.WriteString(m.renderSearchBar())
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// renderBanner paints the file-changed advisory across the full width.
func (m Model) renderBanner() string {
	text := truncate.StringWithTail("  File changed on disk. Press r to reload.", uint(m.width), "…")
	if pad := m.width - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return m.th.Banner.Render(text)
}

// renderLine prefixes a document line with the gutter when line numbers
// are on. The gutter of a matched line uses the match style so search
// hits stay findable at a glance.
func (m Model) renderLine(i int, line string) string {
	if !m.showLineNumbers {
		return line
	}

	gutter := fmt.Sprintf("%4d ", i+1)
	style := m.th.Gutter
	if m.isMatch(i) {
		style = m.th.Match
	}
	return style.Render(gutter) + line
}

func (m Model) isMatch(i int) bool {
	if !m.hasSearch {
		return false
	}
	for _, line := range m.matches {
		if line == i {
			return true
		}
		if line > i {
			return false
		}
	}
	return false
}

func (m Model) renderSearchBar() string {
	text := truncate.StringWithTail("/"+m.searchInput+"█", uint(m.width), "…")
	if pad := m.width - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return m.th.SearchBar.Render(text)
}

// renderHelp draws the full-viewport key reference.
func (m Model) renderHelp() string {
	var rows []string
	rows = append(rows, m.th.HelpTitle.Render("Pager keys"), "")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			line := lipgloss.JoinHorizontal(lipgloss.Top,
				m.th.HelpKey.Width(14).Render(h.Key),
				m.th.HelpDesc.Render(h.Desc),
			)
			rows = append(rows, line)
		}
		rows = append(rows, "")
	}
	rows = append(rows, m.th.HelpDesc.Render("press any key to close"))

	body := strings.Join(rows, "\n")
	panel := m.th.HelpBorder.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel,
		lipgloss.WithWhitespaceBackground(m.th.Background))
}
