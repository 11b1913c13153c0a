package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const timeLayout = "2006-01-02 15:04"

// View renders the browser frame.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.state == stateHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	visible := m.visibleItems()
	end := m.scrollOffset + visible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	rows := 1
	if len(m.filtered) == 0 {
		b.WriteString(m.th.Pad(m.th.ItemMeta.Render("  No markdown files found."), m.width))
		b.WriteString("\n")
		rows++
	} else {
		for i := m.scrollOffset; i < end; i++ {
			b.WriteString(m.renderItem(i))
			rows += itemHeight
		}
	}

	if m.state == stateFiltering || m.filterQuery != "" {
		for rows < m.height-1 {
			b.WriteString(m.th.Pad("", m.width))
			b.WriteString("\n")
			rows++
		}
		b.WriteString(m.renderFilterLine())
	} else {
		for rows < m.height {
			b.WriteString(m.th.Pad("", m.width))
			b.WriteString("\n")
			rows++
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderHeader() string {
	dir := "↑"
	if m.ascending {
		dir = "↓"
	}
	count := fmt.Sprintf("%d files", len(m.filtered))
	if m.filterQuery != "" {
		count = fmt.Sprintf("%d/%d files", len(m.filtered), len(m.entries))
	}
	header := truncate.StringWithTail(fmt.Sprintf("  %s  ·  %s  ·  sort: %s %s", m.root, count, m.sortKey, dir), uint(m.width), "…")
	if pad := m.width - lipgloss.Width(header); pad > 0 {
		header += strings.Repeat(" ", pad)
	}
	return m.th.Banner.Render(header)
}

func (m Model) renderItem(i int) string {
	e := m.filtered[i]

	marker := "  "
	pathStyle := m.th.Item
	if i == m.cursor {
		marker = "▸ "
		pathStyle = m.th.Selected
	}

	path := truncate.StringWithTail(e.RelativePath, uint(max(m.width-4, 1)), "…")

	created := "—"
	if e.CreatedValid() {
		created = e.CreatedAt.Format(timeLayout)
	}
	meta := fmt.Sprintf("    updated %s  created %s", e.UpdatedAt.Format(timeLayout), created)
	meta = truncate.StringWithTail(meta, uint(m.width), "…")

	return m.th.Pad(marker+pathStyle.Render(path), m.width) + "\n" +
		m.th.Pad(m.th.ItemMeta.Render(meta), m.width) + "\n"
}

func (m Model) renderFilterLine() string {
	prompt := "filter: " + m.filterQuery
	if m.state == stateFiltering {
		prompt += "█"
	}
	prompt = truncate.StringWithTail(prompt, uint(m.width), "…")
	if pad := m.width - lipgloss.Width(prompt); pad > 0 {
		prompt += strings.Repeat(" ", pad)
	}
	return m.th.SearchBar.Render(prompt)
}

// renderHelp draws the full-viewport key reference.
func (m Model) renderHelp() string {
	var rows []string
	rows = append(rows, m.th.HelpTitle.Render("Browser keys"), "")
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
