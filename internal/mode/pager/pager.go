// Package pager contains the markdown reading session.
package pager

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/glimpse/internal/content"
	"github.com/zjrosen/glimpse/internal/keys"
	"github.com/zjrosen/glimpse/internal/log"
	"github.com/zjrosen/glimpse/internal/mode"
	"github.com/zjrosen/glimpse/internal/scheme"
	"github.com/zjrosen/glimpse/internal/theme"
	"github.com/zjrosen/glimpse/internal/ui/viewport"
)

// sessionState is the pager's input mode.
type sessionState int

const (
	stateNormal sessionState = iota
	stateSearching
	stateHelp
)

// gutterWidth is the fixed width of the line-number column.
const gutterWidth = 5

// EditRequestMsg asks the orchestrator to run the external editor on the
// current document, positioned at Line (1-based; 0 means no position).
type EditRequestMsg struct {
	Line int
}

// ReloadRequestMsg asks the orchestrator to re-read the document.
type ReloadRequestMsg struct{}

// QuitMsg asks the orchestrator to leave the pager.
type QuitMsg struct{}

// SuspendMsg asks the orchestrator to suspend the process.
type SuspendMsg struct{}

// FileChangedMsg marks the on-disk document as newer than the buffer.
type FileChangedMsg struct{}

// Model is the pager session state.
type Model struct {
	doc *content.Content
	th  *theme.Resolved

	width  int
	height int

	scrollOffset int
	state        sessionState

	searchInput string
	matches     []int
	matchIndex  int
	hasSearch   bool

	fileChanged     bool
	showLineNumbers bool

	keys keys.PagerKeyMap
}

// New creates a pager over doc.
func New(doc *content.Content, th *theme.Resolved) Model {
	return Model{
		doc:  doc,
		th:   th,
		keys: keys.DefaultPagerKeyMap(),
	}
}

// WithLineNumbers enables the line-number gutter at startup.
func (m Model) WithLineNumbers(on bool) Model {
	m.showLineNumbers = on
	return m
}

// Init has no startup commands; the document is rendered lazily on View.
func (m Model) Init() tea.Cmd { return nil }

// SetSize handles terminal resize events. The scroll offset is clamped so
// a shrink never strands the view past the end of the document.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.scrollOffset = viewport.ClampOffset(m.scrollOffset, m.totalLines(), m.contentHeight())
	return m
}

// SetContent swaps in a reloaded document. Scroll position is preserved
// where possible and the change banner is cleared.
func (m Model) SetContent(doc *content.Content) Model {
	m.doc = doc
	m.fileChanged = false
	m.matches = nil
	m.hasSearch = false
	m.scrollOffset = viewport.ClampOffset(m.scrollOffset, m.totalLines(), m.contentHeight())
	return m
}

// SetTheme swaps in a new palette and invalidates the rendered document so
// the next frame re-renders with the new style.
func (m Model) SetTheme(th *theme.Resolved) Model {
	m.th = th
	return m
}

// Doc returns the document under view.
func (m Model) Doc() *content.Content { return m.doc }

// ScrollPercent reports vertical progress for the status bar.
func (m Model) ScrollPercent() int {
	return viewport.ScrollPercent(m.scrollOffset, m.totalLines(), m.contentHeight())
}

// SearchStatus reports the active match position, 1-based, for the
// status bar.
func (m Model) SearchStatus() (current, total int, active bool) {
	if !m.hasSearch {
		return 0, 0, false
	}
	if len(m.matches) == 0 {
		return 0, 0, true
	}
	return m.matchIndex + 1, len(m.matches), true
}

// HelpVisible reports whether the help overlay is showing.
func (m Model) HelpVisible() bool { return m.state == stateHelp }

// FileChanged reports whether the on-disk file is newer than the buffer.
func (m Model) FileChanged() bool { return m.fileChanged }

// LineNumbers reports whether the gutter is showing.
func (m Model) LineNumbers() bool { return m.showLineNumbers }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FileChangedMsg:
		m.fileChanged = true
		m.scrollOffset = viewport.ClampOffset(m.scrollOffset, m.totalLines(), m.contentHeight())
		return m, nil

	case tea.KeyMsg:
		// Terminal theme notifications ride the key stream and outrank
		// any mode-specific handling.
		if msg.Type == tea.KeyRunes {
			if s, parsed := scheme.ParseNotification(msg.Runes); parsed {
				log.Debug(log.CatPager, "Theme notification decoded", "scheme", s)
				return m, func() tea.Msg { return mode.SchemeChangedMsg{Scheme: s} }
			}
		}

		switch m.state {
		case stateHelp:
			// Any key closes the overlay without performing its action.
			m.state = stateNormal
			return m, nil
		case stateSearching:
			return m.updateSearching(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(viewport.PageSize(m.contentHeight()))
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-viewport.PageSize(m.contentHeight()))
	case key.Matches(msg, m.keys.HalfDown):
		m.scrollBy(viewport.HalfPage(m.contentHeight()))
	case key.Matches(msg, m.keys.HalfUp):
		m.scrollBy(-viewport.HalfPage(m.contentHeight()))
	case key.Matches(msg, m.keys.Top):
		m.scrollOffset = 0
	case key.Matches(msg, m.keys.Bottom):
		m.scrollOffset = viewport.MaxOffset(m.totalLines(), m.contentHeight())

	case key.Matches(msg, m.keys.Search):
		m.state = stateSearching
		m.searchInput = ""

	case key.Matches(msg, m.keys.NextMatch):
		m.jumpToMatch(1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.jumpToMatch(-1)

	case key.Matches(msg, m.keys.Edit):
		line := m.scrollOffset + 1
		return m, func() tea.Msg { return EditRequestMsg{Line: line} }

	case key.Matches(msg, m.keys.Reload):
		return m, func() tea.Msg { return ReloadRequestMsg{} }

	case key.Matches(msg, m.keys.Numbers):
		m.showLineNumbers = !m.showLineNumbers
		m.scrollOffset = viewport.ClampOffset(m.scrollOffset, m.totalLines(), m.contentHeight())

	case key.Matches(msg, m.keys.Help):
		m.state = stateHelp

	case key.Matches(msg, m.keys.Suspend):
		return m, func() tea.Msg { return SuspendMsg{} }

	case key.Matches(msg, m.keys.Quit):
		return m, func() tea.Msg { return QuitMsg{} }
	}
	return m, nil
}

func (m Model) updateSearching(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape, tea.KeyCtrlC:
		// Cancel: no active search remains.
		m.state = stateNormal
		m.searchInput = ""
		m.matches = nil
		m.hasSearch = false
	case tea.KeyEnter:
		m.state = stateNormal
		m.runSearch()
	case tea.KeyBackspace:
		if m.searchInput != "" {
			runes := []rune(m.searchInput)
			m.searchInput = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.searchInput += " "
	case tea.KeyRunes:
		m.searchInput += string(msg.Runes)
	}
	return m, nil
}

// runSearch computes matches for the pending query and jumps to the first
// match at or after the current position.
func (m *Model) runSearch() {
	if m.searchInput == "" {
		m.matches = nil
		m.hasSearch = false
		return
	}

	m.hasSearch = true
	m.matches = FindMatches(m.visibleDocLines(), m.searchInput)
	log.Debug(log.CatPager, "Search complete", "query", m.searchInput, "matches", len(m.matches))
	if len(m.matches) == 0 {
		return
	}

	m.matchIndex = 0
	for i, line := range m.matches {
		if line >= m.scrollOffset {
			m.matchIndex = i
			break
		}
	}
	m.centerOnMatch()
}

// jumpToMatch moves to the next or previous match, wrapping circularly.
func (m *Model) jumpToMatch(direction int) {
	if !m.hasSearch || len(m.matches) == 0 {
		return
	}
	n := len(m.matches)
	m.matchIndex = ((m.matchIndex+direction)%n + n) % n
	m.centerOnMatch()
}

func (m *Model) centerOnMatch() {
	line := m.matches[m.matchIndex]
	m.scrollOffset = viewport.CenteredOffset(line, m.totalLines(), m.contentHeight())
}

func (m *Model) scrollBy(delta int) {
	m.scrollOffset = viewport.ClampOffset(m.scrollOffset+delta, m.totalLines(), m.contentHeight())
}

// contentHeight is the rows available to document lines after the change
// banner and, while searching, the input line.
func (m Model) contentHeight() int {
	h := m.height
	if m.fileChanged {
		h--
	}
	if m.state == stateSearching {
		h--
	}
	if h < 0 {
		return 0
	}
	return h
}

// docWidth is the columns available to rendered markdown after the
// optional line-number gutter.
func (m Model) docWidth() int {
	w := m.width
	if m.showLineNumbers {
		w -= gutterWidth
	}
	if w < 1 {
		return 1
	}
	return w
}

func (m Model) visibleDocLines() []string {
	if m.doc == nil {
		return nil
	}
	return m.doc.Lines(m.docWidth())
}

func (m Model) totalLines() int {
	return len(m.visibleDocLines())
}
