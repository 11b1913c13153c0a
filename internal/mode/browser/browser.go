// Package browser contains the interactive file-selection session.
package browser

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/glimpse/internal/keys"
	"github.com/zjrosen/glimpse/internal/log"
	"github.com/zjrosen/glimpse/internal/mode"
	"github.com/zjrosen/glimpse/internal/scheme"
	"github.com/zjrosen/glimpse/internal/theme"
	"github.com/zjrosen/glimpse/internal/ui/viewport"
)

// sessionState is the browser's input mode.
type sessionState int

const (
	stateNormal sessionState = iota
	stateFiltering
	stateHelp
)

// SortKey selects the sort column.
type SortKey int

const (
	SortPath SortKey = iota
	SortCreated
	SortUpdated
)

func (k SortKey) String() string {
	switch k {
	case SortCreated:
		return "created"
	case SortUpdated:
		return "updated"
	default:
		return "path"
	}
}

// ParseSortKey maps a config string to a SortKey, defaulting to path.
func ParseSortKey(s string) SortKey {
	switch s {
	case "created":
		return SortCreated
	case "updated":
		return SortUpdated
	default:
		return SortPath
	}
}

// itemHeight is the fixed visual height of one list entry: the path line
// plus a metadata line.
const itemHeight = 2

// OpenFileMsg asks the orchestrator to open the selected entry in a pager.
type OpenFileMsg struct {
	Entry Entry
}

// QuitMsg asks the orchestrator to leave the browser.
type QuitMsg struct{}

// SortChangedMsg reports a sort preference change for persistence.
type SortChangedMsg struct {
	Key       string
	Ascending bool
}

// Model is the browser session state.
type Model struct {
	root     string
	entries  []Entry // master list, re-sorted in place
	filtered []Entry

	cursor       int
	scrollOffset int // item granularity
	filterQuery  string
	state        sessionState

	sortKey   SortKey
	ascending bool
	depth     int

	width  int
	height int

	keys keys.BrowserKeyMap
	th   *theme.Resolved
}

// New creates a browser over root using a previously scanned entry list.
func New(root string, entries []Entry, th *theme.Resolved) Model {
	m := Model{
		root:      root,
		entries:   entries,
		keys:      keys.DefaultBrowserKeyMap(),
		th:        th,
		ascending: true,
		depth:     DefaultDepth,
	}
	m.applyFilter()
	return m
}

// WithDepth sets the rescan depth limit.
func (m Model) WithDepth(depth int) Model {
	if depth > 0 {
		m.depth = depth
	}
	return m
}

// WithSort applies a startup sort preference.
func (m Model) WithSort(key SortKey, ascending bool) Model {
	m.sortKey = key
	m.ascending = ascending
	m.resort()
	return m
}

// Init has no startup commands; scanning happens before construction.
func (m Model) Init() tea.Cmd { return nil }

// SetSize handles terminal resize events.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.clampScroll()
	return m
}

// SetTheme swaps in a new palette. Content is plain text here, so no
// re-render beyond the next frame is needed.
func (m Model) SetTheme(th *theme.Resolved) Model {
	m.th = th
	return m
}

// SetEntries replaces the master list after a rescan, preserving the
// active sort and filter.
func (m Model) SetEntries(entries []Entry) Model {
	m.entries = entries
	m.resort()
	return m
}

// Root returns the scanned base directory.
func (m Model) Root() string { return m.root }

// Selected returns the entry under the cursor, if any.
func (m Model) Selected() (Entry, bool) {
	if len(m.filtered) == 0 || m.cursor < 0 || m.cursor >= len(m.filtered) {
		return Entry{}, false
	}
	return m.filtered[m.cursor], true
}

// SortState exposes the current sort for the status bar.
func (m Model) SortState() (SortKey, bool) { return m.sortKey, m.ascending }

// FilterQuery exposes the active filter for the status bar.
func (m Model) FilterQuery() string { return m.filterQuery }

// HelpVisible reports whether the help overlay is showing.
func (m Model) HelpVisible() bool { return m.state == stateHelp }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// Terminal theme notifications ride the key stream and outrank any
	// mode-specific handling.
	if keyMsg.Type == tea.KeyRunes {
		if s, parsed := scheme.ParseNotification(keyMsg.Runes); parsed {
			log.Debug(log.CatBrowser, "Theme notification decoded", "scheme", s)
			return m, schemeChangedCmd(s)
		}
	}

	switch m.state {
	case stateHelp:
		return m.updateHelp(keyMsg)
	case stateFiltering:
		return m.updateFiltering(keyMsg)
	default:
		return m.updateNormal(keyMsg)
	}
}

func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.pageSize())
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.pageSize())
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.clampScroll()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.filtered) - 1
		m.clampScroll()

	case key.Matches(msg, m.keys.Filter):
		m.state = stateFiltering

	case key.Matches(msg, m.keys.CycleSort):
		m.sortKey = (m.sortKey + 1) % 3
		m.resort()
		return m, m.sortChangedCmd()
	case key.Matches(msg, m.keys.ToggleSortDir):
		m.ascending = !m.ascending
		m.resort()
		return m, m.sortChangedCmd()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.rescanCmd()

	case key.Matches(msg, m.keys.Open):
		if entry, ok := m.Selected(); ok {
			log.Info(log.CatBrowser, "Opening entry", "path", entry.AbsolutePath)
			return m, func() tea.Msg { return OpenFileMsg{Entry: entry} }
		}

	case key.Matches(msg, m.keys.Help):
		m.state = stateHelp

	case key.Matches(msg, m.keys.Quit):
		return m, func() tea.Msg { return QuitMsg{} }
	}
	return m, nil
}

func (m Model) updateFiltering(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape, tea.KeyCtrlC:
		// Cancel: drop the query and restore the full list.
		m.state = stateNormal
		m.filterQuery = ""
		m.applyFilter()
	case tea.KeyEnter:
		m.state = stateNormal
	case tea.KeyBackspace:
		if m.filterQuery != "" {
			runes := []rune(m.filterQuery)
			m.filterQuery = string(runes[:len(runes)-1])
			m.applyFilter()
		}
	case tea.KeySpace:
		m.filterQuery += " "
		m.applyFilter()
	case tea.KeyRunes:
		m.filterQuery += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Any key closes the overlay without performing its normal action.
	m.state = stateNormal
	return m, nil
}

// moveCursor shifts the cursor by delta and keeps it visible.
func (m *Model) moveCursor(delta int) {
	if len(m.filtered) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.filtered)-1 {
		m.cursor = len(m.filtered) - 1
	}
	m.clampScroll()
}

// pageSize is one fewer than the visible item count, so a page keeps one
// item of context.
func (m Model) pageSize() int {
	if n := m.visibleItems() - 1; n > 1 {
		return n
	}
	return 1
}

// visibleItems is how many fixed-height items fit the list area.
func (m Model) visibleItems() int {
	n := m.listHeight() / itemHeight
	if n < 1 {
		return 1
	}
	return n
}

// listHeight is the rows available to list items after the header and,
// when present, the filter input line.
func (m Model) listHeight() int {
	h := m.height - 1
	if m.state == stateFiltering || m.filterQuery != "" {
		h--
	}
	if h < 0 {
		return 0
	}
	return h
}

// clampScroll keeps the cursor inside the visible item window.
func (m *Model) clampScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	m.scrollOffset = viewport.ClampOffset(m.scrollOffset, len(m.filtered), visible)
}

// applyFilter recomputes the derived filtered list from the master list,
// resetting cursor and scroll.
func (m *Model) applyFilter() {
	if m.filterQuery == "" {
		m.filtered = append([]Entry(nil), m.entries...)
	} else {
		needle := strings.ToLower(m.filterQuery)
		m.filtered = m.filtered[:0:0]
		for _, e := range m.entries {
			if strings.Contains(strings.ToLower(e.RelativePath), needle) {
				m.filtered = append(m.filtered, e)
			}
		}
	}
	m.cursor = 0
	m.scrollOffset = 0
}

// resort orders the master entry list in place, then re-applies the
// active filter so the derived list follows.
func (m *Model) resort() {
	less := func(a, b Entry) bool { return a.RelativePath < b.RelativePath }
	switch m.sortKey {
	case SortCreated:
		less = func(a, b Entry) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.RelativePath < b.RelativePath
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case SortUpdated:
		less = func(a, b Entry) bool {
			if a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.RelativePath < b.RelativePath
			}
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	}

	asc := m.ascending
	sort.SliceStable(m.entries, func(i, j int) bool {
		if asc {
			return less(m.entries[i], m.entries[j])
		}
		return less(m.entries[j], m.entries[i])
	})
	m.applyFilter()
}

func (m Model) sortChangedCmd() tea.Cmd {
	k, asc := m.sortKey.String(), m.ascending
	return func() tea.Msg { return SortChangedMsg{Key: k, Ascending: asc} }
}

// rescanCmd re-walks the base directory off the update loop.
func (m Model) rescanCmd() tea.Cmd {
	root, depth := m.root, m.depth
	return func() tea.Msg {
		entries, err := Scan(root, depth)
		if err != nil {
			log.ErrorErr(log.CatBrowser, "Rescan failed", err, "root", root)
			return nil
		}
		return rescanDoneMsg{entries: entries}
	}
}

// DefaultDepth bounds directory recursion when no depth is configured.
const DefaultDepth = 6

type rescanDoneMsg struct {
	entries []Entry
}

// HandleRescan folds a completed rescan into the model.
func (m Model) HandleRescan(msg tea.Msg) (Model, bool) {
	done, ok := msg.(rescanDoneMsg)
	if !ok {
		return m, false
	}
	return m.SetEntries(done.entries), true
}

func schemeChangedCmd(s scheme.Scheme) tea.Cmd {
	return func() tea.Msg { return mode.SchemeChangedMsg{Scheme: s} }
}
