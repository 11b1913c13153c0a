package pager

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glimpse/internal/content"
	"github.com/zjrosen/glimpse/internal/mode"
	"github.com/zjrosen/glimpse/internal/scheme"
	"github.com/zjrosen/glimpse/internal/theme"
	"github.com/zjrosen/glimpse/internal/ui/viewport"
)

// longDoc renders to well over 100 lines at any reasonable width, so the
// scroll tests always have room to move.
func longDoc(t *testing.T) *content.Content {
	t.Helper()
	var b strings.Builder
	b.WriteString("# Long document\n\n")
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "Paragraph %d with some text in it.\n\n", i)
	}
	return content.New(b.String(), theme.Resolve("default", scheme.Dark))
}

func testPager(t *testing.T) Model {
	t.Helper()
	th := theme.Resolve("default", scheme.Dark)
	return New(longDoc(t), th).SetSize(80, 24)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(keyPress(r))
	}
	return m
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestScrollLineAndClamp(t *testing.T) {
	m := testPager(t)
	require.Zero(t, m.scrollOffset)

	m, _ = m.Update(keyPress('k'))
	require.Zero(t, m.scrollOffset, "line up at top stays at top")

	m, _ = m.Update(keyPress('j'))
	require.Equal(t, 1, m.scrollOffset)

	m, _ = m.Update(keyPress('G'))
	max := viewport.MaxOffset(m.totalLines(), m.contentHeight())
	require.Equal(t, max, m.scrollOffset)

	m, _ = m.Update(keyPress('j'))
	require.Equal(t, max, m.scrollOffset, "line down at bottom stays at bottom")

	m, _ = m.Update(keyPress('g'))
	require.Zero(t, m.scrollOffset)
}

func TestPageAndHalfPageSteps(t *testing.T) {
	m := testPager(t)

	m, _ = m.Update(keyPress('f'))
	require.Equal(t, viewport.PageSize(m.contentHeight()), m.scrollOffset)

	m, _ = m.Update(keyPress('b'))
	require.Zero(t, m.scrollOffset)

	m, _ = m.Update(keyPress('d'))
	require.Equal(t, viewport.HalfPage(m.contentHeight()), m.scrollOffset)

	m, _ = m.Update(keyPress('u'))
	require.Zero(t, m.scrollOffset)
}

func TestShortDocumentNeverScrolls(t *testing.T) {
	th := theme.Resolve("default", scheme.Dark)
	m := New(content.New("# Tiny\n\nOne line.\n", th), th).SetSize(80, 24)

	for _, r := range "jfdG" {
		m, _ = m.Update(keyPress(r))
		require.Zero(t, m.scrollOffset)
	}
	require.Equal(t, 100, m.ScrollPercent(), "a document that fits reads as fully scrolled")
}

func TestResizeClampsOffset(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(keyPress('G'))

	m = m.SetSize(80, 60)
	require.LessOrEqual(t, m.scrollOffset, viewport.MaxOffset(m.totalLines(), m.contentHeight()))
}

func TestFindMatches(t *testing.T) {
	lines := []string{
		"alpha one",
		"\x1b[1mBeta\x1b[0m two",
		"gamma",
		"ALPHA again",
		"al\x1b[31mpha\x1b[0m split by styling",
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "case insensitive", query: "alpha", want: []int{0, 3, 4}},
		{name: "styled line still matches", query: "beta", want: []int{1}},
		{name: "no hits", query: "delta", want: nil},
		{name: "empty query", query: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FindMatches(lines, tt.query))
		})
	}
}

func TestMatchCyclingWrapsBothWays(t *testing.T) {
	m := testPager(t)
	m.hasSearch = true
	m.matches = []int{2, 5, 9}
	m.matchIndex = 0

	for _, want := range []int{1, 2, 0, 1} {
		m, _ = m.Update(keyPress('n'))
		require.Equal(t, want, m.matchIndex)
	}

	m, _ = m.Update(keyPress('N'))
	require.Equal(t, 0, m.matchIndex)
	m, _ = m.Update(keyPress('N'))
	require.Equal(t, 2, m.matchIndex, "previous from first match wraps to last")
}

func TestSearchJumpCentersMatch(t *testing.T) {
	m := testPager(t)
	m.hasSearch = true
	m.matches = []int{2, 5, 40}
	m.matchIndex = 1

	m, _ = m.Update(keyPress('n'))
	require.Equal(t, viewport.CenteredOffset(40, m.totalLines(), m.contentHeight()), m.scrollOffset)
}

func TestSearchFlow(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(keyPress('/'))
	require.Equal(t, stateSearching, m.state)

	m = typeRunes(m, "paragraph 50")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, stateNormal, m.state)
	current, total, active := m.SearchStatus()
	require.True(t, active)
	require.Equal(t, 1, current)
	require.GreaterOrEqual(t, total, 1)
	require.Greater(t, m.scrollOffset, 0, "view jumps toward the match")
}

func TestSearchNoMatches(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(keyPress('/'))
	m = typeRunes(m, "zzzznotthere")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	current, total, active := m.SearchStatus()
	require.True(t, active)
	require.Zero(t, current)
	require.Zero(t, total)
	require.Zero(t, m.scrollOffset, "no match leaves the view in place")
}

func TestSearchCancelClearsState(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(keyPress('/'))
	m = typeRunes(m, "paragraph")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})

	require.Equal(t, stateNormal, m.state)
	_, _, active := m.SearchStatus()
	require.False(t, active)
}

func TestHelpOverlaySwallowsNextKey(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(keyPress('?'))
	require.True(t, m.HelpVisible())

	m, _ = m.Update(keyPress('j'))
	require.False(t, m.HelpVisible())
	require.Zero(t, m.scrollOffset, "key closing the overlay must not also scroll")
}

func TestEditRequestCarriesTopLine(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(keyPress('f'))
	top := m.scrollOffset

	_, cmd := m.Update(keyPress('e'))
	msg := runCmd(t, cmd)

	edit, ok := msg.(EditRequestMsg)
	require.True(t, ok)
	require.Equal(t, top+1, edit.Line)
}

func TestReloadAndQuitAndSuspend(t *testing.T) {
	m := testPager(t)

	_, cmd := m.Update(keyPress('r'))
	_, ok := runCmd(t, cmd).(ReloadRequestMsg)
	require.True(t, ok)

	_, cmd = m.Update(keyPress('q'))
	_, ok = runCmd(t, cmd).(QuitMsg)
	require.True(t, ok)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	_, ok = runCmd(t, cmd).(SuspendMsg)
	require.True(t, ok)
}

func TestFileChangedBannerAndReloadClears(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(FileChangedMsg{})
	require.True(t, m.FileChanged())
	require.Contains(t, m.View(), "File changed on disk")

	m = m.SetContent(longDoc(t))
	require.False(t, m.FileChanged())
	require.NotContains(t, m.View(), "File changed on disk")
}

func TestLineNumberToggle(t *testing.T) {
	m := testPager(t)
	require.False(t, m.LineNumbers())
	require.NotContains(t, m.View(), "   1 ")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.True(t, m.LineNumbers())
	require.Contains(t, m.View(), "   1 ")
}

func TestThemeNotificationShortCircuitsKeys(t *testing.T) {
	m := testPager(t)
	notification := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("\x1b]11;rgb:ffff/ffff/ffff\x1b\\")}

	m, cmd := m.Update(notification)
	msg := runCmd(t, cmd)

	changed, ok := msg.(mode.SchemeChangedMsg)
	require.True(t, ok)
	require.Equal(t, scheme.Light, changed.Scheme)
	require.Zero(t, m.scrollOffset, "notification bytes must not be treated as navigation keys")
}

func TestViewLinesFillFullWidth(t *testing.T) {
	m := testPager(t)

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 24)
	for i, line := range lines {
		require.Equal(t, 80, lipgloss.Width(line), "line %d must cover the full width", i)
	}
}

func TestBannerSitsBetweenContentAndSearchLine(t *testing.T) {
	m := testPager(t)
	m, _ = m.Update(FileChangedMsg{})

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 24)
	require.Contains(t, lines[23], "File changed on disk")

	m, _ = m.Update(keyPress('/'))
	lines = strings.Split(m.View(), "\n")
	require.Len(t, lines, 24)
	require.Contains(t, lines[22], "File changed on disk")
	require.Contains(t, lines[23], "/")
}

func TestViewRendersWithoutPanic(t *testing.T) {
	m := testPager(t)
	require.NotEmpty(t, m.View())

	m, _ = m.Update(keyPress('?'))
	require.NotEmpty(t, m.View())

	tiny := testPager(t).SetSize(0, 0)
	require.Empty(t, tiny.View())
}
