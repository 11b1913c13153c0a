// Package app contains the root application model.
package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/glimpse/internal/config"
	"github.com/zjrosen/glimpse/internal/content"
	"github.com/zjrosen/glimpse/internal/editor"
	"github.com/zjrosen/glimpse/internal/log"
	"github.com/zjrosen/glimpse/internal/mode"
	"github.com/zjrosen/glimpse/internal/mode/browser"
	"github.com/zjrosen/glimpse/internal/mode/pager"
	"github.com/zjrosen/glimpse/internal/scheme"
	"github.com/zjrosen/glimpse/internal/theme"
	"github.com/zjrosen/glimpse/internal/ui/statusbar"
	"github.com/zjrosen/glimpse/internal/watcher"
)

// Options configures the root model.
type Options struct {
	Services mode.Services

	// FilePath, when set, opens the pager directly on that file and quit
	// exits the program. When empty the browser opens over WorkDir.
	FilePath string

	// Stdin, when set, is piped markdown shown in a single pager session.
	// Watching and editing are unavailable for it.
	Stdin string

	Scheme scheme.Scheme
}

// fileChangedEvent bridges a watcher signal into the message loop.
type fileChangedEvent struct{}

// watcherClosedEvent reports that the watch channel was closed.
type watcherClosedEvent struct{}

// editorFinishedMsg reports the external editor exiting.
type editorFinishedMsg struct {
	err error
}

// Model is the root application state.
type Model struct {
	currentMode mode.AppMode
	pager       pager.Model
	browser     browser.Model

	// standalone means the program started directly on a document, so the
	// pager is the only session and quitting it quits the program.
	standalone bool

	services mode.Services

	width  int
	height int

	currentScheme scheme.Scheme
	th            *theme.Resolved

	watcherHandle *watcher.Watcher
	watchCh       <-chan struct{}
}

// New creates the root model. The caller has already decided between
// browser and standalone pager startup.
func New(opts Options) (Model, error) {
	cfg := opts.Services.Config
	th := theme.Resolve(cfg.Theme.Name, opts.Scheme)

	m := Model{
		services:      opts.Services,
		currentScheme: opts.Scheme,
		th:            th,
	}

	switch {
	case opts.Stdin != "":
		m.standalone = true
		m.currentMode = mode.ModePager
		m.pager = pager.New(content.New(opts.Stdin, th), th).
			WithLineNumbers(cfg.UI.ShowLineNumbers)

	case opts.FilePath != "":
		doc, err := content.Load(opts.FilePath, th)
		if err != nil {
			return Model{}, err
		}
		m.standalone = true
		m.currentMode = mode.ModePager
		m.pager = pager.New(doc, th).WithLineNumbers(cfg.UI.ShowLineNumbers)
		m.startWatcher(opts.FilePath)

	default:
		entries, err := browser.Scan(opts.Services.WorkDir, cfg.Browser.Depth)
		if err != nil {
			return Model{}, fmt.Errorf("scanning %s: %w", opts.Services.WorkDir, err)
		}
		m.currentMode = mode.ModeBrowser
		m.browser = browser.New(opts.Services.WorkDir, entries, th).
			WithDepth(cfg.Browser.Depth).
			WithSort(browser.ParseSortKey(cfg.Browser.SortKey), cfg.Browser.SortDir != "desc")
	}

	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	switch m.currentMode {
	case mode.ModePager:
		cmds = append(cmds, m.pager.Init())
	default:
		cmds = append(cmds, m.browser.Init())
	}
	if m.watchCh != nil {
		cmds = append(cmds, listenWatcher(m.watchCh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pager = m.pager.SetSize(msg.Width, m.modeHeight())
		m.browser = m.browser.SetSize(msg.Width, m.modeHeight())
		return m, nil

	case mode.SchemeChangedMsg:
		return m.handleSchemeChanged(msg.Scheme)

	case fileChangedEvent:
		if doc := m.pager.Doc(); doc != nil {
			log.Debug(log.CatWatcher, "Document changed on disk", "path", doc.Path())
		}
		var cmd tea.Cmd
		m.pager, cmd = m.pager.Update(pager.FileChangedMsg{})
		if m.watchCh == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, listenWatcher(m.watchCh))

	case watcherClosedEvent:
		return m, nil

	case pager.EditRequestMsg:
		return m.handleEditRequest(msg)

	case editorFinishedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatEditor, "Editor exited with error", msg.err)
		}
		return m.reloadDocument()

	case pager.ReloadRequestMsg:
		return m.reloadDocument()

	case pager.SuspendMsg:
		return m, tea.Suspend

	case pager.QuitMsg:
		if m.standalone {
			return m, tea.Quit
		}
		return m.returnToBrowser()

	case browser.OpenFileMsg:
		return m.openEntry(msg.Entry)

	case browser.SortChangedMsg:
		return m.persistSort(msg)

	case browser.QuitMsg:
		return m, tea.Quit
	}

	// Delegate everything else to the active session.
	switch m.currentMode {
	case mode.ModePager:
		var cmd tea.Cmd
		m.pager, cmd = m.pager.Update(msg)
		return m, cmd
	default:
		if next, handled := m.browser.HandleRescan(msg); handled {
			m.browser = next
			return m, nil
		}
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	switch m.currentMode {
	case mode.ModePager:
		view = m.pager.View()
	default:
		view = m.browser.View()
	}

	if m.services.Config.UI.ShowStatusBar && m.height > 1 {
		view += "\n" + m.statusBar().Render(m.th, m.width)
	}
	return view
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	return m.stopWatcher()
}

// handleSchemeChanged re-resolves the theme after a terminal scheme flip.
// A report that matches the current scheme is dropped without touching any
// session: terminals re-announce the active theme on focus changes, and
// rebuilding rendered documents for those would flicker for nothing.
func (m Model) handleSchemeChanged(s scheme.Scheme) (tea.Model, tea.Cmd) {
	if s == m.currentScheme {
		log.Debug(log.CatScheme, "Scheme report matches current scheme, ignoring", "scheme", s)
		return m, nil
	}

	log.Info(log.CatScheme, "Scheme changed", "from", m.currentScheme, "to", s)
	m.currentScheme = s
	m.th = theme.Resolve(m.services.Config.Theme.Name, s)

	m.browser = m.browser.SetTheme(m.th)
	if doc := m.pager.Doc(); doc != nil {
		m.pager = m.pager.SetContent(doc.WithTheme(m.th))
	}
	m.pager = m.pager.SetTheme(m.th)
	return m, nil
}

// handleEditRequest hands the terminal to the external editor, then
// reloads the document when it returns.
func (m Model) handleEditRequest(msg pager.EditRequestMsg) (tea.Model, tea.Cmd) {
	doc := m.pager.Doc()
	if doc == nil || doc.Path() == "" {
		// Piped documents have no file to edit.
		return m, nil
	}

	cmd := editor.Command(editor.Resolve(m.services.Config.Editor), doc.Path(), msg.Line)
	log.Info(log.CatEditor, "Launching editor", "path", doc.Path(), "line", msg.Line)
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// reloadDocument re-reads the current document from disk, preserving the
// scroll position where the new length allows.
func (m Model) reloadDocument() (tea.Model, tea.Cmd) {
	doc := m.pager.Doc()
	if doc == nil || doc.Path() == "" {
		return m, nil
	}

	fresh, err := content.Load(doc.Path(), m.th)
	if err != nil {
		// The file may be mid-save or deleted; keep showing the old buffer.
		log.ErrorErr(log.CatPager, "Reload failed, keeping current buffer", err, "path", doc.Path())
		return m, nil
	}
	m.pager = m.pager.SetContent(fresh)
	return m, nil
}

// openEntry builds a pager session for a browser selection.
func (m Model) openEntry(entry browser.Entry) (tea.Model, tea.Cmd) {
	doc, err := content.Load(entry.AbsolutePath, m.th)
	if err != nil {
		log.ErrorErr(log.CatBrowser, "Opening entry failed", err, "path", entry.AbsolutePath)
		return m, nil
	}

	log.Info(log.CatMode, "Switching mode", "from", "browser", "to", "pager", "path", entry.AbsolutePath)
	m.currentMode = mode.ModePager
	m.pager = pager.New(doc, m.th).
		WithLineNumbers(m.services.Config.UI.ShowLineNumbers).
		SetSize(m.width, m.modeHeight())

	m.startWatcher(entry.AbsolutePath)
	if m.watchCh != nil {
		return m, listenWatcher(m.watchCh)
	}
	return m, nil
}

// returnToBrowser leaves the pager and rescans so new or deleted files
// show up.
func (m Model) returnToBrowser() (tea.Model, tea.Cmd) {
	log.Info(log.CatMode, "Switching mode", "from", "pager", "to", "browser")
	if err := m.stopWatcher(); err != nil {
		log.ErrorErr(log.CatWatcher, "Stopping watcher failed", err)
	}

	m.currentMode = mode.ModeBrowser
	entries, err := browser.Scan(m.browser.Root(), m.services.Config.Browser.Depth)
	if err == nil {
		m.browser = m.browser.SetEntries(entries)
	}
	m.browser = m.browser.SetSize(m.width, m.modeHeight())
	return m, nil
}

// persistSort writes a sort change back to the config file so it survives
// restarts. In-memory config follows even when the write fails.
func (m Model) persistSort(msg browser.SortChangedMsg) (tea.Model, tea.Cmd) {
	dir := "asc"
	if !msg.Ascending {
		dir = "desc"
	}
	m.services.Config.Browser.SortKey = msg.Key
	m.services.Config.Browser.SortDir = dir

	if m.services.ConfigPath == "" {
		return m, nil
	}
	if err := config.SaveBrowserSort(m.services.ConfigPath, msg.Key, dir); err != nil {
		log.ErrorErr(log.CatConfig, "Persisting sort preference failed", err, "path", m.services.ConfigPath)
	}
	return m, nil
}

// startWatcher begins watching path if watching is enabled. Failures are
// logged and ignored: the pager works without live reload.
func (m *Model) startWatcher(path string) {
	if !m.services.Config.Watch {
		return
	}
	if err := m.stopWatcher(); err != nil {
		log.ErrorErr(log.CatWatcher, "Stopping previous watcher failed", err)
	}

	cfg := watcher.Config{
		Path:        path,
		DebounceDur: time.Duration(m.services.Config.WatchDebounce) * time.Millisecond,
	}
	w, err := watcher.New(cfg)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Creating watcher failed", err, "path", path)
		return
	}
	ch, err := w.Start()
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Starting watcher failed", err, "path", path)
		_ = w.Stop()
		return
	}
	m.watcherHandle = w
	m.watchCh = ch
}

func (m *Model) stopWatcher() error {
	if m.watcherHandle == nil {
		return nil
	}
	err := m.watcherHandle.Stop()
	m.watcherHandle = nil
	m.watchCh = nil
	return err
}

// listenWatcher waits for one change burst. The app re-arms it after each
// event, mirroring a continuous subscription.
func listenWatcher(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watcherClosedEvent{}
		}
		return fileChangedEvent{}
	}
}

// modeHeight is the viewport height handed to sessions: the terminal
// minus the status bar row.
func (m Model) modeHeight() int {
	if !m.services.Config.UI.ShowStatusBar {
		return m.height
	}
	if m.height <= 1 {
		return m.height
	}
	return m.height - 1
}

func (m Model) statusBar() statusbar.Bar {
	schemeName := "dark"
	if m.currentScheme == scheme.Light {
		schemeName = "light"
	}

	if m.currentMode == mode.ModePager {
		left := "stdin"
		if doc := m.pager.Doc(); doc != nil && doc.Path() != "" {
			left = doc.Path()
		}
		right := []string{}
		if cur, total, active := m.pager.SearchStatus(); active {
			if total == 0 {
				right = append(right, "no matches")
			} else {
				right = append(right, fmt.Sprintf("match %d/%d", cur, total))
			}
		}
		right = append(right, fmt.Sprintf("%d%%", m.pager.ScrollPercent()), schemeName)
		return statusbar.Bar{Left: left, Right: right}
	}

	sortKey, asc := m.browser.SortState()
	dir := "↑"
	if asc {
		dir = "↓"
	}
	return statusbar.Bar{
		Left:  m.browser.Root(),
		Right: []string{fmt.Sprintf("sort %s %s", sortKey, dir), schemeName},
	}
}
