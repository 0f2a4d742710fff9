package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logbuf/internal/prefs"
	"github.com/five82/logbuf/internal/recorder"
	"github.com/five82/logbuf/internal/state"
	"github.com/five82/logbuf/internal/view"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Recorder  *recorder.Recorder[recorder.Item]
	View      *view.View[recorder.Item]
	Store     *state.Store
	Prefs     prefs.Prefs
	PrefsPath string
	Source    string // label shown in the header
	Logger    *slog.Logger
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	recorder  *recorder.Recorder[recorder.Item]
	view      *view.View[recorder.Item]
	store     *state.Store
	prefs     prefs.Prefs
	prefsPath string
	source    string
	logger    *slog.Logger
	tick      time.Duration

	// Recorder bridge
	changes <-chan struct{}
	detach  func()

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	follow   bool
	stale    bool // changes arrived while paused

	viewport viewport.Model
	snapshot state.Snapshot
	visible  int
}

// New creates a new Bubble Tea model. The model registers callbacks on the
// recorder; call Close when the program has exited.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	changes, detach := bridge(opts.Recorder)

	return Model{
		ctx:       ctx,
		recorder:  opts.Recorder,
		view:      opts.View,
		store:     opts.Store,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		source:    opts.Source,
		logger:    logger,
		tick:      tick,
		changes:   changes,
		detach:    detach,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.Prefs.Theme),
		follow:    opts.Prefs.Follow,
	}
}

// Close removes the recorder callbacks registered by New.
func (m Model) Close() {
	if m.detach != nil {
		m.detach()
	}
}

// bridge turns recorder callbacks into a coalescing signal. Callbacks run
// inside the recorder's serialization boundary, so they only do a
// non-blocking send; the UI goroutine reads the view when it gets around to
// it.
func bridge(rec *recorder.Recorder[recorder.Item]) (<-chan struct{}, func()) {
	changes := make(chan struct{}, 1)
	if rec == nil {
		return changes, func() {}
	}
	signal := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	onRecord := rec.OnRecord(func(*recorder.Recorder[recorder.Item], recorder.Item, bool) { signal() })
	onClear := rec.OnClear(func(*recorder.Recorder[recorder.Item]) { signal() })
	return changes, func() {
		rec.RemoveCallback(onRecord)
		rec.RemoveCallback(onClear)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		waitForChange(m.ctx, m.changes),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(m.width, m.viewportHeight())
			m.ready = true
		}
		m.refresh(true)
		return m, nil

	case changedMsg:
		if m.follow {
			m.refresh(false)
		} else {
			m.stale = true
		}
		return m, waitForChange(m.ctx, m.changes)

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case stopMsg:
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.theme.Styles().Pane.Width(m.width).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		order := m.view.Order().Toggle()
		m.view.SetOrder(order)
		m.prefs = m.prefs.WithOrder(order)
		m.savePrefs()
		m.refresh(true)
		return m, nil

	case key.Matches(msg, m.keys.CycleSeverity):
		sev := m.view.MinimumSeverity().Next()
		m.view.SetMinimumSeverity(sev)
		m.prefs.MinimumSeverity = sev
		m.savePrefs()
		m.refresh(true)
		return m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		m.follow = !m.follow
		m.prefs.Follow = m.follow
		m.savePrefs()
		if m.follow {
			m.refresh(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.recorder != nil {
			m.recorder.Clear()
		}
		m.refresh(true)
		return m, nil
	}

	return m.handleScrollKey(msg)
}

// handleScrollKey moves the viewport. Scrolling away from the newest entry
// does not pause following; use Space for that.
func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
	}
	return m, nil
}

// refresh re-reads the view into the viewport. When jump is true, or when
// following, the viewport moves to the newest entry: the bottom in
// ascending order, the top in descending order.
func (m *Model) refresh(jump bool) {
	if !m.ready || m.view == nil {
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.viewportHeight()

	items := m.view.Items()
	m.visible = len(items)
	m.viewport.SetContent(renderItems(m.theme.Styles(), items, m.width))
	m.stale = false

	if jump || m.follow {
		if m.view.Order() == view.Descending {
			m.viewport.GotoTop()
		} else {
			m.viewport.GotoBottom()
		}
	}
}

func (m Model) viewportHeight() int {
	// header + footer
	return max(m.height-2, 1)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// renderHeader renders the status line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	parts := []string{
		styles.Logo.Render("logbuf"),
		styles.MutedText.Render(m.source),
		styles.Badge.Render(m.view.Order().String()),
		styles.Badge.Render(">= " + m.view.MinimumSeverity().String()),
	}
	if m.follow {
		parts = append(parts, styles.SuccessText.Render("following"))
	} else {
		paused := "paused"
		if m.stale {
			paused += " (new entries)"
		}
		parts = append(parts, styles.WarningText.Render(paused))
	}

	limit := "unbounded"
	if m.recorder != nil && m.recorder.BufferLimit() > 0 {
		limit = fmt.Sprint(m.recorder.BufferLimit())
	}
	parts = append(parts, styles.Text.Render(fmt.Sprintf("%d shown / %s", m.visible, limit)))

	snap := m.snapshot
	parts = append(parts, styles.FaintText.Render(fmt.Sprintf("recorded %d  evicted %d  cleared %d",
		snap.Recorded, snap.Evicted, snap.Cleared)))
	if snap.IsOffline() && snap.LastError != nil {
		parts = append(parts, styles.DangerText.Render("source unavailable: "+snap.LastError.Error()))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, styles.Rule.Render(" │ ")))
}

func (m Model) renderFooter() string {
	return m.theme.Styles().Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	h := m.help
	h.ShowAll = true

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.Rule.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(h.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))
	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type changedMsg struct{}

type stopMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForChange blocks until the recorder signals a change. It returns
// stopMsg once ctx is done so the program exits with its producers.
func waitForChange(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return stopMsg{}
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Cancelled by signal; not a failure.
		return nil
	}
	return err
}
