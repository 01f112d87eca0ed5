// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui renders the package list as an interactive terminal surface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/janderssonse/pkgview/internal/catalog"
	"github.com/janderssonse/pkgview/internal/config"
	"github.com/janderssonse/pkgview/internal/listmodel"
	"github.com/janderssonse/pkgview/internal/stringutil"
	"github.com/janderssonse/pkgview/internal/tui/styles"
	"github.com/janderssonse/pkgview/internal/undo"
)

// Layout constants for consistent spacing.
const (
	headerLines       = 2 // Title bar plus column headings
	footerLines       = 2 // Status line plus key hints
	minViewportHeight = 1
)

// buildDoneMsg carries a finished background build into the update loop.
type buildDoneMsg struct {
	build  *listmodel.Build
	result listmodel.BuildResult
}

// Model is the bubbletea model of the package list screen. All list and
// catalog mutations happen on the bubbletea event loop, which is the
// single interactive goroutine the list layer requires.
type Model struct {
	styles *styles.Styles
	keyMap KeyMap
	logger *slog.Logger

	cat    *catalog.Catalog
	view   *listmodel.View
	marker *listmodel.Marker
	cfg    *config.Config

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	cursor   int
	selected map[*listmodel.Row]bool

	limitInput  textinput.Model
	limitActive bool

	statusLine string
	statusErr  bool

	grouping string
	showHelp bool
	quitting bool
}

// New creates the package list screen over the given catalog and starts
// the initial build using the configured limit and grouping.
func New(cat *catalog.Catalog, cfg *config.Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	view := listmodel.NewView(cat, generatorFor(cfg.Grouping), logger)
	marker := listmodel.NewMarker(cat, undo.NewHistory(), logger)

	input := textinput.New()
	input.Prompt = "limit> "
	input.CharLimit = 200

	m := &Model{
		styles:     styles.New(),
		keyMap:     DefaultKeyMap(),
		logger:     logger,
		cat:        cat,
		view:       view,
		marker:     marker,
		cfg:        cfg,
		selected:   make(map[*listmodel.Row]bool),
		limitInput: input,
		grouping:   cfg.Grouping,
	}

	view.SetOnActivate(func(entry catalog.Entry) {
		m.setStatus(describeEntry(entry), false)
	})
	view.SetOnContextMenu(func(ev listmodel.ContextMenuEvent) {
		m.setStatus(describeActions(ev), false)
	})

	if err := view.Relimit(cfg.DefaultLimit); err != nil {
		logger.Warn("invalid default limit, showing everything",
			"limit", cfg.DefaultLimit, "error", err)
		view.RelimitPredicate(listmodel.MatchAll)
	}

	return m
}

// Run starts the TUI with the provided context.
func (m *Model) Run(ctx context.Context) error {
	program := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("package list TUI failed: %w", err)
	}

	return nil
}

// Init implements the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return watchBuild(m.view.Building())
}

// watchBuild waits for a background build and posts its result. A closed
// channel means the build was cancelled and nothing should be posted.
func watchBuild(b *listmodel.Build) tea.Cmd {
	if b == nil {
		return nil
	}

	return func() tea.Msg {
		result, ok := <-b.Done()
		if !ok {
			return nil
		}

		return buildDoneMsg{build: b, result: result}
	}
}

// Update implements the tea.Model interface.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case buildDoneMsg:
		m.view.Complete(msg.build, msg.result)
		m.clampCursor()
		m.pruneSelection()
		// A relimit issued while this build ran leaves a newer build pending.
		return m, watchBuild(m.view.Building())

	case tea.KeyMsg:
		if m.limitActive {
			return m.updateLimitInput(msg)
		}

		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *Model) updateLimitInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		expr := m.limitInput.Value()
		m.limitActive = false
		m.limitInput.Blur()

		if err := m.view.Relimit(expr); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}

		m.setStatus("limit: "+displayLimit(expr), false)

		return m, watchBuild(m.view.Building())
	case "esc":
		m.limitActive = false
		m.limitInput.Blur()

		return m, nil
	}

	var cmd tea.Cmd

	m.limitInput, cmd = m.limitInput.Update(msg)

	return m, cmd
}

//nolint:cyclop // plain key dispatch table
func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keyMap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.moveCursor(-m.pageSize())
	case key.Matches(msg, m.keyMap.PageDown):
		m.moveCursor(m.pageSize())
	case key.Matches(msg, m.keyMap.Select):
		m.toggleSelect()
	case key.Matches(msg, m.keyMap.Activate):
		if row := m.cursorRow(); row != nil {
			m.view.Activate(row)
		}
	case key.Matches(msg, m.keyMap.Menu):
		m.view.ContextMenu(m.targetRows())
	case key.Matches(msg, m.keyMap.Install):
		m.applyAction(listmodel.ActionInstall)
	case key.Matches(msg, m.keyMap.Remove):
		m.applyAction(listmodel.ActionRemove)
	case key.Matches(msg, m.keyMap.Purge):
		m.applyAction(listmodel.ActionPurge)
	case key.Matches(msg, m.keyMap.Keep):
		m.applyAction(listmodel.ActionKeep)
	case key.Matches(msg, m.keyMap.Hold):
		m.applyAction(listmodel.ActionHold)
	case key.Matches(msg, m.keyMap.Undo):
		if m.marker.Undo() {
			m.afterMutation("undone")
		} else {
			m.setStatus("nothing to undo", false)
		}
	case key.Matches(msg, m.keyMap.Redo):
		if m.marker.Redo() {
			m.afterMutation("redone")
		} else {
			m.setStatus("nothing to redo", false)
		}
	case key.Matches(msg, m.keyMap.Limit):
		m.limitActive = true
		m.limitInput.SetValue(m.view.Limit())
		m.limitInput.CursorEnd()

		return m, m.limitInput.Focus()
	case key.Matches(msg, m.keyMap.Grouping):
		return m, m.cycleGrouping()
	}

	return m, nil
}

func (m *Model) applyAction(action listmodel.Action) {
	rows := m.targetRows()
	if len(rows) == 0 {
		m.setStatus("no package under cursor", false)
		return
	}

	applied, err := m.marker.Apply(action, rows)
	if err != nil {
		m.setStatus(err.Error(), true)
	} else {
		m.setStatus(fmt.Sprintf("marked %d for %s", applied, action), false)
	}

	if applied > 0 {
		m.afterMutation("")
	}
}

// afterMutation cleans up after the catalog change callbacks have patched
// the live store in place.
func (m *Model) afterMutation(status string) {
	if status != "" {
		m.setStatus(status, false)
	}

	m.clampCursor()
	m.pruneSelection()
}

func (m *Model) cycleGrouping() tea.Cmd {
	switch m.grouping {
	case config.GroupingFlat:
		m.grouping = config.GroupingSections
	case config.GroupingSections:
		m.grouping = config.GroupingStatus
	default:
		m.grouping = config.GroupingFlat
	}

	m.setStatus("grouping: "+m.grouping, false)
	m.view.SetGenerator(generatorFor(m.grouping))

	return watchBuild(m.view.Building())
}

func generatorFor(grouping string) listmodel.GeneratorFactory {
	switch grouping {
	case config.GroupingSections:
		return listmodel.NewSectionGenerator
	case config.GroupingStatus:
		return listmodel.NewStatusGenerator
	default:
		return listmodel.NewFlatGenerator
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusLine = text
	m.statusErr = isErr
}

// targetRows returns the rows an action applies to: the multi-selection
// when one exists, otherwise the row under the cursor.
func (m *Model) targetRows() []*listmodel.Row {
	store := m.view.Store()
	if store == nil {
		return nil
	}

	var rows []*listmodel.Row

	for _, r := range store.Rows() {
		if m.selected[r] {
			rows = append(rows, r)
		}
	}

	if len(rows) > 0 {
		return rows
	}

	if row := m.cursorRow(); row != nil {
		return []*listmodel.Row{row}
	}

	return nil
}

func (m *Model) cursorRow() *listmodel.Row {
	store := m.view.Store()
	if store == nil || m.cursor < 0 || m.cursor >= store.Len() {
		return nil
	}

	return store.At(m.cursor)
}

func (m *Model) toggleSelect() {
	row := m.cursorRow()
	if row == nil || row.IsHeader() {
		return
	}

	if m.selected[row] {
		delete(m.selected, row)
	} else {
		m.selected[row] = true
	}

	m.view.SelectionChanged(m.targetRows())
	m.moveCursor(1)
}

func (m *Model) moveCursor(delta int) {
	store := m.view.Store()
	if store == nil || store.Len() == 0 {
		m.cursor = 0
		return
	}

	m.cursor += delta
	m.clampCursor()
	m.scrollToCursor()
}

func (m *Model) clampCursor() {
	store := m.view.Store()
	if store == nil || store.Len() == 0 {
		m.cursor = 0
		return
	}

	if m.cursor < 0 {
		m.cursor = 0
	}

	if m.cursor >= store.Len() {
		m.cursor = store.Len() - 1
	}
}

// pruneSelection drops selected rows that are no longer in the store.
// Refresh replaces moved rows wholesale, so stale pointers accumulate.
func (m *Model) pruneSelection() {
	store := m.view.Store()
	if store == nil {
		m.selected = make(map[*listmodel.Row]bool)
		return
	}

	for row := range m.selected {
		if _, ok := store.Index(row); !ok {
			delete(m.selected, row)
		}
	}
}

func (m *Model) pageSize() int {
	if !m.ready {
		return 10
	}

	return max(m.viewport.Height-1, 1)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := max(height-headerLines-footerLines, minViewportHeight)

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
}

func (m *Model) scrollToCursor() {
	if !m.ready {
		return
	}

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	}

	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// View implements the tea.Model interface.
func (m *Model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	if m.showHelp {
		return renderHelp(m.width)
	}

	m.viewport.SetContent(m.renderRows())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	title := fmt.Sprintf("pkgview · %s · limit: %s",
		m.grouping, displayLimit(m.view.Limit()))

	if m.view.State() == listmodel.ViewBuilding {
		title += "  (building…)"
	}

	header := m.styles.Header.Width(m.width).Render(title)
	headings := m.styles.MutedText.Render(renderCells(m.width,
		"State", "Action", "Package", "Section", "Version"))

	return header + "\n" + headings
}

func (m *Model) renderRows() string {
	store := m.view.Store()
	if store == nil || store.Len() == 0 {
		return m.styles.MutedText.Render("  no packages match the limit")
	}

	var b strings.Builder

	for i, row := range store.Rows() {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(m.renderRow(i, row))
	}

	return b.String()
}

func (m *Model) renderRow(i int, row *listmodel.Row) string {
	attrs := row.Attrs

	if row.IsHeader() {
		line := "-- " + attrs.Name
		if i == m.cursor {
			return m.styles.Cursor.Render(line)
		}

		return m.styles.GroupTitle.Render(line)
	}

	mark := " "
	if m.selected[row] {
		mark = "*"
	}

	line := mark + renderCells(m.width-1,
		attrs.CurrentState, attrs.SelectedState,
		attrs.Name, attrs.Section, attrs.Version)

	switch {
	case i == m.cursor:
		return m.styles.Cursor.Render(line)
	case m.selected[row]:
		return m.styles.Selected.Render(line)
	case attrs.HighlightSet && !m.cfg.NoColor:
		return m.styles.Highlight(attrs.Highlight).Render(line)
	}

	return line
}

// renderCells lays the five row columns out proportionally to the width.
func renderCells(width int, state, action, name, section, version string) string {
	if width < 40 {
		width = 40
	}

	stateW := width * 12 / 100
	actionW := width * 16 / 100
	nameW := width * 34 / 100
	sectionW := width * 16 / 100
	versionW := width - stateW - actionW - nameW - sectionW - 4

	return strings.Join([]string{
		stringutil.PadCell(state, stateW),
		stringutil.PadCell(action, actionW),
		stringutil.PadCell(name, nameW),
		stringutil.PadCell(section, sectionW),
		stringutil.PadCell(version, versionW),
	}, " ")
}

func (m *Model) renderFooter() string {
	status := m.statusLine
	if status == "" {
		status = positionStatus(m.view.Store(), m.cursor, len(m.selected))
	}

	styled := m.styles.MutedText.Render(status)
	if m.statusErr {
		styled = m.styles.ErrorText.Render(status)
	}

	hints := "i install · r remove · p purge · c keep · h hold · u undo · / limit · g group · ? help · q quit"
	if m.limitActive {
		hints = m.styles.LimitInput.Render(m.limitInput.View())
	}

	return styled + "\n" + m.styles.Footer.Width(m.width).Render(hints)
}

func positionStatus(store *listmodel.Store, cursor, selected int) string {
	if store == nil {
		return "no list"
	}

	s := fmt.Sprintf("%d/%d", min(cursor+1, store.Len()), store.Len())
	if selected > 0 {
		s += fmt.Sprintf(" · %d selected", selected)
	}

	return s
}

func displayLimit(expr string) string {
	if strings.TrimSpace(expr) == "" {
		return "(none)"
	}

	return expr
}

func describeEntry(entry catalog.Entry) string {
	pkg := entry.Pkg
	desc := fmt.Sprintf("%s · %s · %s", pkg.Name, pkg.Section, pkg.State)

	if ver := pkg.DisplayVersion(); ver != nil {
		desc += " · " + ver.Number
	}

	if pkg.Upgradable() {
		desc += " · upgradable to " + pkg.Candidate.Number
	}

	if pkg.Pinned {
		desc += " · pinned"
	}

	return desc
}

func describeActions(ev listmodel.ContextMenuEvent) string {
	if len(ev.Actions) == 0 {
		return "no applicable actions"
	}

	names := make([]string, 0, len(ev.Actions))
	for _, a := range ev.Actions {
		names = append(names, a.String())
	}

	return fmt.Sprintf("%d selected · actions: %s",
		len(ev.Entries), strings.Join(names, ", "))
}
