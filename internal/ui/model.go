package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/gubarz/coursemd/internal/backend"
	"github.com/gubarz/coursemd/internal/content"
	"github.com/gubarz/coursemd/internal/editor"
	"github.com/gubarz/coursemd/internal/executor"
	"github.com/gubarz/coursemd/internal/logger"
	"github.com/gubarz/coursemd/internal/markup"
	"github.com/gubarz/coursemd/internal/parser"
)

// ============================================================================
// Messages
// ============================================================================

// autosaveMsg fires when a debounce timer elapses
type autosaveMsg struct {
	generation uint64
}

// persistedMsg reports the outcome of a persistence call
type persistedMsg struct {
	revision uuid.UUID
	err      error
}

// scheduleAutosave arms the debounce timer for an edit
func scheduleAutosave(t editor.Timer) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return autosaveMsg{generation: t.Generation}
	})
}

// ============================================================================
// Model
// ============================================================================

// uiView is the screen currently shown
type uiView int

const (
	viewList    uiView = iota // Browsing subsections
	viewEdit                  // Editing a page
	viewPreview               // Rendered preview
)

// editField is the focused input while editing
type editField int

const (
	fieldContent editField = iota
	fieldTitle
	fieldTakeaway
	fieldCount
)

type model struct {
	width    int
	height   int
	quitting bool

	view uiView
	back uiView // where the preview returns to

	path        string
	editor      *editor.Editor
	executor    *executor.Executor
	watcher     *fsnotify.Watcher
	newRenderer RendererFactory
	log         *logger.Logger

	// List state
	items  []parser.SubsectionView
	cursor int
	offset int
	page   int

	// Edit state
	content  textarea.Model
	title    textinput.Model
	takeaway textinput.Model
	focus    editField

	preview viewport.Model

	status    string
	statusErr bool
}

func newModel(path string, ed *editor.Editor, exec *executor.Executor, factory RendererFactory, log *logger.Logger) model {
	ta := textarea.New()
	ta.Placeholder = "Page content"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	ti := textinput.New()
	ti.Placeholder = "Page title"
	ti.CharLimit = 256

	tk := textinput.New()
	tk.Placeholder = "Key takeaway"
	tk.CharLimit = 1024

	if log == nil {
		log = logger.Nop()
	}

	m := model{
		path:        path,
		editor:      ed,
		executor:    exec,
		newRenderer: factory,
		log:         log,
		content:     ta,
		title:       ti,
		takeaway:    tk,
		preview:     viewport.New(80, 20),
	}
	m.resize(80, 24)
	m.refreshItems()
	return m
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return waitForChange(m.watcher, m.path)
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case autosaveMsg:
		cmd := m.handleAutosave(msg)
		return m, cmd
	case persistedMsg:
		cmd := m.handlePersisted(msg)
		return m, cmd
	case moduleChangedMsg:
		m.handleModuleChanged(msg)
		return m, waitForChange(m.watcher, m.path)
	case watchStoppedMsg:
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	// Dispatch based on view
	switch m.view {
	case viewEdit:
		return m.updateEdit(msg)
	case viewPreview:
		return m.updatePreview(msg)
	default:
		return m.updateList(msg)
	}
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	m.content.SetWidth(max(width-4, 20))
	m.content.SetHeight(max(height-10, 3))
	m.title.Width = max(width-14, 10)
	m.takeaway.Width = max(width-14, 10)
	m.preview.Width = width
	m.preview.Height = max(height-2, 3)
}

func (m *model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// refreshItems rebuilds the subsection list from the editor's module
func (m *model) refreshItems() {
	mod := m.editor.Module()
	m.items = parser.Merge(parser.ParseHeadings(mod.Content), mod.DetailedSubsections)
	m.cursor = clamp(m.cursor, 0, max(0, len(m.items)-1))
	m.page = clamp(m.page, 0, max(0, m.pageCount()-1))
}

// pageCount returns how many pages the highlighted subsection can be edited as
func (m model) pageCount() int {
	if m.cursor >= len(m.items) {
		return 0
	}
	raw, ok := m.editor.Subsection(m.items[m.cursor].Index)
	if !ok {
		return 0
	}
	paged, ok := content.ToPages(raw)
	if !ok {
		return 0
	}
	return len(paged.Pages)
}

// ============================================================================
// Persistence
// ============================================================================

func (m *model) handleAutosave(msg autosaveMsg) tea.Cmd {
	sig, ok := m.editor.Fire(msg.generation)
	if !ok {
		return nil
	}
	m.setStatus("saving...", false)
	return m.persistCmd(sig)
}

func (m model) persistCmd(sig editor.Signal) tea.Cmd {
	exec := m.executor
	return func() tea.Msg {
		err := exec.Persist(context.Background(), sig)
		return persistedMsg{revision: sig.Revision, err: err}
	}
}

func (m *model) handlePersisted(msg persistedMsg) tea.Cmd {
	timer, rearm := m.editor.Saved(msg.err)
	if msg.err != nil {
		m.setStatus("save failed: "+userMessage(msg.err), true)
	} else {
		m.log.Debug("save confirmed", "revision", msg.revision.String())
		m.setStatus("saved", false)
	}
	if rearm {
		return scheduleAutosave(timer)
	}
	return nil
}

// userMessage prefers the server's own message for backend failures
func userMessage(err error) string {
	var apiErr *backend.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (m *model) handleModuleChanged(msg moduleChangedMsg) {
	if msg.err != nil {
		m.log.Warn("reload failed", "path", m.path, "error", msg.err)
		m.setStatus("reload failed: "+msg.err.Error(), true)
		return
	}
	if m.editor.HasSession() {
		m.setStatus("file changed on disk; keeping your edit", false)
		return
	}
	if m.editor.State() != editor.Clean {
		m.log.Debug("reload skipped with unsaved edits", "state", m.editor.State().String())
		return
	}
	if m.editor.ReplaceModule(msg.module) {
		m.refreshItems()
		m.setStatus("reloaded from disk", false)
	}
}

// ============================================================================
// List View
// ============================================================================

func (m model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "left", "h":
		m.page = clamp(m.page-1, 0, max(0, m.pageCount()-1))
	case "right", "l":
		m.page = clamp(m.page+1, 0, max(0, m.pageCount()-1))
	case "enter", "e":
		cmd := m.openSession()
		return m, cmd
	case "p":
		m.previewSelected()
	case "ctrl+s":
		if sig, ok := m.editor.Flush(); ok {
			m.setStatus("saving...", false)
			return m, m.persistCmd(sig)
		}
	}
	return m, nil
}

func (m *model) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.items)-1))
	m.page = 0
}

func (m *model) openSession() tea.Cmd {
	if m.cursor >= len(m.items) {
		return nil
	}
	item := m.items[m.cursor]
	if item.Index < 0 {
		m.setStatus(fmt.Sprintf("%s has no generated content yet", item.Number), true)
		return nil
	}
	s, err := m.editor.OpenSession(item.Index, m.page)
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.content.SetValue(s.Content)
	m.title.SetValue(s.Title)
	m.takeaway.SetValue(s.Takeaway)
	m.setFocus(fieldContent)
	m.view = viewEdit
	m.setStatus("", false)
	return textarea.Blink
}

func (m *model) previewSelected() {
	if m.cursor >= len(m.items) {
		return
	}
	item := m.items[m.cursor]
	raw, _ := m.editor.Subsection(item.Index)
	title := strings.TrimSpace(item.Number + " " + item.Title)
	m.showPreview(subsectionMarkdown(title, raw, m.page), viewList)
}

// ============================================================================
// Edit View
// ============================================================================

func (m model) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+s":
			cmd := m.saveSession()
			return m, cmd
		case "esc":
			cmd := m.cancelSession()
			return m, cmd
		case "ctrl+t":
			m.toggleMode()
			return m, nil
		case "ctrl+p":
			m.showPreview(m.sessionMarkdown(), viewEdit)
			return m, nil
		case "tab":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		}
	}

	var (
		cmd tea.Cmd
		err error
	)
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
		err = m.editor.SetSessionTitle(m.title.Value())
	case fieldTakeaway:
		m.takeaway, cmd = m.takeaway.Update(msg)
		err = m.editor.SetSessionTakeaway(m.takeaway.Value())
	default:
		m.content, cmd = m.content.Update(msg)
		err = m.editor.SetSessionContent(m.content.Value())
	}
	if err != nil {
		m.setStatus(err.Error(), true)
	}
	return m, cmd
}

func (m *model) setFocus(f editField) {
	m.focus = f
	m.content.Blur()
	m.title.Blur()
	m.takeaway.Blur()
	switch f {
	case fieldTitle:
		m.title.Focus()
	case fieldTakeaway:
		m.takeaway.Focus()
	default:
		m.content.Focus()
	}
}

func (m *model) saveSession() tea.Cmd {
	timer, err := m.editor.Save()
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.view = viewList
	m.refreshItems()
	m.setStatus("page saved", false)
	return scheduleAutosave(timer)
}

func (m *model) cancelSession() tea.Cmd {
	timer, rearm := m.editor.Cancel()
	m.view = viewList
	m.setStatus("edit discarded", false)
	if rearm {
		return scheduleAutosave(timer)
	}
	return nil
}

func (m *model) toggleMode() {
	s, err := m.editor.ToggleMode()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.content.SetValue(s.Content)
	m.setStatus("editing as "+string(s.Mode), false)
}

// sessionMarkdown renders the open session as markdown for preview
func (m model) sessionMarkdown() string {
	s, ok := m.editor.Session()
	if !ok {
		return ""
	}
	md := "# " + s.Title + "\n\n" + markup.As(s.Content, markup.ModeMarkdown)
	if s.Takeaway != "" {
		md += "\n\n> " + s.Takeaway
	}
	return md
}

// ============================================================================
// Preview View
// ============================================================================

func (m *model) showPreview(md string, back uiView) {
	out, err := m.render(md)
	if err != nil {
		m.setStatus("preview failed: "+err.Error(), true)
		return
	}
	m.preview.SetContent(out)
	m.preview.GotoTop()
	m.back = back
	m.view = viewPreview
}

func (m model) render(md string) (string, error) {
	if m.newRenderer == nil {
		return md, nil
	}
	r, err := m.newRenderer(max(m.width-2, 20))
	if err != nil {
		return "", err
	}
	return r.Render(ShieldMath(md))
}

func (m model) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q", "p", "ctrl+p":
			m.view = m.back
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m model) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewEdit:
		return m.renderEdit()
	case viewPreview:
		return m.preview.View() + "\n" + m.renderStatus("esc back • ↑/↓ scroll")
	default:
		return m.renderList()
	}
}

func (m *model) renderList() string {
	width := max(m.width, 40)
	height := max(m.height, 10)

	b := getBuilder()
	defer putBuilder(b)

	mod := m.editor.Module()
	b.WriteString(styles.Title.Render(truncateString(mod.Title, width)))
	b.WriteString("\n")
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	listHeight := max(height-4, 1)
	lines := 0
	if len(m.items) == 0 {
		b.WriteString(styles.Dim.Render("No subsections found"))
		b.WriteString("\n")
		lines++
	} else {
		start, end := scrollWindow(m.cursor, len(m.items), listHeight, &m.offset)
		for i := start; i < end; i++ {
			b.WriteString(m.renderItem(m.items[i], i == m.cursor, width))
			b.WriteString("\n")
			lines++
		}
	}
	b.WriteString(strings.Repeat("\n", max(listHeight-lines, 0)))
	b.WriteString(m.renderStatus("enter edit • ←/→ page • p preview • ctrl+s save • q quit"))
	return b.String()
}

func (m model) renderItem(item parser.SubsectionView, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = styles.Cursor.Render("▶ ")
	}

	badge := string(item.Content.Type)
	if selected {
		if n := m.pageCount(); n > 0 {
			badge = fmt.Sprintf("%s %d/%d", badge, m.page+1, n)
		}
	}

	numberStyle, titleStyle, dimStyle := styles.Number, styles.Title, styles.Badge
	if selected {
		numberStyle = styles.WithSelection(numberStyle)
		titleStyle = styles.WithSelection(titleStyle)
		dimStyle = styles.WithSelection(dimStyle)
	}

	title := truncateString(item.Title, max(width-40, 10))
	line := numberStyle.Render(fmt.Sprintf("%-8s", item.Number)) +
		titleStyle.Render(title) +
		dimStyle.Render("  ["+badge+"]")
	if item.UnitContext != "" {
		line += dimStyle.Render("  " + item.UnitContext)
	}
	return cursor + line
}

func (m model) renderEdit() string {
	b := getBuilder()
	defer putBuilder(b)

	s, _ := m.editor.Session()
	label := func(f editField, text string) string {
		if m.focus == f {
			return styles.ActiveLabel.Render(text)
		}
		return styles.Label.Render(text)
	}

	b.WriteString(label(fieldTitle, "Title     "))
	b.WriteString(m.title.View())
	b.WriteString("\n")
	b.WriteString(label(fieldTakeaway, "Takeaway  "))
	b.WriteString(m.takeaway.View())
	b.WriteString("\n")
	b.WriteString(label(fieldContent, fmt.Sprintf("Content (%s)", s.Mode)))
	b.WriteString("\n")
	b.WriteString(styles.Border.Render(m.content.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus("ctrl+s save • esc cancel • ctrl+t toggle html/markdown • ctrl+p preview • tab next field"))
	return b.String()
}

func (m model) renderStatus(help string) string {
	state := fmt.Sprintf("[%s] ", m.editor.State())
	var msg string
	if m.status != "" {
		if m.statusErr {
			msg = styles.Error.Render(m.status)
		} else {
			msg = styles.Status.Render(m.status)
		}
		msg += "  "
	}
	return styles.Status.Render(state) + msg + styles.Dim.Render(help)
}
