// Package tui is the interactive Bubble Tea front end over a session.
// Every action writes through to the store as it happens.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/session"
	"github.com/idilsaglam/todolist/internal/ui"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeLines   = 6 // panel border, filter bar, spacing
	inputLines    = 4
)

// Model implements tea.Model.
type Model struct {
	s    *session.Session
	log  *zap.Logger
	keys keyMap

	list  list.Model
	input textinput.Model
	mode  mode

	width, height int
}

// New builds the UI over s. Errors from the store are logged to log, never shown.
func New(s *session.Session, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	t := ui.Current()
	keys := defaultKeys()

	l := list.New(nil, delegate{}, defaultWidth-4, defaultHeight-chromeLines)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		s:      s,
		log:    log,
		keys:   keys,
		list:   l,
		input:  ti,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(s *session.Session, log *zap.Logger) error {
	_, err := tea.NewProgram(New(s, log), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	// typed text never swallows ctrl+c, whatever the mode
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd:
		return m.updateAdd(msg)
	case modeEdit:
		return m.updateEdit(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(km, m.keys.Add):
		m.mode = modeAdd
		m.input.Placeholder = "What needs to be done?"
		m.input.SetValue(m.s.Input())
		m.input.CursorEnd()
		m.resize()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(km, m.keys.Toggle):
		if id, ok := m.selected(); ok {
			m.check(m.s.ToggleTodo(id), "toggle")
			m.refresh()
		}
		return m, nil

	case key.Matches(km, m.keys.Edit):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.s.StartEditing(id); err != nil {
			m.check(err, "start edit")
			return m, nil
		}
		m.mode = modeEdit
		m.input.Placeholder = ui.Placeholder
		m.input.SetValue(m.s.Draft())
		m.input.CursorEnd()
		m.refresh()
		m.resize()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(km, m.keys.Delete):
		if id, ok := m.selected(); ok {
			m.check(m.s.RemoveTodo(id), "remove")
			m.refresh()
		}
		return m, nil

	case key.Matches(km, m.keys.Clear):
		n := m.s.ClearCompleted()
		m.log.Debug("cleared completed", zap.Int("removed", n))
		m.refresh()
		return m, nil

	case key.Matches(km, m.keys.NextFilter):
		m.setFilter(m.s.Filter().Next())
		return m, nil
	case key.Matches(km, m.keys.All):
		m.setFilter(model.FilterAll)
		return m, nil
	case key.Matches(km, m.keys.Active):
		m.setFilter(model.FilterActive)
		return m, nil
	case key.Matches(km, m.keys.Completed):
		m.setFilter(model.FilterCompleted)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Save):
			m.s.SetInput(m.input.Value())
			it := m.s.AddTodo()
			m.leaveInput()
			m.refresh()
			m.selectID(it.ID)
			return m, nil
		case key.Matches(km, m.keys.Cancel):
			// the buffer survives; a later add starts from it
			m.s.SetInput(m.input.Value())
			m.leaveInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.s.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	id, editing := m.s.Editing()
	if !editing {
		m.leaveInput()
		m.refresh()
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Save):
			m.s.SetDraft(m.input.Value())
			m.check(m.s.SaveEdit(id), "save edit")
			m.leaveInput()
			m.refresh()
			return m, nil
		case key.Matches(km, m.keys.Cancel):
			m.s.CancelEdit()
			m.leaveInput()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.s.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) View() string {
	t := ui.Current()

	var b strings.Builder
	b.WriteString(m.filterBar())
	b.WriteString("\n\n")
	if len(m.s.Items()) == 0 {
		b.WriteString(ui.Header(0, 0))
		b.WriteString("\n\n")
		b.WriteString(t.Muted.Render("No todos yet. Press a to add one."))
	} else {
		b.WriteString(m.list.View())
	}

	if m.mode != modeList {
		title := "Add new item"
		hint := "enter add · esc cancel"
		if m.mode == modeEdit {
			title = "Edit item"
			hint = "enter save · esc cancel"
		}
		bar := ui.Panel([]string{title + "  " + t.Help.Render(hint), m.input.View()})
		b.WriteString("\n")
		b.WriteString(bar)
	}
	return ui.Panel([]string{b.String()})
}

// filterBar renders the three modes with the current one inert, and the
// clear action that is offered under every filter.
func (m Model) filterBar() string {
	t := ui.Current()
	parts := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.s.Filter() {
			parts = append(parts, t.Inert.Render("["+f.Label()+"]"))
		} else {
			parts = append(parts, t.Accent.Render(f.Label()))
		}
	}
	return strings.Join(parts, "  ") + "    " + t.Error.Render("C Clear Completed")
}

// refresh rebuilds the rows from the session, keeping the cursor on the
// same item when it is still visible.
func (m *Model) refresh() {
	prev, hadPrev := m.selected()
	editing, _ := m.s.Editing()

	visible := m.s.Visible()
	rows := make([]list.Item, 0, len(visible))
	for _, it := range visible {
		rows = append(rows, row{item: it})
	}
	m.list.SetDelegate(delegate{editing: editing})
	m.list.SetItems(rows)

	done, pending := m.s.Stats()
	m.list.Title = ui.Header(done, pending)

	if hadPrev {
		m.selectID(prev)
	}
	if n := len(rows); m.list.Index() >= n && n > 0 {
		m.list.Select(n - 1)
	}
}

func (m *Model) setFilter(f model.Filter) {
	m.s.SetFilter(f)
	m.refresh()
}

func (m *Model) selectID(id string) {
	for i, li := range m.list.Items() {
		if r, ok := li.(row); ok && r.item.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) selected() (string, bool) {
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return "", false
	}
	return r.item.ID, true
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
}

func (m *Model) resize() {
	h := m.height - chromeLines
	if m.mode != modeList {
		h -= inputLines
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

// check logs err; nothing is surfaced in the UI.
func (m Model) check(err error, op string) {
	if err != nil {
		m.log.Warn(op, zap.Error(err))
	}
}
