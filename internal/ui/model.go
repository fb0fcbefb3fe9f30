// Package ui is the terminal front end of the task list.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/todolist"
)

type focus int

const (
	focusInput focus = iota
	focusList
	focusEdit
)

// Model renders a todolist.Controller and feeds it key presses and
// request results.
type Model struct {
	ctl    *todolist.Controller
	keys   KeyMap
	help   help.Model
	styles Styles

	input textinput.Model
	draft textinput.Model

	focus  focus
	cursor int
}

func New(ctl *todolist.Controller) Model {
	input := textinput.New()
	input.Placeholder = "Add a new task"
	input.CharLimit = 200
	input.Focus()

	draft := textinput.New()
	draft.CharLimit = 200

	return Model{
		ctl:    ctl,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: NewStyles(),
		input:  input,
		draft:  draft,
		focus:  focusInput,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.ctl.Load())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.ctl.Update(msg) {
		m.sync()
		return m, nil
	}

	var inputCmd, draftCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.draft, draftCmd = m.draft.Update(msg)
	return m, tea.Batch(inputCmd, draftCmd)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// the alert blocks everything until dismissed
	if m.ctl.Alert() != "" {
		if key.Matches(msg, m.keys.Submit, m.keys.Back) {
			m.ctl.DismissAlert()
		}
		return m, nil
	}

	switch m.focus {
	case focusInput:
		return m.updateInput(msg)
	case focusEdit:
		return m.updateEdit(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.ctl.Add(m.input.Value())
	case key.Matches(msg, m.keys.Focus, m.keys.Back):
		return m, m.setFocus(focusList)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctl.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		s, ok := m.ctl.Edit()
		if !ok || s.Index < 0 {
			return m, m.setFocus(focusList)
		}
		return m, m.ctl.SaveEdit(s.Index)
	case key.Matches(msg, m.keys.Focus, m.keys.Back):
		return m, m.setFocus(focusList)
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	m.ctl.SetDraft(m.draft.Value())
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.ctl.View().Rows

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		return m, m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return m, m.ctl.ToggleComplete(m.cursor)
	case key.Matches(msg, m.keys.Edit):
		if m.cursor < len(rows) {
			title := rows[m.cursor].Task.Title
			m.ctl.StartEdit(m.cursor, title)
			m.draft.SetValue(title)
			m.draft.CursorEnd()
			return m, m.setFocus(focusEdit)
		}
	case key.Matches(msg, m.keys.Submit):
		// resume an edit left with esc
		if s, ok := m.ctl.Edit(); ok && s.Index == m.cursor {
			m.draft.SetValue(s.Draft)
			m.draft.CursorEnd()
			return m, m.setFocus(focusEdit)
		}
	case key.Matches(msg, m.keys.Remove):
		return m, m.ctl.Remove(m.cursor)
	case key.Matches(msg, m.keys.All):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.Pending):
		m.setFilter(model.FilterPending)
	case key.Matches(msg, m.keys.SelectAll):
		return m, m.ctl.ToggleSelectAll()
	case key.Matches(msg, m.keys.DeleteAll):
		return m, m.ctl.DeleteAll()
	}
	return m, nil
}

func (m *Model) setFilter(f model.Filter) {
	m.ctl.SetFilter(f)
	m.cursor = 0
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.input.Blur()
	m.draft.Blur()
	switch f {
	case focusInput:
		return m.input.Focus()
	case focusEdit:
		return m.draft.Focus()
	}
	return nil
}

// sync pulls controller state the widgets mirror after a request result.
func (m *Model) sync() {
	if m.input.Value() != m.ctl.Input() {
		m.input.SetValue(m.ctl.Input())
	}
	if n := len(m.ctl.View().Rows); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if s, ok := m.ctl.Edit(); (!ok || s.Index < 0) && m.focus == focusEdit {
		m.setFocus(focusList)
	}
}

func (m Model) View() string {
	v := m.ctl.View()
	if v.Alert != "" {
		return m.styles.Alert.Render(v.Alert+"\n\n"+m.styles.Muted.Render("enter to dismiss")) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("To-Do List"))
	if v.Pending > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  syncing %d…", v.Pending)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderFilters(v.Filter))
	b.WriteString("\n")
	b.WriteString(checkbox(v.SelectAll) + " Select All\n\n")

	if v.Empty {
		b.WriteString(m.styles.Muted.Render(todolist.EmptyMessage))
		b.WriteString("\n")
	}
	for _, row := range v.Rows {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderFilters(active model.Filter) string {
	filters := []struct {
		f     model.Filter
		label string
	}{
		{model.FilterAll, "All"},
		{model.FilterCompleted, "Completed"},
		{model.FilterPending, "Pending"},
	}

	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		style := m.styles.Filter
		if f.f == active {
			style = m.styles.Active
		}
		parts = append(parts, style.Render(f.label))
	}
	return strings.Join(parts, "")
}

func (m Model) renderRow(row todolist.Row) string {
	marker := "  "
	if m.focus != focusInput && row.Index == m.cursor {
		marker = m.styles.Selected.Render("> ")
	}
	box := checkbox(row.Task.Completed)

	if row.Editing {
		if m.focus == focusEdit {
			return marker + box + " " + m.draft.View()
		}
		return marker + box + " " + row.Draft + m.styles.Muted.Render("  (editing, enter to resume)")
	}

	title := row.Task.Title
	if row.Task.Completed {
		title = m.styles.Done.Render(title)
	}
	return marker + box + " " + title
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}
