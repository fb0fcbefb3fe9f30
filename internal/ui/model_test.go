package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/todolist"
)

// fakeService keeps tasks in memory the way the task service would.
type fakeService struct {
	tasks     []model.Task
	nextID    int64
	createErr error
	creates   int
}

func (f *fakeService) List(context.Context) ([]model.Task, error) {
	return append([]model.Task(nil), f.tasks...), nil
}

func (f *fakeService) Create(_ context.Context, t model.Task, _ string) (model.Task, error) {
	f.creates++
	if f.createErr != nil {
		return model.Task{}, f.createErr
	}
	f.nextID++
	t.ID = f.nextID
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeService) Replace(_ context.Context, t model.Task) (model.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = t
			return t, nil
		}
	}
	return model.Task{}, errors.New("not found")
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeService) DeleteAll(context.Context) error {
	f.tasks = nil
	return nil
}

func newModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(todolist.New(svc))
	// blinking cursors would schedule ticks forever
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.draft.Cursor.SetMode(cursor.CursorStatic)
	return applyCmd(t, m, m.Init())
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	casted, ok := updated.(Model)
	require.True(t, ok, "expected Model, got %T", updated)
	return applyCmd(t, casted, cmd)
}

// applyCmd runs cmd and feeds its messages back, following batches.
func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			m = applyCmd(t, m, sub)
		}
		return m
	case tea.QuitMsg:
		return m
	default:
		return applyMsg(t, m, msg)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func seeded(t *testing.T, tasks ...model.Task) (Model, *fakeService) {
	t.Helper()
	svc := &fakeService{tasks: tasks, nextID: int64(len(tasks))}
	m := newModel(t, svc)
	m = applyMsg(t, m, keyType(tea.KeyTab))
	require.Equal(t, focusList, m.focus)
	return m, svc
}

func TestModel_LoadAndEmptyState(t *testing.T) {
	m := newModel(t, &fakeService{})

	assert.Contains(t, m.View(), todolist.EmptyMessage)
	assert.Equal(t, focusInput, m.focus)

	m, _ = seeded(t, model.Task{ID: 1, Title: "walk dog"})
	assert.Contains(t, m.View(), "walk dog")
	assert.NotContains(t, m.View(), todolist.EmptyMessage)
}

func TestModel_AddTask(t *testing.T) {
	svc := &fakeService{}
	m := newModel(t, svc)

	m = applyMsg(t, m, keyRunes("buy milk"))
	assert.Equal(t, "buy milk", m.ctl.Input())
	m = applyMsg(t, m, keyType(tea.KeyEnter))

	assert.Equal(t, []model.Task{{ID: 1, Title: "buy milk"}}, svc.tasks)
	assert.Equal(t, "", m.input.Value())
	assert.Contains(t, m.View(), "buy milk")
}

func TestModel_AddBlankTitle(t *testing.T) {
	svc := &fakeService{}
	m := newModel(t, svc)

	m = applyMsg(t, m, keyRunes("   "))
	m = applyMsg(t, m, keyType(tea.KeyEnter))

	assert.Zero(t, svc.creates)
	assert.Contains(t, m.View(), todolist.EmptyMessage)
}

func TestModel_AddFailureAlert(t *testing.T) {
	svc := &fakeService{createErr: errors.New("down")}
	m := newModel(t, svc)

	m = applyMsg(t, m, keyRunes("buy milk"))
	m = applyMsg(t, m, keyType(tea.KeyEnter))

	assert.Contains(t, m.View(), todolist.AddFailedAlert)

	// other keys are swallowed while the alert is up
	m = applyMsg(t, m, keyRunes("x"))
	assert.Equal(t, "buy milk", m.input.Value())
	assert.Contains(t, m.View(), todolist.AddFailedAlert)

	m = applyMsg(t, m, keyType(tea.KeyEnter))
	assert.NotContains(t, m.View(), todolist.AddFailedAlert)
	assert.Equal(t, "buy milk", m.input.Value())
	assert.Equal(t, 1, svc.creates)

	svc.createErr = nil
	m = applyMsg(t, m, keyType(tea.KeyEnter))
	assert.Equal(t, []model.Task{{ID: 1, Title: "buy milk"}}, svc.tasks)
	assert.Equal(t, "", m.input.Value())
}

func TestModel_ToggleAndRemove(t *testing.T) {
	m, svc := seeded(t, model.Task{ID: 1, Title: "a"}, model.Task{ID: 2, Title: "b"})

	m = applyMsg(t, m, keyRunes("j"))
	m = applyMsg(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Equal(t, []model.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b", Completed: true}}, m.ctl.Tasks())
	assert.Equal(t, svc.tasks, m.ctl.Tasks())

	m = applyMsg(t, m, keyRunes("d"))

	assert.Equal(t, []model.Task{{ID: 1, Title: "a"}}, m.ctl.Tasks())
	assert.Equal(t, 0, m.cursor)
}

func TestModel_EditTask(t *testing.T) {
	m, svc := seeded(t, model.Task{ID: 1, Title: "a"}, model.Task{ID: 2, Title: "b"})

	m = applyMsg(t, m, keyRunes("j"))
	m = applyMsg(t, m, keyRunes("e"))
	require.Equal(t, focusEdit, m.focus)
	assert.Equal(t, "b", m.draft.Value())

	m = applyMsg(t, m, keyRunes("ee"))
	s, ok := m.ctl.Edit()
	require.True(t, ok)
	assert.Equal(t, todolist.EditSession{Index: 1, TaskID: 2, Draft: "bee"}, s)

	// leave and come back without losing the draft
	m = applyMsg(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, focusList, m.focus)
	assert.Contains(t, m.View(), "bee")
	m = applyMsg(t, m, keyType(tea.KeyEnter))
	require.Equal(t, focusEdit, m.focus)

	m = applyMsg(t, m, keyType(tea.KeyEnter))

	assert.Equal(t, "bee", svc.tasks[1].Title)
	assert.Equal(t, "bee", m.ctl.Tasks()[1].Title)
	_, ok = m.ctl.Edit()
	assert.False(t, ok)
	assert.Equal(t, focusList, m.focus)
}

func TestModel_Filters(t *testing.T) {
	m, _ := seeded(t, model.Task{ID: 1, Title: "open task"}, model.Task{ID: 2, Title: "closed task", Completed: true})

	m = applyMsg(t, m, keyRunes("p"))
	assert.Equal(t, model.FilterPending, m.ctl.Filter())
	assert.Contains(t, m.View(), "open task")
	assert.NotContains(t, m.View(), "closed task")

	m = applyMsg(t, m, keyRunes("c"))
	assert.NotContains(t, m.View(), "open task")
	assert.Contains(t, m.View(), "closed task")

	// toggling in the completed view reaches the completed task
	m = applyMsg(t, m, keyRunes("x"))
	assert.False(t, m.ctl.Tasks()[1].Completed)
	assert.Contains(t, m.View(), todolist.EmptyMessage)

	m = applyMsg(t, m, keyRunes("a"))
	assert.Contains(t, m.View(), "open task")
	assert.Contains(t, m.View(), "closed task")
}

func TestModel_SelectAllAndDeleteAll(t *testing.T) {
	m, svc := seeded(t, model.Task{ID: 1, Title: "a"}, model.Task{ID: 2, Title: "b", Completed: true})

	// nothing happens until select all is on
	m = applyMsg(t, m, keyRunes("D"))
	assert.Len(t, m.ctl.Tasks(), 2)

	m = applyMsg(t, m, keyRunes("s"))
	assert.True(t, m.ctl.SelectAll())
	assert.Equal(t, []model.Task{{ID: 1, Title: "a", Completed: true}, {ID: 2, Title: "b"}}, m.ctl.Tasks())

	m = applyMsg(t, m, keyRunes("D"))
	assert.Empty(t, svc.tasks)
	assert.Empty(t, m.ctl.Tasks())
	assert.False(t, m.ctl.SelectAll())
	assert.Contains(t, m.View(), todolist.EmptyMessage)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, &fakeService{})

	// q is text while the input has focus
	updated, cmd := m.Update(keyRunes("q"))
	m = updated.(Model)
	assert.Equal(t, "q", m.input.Value())
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}

	m = applyMsg(t, m, keyType(tea.KeyTab))
	_, cmd = m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(keyType(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
