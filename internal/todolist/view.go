package todolist

import "github.com/BuzzLyutic/todo-list/internal/model"

// EmptyMessage replaces the list when no task passes the filter.
const EmptyMessage = "No tasks available. Add a new task!"

// Row is one visible task.
type Row struct {
	Index   int // position in the filtered view
	Task    model.Task
	Editing bool
	Draft   string // set when Editing
}

// View is what the screen shows for the current state.
type View struct {
	Rows      []Row
	Empty     bool
	Filter    model.Filter
	SelectAll bool
	Input     string
	Alert     string
	Pending   int
}

// View computes the filtered rows from the cache. Nothing is memoized.
func (c *Controller) View() View {
	v := View{
		Filter:    c.filter,
		SelectAll: c.selectAll,
		Input:     c.input,
		Alert:     c.alert,
		Pending:   c.pending,
	}
	for _, t := range c.tasks {
		if !c.filter.Matches(t) {
			continue
		}
		row := Row{Index: len(v.Rows), Task: t}
		if c.edit != nil && c.edit.taskID == t.ID {
			row.Editing = true
			row.Draft = c.edit.draft
		}
		v.Rows = append(v.Rows, row)
	}
	v.Empty = len(v.Rows) == 0
	return v
}
