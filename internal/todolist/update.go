package todolist

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

type loadedMsg struct {
	tasks []model.Task
	err   error
}

type addedMsg struct {
	key  string
	task model.Task
	err  error
}

type removedMsg struct {
	id  int64
	err error
}

type toggledMsg struct {
	id   int64
	task model.Task
	err  error
}

type editSavedMsg struct {
	id   int64
	seq  int // session that issued the save
	task model.Task
	err  error
}

type clearedMsg struct {
	err error
}

// Update applies the result of a finished request. It reports whether msg
// belonged to the controller.
func (c *Controller) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case loadedMsg:
		c.done()
		if msg.err != nil {
			c.logger.Error("failed to fetch tasks", zap.Error(msg.err))
			return true
		}
		c.tasks = append([]model.Task(nil), msg.tasks...)
		c.edit = nil

	case addedMsg:
		c.done()
		if msg.err != nil {
			c.logger.Error("failed to add task", zap.Error(msg.err))
			c.alert = AddFailedAlert
			return true
		}
		// a replayed create returns a task we may already hold
		if i := c.indexOf(msg.task.ID); i >= 0 {
			c.tasks[i] = msg.task
		} else {
			c.tasks = append(c.tasks, msg.task)
		}
		c.input = ""
		if c.addKey == msg.key {
			c.addKey, c.addKeyTitle = "", ""
		}

	case removedMsg:
		c.done()
		if msg.err != nil {
			c.logger.Error("failed to remove task", zap.Int64("task_id", msg.id), zap.Error(msg.err))
			return true
		}
		if i := c.indexOf(msg.id); i >= 0 {
			c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
		}
		if c.edit != nil && c.edit.taskID == msg.id {
			c.edit = nil
		}

	case toggledMsg:
		c.done()
		if msg.err != nil {
			c.logger.Error("failed to toggle task completion", zap.Int64("task_id", msg.id), zap.Error(msg.err))
			return true
		}
		c.replace(msg.id, msg.task)

	case editSavedMsg:
		c.done()
		if msg.err != nil {
			c.logger.Error("failed to save task edit", zap.Int64("task_id", msg.id), zap.Error(msg.err))
			return true
		}
		c.replace(msg.id, msg.task)
		if c.edit != nil && c.edit.seq == msg.seq {
			c.edit = nil
		}

	case clearedMsg:
		c.done()
		if msg.err != nil {
			c.logger.Error("failed to delete all tasks", zap.Error(msg.err))
			return true
		}
		c.tasks = nil
		c.edit = nil
		c.selectAll = false

	default:
		return false
	}
	return true
}

func (c *Controller) done() {
	if c.pending > 0 {
		c.pending--
	}
}

// replace swaps the cached task with the given id for the server's copy.
// Results for tasks that are gone by now are dropped.
func (c *Controller) replace(id int64, t model.Task) {
	if i := c.indexOf(id); i >= 0 {
		c.tasks[i] = t
		return
	}
	c.logger.Debug("dropping result for uncached task", zap.Int64("task_id", id))
}
