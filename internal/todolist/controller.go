// Package todolist holds the state of the task list screen and turns user
// gestures into task service requests.
//
// Every request runs inside a tea.Cmd and reports back with a message. The
// controller only changes state in Update, on the program's event loop, so
// it needs no locking. Requests capture the task id when they are issued
// and their results are applied by id, never by list position.
package todolist

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

// AddFailedAlert is shown when a task could not be created.
const AddFailedAlert = "Failed to add task. Please try again."

// TaskService is the remote task collection.
type TaskService interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, t model.Task, idempotencyKey string) (model.Task, error)
	Replace(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// EditSession is the single task being retitled.
type EditSession struct {
	Index  int // position in the filtered view, -1 while the filter hides the task
	TaskID int64
	Draft  string
}

// editSession follows its task by id so the list can change under it.
type editSession struct {
	taskID int64
	draft  string
	seq    int
}

// Controller is the task list screen state: the task cache, the filter,
// the add input, the edit session and the alert. It is not safe for
// concurrent use; drive it from a single goroutine.
type Controller struct {
	svc     TaskService
	logger  *zap.Logger
	ctx     context.Context
	timeout time.Duration
	newKey  func() string

	tasks     []model.Task
	filter    model.Filter
	edit      *editSession
	editSeq   int
	selectAll bool
	input     string
	alert     string
	pending   int

	// idempotency key reused while the same title is retried
	addKey      string
	addKeyTitle string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger request failures are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithRequestTimeout bounds each request. Zero means no bound beyond the
// client's own.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithContext sets the parent context of every request.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// WithKeyFunc replaces the idempotency key generator.
func WithKeyFunc(fn func() string) Option {
	return func(c *Controller) { c.newKey = fn }
}

// New returns a controller over svc with an empty cache and the all filter.
// Nothing is fetched until Load.
func New(svc TaskService, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		logger: zap.NewNop(),
		ctx:    context.Background(),
		newKey: uuid.NewString,
		filter: model.FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the whole collection.
func (c *Controller) Load() tea.Cmd {
	svc := c.svc
	return c.request(func(ctx context.Context) tea.Msg {
		tasks, err := svc.List(ctx)
		return loadedMsg{tasks: tasks, err: err}
	})
}

// Add creates a task titled title. Blank titles are ignored.
func (c *Controller) Add(title string) tea.Cmd {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	if c.addKey == "" || c.addKeyTitle != title {
		c.addKey, c.addKeyTitle = c.newKey(), title
	}

	svc, key := c.svc, c.addKey
	return c.request(func(ctx context.Context) tea.Msg {
		task, err := svc.Create(ctx, model.Task{Title: title, Completed: false}, key)
		return addedMsg{key: key, task: task, err: err}
	})
}

// Remove deletes the task at index of the filtered view.
func (c *Controller) Remove(index int) tea.Cmd {
	t, ok := c.resolve(index)
	if !ok {
		return nil
	}

	svc, id := c.svc, t.ID
	return c.request(func(ctx context.Context) tea.Msg {
		return removedMsg{id: id, err: svc.Delete(ctx, id)}
	})
}

// ToggleComplete flips completion of the task at index of the filtered view.
func (c *Controller) ToggleComplete(index int) tea.Cmd {
	t, ok := c.resolve(index)
	if !ok {
		return nil
	}
	return c.toggle(t)
}

func (c *Controller) toggle(t model.Task) tea.Cmd {
	flipped := t
	flipped.Completed = !t.Completed

	svc := c.svc
	return c.request(func(ctx context.Context) tea.Msg {
		task, err := svc.Replace(ctx, flipped)
		return toggledMsg{id: t.ID, task: task, err: err}
	})
}

// StartEdit opens an edit session on the task at index of the filtered
// view, seeded with currentTitle. Any previous session is dropped unsaved.
// An index outside the view opens nothing.
func (c *Controller) StartEdit(index int, currentTitle string) {
	t, ok := c.resolve(index)
	if !ok {
		return
	}
	c.editSeq++
	c.edit = &editSession{taskID: t.ID, draft: currentTitle, seq: c.editSeq}
}

// SetDraft replaces the draft of the open session.
func (c *Controller) SetDraft(draft string) {
	if c.edit != nil {
		c.edit.draft = draft
	}
}

// SaveEdit retitles the task of the open session with its draft. index must
// be where that task sits in the filtered view now; a mismatch, a blank
// draft or a task that is gone issues no request.
func (c *Controller) SaveEdit(index int) tea.Cmd {
	if c.edit == nil || strings.TrimSpace(c.edit.draft) == "" {
		return nil
	}
	if at := c.viewIndex(c.edit.taskID); at < 0 || at != index {
		c.logger.Debug("edit session is not at index",
			zap.Int64("task_id", c.edit.taskID), zap.Int("index", index), zap.Int("at", at))
		return nil
	}

	edited := c.tasks[c.indexOf(c.edit.taskID)]
	edited.Title = c.edit.draft

	svc, seq := c.svc, c.edit.seq
	return c.request(func(ctx context.Context) tea.Msg {
		task, err := svc.Replace(ctx, edited)
		return editSavedMsg{id: edited.ID, seq: seq, task: task, err: err}
	})
}

// DeleteAll removes the whole collection. It does nothing unless select
// all is on.
func (c *Controller) DeleteAll() tea.Cmd {
	if !c.selectAll {
		return nil
	}

	svc := c.svc
	return c.request(func(ctx context.Context) tea.Msg {
		return clearedMsg{err: svc.DeleteAll(ctx)}
	})
}

// ToggleSelectAll flips the selection flag and sends one completion toggle
// per cached task. The toggles are independent: each applies or fails on
// its own.
//
// Pressing it twice does not restore the original completion states if any
// toggle failed or completion changed in between.
func (c *Controller) ToggleSelectAll() tea.Cmd {
	c.selectAll = !c.selectAll

	cmds := make([]tea.Cmd, 0, len(c.tasks))
	for _, t := range c.tasks {
		cmds = append(cmds, c.toggle(t))
	}
	return tea.Batch(cmds...)
}

// SetFilter changes which tasks the view shows. The cache is untouched.
func (c *Controller) SetFilter(f model.Filter) {
	c.filter = f
}

// SetInput records the text of the add input.
func (c *Controller) SetInput(s string) {
	c.input = s
}

// DismissAlert clears the alert, if any.
func (c *Controller) DismissAlert() {
	c.alert = ""
}

// Filter is the active view filter.
func (c *Controller) Filter() model.Filter { return c.filter }

// Input is the text of the add input. It is cleared when a task is added.
func (c *Controller) Input() string { return c.input }

// Alert is the message blocking the screen, or "" when there is none.
func (c *Controller) Alert() string { return c.alert }

// SelectAll reports whether select all is on.
func (c *Controller) SelectAll() bool { return c.selectAll }

// Pending is the number of requests still in flight.
func (c *Controller) Pending() int { return c.pending }

// Tasks returns a copy of the cache in server order.
func (c *Controller) Tasks() []model.Task {
	return append([]model.Task(nil), c.tasks...)
}

// Edit returns the open edit session, if any.
func (c *Controller) Edit() (EditSession, bool) {
	if c.edit == nil {
		return EditSession{}, false
	}
	return EditSession{
		Index:  c.viewIndex(c.edit.taskID),
		TaskID: c.edit.taskID,
		Draft:  c.edit.draft,
	}, true
}

// request wraps fn in a command bounded by the request timeout.
func (c *Controller) request(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	c.pending++
	parent, timeout := c.ctx, c.timeout
	return func() tea.Msg {
		ctx := parent
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(parent, timeout)
			defer cancel()
		}
		return fn(ctx)
	}
}

// resolve maps a filtered view index to the cached task.
func (c *Controller) resolve(index int) (model.Task, bool) {
	i := 0
	for _, t := range c.tasks {
		if !c.filter.Matches(t) {
			continue
		}
		if i == index {
			return t, true
		}
		i++
	}
	c.logger.Debug("index outside filtered view", zap.Int("index", index), zap.String("filter", string(c.filter)))
	return model.Task{}, false
}

// viewIndex is the position of the task with id in the filtered view, or -1.
func (c *Controller) viewIndex(id int64) int {
	i := 0
	for _, t := range c.tasks {
		if !c.filter.Matches(t) {
			continue
		}
		if t.ID == id {
			return i
		}
		i++
	}
	return -1
}

func (c *Controller) indexOf(id int64) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
