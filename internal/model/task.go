package model

// Task is a titled, completable unit of work. ID is assigned by the task
// service and never changes afterwards.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Filter selects which tasks of a list are shown. It is view state only and
// never sent to the task service.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// ParseFilter returns the filter named by s.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, FilterCompleted, FilterPending:
		return Filter(s), true
	}
	return "", false
}

// Matches reports whether t is visible under f. Unknown filters show
// everything.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}
