package store

import (
	"context"
	"errors"
	"time"

	"github.com/pvesely/webplanner/internal/model"
)

// ErrNotFound is returned when a row does not exist or is not visible to
// the requesting owner. Callers must not be able to distinguish the two.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with an existing row,
// e.g. a duplicate list title for the same owner.
var ErrConflict = errors.New("already exists")

// TaskView names one of the predefined filter+sort combinations over tasks.
type TaskView string

const (
	ViewByList    TaskView = "by-list"
	ViewAll       TaskView = "all"
	ViewDueToday  TaskView = "due-today"
	ViewOverdue   TaskView = "overdue"
	ViewImportant TaskView = "important"
	ViewCompleted TaskView = "completed"
)

// Sort keys accepted by task queries. Anything outside this set falls
// back to the view's default ordering.
const (
	SortTitleAsc    = "title_asc"
	SortTitleDesc   = "title_desc"
	SortDueAsc      = "due_asc"
	SortDueDesc     = "due_desc"
	SortCreatedAsc  = "created_asc"
	SortCreatedDesc = "created_desc"
)

// TaskQuery selects a task view for one owner.
type TaskQuery struct {
	View TaskView

	// ListID scopes ViewByList; ignored by the other views.
	ListID string

	// Sort is an optional user-chosen secondary sort key.
	Sort string
}

// TaskUpdate carries the full replacement state for a task edit.
type TaskUpdate struct {
	Title     string
	Completed bool
	Important bool
	Due       *string
	RemindAt  *time.Time
}

// EventUpdate carries the replacement state for an event edit.
type EventUpdate struct {
	Title   string
	StartAt time.Time
	EndAt   *time.Time
	AllDay  bool
}

// Store defines the persistence interface for users, task lists, tasks,
// and calendar events.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// === Task lists ===

	GetLists(ctx context.Context, ownerID string) ([]model.TaskList, error)
	CreateList(ctx context.Context, ownerID, title string) (model.TaskList, error)
	DeleteList(ctx context.Context, ownerID, id string) error

	// === Tasks ===

	GetTasks(ctx context.Context, ownerID string, q TaskQuery) ([]model.Task, error)
	GetTaskByID(ctx context.Context, ownerID, id string) (*model.Task, error)
	CreateTask(ctx context.Context, ownerID, listID, title string) (model.Task, error)
	UpdateTask(ctx context.Context, ownerID, id string, upd TaskUpdate) error
	SetTaskCompleted(ctx context.Context, ownerID, id string, completed bool) error
	SetTaskImportant(ctx context.Context, ownerID, id string, important bool) error
	DeleteTask(ctx context.Context, ownerID, id string) error

	// === Reminders ===

	// DueReminders returns tasks across all owners whose reminder has
	// elapsed and has not yet been delivered.
	DueReminders(ctx context.Context, now time.Time) ([]model.Task, error)

	// MarkNotified records a successful delivery. It reports false when
	// the task was already notified, making the transition idempotent.
	MarkNotified(ctx context.Context, id string) (bool, error)

	// === Events ===

	GetEvents(ctx context.Context, ownerID string) ([]model.Event, error)
	CreateEvent(ctx context.Context, ownerID string, upd EventUpdate) (model.Event, error)
	UpdateEvent(ctx context.Context, ownerID, id string, upd EventUpdate) error
	DeleteEvent(ctx context.Context, ownerID, id string) error
}
