package model

import (
	"fmt"
	"time"
)

// DueDateLayout is the storage and wire format for task due dates.
// A due date is a pure calendar date with no time-of-day component.
const DueDateLayout = "2006-01-02"

// Task is a single todo item owned by one user. A task normally lives
// inside a task list; quick-add tasks may exist without one.
type Task struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	TaskListID *string    `json:"tasklist_id,omitempty" db:"tasklist_id"`
	Title      string     `json:"title" db:"title"`
	Completed  bool       `json:"is_completed" db:"is_completed"`
	Important  bool       `json:"is_important" db:"is_important"`
	Due        *string    `json:"due,omitempty" db:"due"`
	RemindAt   *time.Time `json:"remind_at,omitempty" db:"remind_at"`
	Notified   bool       `json:"-" db:"notified"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`

	// ListTitle is populated by quick views that span multiple lists.
	// It stays nil for queries scoped to a single list.
	ListTitle *string `json:"list_title,omitempty" db:"list_title"`
}

// ValidateDueDate checks that s is a calendar date in DueDateLayout form.
func ValidateDueDate(s string) error {
	if _, err := time.Parse(DueDateLayout, s); err != nil {
		return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", s)
	}
	return nil
}
