package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pvesely/webplanner/internal/model"
)

// taskColumns is the shared SELECT column list for task queries.
const taskColumns = `tasks.id, tasks.user_id, tasks.tasklist_id, tasks.title,
	tasks.is_completed, tasks.is_important, tasks.due, tasks.remind_at,
	tasks.notified, tasks.created_at`

// taskSortClauses maps user-selectable sort keys to their SQL ordering.
// The completed/important prefix is prepended separately so the policy
// cannot drift between views.
var taskSortClauses = map[string]string{
	SortTitleAsc:    "lower(tasks.title) ASC",
	SortTitleDesc:   "lower(tasks.title) DESC",
	SortDueAsc:      "tasks.due IS NULL, tasks.due ASC, lower(tasks.title) ASC",
	SortDueDesc:     "tasks.due IS NULL, tasks.due DESC, lower(tasks.title) ASC",
	SortCreatedAsc:  "tasks.created_at ASC",
	SortCreatedDesc: "tasks.created_at DESC",
}

// taskOrderBy resolves the ORDER BY clause for a view and an optional
// user-chosen sort key. Every view sorts incomplete before completed; all
// views except the important one (already filtered on importance) sort
// important before unimportant. The secondary key falls back to a
// view-specific default when absent or unrecognized.
func taskOrderBy(view TaskView, sort string) string {
	prefix := "tasks.is_completed ASC, "
	if view != ViewImportant {
		prefix += "tasks.is_important DESC, "
	}

	if clause, ok := taskSortClauses[sort]; ok {
		return prefix + clause
	}

	switch view {
	case ViewDueToday, ViewOverdue:
		return prefix + "tasks.due ASC, lower(tasks.title) ASC"
	default:
		return prefix + "tasks.due IS NULL, tasks.due ASC, lower(tasks.title) ASC"
	}
}

// GetTasks retrieves the ordered task set for one view, scoped to ownerID.
// Quick views annotate each task with its owning list's title; the
// by-list view omits it.
func (s *SQLiteStore) GetTasks(
	ctx context.Context,
	ownerID string,
	q TaskQuery,
) ([]model.Task, error) {
	withListTitle := q.View != ViewByList

	selectCols := taskColumns
	from := " FROM tasks"
	if withListTitle {
		selectCols += ", task_lists.title AS list_title"
		from += " LEFT JOIN task_lists ON tasks.tasklist_id = task_lists.id"
	}

	conditions := []string{"tasks.user_id = ?"}
	args := []interface{}{ownerID}

	switch q.View {
	case ViewByList:
		// Resolve the list first so a foreign or missing list reads as
		// "not found" rather than an empty result.
		if err := s.checkListOwner(ctx, ownerID, q.ListID); err != nil {
			return nil, err
		}
		conditions = append(conditions, "tasks.tasklist_id = ?")
		args = append(args, q.ListID)
	case ViewAll:
		// Ownership scoping only.
	case ViewDueToday:
		conditions = append(conditions, "tasks.due = ?")
		args = append(args, s.today())
	case ViewOverdue:
		conditions = append(conditions,
			"tasks.due IS NOT NULL", "tasks.due < ?", "tasks.is_completed = 0")
		args = append(args, s.today())
	case ViewImportant:
		conditions = append(conditions, "tasks.is_important = 1")
	case ViewCompleted:
		conditions = append(conditions, "tasks.is_completed = 1")
	default:
		return nil, fmt.Errorf("unknown task view %q", q.View)
	}

	query := "SELECT " + selectCols + from +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY " + taskOrderBy(q.View, q.Sort)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s tasks: %w", q.View, err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows, withListTitle)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// GetTaskByID retrieves a single task scoped to its owner.
func (s *SQLiteStore) GetTaskByID(
	ctx context.Context,
	ownerID, id string,
) (*model.Task, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting task %s: %w", id, err)
		}
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	task, err := scanTask(rows, false)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask inserts a new task under a list the owner must already own.
func (s *SQLiteStore) CreateTask(
	ctx context.Context,
	ownerID, listID, title string,
) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, fmt.Errorf("task title must not be empty")
	}

	if err := s.checkListOwner(ctx, ownerID, listID); err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		ID:         uuid.New().String(),
		UserID:     ownerID,
		TaskListID: &listID,
		Title:      title,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, tasklist_id, title, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		task.ID, task.UserID, listID, task.Title, task.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	return task, nil
}

// UpdateTask replaces a task's editable fields. Setting a different
// reminder instant re-arms delivery by clearing the notified flag; an
// unchanged reminder keeps its one-way notified state.
func (s *SQLiteStore) UpdateTask(
	ctx context.Context,
	ownerID, id string,
	upd TaskUpdate,
) error {
	upd.Title = strings.TrimSpace(upd.Title)
	if upd.Title == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if upd.Due != nil {
		if err := model.ValidateDueDate(*upd.Due); err != nil {
			return err
		}
	}

	current, err := s.GetTaskByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	notified := current.Notified
	if !sameInstant(current.RemindAt, upd.RemindAt) {
		notified = false
	}

	var remindAt *time.Time
	if upd.RemindAt != nil {
		t := upd.RemindAt.UTC()
		remindAt = &t
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, is_completed = ?, is_important = ?, due = ?, remind_at = ?, notified = ?
		WHERE id = ? AND user_id = ?`,
		upd.Title, boolToInt(upd.Completed), boolToInt(upd.Important),
		upd.Due, remindAt, boolToInt(notified),
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetTaskCompleted toggles the completion flag.
func (s *SQLiteStore) SetTaskCompleted(
	ctx context.Context,
	ownerID, id string,
	completed bool,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET is_completed = ? WHERE id = ? AND user_id = ?",
		boolToInt(completed), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s completion: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetTaskImportant toggles the importance flag.
func (s *SQLiteStore) SetTaskImportant(
	ctx context.Context,
	ownerID, id string,
	important bool,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET is_important = ? WHERE id = ? AND user_id = ?",
		boolToInt(important), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s importance: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task scoped to its owner.
func (s *SQLiteStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?", id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// DueReminders returns tasks across all owners whose reminder instant has
// elapsed, that are incomplete, and that have not yet been notified.
func (s *SQLiteStore) DueReminders(
	ctx context.Context,
	now time.Time,
) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+taskColumns+` FROM tasks
		WHERE remind_at IS NOT NULL AND remind_at <= ?
		  AND is_completed = 0 AND notified = 0`,
		now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows, false)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// MarkNotified records a delivered reminder. The notified guard in the
// WHERE clause makes the transition one-way: a second call reports false
// and writes nothing.
func (s *SQLiteStore) MarkNotified(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET notified = 1 WHERE id = ? AND notified = 0", id,
	)
	if err != nil {
		return false, fmt.Errorf("marking task %s notified: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking task %s notified: %w", id, err)
	}
	return n > 0, nil
}

// checkListOwner verifies that listID exists and belongs to ownerID.
// A miss reads as ErrNotFound regardless of whose list it is.
func (s *SQLiteStore) checkListOwner(ctx context.Context, ownerID, listID string) error {
	var id string
	err := s.db.GetContext(ctx, &id,
		"SELECT id FROM task_lists WHERE id = ? AND user_id = ?",
		listID, ownerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("list %s: %w", listID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking list %s: %w", listID, err)
	}
	return nil
}

// sameInstant compares two optional timestamps for equality.
func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows, withListTitle bool) (model.Task, error) {
	var (
		task      model.Task
		completed int
		important int
		notified  int
	)

	dest := []interface{}{
		&task.ID, &task.UserID, &task.TaskListID, &task.Title,
		&completed, &important, &task.Due, &task.RemindAt,
		&notified, &task.CreatedAt,
	}
	if withListTitle {
		dest = append(dest, &task.ListTitle)
	}

	if err := rows.Scan(dest...); err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Completed = completed != 0
	task.Important = important != 0
	task.Notified = notified != 0

	return task, nil
}
