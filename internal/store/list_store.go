package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pvesely/webplanner/internal/model"
)

// GetLists retrieves the owner's task lists ordered by title.
func (s *SQLiteStore) GetLists(
	ctx context.Context,
	ownerID string,
) ([]model.TaskList, error) {
	var lists []model.TaskList
	err := s.db.SelectContext(ctx, &lists,
		"SELECT id, user_id, title, created_at FROM task_lists WHERE user_id = ? ORDER BY title ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}
	return lists, nil
}

// CreateList inserts a new task list for the owner. Titles are trimmed
// and must be non-empty and unique per owner.
func (s *SQLiteStore) CreateList(
	ctx context.Context,
	ownerID, title string,
) (model.TaskList, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.TaskList{}, fmt.Errorf("list title must not be empty")
	}

	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM task_lists WHERE user_id = ? AND title = ?",
		ownerID, title,
	)
	if err != nil {
		return model.TaskList{}, fmt.Errorf("checking list title: %w", err)
	}
	if count > 0 {
		return model.TaskList{}, fmt.Errorf("list %q: %w", title, ErrConflict)
	}

	list := model.TaskList{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO task_lists (id, user_id, title, created_at) VALUES (?, ?, ?, ?)",
		list.ID, list.UserID, list.Title, list.CreatedAt,
	)
	if err != nil {
		return model.TaskList{}, fmt.Errorf("creating list: %w", err)
	}

	return list, nil
}

// DeleteList removes a list scoped to its owner. The schema cascades the
// delete to the list's tasks.
func (s *SQLiteStore) DeleteList(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM task_lists WHERE id = ? AND user_id = ?", id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting list %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("list %s: %w", id, ErrNotFound)
	}
	return nil
}
