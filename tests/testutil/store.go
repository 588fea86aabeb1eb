// Package testutil provides shared fixtures for store-backed tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/pvesely/webplanner/internal/model"
	"github.com/pvesely/webplanner/internal/store"
)

// NewStore creates an in-memory SQLiteStore with all migrations applied
// and "today" resolved in UTC. It automatically closes the store when
// the test completes.
func NewStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", time.UTC)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewUser inserts a user with the given email and returns it.
func NewUser(t *testing.T, s *store.SQLiteStore, email string) model.User {
	t.Helper()

	user, err := s.CreateUser(context.Background(), model.User{Email: email})
	if err != nil {
		t.Fatalf("creating test user %s: %v", email, err)
	}
	return user
}

// NewList inserts a task list for the given owner and returns it.
func NewList(t *testing.T, s *store.SQLiteStore, ownerID, title string) model.TaskList {
	t.Helper()

	list, err := s.CreateList(context.Background(), ownerID, title)
	if err != nil {
		t.Fatalf("creating test list %s: %v", title, err)
	}
	return list
}

// NewTask inserts a task under the given list and returns it.
func NewTask(t *testing.T, s *store.SQLiteStore, ownerID, listID, title string) model.Task {
	t.Helper()

	task, err := s.CreateTask(context.Background(), ownerID, listID, title)
	if err != nil {
		t.Fatalf("creating test task %s: %v", title, err)
	}
	return task
}
