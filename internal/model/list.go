package model

import "time"

// TaskList is a named collection of tasks. Titles are unique per owner.
// Deleting a list removes its tasks (CASCADE delete).
type TaskList struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
