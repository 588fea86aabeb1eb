package model

import "time"

// Event is a calendar entry. End is optional; all-day events ignore the
// time portion of Start and End when rendered.
type Event struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	StartAt   time.Time  `json:"start" db:"start_at"`
	EndAt     *time.Time `json:"end,omitempty" db:"end_at"`
	AllDay    bool       `json:"all_day" db:"all_day"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
