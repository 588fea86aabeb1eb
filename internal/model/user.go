package model

import "time"

// User is an account that owns lists, tasks, and events. Credentials are
// managed by the external session layer; the core only needs the email
// address for reminder delivery and the identity for ownership scoping.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
