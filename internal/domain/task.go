package domain

import "time"

// Task is a to-do item owned by a single user.
type Task struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	PriorityScore int       `json:"priority_score"`
	OwnerID       int64     `json:"user_id"`
}
