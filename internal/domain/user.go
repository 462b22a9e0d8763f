// Package domain holds the core KeepUp entities and the pure rules around them.
package domain

import "time"

// User represents an account. Usernames are unique and matched exactly.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
