package store

import "errors"

// Sentinel errors returned by Store implementations. Services translate
// these into coded domain errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTaskNotFound  = errors.New("task not found")
	ErrMediaNotFound = errors.New("media not found")
	ErrTagNotFound   = errors.New("tag not found")

	// ErrUsernameTaken is returned when the unique index on username rejects an insert.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrAlreadyExists is returned when a unique index rejects an insert.
	ErrAlreadyExists = errors.New("resource already exists")
)
