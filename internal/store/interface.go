// Package store defines the persistence interface for the KeepUp server.
//
// Implementations always return fully populated aggregates: a Media comes
// back with its Tags loaded, in the order they were bound.
package store

import (
	"context"

	"github.com/keepupapp/keepup-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error

	// Tasks
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasksByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id int64) error

	// Media
	CreateMedia(ctx context.Context, media *domain.Media) error
	GetMedia(ctx context.Context, id int64) (*domain.Media, error)
	ListMediaByOwner(ctx context.Context, ownerID int64, filter domain.MediaFilter) ([]*domain.Media, error)
	UpdateMedia(ctx context.Context, media *domain.Media, replaceTags bool) error
	DeleteMedia(ctx context.Context, id int64) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	FindOrCreateTag(ctx context.Context, name string) (*domain.Tag, bool, error)
	SetMediaTags(ctx context.Context, mediaID int64, tagIDs []int64) error
	GetMediaTags(ctx context.Context, mediaID int64) ([]*domain.Tag, error)
}
