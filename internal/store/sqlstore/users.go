package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, username, hashed_password, created_at`

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, timeValue{&u.CreatedAt}); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and sets its ID.
// Returns store.ErrUsernameTaken when the username is already registered.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.CreatedAt = normalizeTime(u.CreatedAt)

	err := s.queryRow(ctx, s.db, `
		INSERT INTO "user" (username, hashed_password, created_at)
		VALUES (?, ?, ?)
		RETURNING id`,
		u.Username,
		u.PasswordHash,
		s.timeArg(u.CreatedAt),
	).Scan(&u.ID)
	if err != nil {
		if s.isUniqueViolation(err) {
			return store.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, s.db,
		`SELECT `+userColumns+` FROM "user" WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by exact, case-sensitive username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, s.db,
		`SELECT `+userColumns+` FROM "user" WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// UpdateUserPassword replaces a user's password digest.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.exec(ctx, s.db,
		`UPDATE "user" SET hashed_password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return expectOneRow(res, store.ErrUserNotFound)
}

// expectOneRow maps a zero-row UPDATE or DELETE to notFound.
func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
