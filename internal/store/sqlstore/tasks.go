package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/store"
)

// taskColumns must match the scan order in scanTask.
const taskColumns = `id, title, description, created_at, priority_score, user_id`

func scanTask(row scanner) (*domain.Task, error) {
	var (
		t           domain.Task
		description sql.NullString
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		timeValue{&t.CreatedAt},
		&t.PriorityScore,
		&t.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	t.Description = stringPtr(description)
	return &t, nil
}

// CreateTask inserts a task and sets its ID.
func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	t.CreatedAt = normalizeTime(t.CreatedAt)

	err := s.queryRow(ctx, s.db, `
		INSERT INTO task (title, description, created_at, priority_score, user_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		t.Title,
		nullableString(t.Description),
		s.timeArg(t.CreatedAt),
		t.PriorityScore,
		t.OwnerID,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID regardless of owner.
func (s *Store) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(s.queryRow(ctx, s.db,
		`SELECT `+taskColumns+` FROM task WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasksByOwner returns a user's tasks in insertion order.
func (s *Store) ListTasksByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT `+taskColumns+` FROM task WHERE user_id = ? ORDER BY id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask writes the mutable task fields (title, description).
func (s *Store) UpdateTask(ctx context.Context, t *domain.Task) error {
	res, err := s.exec(ctx, s.db,
		`UPDATE task SET title = ?, description = ? WHERE id = ?`,
		t.Title, nullableString(t.Description), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOneRow(res, store.ErrTaskNotFound)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM task WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOneRow(res, store.ErrTaskNotFound)
}
