package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/store"
	"github.com/keepupapp/keepup-server/internal/validation"
)

// TaskService manages owner-scoped tasks.
type TaskService struct {
	store     store.Store
	validator *validation.Validator
	policy    OwnershipPolicy
	logger    *slog.Logger
	now       func() time.Time
}

// NewTaskService creates a new task service.
func NewTaskService(store store.Store, validator *validation.Validator, policy OwnershipPolicy, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:     store,
		validator: validator,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateTaskRequest contains the fields for a new task.
type CreateTaskRequest struct {
	Title         string  `json:"title" validate:"required,max=500"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=10000"`
	PriorityScore *int    `json:"priority_score,omitempty"`
}

// UpdateTaskRequest replaces the mutable task fields. A nil description
// clears it.
type UpdateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=10000"`
}

// Create stores a task for ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID int64, req CreateTaskRequest) (*domain.Task, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   s.now(),
		OwnerID:     ownerID,
	}
	if req.PriorityScore != nil {
		task.PriorityScore = *req.PriorityScore
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created", "user_id", ownerID, "task_id", task.ID)
	return task, nil
}

// List returns the caller's tasks in creation order.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return s.store.ListTasksByOwner(ctx, ownerID)
}

// Get returns one of the caller's tasks.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	return s.load(ctx, ownerID, taskID)
}

// Update changes title and description; nothing else on a task is mutable.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID int64, req UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.load(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	task.Title = req.Title
	task.Description = req.Description

	if err := s.store.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, s.policy.check(false, 0, ownerID, "Task")
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.logger.Info("task updated", "user_id", ownerID, "task_id", task.ID)
	return task, nil
}

// Delete removes one of the caller's tasks. Deleting twice is NotFound.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID int64) error {
	if _, err := s.load(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return s.policy.check(false, 0, ownerID, "Task")
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info("task deleted", "user_id", ownerID, "task_id", taskID)
	return nil
}

// load fetches a task and applies the ownership check.
func (s *TaskService) load(ctx context.Context, callerID, taskID int64) (*domain.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil && !errors.Is(err, store.ErrTaskNotFound) {
		return nil, fmt.Errorf("get task: %w", err)
	}

	var ownerID int64
	if task != nil {
		ownerID = task.OwnerID
	}
	if err := s.policy.check(task != nil, ownerID, callerID, "Task"); err != nil {
		return nil, err
	}
	return task, nil
}
