package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/keepupapp/keepup-server/internal/api/dto"
	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/service"
)

func (s *Server) registerTaskRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createTask",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create task",
		Description: "Creates a task owned by the caller",
		Tags:        []string{"Tasks"},
		Security:    bearerSecurity,
	}, s.handleCreateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
		Description: "Returns the caller's tasks in creation order",
		Tags:        []string{"Tasks"},
		Security:    bearerSecurity,
	}, s.handleListTasks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTask",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get task",
		Description: "Returns one of the caller's tasks",
		Tags:        []string{"Tasks"},
		Security:    bearerSecurity,
	}, s.handleGetTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTask",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Update task",
		Description: "Replaces title and description. An omitted description is cleared.",
		Tags:        []string{"Tasks"},
		Security:    bearerSecurity,
	}, s.handleUpdateTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTask",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete task",
		Description: "Deletes one of the caller's tasks",
		Tags:        []string{"Tasks"},
		Security:    bearerSecurity,
	}, s.handleDeleteTask)
}

// === DTOs ===

// CreateTaskBody is the request body for creating a task.
type CreateTaskBody struct {
	_             struct{} `json:"-" additionalProperties:"true"`
	Title         string   `json:"title" doc:"Task title"`
	Description   *string  `json:"description,omitempty" nullable:"true" doc:"Optional description"`
	PriorityScore *int     `json:"priority_score,omitempty" nullable:"true" doc:"Priority, defaults to 0"`
}

// CreateTaskInput wraps the create task request for Huma.
type CreateTaskInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateTaskBody
}

// UpdateTaskBody is the request body for updating a task.
type UpdateTaskBody struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	Title       string   `json:"title" doc:"Task title"`
	Description *string  `json:"description,omitempty" nullable:"true" doc:"Description; omitted or null clears it"`
}

// UpdateTaskInput wraps the update task request for Huma.
type UpdateTaskInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
	Body UpdateTaskBody
}

// TaskIDInput addresses a single task.
type TaskIDInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
}

// TaskOutput wraps a task for Huma.
type TaskOutput struct {
	Body *domain.Task
}

// TaskListOutput wraps a task list for Huma.
type TaskListOutput struct {
	Body []*domain.Task
}

// === Handlers ===

func (s *Server) handleCreateTask(ctx context.Context, input *CreateTaskInput) (*TaskOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Create(ctx, user.ID, service.CreateTaskRequest{
		Title:         input.Body.Title,
		Description:   input.Body.Description,
		PriorityScore: input.Body.PriorityScore,
	})
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: task}, nil
}

func (s *Server) handleListTasks(ctx context.Context, input *AuthInput) (*TaskListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	tasks, err := s.services.Task.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &TaskListOutput{Body: tasks}, nil
}

func (s *Server) handleGetTask(ctx context.Context, input *TaskIDInput) (*TaskOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Get(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: task}, nil
}

func (s *Server) handleUpdateTask(ctx context.Context, input *UpdateTaskInput) (*TaskOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	task, err := s.services.Task.Update(ctx, user.ID, input.ID, service.UpdateTaskRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &TaskOutput{Body: task}, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, input *TaskIDInput) (*dto.OKOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Task.Delete(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &dto.OKOutput{Body: dto.OKResponse{OK: true}}, nil
}
