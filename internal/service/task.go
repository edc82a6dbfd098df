package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/brnlabs/staffdesk/internal/core"
	"github.com/brnlabs/staffdesk/internal/data"
	"github.com/brnlabs/staffdesk/internal/domain/model"
)

// ErrNotTaskOwner is returned when a user acts on a task they do not own.
var ErrNotTaskOwner = errors.New("task belongs to another user")

// TaskService orchestrates task operations, enforcing per-user ownership.
type TaskService struct {
	tasks core.TaskRepository
}

// NewTaskService constructs a new TaskService.
func NewTaskService(tasks core.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// Create adds a task for the given user.
func (s *TaskService) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	return s.tasks.Create(ctx, req)
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.tasks.ListByUser(ctx, userID, limit, offset)
}

// Counts returns per-status task counts for the user.
func (s *TaskService) Counts(ctx context.Context, userID string) (*model.TaskCounts, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.tasks.CountByUser(ctx, userID)
}

// SetStatus transitions a task after confirming it belongs to userID.
func (s *TaskService) SetStatus(ctx context.Context, userID, taskID string, status model.TaskStatus) (*model.Task, error) {
	if err := s.checkOwner(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.tasks.SetStatus(ctx, taskID, status)
}

// Delete removes a task after confirming it belongs to userID.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.checkOwner(ctx, userID, taskID); err != nil {
		return err
	}
	deleted, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return data.ErrTaskNotFound
	}
	return nil
}

func (s *TaskService) checkOwner(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return errors.New("user ID is required")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	if task.UserID != userID {
		return ErrNotTaskOwner
	}
	return nil
}
