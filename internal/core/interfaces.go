package core

import (
	"context"

	"github.com/brnlabs/staffdesk/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for user account data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.SignupRequest, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, email string, req *model.UpdateProfileRequest) (*model.User, error)
	SetPasswordHash(ctx context.Context, email, passwordHash string) error
	SetProfilePic(ctx context.Context, email, profilePic string) error
	DeleteByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error)
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error)
	CountByUser(ctx context.Context, userID string) (*model.TaskCounts, error)
	SetStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// LeaveRepository defines the interface for leave request data operations.
type LeaveRepository interface {
	Create(ctx context.Context, req *model.CreateLeaveRequest) (*model.Leave, error)
	GetByID(ctx context.Context, id string) (*model.Leave, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Leave, error)
	CountOpenByUser(ctx context.Context, userID string) (int, error)
	SetStatus(ctx context.Context, id string, status model.LeaveStatus) (*model.Leave, error)
}
