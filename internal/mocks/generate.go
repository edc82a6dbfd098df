// Package mocks provides mock implementations for testing the staffdesk portal.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/core package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// Create, GetByID, GetByEmail, Update, SetPasswordHash, SetProfilePic, DeleteByEmail, Count
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/brnlabs/staffdesk/internal/core UserRepository

// Generate mock for TaskRepository interface from internal/core package.
// This creates MockTaskRepository with methods for all TaskRepository interface methods:
// Create, GetByID, ListByUser, CountByUser, SetStatus, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=task_repository_mock.go github.com/brnlabs/staffdesk/internal/core TaskRepository

// Generate mock for LeaveRepository interface from internal/core package.
// This creates MockLeaveRepository with methods for all LeaveRepository interface methods:
// Create, GetByID, ListByUser, CountOpenByUser, SetStatus
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=leave_repository_mock.go github.com/brnlabs/staffdesk/internal/core LeaveRepository
