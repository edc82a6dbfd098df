package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTaskTitleLen = 140
	maxTaskNotesLen = 2000
)

// TaskStatus describes where a task is in its lifecycle.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the task status is supported.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Task represents a work item assigned to a user.
type Task struct {
	ID          string     `json:"id"                    db:"id"`
	UserID      string     `json:"userId"                db:"user_id"`
	Title       string     `json:"title"                 db:"title"`
	Notes       string     `json:"notes,omitempty"       db:"notes"`
	Status      TaskStatus `json:"status"                db:"status"`
	DueOn       *time.Time `json:"dueOn,omitempty"       db:"due_on"`
	CreatedAt   time.Time  `json:"createdAt"             db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"             db:"updated_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

// TaskCounts summarizes a user's tasks by status.
type TaskCounts struct {
	Pending    int `json:"pending"    db:"pending"`
	InProgress int `json:"inProgress" db:"in_progress"`
	Done       int `json:"done"       db:"done"`
}

// Total returns the number of tasks across all statuses.
func (c TaskCounts) Total() int {
	return c.Pending + c.InProgress + c.Done
}

// Overdue reports whether the task is past due and not done.
func (t Task) Overdue(now time.Time) bool {
	return t.DueOn != nil && t.Status != TaskStatusDone && t.DueOn.Before(now)
}

// CreateTaskRequest represents parameters to create a Task.
type CreateTaskRequest struct {
	UserID string     `json:"userId"`
	Title  string     `json:"title"`
	Notes  string     `json:"notes,omitempty"`
	DueOn  *time.Time `json:"dueOn,omitempty"`
}

// Validate validates CreateTaskRequest.
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("userId is required")
	}
	if r.Title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Title) > maxTaskTitleLen {
		return errors.New("title cannot exceed 140 characters")
	}
	if utf8.RuneCountInString(r.Notes) > maxTaskNotesLen {
		return errors.New("notes cannot exceed 2000 characters")
	}
	return nil
}
