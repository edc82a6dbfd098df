package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/brnlabs/staffdesk/internal/core"
	"github.com/brnlabs/staffdesk/internal/domain/model"
)

var (
	// ErrNotLeaveOwner is returned when a user acts on a leave they do not own.
	ErrNotLeaveOwner = errors.New("leave request belongs to another user")
	// ErrLeaveClosed is returned when cancelling a leave that was already decided.
	ErrLeaveClosed = errors.New("leave request is no longer open")
)

// LeaveService orchestrates leave request operations.
type LeaveService struct {
	leaves core.LeaveRepository
}

// NewLeaveService constructs a new LeaveService.
func NewLeaveService(leaves core.LeaveRepository) *LeaveService {
	return &LeaveService{leaves: leaves}
}

// Request files a new leave request for the given user.
func (s *LeaveService) Request(ctx context.Context, req *model.CreateLeaveRequest) (*model.Leave, error) {
	return s.leaves.Create(ctx, req)
}

// List returns the user's leave requests, most recent start date first.
func (s *LeaveService) List(ctx context.Context, userID string, limit, offset int) ([]*model.Leave, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.leaves.ListByUser(ctx, userID, limit, offset)
}

// CountOpen returns the number of requested or approved leaves for the user.
func (s *LeaveService) CountOpen(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.New("user ID is required")
	}
	return s.leaves.CountOpenByUser(ctx, userID)
}

// Cancel withdraws an open leave request owned by userID.
func (s *LeaveService) Cancel(ctx context.Context, userID, leaveID string) (*model.Leave, error) {
	leave, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return nil, fmt.Errorf("load leave: %w", err)
	}
	if leave.UserID != userID {
		return nil, ErrNotLeaveOwner
	}
	if !leave.Open() {
		return nil, ErrLeaveClosed
	}
	return s.leaves.SetStatus(ctx, leaveID, model.LeaveStatusCancelled)
}

// Decide approves or rejects a leave request. Admin-only; the HTTP layer
// enforces the role check.
func (s *LeaveService) Decide(ctx context.Context, leaveID string, approve bool) (*model.Leave, error) {
	status := model.LeaveStatusRejected
	if approve {
		status = model.LeaveStatusApproved
	}
	return s.leaves.SetStatus(ctx, leaveID, status)
}
