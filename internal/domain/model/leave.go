package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxLeaveReasonLen = 500

// LeaveKind categorizes a leave request.
type LeaveKind string

const (
	LeaveKindVacation LeaveKind = "vacation"
	LeaveKindSick     LeaveKind = "sick"
	LeaveKindPersonal LeaveKind = "personal"
)

// Valid reports whether the leave kind is supported.
func (k LeaveKind) Valid() bool {
	switch k {
	case LeaveKindVacation, LeaveKindSick, LeaveKindPersonal:
		return true
	default:
		return false
	}
}

// ParseLeaveKind normalizes a leave kind string and reports whether it is supported.
func ParseLeaveKind(value string) (LeaveKind, bool) {
	kind := LeaveKind(strings.ToLower(strings.TrimSpace(value)))
	if kind.Valid() {
		return kind, true
	}
	return "", false
}

// LeaveStatus describes where a leave request is in its lifecycle.
type LeaveStatus string

const (
	LeaveStatusRequested LeaveStatus = "requested"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// Valid reports whether the leave status is supported.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusRequested, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	default:
		return false
	}
}

// Leave represents a leave-of-absence request.
type Leave struct {
	ID        string      `json:"id"                  db:"id"`
	UserID    string      `json:"userId"              db:"user_id"`
	Kind      LeaveKind   `json:"kind"                db:"kind"`
	StartsOn  time.Time   `json:"startsOn"            db:"starts_on"`
	EndsOn    time.Time   `json:"endsOn"              db:"ends_on"`
	Reason    string      `json:"reason,omitempty"    db:"reason"`
	Status    LeaveStatus `json:"status"              db:"status"`
	CreatedAt time.Time   `json:"createdAt"           db:"created_at"`
	DecidedAt *time.Time  `json:"decidedAt,omitempty" db:"decided_at"`
}

// Days returns the inclusive length of the leave in days.
func (l Leave) Days() int {
	return int(l.EndsOn.Sub(l.StartsOn).Hours()/24) + 1
}

// Open reports whether the request can still be cancelled by its owner.
func (l Leave) Open() bool {
	return l.Status == LeaveStatusRequested || l.Status == LeaveStatusApproved
}

// CreateLeaveRequest represents parameters to create a Leave.
type CreateLeaveRequest struct {
	UserID   string    `json:"userId"`
	Kind     LeaveKind `json:"kind"`
	StartsOn time.Time `json:"startsOn"`
	EndsOn   time.Time `json:"endsOn"`
	Reason   string    `json:"reason,omitempty"`
}

// Validate validates CreateLeaveRequest.
func (r *CreateLeaveRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("userId is required")
	}
	if !r.Kind.Valid() {
		return errors.New("kind must be one of: vacation, sick, personal")
	}
	if r.StartsOn.IsZero() || r.EndsOn.IsZero() {
		return errors.New("startsOn and endsOn are required")
	}
	if r.EndsOn.Before(r.StartsOn) {
		return errors.New("endsOn cannot be before startsOn")
	}
	if utf8.RuneCountInString(r.Reason) > maxLeaveReasonLen {
		return errors.New("reason cannot exceed 500 characters")
	}
	return nil
}
