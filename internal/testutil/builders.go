// Package testutil provides testing utilities and helpers for the staffdesk portal.
package testutil

import (
	"fmt"
	"time"

	"github.com/brnlabs/staffdesk/internal/domain/model"
)

// SignupRequestBuilder provides a fluent interface for building SignupRequest objects for testing.
type SignupRequestBuilder struct {
	req *model.SignupRequest
}

// NewSignupRequest creates a new SignupRequestBuilder with sensible defaults.
func NewSignupRequest() *SignupRequestBuilder {
	return &SignupRequestBuilder{
		req: &model.SignupRequest{
			FirstName: "Jordan",
			LastName:  "Reyes",
			Age:       31,
			Email:     "jordan.reyes@example.com",
			Password:  "s3cret-pass",
			MobileNo:  "5555550100",
		},
	}
}

// WithName sets the first and last name.
func (b *SignupRequestBuilder) WithName(first, last string) *SignupRequestBuilder {
	b.req.FirstName = first
	b.req.LastName = last
	return b
}

// WithEmail sets the email address.
func (b *SignupRequestBuilder) WithEmail(email string) *SignupRequestBuilder {
	b.req.Email = email
	return b
}

// WithAge sets the age.
func (b *SignupRequestBuilder) WithAge(age int) *SignupRequestBuilder {
	b.req.Age = age
	return b
}

// WithPassword sets the plaintext password.
func (b *SignupRequestBuilder) WithPassword(password string) *SignupRequestBuilder {
	b.req.Password = password
	return b
}

// WithMobileNo sets the mobile number.
func (b *SignupRequestBuilder) WithMobileNo(mobileNo string) *SignupRequestBuilder {
	b.req.MobileNo = mobileNo
	return b
}

// WithProfilePic sets the stored profile picture path.
func (b *SignupRequestBuilder) WithProfilePic(path string) *SignupRequestBuilder {
	b.req.ProfilePic = path
	return b
}

// Build returns the constructed SignupRequest.
func (b *SignupRequestBuilder) Build() *model.SignupRequest {
	return b.req
}

// UniqueSignupRequest returns a signup request with a unique email derived from seed.
func UniqueSignupRequest(seed int) *model.SignupRequest {
	return NewSignupRequest().
		WithEmail(fmt.Sprintf("user%d@example.com", seed)).
		Build()
}

// TaskRequestBuilder provides a fluent interface for building CreateTaskRequest objects for testing.
type TaskRequestBuilder struct {
	req *model.CreateTaskRequest
}

// NewTaskRequest creates a new TaskRequestBuilder with sensible defaults.
func NewTaskRequest() *TaskRequestBuilder {
	return &TaskRequestBuilder{
		req: &model.CreateTaskRequest{
			Title: "Prepare quarterly report",
			Notes: "Collect figures from finance before drafting.",
		},
	}
}

// WithTitle sets the task title.
func (b *TaskRequestBuilder) WithTitle(title string) *TaskRequestBuilder {
	b.req.Title = title
	return b
}

// WithNotes sets the task notes.
func (b *TaskRequestBuilder) WithNotes(notes string) *TaskRequestBuilder {
	b.req.Notes = notes
	return b
}

// WithDueOn sets the task due date.
func (b *TaskRequestBuilder) WithDueOn(due time.Time) *TaskRequestBuilder {
	b.req.DueOn = &due
	return b
}

// WithUserID sets the owning user.
func (b *TaskRequestBuilder) WithUserID(userID string) *TaskRequestBuilder {
	b.req.UserID = userID
	return b
}

// Build returns the constructed CreateTaskRequest.
func (b *TaskRequestBuilder) Build() *model.CreateTaskRequest {
	return b.req
}

// LeaveRequestBuilder provides a fluent interface for building CreateLeaveRequest objects for testing.
type LeaveRequestBuilder struct {
	req *model.CreateLeaveRequest
}

// NewLeaveRequest creates a new LeaveRequestBuilder with sensible defaults.
func NewLeaveRequest() *LeaveRequestBuilder {
	start := TestTime().AddDate(0, 0, 7)
	return &LeaveRequestBuilder{
		req: &model.CreateLeaveRequest{
			Kind:     model.LeaveKindVacation,
			StartsOn: start,
			EndsOn:   start.AddDate(0, 0, 4),
			Reason:   "Family trip",
		},
	}
}

// WithUserID sets the owning user.
func (b *LeaveRequestBuilder) WithUserID(userID string) *LeaveRequestBuilder {
	b.req.UserID = userID
	return b
}

// WithKind sets the leave kind.
func (b *LeaveRequestBuilder) WithKind(kind model.LeaveKind) *LeaveRequestBuilder {
	b.req.Kind = kind
	return b
}

// WithDates sets the start and end dates.
func (b *LeaveRequestBuilder) WithDates(start, end time.Time) *LeaveRequestBuilder {
	b.req.StartsOn = start
	b.req.EndsOn = end
	return b
}

// WithReason sets the leave reason.
func (b *LeaveRequestBuilder) WithReason(reason string) *LeaveRequestBuilder {
	b.req.Reason = reason
	return b
}

// Build returns the constructed CreateLeaveRequest.
func (b *LeaveRequestBuilder) Build() *model.CreateLeaveRequest {
	return b.req
}
