package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeaveKind(t *testing.T) {
	kind, ok := ParseLeaveKind("  Vacation ")
	require.True(t, ok)
	assert.Equal(t, LeaveKindVacation, kind)

	_, ok = ParseLeaveKind("sabbatical")
	assert.False(t, ok)
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	req := CreateLeaveRequest{UserID: "u1", Kind: LeaveKindSick, StartsOn: start, EndsOn: end}
	require.NoError(t, req.Validate())

	req = CreateLeaveRequest{UserID: "u1", Kind: LeaveKindSick, StartsOn: end, EndsOn: start}
	require.Error(t, req.Validate())

	req = CreateLeaveRequest{UserID: "", Kind: LeaveKindSick, StartsOn: start, EndsOn: end}
	require.Error(t, req.Validate())

	req = CreateLeaveRequest{UserID: "u1", Kind: "other", StartsOn: start, EndsOn: end}
	require.Error(t, req.Validate())
}

func TestLeave_Days(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	l := Leave{StartsOn: start, EndsOn: start}
	assert.Equal(t, 1, l.Days())

	l.EndsOn = start.AddDate(0, 0, 4)
	assert.Equal(t, 5, l.Days())
}

func TestLeave_Open(t *testing.T) {
	assert.True(t, Leave{Status: LeaveStatusRequested}.Open())
	assert.True(t, Leave{Status: LeaveStatusApproved}.Open())
	assert.False(t, Leave{Status: LeaveStatusCancelled}.Open())
	assert.False(t, Leave{Status: LeaveStatusRejected}.Open())
}
