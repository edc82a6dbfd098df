package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/testutil"
)

func TestLeaveRepo_Create(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewLeaveRepo(db)
		ctx := context.Background()

		user := insertUser(t, db, 1)
		start := testutil.TestTime().AddDate(0, 0, 14)

		leave, err := repo.Create(ctx, testutil.NewLeaveRequest().
			WithUserID(user.ID).
			WithKind(model.LeaveKindSick).
			WithDates(start, start.AddDate(0, 0, 2)).
			WithReason("flu").
			Build())
		require.NoError(t, err)
		require.NotNil(t, leave)

		assert.NotEmpty(t, leave.ID)
		assert.Equal(t, user.ID, leave.UserID)
		assert.Equal(t, model.LeaveKindSick, leave.Kind)
		assert.Equal(t, model.LeaveStatusRequested, leave.Status)
		assert.Equal(t, 3, leave.Days())
		assert.Nil(t, leave.DecidedAt)
	})
}

func TestLeaveRepo_Create_Invalid(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewLeaveRepo(db)
		ctx := context.Background()

		user := insertUser(t, db, 2)
		start := testutil.TestTime()

		tests := []struct {
			name   string
			req    *model.CreateLeaveRequest
			errMsg string
		}{
			{
				name:   "missing user",
				req:    testutil.NewLeaveRequest().Build(),
				errMsg: "userId is required",
			},
			{
				name: "unknown kind",
				req: testutil.NewLeaveRequest().
					WithUserID(user.ID).
					WithKind(model.LeaveKind("sabbatical")).
					Build(),
				errMsg: "kind",
			},
			{
				name: "end before start",
				req: testutil.NewLeaveRequest().
					WithUserID(user.ID).
					WithDates(start, start.AddDate(0, 0, -1)).
					Build(),
				errMsg: "endsOn",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				leave, err := repo.Create(ctx, tt.req)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, leave)
			})
		}
	})
}

func TestLeaveRepo_ListByUser(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewLeaveRepo(db)
		ctx := context.Background()

		owner := insertUser(t, db, 3)
		other := insertUser(t, db, 4)

		start := testutil.TestTime()
		for i := 0; i < 3; i++ {
			s := start.AddDate(0, i, 0)
			_, err := repo.Create(ctx, testutil.NewLeaveRequest().
				WithUserID(owner.ID).
				WithDates(s, s.AddDate(0, 0, 1)).
				Build())
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, testutil.NewLeaveRequest().WithUserID(other.ID).Build())
		require.NoError(t, err)

		leaves, err := repo.ListByUser(ctx, owner.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, leaves, 3)

		// Newest start date first.
		assert.True(t, leaves[0].StartsOn.After(leaves[1].StartsOn))
		assert.True(t, leaves[1].StartsOn.After(leaves[2].StartsOn))
	})
}

func TestLeaveRepo_SetStatus(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewLeaveRepo(db)
		ctx := context.Background()

		user := insertUser(t, db, 5)

		leave, err := repo.Create(ctx, testutil.NewLeaveRequest().WithUserID(user.ID).Build())
		require.NoError(t, err)

		approved, err := repo.SetStatus(ctx, leave.ID, model.LeaveStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, model.LeaveStatusApproved, approved.Status)
		require.NotNil(t, approved.DecidedAt)

		cancelled, err := repo.SetStatus(ctx, leave.ID, model.LeaveStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.LeaveStatusCancelled, cancelled.Status)
		assert.False(t, cancelled.Open())
	})
}

func TestLeaveRepo_SetStatus_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewLeaveRepo(db)

		leave, err := repo.SetStatus(context.Background(), "00000000-0000-0000-0000-000000000000", model.LeaveStatusApproved)
		assert.ErrorIs(t, err, ErrLeaveNotFound)
		assert.Nil(t, leave)
	})
}

func TestLeaveRepo_CountOpenByUser(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewLeaveRepo(db)
		ctx := context.Background()

		user := insertUser(t, db, 6)
		start := testutil.TestTime()

		var leaves []*model.Leave
		for i := 0; i < 3; i++ {
			s := start.AddDate(0, 0, i*10)
			leave, err := repo.Create(ctx, testutil.NewLeaveRequest().
				WithUserID(user.ID).
				WithDates(s, s.AddDate(0, 0, 1)).
				Build())
			require.NoError(t, err)
			leaves = append(leaves, leave)
		}

		_, err := repo.SetStatus(ctx, leaves[0].ID, model.LeaveStatusRejected)
		require.NoError(t, err)
		_, err = repo.SetStatus(ctx, leaves[1].ID, model.LeaveStatusApproved)
		require.NoError(t, err)

		count, err := repo.CountOpenByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
