package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brnlabs/staffdesk/internal/data/pgxutil"
	"github.com/brnlabs/staffdesk/internal/domain/model"
)

// LeaveRepo provides database operations for leave request management.
type LeaveRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewLeaveRepo creates a new LeaveRepo instance with the given database connection.
func NewLeaveRepo(db *sql.DB) *LeaveRepo {
	return &LeaveRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewLeaveRepoWithTimeProvider creates a LeaveRepo with a custom TimeProvider (useful for testing).
func NewLeaveRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *LeaveRepo {
	return &LeaveRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

const leaveColumns = `id, user_id, kind, starts_on, ends_on, reason, status,
	created_at, decided_at`

// Create inserts a new leave request in requested status.
func (r *LeaveRepo) Create(ctx context.Context, req *model.CreateLeaveRequest) (*model.Leave, error) {
	if req == nil {
		return nil, errors.New("create leave request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()

	var leave model.Leave
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO leaves (user_id, kind, starts_on, ends_on, reason, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+leaveColumns,
			req.UserID, req.Kind, req.StartsOn, req.EndsOn, req.Reason, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		leave, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Leave])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}

	return &leave, nil
}

// GetByID retrieves a leave request by its ID.
func (r *LeaveRepo) GetByID(ctx context.Context, id string) (*model.Leave, error) {
	var leave model.Leave
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+leaveColumns+` FROM leaves WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		leave, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Leave])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to get leave by ID: %w", err)
	}
	return &leave, nil
}

// ListByUser retrieves a user's leave requests with pagination, newest first.
func (r *LeaveRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Leave, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var leaves []model.Leave
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+leaveColumns+`
			FROM leaves
			WHERE user_id = $1
			ORDER BY starts_on DESC, id DESC
			LIMIT $2 OFFSET $3`,
			userID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		leaves, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Leave])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}

	result := make([]*model.Leave, len(leaves))
	for i := range leaves {
		result[i] = &leaves[i]
	}
	return result, nil
}

// CountOpenByUser returns the number of requested or approved leaves for a user.
func (r *LeaveRepo) CountOpenByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM leaves
		WHERE user_id = $1 AND status IN ('requested', 'approved')`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open leaves: %w", err)
	}
	return count, nil
}

// SetStatus transitions a leave request. Any move away from requested stamps
// decided_at.
func (r *LeaveRepo) SetStatus(ctx context.Context, id string, status model.LeaveStatus) (*model.Leave, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid leave status %q", status)
	}

	now := r.timeProvider.Now()

	var leave model.Leave
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE leaves
			SET status = $2,
			    decided_at = CASE WHEN $2 = 'requested' THEN NULL ELSE $3 END
			WHERE id = $1
			RETURNING `+leaveColumns,
			id, status, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		leave, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Leave])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to set leave status: %w", err)
	}
	return &leave, nil
}
