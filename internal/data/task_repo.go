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

// TaskRepo provides database operations for task management.
type TaskRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTaskRepo creates a new TaskRepo instance with the given database connection.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewTaskRepoWithTimeProvider creates a TaskRepo with a custom TimeProvider (useful for testing).
func NewTaskRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *TaskRepo {
	return &TaskRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

const taskColumns = `id, user_id, title, notes, status, due_on,
	created_at, updated_at, completed_at`

// Create inserts a new task in pending status.
func (r *TaskRepo) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	if req == nil {
		return nil, errors.New("create task request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()

	var task model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO tasks (user_id, title, notes, due_on, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING `+taskColumns,
			req.UserID, req.Title, req.Notes, req.DueOn, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		task, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &task, nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		task, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task by ID: %w", err)
	}
	return &task, nil
}

// ListByUser retrieves a user's tasks with pagination, newest first.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var tasks []model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+taskColumns+`
			FROM tasks
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3`,
			userID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		tasks, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Task])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := make([]*model.Task, len(tasks))
	for i := range tasks {
		result[i] = &tasks[i]
	}
	return result, nil
}

// CountByUser returns per-status counts of a user's tasks.
func (r *TaskRepo) CountByUser(ctx context.Context, userID string) (*model.TaskCounts, error) {
	var counts model.TaskCounts
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')     AS pending,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'done')        AS done
		FROM tasks
		WHERE user_id = $1`,
		userID).Scan(&counts.Pending, &counts.InProgress, &counts.Done)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	return &counts, nil
}

// SetStatus transitions a task. Moving into done stamps completed_at; moving
// out of done clears it.
func (r *TaskRepo) SetStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid task status %q", status)
	}

	now := r.timeProvider.Now()

	var task model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE tasks
			SET status = $2,
			    updated_at = $3,
			    completed_at = CASE WHEN $2 = 'done' THEN $3 ELSE NULL END
			WHERE id = $1
			RETURNING `+taskColumns,
			id, status, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		task, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to set task status: %w", err)
	}
	return &task, nil
}

// Delete removes a task by its ID.
func (r *TaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
