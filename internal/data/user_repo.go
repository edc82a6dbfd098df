package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brnlabs/staffdesk/internal/data/pgxutil"
	"github.com/brnlabs/staffdesk/internal/domain/model"
)

// UserRepo provides database operations for user account management.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo instance with the given database connection.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom TimeProvider (useful for testing).
func NewUserRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *UserRepo {
	return &UserRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

const userColumns = `id, first_name, last_name, age, email, password_hash,
	mobile_no, profile_pic, created_at, updated_at`

// Create inserts a new user account. The password hash is computed by the
// caller; this layer never sees plaintext credentials.
func (r *UserRepo) Create(ctx context.Context, req *model.SignupRequest, passwordHash string) (*model.User, error) {
	if req == nil {
		return nil, errors.New("signup request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	now := r.timeProvider.Now()

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (first_name, last_name, age, email, password_hash,
			                   mobile_no, profile_pic, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+userColumns,
			req.FirstName, req.LastName, req.Age, normalizeEmail(req.Email),
			passwordHash, req.MobileNo, req.ProfilePic, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", mapUserWriteErr(err))
	}

	return &user, nil
}

// getUserByQuery executes a query expected to return a single user row.
func (r *UserRepo) getUserByQuery(ctx context.Context, q, errMsg string, args ...any) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUserByQuery(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		"failed to get user by ID", id)
}

// GetByEmail retrieves a user by email. Lookup is case-insensitive.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUserByQuery(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		"failed to get user by email", normalizeEmail(email))
}

// Update replaces the profile fields of the account identified by email.
// Password and profile picture are managed through SetPasswordHash and
// SetProfilePic and are left untouched here.
func (r *UserRepo) Update(ctx context.Context, email string, req *model.UpdateProfileRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("update profile request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE users
			SET first_name = $2, last_name = $3, age = $4, mobile_no = $5,
			    updated_at = $6
			WHERE email = $1
			RETURNING `+userColumns,
			normalizeEmail(email), req.FirstName, req.LastName, req.Age,
			req.MobileNo, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", mapUserWriteErr(err))
	}

	return &user, nil
}

// SetPasswordHash replaces the stored password hash for the given account.
func (r *UserRepo) SetPasswordHash(ctx context.Context, email, passwordHash string) error {
	if passwordHash == "" {
		return errors.New("password hash is required")
	}
	return r.setColumn(ctx, email, "password_hash", passwordHash)
}

// SetProfilePic records the stored path of the account's profile picture.
func (r *UserRepo) SetProfilePic(ctx context.Context, email, profilePic string) error {
	return r.setColumn(ctx, email, "profile_pic", profilePic)
}

// setColumn updates a single user column by email. The column name is always
// a compile-time constant from this file, never caller input.
func (r *UserRepo) setColumn(ctx context.Context, email, column, value string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET `+column+` = $2, updated_at = now() WHERE email = $1`,
		normalizeEmail(email), value)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteByEmail removes the account and, via FK cascade, its tasks and leaves.
func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM users WHERE email = $1`, normalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Count returns the total number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func mapUserWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailExists
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
