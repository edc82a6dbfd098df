package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/brnlabs/staffdesk/internal/core"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/observability/metrics"
	"github.com/brnlabs/staffdesk/internal/observability/statsd"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users      core.UserRepository
	Metrics    statsd.Sink // optional
	BcryptCost int         // optional; defaults to bcrypt.DefaultCost
}

// UserService orchestrates account lifecycle: signup, profile updates, and
// account deletion. Password hashing happens here so neither the HTTP layer
// nor the repositories ever handle plaintext beyond request parsing.
type UserService struct {
	users core.UserRepository
	sink  statsd.Sink
	cost  int
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{
		users: opts.Users,
		sink:  opts.Metrics,
		cost:  cost,
	}
}

// Signup registers a new account.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("signup request is required")
	}
	if err := req.Validate(); err != nil {
		metrics.Emit(s.sink, metrics.MetricSignupFailed)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req, string(hash))
	if err != nil {
		metrics.Emit(s.sink, metrics.MetricSignupFailed)
		return nil, err
	}

	metrics.Emit(s.sink, metrics.MetricSignup)
	return user, nil
}

// UpdateProfile replaces the profile fields of the account identified by the
// request email. A blank password keeps the stored one; a new password is
// rehashed and swapped in. A blank picture path keeps the stored picture.
func (s *UserService) UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("update profile request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, req.Email, req)
	if err != nil {
		return nil, err
	}

	if req.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
		if hashErr != nil {
			return nil, fmt.Errorf("hash password: %w", hashErr)
		}
		if setErr := s.users.SetPasswordHash(ctx, req.Email, string(hash)); setErr != nil {
			return nil, setErr
		}
	}

	if req.ProfilePic != "" {
		if setErr := s.users.SetProfilePic(ctx, req.Email, req.ProfilePic); setErr != nil {
			return nil, setErr
		}
		user.ProfilePic = req.ProfilePic
	}

	return user, nil
}

// GetByEmail looks up an account by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	return s.users.GetByEmail(ctx, email)
}

// DeleteProfile removes the account and everything attached to it. It reports
// whether an account was actually removed.
func (s *UserService) DeleteProfile(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errors.New("email is required")
	}

	deleted, err := s.users.DeleteByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if deleted {
		metrics.Emit(s.sink, metrics.MetricProfileDelete)
	}
	return deleted, nil
}
