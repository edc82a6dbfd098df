package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/observability/metrics"
	"github.com/brnlabs/staffdesk/internal/observability/statsd"
	"github.com/brnlabs/staffdesk/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider // optional; SSO mode only
	Sessions   ports.SessionStore
	Roles      ports.RoleMapper
	Users      ports.UserDirectory // optional; form mode only
	Tokens     ports.TokenIssuer   // optional; API token login
	Metrics    statsd.Sink         // optional
	SessionTTL time.Duration
}

// AuthService orchestrates authentication flows by coordinating provider,
// local credential checks, role mapping, and session persistence.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	users      ports.UserDirectory
	tokens     ports.TokenIssuer
	sink       statsd.Sink
	sessionTTL time.Duration
}

var (
	errSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials is returned for both unknown accounts and wrong
	// passwords so callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const defaultSessionTTL = 240 * time.Hour

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		users:      opts.Users,
		tokens:     opts.Tokens,
		sink:       opts.Metrics,
		sessionTTL: ttl,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an SSO authentication flow and returns the provider
// auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("SSO login is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing an SSO login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an SSO flow by exchanging the code for an identity,
// mapping roles, and persisting a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("SSO login is not configured")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session, err := s.createSession(ctx, identity, s.roles.Map(identity.Groups))
	if err != nil {
		return nil, err
	}

	return &CompleteLoginResult{Session: *session}, nil
}

// verifyPassword checks local credentials against the user directory. Every
// failure path emits the login-failed counter and collapses to
// ErrInvalidCredentials.
func (s *AuthService) verifyPassword(ctx context.Context, email, password string) (*model.User, error) {
	if s.users == nil {
		return nil, errors.New("password login is not configured")
	}
	if email == "" || password == "" {
		metrics.Emit(s.sink, metrics.MetricLoginFailed)
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Burn a comparable amount of time so lookup misses are not
		// distinguishable from hash mismatches.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0q1IsK1m1Y0nM4eVxGiPEWm0dKi"),
			[]byte(password))
		metrics.Emit(s.sink, metrics.MetricLoginFailed)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.Emit(s.sink, metrics.MetricLoginFailed)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// PasswordLogin verifies local credentials and persists a session on success.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (*domainauth.Session, error) {
	start := time.Now()

	user, err := s.verifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	identity := domainauth.Identity{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	session, err := s.createSession(ctx, identity, s.roles.Map(nil))
	if err != nil {
		return nil, err
	}

	metrics.Emit(s.sink, metrics.MetricLogin)
	metrics.EmitTiming(s.sink, metrics.MetricLoginTime, time.Since(start))
	return session, nil
}

// TokenLogin verifies local credentials and mints a bearer token. No server
// session is written; API clients carry the token on every request.
func (s *AuthService) TokenLogin(ctx context.Context, email, password string) (string, error) {
	if s.tokens == nil {
		return "", errors.New("token login is not configured")
	}

	user, err := s.verifyPassword(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(domainauth.Identity{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.Emit(s.sink, metrics.MetricLogin)
	return token, nil
}

// VerifyToken validates a bearer token and returns the identity it carries.
func (s *AuthService) VerifyToken(token string) (domainauth.Identity, error) {
	if s.tokens == nil {
		return domainauth.Identity{}, errors.New("token login is not configured")
	}
	return s.tokens.Verify(token)
}

func (s *AuthService) createSession(ctx context.Context, identity domainauth.Identity, role domainauth.Role) (*domainauth.Session, error) {
	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.sessionTTL)
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: expiresAt,
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// GetSession retrieves a session by ID, expiring it lazily.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	metrics.Emit(s.sink, metrics.MetricLogout)
	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	return uuid.New().String()
}
