package httpx

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
	"github.com/brnlabs/staffdesk/internal/service"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the
// test if templates are not available. This centralizes the common pattern of
// template guard checks in tests.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates checks if templates are available and skips the test if not.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping integration test")
	}
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// fakeAuthService is a canned AuthServiceInterface for handler and middleware
// tests: it hands out the configured session for a matching ID and errors for
// everything else.
type fakeAuthService struct {
	session    *domainauth.Session
	loginErr   error
	logoutIDs  []string
	getErrByID map[string]error
}

var _ AuthServiceInterface = (*fakeAuthService)(nil)

func (f *fakeAuthService) BeginLogin(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/authorize?redirect=" + redirectURL,
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (f *fakeAuthService) CompleteLogin(_ context.Context, _ service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	if f.session == nil {
		return nil, errNoSession
	}
	return &service.CompleteLoginResult{Session: *f.session}, nil
}

func (f *fakeAuthService) PasswordLogin(_ context.Context, _, _ string) (*domainauth.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.session == nil {
		return nil, service.ErrInvalidCredentials
	}
	return f.session, nil
}

func (f *fakeAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	if err, ok := f.getErrByID[sessionID]; ok {
		return nil, err
	}
	if f.session == nil || f.session.ID != sessionID {
		return nil, errNoSession
	}
	return f.session, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	f.logoutIDs = append(f.logoutIDs, sessionID)
	return nil
}

var errNoSession = noSessionError{}

type noSessionError struct{}

func (noSessionError) Error() string { return "session not found" }

func testSession(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		FirstName: "Priya",
		LastName:  "Nair",
		Email:     "priya@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}
