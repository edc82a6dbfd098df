package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
)

func gatedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		require.NotNil(t, session, "gated handler should always see a session")
		w.WriteHeader(http.StatusOK)
	})
}

func browserGet(path, sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}
	return req
}

func TestRequireAuthBrowser_AuthenticatedPassesThrough(t *testing.T) {
	svc := &fakeAuthService{session: testSession(domainauth.RoleUser)}
	handler := RequireAuthBrowser(svc)(gatedHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/dashboard", "sess-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"), "no redirect for an authenticated request")
}

func TestRequireAuthBrowser_MissingSessionRedirectsOnce(t *testing.T) {
	svc := &fakeAuthService{}
	handler := RequireAuthBrowser(svc)(gatedHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/dashboard", ""))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Len(t, rec.Result().Header.Values("Location"), 1, "exactly one redirect per gate evaluation")
}

func TestRequireAuthBrowser_UnknownSessionRedirects(t *testing.T) {
	svc := &fakeAuthService{session: testSession(domainauth.RoleUser)}
	handler := RequireAuthBrowser(svc)(gatedHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/dashboard", "stale-session"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireAuthBrowser_SessionWithoutEmailTreatedAsSignedOut(t *testing.T) {
	// A session record that lacks an email does not identify a user; the gate
	// treats it the same as no session at all.
	session := testSession(domainauth.RoleUser)
	session.Email = ""
	svc := &fakeAuthService{session: session}
	handler := RequireAuthBrowser(svc)(gatedHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/dashboard", "sess-1"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireAuthBrowser_APIRequestGets401JSON(t *testing.T) {
	svc := &fakeAuthService{}
	handler := RequireAuthBrowser(svc)(gatedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRequireRoleBrowser_InsufficientRole(t *testing.T) {
	svc := &fakeAuthService{session: testSession(domainauth.RoleUser)}
	handler := RequireRoleBrowser(svc, domainauth.RoleAdmin)(gatedHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/dashboard", "sess-1"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleBrowser_AdminSatisfiesUserRequirement(t *testing.T) {
	svc := &fakeAuthService{session: testSession(domainauth.RoleAdmin)}
	handler := RequireRoleBrowser(svc, domainauth.RoleUser)(gatedHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/dashboard", "sess-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_AttachesSessionWithoutGating(t *testing.T) {
	svc := &fakeAuthService{session: testSession(domainauth.RoleUser)}

	var sawSession bool
	handler := OptionalAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSession = GetSessionFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/", "sess-1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawSession)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, browserGet("/", ""))
	assert.Equal(t, http.StatusOK, rec.Code, "anonymous requests pass untouched")
}

func TestIsAPIPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/login", true},
		{"/updateProfile", true},
		{"/deleteProfile", true},
		{"/auth/status", true},
		{"/api/anything", true},
		{"/", false},
		{"/dashboard", false},
		{"/signup", false},
		{"/editProfile", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isAPIPath(tt.path), "path %q", tt.path)
	}
}

func TestIsBrowserRequest(t *testing.T) {
	htmlReq := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	htmlReq.Header.Set("Accept", "text/html")
	assert.True(t, isBrowserRequest(htmlReq))

	jsonReq := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	jsonReq.Header.Set("Accept", "application/json")
	assert.False(t, isBrowserRequest(jsonReq))

	noAccept := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.True(t, isBrowserRequest(noAccept), "no Accept header defaults to browser for page routes")

	static := httptest.NewRequest(http.MethodGet, "/static/css/styles.css", nil)
	static.Header.Set("Accept", "text/html")
	assert.False(t, isBrowserRequest(static))

	upload := httptest.NewRequest(http.MethodGet, "/uploads/abc.png", nil)
	upload.Header.Set("Accept", "text/html")
	assert.False(t, isBrowserRequest(upload))
}
