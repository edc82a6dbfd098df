package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
)

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_SSODisabled404s(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}, SSOEnabled: false}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin_SSORedirectsToProvider(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}, SSOEnabled: true}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/tasks", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://idp.example.com/authorize")

	cookies := rec.Result().Cookies()
	for _, name := range []string{"oauth_state", "oauth_nonce", "post_login_redirect"} {
		c := cookieByName(cookies, name)
		require.NotNil(t, c, "expected cookie %s", name)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 600, c.MaxAge)
	}
	assert.Equal(t, "/tasks", cookieByName(cookies, "post_login_redirect").Value)
}

func TestLogin_RejectsAbsoluteRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}, SSOEnabled: true}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet,
		"/auth/login?redirect_uri="+url.QueryEscape("https://evil.example.com/"), nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", cookieByName(rec.Result().Cookies(), "post_login_redirect").Value)
}

func formLoginRequest(email, password string) *http.Request {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestFormLogin_SuccessSetsCookieAndRedirectsToDashboard(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{session: testSession(domainauth.RoleUser)}}

	rec := httptest.NewRecorder()
	h.FormLogin(rec, formLoginRequest("priya@example.com", "secret1"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	sessionCookie := cookieByName(rec.Result().Cookies(), "session_id")
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "sess-1", sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Positive(t, sessionCookie.MaxAge)
}

func TestFormLogin_BadCredentialsRedirectBackToLanding(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	rec := httptest.NewRecorder()
	h.FormLogin(rec, formLoginRequest("priya@example.com", "wrong"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?login=invalid", rec.Header().Get("Location"))
	assert.Nil(t, cookieByName(rec.Result().Cookies(), "session_id"))
}

func TestFormLogin_MissingFields(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{session: testSession(domainauth.RoleUser)}}

	rec := httptest.NewRecorder()
	h.FormLogin(rec, formLoginRequest("", ""))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?login=invalid", rec.Header().Get("Location"))
}

func TestCallback_MissingParams(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{session: testSession(domainauth.RoleUser)}}

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_code")

	rec = httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_state")
}

func TestCallback_StateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{session: testSession(domainauth.RoleUser)}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "real-state"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestCallback_SuccessSetsSessionAndRedirects(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{session: testSession(domainauth.RoleUser)}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=st", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/leaves"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/leaves", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	sessionCookie := cookieByName(cookies, "session_id")
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "sess-1", sessionCookie.Value)

	// Temporary OAuth cookies are cleared
	for _, name := range []string{"oauth_state", "oauth_nonce", "post_login_redirect"} {
		c := cookieByName(cookies, name)
		require.NotNil(t, c)
		assert.Equal(t, -1, c.MaxAge, "cookie %s should be cleared", name)
	}
}

func TestLogout_ClearsSessionAndRedirectsToLanding(t *testing.T) {
	svc := &fakeAuthService{session: testSession(domainauth.RoleUser)}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []string{"sess-1"}, svc.logoutIDs)

	cleared := cookieByName(rec.Result().Cookies(), "session_id")
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestLogout_AJAXGetsJSON(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect_to":"/"`)
}

func TestStatus(t *testing.T) {
	svc := &fakeAuthService{session: testSession(domainauth.RoleUser)}
	h := &AuthHandlers{Svc: svc}

	// No cookie
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Valid session
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), "priya@example.com")

	// Unknown session clears the cookie
	req = httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "gone"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	cleared := cookieByName(rec.Result().Cookies(), "session_id")
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/tasks", "/tasks"},
		{"/leaves?page=2", "/leaves?page=2"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com", "/"},
		{"tasks", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirectPath(tt.in), "input %q", tt.in)
	}
}
