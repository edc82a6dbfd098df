package httpx

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/http/ui/viewmodel"
	"github.com/brnlabs/staffdesk/internal/service"
)

const errMsgFixBelow = "Please fix the errors below."

// UsersService is a minimal interface for UI needs.
type UsersService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error)
	UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	DeleteProfile(ctx context.Context, email string) (bool, error)
}

// TasksService is a minimal interface for UI needs.
type TasksService interface {
	Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*model.Task, error)
	Counts(ctx context.Context, userID string) (*model.TaskCounts, error)
	SetStatus(ctx context.Context, userID, taskID string, status model.TaskStatus) (*model.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

// LeavesService is a minimal interface for UI needs.
type LeavesService interface {
	Request(ctx context.Context, req *model.CreateLeaveRequest) (*model.Leave, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*model.Leave, error)
	CountOpen(ctx context.Context, userID string) (int, error)
	Cancel(ctx context.Context, userID, leaveID string) (*model.Leave, error)
	Decide(ctx context.Context, leaveID string, approve bool) (*model.Leave, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ UsersService  = (*service.UserService)(nil)
	_ TasksService  = (*service.TaskService)(nil)
	_ LeavesService = (*service.LeaveService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T        *TemplateRenderer
	UserSvc  UsersService
	TaskSvc  TasksService
	LeaveSvc LeavesService
	Uploads  *UploadStore
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
// The Nav field is populated unconditionally: the navigation bar never varies
// with authentication state, only the gate in front of the page does.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		Nav:         viewmodel.NavLinks(),
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		layout.User = &viewmodel.User{
			Name:  displayName(session),
			Email: session.Email,
			Role:  string(session.Role),
		}
		layout.IsAuthenticated = session.IsAuthenticated()
		layout.IsAdmin = session.Role == domainauth.RoleAdmin
	}

	return layout
}

func displayName(s *domainauth.Session) string {
	name := s.FirstName
	if s.LastName != "" {
		if name != "" {
			name += " "
		}
		name += s.LastName
	}
	if name == "" {
		return s.Email
	}
	return name
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
		"Nav":             layout.Nav,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			markPageError(data)
		}
	}
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "full page render")
	}
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = "An unexpected error occurred. Please try again."
}

// currentSession returns the session or renders a 404; gated routes always
// have one, so a miss here means the route was wired without the gate.
func (h *UIHandlers) currentSession(w http.ResponseWriter, r *http.Request) (*domainauth.Session, bool) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		h.NotFound(w, r)
		return nil, false
	}
	return session, true
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		if _, writeErr := w.Write([]byte(`<pre>template error at ` + pathHTML + `: ` + errHTML + `</pre>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// NotFound handles 404 errors with auth-aware behavior.
// For browser requests, it renders an HTML error page.
// For API requests, it returns a JSON error response.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}

	session := GetSessionFromContext(r.Context())
	data := map[string]any{
		"Title":           "Page Not Found - StaffDesk",
		"Code":            "404",
		"Message":         "The page you're looking for doesn't exist.",
		"IsAuthenticated": session != nil,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if h.T != nil {
		if err := h.T.RenderError(w, r, data); err != nil {
			http.Error(w, "Page not found", http.StatusNotFound)
		}
		return
	}
	http.Error(w, "Page not found", http.StatusNotFound)
}
