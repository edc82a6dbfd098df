package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	staffdesk "github.com/brnlabs/staffdesk"
	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
	"github.com/brnlabs/staffdesk/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Tasks        *service.TaskService
	Leaves       *service.LeaveService
	Uploads      *UploadStore
	CookieDomain string
	SSOEnabled   bool
	IsDev        bool         // Development mode flag for hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	apiHandlers := &APIHandlers{
		Users:   services.Users,
		Uploads: services.Uploads,
		Logger:  services.Logger,
	}

	// Session-backed routes disappear entirely when auth is disabled
	// (no session store); the rest of the site still serves.
	if services.Auth != nil {
		apiHandlers.Auth = services.Auth
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			SSOEnabled:   services.SSOEnabled,
			Logger:       services.Logger,
		})
		mux.HandleFunc("POST /login", apiHandlers.Login)
	}
	registerAPIRoutes(mux, apiHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(Health))
	mux.Handle("HEAD /healthz", http.HandlerFunc(Health))

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticWithFallback(services.IsDev))

	// Stored profile pictures
	if services.Uploads != nil {
		mux.Handle("GET /uploads/", services.Uploads.Handler())
	}

	uiHandlers := setupUIHandlers(services)
	if uiHandlers != nil {
		registerUIRoutes(mux, uiHandlers, apiHandlers, uiRouteConfig{Auth: services.Auth})
	}

	// Wrap with NotFound handler and browser detection middleware
	handler := &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}

	return BrowserDetection()(handler)
}

// setupUIHandlers creates UI handlers with a template renderer.
// In dev mode (services.IsDev=true), templates are loaded from disk for hot reloading.
// In production mode (services.IsDev=false), templates are loaded from the embedded FS.
func setupUIHandlers(services RouterServices) *UIHandlers {
	var templateFS fs.FS
	if services.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
	} else {
		sub, err := fs.Sub(staffdesk.TemplateFS, "frontend/templates")
		if err != nil {
			log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
			sub = os.DirFS(TemplatePathFromRoot)
		}
		templateFS = sub
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	return &UIHandlers{
		T:        tr,
		UserSvc:  services.Users,
		TaskSvc:  services.Tasks,
		LeaveSvc: services.Leaves,
		Uploads:  services.Uploads,
		IsDev:    services.IsDev,
		Logger:   services.Logger,
	}
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from the embedded FS.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static")))
	}

	staticSub, err := fs.Sub(staffdesk.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		// Fallback to disk serving if embed fails
		return http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static")))
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(staticSub)))
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound {
		// For missing static assets and uploads, keep the file server response
		if strings.HasPrefix(r.URL.Path, "/static/") || strings.HasPrefix(r.URL.Path, "/uploads/") {
			cw.flushTo(w)
			return
		}
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("POST /auth/login", h.FormLogin)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// registerAPIRoutes wires the legacy account API. The paths predate the
// portal and have no common prefix; isAPIPath knows them by name.
func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers) {
	mux.HandleFunc("PUT /updateProfile", h.UpdateProfile)
	mux.HandleFunc("DELETE /deleteProfile", h.DeleteProfile)
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth *service.AuthService
}

// authWrap returns a no-op wrapper when auth is nil, otherwise applies RequireAuthBrowser.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAuthBrowser(cfg.Auth)
}

// openWrap attaches the session when one exists without gating the route.
func (cfg uiRouteConfig) openWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return OptionalAuth(cfg.Auth)
}

// adminWrap gates a route on the admin role.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireRoleBrowser(cfg.Auth, domainauth.RoleAdmin)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, api *APIHandlers, cfg uiRouteConfig) {
	registerUILandingRoutes(mux, h, cfg)
	registerUITaskRoutes(mux, h, cfg)
	registerUILeaveRoutes(mux, h, cfg)
	registerUIProfileRoutes(mux, h, cfg)
	registerUISignupRoutes(mux, h, api, cfg)
}

// registerUILandingRoutes wires the landing page and dashboard.
func registerUILandingRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	open := cfg.openWrap()
	wrap := cfg.authWrap()
	// The landing page never gates; signout links here.
	mux.Handle("GET /", open(http.HandlerFunc(h.Index)))
	mux.Handle("GET /dashboard", wrap(http.HandlerFunc(h.Dashboard)))
}

func registerUITaskRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /tasks", wrap(http.HandlerFunc(h.Tasks)))
	mux.Handle("POST /tasks", wrap(http.HandlerFunc(h.TaskCreate)))
	mux.Handle("POST /tasks/{id}/complete", wrap(http.HandlerFunc(h.TaskComplete)))
	mux.Handle("POST /tasks/{id}/delete", wrap(http.HandlerFunc(h.TaskDelete)))
}

func registerUILeaveRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	admin := cfg.adminWrap()
	mux.Handle("GET /leaves", wrap(http.HandlerFunc(h.Leaves)))
	mux.Handle("POST /leaves", wrap(http.HandlerFunc(h.LeaveCreate)))
	mux.Handle("POST /leaves/{id}/cancel", wrap(http.HandlerFunc(h.LeaveCancel)))
	mux.Handle("POST /leaves/{id}/approve", admin(h.LeaveDecide(true)))
	mux.Handle("POST /leaves/{id}/reject", admin(h.LeaveDecide(false)))
}

func registerUIProfileRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /editProfile", wrap(http.HandlerFunc(h.EditProfile)))
	mux.Handle("POST /editProfile", wrap(http.HandlerFunc(h.EditProfileSubmit)))
}

// registerUISignupRoutes wires signup. POST /signup is shared with the legacy
// JSON API, so browser form posts go to the HTML handler and everything else
// to the envelope handler.
func registerUISignupRoutes(mux *http.ServeMux, h *UIHandlers, api *APIHandlers, cfg uiRouteConfig) {
	open := cfg.openWrap()
	mux.Handle("GET /signup", open(http.HandlerFunc(h.Signup)))
	mux.Handle("POST /signup", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsBrowserRequest(r) {
			h.SignupSubmit(w, r)
			return
		}
		api.Signup(w, r)
	}))
}
