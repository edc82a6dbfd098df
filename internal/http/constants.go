package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageLanding     = "landing"
	PageDashboard   = "dashboard"
	PageTasks       = "tasks"
	PageLeaves      = "leaves"
	PageEditProfile = "edit-profile"
	PageSignup      = "signup"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Content templates are defined once and reused to avoid per-call allocations.
var contentTemplates = map[string]string{ //nolint:gochecknoglobals // static read-only lookup
	PageLanding:     "landing-content",
	PageDashboard:   "dashboard-content",
	PageTasks:       "tasks-content",
	PageLeaves:      "leaves-content",
	PageEditProfile: "edit-profile-content",
	PageSignup:      "signup-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to landing-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "landing-content"
}
