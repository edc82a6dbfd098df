// Package viewmodel holds the types handed to HTML templates.
package viewmodel

// NavLink is a single entry in the portal navigation bar.
type NavLink struct {
	Label string
	Href  string
	Page  string // matches Layout.CurrentPage for active styling
}

// NavLinks returns the portal navigation. The list is fixed: every page shows
// the same five links regardless of who is signed in. Signout points at the
// landing page, which clears nothing by itself; the logout form posts
// separately.
func NavLinks() []NavLink {
	return []NavLink{
		{Label: "Dashboard", Href: "/dashboard", Page: "dashboard"},
		{Label: "Tasks", Href: "/tasks", Page: "tasks"},
		{Label: "Leaves", Href: "/leaves", Page: "leaves"},
		{Label: "Edit Profile", Href: "/editProfile", Page: "edit-profile"},
		{Label: "Signout", Href: "/", Page: "signout"},
	}
}

// User represents the authenticated user context exposed to templates.
type User struct {
	Name  string
	Email string
	Role  string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	IsAuthenticated bool
	IsAdmin         bool
	User            *User
	Nav             []NavLink
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
