package httpx

import (
	"net/http"
)

// Index renders the landing page with the login form.
// GET /. Anonymous-safe: signed-in users see it too (the Signout nav link
// points here), so no session check happens on this route.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}

	data := basePageData(r, PageMeta{
		Title:       "StaffDesk",
		PageTitle:   "Welcome to StaffDesk",
		CurrentPage: PageLanding,
	})
	if r.URL.Query().Get("login") == "invalid" {
		data["LoginError"] = "Invalid email or password."
	}
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "landing render")
	}
}
