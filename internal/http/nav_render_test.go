package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
	"github.com/brnlabs/staffdesk/internal/http/ui/viewmodel"
)

// collectNavLinks parses rendered HTML and returns href -> label for every
// anchor inside the nav-links list.
func collectNavLinks(t *testing.T, body string) map[string]string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	links := make(map[string]string)
	var inNavList bool

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		entered := false
		if n.Type == html.ElementNode && n.Data == "ul" {
			for _, attr := range n.Attr {
				if attr.Key == "class" && strings.Contains(attr.Val, "nav-links") {
					inNavList = true
					entered = true
				}
			}
		}
		if inNavList && n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
				}
			}
			var label strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					label.WriteString(c.Data)
				}
			}
			links[href] = strings.TrimSpace(label.String())
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if entered {
			inNavList = false
		}
	}
	walk(doc)
	return links
}

func renderPage(t *testing.T, h *UIHandlers, session *domainauth.Session) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	if session != nil {
		req = req.WithContext(SetSessionInContext(req.Context(), session))
	}
	rec := httptest.NewRecorder()
	h.Index(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func assertFiveNavLinks(t *testing.T, links map[string]string) {
	t.Helper()
	expected := map[string]string{
		"/dashboard":   "Dashboard",
		"/tasks":       "Tasks",
		"/leaves":      "Leaves",
		"/editProfile": "Edit Profile",
		"/":            "Signout",
	}
	assert.Len(t, links, len(expected))
	for href, label := range expected {
		assert.Equal(t, label, links[href], "nav link for %s", href)
	}
}

func TestNav_FiveLinksRenderForSignedInUser(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	h := &UIHandlers{T: tr}

	body := renderPage(t, h, testSession(domainauth.RoleUser))
	assertFiveNavLinks(t, collectNavLinks(t, body))
}

func TestNav_FiveLinksRenderForAnonymousVisitor(t *testing.T) {
	// The nav bar content never depends on authentication state; only the
	// gates in front of the pages do.
	tr := RequireTemplateRenderer(t)
	h := &UIHandlers{T: tr}

	body := renderPage(t, h, nil)
	assertFiveNavLinks(t, collectNavLinks(t, body))
}

func TestNavLinks_StableOrderAndTargets(t *testing.T) {
	links := viewmodel.NavLinks()
	require.Len(t, links, 5)

	labels := make([]string, len(links))
	hrefs := make([]string, len(links))
	for i, l := range links {
		labels[i] = l.Label
		hrefs[i] = l.Href
	}
	assert.Equal(t, []string{"Dashboard", "Tasks", "Leaves", "Edit Profile", "Signout"}, labels)
	assert.Equal(t, []string{"/dashboard", "/tasks", "/leaves", "/editProfile", "/"}, hrefs)
}
