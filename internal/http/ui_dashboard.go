package httpx

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/brnlabs/staffdesk/internal/domain/model"
)

// Dashboard renders the signed-in landing view: a greeting plus task and
// leave counters. The three lookups are independent, so they run concurrently.
// GET /dashboard.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Dashboard - StaffDesk",
			PageTitle:   "Dashboard",
			CurrentPage: PageDashboard,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				counts    *model.TaskCounts
				openLeave int
				profile   *model.User
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				counts, err = h.TaskSvc.Counts(gctx, session.UserID)
				return err
			})
			g.Go(func() error {
				var err error
				openLeave, err = h.LeaveSvc.CountOpen(gctx, session.UserID)
				return err
			})
			g.Go(func() error {
				var err error
				profile, err = h.UserSvc.GetByEmail(gctx, session.Email)
				return err
			})
			if err := g.Wait(); err != nil {
				h.logger().ErrorContext(ctx, "dashboard stats fetch failed", "error", err)
				return err
			}

			data["TaskCounts"] = counts
			data["OpenTasks"] = counts.Pending + counts.InProgress
			data["OpenLeaves"] = openLeave
			data["Profile"] = profile.Sanitized()
			return nil
		},
	})
}
