package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/brnlabs/staffdesk/internal/data"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/http/validation"
	"github.com/brnlabs/staffdesk/internal/service"
)

const leaveListLimit = 100

var leaveKinds = []string{
	string(model.LeaveKindVacation),
	string(model.LeaveKindSick),
	string(model.LeaveKindPersonal),
}

// Leaves renders the leave request list with a request form.
// GET /leaves.
func (h *UIHandlers) Leaves(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	h.Page(w, r, PageSpec{
		Meta:  leavePageMeta(),
		Fetch: h.fetchLeaves(session.UserID, nil, nil),
	})
}

func leavePageMeta() PageMeta {
	return PageMeta{
		Title:       "Leaves - StaffDesk",
		PageTitle:   "Leaves",
		CurrentPage: PageLeaves,
	}
}

func (h *UIHandlers) fetchLeaves(userID string, formErrors map[string]string, form map[string]string) func(context.Context, map[string]any) error {
	return func(ctx context.Context, data map[string]any) error {
		leaves, err := h.LeaveSvc.List(ctx, userID, leaveListLimit, 0)
		if err != nil {
			return err
		}
		data["Leaves"] = leaves
		data["Kinds"] = leaveKinds
		if len(formErrors) > 0 {
			data["Errors"] = formErrors
			data["Form"] = form
			data["ErrorMessage"] = errMsgFixBelow
		}
		return nil
	}
}

// LeaveCreate handles the leave request form.
// POST /leaves.
func (h *UIHandlers) LeaveCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	kind := r.PostFormValue("kind")
	startsOn := r.PostFormValue("starts_on")
	endsOn := r.PostFormValue("ends_on")
	reason := r.PostFormValue("reason")

	v := validation.New().
		Validate("kind", kind, validation.OneOf("Leave type", leaveKinds)).
		Validate("starts_on", startsOn, validation.Date("Start date")).
		Validate("ends_on", endsOn, validation.Date("End date")).
		Validate("reason", reason, validation.Optional("Reason", 500))
	errs := v.Errors()

	form := map[string]string{
		"Kind": kind, "StartsOn": startsOn, "EndsOn": endsOn, "Reason": reason,
	}

	var starts, ends time.Time
	if _, ok := errs["starts_on"]; !ok {
		starts, _ = time.Parse("2006-01-02", startsOn)
	}
	if _, ok := errs["ends_on"]; !ok {
		ends, _ = time.Parse("2006-01-02", endsOn)
	}
	if len(errs) == 0 && ends.Before(starts) {
		errs["ends_on"] = "End date cannot be before the start date."
	}
	if len(errs) > 0 {
		h.rerenderLeaves(w, r, session.UserID, errs, form)
		return
	}

	leaveKind, _ := model.ParseLeaveKind(kind)
	req := &model.CreateLeaveRequest{
		UserID:   session.UserID,
		Kind:     leaveKind,
		StartsOn: starts,
		EndsOn:   ends,
		Reason:   strings.TrimSpace(reason),
	}

	if _, err := h.LeaveSvc.Request(r.Context(), req); err != nil {
		h.logger().ErrorContext(r.Context(), "request leave failed", "error", err)
		h.rerenderLeaves(w, r, session.UserID,
			map[string]string{"kind": "Unable to save the leave request. Please try again."}, form)
		return
	}

	http.Redirect(w, r, "/leaves", http.StatusSeeOther)
}

// LeaveDecide resolves a leave request. Route middleware restricts these
// routes to admins.
// POST /leaves/{id}/approve, POST /leaves/{id}/reject.
func (h *UIHandlers) LeaveDecide(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leaveID := r.PathValue("id")
		if leaveID == "" {
			h.NotFound(w, r)
			return
		}

		if _, err := h.LeaveSvc.Decide(r.Context(), leaveID, approve); err != nil {
			if errors.Is(err, data.ErrLeaveNotFound) {
				h.NotFound(w, r)
				return
			}
			h.logger().ErrorContext(r.Context(), "decide leave failed",
				"leave_id", leaveID, "approve", approve, "error", err)
			http.Error(w, "Unable to update the leave request.", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/leaves", http.StatusSeeOther)
	}
}

func (h *UIHandlers) rerenderLeaves(w http.ResponseWriter, r *http.Request, userID string, errs, form map[string]string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	data := basePageData(r, leavePageMeta())
	if err := h.fetchLeaves(userID, errs, form)(r.Context(), data); err != nil {
		markPageError(data)
	}
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "leaves form render")
	}
}

// LeaveCancel withdraws an open leave request.
// POST /leaves/{id}/cancel.
func (h *UIHandlers) LeaveCancel(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	leaveID := r.PathValue("id")
	if leaveID == "" {
		h.NotFound(w, r)
		return
	}

	if _, err := h.LeaveSvc.Cancel(r.Context(), session.UserID, leaveID); err != nil {
		if errors.Is(err, service.ErrNotLeaveOwner) {
			http.Error(w, "Access Denied", http.StatusForbidden)
			return
		}
		if errors.Is(err, service.ErrLeaveClosed) {
			http.Error(w, "This leave request can no longer be cancelled.", http.StatusConflict)
			return
		}
		if errors.Is(err, data.ErrLeaveNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "cancel leave failed", "leave_id", leaveID, "error", err)
		http.Error(w, "Unable to cancel the leave request.", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/leaves", http.StatusSeeOther)
}
