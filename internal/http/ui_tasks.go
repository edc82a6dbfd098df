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

const taskListLimit = 100

// Tasks renders the task list with a create form.
// GET /tasks.
func (h *UIHandlers) Tasks(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	h.Page(w, r, PageSpec{
		Meta:  taskPageMeta(),
		Fetch: h.fetchTasks(session.UserID, nil, nil),
	})
}

func taskPageMeta() PageMeta {
	return PageMeta{
		Title:       "Tasks - StaffDesk",
		PageTitle:   "Tasks",
		CurrentPage: PageTasks,
	}
}

// fetchTasks returns a Fetch func that loads the user's tasks, carrying any
// form state from a failed submit back into the page.
func (h *UIHandlers) fetchTasks(userID string, formErrors map[string]string, form map[string]string) func(context.Context, map[string]any) error {
	return func(ctx context.Context, data map[string]any) error {
		tasks, err := h.TaskSvc.List(ctx, userID, taskListLimit, 0)
		if err != nil {
			return err
		}
		data["Tasks"] = tasks
		data["Now"] = time.Now()
		if len(formErrors) > 0 {
			data["Errors"] = formErrors
			data["Form"] = form
			data["ErrorMessage"] = errMsgFixBelow
		}
		return nil
	}
}

// TaskCreate handles the task creation form.
// POST /tasks.
func (h *UIHandlers) TaskCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	title := r.PostFormValue("title")
	notes := r.PostFormValue("notes")
	dueOn := r.PostFormValue("due_on")

	v := validation.New().
		Validate("title", title, validation.Required("Title", 140)).
		Validate("notes", notes, validation.Optional("Notes", 2000))
	if dueOn != "" {
		v.Validate("due_on", dueOn, validation.Date("Due date"))
	}
	if errs := v.Errors(); len(errs) > 0 {
		h.rerenderTasks(w, r, session.UserID, errs, map[string]string{
			"Title": title, "Notes": notes, "DueOn": dueOn,
		})
		return
	}

	req := &model.CreateTaskRequest{
		UserID: session.UserID,
		Title:  title,
		Notes:  strings.TrimSpace(notes),
	}
	if dueOn != "" {
		if due, err := time.Parse("2006-01-02", dueOn); err == nil {
			req.DueOn = &due
		}
	}

	if _, err := h.TaskSvc.Create(r.Context(), req); err != nil {
		h.logger().ErrorContext(r.Context(), "create task failed", "error", err)
		h.rerenderTasks(w, r, session.UserID,
			map[string]string{"title": "Unable to save the task. Please try again."},
			map[string]string{"Title": title, "Notes": notes, "DueOn": dueOn})
		return
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *UIHandlers) rerenderTasks(w http.ResponseWriter, r *http.Request, userID string, errs, form map[string]string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	data := basePageData(r, taskPageMeta())
	if err := h.fetchTasks(userID, errs, form)(r.Context(), data); err != nil {
		markPageError(data)
	}
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "tasks form render")
	}
}

// TaskComplete marks a task done.
// POST /tasks/{id}/complete.
func (h *UIHandlers) TaskComplete(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, func(ctx context.Context, userID, taskID string) error {
		_, err := h.TaskSvc.SetStatus(ctx, userID, taskID, model.TaskStatusDone)
		return err
	})
}

// TaskDelete removes a task.
// POST /tasks/{id}/delete.
func (h *UIHandlers) TaskDelete(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, func(ctx context.Context, userID, taskID string) error {
		return h.TaskSvc.Delete(ctx, userID, taskID)
	})
}

func (h *UIHandlers) taskAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, taskID string) error) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	taskID := r.PathValue("id")
	if taskID == "" {
		h.NotFound(w, r)
		return
	}

	if err := fn(r.Context(), session.UserID, taskID); err != nil {
		if errors.Is(err, service.ErrNotTaskOwner) {
			http.Error(w, "Access Denied", http.StatusForbidden)
			return
		}
		if errors.Is(err, data.ErrTaskNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "task action failed", "task_id", taskID, "error", err)
		http.Error(w, "Unable to update the task.", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}
