package httpx

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brnlabs/staffdesk/internal/data"
	domainauth "github.com/brnlabs/staffdesk/internal/domain/auth"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/service"
)

// fakeTasksService is an in-memory TasksService.
type fakeTasksService struct {
	tasks     []*model.Task
	createErr error
}

func (f *fakeTasksService) Create(_ context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	task := &model.Task{
		ID:     "t-new",
		UserID: req.UserID,
		Title:  req.Title,
		Notes:  req.Notes,
		Status: model.TaskStatusPending,
		DueOn:  req.DueOn,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeTasksService) List(_ context.Context, userID string, _, _ int) ([]*model.Task, error) {
	var out []*model.Task
	for _, task := range f.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTasksService) Counts(_ context.Context, userID string) (*model.TaskCounts, error) {
	counts := &model.TaskCounts{}
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		switch task.Status {
		case model.TaskStatusPending:
			counts.Pending++
		case model.TaskStatusInProgress:
			counts.InProgress++
		case model.TaskStatusDone:
			counts.Done++
		}
	}
	return counts, nil
}

func (f *fakeTasksService) SetStatus(_ context.Context, userID, taskID string, status model.TaskStatus) (*model.Task, error) {
	for _, task := range f.tasks {
		if task.ID != taskID {
			continue
		}
		if task.UserID != userID {
			return nil, service.ErrNotTaskOwner
		}
		task.Status = status
		return task, nil
	}
	return nil, service.ErrNotTaskOwner
}

func (f *fakeTasksService) Delete(_ context.Context, userID, taskID string) error {
	for i, task := range f.tasks {
		if task.ID != taskID {
			continue
		}
		if task.UserID != userID {
			return service.ErrNotTaskOwner
		}
		f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
		return nil
	}
	return service.ErrNotTaskOwner
}

// fakeLeavesService is an in-memory LeavesService.
type fakeLeavesService struct {
	leaves []*model.Leave
}

func (f *fakeLeavesService) Request(_ context.Context, req *model.CreateLeaveRequest) (*model.Leave, error) {
	leave := &model.Leave{
		ID:       "l-new",
		UserID:   req.UserID,
		Kind:     req.Kind,
		StartsOn: req.StartsOn,
		EndsOn:   req.EndsOn,
		Reason:   req.Reason,
		Status:   model.LeaveStatusRequested,
	}
	f.leaves = append(f.leaves, leave)
	return leave, nil
}

func (f *fakeLeavesService) List(_ context.Context, userID string, _, _ int) ([]*model.Leave, error) {
	var out []*model.Leave
	for _, leave := range f.leaves {
		if leave.UserID == userID {
			out = append(out, leave)
		}
	}
	return out, nil
}

func (f *fakeLeavesService) CountOpen(_ context.Context, userID string) (int, error) {
	n := 0
	for _, leave := range f.leaves {
		if leave.UserID == userID && leave.Open() {
			n++
		}
	}
	return n, nil
}

func (f *fakeLeavesService) Cancel(_ context.Context, userID, leaveID string) (*model.Leave, error) {
	for _, leave := range f.leaves {
		if leave.ID != leaveID {
			continue
		}
		if leave.UserID != userID {
			return nil, service.ErrNotLeaveOwner
		}
		if !leave.Open() {
			return nil, service.ErrLeaveClosed
		}
		leave.Status = model.LeaveStatusCancelled
		return leave, nil
	}
	return nil, service.ErrNotLeaveOwner
}

func (f *fakeLeavesService) Decide(_ context.Context, leaveID string, approve bool) (*model.Leave, error) {
	for _, leave := range f.leaves {
		if leave.ID != leaveID {
			continue
		}
		if approve {
			leave.Status = model.LeaveStatusApproved
		} else {
			leave.Status = model.LeaveStatusRejected
		}
		return leave, nil
	}
	return nil, data.ErrLeaveNotFound
}

func newTestUIHandlers(t *testing.T) (*UIHandlers, *fakeTasksService, *fakeLeavesService, *fakeUsersService) {
	t.Helper()
	tr := RequireTemplateRenderer(t)
	tasks := &fakeTasksService{}
	leaves := &fakeLeavesService{}
	users := newFakeUsersService(&model.User{
		ID:        "user-1",
		FirstName: "Priya",
		LastName:  "Nair",
		Age:       29,
		Email:     "priya@example.com",
		MobileNo:  "9876543210",
	})
	store, err := NewUploadStore(t.TempDir(), 0)
	require.NoError(t, err)
	return &UIHandlers{
		T:        tr,
		UserSvc:  users,
		TaskSvc:  tasks,
		LeaveSvc: leaves,
		Uploads:  store,
	}, tasks, leaves, users
}

func sessionRequest(method, target string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "text/html")
	return req.WithContext(SetSessionInContext(req.Context(), testSession(domainauth.RoleUser)))
}

func formRequest(target string, form url.Values) *http.Request {
	req := sessionRequest(http.MethodPost, target, bytes.NewBufferString(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDashboard_RendersStats(t *testing.T) {
	h, tasks, leaves, _ := newTestUIHandlers(t)
	tasks.tasks = []*model.Task{
		{ID: "t1", UserID: "user-1", Title: "Ship report", Status: model.TaskStatusPending},
		{ID: "t2", UserID: "user-1", Title: "Old task", Status: model.TaskStatusDone},
	}
	leaves.leaves = []*model.Leave{
		{ID: "l1", UserID: "user-1", Kind: model.LeaveKindVacation, Status: model.LeaveStatusRequested,
			StartsOn: time.Now(), EndsOn: time.Now().AddDate(0, 0, 2)},
	}

	rec := httptest.NewRecorder()
	h.Dashboard(rec, sessionRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{"Hello, Priya Nair", "Open tasks", "Pending leaves"}), body)
}

func TestTasks_ListAndCreate(t *testing.T) {
	h, tasks, _, _ := newTestUIHandlers(t)

	// Empty list renders
	rec := httptest.NewRecorder()
	h.Tasks(rec, sessionRequest(http.MethodGet, "/tasks", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No tasks yet")

	// Valid create redirects back to the list
	form := url.Values{"title": {"Ship the report"}, "notes": {"By Friday"}, "due_on": {"2026-09-04"}}
	rec = httptest.NewRecorder()
	h.TaskCreate(rec, formRequest("/tasks", form))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tasks", rec.Header().Get("Location"))
	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, "Ship the report", tasks.tasks[0].Title)
	require.NotNil(t, tasks.tasks[0].DueOn)
}

func TestTaskCreate_ValidationErrorsRerenderWithFormState(t *testing.T) {
	h, tasks, _, _ := newTestUIHandlers(t)

	form := url.Values{"title": {""}, "notes": {"keep me"}}
	rec := httptest.NewRecorder()
	h.TaskCreate(rec, formRequest("/tasks", form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{"Title is required.", "keep me"}))
	assert.Empty(t, tasks.tasks)
}

func TestTaskActions_OwnershipAndRedirects(t *testing.T) {
	h, tasks, _, _ := newTestUIHandlers(t)
	tasks.tasks = []*model.Task{
		{ID: "t1", UserID: "user-1", Title: "Mine", Status: model.TaskStatusPending},
		{ID: "t2", UserID: "someone-else", Title: "Not mine", Status: model.TaskStatusPending},
	}

	// Complete own task
	req := sessionRequest(http.MethodPost, "/tasks/t1/complete", nil)
	req.SetPathValue("id", "t1")
	rec := httptest.NewRecorder()
	h.TaskComplete(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, model.TaskStatusDone, tasks.tasks[0].Status)

	// Someone else's task is forbidden
	req = sessionRequest(http.MethodPost, "/tasks/t2/delete", nil)
	req.SetPathValue("id", "t2")
	rec = httptest.NewRecorder()
	h.TaskDelete(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, tasks.tasks, 2)
}

func TestLeaves_RequestAndCancel(t *testing.T) {
	h, _, leaves, _ := newTestUIHandlers(t)

	form := url.Values{
		"kind":      {"vacation"},
		"starts_on": {"2026-09-07"},
		"ends_on":   {"2026-09-11"},
		"reason":    {"Family trip"},
	}
	rec := httptest.NewRecorder()
	h.LeaveCreate(rec, formRequest("/leaves", form))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, leaves.leaves, 1)
	assert.Equal(t, model.LeaveKindVacation, leaves.leaves[0].Kind)

	req := sessionRequest(http.MethodPost, "/leaves/l-new/cancel", nil)
	req.SetPathValue("id", "l-new")
	rec = httptest.NewRecorder()
	h.LeaveCancel(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, model.LeaveStatusCancelled, leaves.leaves[0].Status)

	// Cancelling again conflicts: the request is no longer open
	req = sessionRequest(http.MethodPost, "/leaves/l-new/cancel", nil)
	req.SetPathValue("id", "l-new")
	rec = httptest.NewRecorder()
	h.LeaveCancel(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLeaveDecide_ApproveAndReject(t *testing.T) {
	h, _, leaves, _ := newTestUIHandlers(t)
	leaves.leaves = []*model.Leave{
		{ID: "l1", UserID: "user-2", Status: model.LeaveStatusRequested},
		{ID: "l2", UserID: "user-3", Status: model.LeaveStatusRequested},
	}

	req := sessionRequest(http.MethodPost, "/leaves/l1/approve", nil)
	req.SetPathValue("id", "l1")
	rec := httptest.NewRecorder()
	h.LeaveDecide(true)(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, model.LeaveStatusApproved, leaves.leaves[0].Status)

	req = sessionRequest(http.MethodPost, "/leaves/l2/reject", nil)
	req.SetPathValue("id", "l2")
	rec = httptest.NewRecorder()
	h.LeaveDecide(false)(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, model.LeaveStatusRejected, leaves.leaves[1].Status)
}

func TestLeaveDecide_UnknownLeave(t *testing.T) {
	h, _, _, _ := newTestUIHandlers(t)

	req := sessionRequest(http.MethodPost, "/leaves/missing/approve", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.LeaveDecide(true)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaveCreate_EndBeforeStart(t *testing.T) {
	h, _, leaves, _ := newTestUIHandlers(t)

	form := url.Values{
		"kind":      {"sick"},
		"starts_on": {"2026-09-11"},
		"ends_on":   {"2026-09-07"},
	}
	rec := httptest.NewRecorder()
	h.LeaveCreate(rec, formRequest("/leaves", form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "End date cannot be before the start date.")
	assert.Empty(t, leaves.leaves)
}

func TestEditProfile_RendersStoredValues(t *testing.T) {
	h, _, _, _ := newTestUIHandlers(t)

	rec := httptest.NewRecorder()
	h.EditProfile(rec, sessionRequest(http.MethodGet, "/editProfile", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{"Priya", "Nair", "9876543210", "priya@example.com"}))
}

func multipartForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestEditProfileSubmit_UpdatesAndRedirects(t *testing.T) {
	h, _, _, users := newTestUIHandlers(t)

	body, ct := multipartForm(t, map[string]string{
		"first_name": "Priyanka",
		"last_name":  "Nair",
		"age":        "30",
		"mobile_no":  "9876543210",
	})
	req := sessionRequest(http.MethodPost, "/editProfile", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.EditProfileSubmit(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/editProfile", rec.Header().Get("Location"))
	assert.Equal(t, "Priyanka", users.users["priya@example.com"].FirstName)
}

func TestEditProfileSubmit_ValidationRerenders(t *testing.T) {
	h, _, _, users := newTestUIHandlers(t)

	body, ct := multipartForm(t, map[string]string{
		"first_name": "P",
		"last_name":  "Nair",
		"age":        "30",
		"mobile_no":  "9876543210",
	})
	req := sessionRequest(http.MethodPost, "/editProfile", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.EditProfileSubmit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "First name must be between 2 and 30 characters.")
	assert.Equal(t, "Priya", users.users["priya@example.com"].FirstName)
}

func TestSignupSubmit_CreatesAccountAndRedirectsToLanding(t *testing.T) {
	h, _, _, users := newTestUIHandlers(t)

	body, ct := multipartForm(t, map[string]string{
		"first_name": "Arun",
		"last_name":  "Rao",
		"age":        "35",
		"email":      "arun@example.com",
		"password":   "secret1",
		"mobile_no":  "9876501234",
	})
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.SignupSubmit(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, users.users, "arun@example.com")
}

func TestSignupSubmit_DuplicateEmail(t *testing.T) {
	h, _, _, _ := newTestUIHandlers(t)

	body, ct := multipartForm(t, map[string]string{
		"first_name": "Priya",
		"last_name":  "Nair",
		"age":        "29",
		"email":      "priya@example.com",
		"password":   "secret1",
		"mobile_no":  "9876543210",
	})
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.SignupSubmit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "An account with this email already exists.")
}

func TestIndex_UnknownPathIs404(t *testing.T) {
	h, _, _, _ := newTestUIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndex_ShowsLoginFormForAnonymous(t *testing.T) {
	h, _, _, _ := newTestUIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{`action="/auth/login"`, "Create an account"}))
}

func TestIndex_ShowsDashboardLinkWhenSignedIn(t *testing.T) {
	h, _, _, _ := newTestUIHandlers(t)

	rec := httptest.NewRecorder()
	h.Index(rec, sessionRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Go to your dashboard")
}
