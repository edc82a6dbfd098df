package httpx

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/brnlabs/staffdesk/internal/data"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/service"
)

// APIAuthService is the slice of AuthService the legacy API needs.
type APIAuthService interface {
	TokenLogin(ctx context.Context, email, password string) (string, error)
}

// APIHandlers serves the legacy account API. Responses use the
// status:"success"/"failure" envelope; clients branch on the status field,
// so most failures still return HTTP 200.
type APIHandlers struct {
	Users   UsersService
	Auth    APIAuthService
	Uploads *UploadStore
	Logger  *slog.Logger
}

func (h *APIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// Signup creates an account. The endpoint accepts JSON, urlencoded, or
// multipart bodies; a multipart profilePic file is stored and its public
// path saved on the account.
// POST /signup.
func (h *APIHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest

	switch mt := mediaType(r); mt {
	case "application/json":
		if !DecodeJSON(w, r, &req) {
			return
		}
	case "multipart/form-data", "application/x-www-form-urlencoded":
		if mt == "multipart/form-data" {
			if err := r.ParseMultipartForm(h.Uploads.MaxBytes()); err != nil {
				WriteFailure(w, http.StatusOK, "invalid form body")
				return
			}
			picPath, err := h.savePicture(r)
			if err != nil {
				WriteFailure(w, http.StatusOK, "could not store profile picture")
				return
			}
			req.ProfilePic = picPath
		} else if err := r.ParseForm(); err != nil {
			WriteFailure(w, http.StatusOK, "invalid form body")
			return
		}
		fillSignupFromForm(&req, r)
	default:
		WriteFailure(w, http.StatusOK, "unsupported content type")
		return
	}

	if err := req.Validate(); err != nil {
		WriteFailure(w, http.StatusOK, "validation failed: "+err.Error())
		return
	}

	user, err := h.Users.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			WriteFailure(w, http.StatusOK, "email already registered")
			return
		}
		h.logger().ErrorContext(r.Context(), "api signup failed", "error", err)
		WriteFailure(w, http.StatusInternalServerError, "signup failed")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"user": user.Sanitized()})
}

func fillSignupFromForm(req *model.SignupRequest, r *http.Request) {
	req.FirstName = r.PostFormValue("firstName")
	req.LastName = r.PostFormValue("lastName")
	req.Email = r.PostFormValue("email")
	req.Password = r.PostFormValue("password")
	req.MobileNo = r.PostFormValue("mobileNo")
	if age, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age"))); err == nil {
		req.Age = age
	}
}

// Login verifies credentials and mints a bearer token. The client submits
// FormData, so only multipart bodies are accepted; everything else is a
// failure envelope, never an HTTP error.
// POST /login.
func (h *APIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if mediaType(r) != "multipart/form-data" {
		WriteFailure(w, http.StatusOK, "invalid content-type")
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		WriteFailure(w, http.StatusOK, "invalid form body")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		WriteFailure(w, http.StatusOK, "no email or password provided")
		return
	}

	token, err := h.Auth.TokenLogin(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteFailure(w, http.StatusOK, "invalid email or password")
			return
		}
		h.logger().ErrorContext(r.Context(), "api login failed", "error", err)
		WriteFailure(w, http.StatusInternalServerError, "login failed")
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), email)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "api login lookup failed", "error", err)
		WriteFailure(w, http.StatusInternalServerError, "login failed")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user.Sanitized(),
	})
}

// UpdateProfile updates the account located by the email form field. An
// absent picture or blank password keeps the stored values.
// PUT /updateProfile.
func (h *APIHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if mediaType(r) != "multipart/form-data" {
		WriteFailure(w, http.StatusOK, "invalid content-type")
		return
	}
	if err := r.ParseMultipartForm(h.Uploads.MaxBytes()); err != nil {
		WriteFailure(w, http.StatusOK, "invalid form body")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	if email == "" {
		WriteFailure(w, http.StatusOK, "email is required to update profile")
		return
	}

	picPath, err := h.savePicture(r)
	if err != nil {
		WriteFailure(w, http.StatusOK, "could not store profile picture")
		return
	}

	req := &model.UpdateProfileRequest{
		FirstName:  r.PostFormValue("firstName"),
		LastName:   r.PostFormValue("lastName"),
		Email:      email,
		Password:   r.PostFormValue("password"),
		MobileNo:   r.PostFormValue("mobileNo"),
		ProfilePic: picPath,
	}
	if age, convErr := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age"))); convErr == nil {
		req.Age = age
	}
	if err := req.Validate(); err != nil {
		WriteFailure(w, http.StatusOK, "validation failed: "+err.Error())
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), req)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			WriteFailure(w, http.StatusOK, "user not found")
			return
		}
		h.logger().ErrorContext(r.Context(), "api update profile failed", "error", err)
		WriteFailure(w, http.StatusInternalServerError, "profile update failed")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"user": user.Sanitized()})
}

// DeleteProfile removes the account named by the email query parameter.
// DELETE /deleteProfile?email=someone@example.com.
func (h *APIHandlers) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		WriteFailure(w, http.StatusOK, "email is required")
		return
	}

	deleted, err := h.Users.DeleteProfile(r.Context(), email)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "api delete profile failed", "error", err)
		WriteFailure(w, http.StatusInternalServerError, "profile delete failed")
		return
	}
	if !deleted {
		WriteFailure(w, http.StatusOK, "user not found")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}

// savePicture stores an uploaded profilePic when present. Absence is fine.
func (h *APIHandlers) savePicture(r *http.Request) (string, error) {
	file, header, err := r.FormFile("profilePic")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.Uploads.Save(file, header)
}
