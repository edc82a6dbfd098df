package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/brnlabs/staffdesk/internal/data"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/http/validation"
)

// EditProfile renders the profile form pre-filled with the stored account.
// GET /editProfile.
func (h *UIHandlers) EditProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	h.Page(w, r, PageSpec{
		Meta: profilePageMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			user, err := h.UserSvc.GetByEmail(ctx, session.Email)
			if err != nil {
				return err
			}
			data["Form"] = profileForm(user)
			return nil
		},
	})
}

func profilePageMeta() PageMeta {
	return PageMeta{
		Title:       "Edit Profile - StaffDesk",
		PageTitle:   "Edit Profile",
		CurrentPage: PageEditProfile,
	}
}

func profileForm(u *model.User) map[string]string {
	return map[string]string{
		"FirstName":  u.FirstName,
		"LastName":   u.LastName,
		"Age":        strconv.Itoa(u.Age),
		"Email":      u.Email,
		"MobileNo":   u.MobileNo,
		"ProfilePic": u.ProfilePic,
	}
}

// EditProfileSubmit handles the profile form. The form posts multipart so the
// picture can ride along; a blank password keeps the stored one.
// POST /editProfile.
func (h *UIHandlers) EditProfileSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(h.Uploads.MaxBytes()); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	firstName := r.PostFormValue("first_name")
	lastName := r.PostFormValue("last_name")
	age := r.PostFormValue("age")
	password := r.PostFormValue("password")
	mobileNo := r.PostFormValue("mobile_no")

	v := validation.New().
		Validate("first_name", firstName, validation.RequiredRange("First name", 2, 30)).
		Validate("last_name", lastName, validation.RequiredRange("Last name", 1, 30)).
		Validate("age", age, validation.IntRange("Age", 1, 120)).
		Validate("mobile_no", mobileNo, validation.RequiredRange("Mobile number", 10, 15))
	if password != "" {
		v.Validate("password", password, validation.RequiredRange("Password", 6, 72))
	}
	errs := v.Errors()

	form := map[string]string{
		"FirstName": firstName,
		"LastName":  lastName,
		"Age":       age,
		"Email":     session.Email,
		"MobileNo":  mobileNo,
	}

	picPath, picErr := h.savePictureIfPresent(r)
	if picErr != nil {
		errs["profile_pic"] = uploadErrorMessage(picErr)
	}
	if len(errs) > 0 {
		h.rerenderProfile(w, r, errs, form)
		return
	}

	ageVal, _ := strconv.Atoi(age)
	req := &model.UpdateProfileRequest{
		FirstName:  firstName,
		LastName:   lastName,
		Age:        ageVal,
		Email:      session.Email,
		Password:   password,
		MobileNo:   mobileNo,
		ProfilePic: picPath,
	}

	if _, err := h.UserSvc.UpdateProfile(r.Context(), req); err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "update profile failed", "error", err)
		h.rerenderProfile(w, r,
			map[string]string{"first_name": "Unable to save your profile. Please try again."}, form)
		return
	}

	http.Redirect(w, r, "/editProfile", http.StatusSeeOther)
}

// savePictureIfPresent stores an uploaded profile picture when the form
// includes one. Absence is not an error.
func (h *UIHandlers) savePictureIfPresent(r *http.Request) (string, error) {
	file, header, err := r.FormFile("profile_pic")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.Uploads.Save(file, header)
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUploadTooLarge):
		return "The picture is too large."
	case errors.Is(err, ErrUploadBadType):
		return "The picture must be a PNG, JPEG, GIF, or WebP image."
	default:
		return "Unable to store the picture. Please try again."
	}
}

func (h *UIHandlers) rerenderProfile(w http.ResponseWriter, r *http.Request, errs, form map[string]string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	data := basePageData(r, profilePageMeta())
	data["Errors"] = errs
	data["Form"] = form
	data["ErrorMessage"] = errMsgFixBelow
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "profile form render")
	}
}
