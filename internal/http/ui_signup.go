package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brnlabs/staffdesk/internal/data"
	"github.com/brnlabs/staffdesk/internal/domain/model"
	"github.com/brnlabs/staffdesk/internal/http/validation"
)

// Signup renders the account creation form. The route is open: new hires
// have no session yet.
// GET /signup.
func (h *UIHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: signupPageMeta()})
}

func signupPageMeta() PageMeta {
	return PageMeta{
		Title:       "Sign Up - StaffDesk",
		PageTitle:   "Create your account",
		CurrentPage: PageSignup,
	}
}

// SignupSubmit handles the account creation form.
// POST /signup.
func (h *UIHandlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Uploads.MaxBytes()); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	firstName := r.PostFormValue("first_name")
	lastName := r.PostFormValue("last_name")
	age := r.PostFormValue("age")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	mobileNo := r.PostFormValue("mobile_no")

	errs := validation.New().
		Validate("first_name", firstName, validation.RequiredRange("First name", 2, 30)).
		Validate("last_name", lastName, validation.RequiredRange("Last name", 1, 30)).
		Validate("age", age, validation.IntRange("Age", 1, 120)).
		Validate("email", email, validation.Email("Email")).
		Validate("password", password, validation.RequiredRange("Password", 6, 72)).
		Validate("mobile_no", mobileNo, validation.RequiredRange("Mobile number", 10, 15)).
		Errors()

	form := map[string]string{
		"FirstName": firstName,
		"LastName":  lastName,
		"Age":       age,
		"Email":     email,
		"MobileNo":  mobileNo,
	}

	picPath, picErr := h.savePictureIfPresent(r)
	if picErr != nil {
		errs["profile_pic"] = uploadErrorMessage(picErr)
	}
	if len(errs) > 0 {
		h.rerenderSignup(w, r, errs, form)
		return
	}

	ageVal, _ := strconv.Atoi(age)
	req := &model.SignupRequest{
		FirstName:  firstName,
		LastName:   lastName,
		Age:        ageVal,
		Email:      email,
		Password:   password,
		MobileNo:   mobileNo,
		ProfilePic: picPath,
	}

	if _, err := h.UserSvc.Signup(r.Context(), req); err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			h.rerenderSignup(w, r,
				map[string]string{"email": "An account with this email already exists."}, form)
			return
		}
		h.logger().ErrorContext(r.Context(), "signup failed", "error", err)
		h.rerenderSignup(w, r,
			map[string]string{"email": "Unable to create your account. Please try again."}, form)
		return
	}

	// Fresh accounts land on the public page and sign in from there.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *UIHandlers) rerenderSignup(w http.ResponseWriter, r *http.Request, errs, form map[string]string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	data := basePageData(r, signupPageMeta())
	data["Errors"] = errs
	data["Form"] = form
	data["ErrorMessage"] = errMsgFixBelow
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "signup form render")
	}
}
