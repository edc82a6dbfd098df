//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minFirstNameLen = 2
	maxFirstNameLen = 30
	maxLastNameLen  = 30
	minAge          = 1
	maxAge          = 120
	minPasswordLen  = 6
	minMobileLen    = 10
	maxMobileLen    = 15
)

// User represents an employee account.
// PasswordHash never leaves the data layer; API responses use Sanitized.
type User struct {
	ID           string    `json:"_id"                  db:"id"`
	FirstName    string    `json:"firstName"            db:"first_name"`
	LastName     string    `json:"lastName"             db:"last_name"`
	Age          int       `json:"age"                  db:"age"`
	Email        string    `json:"email"                db:"email"`
	PasswordHash string    `json:"-"                    db:"password_hash"`
	MobileNo     string    `json:"mobileNo"             db:"mobile_no"`
	ProfilePic   string    `json:"profilePic,omitempty" db:"profile_pic"`
	CreatedAt    time.Time `json:"createdAt"            db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"            db:"updated_at"`
}

// Sanitized returns a copy safe for wire responses (no password hash).
// The json tag on PasswordHash already hides it; this exists for callers
// that serialize through maps.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// DisplayName returns the user's full name for UI chrome.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// SignupRequest represents parameters to create a user account.
// The same shape validates profile updates, mirroring the signup rules.
type SignupRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Age        int    `json:"age"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	MobileNo   string `json:"mobileNo"`
	ProfilePic string `json:"profilePic"`
}

// Validate validates SignupRequest.
func (r *SignupRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.MobileNo = strings.TrimSpace(r.MobileNo)

	if n := utf8.RuneCountInString(r.FirstName); n < minFirstNameLen || n > maxFirstNameLen {
		return errors.New("firstName must be between 2 and 30 characters")
	}
	if n := utf8.RuneCountInString(r.LastName); n < 1 || n > maxLastNameLen {
		return errors.New("lastName must be between 1 and 30 characters")
	}
	if r.Age < minAge || r.Age > maxAge {
		return errors.New("age must be between 1 and 120")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.New("password must be at least 6 characters")
	}
	if n := utf8.RuneCountInString(r.MobileNo); n < minMobileLen || n > maxMobileLen {
		return errors.New("mobileNo must be between 10 and 15 characters")
	}
	return nil
}

// UpdateProfileRequest represents parameters to update an existing account.
// Email locates the account and cannot be changed here. Empty Password and
// ProfilePic mean "keep the stored value".
type UpdateProfileRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Age        int    `json:"age"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	MobileNo   string `json:"mobileNo"`
	ProfilePic string `json:"profilePic"`
}

// Validate validates UpdateProfileRequest. Password is only checked when a
// new one is provided.
func (r *UpdateProfileRequest) Validate() error {
	req := SignupRequest{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Age:        r.Age,
		Email:      r.Email,
		Password:   r.Password,
		MobileNo:   r.MobileNo,
		ProfilePic: r.ProfilePic,
	}
	if r.Password == "" {
		// Borrow a placeholder so the shared rules pass; the service keeps
		// the stored hash when no new password is supplied.
		req.Password = strings.Repeat("*", minPasswordLen)
	}
	if err := req.Validate(); err != nil {
		return err
	}
	r.FirstName = req.FirstName
	r.LastName = req.LastName
	r.Email = req.Email
	r.MobileNo = req.MobileNo
	return nil
}
