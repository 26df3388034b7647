package forms

import (
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 3

// LoginForm is the sign in form
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (f *LoginForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
}

func (f *LoginForm) Clean(Errors) {}

// UserForm registers a user or edits one
type UserForm struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Username  string `form:"username" binding:"required,max=150,username"`
	Password1 string `form:"password1" binding:"required"`
	Password2 string `form:"password2" binding:"required"`
}

func (f *UserForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
}

// Clean checks the password pair. Password errors are reported on the
// confirmation field
func (f *UserForm) Clean(errs Errors) {
	if f.Password1 == "" || f.Password2 == "" {
		return
	}

	if f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
		return
	}

	if utf8.RuneCountInString(f.Password1) < MinPasswordLength {
		errs.Add("password2", "This password is too short. It must contain at least %d characters.", MinPasswordLength)
	}
}
