package forms

import "strings"

// NameForm edits a status or a label
type NameForm struct {
	Name string `form:"name" binding:"required,max=100"`
}

func (f *NameForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

func (f *NameForm) Clean(Errors) {}
