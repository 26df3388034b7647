package web

import (
	"fmt"

	"github.com/ethanbaker/taskmanager/pkg/forms"
	"github.com/ethanbaker/taskmanager/pkg/i18n"
	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/ethanbaker/taskmanager/pkg/utils"
)

// Page is the data every template receives. Title and all other strings stay
// untranslated until the template calls T or Tr
type Page struct {
	Title     string
	Lang      string
	Languages []i18n.Language
	User      *tracker.User
	CSRFToken string
	Flashes   []session.Flash
	Provider  *utils.HostingProvider
	Path      string
	Debug     bool

	Form   any
	Errors forms.Errors
	Data   any

	catalog *i18n.Catalog
}

// T translates a message id into the page language
func (p *Page) T(id string, args ...any) string {
	if p.catalog == nil {
		return id
	}
	return p.catalog.T(p.Lang, id, args...)
}

// Tr translates messages, errors and plain ids
func (p *Page) Tr(value any) string {
	if p.catalog == nil {
		return fmt.Sprint(value)
	}
	return p.catalog.Translate(p.Lang, value)
}

// IsAuthenticated reports whether a user is logged in
func (p *Page) IsAuthenticated() bool {
	return p.User != nil
}

// IsCurrentUser reports whether id belongs to the logged in user
func (p *Page) IsCurrentUser(id uint) bool {
	return p.User != nil && p.User.ID == id
}

// FieldErrors returns the messages of a form field
func (p *Page) FieldErrors(field string) []i18n.Message {
	return p.Errors.Get(field)
}

// HasErrors reports whether a form field failed validation
func (p *Page) HasErrors(field string) bool {
	return p.Errors.Has(field)
}
