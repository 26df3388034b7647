// Package forms binds and validates the HTML forms of the web interface.
// Errors are kept as untranslated messages so the page renders them in the
// visitor's language
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ethanbaker/taskmanager/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonField is the key of errors that belong to the whole form
const NonField = "__all__"

// Form is implemented by every bindable form
type Form interface {
	// Normalize cleans raw input before validation (trimming and the like)
	Normalize()

	// Clean runs the checks struct tags cannot express
	Clean(errs Errors)
}

// Errors maps a field name to its validation messages
type Errors map[string][]i18n.Message

// Add appends a message to a field
func (e Errors) Add(field, id string, args ...any) {
	e[field] = append(e[field], i18n.M(id, args...))
}

// Has reports whether a field has errors
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get returns the messages of a field
func (e Errors) Get(field string) []i18n.Message {
	return e[field]
}

// NonField returns the errors that are not bound to a field
func (e Errors) NonField() []i18n.Message {
	return e[NonField]
}

// Valid reports whether no errors were collected
func (e Errors) Valid() bool {
	return len(e) == 0
}

var (
	setupOnce       sync.Once
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

// Setup registers the form tag names and custom validations on gin's
// validator. It is safe to call more than once
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

func init() {
	Setup()
}

// Bind maps the posted values of a request into form, validates it and
// returns the collected errors
func Bind(c *gin.Context, form Form) Errors {
	if err := c.Request.ParseForm(); err != nil {
		errs := Errors{}
		errs.Add(NonField, "The submitted form could not be read.")
		return errs
	}
	return BindValues(c.Request.PostForm, form)
}

// BindValues is Bind over already parsed values
func BindValues(values map[string][]string, form Form) Errors {
	errs := Errors{}

	if err := binding.MapFormWithTag(form, values, "form"); err != nil {
		errs.Add(NonField, "The submitted form could not be read.")
		return errs
	}

	form.Normalize()

	if err := binding.Validator.ValidateStruct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			errs.Add(NonField, "The submitted form could not be read.")
			return errs
		}
		for _, fe := range fieldErrors {
			errs[fe.Field()] = append(errs[fe.Field()], messageFor(fe))
		}
	}

	form.Clean(errs)
	return errs
}

// messageFor turns a failed struct tag into a readable message
func messageFor(fe validator.FieldError) i18n.Message {
	switch fe.Tag() {
	case "required":
		return i18n.M("This field is required.")
	case "max":
		value, _ := fe.Value().(string)
		return i18n.M("Ensure this value has at most %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(value))
	case "min":
		value, _ := fe.Value().(string)
		return i18n.M("Ensure this value has at least %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(value))
	case "username":
		return i18n.M("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	default:
		return i18n.M("Enter a valid value.")
	}
}
