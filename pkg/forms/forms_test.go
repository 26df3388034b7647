package forms

import (
	"net/url"
	"strings"
	"testing"

	"github.com/ethanbaker/taskmanager/pkg/i18n"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserForm(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		fields []string
	}{
		{
			name: "valid",
			values: url.Values{
				"first_name": {" Ann "},
				"username":   {"ann.smith@home"},
				"password1":  {"abc"},
				"password2":  {"abc"},
			},
		},
		{
			name:   "empty",
			values: url.Values{},
			fields: []string{"password1", "password2", "username"},
		},
		{
			name: "mismatch",
			values: url.Values{
				"username":  {"ann"},
				"password1": {"abc"},
				"password2": {"abd"},
			},
			fields: []string{"password2"},
		},
		{
			name: "short password",
			values: url.Values{
				"username":  {"ann"},
				"password1": {"ab"},
				"password2": {"ab"},
			},
			fields: []string{"password2"},
		},
		{
			name: "bad username",
			values: url.Values{
				"username":  {"ann smith!"},
				"password1": {"abc"},
				"password2": {"abc"},
			},
			fields: []string{"username"},
		},
		{
			name: "long names",
			values: url.Values{
				"first_name": {strings.Repeat("a", 151)},
				"username":   {strings.Repeat("b", 151)},
				"password1":  {"abc"},
				"password2":  {"abc"},
			},
			fields: []string{"first_name", "username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form UserForm
			errs := BindValues(tt.values, &form)

			var got []string
			for field := range errs {
				got = append(got, field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestUserFormNormalizes(t *testing.T) {
	var form UserForm
	errs := BindValues(url.Values{
		"first_name": {"  Ann "},
		"last_name":  {" Smith"},
		"username":   {" ann "},
		"password1":  {" pw "},
		"password2":  {" pw "},
	}, &form)

	require.True(t, errs.Valid(), errs)
	assert.Equal(t, "Ann", form.FirstName)
	assert.Equal(t, "Smith", form.LastName)
	assert.Equal(t, "ann", form.Username)
	assert.Equal(t, " pw ", form.Password1)
}

func TestFieldMessages(t *testing.T) {
	var form NameForm
	errs := BindValues(url.Values{"name": {strings.Repeat("ы", 101)}}, &form)

	require.True(t, errs.Has("name"))
	assert.Equal(t, i18n.M("Ensure this value has at most %s characters (it has %d).", "100", 101), errs.Get("name")[0])

	errs = BindValues(url.Values{"name": {"   "}}, &form)
	assert.Equal(t, []i18n.Message{i18n.M("This field is required.")}, errs.Get("name"))
}

func TestLoginForm(t *testing.T) {
	var form LoginForm
	errs := BindValues(url.Values{"username": {"ann"}}, &form)

	assert.False(t, errs.Valid())
	assert.True(t, errs.Has("password"))
	assert.False(t, errs.Has("username"))
	assert.Empty(t, errs.NonField())
}

func TestTaskForm(t *testing.T) {
	t.Run("parses ids", func(t *testing.T) {
		var form TaskForm
		errs := BindValues(url.Values{
			"name":     {" Write docs "},
			"status":   {"2"},
			"executor": {"3"},
			"labels":   {"5", "4", "5", ""},
		}, &form)

		require.True(t, errs.Valid(), errs)
		assert.Equal(t, "Write docs", form.Name)
		assert.Equal(t, uint(2), form.StatusID)
		assert.Equal(t, uint(3), form.ExecutorID)
		assert.Equal(t, []uint{5, 4}, form.LabelIDs)
		assert.True(t, form.HasLabel(4))
		assert.False(t, form.HasLabel(1))
	})

	t.Run("required", func(t *testing.T) {
		var form TaskForm
		errs := BindValues(url.Values{}, &form)

		assert.True(t, errs.Has("name"))
		assert.True(t, errs.Has("status"))
		assert.True(t, errs.Has("executor"))
		assert.False(t, errs.Has("labels"))
	})

	t.Run("invalid ids", func(t *testing.T) {
		var form TaskForm
		errs := BindValues(url.Values{
			"name":     {"x"},
			"status":   {"abc"},
			"executor": {"0"},
			"labels":   {"-1"},
		}, &form)

		assert.True(t, errs.Has("status"))
		assert.True(t, errs.Has("executor"))
		assert.True(t, errs.Has("labels"))
	})

	t.Run("unknown choices", func(t *testing.T) {
		form := TaskForm{StatusID: 9, ExecutorID: 1, LabelIDs: []uint{1, 7}}
		errs := Errors{}

		form.CheckChoices(errs,
			[]tracker.Status{{ID: 1}},
			[]tracker.User{{ID: 1}},
			[]tracker.Label{{ID: 1}},
		)

		assert.True(t, errs.Has("status"))
		assert.False(t, errs.Has("executor"))
		assert.Equal(t, []i18n.Message{i18n.M("Select a valid choice. %d is not one of the available choices.", uint(7))}, errs.Get("labels"))
	})
}

func TestTaskFormFrom(t *testing.T) {
	form := TaskFormFrom(&tracker.Task{
		Name:       "Deploy",
		StatusID:   1,
		ExecutorID: 2,
		Labels:     []tracker.Label{{ID: 3}, {ID: 4}},
	})

	assert.Equal(t, "1", form.Status)
	assert.Equal(t, "2", form.Executor)
	assert.Equal(t, []string{"3", "4"}, form.Labels)
	assert.True(t, form.HasLabel(4))
}
