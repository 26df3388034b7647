package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethanbaker/taskmanager/pkg/forms"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func createUserCmd(app func() *App) *cobra.Command {
	var username, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Register a user",
		Long:  "Register a user with the same validation rules as the sign up form.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			form := &forms.UserForm{}
			errs := forms.BindValues(map[string][]string{
				"username":   {username},
				"password1":  {password},
				"password2":  {password},
				"first_name": {firstName},
				"last_name":  {lastName},
			}, form)
			if !errs.Valid() {
				return a.formError(errs)
			}

			ctx, cancel := timeout(cmd.Context())
			defer cancel()

			store, err := a.Store()
			if err != nil {
				return err
			}

			user := &tracker.User{Username: form.Username, FirstName: form.FirstName, LastName: form.LastName}
			if err := user.SetPassword(form.Password1); err != nil {
				return err
			}

			if err := store.CreateUser(ctx, user); err != nil {
				if errors.Is(err, tracker.ErrDuplicate) {
					return fmt.Errorf("username: %s", a.Catalog.T("en", "A user with that username already exists."))
				}
				return err
			}

			a.Logger.Info("user created", zap.Stringer("user", user))
			printf(cmd.OutOrStdout(), "Created %s\n", user)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// formError joins the translated field errors into one error
func (a *App) formError(errs forms.Errors) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var lines []string
	for _, field := range fields {
		for _, msg := range errs.Get(field) {
			lines = append(lines, field+": "+a.Catalog.Translate("en", msg))
		}
	}
	return errors.New(strings.Join(lines, "\n"))
}
