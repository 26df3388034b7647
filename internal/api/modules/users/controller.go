package users

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/ethanbaker/taskmanager/pkg/forms"
	"github.com/ethanbaker/taskmanager/pkg/i18n"
	"github.com/ethanbaker/taskmanager/pkg/session"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Flash messages
const (
	msgRegistered    = "User successfully registered"
	msgUpdated       = "User successfully updated"
	msgDeleted       = "User successfully deleted"
	msgNotPermitted  = "You do not have permission to edit another user."
	msgInUse         = "Cannot delete user because it is in use"
	msgUsernameTaken = "A user with that username already exists."
)

type controller struct {
	web    *web.Web
	store  *tracker.Store
	logger *zap.Logger
}

type formData struct {
	Heading string
	Action  string
	Submit  string
}

type listData struct {
	Users []tracker.User
}

type deleteData struct {
	Heading  string
	Question i18n.Message
	Action   string
	Cancel   string
}

func newController(w *web.Web) *controller {
	return &controller{web: w, store: w.Store(), logger: w.Logger("users")}
}

// list shows every user
func (ctrl *controller) list(c *gin.Context) {
	users, err := ctrl.store.ListUsers(c.Request.Context())
	if err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	page := ctrl.web.NewPage(c, "Users")
	page.Data = listData{Users: users}
	ctrl.web.Render(c, http.StatusOK, "users/list.html", page)
}

// createForm renders the registration form
func (ctrl *controller) createForm(c *gin.Context) {
	ctrl.renderForm(c, createPage(), &forms.UserForm{}, nil)
}

// create registers a user
func (ctrl *controller) create(c *gin.Context) {
	var form forms.UserForm
	errs := forms.Bind(c, &form)

	if err := ctrl.checkUsername(c, &form, 0, errs); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}
	if !errs.Valid() {
		ctrl.renderForm(c, createPage(), &form, errs)
		return
	}

	user := &tracker.User{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	if err := user.SetPassword(form.Password1); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	if err := ctrl.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, tracker.ErrDuplicate) {
			errs.Add("username", msgUsernameTaken)
			ctrl.renderForm(c, createPage(), &form, errs)
			return
		}
		ctrl.web.ServerError(c, err)
		return
	}

	ctrl.logger.Info("user registered", zap.Stringer("user", user), zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, msgRegistered)
	ctrl.web.Redirect(c, "/login")
}

// updateForm renders the profile form filled with the current values
func (ctrl *controller) updateForm(c *gin.Context) {
	user := web.User(c)
	form := &forms.UserForm{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
	}
	ctrl.renderForm(c, updatePage(user.ID), form, nil)
}

// update saves the profile of the logged in user
func (ctrl *controller) update(c *gin.Context) {
	current := web.User(c)

	var form forms.UserForm
	errs := forms.Bind(c, &form)

	if err := ctrl.checkUsername(c, &form, current.ID, errs); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}
	if !errs.Valid() {
		ctrl.renderForm(c, updatePage(current.ID), &form, errs)
		return
	}

	user := *current
	user.Username = form.Username
	user.FirstName = form.FirstName
	user.LastName = form.LastName
	if err := user.SetPassword(form.Password1); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	if err := ctrl.store.UpdateUser(c.Request.Context(), &user); err != nil {
		switch {
		case errors.Is(err, tracker.ErrDuplicate):
			errs.Add("username", msgUsernameTaken)
			ctrl.renderForm(c, updatePage(current.ID), &form, errs)
		case errors.Is(err, tracker.ErrNotFound):
			ctrl.web.NotFound(c)
		default:
			ctrl.web.ServerError(c, err)
		}
		return
	}

	ctrl.logger.Info("user updated", zap.Stringer("user", &user), zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, msgUpdated)
	ctrl.web.Redirect(c, "/users")
}

// deleteForm asks for confirmation
func (ctrl *controller) deleteForm(c *gin.Context) {
	user := web.User(c)

	page := ctrl.web.NewPage(c, "Delete user")
	page.Data = deleteData{
		Heading:  "Delete user",
		Question: i18n.M("Are you sure you want to delete %s?", user.FullName()),
		Action:   fmt.Sprintf("/users/%d/delete", user.ID),
		Cancel:   "/users",
	}
	ctrl.web.Render(c, http.StatusOK, "delete.html", page)
}

// delete removes the logged in user unless tasks still point at them
func (ctrl *controller) delete(c *gin.Context) {
	user := web.User(c)

	if c.PostForm("confirm") != "true" {
		ctrl.web.Redirect(c, "/users")
		return
	}

	ctx := c.Request.Context()
	if err := ctrl.store.DeleteUser(ctx, user.ID); err != nil {
		switch {
		case errors.Is(err, tracker.ErrInUse):
			ctrl.logger.Warn("refused to delete user in use", zap.Stringer("user", user), zap.String("ip", web.ClientIP(c)))
			ctrl.web.Flash(c, session.LevelError, msgInUse)
			ctrl.web.Redirect(c, "/users")
		case errors.Is(err, tracker.ErrNotFound):
			ctrl.web.NotFound(c)
		default:
			ctrl.web.ServerError(c, err)
		}
		return
	}

	if err := ctrl.web.Logout(c); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}
	if err := ctrl.web.Sessions().DestroyUser(ctx, user.ID); err != nil {
		ctrl.logger.Error("failed to drop sessions of deleted user", zap.Error(err))
	}

	ctrl.logger.Info("user deleted", zap.Stringer("user", user), zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, msgDeleted)
	ctrl.web.Redirect(c, "/users")
}

// requireSelf lets users edit only their own account
func (ctrl *controller) requireSelf(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ctrl.web.NotFound(c)
		return
	}

	current := web.User(c)
	if uint(id) != current.ID {
		ctrl.logger.Warn("refused to edit another user",
			zap.Stringer("user", current),
			zap.Uint64("target", id),
			zap.String("ip", web.ClientIP(c)))
		ctrl.web.Flash(c, session.LevelError, msgNotPermitted)
		ctrl.web.Redirect(c, "/users")
		c.Abort()
		return
	}

	c.Next()
}

// checkUsername adds an error when another user holds the name
func (ctrl *controller) checkUsername(c *gin.Context, form *forms.UserForm, exceptID uint, errs forms.Errors) error {
	if form.Username == "" || errs.Has("username") {
		return nil
	}

	taken, err := ctrl.store.UsernameTaken(c.Request.Context(), form.Username, exceptID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("username", msgUsernameTaken)
	}
	return nil
}

func (ctrl *controller) renderForm(c *gin.Context, data formData, form *forms.UserForm, errs forms.Errors) {
	page := ctrl.web.NewPage(c, data.Heading)
	page.Data = data
	page.Form = form
	page.Errors = errs
	ctrl.web.Render(c, http.StatusOK, "users/form.html", page)
}

func createPage() formData {
	return formData{Heading: "Sign up", Action: "/users/create", Submit: "Register"}
}

func updatePage(id uint) formData {
	return formData{Heading: "Edit user", Action: fmt.Sprintf("/users/%d/update", id), Submit: "Update"}
}
