package tasks

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
	msgCreated      = "Task successfully created"
	msgUpdated      = "Task successfully updated"
	msgDeleted      = "Task successfully deleted"
	msgOnlyAuthor   = "Only the author can delete the task."
	msgDuplicate    = "A task with this name already exists."
	msgBadReference = "The selected status, executor or label no longer exists."
)

// taskKey holds the task loaded by requireAuthor
const taskKey = "tasks.task"

type controller struct {
	web    *web.Web
	store  *tracker.Store
	logger *zap.Logger
}

// Choices are the rows offered by the select inputs
type Choices struct {
	Statuses []tracker.Status
	Users    []tracker.User
	Labels   []tracker.Label
}

type listData struct {
	Choices
	Tasks     []tracker.Task
	Filter    tracker.TaskFilter
	SelfTasks bool
	Query     string
}

type detailData struct {
	Task *tracker.Task
}

type formData struct {
	Choices
	Heading string
	Action  string
	Submit  string
}

type deleteData struct {
	Heading  string
	Question i18n.Message
	Action   string
	Cancel   string
}

func newController(w *web.Web) *controller {
	return &controller{web: w, store: w.Store(), logger: w.Logger("tasks")}
}

// list shows the tasks matching the filter form
func (ctrl *controller) list(c *gin.Context) {
	ctx := c.Request.Context()
	filter, self := ctrl.filter(c)

	tasks, err := ctrl.store.ListTasks(ctx, filter)
	if err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	opts, err := ctrl.choices(c)
	if err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	page := ctrl.web.NewPage(c, "Tasks")
	page.Data = listData{
		Choices:   opts,
		Tasks:     tasks,
		Filter:    filter,
		SelfTasks: self,
		Query:     c.Request.URL.RawQuery,
	}
	ctrl.web.Render(c, http.StatusOK, "tasks/list.html", page)
}

// detail shows one task with its rendered description
func (ctrl *controller) detail(c *gin.Context) {
	task, ok := ctrl.load(c)
	if !ok {
		return
	}

	page := ctrl.web.NewPage(c, "Task view")
	page.Data = detailData{Task: task}
	ctrl.web.Render(c, http.StatusOK, "tasks/detail.html", page)
}

// createForm renders an empty task form
func (ctrl *controller) createForm(c *gin.Context) {
	ctrl.renderForm(c, createPage(), &forms.TaskForm{}, nil)
}

// create saves a task authored by the current user
func (ctrl *controller) create(c *gin.Context) {
	form, errs, ok := ctrl.bind(c, 0)
	if !ok {
		return
	}
	if !errs.Valid() {
		ctrl.renderForm(c, createPage(), form, errs)
		return
	}

	user := web.User(c)
	task := &tracker.Task{
		Name:        form.Name,
		Description: form.Description,
		StatusID:    form.StatusID,
		ExecutorID:  form.ExecutorID,
		AuthorID:    user.ID,
	}

	if err := ctrl.store.CreateTask(c.Request.Context(), task, form.LabelIDs); err != nil {
		if ctrl.formError(err, errs) {
			ctrl.renderForm(c, createPage(), form, errs)
			return
		}
		ctrl.web.ServerError(c, err)
		return
	}

	ctrl.logger.Info("task created",
		zap.Uint("id", task.ID),
		zap.String("name", task.Name),
		zap.Stringer("user", user),
		zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, msgCreated)
	ctrl.web.Redirect(c, "/tasks")
}

// updateForm renders the form filled with the task
func (ctrl *controller) updateForm(c *gin.Context) {
	task, ok := ctrl.load(c)
	if !ok {
		return
	}
	ctrl.renderForm(c, updatePage(task.ID), forms.TaskFormFrom(task), nil)
}

// update saves any task. The author stays the same
func (ctrl *controller) update(c *gin.Context) {
	task, ok := ctrl.load(c)
	if !ok {
		return
	}

	form, errs, ok := ctrl.bind(c, task.ID)
	if !ok {
		return
	}
	if !errs.Valid() {
		ctrl.renderForm(c, updatePage(task.ID), form, errs)
		return
	}

	task.Name = form.Name
	task.Description = form.Description
	task.StatusID = form.StatusID
	task.ExecutorID = form.ExecutorID

	if err := ctrl.store.UpdateTask(c.Request.Context(), task, form.LabelIDs); err != nil {
		switch {
		case ctrl.formError(err, errs):
			ctrl.renderForm(c, updatePage(task.ID), form, errs)
		case errors.Is(err, tracker.ErrNotFound):
			ctrl.web.NotFound(c)
		default:
			ctrl.web.ServerError(c, err)
		}
		return
	}

	ctrl.logger.Info("task updated",
		zap.Uint("id", task.ID),
		zap.String("name", task.Name),
		zap.Stringer("user", web.User(c)),
		zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, msgUpdated)
	ctrl.web.Redirect(c, "/tasks")
}

// deleteForm asks the author for confirmation
func (ctrl *controller) deleteForm(c *gin.Context) {
	task := c.MustGet(taskKey).(*tracker.Task)

	page := ctrl.web.NewPage(c, "Delete task")
	page.Data = deleteData{
		Heading:  "Delete task",
		Question: i18n.M("Are you sure you want to delete %s?", task.Name),
		Action:   fmt.Sprintf("/tasks/%d/delete", task.ID),
		Cancel:   "/tasks",
	}
	ctrl.web.Render(c, http.StatusOK, "delete.html", page)
}

// delete removes the task
func (ctrl *controller) delete(c *gin.Context) {
	task := c.MustGet(taskKey).(*tracker.Task)

	if err := ctrl.store.DeleteTask(c.Request.Context(), task.ID); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			ctrl.web.NotFound(c)
			return
		}
		ctrl.web.ServerError(c, err)
		return
	}

	ctrl.logger.Info("task deleted",
		zap.Uint("id", task.ID),
		zap.String("name", task.Name),
		zap.Stringer("user", web.User(c)),
		zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, msgDeleted)
	ctrl.web.Redirect(c, "/tasks")
}

// requireAuthor loads the task and refuses everybody but its author
func (ctrl *controller) requireAuthor(c *gin.Context) {
	task, ok := ctrl.load(c)
	if !ok {
		return
	}

	user := web.User(c)
	if task.AuthorID != user.ID {
		ctrl.logger.Warn("refused to delete task of another author",
			zap.Uint("id", task.ID),
			zap.Stringer("user", user),
			zap.String("ip", web.ClientIP(c)))
		ctrl.web.Flash(c, session.LevelError, msgOnlyAuthor)
		ctrl.web.Redirect(c, "/tasks")
		c.Abort()
		return
	}

	c.Set(taskKey, task)
	c.Next()
}

// filter reads the list filters. The author filter is only reachable through
// the self_tasks checkbox
func (ctrl *controller) filter(c *gin.Context) (tracker.TaskFilter, bool) {
	filter := tracker.ParseTaskFilter(c.Request.URL.Query())
	filter.AuthorID = 0

	switch c.Query("self_tasks") {
	case "on", "true", "1":
		filter.AuthorID = web.User(c).ID
		return filter, true
	}
	return filter, false
}

// bind parses the task form and checks the choices and name
func (ctrl *controller) bind(c *gin.Context, taskID uint) (*forms.TaskForm, forms.Errors, bool) {
	form := &forms.TaskForm{}
	errs := forms.Bind(c, form)

	opts, err := ctrl.choices(c)
	if err != nil {
		ctrl.web.ServerError(c, err)
		return nil, nil, false
	}
	form.CheckChoices(errs, opts.Statuses, opts.Users, opts.Labels)

	if form.Name != "" && !errs.Has("name") {
		taken, err := ctrl.store.TaskNameTaken(c.Request.Context(), form.Name, taskID)
		if err != nil {
			ctrl.web.ServerError(c, err)
			return nil, nil, false
		}
		if taken {
			errs.Add("name", msgDuplicate)
		}
	}

	return form, errs, true
}

// formError maps store errors caused by concurrent edits onto the form
func (ctrl *controller) formError(err error, errs forms.Errors) bool {
	switch {
	case errors.Is(err, tracker.ErrDuplicate):
		errs.Add("name", msgDuplicate)
		return true
	case errors.Is(err, tracker.ErrInvalidReference):
		errs.Add(forms.NonField, msgBadReference)
		return true
	}
	return false
}

// load reads the :id parameter and its task, answering 404 when either is bad
func (ctrl *controller) load(c *gin.Context) (*tracker.Task, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ctrl.web.NotFound(c)
		return nil, false
	}

	task, err := ctrl.store.GetTask(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			ctrl.web.NotFound(c)
		} else {
			ctrl.web.ServerError(c, err)
		}
		return nil, false
	}
	return task, true
}

func (ctrl *controller) choices(c *gin.Context) (Choices, error) {
	ctx := c.Request.Context()

	statuses, err := ctrl.store.ListStatuses(ctx)
	if err != nil {
		return Choices{}, err
	}
	users, err := ctrl.store.ListUsers(ctx)
	if err != nil {
		return Choices{}, err
	}
	labels, err := ctrl.store.ListLabels(ctx)
	if err != nil {
		return Choices{}, err
	}

	return Choices{Statuses: statuses, Users: users, Labels: labels}, nil
}

func (ctrl *controller) renderForm(c *gin.Context, data formData, form *forms.TaskForm, errs forms.Errors) {
	opts, err := ctrl.choices(c)
	if err != nil {
		ctrl.web.ServerError(c, err)
		return
	}
	data.Choices = opts

	page := ctrl.web.NewPage(c, data.Heading)
	page.Data = data
	page.Form = form
	page.Errors = errs
	ctrl.web.Render(c, http.StatusOK, "tasks/form.html", page)
}

func createPage() formData {
	return formData{Heading: "Create task", Action: "/tasks/create", Submit: "Create"}
}

func updatePage(id uint) formData {
	return formData{Heading: "Edit task", Action: fmt.Sprintf("/tasks/%d/update", id), Submit: "Update"}
}
