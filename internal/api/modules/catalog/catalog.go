// Package catalog serves the list, create, update and delete pages of the
// name-only tables tasks refer to (statuses and labels)
package catalog

import (
	"context"
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

// Messages holds the untranslated texts of one resource
type Messages struct {
	List      string
	Create    string
	Edit      string
	Delete    string
	Created   string
	Updated   string
	Deleted   string
	InUse     string
	Duplicate string
	Question  string
}

// Resource describes one name-only table
type Resource[T any] struct {
	Name     string
	Path     string
	Messages Messages

	List      func(ctx context.Context) ([]T, error)
	Get       func(ctx context.Context, id uint) (*T, error)
	NameTaken func(ctx context.Context, name string, exceptID uint) (bool, error)
	Create    func(ctx context.Context, name string) (*T, error)
	Rename    func(ctx context.Context, id uint, name string) error
	Delete    func(ctx context.Context, id uint) error
	NameOf    func(row *T) string
}

type listData[T any] struct {
	Heading string
	Create  string
	Base    string
	Items   []T
}

type formData struct {
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

// RegisterRoutes mounts the pages of a resource. Listing is public, every
// change needs a login
func RegisterRoutes[T any](g *gin.RouterGroup, w *web.Web, res Resource[T]) {
	ctrl := &controller[T]{web: w, res: res, logger: w.Logger(res.Name)}

	group := g.Group(res.Path)
	group.GET("", ctrl.list)

	auth := group.Group("", w.RequireLogin())
	auth.GET("/create", ctrl.createForm)
	auth.POST("/create", ctrl.create)
	auth.GET("/:id/update", ctrl.updateForm)
	auth.POST("/:id/update", ctrl.update)
	auth.GET("/:id/delete", ctrl.deleteForm)
	auth.POST("/:id/delete", ctrl.delete)
}

type controller[T any] struct {
	web    *web.Web
	res    Resource[T]
	logger *zap.Logger
}

func (ctrl *controller[T]) list(c *gin.Context) {
	items, err := ctrl.res.List(c.Request.Context())
	if err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	msgs := ctrl.res.Messages
	page := ctrl.web.NewPage(c, msgs.List)
	page.Data = listData[T]{Heading: msgs.List, Create: msgs.Create, Base: ctrl.res.Path, Items: items}
	ctrl.web.Render(c, http.StatusOK, "catalog/list.html", page)
}

func (ctrl *controller[T]) createForm(c *gin.Context) {
	ctrl.renderForm(c, ctrl.createPage(), &forms.NameForm{}, nil)
}

func (ctrl *controller[T]) create(c *gin.Context) {
	var form forms.NameForm
	errs := forms.Bind(c, &form)

	if err := ctrl.checkName(c, &form, 0, errs); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}
	if !errs.Valid() {
		ctrl.renderForm(c, ctrl.createPage(), &form, errs)
		return
	}

	row, err := ctrl.res.Create(c.Request.Context(), form.Name)
	if err != nil {
		if errors.Is(err, tracker.ErrDuplicate) {
			errs.Add("name", ctrl.res.Messages.Duplicate)
			ctrl.renderForm(c, ctrl.createPage(), &form, errs)
			return
		}
		ctrl.web.ServerError(c, err)
		return
	}

	ctrl.logger.Info(ctrl.res.Name+" created",
		zap.String("name", ctrl.res.NameOf(row)),
		zap.Stringer("user", web.User(c)),
		zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, ctrl.res.Messages.Created)
	ctrl.web.Redirect(c, ctrl.res.Path)
}

func (ctrl *controller[T]) updateForm(c *gin.Context) {
	id, row, ok := ctrl.load(c)
	if !ok {
		return
	}
	ctrl.renderForm(c, ctrl.updatePage(id), &forms.NameForm{Name: ctrl.res.NameOf(row)}, nil)
}

func (ctrl *controller[T]) update(c *gin.Context) {
	id, _, ok := ctrl.load(c)
	if !ok {
		return
	}

	var form forms.NameForm
	errs := forms.Bind(c, &form)

	if err := ctrl.checkName(c, &form, id, errs); err != nil {
		ctrl.web.ServerError(c, err)
		return
	}
	if !errs.Valid() {
		ctrl.renderForm(c, ctrl.updatePage(id), &form, errs)
		return
	}

	if err := ctrl.res.Rename(c.Request.Context(), id, form.Name); err != nil {
		switch {
		case errors.Is(err, tracker.ErrDuplicate):
			errs.Add("name", ctrl.res.Messages.Duplicate)
			ctrl.renderForm(c, ctrl.updatePage(id), &form, errs)
		case errors.Is(err, tracker.ErrNotFound):
			ctrl.web.NotFound(c)
		default:
			ctrl.web.ServerError(c, err)
		}
		return
	}

	ctrl.logger.Info(ctrl.res.Name+" updated",
		zap.Uint("id", id),
		zap.String("name", form.Name),
		zap.Stringer("user", web.User(c)),
		zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, ctrl.res.Messages.Updated)
	ctrl.web.Redirect(c, ctrl.res.Path)
}

func (ctrl *controller[T]) deleteForm(c *gin.Context) {
	id, row, ok := ctrl.load(c)
	if !ok {
		return
	}

	msgs := ctrl.res.Messages
	page := ctrl.web.NewPage(c, msgs.Delete)
	page.Data = deleteData{
		Heading:  msgs.Delete,
		Question: i18n.M(msgs.Question, ctrl.res.NameOf(row)),
		Action:   fmt.Sprintf("%s/%d/delete", ctrl.res.Path, id),
		Cancel:   ctrl.res.Path,
	}
	ctrl.web.Render(c, http.StatusOK, "delete.html", page)
}

func (ctrl *controller[T]) delete(c *gin.Context) {
	id, row, ok := ctrl.load(c)
	if !ok {
		return
	}

	if err := ctrl.res.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, tracker.ErrInUse):
			ctrl.logger.Warn("refused to delete "+ctrl.res.Name+" in use",
				zap.Uint("id", id),
				zap.String("ip", web.ClientIP(c)))
			ctrl.web.Flash(c, session.LevelError, ctrl.res.Messages.InUse)
			ctrl.web.Redirect(c, ctrl.res.Path)
		case errors.Is(err, tracker.ErrNotFound):
			ctrl.web.NotFound(c)
		default:
			ctrl.web.ServerError(c, err)
		}
		return
	}

	ctrl.logger.Info(ctrl.res.Name+" deleted",
		zap.Uint("id", id),
		zap.String("name", ctrl.res.NameOf(row)),
		zap.Stringer("user", web.User(c)),
		zap.String("ip", web.ClientIP(c)))
	ctrl.web.Flash(c, session.LevelSuccess, ctrl.res.Messages.Deleted)
	ctrl.web.Redirect(c, ctrl.res.Path)
}

// load reads the :id parameter and its row, answering 404 when either is bad
func (ctrl *controller[T]) load(c *gin.Context) (uint, *T, bool) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ctrl.web.NotFound(c)
		return 0, nil, false
	}
	id := uint(raw)

	row, err := ctrl.res.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			ctrl.web.NotFound(c)
		} else {
			ctrl.web.ServerError(c, err)
		}
		return 0, nil, false
	}
	return id, row, true
}

func (ctrl *controller[T]) checkName(c *gin.Context, form *forms.NameForm, exceptID uint, errs forms.Errors) error {
	if form.Name == "" || errs.Has("name") {
		return nil
	}

	taken, err := ctrl.res.NameTaken(c.Request.Context(), form.Name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("name", ctrl.res.Messages.Duplicate)
	}
	return nil
}

func (ctrl *controller[T]) renderForm(c *gin.Context, data formData, form *forms.NameForm, errs forms.Errors) {
	page := ctrl.web.NewPage(c, data.Heading)
	page.Data = data
	page.Form = form
	page.Errors = errs
	ctrl.web.Render(c, http.StatusOK, "catalog/form.html", page)
}

func (ctrl *controller[T]) createPage() formData {
	return formData{Heading: ctrl.res.Messages.Create, Action: ctrl.res.Path + "/create", Submit: "Create"}
}

func (ctrl *controller[T]) updatePage(id uint) formData {
	return formData{Heading: ctrl.res.Messages.Edit, Action: fmt.Sprintf("%s/%d/update", ctrl.res.Path, id), Submit: "Update"}
}
