package tasks

import (
	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the task pages. Every page needs a login
func RegisterRoutes(g *gin.RouterGroup, w *web.Web) {
	ctrl := newController(w)

	group := g.Group("/tasks", w.RequireLogin())
	group.GET("", ctrl.list)
	group.GET("/calendar.ics", ctrl.calendar)
	group.GET("/create", ctrl.createForm)
	group.POST("/create", ctrl.create)
	group.GET("/:id", ctrl.detail)
	group.GET("/:id/update", ctrl.updateForm)
	group.POST("/:id/update", ctrl.update)

	// Only the author may delete
	owner := group.Group("/:id/delete", ctrl.requireAuthor)
	owner.GET("", ctrl.deleteForm)
	owner.POST("", ctrl.delete)
}
