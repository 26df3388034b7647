package users

import (
	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the user registration and profile routes
func RegisterRoutes(g *gin.RouterGroup, w *web.Web) {
	ctrl := newController(w)

	group := g.Group("/users")

	// Public
	group.GET("", ctrl.list)
	group.GET("/create", ctrl.createForm)
	group.POST("/create", ctrl.create)

	// Only the user themself
	owner := group.Group("/:id", w.RequireLogin(), ctrl.requireSelf)
	owner.GET("/update", ctrl.updateForm)
	owner.POST("/update", ctrl.update)
	owner.GET("/delete", ctrl.deleteForm)
	owner.POST("/delete", ctrl.delete)
}
