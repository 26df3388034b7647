package home

import (
	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the index, authentication and language routes
func RegisterRoutes(g *gin.RouterGroup, w *web.Web) {
	ctrl := newController(w)

	g.GET("/", ctrl.index)
	g.GET("/login", ctrl.loginForm)
	g.POST("/login", ctrl.login)
	g.POST("/logout", ctrl.logout)
	g.POST("/set-language", ctrl.setLanguage)

	// Diagnostics are only exposed in development
	if w.Config().Debug() {
		g.GET("/__debug__/info", ctrl.debugInfo)
	}
}
