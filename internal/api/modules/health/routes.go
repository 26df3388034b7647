package health

import (
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the routes for the health module
func RegisterRoutes(g *gin.RouterGroup, store *tracker.Store) {
	g.GET("/health", getStatus(store))
}
