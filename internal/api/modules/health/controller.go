package health

import (
	"context"
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/taskmanager/pkg/sdk"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
)

// pingTimeout bounds the database check
const pingTimeout = 2 * time.Second

// Return status of the API and its database
func getStatus(store *tracker.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Database unavailable", err.Error()).AsGinResponse())
			return
		}

		res := api_types.NewSuccessResponse("OK", nil)
		c.JSON(res.AsGinResponse())
	}
}
