package resources

import (
	"fmt"

	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/ethanbaker/taskmanager/pkg/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the read-only JSON listings behind the API key
func RegisterRoutes(g *gin.RouterGroup, cfg *utils.Config, store *tracker.Store) error {
	// Make api key validator
	validator, err := makeApiKeyValidator(cfg)
	if err != nil {
		return err
	}

	ctrl := &controller{store: store}

	group := g.Group("")
	group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(validator))

	group.GET("/users", ctrl.listUsers)       // All users
	group.GET("/statuses", ctrl.listStatuses) // All statuses
	group.GET("/labels", ctrl.listLabels)     // All labels
	group.GET("/tasks", ctrl.listTasks)       // Tasks, filtered by status, executor, label and author

	return nil
}

// makeApiKeyValidator checks if the provided API key is valid
func makeApiKeyValidator(cfg *utils.Config) (func(key string) bool, error) {
	// Get api key from config
	apiKey := cfg.Get("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not set in environment")
	}

	return func(key string) bool {
		return apiKey == key
	}, nil
}
