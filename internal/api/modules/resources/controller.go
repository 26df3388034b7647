package resources

import (
	"net/http"

	"github.com/ethanbaker/taskmanager/pkg/sdk"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
)

type controller struct {
	store *tracker.Store
}

// listUsers handles GET requests for every user
func (ctrl *controller) listUsers(c *gin.Context) {
	users, err := ctrl.store.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list users", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Users retrieved successfully", mapSlice(users, toSDKUser)).AsGinResponse())
}

// listStatuses handles GET requests for every status
func (ctrl *controller) listStatuses(c *gin.Context) {
	statuses, err := ctrl.store.ListStatuses(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list statuses", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Statuses retrieved successfully", mapSlice(statuses, toSDKStatus)).AsGinResponse())
}

// listLabels handles GET requests for every label
func (ctrl *controller) listLabels(c *gin.Context) {
	labels, err := ctrl.store.ListLabels(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list labels", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Labels retrieved successfully", mapSlice(labels, toSDKLabel)).AsGinResponse())
}

// listTasks handles GET requests for tasks matching the query filters
func (ctrl *controller) listTasks(c *gin.Context) {
	filter, err := tracker.ParseTaskFilterStrict(c.Request.URL.Query())
	if err != nil {
		c.JSON(sdk.NewFailResponse(http.StatusBadRequest, err.Error()).AsGinResponse())
		return
	}

	tasks, err := ctrl.store.ListTasks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list tasks", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Tasks retrieved successfully", mapSlice(tasks, toSDKTask)).AsGinResponse())
}

// Helper method to convert a slice, never returning nil so empty lists encode as []
func mapSlice[T, U any](in []T, convert func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, item := range in {
		out = append(out, convert(item))
	}
	return out
}

// Helper method to convert internal user to sdk user
func toSDKUser(user tracker.User) sdk.User {
	return sdk.User{
		ID:        user.ID,
		CreatedAt: user.CreatedAt,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
	}
}

// Helper method to convert internal status to sdk status
func toSDKStatus(status tracker.Status) sdk.Status {
	return sdk.Status{ID: status.ID, CreatedAt: status.CreatedAt, Name: status.Name}
}

// Helper method to convert internal label to sdk label
func toSDKLabel(label tracker.Label) sdk.Label {
	return sdk.Label{ID: label.ID, CreatedAt: label.CreatedAt, Name: label.Name}
}

// Helper method to convert internal task to sdk task
func toSDKTask(task tracker.Task) sdk.Task {
	return sdk.Task{
		ID:          task.ID,
		CreatedAt:   task.CreatedAt,
		Name:        task.Name,
		Description: task.Description,
		Status:      toSDKStatus(task.Status),
		Author:      toSDKUser(task.Author),
		Executor:    toSDKUser(task.Executor),
		Labels:      mapSlice(task.Labels, toSDKLabel),
	}
}
