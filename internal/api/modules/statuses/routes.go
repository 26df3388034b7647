package statuses

import (
	"context"

	"github.com/ethanbaker/taskmanager/internal/api/modules/catalog"
	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
)

// Messages shown on the status pages
var Messages = catalog.Messages{
	List:      "Statuses",
	Create:    "Create status",
	Edit:      "Edit status",
	Delete:    "Delete status",
	Created:   "Status successfully created",
	Updated:   "Status successfully updated",
	Deleted:   "Status successfully deleted",
	InUse:     "Cannot delete status because it is in use",
	Duplicate: "A status with this name already exists.",
	Question:  "Are you sure you want to delete %s?",
}

// RegisterRoutes registers the status pages under /statuses
func RegisterRoutes(g *gin.RouterGroup, w *web.Web) {
	store := w.Store()

	catalog.RegisterRoutes(g, w, catalog.Resource[tracker.Status]{
		Name:      "status",
		Path:      "/statuses",
		Messages:  Messages,
		List:      store.ListStatuses,
		Get:       store.GetStatus,
		NameTaken: store.StatusNameTaken,
		Create: func(ctx context.Context, name string) (*tracker.Status, error) {
			status := &tracker.Status{Name: name}
			return status, store.CreateStatus(ctx, status)
		},
		Rename: func(ctx context.Context, id uint, name string) error {
			return store.UpdateStatus(ctx, &tracker.Status{ID: id, Name: name})
		},
		Delete: store.DeleteStatus,
		NameOf: func(status *tracker.Status) string { return status.Name },
	})
}
