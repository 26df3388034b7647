package labels

import (
	"context"

	"github.com/ethanbaker/taskmanager/internal/api/modules/catalog"
	"github.com/ethanbaker/taskmanager/internal/api/web"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
)

// Messages shown on the label pages
var Messages = catalog.Messages{
	List:      "Labels",
	Create:    "Create label",
	Edit:      "Edit label",
	Delete:    "Delete label",
	Created:   "Label successfully created",
	Updated:   "Label successfully updated",
	Deleted:   "Label successfully deleted",
	InUse:     "Cannot delete label because it is in use",
	Duplicate: "A label with this name already exists.",
	Question:  "Are you sure you want to delete %s?",
}

// RegisterRoutes registers the label pages under /labels
func RegisterRoutes(g *gin.RouterGroup, w *web.Web) {
	store := w.Store()

	catalog.RegisterRoutes(g, w, catalog.Resource[tracker.Label]{
		Name:      "label",
		Path:      "/labels",
		Messages:  Messages,
		List:      store.ListLabels,
		Get:       store.GetLabel,
		NameTaken: store.LabelNameTaken,
		Create: func(ctx context.Context, name string) (*tracker.Label, error) {
			label := &tracker.Label{Name: name}
			return label, store.CreateLabel(ctx, label)
		},
		Rename: func(ctx context.Context, id uint, name string) error {
			return store.UpdateLabel(ctx, &tracker.Label{ID: id, Name: name})
		},
		Delete: store.DeleteLabel,
		NameOf: func(label *tracker.Label) string { return label.Name },
	})
}
