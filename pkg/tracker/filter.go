package tracker

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// TaskFilter narrows a task listing. Zero fields are ignored and the rest are
// combined with AND
type TaskFilter struct {
	StatusID   uint `json:"status,omitempty"`
	ExecutorID uint `json:"executor,omitempty"`
	LabelID    uint `json:"label,omitempty"`
	AuthorID   uint `json:"author,omitempty"`
}

var filterKeys = []string{"status", "executor", "label", "author"}

// ParseTaskFilter reads the status, executor, label and author query
// parameters. Empty or malformed ids are ignored
func ParseTaskFilter(values url.Values) TaskFilter {
	return TaskFilter{
		StatusID:   parseID(values.Get("status")),
		ExecutorID: parseID(values.Get("executor")),
		LabelID:    parseID(values.Get("label")),
		AuthorID:   parseID(values.Get("author")),
	}
}

// ParseTaskFilterStrict is ParseTaskFilter for clients that should hear about
// a malformed id instead of getting an unfiltered list
func ParseTaskFilterStrict(values url.Values) (TaskFilter, error) {
	for _, key := range filterKeys {
		raw := strings.TrimSpace(values.Get(key))
		if raw != "" && parseID(raw) == 0 {
			return TaskFilter{}, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, key, raw)
		}
	}
	return ParseTaskFilter(values), nil
}

// apply adds the filter conditions to a query on the tasks table. db builds
// the label subquery and carries the request context
func (f TaskFilter) apply(query *gorm.DB, db *gorm.DB) *gorm.DB {
	if f.StatusID != 0 {
		query = query.Where("tasks.status_id = ?", f.StatusID)
	}
	if f.ExecutorID != 0 {
		query = query.Where("tasks.executor_id = ?", f.ExecutorID)
	}
	if f.AuthorID != 0 {
		query = query.Where("tasks.author_id = ?", f.AuthorID)
	}
	if f.LabelID != 0 {
		query = query.Where("tasks.id IN (?)",
			db.Table("task_labels").Select("task_id").Where("label_id = ?", f.LabelID))
	}
	return query
}

// parseID parses a positive id, returning 0 for anything else
func parseID(raw string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
