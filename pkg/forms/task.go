package forms

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ethanbaker/taskmanager/pkg/tracker"
)

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// TaskForm creates or edits a task. Select values arrive as strings and are
// parsed into ids by Clean
type TaskForm struct {
	Name        string   `form:"name" binding:"required,max=100"`
	Description string   `form:"description"`
	Status      string   `form:"status" binding:"required"`
	Executor    string   `form:"executor" binding:"required"`
	Labels      []string `form:"labels"`

	StatusID   uint   `form:"-"`
	ExecutorID uint   `form:"-"`
	LabelIDs   []uint `form:"-"`
}

// TaskFormFrom fills a form with the values of an existing task
func TaskFormFrom(task *tracker.Task) *TaskForm {
	form := &TaskForm{
		Name:        task.Name,
		Description: task.Description,
		Status:      strconv.FormatUint(uint64(task.StatusID), 10),
		Executor:    strconv.FormatUint(uint64(task.ExecutorID), 10),
		StatusID:    task.StatusID,
		ExecutorID:  task.ExecutorID,
		LabelIDs:    task.LabelIDs(),
	}
	for _, id := range form.LabelIDs {
		form.Labels = append(form.Labels, strconv.FormatUint(uint64(id), 10))
	}
	return form
}

func (f *TaskForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Status = strings.TrimSpace(f.Status)
	f.Executor = strings.TrimSpace(f.Executor)
}

// Clean parses the selected ids
func (f *TaskForm) Clean(errs Errors) {
	if f.Status != "" {
		id, ok := parseID(f.Status)
		if !ok {
			errs.Add("status", invalidChoice)
		}
		f.StatusID = id
	}

	if f.Executor != "" {
		id, ok := parseID(f.Executor)
		if !ok {
			errs.Add("executor", invalidChoice)
		}
		f.ExecutorID = id
	}

	f.LabelIDs = f.LabelIDs[:0]
	for _, raw := range f.Labels {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		id, ok := parseID(raw)
		if !ok {
			errs.Add("labels", "Select a valid choice. %s is not one of the available choices.", raw)
			continue
		}
		if !slices.Contains(f.LabelIDs, id) {
			f.LabelIDs = append(f.LabelIDs, id)
		}
	}
}

// CheckChoices verifies the selected ids against the rows offered by the
// page
func (f *TaskForm) CheckChoices(errs Errors, statuses []tracker.Status, users []tracker.User, labels []tracker.Label) {
	if f.StatusID != 0 && !slices.ContainsFunc(statuses, func(s tracker.Status) bool { return s.ID == f.StatusID }) {
		errs.Add("status", invalidChoice)
	}

	if f.ExecutorID != 0 && !slices.ContainsFunc(users, func(u tracker.User) bool { return u.ID == f.ExecutorID }) {
		errs.Add("executor", invalidChoice)
	}

	for _, id := range f.LabelIDs {
		if !slices.ContainsFunc(labels, func(l tracker.Label) bool { return l.ID == id }) {
			errs.Add("labels", "Select a valid choice. %d is not one of the available choices.", id)
		}
	}
}

// HasLabel reports whether a label is selected, for rendering the select
func (f *TaskForm) HasLabel(id uint) bool {
	return slices.Contains(f.LabelIDs, id)
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
