package tasks

import (
	"fmt"
	"net"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/gin-gonic/gin"
)

// calendar exports the filtered task list as an iCalendar feed
func (ctrl *controller) calendar(c *gin.Context) {
	filter, _ := ctrl.filter(c)

	tasks, err := ctrl.store.ListTasks(c.Request.Context(), filter)
	if err != nil {
		ctrl.web.ServerError(c, err)
		return
	}

	host := c.Request.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		host = "localhost"
	}

	cal := buildCalendar(tasks, host, time.Now())

	c.Header("Content-Disposition", `attachment; filename="tasks.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

// buildCalendar turns tasks into one event each, starting at their creation
func buildCalendar(tasks []tracker.Task, host string, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ethanbaker//taskmanager//EN")
	cal.SetXWRCalName("Tasks")

	for _, task := range tasks {
		event := cal.AddEvent(fmt.Sprintf("task-%d@%s", task.ID, host))
		event.SetDtStampTime(now)
		event.SetCreatedTime(task.CreatedAt)
		event.SetModifiedAt(task.UpdatedAt)
		event.SetStartAt(task.CreatedAt)
		event.SetSummary(task.Name)
		if task.Description != "" {
			event.SetDescription(task.Description)
		}
		event.SetURL(fmt.Sprintf("http://%s/tasks/%d", host, task.ID))

		// One CATEGORIES line per value, commas inside TEXT would be escaped
		event.AddCategory(task.Status.Name)
		for _, label := range task.Labels {
			event.AddCategory(label.Name)
		}
	}

	return cal
}
