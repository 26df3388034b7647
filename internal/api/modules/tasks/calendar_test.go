package tasks

import (
	"strings"
	"testing"
	"time"

	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/stretchr/testify/assert"
)

func TestBuildCalendar(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	tasks := []tracker.Task{
		{
			ID:          7,
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Hour),
			Name:        "Deploy",
			Description: "Ship the release",
			Status:      tracker.Status{Name: "open"},
			Labels:      []tracker.Label{{Name: "ops"}, {Name: "urgent"}},
		},
		{ID: 8, CreatedAt: created, UpdatedAt: created, Name: "Review", Status: tracker.Status{Name: "done"}},
	}

	out := buildCalendar(tasks, "tasks.example.com", created).Serialize()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:task-7@tasks.example.com")
	assert.Contains(t, out, "SUMMARY:Deploy")
	assert.Contains(t, out, "DESCRIPTION:Ship the release")
	assert.Contains(t, out, "DTSTART:20240301T093000Z")
	assert.Contains(t, out, "CATEGORIES:open")
	assert.Contains(t, out, "CATEGORIES:urgent")
	assert.Contains(t, out, "CATEGORIES:done")
}

func TestBuildCalendarEmpty(t *testing.T) {
	out := buildCalendar(nil, "localhost", time.Now()).Serialize()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
