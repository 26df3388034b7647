package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ethanbaker/taskmanager/pkg/sdk"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
)

const dateLayout = "02.01.2006 15:04"

var (
	accent = lipgloss.Color("#7D56F4")
	subtle = lipgloss.Color("#6C6C6C")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = cellStyle.Foreground(subtle)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle  = lipgloss.NewStyle().Foreground(subtle).Width(10)
)

// taskRow is the terminal view of a task, built from the store or the API
type taskRow struct {
	ID        uint
	Name      string
	Status    string
	Author    string
	Executor  string
	Labels    []string
	CreatedAt time.Time
}

func rowFromTask(task tracker.Task) taskRow {
	row := taskRow{
		ID:        task.ID,
		Name:      task.Name,
		Status:    task.Status.Name,
		Author:    task.Author.FullName(),
		Executor:  task.Executor.FullName(),
		CreatedAt: task.CreatedAt,
	}
	for _, label := range task.Labels {
		row.Labels = append(row.Labels, label.Name)
	}
	return row
}

func rowFromSDK(task sdk.Task) taskRow {
	row := taskRow{
		ID:        task.ID,
		Name:      task.Name,
		Status:    task.Status.Name,
		Author:    task.Author.FullName,
		Executor:  task.Executor.FullName,
		CreatedAt: task.CreatedAt,
	}
	for _, label := range task.Labels {
		row.Labels = append(row.Labels, label.Name)
	}
	return row
}

func renderTaskTable(rows []taskRow) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers("ID", "Name", "Status", "Author", "Executor", "Labels", "Created at").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col == 6:
				return dimStyle
			default:
				return cellStyle
			}
		})

	for _, r := range rows {
		t.Row(
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.Status,
			r.Author,
			r.Executor,
			strings.Join(r.Labels, ", "),
			r.CreatedAt.Local().Format(dateLayout),
		)
	}

	return t.Render()
}

// renderTaskDetail prints the task fields followed by the Markdown
// description rendered for the terminal
func renderTaskDetail(row taskRow, description string, width int) (string, error) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", row.ID, row.Name)))
	b.WriteString("\n\n")

	fields := [][2]string{
		{"Status", row.Status},
		{"Author", row.Author},
		{"Executor", row.Executor},
		{"Labels", strings.Join(row.Labels, ", ")},
		{"Created", row.CreatedAt.Local().Format(dateLayout)},
	}
	for _, f := range fields {
		b.WriteString(labelStyle.Render(f[0]))
		b.WriteString(f[1])
		b.WriteString("\n")
	}

	if strings.TrimSpace(description) == "" {
		return b.String(), nil
	}

	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(description)
	if err != nil {
		return "", fmt.Errorf("failed to render description: %w", err)
	}

	b.WriteString(rendered)
	return b.String(), nil
}
