package cli

import (
	"context"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/views"
)

// listOptions holds the task list filter flags
type listOptions struct {
	status   string
	category string
	priority string
	remember bool
}

// ListCommand handles task list
type ListCommand struct {
	app  *App
	opts listOptions
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, opts listOptions) *ListCommand {
	return &ListCommand{app: app, opts: opts}
}

// Execute prints the filtered task list. Remaining arguments are a text query.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	prefs := c.app.dash.Preferences(ctx)
	status := c.opts.status
	if status == "" {
		status = prefs.TaskFilter
	}
	if !validStatus(status) {
		return c.app.errorHandler.Handle("list tasks", errors.NewInvalidInputError("status", status,
			"use all, active, completed, overdue, today or running"))
	}
	if c.opts.remember {
		prefs.TaskFilter = status
		if err := c.app.dash.SavePreferences(ctx, prefs); err != nil {
			c.app.warnUnsaved(err)
		}
	}

	now := timeNow()
	all := c.app.dash.Tasks.List()
	tasks := views.FilterTasks(all, views.TaskFilter{
		Status:   views.TaskStatus(status),
		Category: c.opts.category,
		Priority: domain.Priority(strings.ToLower(c.opts.priority)),
		Query:    strings.Join(args, " "),
	}, now)

	if len(tasks) == 0 {
		c.app.println("No tasks found.")
		return nil
	}

	position := make(map[string]int, len(all))
	for i, t := range all {
		position[t.ID] = i + 1
	}

	c.app.printf("%-4s %-3s %-40s %-8s %-16s %-14s %s\n", "#", "", "Title", "Priority", "Due", "Tracked", "Category")
	c.app.println(strings.Repeat("-", 100))
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		tracked := formatDuration(t.TrackedSeconds(now), prefs.ShowSeconds)
		if t.IsRunning {
			tracked += " ▶"
		}
		due := formatDue(t.DueDate, now)
		if t.IsOverdue(now) {
			due = "! " + due
		}
		category := ""
		if t.Category != "" {
			category = views.CategoryIcon(t.Category) + " " + t.Category
		}
		c.app.printf("%-4d %-3s %-40s %-8s %-16s %-14s %s\n",
			position[t.ID], check, truncate(t.Title, 40), t.Priority, truncate(due, 16), tracked, category)
	}
	return nil
}

func validStatus(s string) bool {
	switch views.TaskStatus(s) {
	case "", views.StatusAll, views.StatusActive, views.StatusCompleted,
		views.StatusOverdue, views.StatusToday, views.StatusRunning:
		return true
	}
	return false
}
