package cli

import (
	"context"

	"github.com/dustin/go-humanize"
)

// CurrentCommand handles task current
type CurrentCommand struct {
	app *App
}

// NewCurrentCommand creates a new current command handler
func NewCurrentCommand(app *App) *CurrentCommand {
	return &CurrentCommand{app: app}
}

// Execute shows the task whose timer is running
func (c *CurrentCommand) Execute(ctx context.Context, args []string) error {
	task, ok := c.app.dash.Tasks.Running()
	if !ok {
		c.app.println("No timer is running.")
		return nil
	}

	now := timeNow()
	c.app.printf("Running: %s\n", task.Title)
	if task.StartedAt != nil {
		c.app.printf("Started: %s (%s)\n", task.StartedAt.Format("15:04:05"), humanize.Time(*task.StartedAt))
	}
	c.app.printf("Session: %s\n", formatDuration(task.SessionSeconds(now), true))
	c.app.printf("Total:   %s\n", formatDuration(task.TrackedSeconds(now), true))
	return nil
}
