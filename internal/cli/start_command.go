package cli

import (
	"context"
)

// StartCommand handles task start
type StartCommand struct {
	app *App
}

// NewStartCommand creates a new start command handler
func NewStartCommand(app *App) *StartCommand {
	return &StartCommand{app: app}
}

// Execute starts the timer on a task. A timer running on another task is
// stopped first.
func (c *StartCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("start timer", err)
	}

	previous, hadPrevious := c.app.dash.Tasks.Running()
	started, err := c.app.dash.Tasks.StartTimer(ctx, task.ID)
	if err != nil {
		return c.app.errorHandler.Handle("start timer", err)
	}

	if hadPrevious && previous.ID != started.ID {
		c.app.printf("Stopped: %s\n", previous.Title)
	}
	c.app.printf("Started: %s (tracked so far: %s)\n", started.Title,
		formatDuration(started.TotalSeconds, false))
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}
