package cli

import (
	"context"
)

// StopCommand handles task stop
type StopCommand struct {
	app *App
}

// NewStopCommand creates a new stop command handler
func NewStopCommand(app *App) *StopCommand {
	return &StopCommand{app: app}
}

// Execute stops the named task, or the running one when no argument is given
func (c *StopCommand) Execute(ctx context.Context, args []string) error {
	var id string
	if len(args) > 0 {
		task, err := c.app.resolveTask(args[0])
		if err != nil {
			return c.app.errorHandler.Handle("stop timer", err)
		}
		id = task.ID
	} else {
		running, ok := c.app.dash.Tasks.Running()
		if !ok {
			c.app.println("No timer is running.")
			return nil
		}
		id = running.ID
	}

	session, _ := c.app.dash.Tasks.SessionSeconds(id, timeNow())
	stopped, err := c.app.dash.Tasks.StopTimer(ctx, id)
	if err != nil {
		return c.app.errorHandler.Handle("stop timer", err)
	}
	c.app.printf("Stopped: %s (session: %s, total: %s)\n", stopped.Title,
		formatDuration(session, true), formatDuration(stopped.TotalSeconds, false))
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}
