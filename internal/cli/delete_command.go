package cli

import (
	"context"
	"strconv"

	"dashboard/internal/errors"
)

// DeleteCommand handles task rm
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute removes the named tasks. Without arguments the user picks one
// from the list.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.deleteInteractive(ctx)
	}
	for _, arg := range args {
		task, err := c.app.resolveTask(arg)
		if err != nil {
			return c.app.errorHandler.Handle("delete task", err)
		}
		c.app.dash.Tasks.Remove(ctx, task.ID)
		c.app.printf("Deleted task: %s\n", task.Title)
	}
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}

func (c *DeleteCommand) deleteInteractive(ctx context.Context) error {
	tasks := c.app.dash.Tasks.List()
	if len(tasks) == 0 {
		c.app.println("No tasks found to delete.")
		return nil
	}

	c.app.println("Select a task to delete:")
	for i, t := range tasks {
		c.app.printf("%d. %s (created: %s)\n", i+1, t.Title, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	c.app.printf("Enter number to delete, or 'q' to quit: ")

	input := readLine(c.app)
	if input == "q" || input == "Q" {
		c.app.println("Delete cancelled.")
		return nil
	}
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(tasks) {
		return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("selection", input, "invalid selection"))
	}

	selected := tasks[idx-1]
	c.app.dash.Tasks.Remove(ctx, selected.ID)
	c.app.printf("Deleted task: %s\n", selected.Title)
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}

// ClearCompletedCommand handles task clear-completed
type ClearCompletedCommand struct {
	app *App
}

// NewClearCompletedCommand creates a new clear-completed command handler
func NewClearCompletedCommand(app *App) *ClearCompletedCommand {
	return &ClearCompletedCommand{app: app}
}

// Execute removes every completed task
func (c *ClearCompletedCommand) Execute(ctx context.Context, args []string) error {
	n := c.app.dash.Tasks.ClearCompleted(ctx)
	c.app.printf("Removed %d completed task(s)\n", n)
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}
