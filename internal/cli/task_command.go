package cli

import (
	"context"
	"strconv"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/store"
)

// taskOptions holds the task fields settable from flags
type taskOptions struct {
	title       string
	description string
	priority    string
	category    string
	due         string
	clearDue    bool
}

// AddCommand handles task add
type AddCommand struct {
	app  *App
	opts taskOptions
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, opts taskOptions) *AddCommand {
	return &AddCommand{app: app, opts: opts}
}

// Execute runs the add command. The arguments form the title.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	due, err := parseDue(c.opts.due, timeNow())
	if err != nil {
		return c.app.errorHandler.Handle("add task", err)
	}

	task, err := c.app.dash.Tasks.AddTask(ctx, store.TaskInput{
		Title:       strings.Join(args, " "),
		Description: c.opts.description,
		Priority:    domain.Priority(strings.ToLower(c.opts.priority)),
		Category:    c.opts.category,
		DueDate:     due,
	})
	if err != nil {
		return c.app.errorHandler.Handle("add task", err)
	}

	c.app.printf("Added task %s: %s\n", task.ID, task.Title)
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}

// EditCommand handles task edit
type EditCommand struct {
	app     *App
	opts    taskOptions
	changed map[string]bool
}

// NewEditCommand creates an edit handler. changed names the flags the user set.
func NewEditCommand(app *App, opts taskOptions, changed map[string]bool) *EditCommand {
	return &EditCommand{app: app, opts: opts, changed: changed}
}

// Execute applies the changed fields to one task
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("edit task", err)
	}

	var patch store.TaskPatch
	if c.changed["title"] {
		patch.Title = &c.opts.title
	}
	if c.changed["description"] {
		patch.Description = &c.opts.description
	}
	if c.changed["priority"] {
		p := domain.Priority(strings.ToLower(c.opts.priority))
		patch.Priority = &p
	}
	if c.changed["category"] {
		patch.Category = &c.opts.category
	}
	if c.changed["due"] {
		due, err := parseDue(c.opts.due, timeNow())
		if err != nil {
			return c.app.errorHandler.Handle("edit task", err)
		}
		patch.DueDate = due
	}
	patch.ClearDueDate = c.opts.clearDue

	updated, err := c.app.dash.Tasks.UpdateTask(ctx, task.ID, patch)
	if err != nil {
		return c.app.errorHandler.Handle("edit task", err)
	}
	c.app.printf("Updated task %s: %s\n", updated.ID, updated.Title)
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}

// DoneCommand handles task done, toggling completion
type DoneCommand struct {
	app *App
}

// NewDoneCommand creates a new done command handler
func NewDoneCommand(app *App) *DoneCommand {
	return &DoneCommand{app: app}
}

// Execute toggles each named task
func (c *DoneCommand) Execute(ctx context.Context, args []string) error {
	for _, arg := range args {
		task, err := c.app.resolveTask(arg)
		if err != nil {
			return c.app.errorHandler.Handle("complete task", err)
		}
		task, err = c.app.dash.Tasks.Toggle(ctx, task.ID)
		if err != nil {
			return c.app.errorHandler.Handle("complete task", err)
		}
		if task.Completed {
			c.app.printf("Completed: %s\n", task.Title)
		} else {
			c.app.printf("Reopened: %s\n", task.Title)
		}
	}
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}

// resolveTask finds a task by list position (1-based), exact id or unique id prefix
func (a *App) resolveTask(ref string) (domain.Task, error) {
	tasks := a.dash.Tasks.List()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1], nil
	}
	if task, ok := a.dash.Tasks.Get(ref); ok {
		return task, nil
	}

	var match *domain.Task
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, ref) {
			if match != nil {
				return domain.Task{}, errors.NewInvalidInputError("task", ref, "ambiguous id prefix")
			}
			match = &tasks[i]
		}
	}
	if match == nil {
		return domain.Task{}, errors.NewNotFoundError("task", ref)
	}
	return *match, nil
}

// warnUnsaved reports a write-through failure. The change is kept in memory.
func (a *App) warnUnsaved(err error) {
	if err != nil {
		a.printf("Warning: %s\n", errors.GetUserMessage(err))
	}
}

// MoveCommand handles task move
type MoveCommand struct {
	app *App
}

// NewMoveCommand creates a new move command handler
func NewMoveCommand(app *App) *MoveCommand {
	return &MoveCommand{app: app}
}

// Execute moves a task to a 1-based position in the list
func (c *MoveCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("move task", err)
	}
	tasks := c.app.dash.Tasks.List()
	pos, err := strconv.Atoi(args[1])
	if err != nil || pos < 1 || pos > len(tasks) {
		return c.app.errorHandler.Handle("move task", errors.NewInvalidInputError("position", args[1], "out of range"))
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != task.ID {
			ids = append(ids, t.ID)
		}
	}
	ids = append(ids[:pos-1], append([]string{task.ID}, ids[pos-1:]...)...)

	if err := c.app.dash.Tasks.Reorder(ctx, ids); err != nil {
		return c.app.errorHandler.Handle("move task", err)
	}
	c.app.printf("Moved %s to position %d\n", task.Title, pos)
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}
