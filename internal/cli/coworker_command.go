package cli

import (
	"context"
	"strconv"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/store"
	"dashboard/internal/views"
)

// coworkerOptions holds the coworker fields settable from flags
type coworkerOptions struct {
	name        string
	role        string
	email       string
	timezone    string
	graphUserID string
}

// CoworkerAddCommand handles coworker add
type CoworkerAddCommand struct {
	app  *App
	opts coworkerOptions
}

// NewCoworkerAddCommand creates a new coworker add handler
func NewCoworkerAddCommand(app *App, opts coworkerOptions) *CoworkerAddCommand {
	return &CoworkerAddCommand{app: app, opts: opts}
}

// Execute adds a coworker. The arguments form the name.
func (c *CoworkerAddCommand) Execute(ctx context.Context, args []string) error {
	coworker, err := c.app.dash.Coworkers.AddCoworker(ctx, store.CoworkerInput{
		Name:        strings.Join(args, " "),
		Role:        c.opts.role,
		Email:       c.opts.email,
		Timezone:    c.opts.timezone,
		GraphUserID: c.opts.graphUserID,
	})
	if err != nil {
		return c.app.errorHandler.Handle("add coworker", err)
	}
	c.app.printf("Added coworker %s: %s (%s)\n", coworker.ID, coworker.Name, coworker.Timezone)
	c.app.warnUnsaved(c.app.dash.Coworkers.LastPersistError())
	return nil
}

// CoworkerEditCommand handles coworker edit
type CoworkerEditCommand struct {
	app     *App
	opts    coworkerOptions
	changed map[string]bool
}

// NewCoworkerEditCommand creates an edit handler. changed names the flags the user set.
func NewCoworkerEditCommand(app *App, opts coworkerOptions, changed map[string]bool) *CoworkerEditCommand {
	return &CoworkerEditCommand{app: app, opts: opts, changed: changed}
}

// Execute applies the changed fields to one coworker
func (c *CoworkerEditCommand) Execute(ctx context.Context, args []string) error {
	coworker, err := c.app.resolveCoworker(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("edit coworker", err)
	}

	var patch store.CoworkerPatch
	if c.changed["name"] {
		patch.Name = &c.opts.name
	}
	if c.changed["role"] {
		patch.Role = &c.opts.role
	}
	if c.changed["email"] {
		patch.Email = &c.opts.email
	}
	if c.changed["timezone"] {
		patch.Timezone = &c.opts.timezone
	}
	if c.changed["graph-id"] {
		patch.GraphUserID = &c.opts.graphUserID
	}

	updated, err := c.app.dash.Coworkers.UpdateCoworker(ctx, coworker.ID, patch)
	if err != nil {
		return c.app.errorHandler.Handle("edit coworker", err)
	}
	c.app.printf("Updated coworker %s: %s (%s)\n", updated.ID, updated.Name, updated.Timezone)
	c.app.warnUnsaved(c.app.dash.Coworkers.LastPersistError())
	return nil
}

// CoworkerListCommand handles coworker list
type CoworkerListCommand struct {
	app *App
}

// NewCoworkerListCommand creates a new coworker list handler
func NewCoworkerListCommand(app *App) *CoworkerListCommand {
	return &CoworkerListCommand{app: app}
}

// Execute prints every coworker with their local time
func (c *CoworkerListCommand) Execute(ctx context.Context, args []string) error {
	coworkers := c.app.dash.Coworkers.List()
	if len(coworkers) == 0 {
		c.app.println("No coworkers yet. Add one with 'dash coworker add'.")
		return nil
	}

	now := timeNow()
	c.app.printf("%-4s %-24s %-20s %-10s %-10s %-5s %s\n", "#", "Name", "Role", "Local", "Offset", "Day", "Hours")
	c.app.println(strings.Repeat("-", 90))
	for i, cw := range coworkers {
		local, err := views.LocalTime(cw.Timezone, now)
		if err != nil {
			c.app.printf("%-4d %-24s %-20s %s\n", i+1, truncate(cw.Name, 24), truncate(cw.Role, 20), "unknown zone "+cw.Timezone)
			continue
		}
		offset, _ := views.OffsetLabel(cw.Timezone, now)
		progress, _ := views.DayProgress(cw.Timezone, now)
		working, _ := views.WorkingHours(cw.Timezone, now)
		hours := "off"
		if working {
			hours = "working"
		}
		c.app.printf("%-4d %-24s %-20s %-10s %-10s %3.0f%%  %s\n",
			i+1, truncate(cw.Name, 24), truncate(cw.Role, 20), local.Format("Mon 15:04"), offset, progress, hours)
	}
	return nil
}

// CoworkerRemoveCommand handles coworker rm
type CoworkerRemoveCommand struct {
	app *App
}

// NewCoworkerRemoveCommand creates a new coworker rm handler
func NewCoworkerRemoveCommand(app *App) *CoworkerRemoveCommand {
	return &CoworkerRemoveCommand{app: app}
}

// Execute removes the named coworkers
func (c *CoworkerRemoveCommand) Execute(ctx context.Context, args []string) error {
	for _, arg := range args {
		coworker, err := c.app.resolveCoworker(arg)
		if err != nil {
			return c.app.errorHandler.Handle("remove coworker", err)
		}
		c.app.dash.Coworkers.Remove(ctx, coworker.ID)
		c.app.printf("Removed coworker: %s\n", coworker.Name)
	}
	c.app.warnUnsaved(c.app.dash.Coworkers.LastPersistError())
	return nil
}

// resolveCoworker finds a coworker by list position (1-based), id or
// case-insensitive name
func (a *App) resolveCoworker(ref string) (domain.Coworker, error) {
	coworkers := a.dash.Coworkers.List()
	if cw, ok := a.dash.Coworkers.Get(ref); ok {
		return cw, nil
	}
	for i, cw := range coworkers {
		if ref == strconv.Itoa(i+1) || strings.EqualFold(cw.Name, ref) {
			return cw, nil
		}
	}
	return domain.Coworker{}, errors.NewNotFoundError("coworker", ref)
}
