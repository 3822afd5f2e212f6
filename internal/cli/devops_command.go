package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dashboard/internal/config"
	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/remote/devops"
	"dashboard/internal/views"
)

// devopsOptions holds the devops configure flags
type devopsOptions struct {
	organization string
	projects     []string
	pat          string
	baseURL      string
	test         bool
}

// DevOpsConfigureCommand handles devops configure
type DevOpsConfigureCommand struct {
	app     *App
	opts    devopsOptions
	changed map[string]bool
}

// NewDevOpsConfigureCommand creates a configure handler. Unset flags keep
// the current value.
func NewDevOpsConfigureCommand(app *App, opts devopsOptions, changed map[string]bool) *DevOpsConfigureCommand {
	return &DevOpsConfigureCommand{app: app, opts: opts, changed: changed}
}

// Execute saves the merged settings and optionally tests them
func (c *DevOpsConfigureCommand) Execute(ctx context.Context, args []string) error {
	s, _ := c.app.dash.DevOps.Settings()
	if c.changed["org"] {
		s.Organization = c.opts.organization
	}
	if c.changed["project"] {
		s.Projects = nil
		for _, p := range config.ParseProjectList(strings.Join(c.opts.projects, ",")) {
			s.Projects = append(s.Projects, devops.ProjectRef{Name: p.Name, Team: p.Team, DisplayName: p.DisplayName})
		}
	}
	if c.changed["pat"] {
		s.PAT = c.opts.pat
	}
	if c.changed["base-url"] {
		s.BaseURL = c.opts.baseURL
	}

	if err := c.app.dash.ConfigureDevOps(ctx, s); err != nil {
		return c.app.errorHandler.Handle("configure Azure DevOps", err)
	}
	c.app.printf("Azure DevOps configured for %s (%d project(s))\n", s.Organization, len(s.Projects))

	if c.opts.test {
		return NewDevOpsTestCommand(c.app).Execute(ctx, nil)
	}
	return nil
}

// DevOpsTestCommand handles devops test
type DevOpsTestCommand struct {
	app *App
}

// NewDevOpsTestCommand creates a new devops test handler
func NewDevOpsTestCommand(app *App) *DevOpsTestCommand {
	return &DevOpsTestCommand{app: app}
}

// Execute checks that the stored credentials reach the organization
func (c *DevOpsTestCommand) Execute(ctx context.Context, args []string) error {
	if err := c.app.dash.DevOps.TestConnection(ctx); err != nil {
		return c.app.errorHandler.Handle("connect to Azure DevOps", err)
	}
	c.app.println("Connection to Azure DevOps succeeded.")
	return nil
}

// itemsOptions holds the work item query flags
type itemsOptions struct {
	all       bool
	states    []string
	types     []string
	iteration string
	current   bool
	max       int
}

// DevOpsItemsCommand handles devops items
type DevOpsItemsCommand struct {
	app  *App
	opts itemsOptions
}

// NewDevOpsItemsCommand creates a new devops items handler
func NewDevOpsItemsCommand(app *App, opts itemsOptions) *DevOpsItemsCommand {
	return &DevOpsItemsCommand{app: app, opts: opts}
}

// Execute lists work items across every configured project. Failing
// projects are reported as warnings unless all of them fail.
func (c *DevOpsItemsCommand) Execute(ctx context.Context, args []string) error {
	q := devops.DefaultQuery()
	if c.opts.all {
		q.AssignedToMe = false
	}
	if len(c.opts.states) > 0 {
		q.States = c.opts.states
	}
	q.Types = c.opts.types
	q.IterationPath = c.opts.iteration
	q.CurrentIteration = c.opts.current
	q.MaxResults = c.opts.max

	report := c.app.dash.DevOps.Fetch(ctx, q)
	if report.Err != nil {
		return c.app.errorHandler.Handle("fetch work items", report.Err)
	}
	for _, w := range report.Warnings {
		c.app.printf("Warning: %s: %s\n", w.Source.Label(), c.app.errorHandler.HandleSimple(w.Err))
	}
	printWorkItems(c.app, report.Items)
	return nil
}

func printWorkItems(app *App, items []domain.WorkItem) {
	if len(items) == 0 {
		app.println("No work items found.")
		return
	}
	var source string
	for _, item := range items {
		if label := item.Source.Label(); label != source {
			source = label
			app.printf("\n%s\n", source)
		}
		style := views.WorkItemTypeStyle(item.Type)
		priority := ""
		if item.Priority > 0 {
			priority = "P" + strconv.Itoa(item.Priority)
		}
		app.printf("  %s %-8d %-12s %-3s %s\n", style.Icon, item.ID, truncate(item.State, 12), priority, truncate(item.Title, 60))
	}
}

// sprintsOptions holds the devops sprints flags
type sprintsOptions struct {
	color bool
}

// DevOpsSprintsCommand handles devops sprints
type DevOpsSprintsCommand struct {
	app  *App
	opts sprintsOptions
}

// NewDevOpsSprintsCommand creates a new devops sprints handler
func NewDevOpsSprintsCommand(app *App, opts sprintsOptions) *DevOpsSprintsCommand {
	return &DevOpsSprintsCommand{app: app, opts: opts}
}

// Execute shows the current sprint of every configured project with its
// urgency, and the next numbered sprint when there is one
func (c *DevOpsSprintsCommand) Execute(ctx context.Context, args []string) error {
	s, ok := c.app.dash.DevOps.Settings()
	if !ok {
		return c.app.errorHandler.Handle("list sprints", errors.NewNotConfiguredError("Azure DevOps"))
	}

	now := timeNow()
	for _, project := range s.Projects {
		label := project.DisplayName
		if label == "" {
			label = project.Name
		}
		iterations, err := c.app.dash.DevOps.Iterations(ctx, project)
		if err != nil {
			c.app.printf("%-24s %s\n", label, c.app.errorHandler.HandleSimple(err))
			continue
		}
		current, ok := devops.CurrentIteration(iterations, now)
		if !ok {
			c.app.printf("%-24s no current sprint\n", label)
			continue
		}
		c.app.printf("%-24s %s\n", label, describeSprint(current, now, c.opts.color))
		if next, ok := devops.NextIteration(iterations, current); ok {
			c.app.printf("%-24s next: %s\n", "", next.Name)
		}
	}
	return nil
}

// describeSprint renders the sprint name, dates and days remaining
func describeSprint(it domain.Iteration, now time.Time, color bool) string {
	if it.StartDate == nil || it.FinishDate == nil {
		return it.Name + " (no dates)"
	}
	urgency, days := views.Urgency(*it.StartDate, *it.FinishDate, now)
	var remaining string
	switch {
	case urgency == views.UrgencyFuture:
		remaining = "starts " + it.StartDate.Format("Jan 2")
	case days < 0:
		remaining = strconv.Itoa(-days) + " day(s) overdue"
	case days == 0:
		remaining = "ends today"
	default:
		remaining = strconv.Itoa(days) + " day(s) left"
	}
	tag := "[" + string(urgency) + "]"
	if color {
		tag = paint(views.UrgencyColor(urgency), tag)
	}
	return it.Name + " (" + it.StartDate.Format("Jan 2") + " - " + it.FinishDate.Format("Jan 2") + ", " +
		remaining + ") " + tag
}

// paint wraps text in a 24-bit ANSI foreground colour given as "#rrggbb".
// Anything else leaves text unchanged.
func paint(hex, text string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return text
	}
	rgb, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return text
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", rgb>>16&0xff, rgb>>8&0xff, rgb&0xff, text)
}
