package cli

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"

	"dashboard/internal/domain"
	"dashboard/internal/remote/graph"
	"dashboard/internal/views"
)

// graphOptions holds the calendar configure flags
type graphOptions struct {
	token    string
	baseURL  string
	timeZone string
	test     bool
}

// CalendarConfigureCommand handles calendar configure
type CalendarConfigureCommand struct {
	app     *App
	opts    graphOptions
	changed map[string]bool
}

// NewCalendarConfigureCommand creates a configure handler. Unset flags keep
// the current value.
func NewCalendarConfigureCommand(app *App, opts graphOptions, changed map[string]bool) *CalendarConfigureCommand {
	return &CalendarConfigureCommand{app: app, opts: opts, changed: changed}
}

// Execute saves the merged Graph settings and optionally tests them
func (c *CalendarConfigureCommand) Execute(ctx context.Context, args []string) error {
	s, _ := c.app.dash.Graph.Settings()
	if c.changed["token"] {
		s.AccessToken = c.opts.token
	}
	if c.changed["base-url"] {
		s.BaseURL = c.opts.baseURL
	}
	if c.changed["timezone"] {
		s.TimeZone = c.opts.timeZone
	}

	if err := c.app.dash.ConfigureGraph(ctx, s); err != nil {
		return c.app.errorHandler.Handle("configure Microsoft Graph", err)
	}
	c.app.println("Microsoft Graph configured.")

	if c.opts.test {
		me, err := c.app.dash.Graph.Me(ctx)
		if err != nil {
			return c.app.errorHandler.Handle("connect to Microsoft Graph", err)
		}
		c.app.printf("Signed in as %s <%s>\n", me.DisplayName, me.Mail)
	}
	return nil
}

// CalendarShowCommand handles calendar show
type CalendarShowCommand struct {
	app  *App
	week bool
}

// NewCalendarShowCommand creates a new calendar show handler
func NewCalendarShowCommand(app *App, week bool) *CalendarShowCommand {
	return &CalendarShowCommand{app: app, week: week}
}

// Execute lists today's or this week's events
func (c *CalendarShowCommand) Execute(ctx context.Context, args []string) error {
	now := timeNow()
	r := graph.TodayRange(now)
	if c.week {
		r = graph.WeekRange(now)
	}

	events, err := c.app.dash.Graph.Fetch(ctx, r)
	if err != nil {
		return c.app.errorHandler.Handle("fetch calendar", err)
	}
	printEvents(c.app, events, c.week)
	return nil
}

func printEvents(app *App, events []domain.CalendarEvent, withDay bool) {
	if len(events) == 0 {
		app.println("No events.")
		return
	}
	now := timeNow()
	layout := "15:04"
	if withDay {
		layout = "Mon 15:04"
	}
	for _, e := range events {
		marker := " "
		if e.InProgress(now) {
			marker = "▶"
		}
		when := e.Start.Format(layout) + "-" + e.End.Format("15:04")
		if e.IsAllDay {
			when = "all day"
			if withDay {
				when = e.Start.Format("Mon") + " all day"
			}
		}
		var extras []string
		if e.Location != "" {
			extras = append(extras, e.Location)
		}
		if e.IsOnline {
			extras = append(extras, "online")
		}
		line := marker + " " + padRight(when, 16) + " " + truncate(e.Subject, 50)
		if len(extras) > 0 {
			line += " (" + strings.Join(extras, ", ") + ")"
		}
		if !e.IsAllDay && e.Start.After(now) && !withDay {
			line += " " + humanize.RelTime(e.Start, now, "ago", "from now")
		}
		app.println(line)
	}
}

// PresenceCommand handles presence
type PresenceCommand struct {
	app *App
}

// NewPresenceCommand creates a new presence handler
func NewPresenceCommand(app *App) *PresenceCommand {
	return &PresenceCommand{app: app}
}

// Execute shows the Graph presence of every coworker linked to a Graph user
func (c *PresenceCommand) Execute(ctx context.Context, args []string) error {
	ids := c.app.dash.Coworkers.GraphUserIDs()
	if len(ids) == 0 {
		c.app.println("No coworkers are linked to a Graph user. Use 'dash coworker edit --graph-id'.")
		return nil
	}

	presences, err := c.app.dash.Graph.FetchPresence(ctx, ids)
	if err != nil {
		return c.app.errorHandler.Handle("fetch presence", err)
	}
	byUser := make(map[string]domain.Presence, len(presences))
	for _, p := range presences {
		byUser[p.UserID] = p
	}

	for _, cw := range c.app.dash.Coworkers.List() {
		if cw.GraphUserID == "" {
			continue
		}
		p, ok := byUser[cw.GraphUserID]
		if !ok {
			p = domain.Presence{UserID: cw.GraphUserID, Availability: domain.AvailabilityUnknown}
		}
		style := views.PresenceStyle(p.Availability)
		c.app.printf("%s %-24s %-14s %s\n", style.Icon, truncate(cw.Name, 24), p.Availability, p.Activity)
	}
	return nil
}

func padRight(s string, n int) string {
	if r := []rune(s); len(r) < n {
		return s + strings.Repeat(" ", n-len(r))
	}
	return s
}
