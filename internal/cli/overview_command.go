package cli

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"dashboard/internal/dashboard"
	"dashboard/internal/domain"
)

// overviewOptions holds the overview flags
type overviewOptions struct {
	watch    bool
	interval time.Duration
}

// OverviewCommand handles overview
type OverviewCommand struct {
	app  *App
	opts overviewOptions
}

// NewOverviewCommand creates a new overview handler
func NewOverviewCommand(app *App, opts overviewOptions) *OverviewCommand {
	return &OverviewCommand{app: app, opts: opts}
}

// Execute prints one overview, or keeps refreshing until ctx is done when watching
func (c *OverviewCommand) Execute(ctx context.Context, args []string) error {
	if !c.opts.watch {
		c.print(ctx, c.app.dash.Overview(ctx))
		return nil
	}
	c.app.dash.Refresh(ctx, c.opts.interval, func(snap dashboard.Snapshot) {
		c.app.println(strings.Repeat("=", 60))
		c.print(ctx, snap)
	})
	return nil
}

func (c *OverviewCommand) print(ctx context.Context, snap dashboard.Snapshot) {
	a := c.app
	prefs := a.dash.Preferences(ctx)

	a.printf("Overview at %s\n\n", snap.GeneratedAt.Format("Mon Jan 2 15:04"))

	t := snap.Tasks
	a.printf("Tasks: %d active, %d completed (%d%%), %d overdue, %d due today\n",
		t.Active, t.Completed, t.CompletionPercent, t.Overdue, t.DueToday)
	if snap.Running != nil {
		a.printf("Timer: %s (%s)\n", snap.Running.Title,
			formatDuration(snap.Running.SessionSeconds(snap.GeneratedAt), prefs.ShowSeconds))
	}

	c.section(snap, dashboard.SourceWorkItems, "Work items", func() {
		for _, w := range snap.Warnings {
			a.printf("  Warning: %s: %s\n", w.Source.Label(), a.errorHandler.HandleSimple(w.Err))
		}
		counts := make(map[string]int)
		for _, item := range snap.WorkItems {
			counts[item.State]++
		}
		a.printf("  %d assigned%s\n", len(snap.WorkItems), formatCounts(counts))
	})

	c.section(snap, dashboard.SourceCalendar, "Today", func() {
		next := nextEvent(snap.Events, snap.GeneratedAt)
		a.printf("  %d event(s)\n", len(snap.Events))
		if next != nil {
			a.printf("  Next: %s at %s\n", next.Subject, next.Start.Format("15:04"))
		}
	})

	c.section(snap, dashboard.SourcePresence, "Presence", func() {
		counts := make(map[string]int)
		for _, p := range snap.Presence {
			counts[p.Availability]++
		}
		a.printf("  %d coworker(s)%s\n", len(snap.Presence), formatCounts(counts))
	})

	c.section(snap, dashboard.SourceNews, "Headlines", func() {
		for i, h := range snap.Headlines {
			if i == 3 {
				break
			}
			a.printf("  - %s (%s)\n", truncate(h.Title, 70), h.Source)
		}
	})

	if len(snap.Skipped) > 0 {
		a.printf("\nNot configured: %s\n", strings.Join(snap.Skipped, ", "))
	}
	if !snap.Complete() {
		a.printf("Still loading: %s\n", strings.Join(snap.TimedOut, ", "))
	}
}

// section prints one source block, or its failure, or nothing when the
// source produced no result in time
func (c *OverviewCommand) section(snap dashboard.Snapshot, source, title string, body func()) {
	if err, failed := snap.Errors[source]; failed {
		c.app.printf("\n%s\n  %s\n", title, c.app.errorHandler.HandleSimple(err))
		return
	}
	for _, s := range append(append([]string{}, snap.Skipped...), snap.TimedOut...) {
		if s == source {
			return
		}
	}
	c.app.printf("\n%s\n", title)
	body()
}

func nextEvent(events []domain.CalendarEvent, now time.Time) *domain.CalendarEvent {
	for i := range events {
		if !events[i].IsAllDay && events[i].End.After(now) {
			return &events[i]
		}
	}
	return nil
}

// formatCounts renders ": 3 Active, 1 New" sorted by count
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(counts[k]) + " " + k
	}
	return ": " + strings.Join(parts, ", ")
}
