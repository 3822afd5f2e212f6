package cli

import (
	"context"
	"sort"
	"strings"

	"dashboard/internal/views"
)

// SummaryCommand handles task stats
type SummaryCommand struct {
	app *App
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app}
}

// Execute prints task counts and tracked time per category. Arguments
// narrow the tasks by text.
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	now := timeNow()
	tasks := views.FilterTasks(c.app.dash.Tasks.List(), views.TaskFilter{Query: strings.Join(args, " ")}, now)
	stats := views.TaskStats(tasks, now)

	c.app.printf("%-12s %d\n", "Total:", stats.Total)
	c.app.printf("%-12s %d\n", "Active:", stats.Active)
	c.app.printf("%-12s %d (%d%%)\n", "Completed:", stats.Completed, stats.CompletionPercent)
	c.app.printf("%-12s %d\n", "Overdue:", stats.Overdue)
	c.app.printf("%-12s %d\n", "Due today:", stats.DueToday)
	c.app.printf("%-12s %d\n", "Running:", stats.Running)

	byCategory := make(map[string]int64)
	var total int64
	for _, t := range tasks {
		category := t.Category
		if category == "" {
			category = "uncategorized"
		}
		secs := t.TrackedSeconds(now)
		byCategory[category] += secs
		total += secs
	}
	if total == 0 {
		return nil
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if byCategory[categories[i]] != byCategory[categories[j]] {
			return byCategory[categories[i]] > byCategory[categories[j]]
		}
		return categories[i] < categories[j]
	})

	c.app.println()
	c.app.println("Tracked time:")
	for _, category := range categories {
		c.app.printf("  %-20s %s\n", category, formatDuration(byCategory[category], false))
	}
	c.app.printf("  %-20s %s\n", "total", formatDuration(total, false))
	return nil
}
