package cli

import (
	"bufio"
	"context"
	"sort"
	"strconv"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
)

// ResumeCommand handles task resume
type ResumeCommand struct {
	app *App
}

// NewResumeCommand creates a new resume command handler
func NewResumeCommand(app *App) *ResumeCommand {
	return &ResumeCommand{app: app}
}

// Execute offers the open tasks that already have tracked time and starts
// the timer on the one picked
func (c *ResumeCommand) Execute(ctx context.Context, args []string) error {
	var candidates []domain.Task
	for _, t := range c.app.dash.Tasks.List() {
		if !t.Completed && !t.IsRunning && t.TotalSeconds > 0 {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		c.app.println("No tasks to resume.")
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalSeconds > candidates[j].TotalSeconds
	})

	c.app.println("Select a task to resume:")
	for i, t := range candidates {
		c.app.printf("%d. %s (tracked: %s)\n", i+1, t.Title, formatDuration(t.TotalSeconds, false))
	}
	c.app.printf("Enter number to resume, or 'q' to quit: ")

	input := readLine(c.app)
	if input == "q" || input == "Q" {
		c.app.println("Resume cancelled.")
		return nil
	}
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(candidates) {
		return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("selection", input, "invalid selection"))
	}

	task, err := c.app.dash.Tasks.StartTimer(ctx, candidates[idx-1].ID)
	if err != nil {
		return c.app.errorHandler.Handle("resume task", err)
	}
	c.app.printf("Resumed task: %s\n", task.Title)
	c.app.warnUnsaved(c.app.dash.Tasks.LastPersistError())
	return nil
}

// readLine reads one trimmed line of user input
func readLine(app *App) string {
	line, _ := bufio.NewReader(app.in).ReadString('\n')
	return strings.TrimSpace(line)
}
