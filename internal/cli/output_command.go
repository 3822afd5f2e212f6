package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"dashboard/internal/errors"
)

// exporter is the export/import surface shared by the task and coworker stores
type exporter interface {
	Export() ([]byte, error)
	Import(ctx context.Context, blob []byte) error
	Len() int
}

// OutputCommand handles export of a list
type OutputCommand struct {
	app    *App
	what   string
	target exporter
}

// NewOutputCommand creates an export handler for tasks
func NewOutputCommand(app *App) *OutputCommand {
	return &OutputCommand{app: app, what: "tasks", target: app.dash.Tasks}
}

// NewCoworkerOutputCommand creates an export handler for coworkers
func NewCoworkerOutputCommand(app *App) *OutputCommand {
	return &OutputCommand{app: app, what: "coworkers", target: app.dash.Coworkers}
}

// Execute writes the list in the requested format, JSON by default
func (c *OutputCommand) Execute(ctx context.Context, args []string) error {
	format := "json"
	if len(args) > 0 {
		if !strings.HasPrefix(args[0], "format=") {
			return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("format", args[0], "invalid format option"))
		}
		format = strings.TrimPrefix(args[0], "format=")
	}

	switch format {
	case "json":
		return c.outputJSON()
	case "csv":
		if c.what != "tasks" {
			break
		}
		return c.outputCSV()
	}
	return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("format", format, "unsupported format"))
}

func (c *OutputCommand) outputJSON() error {
	blob, err := c.target.Export()
	if err != nil {
		return c.app.errorHandler.Handle("export "+c.what, err)
	}
	c.app.printf("%s\n", blob)
	return nil
}

// outputCSV writes one row per task
func (c *OutputCommand) outputCSV() error {
	now := timeNow()
	writer := csv.NewWriter(c.app.out)
	defer writer.Flush()

	header := []string{"ID", "Title", "Priority", "Category", "Completed", "Due", "Created", "Tracked (hours)"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range c.app.dash.Tasks.List() {
		var due string
		if t.DueDate != nil {
			due = t.DueDate.Format(time.RFC3339)
		}
		row := []string{
			t.ID,
			t.Title,
			string(t.Priority),
			t.Category,
			strconv.FormatBool(t.Completed),
			due,
			t.CreatedAt.Format(time.RFC3339),
			fmt.Sprintf("%.2f", float64(t.TrackedSeconds(now))/3600),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// InputCommand handles import of a list
type InputCommand struct {
	app    *App
	what   string
	target exporter
}

// NewInputCommand creates an import handler for tasks
func NewInputCommand(app *App) *InputCommand {
	return &InputCommand{app: app, what: "tasks", target: app.dash.Tasks}
}

// NewCoworkerInputCommand creates an import handler for coworkers
func NewCoworkerInputCommand(app *App) *InputCommand {
	return &InputCommand{app: app, what: "coworkers", target: app.dash.Coworkers}
}

// Execute replaces the list with the JSON read from a file, or stdin for "-".
// A rejected import leaves the list unchanged.
func (c *InputCommand) Execute(ctx context.Context, args []string) error {
	var (
		blob []byte
		err  error
	)
	if args[0] == "-" {
		blob, err = io.ReadAll(c.app.in)
	} else {
		blob, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	if err := c.target.Import(ctx, blob); err != nil {
		return c.app.errorHandler.Handle("import "+c.what, err)
	}
	c.app.printf("Imported %d %s\n", c.target.Len(), c.what)
	return nil
}
