package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"dashboard/internal/config"
	"dashboard/internal/errors"
	"dashboard/internal/views"
)

// ConfigInitCommand handles config init
type ConfigInitCommand struct {
	config       *config.Config
	path         string
	force        bool
	out          io.Writer
	errorHandler *ErrorHandler
}

// NewConfigInitCommand creates a handler writing cfg to path. It runs
// without a loaded dashboard.
func NewConfigInitCommand(out io.Writer, cfg *config.Config, path string, force bool) *ConfigInitCommand {
	return &ConfigInitCommand{config: cfg, path: path, force: force, out: out, errorHandler: NewErrorHandler()}
}

// Execute writes the effective configuration as YAML. An existing file is
// kept unless force is set.
func (c *ConfigInitCommand) Execute(ctx context.Context, args []string) error {
	if _, err := os.Stat(c.path); err == nil && !c.force {
		return c.errorHandler.HandleSimple(errors.NewInvalidInputError("config", c.path, "file exists, use --force to overwrite"))
	}
	if err := c.config.Save(c.path); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Wrote %s\n", c.path)
	return nil
}

// prefsOptions holds the prefs flags
type prefsOptions struct {
	newsTopic   string
	taskFilter  string
	showSeconds bool
}

// PrefsCommand handles prefs
type PrefsCommand struct {
	app     *App
	opts    prefsOptions
	changed map[string]bool
}

// NewPrefsCommand creates a prefs handler. changed names the flags the user set.
func NewPrefsCommand(app *App, opts prefsOptions, changed map[string]bool) *PrefsCommand {
	return &PrefsCommand{app: app, opts: opts, changed: changed}
}

// Execute updates the changed preferences, then prints all of them
func (c *PrefsCommand) Execute(ctx context.Context, args []string) error {
	prefs := c.app.dash.Preferences(ctx)
	if len(c.changed) > 0 {
		if c.changed["news-topic"] {
			prefs.NewsTopic = c.opts.newsTopic
		}
		if c.changed["task-filter"] {
			if !validStatus(c.opts.taskFilter) {
				return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("task-filter", c.opts.taskFilter, "unknown status"))
			}
			prefs.TaskFilter = c.opts.taskFilter
		}
		if c.changed["show-seconds"] {
			prefs.ShowSeconds = c.opts.showSeconds
		}
		if err := c.app.dash.SavePreferences(ctx, prefs); err != nil {
			return c.app.errorHandler.Handle("save preferences", err)
		}
	}

	filter := prefs.TaskFilter
	if filter == "" {
		filter = string(views.StatusAll)
	}
	c.app.printf("%-14s %s\n", "News topic:", c.app.dash.NewsTopic(ctx))
	c.app.printf("%-14s %s\n", "Task filter:", filter)
	c.app.printf("%-14s %t\n", "Show seconds:", prefs.ShowSeconds)
	return nil
}
