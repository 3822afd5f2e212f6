package cli

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"

	"dashboard/internal/errors"
)

// newsOptions holds the news configure flags
type newsOptions struct {
	apiKey   string
	baseURL  string
	pageSize int
	language string
	topic    string
}

// NewsConfigureCommand handles news configure
type NewsConfigureCommand struct {
	app     *App
	opts    newsOptions
	changed map[string]bool
}

// NewNewsConfigureCommand creates a configure handler. Unset flags keep the
// current value.
func NewNewsConfigureCommand(app *App, opts newsOptions, changed map[string]bool) *NewsConfigureCommand {
	return &NewsConfigureCommand{app: app, opts: opts, changed: changed}
}

// Execute saves the merged news settings and the preferred topic
func (c *NewsConfigureCommand) Execute(ctx context.Context, args []string) error {
	s, _ := c.app.dash.News.Settings()
	if c.changed["api-key"] {
		s.APIKey = c.opts.apiKey
	}
	if c.changed["base-url"] {
		s.BaseURL = c.opts.baseURL
	}
	if c.changed["page-size"] {
		s.PageSize = c.opts.pageSize
	}
	if c.changed["language"] {
		s.Language = c.opts.language
	}

	if err := c.app.dash.ConfigureNews(ctx, s); err != nil {
		return c.app.errorHandler.Handle("configure news", err)
	}
	if c.changed["topic"] {
		prefs := c.app.dash.Preferences(ctx)
		prefs.NewsTopic = strings.TrimSpace(c.opts.topic)
		if err := c.app.dash.SavePreferences(ctx, prefs); err != nil {
			c.app.warnUnsaved(err)
		}
	}
	c.app.printf("News configured (topic: %s)\n", c.app.dash.NewsTopic(ctx))
	return nil
}

// NewsShowCommand handles news show
type NewsShowCommand struct {
	app *App
}

// NewNewsShowCommand creates a new news show handler
func NewNewsShowCommand(app *App) *NewsShowCommand {
	return &NewsShowCommand{app: app}
}

// Execute lists headlines for the given topic, or the preferred one
func (c *NewsShowCommand) Execute(ctx context.Context, args []string) error {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		topic = c.app.dash.NewsTopic(ctx)
	}
	if topic == "" {
		return c.app.errorHandler.HandleSimple(errors.NewInvalidInputError("topic", "", "cannot be empty"))
	}

	articles, err := c.app.dash.News.Fetch(ctx, topic)
	if err != nil {
		return c.app.errorHandler.Handle("fetch news", err)
	}
	if len(articles) == 0 {
		c.app.printf("No headlines for %q.\n", topic)
		return nil
	}
	for i, a := range articles {
		c.app.printf("%d. %s\n", i+1, a.Title)
		c.app.printf("   %s, %s\n", a.Source, humanize.Time(a.PublishedAt))
		c.app.printf("   %s\n", a.URL)
	}
	return nil
}
