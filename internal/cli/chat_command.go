package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/views"
)

// chatOptions holds the chat configure flags
type chatOptions struct {
	token        string
	model        string
	baseURL      string
	systemPrompt string
}

// ChatConfigureCommand handles chat configure
type ChatConfigureCommand struct {
	app     *App
	opts    chatOptions
	changed map[string]bool
}

// NewChatConfigureCommand creates a configure handler. Unset flags keep the
// current value.
func NewChatConfigureCommand(app *App, opts chatOptions, changed map[string]bool) *ChatConfigureCommand {
	return &ChatConfigureCommand{app: app, opts: opts, changed: changed}
}

// Execute saves the merged chat settings
func (c *ChatConfigureCommand) Execute(ctx context.Context, args []string) error {
	s, _ := c.app.dash.Chat.Settings()
	if c.changed["token"] {
		s.Token = c.opts.token
	}
	if c.changed["model"] {
		s.Model = c.opts.model
	}
	if c.changed["base-url"] {
		s.BaseURL = c.opts.baseURL
	}
	if c.changed["system-prompt"] {
		s.SystemPrompt = c.opts.systemPrompt
	}

	if err := c.app.dash.ConfigureChat(ctx, s); err != nil {
		return c.app.errorHandler.Handle("configure chat", err)
	}
	s, _ = c.app.dash.Chat.Settings()
	c.app.printf("Chat configured (model: %s)\n", s.Model)
	return nil
}

// askOptions holds the chat ask flags
type askOptions struct {
	// typewriter is the delay per revealed rune; zero prints the reply at once
	typewriter time.Duration
}

// ChatAskCommand handles chat ask
type ChatAskCommand struct {
	app  *App
	opts askOptions
}

// NewChatAskCommand creates a new chat ask handler
func NewChatAskCommand(app *App, opts askOptions) *ChatAskCommand {
	return &ChatAskCommand{app: app, opts: opts}
}

// Execute sends the arguments as one message and prints the reply, followed
// by the counter this reply left behind
func (c *ChatAskCommand) Execute(ctx context.Context, args []string) error {
	var (
		usage   domain.RateLimit
		counted bool
	)
	unsubscribe := c.app.dash.Chat.SubscribeUsage(func(rl domain.RateLimit) {
		usage, counted = rl, true
	})
	reply, err := c.app.dash.Conversation.Ask(ctx, strings.Join(args, " "))
	unsubscribe()
	if err != nil {
		return c.app.errorHandler.Handle("send message", err)
	}

	typewrite(ctx, c.app, reply, c.opts.typewriter)
	if !counted {
		usage = c.app.dash.Chat.Usage()
	}
	printUsage(c.app, usage, true)
	return nil
}

// typewrite reveals text one rune every perRune. Cancelling ctx prints the
// rest at once.
func typewrite(ctx context.Context, app *App, text string, perRune time.Duration) {
	if perRune <= 0 {
		app.println(text)
		return
	}
	ticker := time.NewTicker(perRune)
	defer ticker.Stop()

	var shown string
	var elapsed time.Duration
	for !views.TypewriterDone(text, elapsed, perRune) {
		select {
		case <-ctx.Done():
			elapsed = time.Duration(len(text)+1) * perRune
		case <-ticker.C:
			elapsed += perRune
		}
		frame := views.TypewriterFrame(text, elapsed, perRune)
		app.printf("%s", frame[len(shown):])
		shown = frame
	}
	app.println()
}

// ChatUsageCommand handles chat usage
type ChatUsageCommand struct {
	app *App
}

// NewChatUsageCommand creates a new chat usage handler
func NewChatUsageCommand(app *App) *ChatUsageCommand {
	return &ChatUsageCommand{app: app}
}

// Execute prints the rate limit counter
func (c *ChatUsageCommand) Execute(ctx context.Context, args []string) error {
	printUsage(c.app, c.app.dash.Chat.Usage(), false)
	return nil
}

// printUsage renders the counter; compact is the one-line form after a reply
func printUsage(app *App, usage domain.RateLimit, compact bool) {
	now := timeNow()

	var reset string
	if usage.ResetAt != nil {
		reset = views.Countdown(*usage.ResetAt, now)
	}

	if compact {
		if !usage.Known() {
			return
		}
		line := fmt.Sprintf("[%d/%d calls left", usage.CallsRemaining, usage.Limit)
		if reset != "" {
			line += ", resets in " + reset
		}
		app.println(line + "]")
		return
	}

	app.printf("%-12s %d\n", "Used:", usage.CallsUsed)
	if !usage.Known() {
		app.printf("%-12s %s\n", "Remaining:", "unknown until the first reply")
		return
	}
	app.printf("%-12s %d of %d\n", "Remaining:", usage.CallsRemaining, usage.Limit)
	if reset != "" {
		app.printf("%-12s %s\n", "Resets in:", reset)
	}
	if usage.Exhausted() {
		app.println("The quota is exhausted; requests will be refused until it resets.")
	}
}

// ChatHistoryCommand handles chat history
type ChatHistoryCommand struct {
	app *App
}

// NewChatHistoryCommand creates a new chat history handler
func NewChatHistoryCommand(app *App) *ChatHistoryCommand {
	return &ChatHistoryCommand{app: app}
}

// Execute prints the stored conversation
func (c *ChatHistoryCommand) Execute(ctx context.Context, args []string) error {
	history := c.app.dash.Conversation.History()
	if len(history) == 0 {
		c.app.println("No messages yet.")
		return nil
	}
	for _, m := range history {
		c.app.printf("%s: %s\n", m.Role, m.Content)
	}
	return nil
}

// ChatClearCommand handles chat clear
type ChatClearCommand struct {
	app        *App
	resetUsage bool
}

// NewChatClearCommand creates a new chat clear handler
func NewChatClearCommand(app *App, resetUsage bool) *ChatClearCommand {
	return &ChatClearCommand{app: app, resetUsage: resetUsage}
}

// Execute forgets the conversation and, when asked, the usage counter
func (c *ChatClearCommand) Execute(ctx context.Context, args []string) error {
	if err := c.app.dash.Conversation.Clear(ctx); err != nil {
		return c.app.errorHandler.Handle("clear conversation", err)
	}
	c.app.println("Conversation cleared.")
	if c.resetUsage {
		if err := c.app.dash.Chat.ResetUsage(ctx); err != nil {
			return c.app.errorHandler.Handle("reset usage", err)
		}
		c.app.println("Usage counter reset.")
	}
	return nil
}
