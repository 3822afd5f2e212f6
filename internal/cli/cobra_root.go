package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"dashboard/internal/config"
	"dashboard/internal/dashboard"
	"dashboard/internal/logging"
)

// annotationStandalone marks commands that run without opening storage
const annotationStandalone = "standalone"

// Bootstrap builds and loads the dashboard for a configuration. cleanup is
// called once the command has finished.
type Bootstrap func(ctx context.Context, cfg *config.Config) (dash *dashboard.Dashboard, cleanup func() error, err error)

// DefaultBootstrap opens the configured repository and loads every store
func DefaultBootstrap(ctx context.Context, cfg *config.Config) (*dashboard.Dashboard, func() error, error) {
	logger, err := logging.New(logging.Options{
		Verbose:     cfg.Application.Verbose,
		Development: cfg.GetEnvironment() == config.Development,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	dash := dashboard.New(cfg, repo, dashboard.WithLogger(logger))
	if err := dash.Load(ctx); err != nil {
		repo.Close()
		return nil, nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	logger.Debug("dashboard loaded",
		zap.String("driver", cfg.Storage.Driver),
		zap.Int("tasks", dash.Tasks.Len()),
		zap.Int("coworkers", dash.Coworkers.Len()))

	cleanup := func() error {
		_ = logger.Sync()
		return repo.Close()
	}
	return dash, cleanup, nil
}

// commandHandler is implemented by every command handler
type commandHandler interface {
	Execute(ctx context.Context, args []string) error
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	boot    Bootstrap
	out     io.Writer
	in      io.Reader
	config  *config.Config
	app     *App
	cleanup func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, boot Bootstrap, out io.Writer, in io.Reader) *RootCommand {
	if boot == nil {
		boot = DefaultBootstrap
	}
	root := &RootCommand{
		loader: loader,
		boot:   boot,
		out:    out,
		in:     in,
	}

	root.cmd = &cobra.Command{
		Use:   "dash",
		Short: "A personal productivity dashboard for the terminal",
		Long: `Dash keeps a local task list with timers and a coworker time zone board,
and gathers work items, calendar, presence, headlines and a chat assistant
from their remote services.

FEATURES:
  • Tasks with priorities, categories, due dates and one running timer
  • Coworker board with local time, offset and working hours
  • Azure DevOps work items and sprints across several projects
  • Outlook calendar and Teams presence through Microsoft Graph
  • News headlines for a topic
  • A chat assistant with a persisted rate limit counter
  • An overview that gathers everything at once

EXAMPLES:
  dash task add "Write report" -p high --due 2d   # Add a task due in two days
  dash task list --status overdue                 # Show overdue tasks
  dash task start 1                               # Start the timer on the first task
  dash coworker add "Ana" --timezone CET          # Add a coworker
  dash devops configure --org acme --project web --pat $PAT
  dash calendar show --week                       # This week's events
  dash chat ask "Summarize my day"                # Ask the assistant
  dash overview --watch                           # Refresh the overview until interrupted

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  The config file is ~/.dash/config.yaml, or DASH_CONFIG.

  Storage Configuration:
    DASH_STORAGE_DRIVER                    sqlite or memory (default: sqlite)
    DASH_STORAGE_DIR                       Storage directory (default: ~/.dash)
    DASH_STORAGE_FILENAME                  Database filename (default: dash.db)

  Provider Configuration:
    DASH_DEVOPS_ORG, DASH_DEVOPS_PROJECTS, DASH_DEVOPS_PAT
    DASH_GRAPH_TOKEN, DASH_GRAPH_TIMEZONE
    DASH_CHAT_TOKEN, DASH_CHAT_MODEL
    DASH_NEWS_API_KEY, DASH_NEWS_TOPIC

  Dashboard Configuration:
    DASH_SOFT_TIMEOUT                      Overview soft timeout (default: 10s)
    DASH_REFRESH_INTERVAL                  Overview refresh interval (default: 5m)
    DASH_BATCH_CEILING                     Ids per batched request (default: 200)

  Application Configuration:
    DASH_APP_TIMEOUT                       Command timeout (default: 60s)
    DASH_APP_VERBOSE                       Enable debug logging (default: false)
    DASH_DEBUG                             Enable debug logging

  Settings saved with the configure commands take precedence over the
  provider values above.

TIME FORMATS:
  Due dates accept YYYY-MM-DD or a shorthand offset from now:
    30m, 2h, 1d, 2w, 3mo, 1y

GETTING HELP:
  dash [command] --help                    # Get help for any specific command
  dash completion bash                     # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()
	return root
}

// Execute runs the command line and releases the dashboard afterwards
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	r.cmd.SetOut(r.out)
	r.cmd.SetIn(r.in)
	err := r.cmd.ExecuteContext(ctx)
	if shutdownErr := r.shutdown(); err == nil {
		err = shutdownErr
	}
	return err
}

// Command exposes the cobra command, for completion and docs generation
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides DASH_CONFIG)")

	// Storage configuration
	flags.String("storage-driver", "", "Storage driver, sqlite or memory (overrides DASH_STORAGE_DRIVER)")
	flags.String("storage-dir", "", "Storage directory (overrides DASH_STORAGE_DIR)")
	flags.String("storage-filename", "", "Database filename (overrides DASH_STORAGE_FILENAME)")

	// Dashboard configuration
	flags.Duration("soft-timeout", 0, "Overview soft timeout (overrides DASH_SOFT_TIMEOUT)")
	flags.Int("batch-ceiling", 0, "Ids per batched request (overrides DASH_BATCH_CEILING)")

	// Validation configuration
	flags.Int("title-min-length", 0, "Minimum task title length (overrides DASH_VALIDATION_TITLE_MIN)")
	flags.Int("title-max-length", 0, "Maximum task title length (overrides DASH_VALIDATION_TITLE_MAX)")

	// Application configuration
	flags.String("env", "", "Environment: production, development or testing (overrides DASH_ENV)")
	flags.Duration("app-timeout", 0, "Command timeout (overrides DASH_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides DASH_APP_VERBOSE)")
}

// getOverridesFromFlags collects the global flags the user actually set
func (r *RootCommand) getOverridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	o := &config.ConfigOverrides{}

	if flags.Changed("storage-driver") {
		v, _ := flags.GetString("storage-driver")
		o.StorageDriver = &v
	}
	if flags.Changed("storage-dir") {
		v, _ := flags.GetString("storage-dir")
		o.StorageDir = &v
	}
	if flags.Changed("storage-filename") {
		v, _ := flags.GetString("storage-filename")
		o.StorageFilename = &v
	}
	if flags.Changed("soft-timeout") {
		v, _ := flags.GetDuration("soft-timeout")
		o.SoftTimeout = &v
	}
	if flags.Changed("batch-ceiling") {
		v, _ := flags.GetInt("batch-ceiling")
		o.BatchCeiling = &v
	}
	if flags.Changed("title-min-length") {
		v, _ := flags.GetInt("title-min-length")
		o.TitleMinLength = &v
	}
	if flags.Changed("title-max-length") {
		v, _ := flags.GetInt("title-max-length")
		o.TitleMaxLength = &v
	}
	if flags.Changed("env") {
		v, _ := flags.GetString("env")
		o.Env = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	return o
}

// setup loads the configuration and, unless the command is standalone,
// boots the dashboard
func (r *RootCommand) setup(cmd *cobra.Command) error {
	if isBuiltin(cmd) {
		return nil
	}

	if path, _ := r.cmd.PersistentFlags().GetString("config"); path != "" {
		r.loader = config.NewLoaderWithPath(path)
	}
	if r.loader == nil {
		r.loader = config.NewLoader()
	}
	cfg, err := r.loader.LoadWithOverrides(r.getOverridesFromFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	if cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	dash, cleanup, err := r.boot(ctx, cfg)
	if err != nil {
		return err
	}
	r.cleanup = cleanup
	r.app = NewApp(dash, cfg, r.out, r.in)
	return nil
}

// shutdown waits for fetches abandoned by the overview and closes storage
func (r *RootCommand) shutdown() error {
	if r.app != nil {
		r.app.dash.Wait()
	}
	if r.cleanup == nil {
		return nil
	}
	cleanup := r.cleanup
	r.cleanup = nil
	return cleanup()
}

func isBuiltin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// run wraps a handler in the per-command timeout. Interactive commands get
// twice the timeout for user input.
func (r *RootCommand) run(interactive bool, build func(app *App) commandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		timeout := r.getAppTimeout()
		if interactive {
			timeout *= 2
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return build(r.app).Execute(ctx, args)
	}
}

// changedFlags names the local flags the user set on cmd
func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})
	return changed
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.taskCommand(),
		r.coworkerCommand(),
		r.devopsCommand(),
		r.calendarCommand(),
		r.presenceCommand(),
		r.newsCommand(),
		r.chatCommand(),
		r.overviewCommand(),
		r.prefsCommand(),
		r.configCommand(),
	)
}

func (r *RootCommand) taskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and timers",
		Long: `Manage the local task list.

Tasks are referenced by their position in 'dash task list', their id, or a
unique id prefix.`,
	}

	var addOpts taskOptions
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewAddCommand(app, addOpts)
		}),
	}
	addCmd.Flags().StringVarP(&addOpts.description, "description", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addOpts.priority, "priority", "p", "", "Priority: low, medium or high (default medium)")
	addCmd.Flags().StringVarP(&addOpts.category, "category", "c", "", "Task category")
	addCmd.Flags().StringVar(&addOpts.due, "due", "", "Due date, YYYY-MM-DD or a shorthand such as 2d")

	var listOpts listOptions
	listCmd := &cobra.Command{
		Use:     "list [text]",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks with optional filtering.

Statuses: all, active, completed, overdue, today, running
Text filters search within titles and descriptions (case-insensitive)

Examples:
  dash task list                     # Using the saved filter
  dash task list -s active --remember
  dash task list -c work "report"`,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewListCommand(app, listOpts)
		}),
	}
	listCmd.Flags().StringVarP(&listOpts.status, "status", "s", "", "Status filter")
	listCmd.Flags().StringVarP(&listOpts.category, "category", "c", "", "Category filter")
	listCmd.Flags().StringVarP(&listOpts.priority, "priority", "p", "", "Priority filter")
	listCmd.Flags().BoolVar(&listOpts.remember, "remember", false, "Save the status filter as the default")

	var editOpts taskOptions
	editCmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Edit a task",
		Long:  "Change the fields given as flags. Other fields are left unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			return r.run(false, func(app *App) commandHandler {
				return NewEditCommand(app, editOpts, changed)
			})(cmd, args)
		},
	}
	editCmd.Flags().StringVarP(&editOpts.title, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editOpts.description, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editOpts.priority, "priority", "p", "", "New priority")
	editCmd.Flags().StringVarP(&editOpts.category, "category", "c", "", "New category")
	editCmd.Flags().StringVar(&editOpts.due, "due", "", "New due date")
	editCmd.Flags().BoolVar(&editOpts.clearDue, "clear-due", false, "Remove the due date")

	doneCmd := &cobra.Command{
		Use:   "done <task>...",
		Short: "Toggle tasks between open and completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewDoneCommand(app)
		}),
	}

	rmCmd := &cobra.Command{
		Use:     "rm [task]...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Long: `Delete the given tasks. Without arguments you are prompted to select
which task to delete. This operation cannot be undone.`,
		RunE: r.run(true, func(app *App) commandHandler {
			return NewDeleteCommand(app)
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewClearCompletedCommand(app)
		}),
	}

	moveCmd := &cobra.Command{
		Use:   "move <task> <position>",
		Short: "Move a task to a position in the list",
		Args:  cobra.ExactArgs(2),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewMoveCommand(app)
		}),
	}

	startCmd := &cobra.Command{
		Use:   "start <task>",
		Short: "Start the timer on a task",
		Long:  "Start the timer on a task. A timer running on another task is stopped first.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewStartCommand(app)
		}),
	}

	stopCmd := &cobra.Command{
		Use:   "stop [task]",
		Short: "Stop the running timer",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewStopCommand(app)
		}),
	}

	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Show the running timer",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewCurrentCommand(app)
		}),
	}

	resumeCmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a task that already has tracked time",
		Args:  cobra.NoArgs,
		RunE: r.run(true, func(app *App) commandHandler {
			return NewResumeCommand(app)
		}),
	}

	statsCmd := &cobra.Command{
		Use:     "stats [text]",
		Aliases: []string{"summary"},
		Short:   "Show task counts and tracked time",
		RunE: r.run(false, func(app *App) commandHandler {
			return NewSummaryCommand(app)
		}),
	}

	exportCmd := &cobra.Command{
		Use:   "export [format=json|csv]",
		Short: "Export tasks",
		Long: `Export the task list.

Supported formats:
  json - The import format (default)
  csv  - Comma-separated values

Example:
  dash task export > tasks.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewOutputCommand(app)
		}),
	}

	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the task list with an export",
		Long:  "Replace the task list with a JSON export. A malformed file leaves the list unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewInputCommand(app)
		}),
	}

	taskCmd.AddCommand(addCmd, listCmd, editCmd, doneCmd, rmCmd, clearCmd, moveCmd,
		startCmd, stopCmd, currentCmd, resumeCmd, statsCmd, exportCmd, importCmd)
	return taskCmd
}

func (r *RootCommand) coworkerCommand() *cobra.Command {
	coworkerCmd := &cobra.Command{
		Use:     "coworker",
		Aliases: []string{"cw"},
		Short:   "Manage the coworker time zone board",
	}

	var addOpts coworkerOptions
	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a coworker",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewCoworkerAddCommand(app, addOpts)
		}),
	}
	addCmd.Flags().StringVarP(&addOpts.timezone, "timezone", "z", "", "IANA zone or abbreviation such as CET")
	addCmd.Flags().StringVarP(&addOpts.role, "role", "r", "", "Role or team")
	addCmd.Flags().StringVarP(&addOpts.email, "email", "e", "", "Email address")
	addCmd.Flags().StringVar(&addOpts.graphUserID, "graph-id", "", "Microsoft Graph user id, for presence")
	_ = addCmd.MarkFlagRequired("timezone")

	var editOpts coworkerOptions
	editCmd := &cobra.Command{
		Use:   "edit <coworker>",
		Short: "Edit a coworker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			return r.run(false, func(app *App) commandHandler {
				return NewCoworkerEditCommand(app, editOpts, changed)
			})(cmd, args)
		},
	}
	editCmd.Flags().StringVarP(&editOpts.name, "name", "n", "", "New name")
	editCmd.Flags().StringVarP(&editOpts.timezone, "timezone", "z", "", "New time zone")
	editCmd.Flags().StringVarP(&editOpts.role, "role", "r", "", "New role")
	editCmd.Flags().StringVarP(&editOpts.email, "email", "e", "", "New email address")
	editCmd.Flags().StringVar(&editOpts.graphUserID, "graph-id", "", "New Microsoft Graph user id")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List coworkers with their local time",
		Args:    cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewCoworkerListCommand(app)
		}),
	}

	rmCmd := &cobra.Command{
		Use:   "rm <coworker>...",
		Short: "Remove coworkers",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewCoworkerRemoveCommand(app)
		}),
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export coworkers as JSON",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewCoworkerOutputCommand(app)
		}),
	}

	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the coworker list with an export",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewCoworkerInputCommand(app)
		}),
	}

	coworkerCmd.AddCommand(addCmd, editCmd, listCmd, rmCmd, exportCmd, importCmd)
	return coworkerCmd
}

func (r *RootCommand) devopsCommand() *cobra.Command {
	devopsCmd := &cobra.Command{
		Use:   "devops",
		Short: "Azure DevOps work items and sprints",
	}

	var configureOpts devopsOptions
	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the organization, projects and access token",
		Long: `Set the Azure DevOps organization, projects and personal access token.
Flags that are not given keep their current value.

Projects are given as name[:team[:display name]]; repeat --project for
several projects.

Example:
  dash devops configure --org acme --project web:web-team --project api --pat $PAT --test`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			return r.run(false, func(app *App) commandHandler {
				return NewDevOpsConfigureCommand(app, configureOpts, changed)
			})(cmd, args)
		},
	}
	configureCmd.Flags().StringVar(&configureOpts.organization, "org", "", "Organization name")
	configureCmd.Flags().StringArrayVar(&configureOpts.projects, "project", nil, "Project as name[:team[:display name]]")
	configureCmd.Flags().StringVar(&configureOpts.pat, "pat", "", "Personal access token")
	configureCmd.Flags().StringVar(&configureOpts.baseURL, "base-url", "", "Service URL (default https://dev.azure.com)")
	configureCmd.Flags().BoolVar(&configureOpts.test, "test", false, "Test the connection after saving")

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Test the stored credentials",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewDevOpsTestCommand(app)
		}),
	}

	var itemsOpts itemsOptions
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "List work items across every configured project",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewDevOpsItemsCommand(app, itemsOpts)
		}),
	}
	itemsCmd.Flags().BoolVar(&itemsOpts.all, "all", false, "Include items not assigned to me")
	itemsCmd.Flags().StringSliceVar(&itemsOpts.states, "state", nil, "States to include (default New, Active, Committed, In Progress)")
	itemsCmd.Flags().StringSliceVar(&itemsOpts.types, "type", nil, "Work item types to include")
	itemsCmd.Flags().StringVar(&itemsOpts.iteration, "iteration", "", "Only items under this iteration path")
	itemsCmd.Flags().BoolVar(&itemsOpts.current, "current", false, "Only items in the team's current iteration")
	itemsCmd.Flags().IntVar(&itemsOpts.max, "max", 0, "Maximum items per project (default 200)")

	var sprintsOpts sprintsOptions
	sprintsCmd := &cobra.Command{
		Use:   "sprints",
		Short: "Show the current sprint of each project",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewDevOpsSprintsCommand(app, sprintsOpts)
		}),
	}
	sprintsCmd.Flags().BoolVar(&sprintsOpts.color, "color", false, "Colour the urgency of each sprint")

	devopsCmd.AddCommand(configureCmd, testCmd, itemsCmd, sprintsCmd)
	return devopsCmd
}

func (r *RootCommand) calendarCommand() *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Outlook calendar through Microsoft Graph",
	}

	var configureOpts graphOptions
	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the Microsoft Graph access token",
		Long: `Set the Microsoft Graph access token and the time zone events are shown in.
The token is also used for coworker presence. Flags that are not given keep
their current value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			return r.run(false, func(app *App) commandHandler {
				return NewCalendarConfigureCommand(app, configureOpts, changed)
			})(cmd, args)
		},
	}
	configureCmd.Flags().StringVar(&configureOpts.token, "token", "", "Access token")
	configureCmd.Flags().StringVar(&configureOpts.baseURL, "base-url", "", "Graph URL (default https://graph.microsoft.com/v1.0)")
	configureCmd.Flags().StringVar(&configureOpts.timeZone, "timezone", "", "Time zone for events (default UTC)")
	configureCmd.Flags().BoolVar(&configureOpts.test, "test", false, "Test the token after saving")

	var week bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show today's events",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewCalendarShowCommand(app, week)
		}),
	}
	showCmd.Flags().BoolVarP(&week, "week", "w", false, "Show the week starting Monday")

	calendarCmd.AddCommand(configureCmd, showCmd)
	return calendarCmd
}

func (r *RootCommand) presenceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presence",
		Short: "Show the Teams presence of linked coworkers",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewPresenceCommand(app)
		}),
	}
}

func (r *RootCommand) newsCommand() *cobra.Command {
	newsCmd := &cobra.Command{
		Use:   "news",
		Short: "News headlines",
	}

	var configureOpts newsOptions
	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the news API key and preferred topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			return r.run(false, func(app *App) commandHandler {
				return NewNewsConfigureCommand(app, configureOpts, changed)
			})(cmd, args)
		},
	}
	configureCmd.Flags().StringVar(&configureOpts.apiKey, "api-key", "", "API key")
	configureCmd.Flags().StringVar(&configureOpts.baseURL, "base-url", "", "API URL (default https://newsapi.org/v2)")
	configureCmd.Flags().IntVar(&configureOpts.pageSize, "page-size", 0, "Headlines per request, 1-100 (default 10)")
	configureCmd.Flags().StringVar(&configureOpts.language, "language", "", "Language code (default en)")
	configureCmd.Flags().StringVar(&configureOpts.topic, "topic", "", "Preferred topic")

	showCmd := &cobra.Command{
		Use:   "show [topic]",
		Short: "Show headlines for a topic",
		RunE: r.run(false, func(app *App) commandHandler {
			return NewNewsShowCommand(app)
		}),
	}

	newsCmd.AddCommand(configureCmd, showCmd)
	return newsCmd
}

func (r *RootCommand) chatCommand() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat assistant",
	}

	var configureOpts chatOptions
	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the chat token and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			return r.run(false, func(app *App) commandHandler {
				return NewChatConfigureCommand(app, configureOpts, changed)
			})(cmd, args)
		},
	}
	configureCmd.Flags().StringVar(&configureOpts.token, "token", "", "Access token")
	configureCmd.Flags().StringVar(&configureOpts.model, "model", "", "Model name")
	configureCmd.Flags().StringVar(&configureOpts.baseURL, "base-url", "", "Inference URL")
	configureCmd.Flags().StringVar(&configureOpts.systemPrompt, "system-prompt", "", "System prompt for new conversations")

	var askOpts askOptions
	askCmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send a message in the current conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(false, func(app *App) commandHandler {
			return NewChatAskCommand(app, askOpts)
		}),
	}
	askCmd.Flags().DurationVar(&askOpts.typewriter, "typewriter", 0, "Reveal the reply one character per interval (e.g. 15ms)")

	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Show the rate limit counter",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewChatUsageCommand(app)
		}),
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the current conversation",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewChatHistoryCommand(app)
		}),
	}

	var resetUsage bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Start a new conversation",
		Args:  cobra.NoArgs,
		RunE: r.run(false, func(app *App) commandHandler {
			return NewChatClearCommand(app, resetUsage)
		}),
	}
	clearCmd.Flags().BoolVar(&resetUsage, "usage", false, "Also reset the rate limit counter")

	chatCmd.AddCommand(configureCmd, askCmd, usageCmd, historyCmd, clearCmd)
	return chatCmd
}

func (r *RootCommand) overviewCommand() *cobra.Command {
	var opts overviewOptions
	overviewCmd := &cobra.Command{
		Use:   "overview",
		Short: "Gather tasks, work items, calendar, presence and headlines",
		Long: `Gather every configured source at once. Sources that do not answer within
the soft timeout are listed as still loading. With --watch the overview is
refreshed until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return NewOverviewCommand(r.app, opts).Execute(cmd.Context(), args)
			}
			return r.run(false, func(app *App) commandHandler {
				return NewOverviewCommand(app, opts)
			})(cmd, args)
		},
	}
	overviewCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Refresh until interrupted")
	overviewCmd.Flags().DurationVar(&opts.interval, "interval", 0, "Refresh interval (default DASH_REFRESH_INTERVAL)")
	return overviewCmd
}

func (r *RootCommand) prefsCommand() *cobra.Command {
	var opts prefsOptions
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := changedFlags(cmd)
			return r.run(false, func(app *App) commandHandler {
				return NewPrefsCommand(app, opts, changed)
			})(cmd, args)
		},
	}
	prefsCmd.Flags().StringVar(&opts.newsTopic, "news-topic", "", "Preferred news topic")
	prefsCmd.Flags().StringVar(&opts.taskFilter, "task-filter", "", "Default task list status")
	prefsCmd.Flags().BoolVar(&opts.showSeconds, "show-seconds", false, "Show seconds in tracked time")
	return prefsCmd
}

func (r *RootCommand) configCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the effective configuration to the config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewConfigInitCommand(r.out, r.config, r.loader.Path(), force).Execute(cmd.Context(), args)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
