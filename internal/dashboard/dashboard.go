// Package dashboard wires the stores and provider clients together from
// configuration and gathers them into a single overview.
package dashboard

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dashboard/internal/chat"
	"dashboard/internal/config"
	"dashboard/internal/errors"
	"dashboard/internal/remote/devops"
	"dashboard/internal/remote/graph"
	"dashboard/internal/remote/news"
	"dashboard/internal/repository"
	"dashboard/internal/store"
	"dashboard/internal/validation"

	"go.uber.org/zap"
)

// Preferences are display choices kept across sessions
type Preferences struct {
	NewsTopic   string `json:"newsTopic,omitempty"`
	TaskFilter  string `json:"taskFilter,omitempty"`
	ShowSeconds bool   `json:"showSeconds,omitempty"`
}

// Option configures a Dashboard
type Option func(*options)

type options struct {
	now        func() time.Time
	logger     *zap.Logger
	httpClient *http.Client
}

// WithClock replaces time.Now in every component
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the root logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient replaces the client built from the HTTP config section
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// Dashboard owns every store and client of one session
type Dashboard struct {
	cfg    *config.Config
	repo   repository.Repository
	now    func() time.Time
	logger *zap.Logger

	Tasks        *store.TaskStore
	Coworkers    *store.CoworkerStore
	DevOps       *devops.Client
	Graph        *graph.Client
	Chat         *chat.Client
	Conversation *chat.Conversation
	News         *news.Client

	devopsSettings *store.Slot[devops.Settings]
	graphSettings  *store.Slot[graph.Settings]
	chatSettings   *store.Slot[chat.Settings]
	newsSettings   *store.Slot[news.Settings]
	preferences    *store.Slot[Preferences]

	inflight sync.WaitGroup
}

// New builds a dashboard over repo. Call Load before use.
func New(cfg *config.Config, repo repository.Repository, opts ...Option) *Dashboard {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.HTTP.Timeout}
	}

	ids := store.NewIDGenerator(o.now)
	storeOpts := []store.Option{store.WithClock(o.now), store.WithLogger(o.logger), store.WithIDGenerator(ids)}

	d := &Dashboard{
		cfg:    cfg,
		repo:   repo,
		now:    o.now,
		logger: o.logger,

		Tasks:     store.NewTaskStore(repo, validation.NewTaskValidatorWithConfig(cfg), storeOpts...),
		Coworkers: store.NewCoworkerStore(repo, storeOpts...),
		DevOps: devops.New(o.httpClient, o.logger,
			devops.WithBatchCeiling(cfg.Dashboard.BatchCeiling),
			devops.WithUserAgent(cfg.HTTP.UserAgent),
			devops.WithClock(o.now)),
		Graph: graph.New(o.httpClient, o.logger, graph.WithUserAgent(cfg.HTTP.UserAgent)),
		Chat: chat.New(o.httpClient, repo, o.logger,
			chat.WithClock(o.now),
			chat.WithDefaultLimit(cfg.Chat.DefaultLimit),
			chat.WithUserAgent(cfg.HTTP.UserAgent)),
		News: news.New(o.httpClient, o.logger, cfg.HTTP.UserAgent),

		devopsSettings: store.NewSlot[devops.Settings](repo, repository.KeyDevOpsSettings, "Azure DevOps settings"),
		graphSettings:  store.NewSlot[graph.Settings](repo, repository.KeyGraphSettings, "Microsoft Graph settings"),
		chatSettings:   store.NewSlot[chat.Settings](repo, repository.KeyChatSettings, "chat settings"),
		newsSettings:   store.NewSlot[news.Settings](repo, repository.KeyNewsSettings, "news settings"),
		preferences:    store.NewSlot[Preferences](repo, repository.KeyUIPreferences, "preferences"),
	}
	d.Conversation = chat.NewConversation(d.Chat, repo)
	return d
}

// Load reads every store and applies persisted settings, falling back to
// the configured defaults for providers that were never configured here.
func (d *Dashboard) Load(ctx context.Context) error {
	if err := d.Tasks.Load(ctx); err != nil {
		return err
	}
	if err := d.Coworkers.Load(ctx); err != nil {
		return err
	}
	if err := d.Chat.LoadUsage(ctx); err != nil {
		return err
	}
	if err := d.Conversation.Load(ctx); err != nil {
		return err
	}

	applySettings(ctx, d, "devops", d.devopsSettings, d.defaultDevOps(), devops.Settings.Configured, d.DevOps.Configure)
	applySettings(ctx, d, "graph", d.graphSettings, d.defaultGraph(), graph.Settings.Configured, d.Graph.Configure)
	applySettings(ctx, d, "chat", d.chatSettings, d.defaultChat(), chat.Settings.Configured, d.Chat.Configure)
	applySettings(ctx, d, "news", d.newsSettings, d.defaultNews(), news.Settings.Configured, d.News.Configure)
	return nil
}

// applySettings configures one client from its slot, or from defaults when
// the slot is empty. Unreadable slots and incomplete defaults leave the
// client unconfigured.
func applySettings[S any](ctx context.Context, d *Dashboard, name string, slot *store.Slot[S], defaults S, configured func(S) bool, configure func(S) error) {
	settings, ok, err := slot.Load(ctx)
	if err != nil {
		d.logger.Warn("ignoring stored settings", zap.String("provider", name), zap.Error(err))
	}
	if !ok {
		settings = defaults
	}
	if !configured(settings) {
		return
	}
	if err := configure(settings); err != nil {
		d.logger.Warn("settings rejected", zap.String("provider", name), zap.Error(err))
	}
}

// ConfigureDevOps validates, applies and persists Azure DevOps settings
func (d *Dashboard) ConfigureDevOps(ctx context.Context, s devops.Settings) error {
	if err := d.DevOps.Configure(s); err != nil {
		return err
	}
	applied, _ := d.DevOps.Settings()
	return d.devopsSettings.Save(ctx, applied)
}

// ConfigureGraph validates, applies and persists Microsoft Graph settings
func (d *Dashboard) ConfigureGraph(ctx context.Context, s graph.Settings) error {
	if err := d.Graph.Configure(s); err != nil {
		return err
	}
	applied, _ := d.Graph.Settings()
	return d.graphSettings.Save(ctx, applied)
}

// ConfigureChat validates, applies and persists chat settings
func (d *Dashboard) ConfigureChat(ctx context.Context, s chat.Settings) error {
	if err := d.Chat.Configure(s); err != nil {
		return err
	}
	applied, _ := d.Chat.Settings()
	return d.chatSettings.Save(ctx, applied)
}

// ConfigureNews validates, applies and persists news settings
func (d *Dashboard) ConfigureNews(ctx context.Context, s news.Settings) error {
	if err := d.News.Configure(s); err != nil {
		return err
	}
	applied, _ := d.News.Settings()
	return d.newsSettings.Save(ctx, applied)
}

// Preferences returns the stored display preferences
func (d *Dashboard) Preferences(ctx context.Context) Preferences {
	return d.preferences.LoadOr(ctx, Preferences{})
}

// SavePreferences overwrites the display preferences
func (d *Dashboard) SavePreferences(ctx context.Context, p Preferences) error {
	return d.preferences.Save(ctx, p)
}

// NewsTopic is the preferred topic, or the configured default
func (d *Dashboard) NewsTopic(ctx context.Context) string {
	if topic := d.Preferences(ctx).NewsTopic; topic != "" {
		return topic
	}
	return d.cfg.News.Topic
}

// Wait blocks until fetches abandoned by a soft timeout have finished
func (d *Dashboard) Wait() {
	d.inflight.Wait()
}

func (d *Dashboard) defaultDevOps() devops.Settings {
	c := d.cfg.DevOps
	projects := make([]devops.ProjectRef, len(c.Projects))
	for i, p := range c.Projects {
		projects[i] = devops.ProjectRef{Name: p.Name, Team: p.Team, DisplayName: p.DisplayName}
	}
	return devops.Settings{Organization: c.Organization, Projects: projects, PAT: c.PAT, BaseURL: c.BaseURL}
}

func (d *Dashboard) defaultGraph() graph.Settings {
	c := d.cfg.Graph
	return graph.Settings{AccessToken: c.AccessToken, BaseURL: c.BaseURL, TimeZone: c.TimeZone}
}

func (d *Dashboard) defaultChat() chat.Settings {
	c := d.cfg.Chat
	return chat.Settings{Token: c.Token, Model: c.Model, BaseURL: c.BaseURL, SystemPrompt: c.SystemPrompt}
}

func (d *Dashboard) defaultNews() news.Settings {
	c := d.cfg.News
	return news.Settings{APIKey: c.APIKey, BaseURL: c.BaseURL, PageSize: c.PageSize, Language: c.Language}
}

// sourceError tags a provider failure with the source it came from. The
// provider's error is shared with its feed, so the tag goes on a copy.
func sourceError(source string, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Clone().WithContext("source", source)
	}
	return err
}
