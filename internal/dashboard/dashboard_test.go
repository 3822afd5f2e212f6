package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dashboard/internal/chat"
	"dashboard/internal/config"
	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/remote/devops"
	"dashboard/internal/remote/graph"
	"dashboard/internal/remote/news"
	"dashboard/internal/repository"
	"dashboard/internal/repository/memory"
	"dashboard/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Storage.Driver = config.DriverMemory
	cfg.Dashboard.SoftTimeout = 2 * time.Second
	return cfg
}

// providers fakes every remote API on one server
type providers struct {
	newsDelay chan struct{}
	devopsPAT string
	newsHits  atomic.Int32
}

func (p *providers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/_apis/wit/wiql"):
		if _, pass, _ := r.BasicAuth(); pass != p.devopsPAT {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"workItems":[{"id":1},{"id":2}]}`))
	case strings.HasSuffix(r.URL.Path, "/_apis/wit/workitemsbatch"):
		_, _ = w.Write([]byte(`{"count":2,"value":[
			{"id":1,"fields":{"System.Title":"Fix login","System.WorkItemType":"Bug","System.State":"Active"}},
			{"id":2,"fields":{"System.Title":"Add export","System.WorkItemType":"User Story","System.State":"New"}}
		]}`))
	case r.URL.Path == "/graph/me/calendarView":
		_, _ = w.Write([]byte(`{"value":[{"id":"e1","subject":"Standup",
			"start":{"dateTime":"2025-03-10T09:30:00","timeZone":"UTC"},
			"end":{"dateTime":"2025-03-10T09:45:00","timeZone":"UTC"}}]}`))
	case r.URL.Path == "/graph/communications/getPresencesByUserId":
		_, _ = w.Write([]byte(`{"value":[{"id":"u1","availability":"Available","activity":"Available"}]}`))
	case r.URL.Path == "/news/everything":
		p.newsHits.Add(1)
		if p.newsDelay != nil {
			select {
			case <-p.newsDelay:
			case <-r.Context().Done():
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"articles": []map[string]any{{"source": map[string]string{"name": "Wire"}, "title": "Go wins", "url": "https://wire.example/go"}},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newDashboard(t *testing.T, cfg *config.Config, repo repository.Repository, client *http.Client) *Dashboard {
	d := New(cfg, repo, WithClock(func() time.Time { return t0 }), WithHTTPClient(client))
	require.NoError(t, d.Load(context.Background()))
	return d
}

func configureAll(t *testing.T, d *Dashboard, srv *httptest.Server) {
	ctx := context.Background()
	require.NoError(t, d.ConfigureDevOps(ctx, devops.Settings{
		Organization: "acme",
		Projects:     []devops.ProjectRef{{Name: "Alpha"}},
		PAT:          "pat",
		BaseURL:      srv.URL,
	}))
	require.NoError(t, d.ConfigureGraph(ctx, graph.Settings{AccessToken: "tok", BaseURL: srv.URL + "/graph"}))
	require.NoError(t, d.ConfigureNews(ctx, news.Settings{APIKey: "key", BaseURL: srv.URL + "/news"}))
	_, err := d.Coworkers.AddCoworker(ctx, store.CoworkerInput{Name: "Ana", Timezone: "UTC", GraphUserID: "u1"})
	require.NoError(t, err)
}

func TestDashboard_LoadUsesConfigDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.News.APIKey = "from-config"
	cfg.Chat.Token = "chat-token"

	d := newDashboard(t, cfg, memory.New(), nil)

	s, ok := d.News.Settings()
	require.True(t, ok)
	assert.Equal(t, "from-config", s.APIKey)

	_, ok = d.Chat.Settings()
	assert.True(t, ok)
	_, ok = d.DevOps.Settings()
	assert.False(t, ok, "no organization configured")
}

func TestDashboard_PersistedSettingsWin(t *testing.T) {
	cfg := testConfig()
	cfg.News.APIKey = "from-config"
	repo := memory.New()

	first := newDashboard(t, cfg, repo, nil)
	require.NoError(t, first.ConfigureNews(context.Background(), news.Settings{APIKey: "from-user", PageSize: 20}))
	require.NoError(t, first.ConfigureChat(context.Background(), chat.Settings{Token: "t", Model: "openai/gpt-4.1"}))

	second := newDashboard(t, cfg, repo, nil)
	s, ok := second.News.Settings()
	require.True(t, ok)
	assert.Equal(t, "from-user", s.APIKey)
	assert.Equal(t, 20, s.PageSize)

	cs, ok := second.Chat.Settings()
	require.True(t, ok)
	assert.Equal(t, "openai/gpt-4.1", cs.Model)
}

func TestDashboard_ConfigureRejectsBadSettings(t *testing.T) {
	repo := memory.New()
	d := newDashboard(t, testConfig(), repo, nil)

	err := d.ConfigureDevOps(context.Background(), devops.Settings{Organization: "acme"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))

	_, err = repo.Get(context.Background(), repository.KeyDevOpsSettings)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound), "rejected settings are not stored")
}

func TestDashboard_Preferences(t *testing.T) {
	cfg := testConfig()
	d := newDashboard(t, cfg, memory.New(), nil)
	ctx := context.Background()

	assert.Equal(t, cfg.News.Topic, d.NewsTopic(ctx))
	require.NoError(t, d.SavePreferences(ctx, Preferences{NewsTopic: "golang"}))
	assert.Equal(t, "golang", d.NewsTopic(ctx))
}

func TestOverview_SkipsUnconfiguredSources(t *testing.T) {
	d := newDashboard(t, testConfig(), memory.New(), nil)
	_, err := d.Tasks.AddTask(context.Background(), store.TaskInput{Title: "Write report"})
	require.NoError(t, err)

	snap := d.Overview(context.Background())
	assert.Equal(t, 1, snap.Tasks.Total)
	assert.ElementsMatch(t, []string{SourceWorkItems, SourceCalendar, SourcePresence, SourceNews}, snap.Skipped)
	assert.Empty(t, snap.Errors)
	assert.True(t, snap.Complete())
}

func TestOverview_GathersEverySource(t *testing.T) {
	p := &providers{devopsPAT: "pat"}
	srv := httptest.NewServer(p)
	defer srv.Close()

	d := newDashboard(t, testConfig(), memory.New(), srv.Client())
	configureAll(t, d, srv)
	task, err := d.Tasks.AddTask(context.Background(), store.TaskInput{Title: "Review PR"})
	require.NoError(t, err)
	_, err = d.Tasks.StartTimer(context.Background(), task.ID)
	require.NoError(t, err)

	snap := d.Overview(context.Background())
	d.Wait()

	assert.Empty(t, snap.Errors)
	assert.Empty(t, snap.Skipped)
	assert.True(t, snap.Complete())
	require.Len(t, snap.WorkItems, 2)
	assert.Equal(t, "Fix login", snap.WorkItems[0].Title)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "Standup", snap.Events[0].Subject)
	require.Len(t, snap.Presence, 1)
	assert.Equal(t, "Available", snap.Presence[0].Availability)
	require.Len(t, snap.Headlines, 1)
	require.NotNil(t, snap.Running)
	assert.Equal(t, task.ID, snap.Running.ID)
}

func TestOverview_SourceErrorsAreIsolated(t *testing.T) {
	p := &providers{devopsPAT: "other"}
	srv := httptest.NewServer(p)
	defer srv.Close()

	d := newDashboard(t, testConfig(), memory.New(), srv.Client())
	configureAll(t, d, srv)

	snap := d.Overview(context.Background())
	d.Wait()

	require.Contains(t, snap.Errors, SourceWorkItems)
	assert.True(t, errors.IsErrorType(snap.Errors[SourceWorkItems], errors.ErrorTypeAuth))
	assert.Empty(t, snap.WorkItems)
	assert.Len(t, snap.Events, 1, "other sources still arrive")
	assert.Len(t, snap.Headlines, 1)

	reported, ok := errors.AsAppError(snap.Errors[SourceWorkItems])
	require.True(t, ok)
	source, _ := reported.GetContext("source")
	assert.Equal(t, SourceWorkItems, source)

	_, cached := d.DevOps.Feed().Last()
	cachedErr, ok := errors.AsAppError(cached)
	require.True(t, ok)
	_, tagged := cachedErr.GetContext("source")
	assert.False(t, tagged, "feed error must not pick up overview context")
}

func TestOverview_SoftTimeout(t *testing.T) {
	release := make(chan struct{})
	p := &providers{devopsPAT: "pat", newsDelay: release}
	srv := httptest.NewServer(p)
	defer srv.Close()

	cfg := testConfig()
	cfg.Dashboard.SoftTimeout = 300 * time.Millisecond
	d := newDashboard(t, cfg, memory.New(), srv.Client())
	configureAll(t, d, srv)

	var late atomic.Int32
	unsub := d.News.Feed().Results(func(_ []domain.Article) { late.Add(1) })
	defer unsub()

	start := time.Now()
	snap := d.Overview(context.Background())
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, []string{SourceNews}, snap.TimedOut)
	assert.False(t, snap.Complete())
	assert.Empty(t, snap.Headlines)
	assert.Len(t, snap.WorkItems, 2)

	close(release)
	d.Wait()
	assert.Equal(t, int32(1), late.Load(), "the late fetch still completes and publishes")
	assert.Empty(t, snap.Headlines, "late results do not reach the returned snapshot")
}

func TestRefresh_TicksUntilCancelled(t *testing.T) {
	d := newDashboard(t, testConfig(), memory.New(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	d.Refresh(ctx, 5*time.Millisecond, func(Snapshot) {
		calls++
		if calls == 3 {
			cancel()
		}
	})
	assert.Equal(t, 3, calls)
}

func TestRefresh_RedrawsOnTaskChange(t *testing.T) {
	d := newDashboard(t, testConfig(), memory.New(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var active []int
	d.Refresh(ctx, time.Hour, func(snap Snapshot) {
		active = append(active, snap.Tasks.Active)
		if len(active) == 1 {
			_, err := d.Tasks.AddTask(ctx, store.TaskInput{Title: "Write report"})
			require.NoError(t, err)
			return
		}
		cancel()
	})
	assert.Equal(t, []int{0, 1}, active)
}
