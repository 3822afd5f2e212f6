package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNewsServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "news-key", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":2,"articles":[
			{"source":{"name":"Wire"},"title":"Compilers get faster","url":"https://example.com/a","publishedAt":"2026-03-10T08:00:00Z"},
			{"source":{"name":"Wire"},"title":"[Removed]","url":"https://removed.com","publishedAt":"2026-03-10T07:00:00Z"}
		]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsCommands(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	t.Run("show before configure", func(t *testing.T) {
		err := NewNewsShowCommand(env.app).Execute(ctx, []string{"go"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run 'dash news configure'")
	})

	srv := newNewsServer(t)

	t.Run("configure saves the topic preference", func(t *testing.T) {
		opts := newsOptions{apiKey: "news-key", baseURL: srv.URL, topic: " golang "}
		changed := map[string]bool{"api-key": true, "base-url": true, "topic": true}
		require.NoError(t, NewNewsConfigureCommand(env.app, opts, changed).Execute(ctx, nil))
		assert.Equal(t, "News configured (topic: golang)\n", env.out.String())
		assert.Equal(t, "golang", env.app.dash.NewsTopic(ctx))
	})

	t.Run("show uses the preferred topic", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, NewNewsShowCommand(env.app).Execute(ctx, nil))
		output := env.out.String()
		assert.Contains(t, output, "1. Compilers get faster")
		assert.Contains(t, output, "https://example.com/a")
		assert.NotContains(t, output, "[Removed]")
	})
}

func TestChatCommands(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	t.Run("ask before configure", func(t *testing.T) {
		err := NewChatAskCommand(env.app, askOptions{}).Execute(ctx, []string{"hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run 'dash chat configure'")
	})

	t.Run("usage before the first reply", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, NewChatUsageCommand(env.app).Execute(ctx, nil))
		assert.Contains(t, env.out.String(), "unknown until the first reply")
	})

	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer chat-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("x-ratelimit-remaining-requests", "149")
		w.Header().Set("x-ratelimit-limit-requests", "150")
		w.Header().Set("x-ratelimit-reset-requests", "3600")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"}}]}`))
	}))
	t.Cleanup(srv.Close)

	t.Run("configure keeps unset fields", func(t *testing.T) {
		env.out.Reset()
		opts := chatOptions{token: "chat-token", baseURL: srv.URL, model: "ignored"}
		changed := map[string]bool{"token": true, "base-url": true}
		require.NoError(t, NewChatConfigureCommand(env.app, opts, changed).Execute(ctx, nil))
		assert.Equal(t, "Chat configured (model: "+env.cfg.Chat.Model+")\n", env.out.String())
	})

	t.Run("ask prints the reply and usage", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, NewChatAskCommand(env.app, askOptions{}).Execute(ctx, []string{"say", "hi"}))
		output := env.out.String()
		assert.True(t, strings.HasPrefix(output, "Hi there\n"), output)
		assert.Contains(t, output, "[149/150 calls left, resets in 1h 00m]")

		require.NotEmpty(t, received.Messages)
		last := received.Messages[len(received.Messages)-1]
		assert.Equal(t, "user", last.Role)
		assert.Equal(t, "say hi", last.Content)
	})

	t.Run("ask with the typewriter prints the same reply", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, NewChatAskCommand(env.app, askOptions{typewriter: time.Microsecond}).Execute(ctx, []string{"again"}))
		assert.True(t, strings.HasPrefix(env.out.String(), "Hi there\n"), env.out.String())
		assert.Contains(t, env.out.String(), "[149/150 calls left")
	})

	t.Run("history", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, NewChatHistoryCommand(env.app).Execute(ctx, nil))
		assert.Equal(t, "user: say hi\nassistant: Hi there\nuser: again\nassistant: Hi there\n", env.out.String())
	})

	t.Run("usage", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, NewChatUsageCommand(env.app).Execute(ctx, nil))
		output := env.out.String()
		assert.Contains(t, output, "Used:        2")
		assert.Contains(t, output, "Remaining:   149 of 150")
	})

	t.Run("clear", func(t *testing.T) {
		env.out.Reset()
		require.NoError(t, NewChatClearCommand(env.app, true).Execute(ctx, nil))
		assert.Equal(t, "Conversation cleared.\nUsage counter reset.\n", env.out.String())
		assert.Empty(t, env.app.dash.Conversation.History())
		assert.Equal(t, 0, env.app.dash.Chat.Usage().CallsUsed)
	})
}

func TestDevOpsCommands_NotConfigured(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	err := NewDevOpsItemsCommand(env.app, itemsOptions{}).Execute(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, "failed to fetch work items: Azure DevOps is not configured (run 'dash devops configure')", err.Error())

	err = NewDevOpsSprintsCommand(env.app, sprintsOptions{}).Execute(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'dash devops configure'")
}

func TestDevOpsConfigureCommand_MergesFlags(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	opts := devopsOptions{organization: "acme", projects: []string{"web:web-team:Website", "api"}, pat: "secret"}
	changed := map[string]bool{"org": true, "project": true, "pat": true}
	require.NoError(t, NewDevOpsConfigureCommand(env.app, opts, changed).Execute(ctx, nil))
	assert.Equal(t, "Azure DevOps configured for acme (2 project(s))\n", env.out.String())

	s, ok := env.app.dash.DevOps.Settings()
	require.True(t, ok)
	require.Len(t, s.Projects, 2)
	assert.Equal(t, "web-team", s.Projects[0].Team)
	assert.Equal(t, "Website", s.Projects[0].DisplayName)

	// Only the token changes; the organization and projects are kept.
	env.out.Reset()
	require.NoError(t, NewDevOpsConfigureCommand(env.app, devopsOptions{pat: "rotated"}, map[string]bool{"pat": true}).Execute(ctx, nil))
	s, _ = env.app.dash.DevOps.Settings()
	assert.Equal(t, "acme", s.Organization)
	assert.Equal(t, "rotated", s.PAT)
	assert.Len(t, s.Projects, 2)

	t.Run("missing fields are rejected", func(t *testing.T) {
		fresh := setupTestApp(t)
		err := NewDevOpsConfigureCommand(fresh.app, devopsOptions{organization: "acme"}, map[string]bool{"org": true}).Execute(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to configure Azure DevOps")
	})
}

func TestDescribeSprint(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	it := domain.Iteration{Name: "Sprint 12", StartDate: &start, FinishDate: &end}

	assert.Equal(t, "Sprint 12 (Mar 3 - Mar 14, 2 day(s) left) [critical]", describeSprint(it, now, false))
	assert.Equal(t, "Sprint 12 (Mar 3 - Mar 14, 2 day(s) left) \x1b[38;2;234;88;12m[critical]\x1b[0m", describeSprint(it, now, true))
	assert.Equal(t, "Backlog (no dates)", describeSprint(domain.Iteration{Name: "Backlog"}, now, true))
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "\x1b[38;2;255;0;16mx\x1b[0m", paint("#ff0010", "x"))
	assert.Equal(t, "x", paint("red", "x"))
	assert.Equal(t, "x", paint("#zzzzzz", "x"))
}

func TestCalendarShowCommand_NotConfigured(t *testing.T) {
	env := setupTestApp(t)

	err := NewCalendarShowCommand(env.app, false).Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'dash calendar configure'")
}

func TestOverviewCommand_OnlyLocalSources(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	env.addTasks(t, "Write report", "Plan sprint")
	_, err := env.app.dash.Tasks.StartTimer(ctx, env.app.dash.Tasks.List()[0].ID)
	require.NoError(t, err)

	require.NoError(t, NewOverviewCommand(env.app, overviewOptions{}).Execute(ctx, nil))
	env.app.dash.Wait()

	output := env.out.String()
	assert.Contains(t, output, "Tasks: 2 active, 0 completed (0%), 0 overdue, 0 due today")
	assert.Contains(t, output, "Timer: Write report")
	assert.Contains(t, output, "Not configured: workitems, calendar, presence, news")
	assert.NotContains(t, output, "Still loading")
	assert.NotContains(t, output, "Headlines")
}

func TestOverviewCommand_WithNews(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	srv := newNewsServer(t)

	opts := newsOptions{apiKey: "news-key", baseURL: srv.URL}
	require.NoError(t, NewNewsConfigureCommand(env.app, opts, map[string]bool{"api-key": true, "base-url": true}).Execute(ctx, nil))
	env.out.Reset()

	require.NoError(t, NewOverviewCommand(env.app, overviewOptions{}).Execute(ctx, nil))
	env.app.dash.Wait()

	output := env.out.String()
	assert.Contains(t, output, "Headlines")
	assert.Contains(t, output, "- Compilers get faster (Wire)")
	assert.Contains(t, output, "Not configured: workitems, calendar, presence")
}

func TestPrefsCommand_Execute(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	opts := prefsOptions{taskFilter: "active", showSeconds: true}
	require.NoError(t, NewPrefsCommand(env.app, opts, map[string]bool{"task-filter": true, "show-seconds": true}).Execute(ctx, nil))

	prefs := env.app.dash.Preferences(ctx)
	assert.Equal(t, "active", prefs.TaskFilter)
	assert.True(t, prefs.ShowSeconds)
	assert.Contains(t, env.out.String(), "active")

	err := NewPrefsCommand(env.app, prefsOptions{taskFilter: "whenever"}, map[string]bool{"task-filter": true}).Execute(ctx, nil)
	assert.Error(t, err)
}
