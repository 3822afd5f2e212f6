package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/remote/devops"
	"dashboard/internal/remote/graph"
	"dashboard/internal/views"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Overview sources
const (
	SourceWorkItems = "workitems"
	SourceCalendar  = "calendar"
	SourcePresence  = "presence"
	SourceNews      = "news"
)

// Snapshot is one gathered overview. Sources that were not configured are
// listed in Skipped; sources that missed the soft timeout in TimedOut.
type Snapshot struct {
	GeneratedAt time.Time
	Tasks       views.TaskSummary
	Running     *domain.Task

	WorkItems []domain.WorkItem
	Warnings  []devops.SourceWarning
	Events    []domain.CalendarEvent
	Presence  []domain.Presence
	Headlines []domain.Article

	Errors   map[string]error
	Skipped  []string
	TimedOut []string
}

// Complete reports whether every configured source answered in time
func (s Snapshot) Complete() bool {
	return len(s.TimedOut) == 0
}

type collector struct {
	mu     sync.Mutex
	snap   Snapshot
	done   map[string]bool
	sealed bool
}

// record stores one source's outcome unless the snapshot was already sealed
func (c *collector) record(source string, apply func(*Snapshot), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		return
	}
	c.done[source] = true
	if err != nil {
		c.snap.Errors[source] = err
		return
	}
	apply(&c.snap)
}

func (c *collector) seal(started []string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
	for _, s := range started {
		if !c.done[s] {
			c.snap.TimedOut = append(c.snap.TimedOut, s)
		}
	}
	sort.Strings(c.snap.TimedOut)
	return c.snap
}

// Overview gathers task stats and every configured remote source in
// parallel. It waits at most the configured soft timeout; sources still in
// flight are left to finish in the background and their results dropped.
func (d *Dashboard) Overview(ctx context.Context) Snapshot {
	now := d.now()
	c := &collector{
		snap: Snapshot{
			GeneratedAt: now,
			Tasks:       views.TaskStats(d.Tasks.List(), now),
			Errors:      map[string]error{},
		},
		done: map[string]bool{},
	}
	if running, ok := d.Tasks.Running(); ok {
		c.snap.Running = &running
	}

	var g errgroup.Group
	var started []string
	launch := func(source string, configured bool, fetch func() (func(*Snapshot), error)) {
		if !configured {
			c.snap.Skipped = append(c.snap.Skipped, source)
			return
		}
		started = append(started, source)
		g.Go(func() error {
			apply, err := fetch()
			c.record(source, apply, sourceError(source, err))
			return nil
		})
	}

	_, devopsReady := d.DevOps.Settings()
	launch(SourceWorkItems, devopsReady, func() (func(*Snapshot), error) {
		report := d.DevOps.Fetch(ctx, devops.DefaultQuery())
		return func(s *Snapshot) {
			s.WorkItems = report.Items
			s.Warnings = report.Warnings
		}, report.Err
	})

	_, graphReady := d.Graph.Settings()
	launch(SourceCalendar, graphReady, func() (func(*Snapshot), error) {
		events, err := d.Graph.Fetch(ctx, graph.TodayRange(now))
		return func(s *Snapshot) { s.Events = events }, err
	})

	userIDs := d.Coworkers.GraphUserIDs()
	launch(SourcePresence, graphReady && len(userIDs) > 0, func() (func(*Snapshot), error) {
		presence, err := d.Graph.FetchPresence(ctx, userIDs)
		return func(s *Snapshot) { s.Presence = presence }, err
	})

	_, newsReady := d.News.Settings()
	topic := d.NewsTopic(ctx)
	launch(SourceNews, newsReady && topic != "", func() (func(*Snapshot), error) {
		articles, err := d.News.Fetch(ctx, topic)
		return func(s *Snapshot) { s.Headlines = articles }, err
	})

	finished := make(chan struct{})
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		_ = g.Wait()
		close(finished)
	}()

	timer := time.NewTimer(d.cfg.Dashboard.SoftTimeout)
	defer timer.Stop()

	select {
	case <-finished:
	case <-timer.C:
		d.logger.Warn("overview soft timeout reached, continuing with partial data",
			zap.Duration("timeout", d.cfg.Dashboard.SoftTimeout))
	case <-ctx.Done():
	}

	snap := c.seal(started)
	for source, err := range snap.Errors {
		d.logger.Debug("overview source failed", zap.String("source", source), zap.Error(err))
	}
	return snap
}

// Refresh calls fn with a fresh overview immediately, then every interval
// and whenever the task list changes, until ctx is done. A non-positive
// interval uses the configured one.
func (d *Dashboard) Refresh(ctx context.Context, interval time.Duration, fn func(Snapshot)) {
	if interval <= 0 {
		interval = d.cfg.Dashboard.RefreshInterval
	}
	changes, unsubscribe := d.Tasks.SubscribeChan(1)
	defer unsubscribe()

	fn(d.Overview(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-changes:
		}
		if ctx.Err() != nil {
			return
		}
		fn(d.Overview(ctx))
	}
}
