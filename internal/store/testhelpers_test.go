package store

import (
	"sync"
	"testing"
	"time"

	"dashboard/internal/repository/memory"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeClock is a settable clock for timer tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	repo  *memory.Repository
	clock *fakeClock
	logs  *observer.ObservedLogs
	opts  []Option
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	clock := newFakeClock()
	return &testEnv{
		repo:  memory.New(),
		clock: clock,
		logs:  logs,
		opts:  []Option{WithClock(clock.Now), WithLogger(zap.New(core))},
	}
}
