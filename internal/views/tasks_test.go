package views

import (
	"testing"
	"time"

	"dashboard/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestTaskStats(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	started := now.Add(-time.Hour)

	tasks := []domain.Task{
		{ID: "a", DueDate: ptr(now.Add(-time.Second))},                  // overdue, due today
		{ID: "b", DueDate: ptr(now.Add(-time.Second)), Completed: true}, // completed, due today, not overdue
		{ID: "c", DueDate: ptr(now.AddDate(0, 0, -2))},                  // overdue
		{ID: "d", DueDate: ptr(StartOfDay(now).AddDate(0, 0, 1))},       // tomorrow midnight: not today
		{ID: "e", IsRunning: true, StartedAt: &started},
	}

	got := TaskStats(tasks, now)
	want := TaskSummary{
		Total:             5,
		Active:            4,
		Completed:         1,
		Overdue:           2,
		DueToday:          2,
		Running:           1,
		CompletionPercent: 20,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TaskStats() mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskStats_Empty(t *testing.T) {
	assert.Equal(t, TaskSummary{}, TaskStats(nil, time.Now()))
}

func TestIsDueToday_Boundaries(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	midnight := StartOfDay(now)

	tests := []struct {
		name     string
		due      time.Time
		expected bool
	}{
		{"midnight today", midnight, true},
		{"last instant today", midnight.Add(24*time.Hour - time.Nanosecond), true},
		{"midnight tomorrow", midnight.Add(24 * time.Hour), false},
		{"yesterday", midnight.Add(-time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDueToday(domain.Task{DueDate: &tt.due}, now))
		})
	}
}

func TestFilterTasks(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "1", Title: "Write report", Category: "Work", Priority: domain.PriorityHigh},
		{ID: "2", Title: "Buy milk", Category: "shopping", Completed: true, Priority: domain.PriorityLow},
		{ID: "3", Title: "Review budget", Description: "quarterly report", Category: "work", DueDate: ptr(now.Add(-time.Hour))},
	}

	ids := func(ts []domain.Task) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		filter   TaskFilter
		expected []string
	}{
		{"zero filter", TaskFilter{}, []string{"1", "2", "3"}},
		{"active", TaskFilter{Status: StatusActive}, []string{"1", "3"}},
		{"completed", TaskFilter{Status: StatusCompleted}, []string{"2"}},
		{"overdue", TaskFilter{Status: StatusOverdue}, []string{"3"}},
		{"category ignores case", TaskFilter{Category: "WORK"}, []string{"1", "3"}},
		{"priority", TaskFilter{Priority: domain.PriorityLow}, []string{"2"}},
		{"query matches description", TaskFilter{Query: "Report"}, []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(FilterTasks(tasks, tt.filter, now)))
		})
	}
}
