package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriority_Valid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Priority("").Valid())
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name     string
		task     Task
		expected bool
	}{
		{name: "past due and open", task: Task{DueDate: &past}, expected: true},
		{name: "past due but completed", task: Task{DueDate: &past, Completed: true}, expected: false},
		{name: "due in future", task: Task{DueDate: &future}, expected: false},
		{name: "due exactly now", task: Task{DueDate: &now}, expected: false},
		{name: "no due date", task: Task{}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.IsOverdue(now))
		})
	}
}

func TestTask_SessionSeconds(t *testing.T) {
	start := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     Task
		now      time.Time
		expected int64
	}{
		{name: "not running", task: Task{TotalSeconds: 40}, now: start.Add(time.Hour), expected: 0},
		{name: "running", task: Task{IsRunning: true, StartedAt: &start}, now: start.Add(90*time.Second + 700*time.Millisecond), expected: 90},
		{name: "clock went backwards", task: Task{IsRunning: true, StartedAt: &start}, now: start.Add(-time.Second), expected: 0},
		{name: "running flag without start", task: Task{IsRunning: true}, now: start, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.SessionSeconds(tt.now))
		})
	}
}

func TestTask_TrackedSeconds(t *testing.T) {
	start := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	task := Task{IsRunning: true, StartedAt: &start, TotalSeconds: 100}

	assert.Equal(t, int64(160), task.TrackedSeconds(start.Add(time.Minute)))
	// pure read
	assert.Equal(t, int64(100), task.TotalSeconds)
}

func TestTask_WithIdentity(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task := Task{ID: "old", Title: "write report"}.WithIdentity("new", created)

	assert.Equal(t, "new", task.RecordID())
	assert.Equal(t, created, task.Created())
	assert.Equal(t, "write report", task.String())
}
