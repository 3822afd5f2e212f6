// Package views holds pure helpers that derive display data from store
// snapshots and remote records. Nothing here mutates its input.
package views

import (
	"strings"
	"time"

	"dashboard/internal/domain"
)

// TaskSummary counts a task snapshot by status
type TaskSummary struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	Completed         int `json:"completed"`
	Overdue           int `json:"overdue"`
	DueToday          int `json:"dueToday"`
	Running           int `json:"running"`
	CompletionPercent int `json:"completionPercent"`
}

// StartOfDay returns local midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDueToday reports whether the due date falls in [midnight today, midnight tomorrow)
func IsDueToday(task domain.Task, now time.Time) bool {
	if task.DueDate == nil {
		return false
	}
	start := StartOfDay(now)
	end := start.AddDate(0, 0, 1)
	due := task.DueDate.In(now.Location())
	return !due.Before(start) && due.Before(end)
}

// TaskStats summarizes tasks as of now
func TaskStats(tasks []domain.Task, now time.Time) TaskSummary {
	var s TaskSummary
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
		if IsDueToday(t, now) {
			s.DueToday++
		}
		if t.IsRunning {
			s.Running++
		}
	}
	if s.Total > 0 {
		s.CompletionPercent = s.Completed * 100 / s.Total
	}
	return s
}

// TaskStatus selects tasks by state
type TaskStatus string

const (
	StatusAll       TaskStatus = "all"
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
	StatusOverdue   TaskStatus = "overdue"
	StatusToday     TaskStatus = "today"
	StatusRunning   TaskStatus = "running"
)

// TaskFilter narrows a task list. Zero fields match everything.
type TaskFilter struct {
	Status   TaskStatus
	Category string
	Priority domain.Priority
	Query    string
}

// FilterTasks returns the tasks matching f, preserving order
func FilterTasks(tasks []domain.Task, f TaskFilter, now time.Time) []domain.Task {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesStatus(t, f.Status, now) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesStatus(t domain.Task, status TaskStatus, now time.Time) bool {
	switch status {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusOverdue:
		return t.IsOverdue(now)
	case StatusToday:
		return IsDueToday(t, now)
	case StatusRunning:
		return t.IsRunning
	default:
		return true
	}
}
