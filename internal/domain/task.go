package domain

import "time"

// Priority ranks a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a to-do item with an optional running timer.
// TotalSeconds accumulates finished timer sessions; the session in progress
// is derived from StartedAt.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Completed    bool       `json:"completed"`
	Priority     Priority   `json:"priority"`
	Category     string     `json:"category,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	IsRunning    bool       `json:"isRunning"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	TotalSeconds int64      `json:"totalSeconds"`
}

// RecordID implements Record
func (t Task) RecordID() string { return t.ID }

// Created implements Record
func (t Task) Created() time.Time { return t.CreatedAt }

// WithIdentity implements Record
func (t Task) WithIdentity(id string, createdAt time.Time) Task {
	t.ID = id
	t.CreatedAt = createdAt
	return t
}

// IsOverdue reports whether the task is past due and still open
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// SessionSeconds returns whole seconds elapsed in the running session, or 0
func (t Task) SessionSeconds(now time.Time) int64 {
	if !t.IsRunning || t.StartedAt == nil {
		return 0
	}
	elapsed := int64(now.Sub(*t.StartedAt) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// TrackedSeconds is the accumulated total plus the running session
func (t Task) TrackedSeconds(now time.Time) int64 {
	return t.TotalSeconds + t.SessionSeconds(now)
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}
