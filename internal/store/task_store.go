package store

import (
	"context"
	"strings"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/repository"
	"dashboard/internal/validation"
)

// TaskInput holds the fields supplied when adding a task
type TaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	Category    string
	DueDate     *time.Time
}

// TaskPatch holds a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title        *string
	Description  *string
	Priority     *domain.Priority
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool
}

// TaskStore is the persisted task list with per-task timers. At most one
// task has a running timer at any time.
type TaskStore struct {
	*ListStore[domain.Task]
	validator *validation.TaskValidator
}

// NewTaskStore creates a task store over the tasks slot
func NewTaskStore(repo repository.Repository, validator *validation.TaskValidator, opts ...Option) *TaskStore {
	if validator == nil {
		validator = validation.NewTaskValidator()
	}
	return &TaskStore{
		ListStore: NewListStore[domain.Task](repo, repository.KeyTasks, "task list", opts...),
		validator: validator,
	}
}

// AddTask validates in and appends a new open task
func (s *TaskStore) AddTask(ctx context.Context, in TaskInput) (domain.Task, error) {
	if err := s.validator.ValidateTaskForCreation(in.Title, in.Priority); err != nil {
		return domain.Task{}, validation.ToAppError(err)
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	return s.Add(ctx, domain.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Category:    strings.TrimSpace(in.Category),
		DueDate:     in.DueDate,
	}), nil
}

// UpdateTask merges patch into the task with id
func (s *TaskStore) UpdateTask(ctx context.Context, id string, patch TaskPatch) (domain.Task, error) {
	if patch.Title != nil {
		if err := s.validator.ValidateTitle(*patch.Title); err != nil {
			return domain.Task{}, validation.ToAppError(err)
		}
	}
	if patch.Priority != nil {
		if *patch.Priority == "" {
			return domain.Task{}, errors.NewInvalidInputError("priority", "", "cannot be empty")
		}
		if err := s.validator.ValidatePriority(*patch.Priority); err != nil {
			return domain.Task{}, validation.ToAppError(err)
		}
	}

	return s.Update(ctx, id, func(t *domain.Task) {
		if patch.Title != nil {
			t.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			t.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.Category != nil {
			t.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.ClearDueDate {
			t.DueDate = nil
		} else if patch.DueDate != nil {
			due := *patch.DueDate
			t.DueDate = &due
		}
	})
}

// Toggle flips completion. Completing a task with a running timer stops the
// timer first.
func (s *TaskStore) Toggle(ctx context.Context, id string) (domain.Task, error) {
	var toggled domain.Task
	err := s.mutate(ctx, func(tasks []domain.Task) error {
		i := indexOf(tasks, id)
		if i < 0 {
			return errors.NewNotFoundError("task", id)
		}
		now := s.now()
		t := tasks[i]
		if t.Completed {
			t.Completed = false
			t.CompletedAt = nil
		} else {
			stopTimer(&t, now)
			t.Completed = true
			t.CompletedAt = &now
		}
		tasks[i] = t
		toggled = t
		return nil
	})
	return toggled, err
}

// ClearCompleted removes every completed task
func (s *TaskStore) ClearCompleted(ctx context.Context) int {
	return s.RemoveWhere(ctx, func(t domain.Task) bool { return t.Completed })
}

// StartTimer starts the timer on id after stopping any other running timer.
// Starting an already running timer is a no-op.
func (s *TaskStore) StartTimer(ctx context.Context, id string) (domain.Task, error) {
	var started domain.Task
	err := s.mutate(ctx, func(tasks []domain.Task) error {
		i := indexOf(tasks, id)
		if i < 0 {
			return errors.NewNotFoundError("task", id)
		}
		if tasks[i].IsRunning {
			started = tasks[i]
			return errUnchanged
		}
		now := s.now()
		for j := range tasks {
			if j != i && tasks[j].IsRunning {
				stopTimer(&tasks[j], now)
			}
		}
		tasks[i].IsRunning = true
		tasks[i].StartedAt = &now
		started = tasks[i]
		return nil
	})
	return started, err
}

// StopTimer adds the elapsed whole seconds to the task's total. Stopping a
// task that is not running is a no-op.
func (s *TaskStore) StopTimer(ctx context.Context, id string) (domain.Task, error) {
	var stopped domain.Task
	err := s.mutate(ctx, func(tasks []domain.Task) error {
		i := indexOf(tasks, id)
		if i < 0 {
			return errors.NewNotFoundError("task", id)
		}
		if !tasks[i].IsRunning {
			stopped = tasks[i]
			return errUnchanged
		}
		stopTimer(&tasks[i], s.now())
		stopped = tasks[i]
		return nil
	})
	return stopped, err
}

// Running returns the task whose timer is running
func (s *TaskStore) Running() (domain.Task, bool) {
	for _, t := range s.List() {
		if t.IsRunning {
			return t, true
		}
	}
	return domain.Task{}, false
}

// SessionSeconds is the running session length of id as of now, without
// touching stored state
func (s *TaskStore) SessionSeconds(id string, now time.Time) (int64, bool) {
	t, ok := s.Get(id)
	if !ok {
		return 0, false
	}
	return t.SessionSeconds(now), true
}

// TotalWithSession is the accumulated total of id plus its running session
func (s *TaskStore) TotalWithSession(id string, now time.Time) (int64, bool) {
	t, ok := s.Get(id)
	if !ok {
		return 0, false
	}
	return t.TrackedSeconds(now), true
}

// Import replaces the task list, rejecting snapshots with invalid tasks or
// more than one running timer
func (s *TaskStore) Import(ctx context.Context, blob []byte) error {
	return s.ImportChecked(ctx, blob, func(tasks []domain.Task) error {
		running := 0
		for _, t := range tasks {
			if err := s.validator.ValidateTask(t); err != nil {
				return err
			}
			if t.IsRunning {
				running++
			}
		}
		if running > 1 {
			return errors.NewInvalidInputError("isRunning", running, "at most one timer may run")
		}
		return nil
	})
}

func stopTimer(t *domain.Task, now time.Time) {
	if !t.IsRunning {
		return
	}
	t.TotalSeconds += t.SessionSeconds(now)
	t.IsRunning = false
	t.StartedAt = nil
}
