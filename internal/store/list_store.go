// Package store keeps ordered record collections in memory and mirrors each
// one to a single repository slot after every mutation.
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"dashboard/internal/domain"
	"dashboard/internal/errors"
	"dashboard/internal/pubsub"
	"dashboard/internal/repository"
	"dashboard/internal/validation"

	"go.uber.org/zap"
)

// errUnchanged aborts a mutation without persisting or publishing
var errUnchanged = stderrors.New("unchanged")

// ListStore owns an ordered collection of records persisted under one key.
// Mutation, persistence and publication happen under one lock, so
// subscribers observe snapshots in mutation order. Subscribers must not call
// back into the same store synchronously.
type ListStore[T domain.Record[T]] struct {
	mu    sync.Mutex
	items []T

	repo   repository.Repository
	key    string
	what   string
	now    func() time.Time
	ids    *IDGenerator
	logger *zap.Logger

	persistErr error
	broker     pubsub.Broker[[]T]
}

// NewListStore creates an empty store over repo's key slot. what names the
// collection in errors and logs, e.g. "task list".
func NewListStore[T domain.Record[T]](repo repository.Repository, key, what string, opts ...Option) *ListStore[T] {
	s := newSettings(opts)
	return &ListStore[T]{
		repo:   repo,
		key:    key,
		what:   what,
		now:    s.now,
		ids:    s.ids,
		logger: s.logger.With(zap.String("store", key)),
	}
}

// Load hydrates the collection from storage. A missing slot is an empty
// collection; a malformed one is logged and replaced by an empty collection.
func (s *ListStore[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			s.items = nil
			s.publishLocked()
			return nil
		}
		s.logger.Warn("load failed", zap.Error(err))
		return err
	}

	items, err := s.decode(blob)
	if err != nil {
		s.logger.Warn("discarding malformed stored collection", zap.Error(err))
		items = nil
	}
	s.items = items
	s.reserveLocked()
	s.publishLocked()
	return nil
}

// List returns a copy of the collection in display order
func (s *ListStore[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of records
func (s *ListStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the record with id
func (s *ListStore[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Add assigns item a fresh id and the current instant as its creation time,
// appends it and returns the stored record.
func (s *ListStore[T]) Add(ctx context.Context, item T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	item = item.WithIdentity(s.ids.Next(), s.now())
	s.items = append(s.snapshotLocked(), item)
	s.commitLocked(ctx)
	return item
}

// Update applies mutate to a copy of the record with id. The id and creation
// time are restored afterwards, so a partial update never changes them.
func (s *ListStore[T]) Update(ctx context.Context, id string, mutate func(*T)) (T, error) {
	var updated T
	err := s.mutate(ctx, func(items []T) error {
		i := indexOf(items, id)
		if i < 0 {
			return errors.NewNotFoundError(s.what+" item", id)
		}
		orig := items[i]
		next := orig
		mutate(&next)
		items[i] = next.WithIdentity(orig.RecordID(), orig.Created())
		updated = items[i]
		return nil
	})
	return updated, err
}

// Remove deletes the record with id. Removing a missing id is a no-op and
// reports false.
func (s *ListStore[T]) Remove(ctx context.Context, id string) bool {
	return s.RemoveWhere(ctx, func(item T) bool { return item.RecordID() == id }) > 0
}

// RemoveWhere deletes every record matching pred and returns how many went
func (s *ListStore[T]) RemoveWhere(ctx context.Context, pred func(T) bool) int {
	removed := 0
	_ = s.replace(ctx, func(items []T) ([]T, error) {
		kept := items[:0]
		for _, item := range items {
			if pred(item) {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		if removed == 0 {
			return nil, errUnchanged
		}
		return kept, nil
	})
	return removed
}

// Clear empties the collection
func (s *ListStore[T]) Clear(ctx context.Context) {
	_ = s.replace(ctx, func([]T) ([]T, error) { return nil, nil })
}

// Reorder rearranges the collection into the order of ids, which must be a
// permutation of the current ids.
func (s *ListStore[T]) Reorder(ctx context.Context, ids []string) error {
	return s.replace(ctx, func(items []T) ([]T, error) {
		if len(ids) != len(items) {
			return nil, errors.NewInvalidInputError("order", len(ids), "must list every item exactly once")
		}
		byID := make(map[string]T, len(items))
		for _, item := range items {
			byID[item.RecordID()] = item
		}
		out := make([]T, 0, len(items))
		for _, id := range ids {
			item, ok := byID[id]
			if !ok {
				return nil, errors.NewInvalidInputError("order", id, "unknown or repeated id")
			}
			delete(byID, id)
			out = append(out, item)
		}
		return out, nil
	})
}

// Export serializes the collection as a JSON array
func (s *ListStore[T]) Export() ([]byte, error) {
	s.mu.Lock()
	items := s.snapshotLocked()
	s.mu.Unlock()

	if items == nil {
		items = []T{}
	}
	return json.MarshalIndent(items, "", "  ")
}

// Import replaces the collection with a JSON array produced by Export. On
// any parse or identity failure a Format error is returned and the current
// collection is kept.
func (s *ListStore[T]) Import(ctx context.Context, blob []byte) error {
	return s.ImportChecked(ctx, blob, nil)
}

// ImportChecked is Import with an additional check over the parsed records
func (s *ListStore[T]) ImportChecked(ctx context.Context, blob []byte, check func([]T) error) error {
	items, err := s.decode(blob)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(items); err != nil {
			return errors.NewFormatError(s.what, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.reserveLocked()
	s.commitLocked(ctx)
	return nil
}

// Subscribe registers fn for every published snapshot
func (s *ListStore[T]) Subscribe(fn func([]T)) (unsubscribe func()) {
	return s.broker.Subscribe(fn)
}

// SubscribeChan delivers snapshots on a buffered channel; see
// pubsub.Broker.SubscribeChan for the drop and close rules
func (s *ListStore[T]) SubscribeChan(buffer int) (<-chan []T, func()) {
	return s.broker.SubscribeChan(buffer)
}

// LastPersistError returns the error of the latest failed write, or nil once
// a write succeeds again
func (s *ListStore[T]) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// mutate runs fn over a working copy of the collection. A nil return
// commits the copy; errUnchanged discards it silently.
func (s *ListStore[T]) mutate(ctx context.Context, fn func(items []T) error) error {
	return s.replace(ctx, func(items []T) ([]T, error) {
		if err := fn(items); err != nil {
			return nil, err
		}
		return items, nil
	})
}

func (s *ListStore[T]) replace(ctx context.Context, fn func(items []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.snapshotLocked())
	if err != nil {
		if err == errUnchanged {
			return nil
		}
		return err
	}
	s.items = next
	s.commitLocked(ctx)
	return nil
}

func (s *ListStore[T]) commitLocked(ctx context.Context) {
	s.persistLocked(ctx)
	s.publishLocked()
}

// persistLocked writes the collection through to storage. Failures are
// logged and swallowed; memory stays authoritative for the session.
func (s *ListStore[T]) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err == nil {
		err = s.repo.Put(ctx, s.key, blob)
	}
	if err != nil {
		s.persistErr = err
		s.logger.Warn("persist failed, keeping in-memory state",
			zap.Int("items", len(items)),
			zap.Error(err))
		return
	}
	s.persistErr = nil
}

func (s *ListStore[T]) publishLocked() {
	s.broker.Publish(s.snapshotLocked())
}

func (s *ListStore[T]) reserveLocked() {
	for _, item := range s.items {
		s.ids.Reserve(item.RecordID())
	}
}

func (s *ListStore[T]) snapshotLocked() []T {
	if s.items == nil {
		return nil
	}
	return append([]T(nil), s.items...)
}

func (s *ListStore[T]) indexLocked(id string) int {
	return indexOf(s.items, id)
}

func (s *ListStore[T]) decode(blob []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, errors.NewFormatError(s.what, err)
	}
	if err := validation.ValidateSnapshot(items); err != nil {
		return nil, errors.NewFormatError(s.what, err)
	}
	return items, nil
}

func indexOf[T domain.Record[T]](items []T, id string) int {
	for i, item := range items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}
