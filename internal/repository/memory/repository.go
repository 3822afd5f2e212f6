// Package memory provides a map-backed slot repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"dashboard/internal/errors"
	"dashboard/internal/repository"
)

var _ repository.Repository = (*Repository)(nil)

// Repository keeps slots in process memory. It is safe for concurrent use.
type Repository struct {
	mu       sync.RWMutex
	slots    map[string][]byte
	failPuts error
}

// New creates an empty in-memory repository
func New() *Repository {
	return &Repository{slots: make(map[string][]byte)}
}

// FailWrites makes every following Put fail with err, simulating an
// exhausted storage quota. Passing nil restores normal writes.
func (r *Repository) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failPuts = err
}

// Get returns a copy of the blob stored under key
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.slots[key]
	if !ok {
		return nil, errors.NewNotFoundError("slot", key)
	}
	return append([]byte(nil), value...), nil
}

// Put stores a copy of value under key
func (r *Repository) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failPuts != nil {
		return errors.NewStorageError("put "+key, r.failPuts)
	}
	r.slots[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key
func (r *Repository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, key)
	return nil
}

// Keys lists stored keys in ascending order
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.slots))
	for k := range r.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op
func (r *Repository) Close() error {
	return nil
}
