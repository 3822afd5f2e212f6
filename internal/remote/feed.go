package remote

import (
	"sync"

	"dashboard/internal/pubsub"
)

// Feed is the fetch boundary of one remote collection. Every fetch resolves
// exactly once, either to items on Results or to an error on Errors; a
// failed fetch never surfaces as an empty result.
type Feed[T any] struct {
	results pubsub.Broker[[]T]
	errs    pubsub.Broker[error]

	mu      sync.RWMutex
	last    []T
	lastErr error
}

// NewFeed returns an empty feed
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{}
}

// Resolve publishes the outcome of a fetch. A non-nil err wins over items.
func (f *Feed[T]) Resolve(items []T, err error) {
	f.mu.Lock()
	if err != nil {
		f.lastErr = err
	} else {
		if items == nil {
			items = []T{}
		}
		f.last = items
		f.lastErr = nil
	}
	f.mu.Unlock()

	if err != nil {
		f.errs.Publish(err)
		return
	}
	f.results.Publish(items)
}

// Results subscribes to successful fetches
func (f *Feed[T]) Results(fn func([]T)) (unsubscribe func()) {
	return f.results.Subscribe(fn)
}

// Errors subscribes to failed fetches
func (f *Feed[T]) Errors(fn func(error)) (unsubscribe func()) {
	return f.errs.Subscribe(fn)
}

// Last returns the most recent successful result, and the error of the most
// recent fetch if it failed.
func (f *Feed[T]) Last() ([]T, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last, f.lastErr
}
