// Package pubsub fans snapshots out to in-process listeners.
package pubsub

import "sync"

// Broker delivers published values to every current subscriber, synchronously
// and in registration order. The zero value is ready to use.
type Broker[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. The
// returned function may be called any number of times.
func (b *Broker[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broker[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every subscriber with v. Subscribers registered or removed
// during delivery take effect from the next Publish.
func (b *Broker[T]) Publish(v T) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of current subscribers
func (b *Broker[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// SubscribeChan adapts the broker to a channel with the given buffer.
// Values are dropped while the buffer is full. The channel is closed by
// the returned unsubscribe function.
func (b *Broker[T]) SubscribeChan(buffer int) (<-chan T, func()) {
	ch := make(chan T, buffer)
	var (
		mu     sync.Mutex
		closed bool
	)
	unsub := b.Subscribe(func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- v:
		default:
		}
	})

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsub()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
}
