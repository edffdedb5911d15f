package connector

import (
	"sort"
	"sync"
)

// Feed is a subscriber registry for one state stream. It remembers the last
// published value and replays it to new subscribers. It is safe for
// concurrent use; callbacks run on the publishing goroutine, outside the
// registry lock.
//
// Deliveries are serialized per feed, so every subscriber sees values in
// the order they were stored and the last value a subscriber receives is
// Current(). Callbacks must not publish to or subscribe on the same feed.
type Feed[T any] struct {
	deliver sync.Mutex

	mu      sync.RWMutex
	nextID  uint64
	subs    map[uint64]func(T)
	current T
	has     bool
}

// NewFeed returns an empty feed with no current value.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[uint64]func(T))}
}

// Subscribe registers fn and, if the feed already holds a value, delivers it
// immediately. The returned Unsubscribe is idempotent.
func (f *Feed[T]) Subscribe(fn func(T)) Unsubscribe {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	current, has := f.current, f.has
	f.mu.Unlock()

	if has {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Publish stores v as the current value and delivers it to every subscriber
// in registration order.
func (f *Feed[T]) Publish(v T) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	f.current = v
	f.has = true
	fns := f.snapshotLocked()
	f.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Current returns the last published value and whether there is one.
func (f *Feed[T]) Current() (T, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current, f.has
}

// Len returns the number of live subscriptions.
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// snapshotLocked copies the subscriber list sorted by registration id.
// Caller must hold f.mu.
func (f *Feed[T]) snapshotLocked() []func(T) {
	ids := make([]uint64, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fns := make([]func(T), len(ids))
	for i, id := range ids {
		fns[i] = f.subs[id]
	}
	return fns
}
