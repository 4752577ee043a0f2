package props

import "sync"

// Change describes a single mutation within a notification batch.
// Deleted indicates the key was removed; Value is the zero value in that case.
type Change[V any] struct {
	Key     string
	Value   V
	Deleted bool
}

// Item is a key/value pair returned by snapshot iteration.
type Item[V any] struct {
	Key   string
	Value V
}

// Layer is an ordered, watchable mapping from string keys to values.
//
// Keys iterate in insertion order. Every effective mutation is delivered to
// watchers as a batch of Changes on the mutating goroutine, after the layer's
// contents have been updated and its state lock released, so a watcher may
// read the layer (Get, Len, Items) and always observes the post-mutation
// state. A watcher must not mutate the layer that is notifying it; mutating
// other layers is the normal pattern.
type Layer[V any] struct {
	// mu guards the contents and the watcher tables. It is never held
	// while watchers run.
	mu          sync.Mutex
	order       []string
	values      map[string]V
	watchers    map[int]func([]Change[V])
	keyWatchers map[string]map[int]func(V)
	nextID      int

	// notifyMu serializes delivery so concurrent batches reach watchers
	// in commit order. Acquired before mu is released, never the reverse.
	notifyMu sync.Mutex
}

// NewLayer creates an empty layer.
func NewLayer[V any]() *Layer[V] {
	return &Layer[V]{
		values:      make(map[string]V),
		watchers:    make(map[int]func([]Change[V])),
		keyWatchers: make(map[string]map[int]func(V)),
	}
}

// Get returns the value stored under key.
func (l *Layer[V]) Get(key string) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.values[key]
	return v, ok
}

// Has reports whether key is present.
func (l *Layer[V]) Has(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.values[key]
	return ok
}

// Len returns the number of stored keys.
func (l *Layer[V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.values)
}

// Keys returns the stored keys in insertion order.
func (l *Layer[V]) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, len(l.order))
	copy(keys, l.order)
	return keys
}

// Items returns a snapshot of all entries in insertion order.
func (l *Layer[V]) Items() []Item[V] {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]Item[V], 0, len(l.order))
	for _, k := range l.order {
		items = append(items, Item[V]{Key: k, Value: l.values[k]})
	}
	return items
}

// Set stores value under key and notifies watchers with a single-change batch.
func (l *Layer[V]) Set(key string, value V) {
	l.Apply([]Change[V]{{Key: key, Value: value}})
}

// Delete removes key and notifies watchers. Deleting an absent key is a no-op
// and produces no notification.
func (l *Layer[V]) Delete(key string) {
	l.Apply([]Change[V]{{Key: key, Deleted: true}})
}

// Apply performs a batch of mutations atomically and delivers the effective
// changes to watchers as one batch. Deletions of absent keys are dropped from
// the batch. The state lock is released before watchers run, so a watcher is
// free to read this layer; the notify lock is taken over first so batches
// from concurrent mutators still arrive in commit order.
func (l *Layer[V]) Apply(changes []Change[V]) {
	l.mu.Lock()

	effective := make([]Change[V], 0, len(changes))
	for _, ch := range changes {
		if ch.Deleted {
			if _, ok := l.values[ch.Key]; !ok {
				continue
			}
			delete(l.values, ch.Key)
			l.removeFromOrder(ch.Key)
		} else {
			if _, ok := l.values[ch.Key]; !ok {
				l.order = append(l.order, ch.Key)
			}
			l.values[ch.Key] = ch.Value
		}
		effective = append(effective, ch)
	}

	if len(effective) == 0 {
		l.mu.Unlock()
		return
	}

	// Snapshot the recipients under the state lock; a watcher cancelling
	// itself mid-delivery takes effect from the next batch.
	watchers := make([]func([]Change[V]), 0, len(l.watchers))
	for _, fn := range l.watchers {
		watchers = append(watchers, fn)
	}
	type keyDelivery struct {
		fn    func(V)
		value V
	}
	var keyDeliveries []keyDelivery
	for _, ch := range effective {
		if ch.Deleted {
			continue
		}
		for _, fn := range l.keyWatchers[ch.Key] {
			keyDeliveries = append(keyDeliveries, keyDelivery{fn: fn, value: ch.Value})
		}
	}

	l.notifyMu.Lock()
	l.mu.Unlock()
	defer l.notifyMu.Unlock()

	for _, fn := range watchers {
		fn(effective)
	}
	for _, d := range keyDeliveries {
		d.fn(d.value)
	}
}

// Watch registers fn to receive every effective change batch.
// The returned subscription detaches the watcher when cancelled.
func (l *Layer[V]) Watch(fn func([]Change[V])) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.watchers[id] = fn

	return newSubscription(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.watchers, id)
	})
}

// WatchKey registers fn to receive the new value whenever key is upserted.
// Deletions of the key do not fire the watcher.
func (l *Layer[V]) WatchKey(key string, fn func(V)) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	if l.keyWatchers[key] == nil {
		l.keyWatchers[key] = make(map[int]func(V))
	}
	l.keyWatchers[key][id] = fn

	return newSubscription(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.keyWatchers[key], id)
		if len(l.keyWatchers[key]) == 0 {
			delete(l.keyWatchers, key)
		}
	})
}

// removeFromOrder drops key from the insertion-order slice.
// Callers must hold l.mu.
func (l *Layer[V]) removeFromOrder(key string) {
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}
