package props

import "sync"

// Subscription is a cancellable watcher handle returned by Watch and WatchKey.
//
// Cancel detaches the watcher from its layer. It is idempotent: the second and
// subsequent calls are no-ops, never a fault.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel detaches the watcher. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
