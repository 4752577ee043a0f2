// Package props provides the watchable property layers that carry state
// between the radiomux pipeline stages.
//
// A Layer is an ordered, mutable mapping from string keys to values. Every
// mutation produces a batch of Changes that is delivered synchronously to
// registered watchers, which is how configuration edits propagate through
// the source registry and into the derived health and profile views.
//
// # Key Types
//
//   - Layer: ordered key/value mapping with batch change notification
//   - Change: a single upsert or deletion within a batch
//   - Subscription: cancellable watcher handle (idempotent Cancel)
//
// # Usage
//
//	layer := props.NewLayer[string]()
//	sub := layer.Watch(func(changes []props.Change[string]) {
//	    for _, ch := range changes {
//	        // react to upserts and deletions
//	    }
//	})
//	layer.Set("rtl0", "RTL-SDR stick")
//	sub.Cancel()
//
// # Thread Safety
//
// All Layer methods are safe for concurrent use. Mutations commit under the
// layer's state lock, then the batch is delivered with only a delivery lock
// held, so watchers observe batches in commit order and may read the
// notifying layer (Get, Len, Items) — they always see the post-mutation
// state. A watcher must not mutate the layer that is notifying it (the
// delivery lock is not reentrant); mutating other layers is the normal
// pattern.
package props
