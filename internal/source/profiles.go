package source

import (
	"sync"

	"github.com/nerrad567/radiomux/internal/props"
)

// ProfileCatalog is the read-only overlay mapping each healthy source's id
// to its current display name.
//
// The catalog tracks the HealthView, so its key set always settles to the
// health view's key set. For every tracked id it holds a subscription to the
// source's "name" property; renames update the overlay in place. When an id
// leaves the view its subscriptions are cancelled most-recently-added first
// and discarded.
type ProfileCatalog struct {
	layer *props.Layer[string]

	mu   sync.Mutex
	subs map[string][]*props.Subscription

	sub *props.Subscription
}

// NewProfileCatalog derives a name catalog from the health view's current
// contents and tracks its change batches.
func NewProfileCatalog(view *HealthView) *ProfileCatalog {
	c := &ProfileCatalog{
		layer: props.NewLayer[string](),
		subs:  make(map[string][]*props.Subscription),
	}

	for _, item := range view.Layer().Items() {
		c.add(item.Key, item.Value)
	}
	c.sub = view.Layer().Watch(c.handleSourceChange)

	return c
}

// Layer exposes the id → name overlay.
func (c *ProfileCatalog) Layer() *props.Layer[string] {
	return c.layer
}

// Name returns the display name for id.
func (c *ProfileCatalog) Name(id string) (string, bool) {
	return c.layer.Get(id)
}

// Keys returns the ids currently in the catalog.
func (c *ProfileCatalog) Keys() []string {
	return c.layer.Keys()
}

// Len returns the number of catalogued sources.
func (c *ProfileCatalog) Len() int {
	return c.layer.Len()
}

// Close detaches the catalog from the health view and drains every rename
// subscription.
func (c *ProfileCatalog) Close() {
	c.sub.Cancel()
	for _, id := range c.layer.Keys() {
		c.drain(id)
	}
}

// handleSourceChange applies one health view change batch.
func (c *ProfileCatalog) handleSourceChange(changes []props.Change[Source]) {
	for _, ch := range changes {
		if ch.Deleted {
			c.remove(ch.Key)
		} else {
			c.add(ch.Key, ch.Value)
		}
	}
}

// add catalogues a source and subscribes to its rename events. Re-adding an
// id (a source re-entering the health view) drains the stale subscriptions
// first so none leak.
func (c *ProfileCatalog) add(key string, src Source) {
	c.drain(key)

	c.layer.Set(key, src.Name())

	nameSub := src.Props().WatchKey("name", func(v any) {
		if name, ok := v.(string); ok {
			c.layer.Set(key, name)
		}
	})

	c.mu.Lock()
	c.subs[key] = []*props.Subscription{nameSub}
	c.mu.Unlock()
}

// remove drops the catalog entry and its subscriptions.
func (c *ProfileCatalog) remove(key string) {
	c.layer.Delete(key)
	c.drain(key)
}

// drain cancels the stored subscriptions for key in reverse registration
// order and discards the list.
func (c *ProfileCatalog) drain(key string) {
	c.mu.Lock()
	subs := c.subs[key]
	delete(c.subs, key)
	c.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Cancel()
	}
}
