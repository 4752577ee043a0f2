package source

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nerrad567/radiomux/internal/props"
)

// Registry materializes one Source proxy per configuration entry and keeps
// the set in lockstep with the configuration layer.
//
// Construction builds a proxy for every current entry, then watches the
// layer for change batches. Failures are isolated per key: one bad entry is
// logged and skipped, the rest of the batch still applies. A replaced or
// removed proxy is shut down exactly once, after its successor (if any) is
// installed.
type Registry struct {
	layer    *props.Layer[Source]
	features Availability
	logger   Logger

	mu      sync.Mutex
	entries map[string]Entry // last entry each live proxy was built from

	sub *props.Subscription
}

// RegistryOptions configures NewRegistry.
type RegistryOptions struct {
	// Config is the watchable layer of source entries. Required.
	Config *props.Layer[Entry]

	// Features gates which source types can run on this host. Required.
	Features Availability

	// Logger for per-key reconciliation failures. Optional.
	Logger Logger
}

// NewRegistry builds proxies for the current configuration and subscribes to
// subsequent change batches.
func NewRegistry(opts RegistryOptions) (*Registry, error) {
	if opts.Config == nil {
		return nil, errors.New("source: registry requires a config layer")
	}
	if opts.Features == nil {
		return nil, errors.New("source: registry requires a feature detector")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	r := &Registry{
		layer:    props.NewLayer[Source](),
		features: opts.Features,
		logger:   logger,
		entries:  make(map[string]Entry),
	}

	for _, item := range opts.Config.Items() {
		r.upsert(item.Key, item.Value)
	}
	r.sub = opts.Config.Watch(r.handleConfigChange)

	return r, nil
}

// Layer exposes the watchable id → Source mapping for the derived views.
func (r *Registry) Layer() *props.Layer[Source] {
	return r.layer
}

// Get returns the proxy for id.
func (r *Registry) Get(id string) (Source, bool) {
	return r.layer.Get(id)
}

// Count returns the number of live proxies.
func (r *Registry) Count() int {
	return r.layer.Len()
}

// Each invokes fn for every live proxy.
func (r *Registry) Each(fn func(id string, src Source)) {
	for _, item := range r.layer.Items() {
		fn(item.Key, item.Value)
	}
}

// Close detaches the registry from the configuration layer. Live proxies are
// left running; use Each with Shutdown for a full teardown.
func (r *Registry) Close() {
	r.sub.Cancel()
}

// handleConfigChange applies one configuration change batch.
func (r *Registry) handleConfigChange(changes []props.Change[Entry]) {
	for _, ch := range changes {
		if ch.Deleted {
			r.remove(ch.Key)
		} else {
			r.upsert(ch.Key, ch.Value)
		}
	}
}

// upsert creates or replaces the proxy for id. An upsert carrying the same
// entry the live proxy was built from is a no-op: no shutdown, no rebuild.
func (r *Registry) upsert(id string, entry Entry) {
	r.mu.Lock()
	prev, built := r.entries[id]
	r.mu.Unlock()
	if built && prev.Equal(entry) {
		return
	}

	if err := r.checkEntry(entry); err != nil {
		r.logger.Error("source entry rejected, check your configuration", "id", id, "error", err)
		r.remove(id)
		return
	}

	src, err := r.build(id, entry)
	if err != nil {
		r.logger.Error("source construction failed", "id", id, "type", entry.Type(), "error", err)
		r.remove(id)
		return
	}

	old, replaced := r.layer.Get(id)

	r.mu.Lock()
	r.entries[id] = entry
	r.mu.Unlock()

	r.layer.Set(id, src)

	// The old proxy is shut down only after its successor is installed.
	if replaced {
		old.Shutdown()
	}

	r.logger.Info("source installed", "id", id, "type", entry.Type(), "replaced", replaced)
}

// remove drops the proxy for id, shutting it down. Removing an id with no
// live proxy is a no-op.
func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()

	old, ok := r.layer.Get(id)
	r.layer.Delete(id)
	if ok {
		old.Shutdown()
		r.logger.Info("source removed", "id", id)
	}
}

// checkEntry validates the entry's type tag against the feature detector.
// A non-nil error leaves the key without a proxy; the caller logs it.
func (r *Registry) checkEntry(entry Entry) error {
	typ := entry.Type()
	if typ == "" {
		return fmt.Errorf("%w: entry has no type tag", ErrInvalidEntry)
	}

	available, err := r.features.Available(typ)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnknownType, typ, err)
	}
	if !available {
		return fmt.Errorf("%w: %q", ErrTypeUnavailable, typ)
	}
	return nil
}

// build resolves the driver for the entry's type tag and constructs the
// proxy. A panicking constructor is contained here so the rest of the batch
// still applies.
func (r *Registry) build(id string, entry Entry) (src Source, err error) {
	builder, ok := lookupDriver(entry.Type())
	if !ok {
		return nil, fmt.Errorf("%w: no driver registered for %q", ErrUnknownType, entry.Type())
	}

	defer func() {
		if p := recover(); p != nil {
			src = nil
			err = fmt.Errorf("%w: panic: %v", ErrBuildFailed, p)
		}
	}()

	src, err = builder(id, entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	return src, nil
}
