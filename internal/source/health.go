package source

import (
	"sync"

	"github.com/nerrad567/radiomux/internal/props"
)

// HealthView is the read-only overlay of sources that are currently enabled
// and not failed.
//
// Presence in the view tracks health, not configuration: a source leaves and
// re-enters purely through its own lifecycle callbacks, without any
// configuration change. Every tracked key carries exactly one stateHandler
// listening to the source's lifecycle events; the handler is created when
// the registry installs the proxy and detached exactly once when the proxy
// is replaced or removed.
type HealthView struct {
	layer  *props.Layer[Source]
	logger Logger

	mu       sync.Mutex
	handlers map[string]*stateHandler

	sub *props.Subscription
}

// NewHealthView derives a health overlay from the registry's current
// contents and tracks its change batches.
func NewHealthView(reg *Registry, logger Logger) *HealthView {
	if logger == nil {
		logger = noopLogger{}
	}

	v := &HealthView{
		layer:    props.NewLayer[Source](),
		logger:   logger,
		handlers: make(map[string]*stateHandler),
	}

	for _, item := range reg.Layer().Items() {
		v.add(item.Key, item.Value)
	}
	v.sub = reg.Layer().Watch(v.handleSourceChange)

	return v
}

// Layer exposes the watchable overlay for downstream views.
func (v *HealthView) Layer() *props.Layer[Source] {
	return v.layer
}

// Get returns the source for id when it is currently healthy.
func (v *HealthView) Get(id string) (Source, bool) {
	return v.layer.Get(id)
}

// Keys returns the ids currently in the view.
func (v *HealthView) Keys() []string {
	return v.layer.Keys()
}

// Len returns the number of healthy sources.
func (v *HealthView) Len() int {
	return v.layer.Len()
}

// Close detaches the view from the registry and drops all state handlers.
func (v *HealthView) Close() {
	v.sub.Cancel()

	v.mu.Lock()
	handlers := v.handlers
	v.handlers = make(map[string]*stateHandler)
	v.mu.Unlock()

	for _, h := range handlers {
		h.detach()
	}
}

// handleSourceChange applies one registry change batch.
func (v *HealthView) handleSourceChange(changes []props.Change[Source]) {
	for _, ch := range changes {
		if ch.Deleted {
			v.remove(ch.Key)
		} else {
			v.add(ch.Key, ch.Value)
		}
	}
}

func available(src Source) bool {
	return src.IsEnabled() && !src.IsFailed()
}

// add tracks a newly installed or replaced proxy. The previous handler for
// the key, if any, is detached first so the key never carries two.
func (v *HealthView) add(key string, src Source) {
	h := &stateHandler{overlay: v.layer, key: key, source: src}

	v.mu.Lock()
	if old := v.handlers[key]; old != nil {
		old.detach()
	}
	v.handlers[key] = h
	v.mu.Unlock()

	if available(src) {
		v.layer.Set(key, src)
	} else {
		v.layer.Delete(key)
	}

	src.AddListener(h)
}

// remove untracks a key: handler detached, overlay entry dropped.
func (v *HealthView) remove(key string) {
	v.mu.Lock()
	h := v.handlers[key]
	delete(v.handlers, key)
	v.mu.Unlock()

	if h != nil {
		h.detach()
	}
	v.layer.Delete(key)
}

// stateHandler translates one source's lifecycle callbacks into overlay
// mutations. Callbacks may arrive on arbitrary goroutines; the overlay
// serializes them.
type stateHandler struct {
	overlay *props.Layer[Source]
	key     string
	source  Source

	detachOnce sync.Once
}

// detach removes the handler from its source. Safe to call more than once.
func (h *stateHandler) detach() {
	h.detachOnce.Do(func() {
		h.source.RemoveListener(h)
	})
}

func (h *stateHandler) OnFail() {
	h.overlay.Delete(h.key)
}

func (h *stateHandler) OnDisable() {
	h.overlay.Delete(h.key)
}

func (h *stateHandler) OnEnable() {
	h.overlay.Set(h.key, h.source)
}

func (h *stateHandler) OnShutdown() {
	h.overlay.Delete(h.key)
}
