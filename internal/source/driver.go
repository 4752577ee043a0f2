package source

import (
	"fmt"
	"sync"

	"github.com/nerrad567/radiomux/internal/props"
)

// Built-in connector-backed source types. Each drives an external receiver
// binary; the feature detector gates which of these are usable on the host.
func init() {
	for _, typ := range []string{"rtlsdr", "sdrplay", "airspy", "hackrf"} {
		RegisterDriver(typ, NewConnectorSource)
	}
}

// ConnectorSource is the generic proxy for receivers driven through an
// external connector process. Concrete drivers embed it for the lifecycle
// and listener plumbing and layer their own I/O on top.
//
// The connector process itself (spawning, sample transport) is outside this
// core; ConnectorSource models the lifecycle the views react to.
type ConnectorSource struct {
	id    string
	props *props.Layer[any]

	mu        sync.Mutex
	listeners []LifecycleListener
	failed    bool
	running   bool

	shutdownOnce sync.Once
}

// NewConnectorSource builds a ConnectorSource from a config entry.
// The entry must carry a display name.
func NewConnectorSource(id string, entry Entry) (Source, error) {
	if entry.Name() == "" {
		return nil, fmt.Errorf("%w: source %q has no name", ErrInvalidEntry, id)
	}

	layer := props.NewLayer[any]()
	for k, v := range entry {
		layer.Set(k, v)
	}

	return &ConnectorSource{
		id:      id,
		props:   layer,
		running: true,
	}, nil
}

// ID returns the source's configuration key.
func (s *ConnectorSource) ID() string {
	return s.id
}

// Name returns the current display name.
func (s *ConnectorSource) Name() string {
	if n, ok := s.props.Get("name"); ok {
		if name, ok := n.(string); ok {
			return name
		}
	}
	return s.id
}

// IsEnabled reports the enabled flag from the source's properties.
// Sources are enabled unless explicitly disabled.
func (s *ConnectorSource) IsEnabled() bool {
	if v, ok := s.props.Get("enabled"); ok {
		if enabled, ok := v.(bool); ok {
			return enabled
		}
	}
	return true
}

// IsFailed reports whether the source is in the failed state.
func (s *ConnectorSource) IsFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Props returns the source's live property layer.
func (s *ConnectorSource) Props() *props.Layer[any] {
	return s.props
}

// Stop soft-pauses the source. Unlike Shutdown it fires no lifecycle event
// and the source can be started again.
func (s *ConnectorSource) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Shutdown tears the source down and notifies listeners exactly once.
func (s *ConnectorSource) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.notify(func(l LifecycleListener) { l.OnShutdown() })
	})
}

// SetFailed transitions the source's failure state. Entering the failed
// state fires OnFail; recovering fires OnEnable when the source is enabled.
func (s *ConnectorSource) SetFailed(failed bool) {
	s.mu.Lock()
	if s.failed == failed {
		s.mu.Unlock()
		return
	}
	s.failed = failed
	s.mu.Unlock()

	if failed {
		s.notify(func(l LifecycleListener) { l.OnFail() })
	} else if s.IsEnabled() {
		s.notify(func(l LifecycleListener) { l.OnEnable() })
	}
}

// SetEnabled flips the enabled flag and fires OnEnable or OnDisable.
func (s *ConnectorSource) SetEnabled(enabled bool) {
	if s.IsEnabled() == enabled {
		return
	}
	s.props.Set("enabled", enabled)

	switch {
	case !enabled:
		s.notify(func(l LifecycleListener) { l.OnDisable() })
	case !s.IsFailed():
		s.notify(func(l LifecycleListener) { l.OnEnable() })
	}
}

// SetName updates the display name, propagating a rename event through the
// property layer.
func (s *ConnectorSource) SetName(name string) {
	s.props.Set("name", name)
}

// AddListener registers a lifecycle listener.
func (s *ConnectorSource) AddListener(l LifecycleListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// RemoveListener detaches a previously registered listener.
// Removing a listener that is not registered is a no-op.
func (s *ConnectorSource) RemoveListener(l LifecycleListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reg := range s.listeners {
		if reg == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// notify invokes fn for every registered listener, outside the source lock.
func (s *ConnectorSource) notify(fn func(LifecycleListener)) {
	s.mu.Lock()
	snapshot := make([]LifecycleListener, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, l := range snapshot {
		fn(l)
	}
}
