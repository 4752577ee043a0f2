package source

import (
	"fmt"
	"sync"

	"github.com/nerrad567/radiomux/internal/props"
)

// fakeAvailability is a map-backed feature detector for tests.
// Types missing from the map are treated as unknown.
type fakeAvailability struct {
	available map[string]bool
}

func (f fakeAvailability) Available(typ string) (bool, error) {
	ok, known := f.available[typ]
	if !known {
		return false, fmt.Errorf("unknown type %q", typ)
	}
	return ok, nil
}

// captureLogger records error-level log calls so tests can assert on the
// error values the registry attaches.
type captureLogger struct {
	mu      sync.Mutex
	errored []logLine
}

type logLine struct {
	msg  string
	args []any
}

func (c *captureLogger) Debug(string, ...any) {}
func (c *captureLogger) Info(string, ...any)  {}
func (c *captureLogger) Warn(string, ...any)  {}

func (c *captureLogger) Error(msg string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errored = append(c.errored, logLine{msg: msg, args: args})
}

// lastError returns the error value attached to the most recent error-level
// line, if any.
func (c *captureLogger) lastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errored) == 0 {
		return nil
	}
	args := c.errored[len(c.errored)-1].args
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "error" {
			if err, ok := args[i+1].(error); ok {
				return err
			}
		}
	}
	return nil
}

// fakeSource is a test implementation of Source with controllable lifecycle
// transitions and instrumented Stop/Shutdown counters.
type fakeSource struct {
	id    string
	layer *props.Layer[any]

	mu            sync.Mutex
	listeners     []LifecycleListener
	enabled       bool
	failed        bool
	stopCount     int
	shutdownCount int
}

func newFakeSource(id, name string) *fakeSource {
	layer := props.NewLayer[any]()
	layer.Set("name", name)
	return &fakeSource{
		id:      id,
		layer:   layer,
		enabled: true,
	}
}

func (s *fakeSource) ID() string { return s.id }

func (s *fakeSource) Name() string {
	v, _ := s.layer.Get("name")
	name, _ := v.(string)
	return name
}

func (s *fakeSource) IsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *fakeSource) IsFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

func (s *fakeSource) Props() *props.Layer[any] { return s.layer }

func (s *fakeSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCount++
}

func (s *fakeSource) Shutdown() {
	s.mu.Lock()
	s.shutdownCount++
	s.mu.Unlock()
	s.fire(func(l LifecycleListener) { l.OnShutdown() })
}

func (s *fakeSource) AddListener(l LifecycleListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *fakeSource) RemoveListener(l LifecycleListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reg := range s.listeners {
		if reg == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *fakeSource) listenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *fakeSource) stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCount
}

func (s *fakeSource) shutdowns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownCount
}

// fail flips the source into the failed state and fires OnFail.
func (s *fakeSource) fail() {
	s.mu.Lock()
	s.failed = true
	s.mu.Unlock()
	s.fire(func(l LifecycleListener) { l.OnFail() })
}

// recover clears the failed state and fires OnEnable.
func (s *fakeSource) recover() {
	s.mu.Lock()
	s.failed = false
	s.mu.Unlock()
	s.fire(func(l LifecycleListener) { l.OnEnable() })
}

// disable clears the enabled flag and fires OnDisable.
func (s *fakeSource) disable() {
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
	s.fire(func(l LifecycleListener) { l.OnDisable() })
}

// enable sets the enabled flag and fires OnEnable.
func (s *fakeSource) enable() {
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()
	s.fire(func(l LifecycleListener) { l.OnEnable() })
}

// rename updates the display name through the property layer.
func (s *fakeSource) rename(name string) {
	s.layer.Set("name", name)
}

func (s *fakeSource) fire(fn func(LifecycleListener)) {
	s.mu.Lock()
	snapshot := make([]LifecycleListener, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()
	for _, l := range snapshot {
		fn(l)
	}
}

// fakeDriver registers a builder for typ that produces fakeSources and
// records them by id. Each test uses its own type tag so the global driver
// table stays conflict-free across tests.
type fakeDriver struct {
	mu     sync.Mutex
	built  map[string][]*fakeSource
	builds int
}

func newFakeDriver(typ string) *fakeDriver {
	d := &fakeDriver{built: make(map[string][]*fakeSource)}
	RegisterDriver(typ, func(id string, entry Entry) (Source, error) {
		src := newFakeSource(id, entry.Name())
		if !entry.Enabled() {
			src.mu.Lock()
			src.enabled = false
			src.mu.Unlock()
		}
		d.mu.Lock()
		d.built[id] = append(d.built[id], src)
		d.builds++
		d.mu.Unlock()
		return src, nil
	})
	return d
}

// latest returns the most recently built source for id.
func (d *fakeDriver) latest(id string) *fakeSource {
	d.mu.Lock()
	defer d.mu.Unlock()
	srcs := d.built[id]
	if len(srcs) == 0 {
		return nil
	}
	return srcs[len(srcs)-1]
}

func (d *fakeDriver) buildCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.builds
}

// entry builds a minimal config entry for the given driver type.
func entryFor(typ, name string) Entry {
	return Entry{"type": typ, "name": name}
}

// configLayer seeds a config layer from id → entry pairs.
func configLayer(entries map[string]Entry) *props.Layer[Entry] {
	layer := props.NewLayer[Entry]()
	for id, e := range entries {
		layer.Set(id, e)
	}
	return layer
}
