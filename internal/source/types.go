package source

import (
	"reflect"

	"github.com/nerrad567/radiomux/internal/props"
)

// Entry is the configuration record for one source.
//
// It must contain a "type" tag (selects the driver) and a "name" (display
// string). Remaining keys are driver-specific and opaque to this package.
type Entry map[string]any

// Type returns the driver type tag, or "" if missing.
func (e Entry) Type() string {
	if t, ok := e["type"].(string); ok {
		return t
	}
	return ""
}

// Name returns the display name, or "" if missing.
func (e Entry) Name() string {
	if n, ok := e["name"].(string); ok {
		return n
	}
	return ""
}

// Enabled returns the enabled flag. Sources are enabled unless the entry
// explicitly disables them.
func (e Entry) Enabled() bool {
	if v, ok := e["enabled"].(bool); ok {
		return v
	}
	return true
}

// Equal reports whether two entries describe the same configuration.
func (e Entry) Equal(other Entry) bool {
	return reflect.DeepEqual(e, other)
}

// Source is the runtime proxy for one configured SDR device.
//
// The Registry owns every Source exclusively; the derived views hold
// non-owning references plus their own subscription handles. Lifecycle
// callbacks may fire on arbitrary goroutines. Stop is a soft pause;
// Shutdown is full teardown and is invoked by the Registry exactly once
// when a proxy is replaced or removed.
type Source interface {
	ID() string
	Name() string
	IsEnabled() bool
	IsFailed() bool

	// Props exposes the source's live property layer. The "name" key carries
	// rename events; other keys are driver-specific.
	Props() *props.Layer[any]

	Stop()
	Shutdown()

	AddListener(l LifecycleListener)
	RemoveListener(l LifecycleListener)
}

// LifecycleListener receives a source's health transitions.
type LifecycleListener interface {
	OnFail()
	OnDisable()
	OnEnable()
	OnShutdown()
}

// Availability reports whether a source type can run on this host.
// feature.Detector satisfies this interface. An error means the type tag
// itself is not recognised.
type Availability interface {
	Available(typ string) (bool, error)
}

// Logger defines the logging interface used by this package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
