package source

import (
	"errors"
	"testing"
)

// recordingListener counts lifecycle callbacks.
type recordingListener struct {
	fails, disables, enables, shutdowns int
}

func (l *recordingListener) OnFail()     { l.fails++ }
func (l *recordingListener) OnDisable()  { l.disables++ }
func (l *recordingListener) OnEnable()   { l.enables++ }
func (l *recordingListener) OnShutdown() { l.shutdowns++ }

func TestConnectorSource_New(t *testing.T) {
	t.Run("builds from a valid entry", func(t *testing.T) {
		src, err := NewConnectorSource("rtl0", Entry{"type": "rtlsdr", "name": "RTL-SDR stick"})
		if err != nil {
			t.Fatalf("NewConnectorSource() error = %v", err)
		}
		if src.ID() != "rtl0" {
			t.Errorf("ID() = %q, want %q", src.ID(), "rtl0")
		}
		if src.Name() != "RTL-SDR stick" {
			t.Errorf("Name() = %q, want %q", src.Name(), "RTL-SDR stick")
		}
		if !src.IsEnabled() || src.IsFailed() {
			t.Error("new source should start enabled and healthy")
		}
	})

	t.Run("rejects an entry without a name", func(t *testing.T) {
		_, err := NewConnectorSource("rtl0", Entry{"type": "rtlsdr"})
		if !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("NewConnectorSource() error = %v, want ErrInvalidEntry", err)
		}
	})

	t.Run("built-in types are registered", func(t *testing.T) {
		for _, typ := range []string{"rtlsdr", "sdrplay", "airspy", "hackrf"} {
			if _, ok := lookupDriver(typ); !ok {
				t.Errorf("no driver registered for %q", typ)
			}
		}
	})
}

func TestConnectorSource_Lifecycle(t *testing.T) {
	newSource := func(t *testing.T) (*ConnectorSource, *recordingListener) {
		t.Helper()
		src, err := NewConnectorSource("dev", Entry{"type": "rtlsdr", "name": "Dev"})
		if err != nil {
			t.Fatalf("NewConnectorSource() error = %v", err)
		}
		cs := src.(*ConnectorSource)
		l := &recordingListener{}
		cs.AddListener(l)
		return cs, l
	}

	t.Run("failure and recovery", func(t *testing.T) {
		src, l := newSource(t)

		src.SetFailed(true)
		if !src.IsFailed() || l.fails != 1 {
			t.Errorf("fails = %d, IsFailed = %v, want 1, true", l.fails, src.IsFailed())
		}

		// repeated failure is not re-announced
		src.SetFailed(true)
		if l.fails != 1 {
			t.Errorf("fails = %d after duplicate SetFailed, want 1", l.fails)
		}

		src.SetFailed(false)
		if src.IsFailed() || l.enables != 1 {
			t.Errorf("enables = %d, IsFailed = %v, want 1, false", l.enables, src.IsFailed())
		}
	})

	t.Run("disable and enable", func(t *testing.T) {
		src, l := newSource(t)

		src.SetEnabled(false)
		if src.IsEnabled() || l.disables != 1 {
			t.Errorf("disables = %d, IsEnabled = %v, want 1, false", l.disables, src.IsEnabled())
		}

		src.SetEnabled(true)
		if !src.IsEnabled() || l.enables != 1 {
			t.Errorf("enables = %d, IsEnabled = %v, want 1, true", l.enables, src.IsEnabled())
		}
	})

	t.Run("enabling a failed source is not announced", func(t *testing.T) {
		src, l := newSource(t)

		src.SetFailed(true)
		src.SetEnabled(false)
		src.SetEnabled(true)

		if l.enables != 0 {
			t.Errorf("enables = %d, want 0 (still failed)", l.enables)
		}
	})

	t.Run("shutdown fires exactly once", func(t *testing.T) {
		src, l := newSource(t)

		src.Shutdown()
		src.Shutdown()

		if l.shutdowns != 1 {
			t.Errorf("shutdowns = %d, want 1", l.shutdowns)
		}
	})

	t.Run("removed listener receives nothing", func(t *testing.T) {
		src, l := newSource(t)
		src.RemoveListener(l)

		src.SetFailed(true)
		if l.fails != 0 {
			t.Errorf("fails = %d after removal, want 0", l.fails)
		}
	})

	t.Run("rename propagates through the property layer", func(t *testing.T) {
		src, _ := newSource(t)

		var seen string
		src.Props().WatchKey("name", func(v any) {
			if s, ok := v.(string); ok {
				seen = s
			}
		})
		src.SetName("Attic antenna")

		if seen != "Attic antenna" {
			t.Errorf("rename watcher saw %q, want %q", seen, "Attic antenna")
		}
		if src.Name() != "Attic antenna" {
			t.Errorf("Name() = %q, want %q", src.Name(), "Attic antenna")
		}
	})
}
