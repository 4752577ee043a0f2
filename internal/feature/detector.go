package feature

import (
	"fmt"
	"os/exec"
	"sync"
)

// Probe reports whether the driver tooling for one source type is usable
// on this host.
type Probe func() bool

// Detector maps source type tags to availability probes.
//
// Probe results are cached after the first check: driver availability does
// not change while the process runs.
type Detector struct {
	mu     sync.Mutex
	probes map[string]Probe
	cache  map[string]bool
}

// NewDetector creates a detector with probes for the built-in source types.
func NewDetector() *Detector {
	d := &Detector{
		probes: make(map[string]Probe),
		cache:  make(map[string]bool),
	}
	for typ, binary := range defaultProbes() {
		d.Register(typ, BinaryProbe(binary))
	}
	return d
}

// defaultProbes lists the built-in source types and the driver binary each
// one needs.
func defaultProbes() map[string]string {
	return map[string]string{
		"rtlsdr":  "rtl_sdr",
		"sdrplay": "rx_sdr",
		"airspy":  "airspy_rx",
		"hackrf":  "hackrf_transfer",
	}
}

// BinaryProbe returns a probe that checks for binary on PATH.
func BinaryProbe(binary string) Probe {
	return func() bool {
		_, err := exec.LookPath(binary)
		return err == nil
	}
}

// Register adds or replaces the probe for a source type.
// Driver plugins call this at process start.
func (d *Detector) Register(typ string, probe Probe) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.probes[typ] = probe
	delete(d.cache, typ)
}

// Available reports whether the given source type can run on this host.
// Returns ErrUnknownFeature if the type has no registered probe.
func (d *Detector) Available(typ string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ok, cached := d.cache[typ]; cached {
		return ok, nil
	}

	probe, ok := d.probes[typ]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFeature, typ)
	}

	available := probe()
	d.cache[typ] = available
	return available, nil
}

// Known returns whether the type tag has a registered probe.
func (d *Detector) Known(typ string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.probes[typ]
	return ok
}
